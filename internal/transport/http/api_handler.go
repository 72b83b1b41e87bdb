package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"nandoku-quiz-service/internal/app"
	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/domain"
)

// APIHandler exposes the level table and catalog views as JSON.
type APIHandler struct {
	service *app.StudyService
	logger  *zap.Logger
}

func NewAPIHandler(service *app.StudyService, logger *zap.Logger) *APIHandler {
	return &APIHandler{service: service, logger: logger}
}

// Register mounts the JSON routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/levels", h.listLevels)
	mux.HandleFunc("GET /api/levels/{id}/entries", h.listEntries)
}

func (h *APIHandler) listLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Levels())
}

func (h *APIHandler) listEntries(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.OpenLevel(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Debug("entries request failed", zap.String("level", r.PathValue("id")), zap.Error(err))
		writeJSON(w, statusFor(err), errorPayload{Code: errorCode(err), Message: err.Error()})
		return
	}

	q := r.URL.Query()
	tag := q.Get("tag")
	if tag == "" {
		tag = catalog.TagAll
	}
	mode := domain.SearchMode(q.Get("mode"))
	if mode == "" {
		mode = domain.SearchReading
	}
	writeJSON(w, http.StatusOK, entriesPayload{
		Tag:     tag,
		Mode:    string(mode),
		Query:   q.Get("q"),
		Entries: newEntryViews(c.View(tag, mode, q.Get("q")), nil),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownLevel):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLevelNotReady):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
