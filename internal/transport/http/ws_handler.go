package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nandoku-quiz-service/internal/app"
	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/domain"
)

// WSHandler serves one study session per websocket connection.
type WSHandler struct {
	service  *app.StudyService
	registry app.SessionRegistry
	logger   *zap.Logger
	newRand  func() app.Rand
	upgrader websocket.Upgrader
}

// Option customises a WSHandler.
type Option func(*WSHandler)

// WithRand sets the randomness source handed to each connection's engine.
func WithRand(newRand func() app.Rand) Option {
	return func(h *WSHandler) { h.newRand = newRand }
}

func NewWSHandler(service *app.StudyService, registry app.SessionRegistry, logger *zap.Logger, opts ...Option) *WSHandler {
	h := &WSHandler{
		service:  service,
		registry: registry,
		logger:   logger,
		newRand:  app.NewRand,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// studyConn is the per-connection browse and quiz state. It is only touched
// by the read loop.
type studyConn struct {
	catalog  *catalog.Catalog
	engine   *app.Engine
	tag      string
	mode     domain.SearchMode
	query    string
	revealed map[string]bool
	send     chan<- outboundMessage[any]
}

// ServeWS upgrades HTTP requests to websockets and wires them into the study use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	levelID := r.URL.Query().Get("level")
	if levelID == "" {
		http.Error(w, "missing level", http.StatusBadRequest)
		return
	}
	if _, err := h.service.Level(levelID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log := h.logger.With(zap.String("conn", connID), zap.String("level", levelID))

	c, err := h.service.OpenLevel(r.Context(), levelID)
	if err != nil {
		_ = conn.WriteJSON(newError(err))
		return
	}

	h.registry.Register(connID, levelID)
	defer h.registry.Release(connID)
	log.Info("study session connected", zap.Int("active", h.registry.Active()))

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				// keep draining so the read loop never blocks
				for range send {
				}
				return
			}
		}
	}()

	sc := &studyConn{
		catalog:  c,
		engine:   app.NewEngine(h.newRand()),
		tag:      catalog.TagAll,
		mode:     domain.SearchReading,
		revealed: make(map[string]bool),
		send:     send,
	}

	send <- outboundMessage[any]{Type: "level", Payload: levelPayload{
		Level:   c.Level(),
		Genres:  catalog.Genres(),
		Entries: c.Len(),
		Skipped: c.Skipped(),
	}}
	sc.sendEntries()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := sc.handle(inbound); err != nil {
			log.Debug("study message rejected", zap.String("type", inbound.Type), zap.Error(err))
			send <- newError(err)
		}
	}

	close(send)
	<-writerDone
	log.Info("study session closed")
}

var errBadPayload = errors.New("invalid payload")

func (sc *studyConn) handle(in inboundMessage) error {
	switch in.Type {
	case "browse":
		var p browsePayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		sc.tag = p.Tag
		if sc.tag == "" {
			sc.tag = catalog.TagAll
		}
		sc.mode = domain.SearchMode(p.Mode)
		if sc.mode == "" {
			sc.mode = domain.SearchReading
		}
		sc.query = p.Query
		sc.sendEntries()
	case "reveal":
		var p revealPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		if _, ok := sc.catalog.Entry(p.Key); !ok {
			return errBadPayload
		}
		sc.revealed[p.Key] = !sc.revealed[p.Key]
		sc.sendEntries()
	case "start":
		var p formatPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		var (
			s   app.Session
			err error
		)
		if p.Format == "" {
			s, err = sc.engine.Start(sc.view())
		} else {
			format, ok := domain.ParseFormat(p.Format)
			if !ok {
				return domain.ErrInvalidFormat
			}
			s, err = sc.engine.StartWithFormat(sc.view(), format)
		}
		if err != nil {
			return err
		}
		sc.send <- outboundMessage[any]{Type: "question", Payload: newQuestion(s)}
	case "format":
		var p formatPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		if err := sc.setFormat(p.Format); err != nil {
			return err
		}
		if s, ok := sc.engine.Session(); ok {
			sc.send <- outboundMessage[any]{Type: "question", Payload: newQuestion(s)}
		} else {
			sc.send <- outboundMessage[any]{Type: "format", Payload: formatPayload{Format: string(sc.engine.Format())}}
		}
	case "input":
		var p textPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return sc.engine.SetInput(p.Text)
	case "answer":
		var p textPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		o, err := sc.engine.SubmitAnswer(p.Text)
		if err != nil {
			return err
		}
		sc.sendResult(o)
	case "choice":
		var p choicePayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		o, err := sc.engine.SubmitChoice(p.Index)
		if err != nil {
			return err
		}
		sc.sendResult(o)
	case "giveUp":
		o, err := sc.engine.GiveUp()
		if err != nil {
			return err
		}
		sc.sendResult(o)
	case "advance":
		next, summary, done, err := sc.engine.Advance()
		if err != nil {
			return err
		}
		if done {
			sc.send <- outboundMessage[any]{Type: "finished", Payload: summary}
			return nil
		}
		sc.send <- outboundMessage[any]{Type: "question", Payload: newQuestion(next)}
	case "quit":
		sc.engine.Quit()
		sc.sendEntries()
	default:
		return errors.New("unsupported message type")
	}
	return nil
}

func (sc *studyConn) setFormat(raw string) error {
	format, ok := domain.ParseFormat(raw)
	if !ok {
		return domain.ErrInvalidFormat
	}
	_, err := sc.engine.SetFormat(format)
	return err
}

func (sc *studyConn) view() []domain.Entry {
	return sc.catalog.View(sc.tag, sc.mode, sc.query)
}

func (sc *studyConn) sendEntries() {
	sc.send <- outboundMessage[any]{Type: "entries", Payload: entriesPayload{
		Tag:     sc.tag,
		Mode:    string(sc.mode),
		Query:   sc.query,
		Entries: newEntryViews(sc.view(), sc.revealed),
	}}
}

func (sc *studyConn) sendResult(o app.Outcome) {
	s, _ := sc.engine.Session()
	sc.send <- outboundMessage[any]{Type: "result", Payload: newResult(s, o)}
}

// decode accepts a missing payload as the zero value.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}
