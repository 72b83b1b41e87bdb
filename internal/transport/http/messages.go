package http

import (
	"encoding/json"
	"errors"

	"nandoku-quiz-service/internal/annotation"
	"nandoku-quiz-service/internal/app"
	"nandoku-quiz-service/internal/domain"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type browsePayload struct {
	Tag   string `json:"tag"`
	Mode  string `json:"mode"`
	Query string `json:"query"`
}

type revealPayload struct {
	Key string `json:"key"`
}

type formatPayload struct {
	Format string `json:"format"`
}

type textPayload struct {
	Text string `json:"text"`
}

type choicePayload struct {
	Index int `json:"index"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type levelPayload struct {
	Level   domain.Level `json:"level"`
	Genres  []string     `json:"genres"`
	Entries int          `json:"entries"`
	Skipped int          `json:"skipped"`
}

// entryView is an entry together with its decoded reading.
type entryView struct {
	domain.Entry
	Segments []domain.Segment `json:"segments"`
	Core     string           `json:"core"`
	Revealed bool             `json:"revealed"`
}

type entriesPayload struct {
	Tag     string      `json:"tag"`
	Mode    string      `json:"mode"`
	Query   string      `json:"query"`
	Entries []entryView `json:"entries"`
}

// questionPayload never carries the reading of the asked entry.
type questionPayload struct {
	Key            string       `json:"key"`
	ImageReference string       `json:"imageReference"`
	Position       int          `json:"position"`
	Total          int          `json:"total"`
	Format         string       `json:"format"`
	Choices        []string     `json:"choices,omitempty"`
	Input          string       `json:"input,omitempty"`
	Score          domain.Score `json:"score"`
}

type resultPayload struct {
	app.Outcome
	Segments []domain.Segment `json:"segments"`
	Score    domain.Score     `json:"score"`
	Last     bool             `json:"last"`
}

func newEntryViews(entries []domain.Entry, revealed map[string]bool) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{
			Entry:    e,
			Segments: annotation.Segments(e.Reading),
			Core:     annotation.Core(e.Reading),
			Revealed: revealed[e.Key],
		})
	}
	return views
}

func newQuestion(s app.Session) questionPayload {
	current := s.Current()
	q := questionPayload{
		Key:            current.Key,
		ImageReference: current.ImageReference,
		Position:       s.Position(),
		Total:          s.Len(),
		Format:         string(s.Format()),
		Input:          s.Input(),
		Score:          s.Score(),
	}
	if set, ok := s.Choices(); ok {
		q.Choices = set.Options[:]
	}
	return q
}

func newResult(s app.Session, o app.Outcome) resultPayload {
	return resultPayload{
		Outcome:  o,
		Segments: annotation.Segments(o.Entry.Reading),
		Score:    s.Score(),
		Last:     s.Position() == s.Len()-1,
	}
}

func newError(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownLevel):
		return "unknown_level"
	case errors.Is(err, domain.ErrLevelNotReady):
		return "level_not_ready"
	case errors.Is(err, domain.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, domain.ErrEmptyCandidatePool):
		return "empty_pool"
	case errors.Is(err, domain.ErrNoActiveSession):
		return "no_session"
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return "already_answered"
	case errors.Is(err, domain.ErrNotAnswered):
		return "not_answered"
	case errors.Is(err, domain.ErrFormatMismatch):
		return "format_mismatch"
	case errors.Is(err, domain.ErrChoiceOutOfRange):
		return "choice_out_of_range"
	case errors.Is(err, domain.ErrInvalidFormat):
		return "invalid_format"
	default:
		return "bad_request"
	}
}
