package app

import (
	"nandoku-quiz-service/internal/domain"
)

// State is the quiz engine state.
type State int

const (
	StateBrowsing State = iota
	StateActive
	StateResult
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateResult:
		return "result"
	default:
		return "browsing"
	}
}

// Engine owns at most one live session and the last used answer format.
// It is driven by one caller at a time and is not safe for concurrent use.
type Engine struct {
	rng     Rand
	format  domain.Format
	session *Session
}

// NewEngine returns a browsing engine defaulting to input mode.
func NewEngine(rng Rand) *Engine {
	return &Engine{rng: rng, format: domain.FormatInput}
}

// State reports whether the engine is browsing, asking or showing a result.
func (e *Engine) State() State {
	switch {
	case e.session == nil:
		return StateBrowsing
	case e.session.Phase() == PhaseResult:
		return StateResult
	default:
		return StateActive
	}
}

// Format returns the format the next session starts with.
func (e *Engine) Format() domain.Format {
	return e.format
}

// Session returns the live session, if any.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// Start replaces any live session with a new one over pool. An empty pool
// leaves the engine untouched.
func (e *Engine) Start(pool []domain.Entry) (Session, error) {
	s, err := StartSession(pool, e.format, e.rng)
	if err != nil {
		return Session{}, err
	}
	e.session = &s
	return s, nil
}

// StartWithFormat is Start with format as the session format. The format
// becomes the last used one only once the session has started; the live
// session, if any, is discarded without being consulted.
func (e *Engine) StartWithFormat(pool []domain.Entry, format domain.Format) (Session, error) {
	s, err := StartSession(pool, format, e.rng)
	if err != nil {
		return Session{}, err
	}
	e.format = format
	e.session = &s
	return s, nil
}

// SetFormat changes the answer format. While browsing it only sets the
// format of the next session.
func (e *Engine) SetFormat(format domain.Format) (Session, error) {
	if _, ok := domain.ParseFormat(string(format)); !ok {
		return Session{}, domain.ErrInvalidFormat
	}
	if e.session == nil {
		e.format = format
		return Session{}, nil
	}
	s, err := e.session.WithFormat(format)
	if err != nil {
		return *e.session, err
	}
	e.format = format
	e.session = &s
	return s, nil
}

// SetInput records pending input for the current question.
func (e *Engine) SetInput(text string) error {
	return e.apply(func(s Session) (Session, error) {
		return s.WithInput(text)
	})
}

// SubmitAnswer judges typed text.
func (e *Engine) SubmitAnswer(text string) (Outcome, error) {
	return e.judge(func(s Session) (Session, Outcome, error) {
		return s.SubmitAnswer(text)
	})
}

// SubmitChoice judges a choice slot.
func (e *Engine) SubmitChoice(index int) (Outcome, error) {
	return e.judge(func(s Session) (Session, Outcome, error) {
		return s.SubmitChoice(index)
	})
}

// GiveUp marks the current question incorrect.
func (e *Engine) GiveUp() (Outcome, error) {
	return e.judge(Session.GiveUp)
}

// Advance moves to the next question. After the last one the session is
// discarded, the engine returns to browsing and the final summary is
// returned with done set.
func (e *Engine) Advance() (next Session, summary domain.Summary, done bool, err error) {
	if e.session == nil {
		return Session{}, domain.Summary{}, false, domain.ErrNoActiveSession
	}
	next, summary, done, err = e.session.Advance()
	if err != nil {
		return next, summary, false, err
	}
	if done {
		e.session = nil
		return Session{}, summary, true, nil
	}
	e.session = &next
	return next, summary, false, nil
}

// Quit abandons the live session without a trace.
func (e *Engine) Quit() {
	e.session = nil
}

func (e *Engine) apply(step func(Session) (Session, error)) error {
	if e.session == nil {
		return domain.ErrNoActiveSession
	}
	s, err := step(*e.session)
	if err != nil {
		return err
	}
	e.session = &s
	return nil
}

func (e *Engine) judge(step func(Session) (Session, Outcome, error)) (Outcome, error) {
	if e.session == nil {
		return Outcome{}, domain.ErrNoActiveSession
	}
	s, o, err := step(*e.session)
	if err != nil {
		return Outcome{}, err
	}
	e.session = &s
	return o, nil
}
