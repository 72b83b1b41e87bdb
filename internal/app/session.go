package app

import (
	"nandoku-quiz-service/internal/domain"
)

// Phase is the state of the current question.
type Phase int

const (
	// PhaseAnswering waits for a submission.
	PhaseAnswering Phase = iota
	// PhaseResult holds the outcome of the current question.
	PhaseResult
)

// Outcome is the result of one question.
type Outcome struct {
	Entry     domain.Entry `json:"entry"`
	Correct   bool         `json:"correct"`
	GaveUp    bool         `json:"gaveUp"`
	Submitted string       `json:"submitted,omitempty"`
	Choice    int          `json:"choice"`        // submitted slot, -1 outside choice mode
	Answer    int          `json:"correctChoice"` // correct slot, -1 outside choice mode
	Accepted  []string     `json:"accepted"`
}

// Session is one quiz run. Every transition returns a new value and leaves
// the receiver's fields untouched. Copies share the working set, which is
// never mutated, and the random source, which advances: regenerating choices
// from an older value gives a different draw.
type Session struct {
	rng        Rand
	workingSet []domain.Entry
	position   int
	format     domain.Format
	score      domain.Score
	phase      Phase
	choices    domain.ChoiceSet
	input      string
	outcome    Outcome
}

// StartSession permutes pool into a new session positioned on its first entry.
func StartSession(pool []domain.Entry, format domain.Format, rng Rand) (Session, error) {
	if len(pool) == 0 {
		return Session{}, domain.ErrEmptyCandidatePool
	}
	if _, ok := domain.ParseFormat(string(format)); !ok {
		return Session{}, domain.ErrInvalidFormat
	}

	workingSet := append([]domain.Entry(nil), pool...)
	rng.Shuffle(len(workingSet), func(i, j int) {
		workingSet[i], workingSet[j] = workingSet[j], workingSet[i]
	})

	s := Session{
		rng:        rng,
		workingSet: workingSet,
		format:     format,
	}
	return s.enter(), nil
}

// enter prepares the question at the current position.
func (s Session) enter() Session {
	s.phase = PhaseAnswering
	s.input = ""
	s.outcome = Outcome{}
	s.choices = domain.ChoiceSet{}
	if s.format == domain.FormatChoice {
		s.choices = GenerateChoices(s.Current(), s.workingSet, s.rng)
	}
	return s
}

// Current returns the entry asked at the current position.
func (s Session) Current() domain.Entry {
	return s.workingSet[s.position]
}

// Position returns the zero-based question index.
func (s Session) Position() int {
	return s.position
}

// Len returns the number of questions.
func (s Session) Len() int {
	return len(s.workingSet)
}

// Format returns the active answer format.
func (s Session) Format() domain.Format {
	return s.format
}

// Score returns the running score.
func (s Session) Score() domain.Score {
	return s.score
}

// Phase returns the state of the current question.
func (s Session) Phase() Phase {
	return s.phase
}

// Input returns the pending, unsubmitted input text.
func (s Session) Input() string {
	return s.input
}

// Choices returns the option slots in choice mode.
func (s Session) Choices() (domain.ChoiceSet, bool) {
	return s.choices, s.format == domain.FormatChoice
}

// Outcome returns the result of the current question once it has one.
func (s Session) Outcome() (Outcome, bool) {
	return s.outcome, s.phase == PhaseResult
}

// WithInput records pending input for the current question.
func (s Session) WithInput(text string) (Session, error) {
	if s.phase != PhaseAnswering {
		return s, domain.ErrAlreadyAnswered
	}
	s.input = text
	return s, nil
}

// WithFormat switches the answer format before the current question is
// answered. Pending input is cleared and choices are regenerated; the score
// is kept.
func (s Session) WithFormat(format domain.Format) (Session, error) {
	if _, ok := domain.ParseFormat(string(format)); !ok {
		return s, domain.ErrInvalidFormat
	}
	if s.phase != PhaseAnswering {
		return s, domain.ErrAlreadyAnswered
	}
	if format == s.format {
		return s, nil
	}
	s.format = format
	return s.enter(), nil
}

// SubmitAnswer judges typed text in input mode.
func (s Session) SubmitAnswer(text string) (Session, Outcome, error) {
	if s.format != domain.FormatInput {
		return s, Outcome{}, domain.ErrFormatMismatch
	}
	if s.phase != PhaseAnswering {
		return s, Outcome{}, domain.ErrAlreadyAnswered
	}
	return s.record(Outcome{
		Correct:   IsCorrect(text, s.Current()),
		Submitted: text,
		Choice:    -1,
		Answer:    -1,
	})
}

// SubmitChoice judges a slot index in choice mode. Only the slot index is
// compared, never the displayed text.
func (s Session) SubmitChoice(index int) (Session, Outcome, error) {
	if s.format != domain.FormatChoice {
		return s, Outcome{}, domain.ErrFormatMismatch
	}
	if s.phase != PhaseAnswering {
		return s, Outcome{}, domain.ErrAlreadyAnswered
	}
	if index < 0 || index >= domain.ChoiceSlots {
		return s, Outcome{}, domain.ErrChoiceOutOfRange
	}
	return s.record(Outcome{
		Correct:   index == s.choices.Correct,
		Submitted: s.choices.Options[index],
		Choice:    index,
		Answer:    s.choices.Correct,
	})
}

// GiveUp records an incorrect result without judging any input.
func (s Session) GiveUp() (Session, Outcome, error) {
	if s.phase != PhaseAnswering {
		return s, Outcome{}, domain.ErrAlreadyAnswered
	}
	answer := -1
	if s.format == domain.FormatChoice {
		answer = s.choices.Correct
	}
	return s.record(Outcome{GaveUp: true, Choice: -1, Answer: answer})
}

func (s Session) record(o Outcome) (Session, Outcome, error) {
	o.Entry = s.Current()
	o.Accepted = AcceptedAnswers(o.Entry)
	if o.Correct {
		s.score.Correct++
	} else {
		s.score.Incorrect++
	}
	s.phase = PhaseResult
	s.input = ""
	s.outcome = o
	return s, o, nil
}

// Advance moves past an answered question. When the last question has been
// answered the session is over and the final summary is returned with done
// set.
func (s Session) Advance() (next Session, summary domain.Summary, done bool, err error) {
	if s.phase != PhaseResult {
		return s, domain.Summary{}, false, domain.ErrNotAnswered
	}
	if s.position+1 >= len(s.workingSet) {
		return s, domain.Summary{Score: s.score, Total: len(s.workingSet)}, true, nil
	}
	s.position++
	return s.enter(), domain.Summary{}, false, nil
}
