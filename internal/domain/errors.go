package domain

import "errors"

var (
	// ErrUnknownLevel is returned for a level identifier outside the level table.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrLevelNotReady marks a level without published data. No fetch is attempted.
	ErrLevelNotReady = errors.New("level not ready")
	// ErrDataUnavailable indicates the tabular resource could not be retrieved.
	ErrDataUnavailable = errors.New("level data unavailable")
	// ErrEmptyCandidatePool is returned when a session is started over zero entries.
	ErrEmptyCandidatePool = errors.New("empty candidate pool")
	// ErrNoActiveSession is returned for quiz operations while browsing.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrAlreadyAnswered indicates the current question already has a result.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing before the current question has a result.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrFormatMismatch indicates a submission that does not match the session format.
	ErrFormatMismatch = errors.New("submission does not match answer format")
	// ErrChoiceOutOfRange indicates a choice index outside the option slots.
	ErrChoiceOutOfRange = errors.New("choice index out of range")
	// ErrInvalidFormat indicates an unrecognised answer format.
	ErrInvalidFormat = errors.New("invalid answer format")
)
