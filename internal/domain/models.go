package domain

import (
	"strings"
)

// Entry is one catalog item: a character image with its annotated reading.
// Entries are immutable once the catalog is built.
type Entry struct {
	Key            string   `json:"key"`            // position-based identifier, unique per level
	ID             string   `json:"id"`             // value of the identifying column
	Reading        string   `json:"reading"`        // raw annotated reading
	Meaning        string   `json:"meaning"`        // descriptive only
	ImageReference string   `json:"imageReference"` // resolved image location
	Tags           string   `json:"tags"`           // free text, matched by sub-string
	Components     []string `json:"components"`     // whitespace separated tokens
}

// Segment is one display span of a reading.
type Segment struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized"`
}

// Format is the answer format of a quiz question.
type Format string

const (
	FormatInput  Format = "input"
	FormatChoice Format = "choice"
)

// ParseFormat maps user supplied text onto a Format.
func ParseFormat(raw string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatInput:
		return FormatInput, true
	case FormatChoice:
		return FormatChoice, true
	}
	return "", false
}

// SearchMode selects which projection of an entry a query is matched against.
type SearchMode string

const (
	SearchReading   SearchMode = "reading"
	SearchComponent SearchMode = "component"
)

// ChoiceSlots is the number of options shown in choice mode.
const ChoiceSlots = 4

// ChoiceSet is the option list of one choice-mode question.
// Two slots may show the same text; only Correct decides the answer.
type ChoiceSet struct {
	Options [ChoiceSlots]string `json:"options"`
	Correct int                 `json:"-"`
}

// Score counts answered questions. Given-up questions count as incorrect.
type Score struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Answered returns the number of questions with a recorded result.
func (s Score) Answered() int {
	return s.Correct + s.Incorrect
}

// Summary is reported when a session runs past its last question.
type Summary struct {
	Score
	Total int `json:"total"`
}

// Level is one selectable difficulty level. Only ready levels have data.
type Level struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Dir   string `json:"dir" yaml:"dir"`
	Ready bool   `json:"ready" yaml:"ready"`
}

// Location returns the level-scoped base location under baseURL,
// always terminated by a slash.
func (l Level) Location(baseURL string) string {
	dir := l.Dir
	if dir == "" {
		dir = l.ID
	}
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return strings.Trim(dir, "/") + "/"
	}
	return base + "/" + strings.Trim(dir, "/") + "/"
}
