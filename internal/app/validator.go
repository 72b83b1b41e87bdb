package app

import (
	"strings"

	"nandoku-quiz-service/internal/annotation"
	"nandoku-quiz-service/internal/domain"
)

// AcceptedAnswers returns the core form of every trimmed alternative reading
// of entry. Alternatives whose core is empty are left out.
func AcceptedAnswers(entry domain.Entry) []string {
	alts := annotation.Alternatives(entry.Reading)
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		if core := annotation.Core(alt); core != "" {
			out = append(out, core)
		}
	}
	return out
}

// IsCorrect reports whether submitted, trimmed, equals one of the accepted
// answers of entry exactly. Comparison is case-sensitive.
func IsCorrect(submitted string, entry domain.Entry) bool {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return false
	}
	for _, accepted := range AcceptedAnswers(entry) {
		if submitted == accepted {
			return true
		}
	}
	return false
}
