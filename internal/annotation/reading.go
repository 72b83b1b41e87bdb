// Package annotation decodes the reading annotation format.
//
// A reading is plain text in which single-quote pairs mark an emphasized
// suffix span, for example "'てる'、ひかる". Emphasized spans are shown
// distinctly and excluded from the core form that answers are compared
// against. A delimiter without a partner is dropped and the text after it is
// plain. Several acceptable readings are separated by a full-width comma.
package annotation

import (
	"iter"
	"slices"
	"strings"

	"nandoku-quiz-service/internal/domain"
)

const (
	// Delimiter opens and closes an emphasized span.
	Delimiter = '\''
	// AlternativeSeparator separates alternative acceptable readings.
	AlternativeSeparator = "、"
)

// Render lazily decomposes reading into display segments. Empty segments are
// never produced, and the sequence can be ranged over any number of times.
func Render(reading string) iter.Seq[domain.Segment] {
	return func(yield func(domain.Segment) bool) {
		rest := reading
		for rest != "" {
			open := strings.IndexRune(rest, Delimiter)
			if open < 0 {
				yield(domain.Segment{Text: rest})
				return
			}
			closing := strings.IndexRune(rest[open+1:], Delimiter)
			if closing < 0 {
				// Unpaired delimiter: everything left is plain.
				if text := rest[:open] + rest[open+1:]; text != "" {
					yield(domain.Segment{Text: text})
				}
				return
			}
			closing += open + 1

			if open > 0 && !yield(domain.Segment{Text: rest[:open]}) {
				return
			}
			if span := rest[open+1 : closing]; span != "" {
				if !yield(domain.Segment{Text: span, Emphasized: true}) {
					return
				}
			}
			rest = rest[closing+1:]
		}
	}
}

// Segments collects Render into a slice.
func Segments(reading string) []domain.Segment {
	return slices.Collect(Render(reading))
}

// Core returns reading with every paired emphasized span removed,
// delimiters included. Core(Core(s)) == Core(s).
func Core(reading string) string {
	return join(reading, false)
}

// Emphasis concatenates the text of every emphasized span.
func Emphasis(reading string) string {
	return join(reading, true)
}

func join(reading string, emphasized bool) string {
	var b strings.Builder
	for seg := range Render(reading) {
		if seg.Emphasized == emphasized {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// Alternatives splits reading into its trimmed alternative readings.
func Alternatives(reading string) []string {
	parts := strings.Split(reading, AlternativeSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Encode is the inverse of Render for segments whose text holds no delimiter.
func Encode(segments []domain.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Emphasized {
			b.WriteRune(Delimiter)
			b.WriteString(seg.Text)
			b.WriteRune(Delimiter)
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
