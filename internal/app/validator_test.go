package app_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nandoku-quiz-service/internal/annotation"
	"nandoku-quiz-service/internal/app"
	"nandoku-quiz-service/internal/domain"
)

func TestIsCorrect(t *testing.T) {
	t.Parallel()

	entry := domain.Entry{ID: "img1.png", Reading: "'てる'、ひかる"}

	tests := []struct {
		name      string
		submitted string
		expected  bool
	}{
		{name: "plain alternative", submitted: "ひかる", expected: true},
		{name: "surrounding space", submitted: "  ひかる　", expected: true},
		{name: "emphasis alone is not an answer", submitted: "てる", expected: false},
		{name: "empty submission", submitted: "", expected: false},
		{name: "blank submission", submitted: "   ", expected: false},
		{name: "raw reading", submitted: "'てる'、ひかる", expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := app.IsCorrect(test.submitted, entry); got != test.expected {
				t.Fatalf("IsCorrect(%q) = %v, want %v", test.submitted, got, test.expected)
			}
		})
	}
}

func TestIsCorrectIsCaseSensitive(t *testing.T) {
	entry := domain.Entry{Reading: "Kanji"}
	if app.IsCorrect("kanji", entry) {
		t.Fatalf("expected case-sensitive comparison")
	}
	if !app.IsCorrect("Kanji", entry) {
		t.Fatalf("expected exact match to be correct")
	}
}

func TestEmptyReadingAcceptsNothing(t *testing.T) {
	entry := domain.Entry{Reading: ""}
	if got := app.AcceptedAnswers(entry); len(got) != 0 {
		t.Fatalf("expected no accepted answers, got %q", got)
	}
	if app.IsCorrect("", entry) {
		t.Fatalf("empty reading must never be answered correctly")
	}
}

func TestAcceptedAnswers(t *testing.T) {
	entry := domain.Entry{Reading: "かがや'く'、 ひか'る' 、'てる'"}
	if diff := cmp.Diff([]string{"かがや", "ひか"}, app.AcceptedAnswers(entry)); diff != "" {
		t.Fatalf("AcceptedAnswers (-want, +got):\n%s", diff)
	}
}

func TestCoreIsNotTrimmedAfterDecoding(t *testing.T) {
	entry := domain.Entry{Reading: "あ 'x'"}
	if diff := cmp.Diff([]string{"あ "}, app.AcceptedAnswers(entry)); diff != "" {
		t.Fatalf("AcceptedAnswers (-want, +got):\n%s", diff)
	}
	if app.IsCorrect("あ", entry) {
		t.Fatalf("expected the untrimmed core to be the only accepted answer")
	}
}

func TestEveryAlternativeCoreIsCorrect(t *testing.T) {
	readings := []string{
		"'てる'、ひかる",
		"かがや'く'、きら'めく'",
		"あ'い'う、え、お'",
		"いぬ",
		" くさ 、 'き'",
	}
	for _, reading := range readings {
		entry := domain.Entry{Reading: reading}
		for _, alt := range annotation.Alternatives(reading) {
			core := annotation.Core(alt)
			if core == "" {
				continue
			}
			if !app.IsCorrect(core, entry) {
				t.Fatalf("IsCorrect(%q) = false for reading %q", core, reading)
			}
		}
	}
}
