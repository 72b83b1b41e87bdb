package app

import (
	"nandoku-quiz-service/internal/annotation"
	"nandoku-quiz-service/internal/domain"
)

const wrongChoices = domain.ChoiceSlots - 1

// GenerateChoices builds the option slots for correct, drawing wrong options
// from pool. Wrong options have a raw reading different from the correct one
// and are distinct by displayed core. When fewer than three exist they are
// repeated in order; with none at all the wrong slots stay empty.
func GenerateChoices(correct domain.Entry, pool []domain.Entry, rng Rand) domain.ChoiceSet {
	correctCore := annotation.Core(correct.Reading)

	candidates := make([]string, 0, len(pool))
	for _, e := range pool {
		if e.Reading != correct.Reading {
			candidates = append(candidates, e.Reading)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := map[string]bool{correctCore: true}
	wrong := make([]string, 0, wrongChoices)
	for _, reading := range candidates {
		if len(wrong) == wrongChoices {
			break
		}
		core := annotation.Core(reading)
		if seen[core] {
			continue
		}
		seen[core] = true
		wrong = append(wrong, core)
	}

	var set domain.ChoiceSet
	set.Correct = rng.Intn(domain.ChoiceSlots)
	next := 0
	for i := range set.Options {
		if i == set.Correct {
			set.Options[i] = correctCore
			continue
		}
		if len(wrong) > 0 {
			set.Options[i] = wrong[next%len(wrong)]
		}
		next++
	}
	return set
}
