package app_test

import (
	"fmt"

	"nandoku-quiz-service/internal/domain"
)

// scriptedRand returns queued Intn values and either keeps or reverses the
// order on Shuffle.
type scriptedRand struct {
	ints     []int
	reverse  bool
	shuffles int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {
	r.shuffles++
	if !r.reverse {
		return
	}
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func entries(readings ...string) []domain.Entry {
	out := make([]domain.Entry, 0, len(readings))
	for i, r := range readings {
		out = append(out, domain.Entry{
			Key:     fmt.Sprintf("1:%d", i),
			ID:      fmt.Sprintf("img%d.png", i),
			Reading: r,
		})
	}
	return out
}
