package random

import (
	"math/rand"

	"cloud.google.com/go/civil"
)

const secondsPerDay = 24 * 60 * 60

// Sampler draws reproducible wall-clock samples.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler creates a sampler seeded with seed
func NewSampler(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// WallClock returns a uniformly distributed time within [00:00:00, 24:00:00)
func (s *Sampler) WallClock() civil.Time {
	return fromSeconds(s.rnd.Intn(secondsPerDay))
}

// WallClockNear returns a time within ±spread seconds of center, clamped to the day
func (s *Sampler) WallClockNear(center civil.Time, spread int) civil.Time {
	if spread <= 0 {
		return center
	}

	sec := center.Hour*3600 + center.Minute*60 + center.Second
	// offset in range [-spread, +spread]
	sec += s.rnd.Intn(2*spread+1) - spread

	if sec < 0 {
		sec = 0
	}
	if sec >= secondsPerDay {
		sec = secondsPerDay - 1
	}
	return fromSeconds(sec)
}

// SelectRandomItems selects n random items from slice
// Returns indices of selected items
func (s *Sampler) SelectRandomItems(totalCount, n int) []int {
	if n <= 0 || totalCount <= 0 {
		return []int{}
	}

	// Create slice of all indices
	allIndices := make([]int, totalCount)
	for i := range allIndices {
		allIndices[i] = i
	}

	if n >= totalCount {
		return allIndices
	}

	// Shuffle using Fisher-Yates algorithm
	for i := len(allIndices) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		allIndices[i], allIndices[j] = allIndices[j], allIndices[i]
	}

	// Return first n indices
	return allIndices[:n]
}

func fromSeconds(sec int) civil.Time {
	return civil.Time{Hour: sec / 3600, Minute: sec % 3600 / 60, Second: sec % 60}
}
