package domain

import (
	"fmt"
	"math"
)

// Shuffle returns a uniformly permuted copy of cards using the provided RNG.
func Shuffle(cards []Card, rng RNG) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)

	// Fisher-Yates: walk backwards, swapping each slot with a random earlier one.
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Reversed decides a single card's orientation. A forced value wins over p.
func Reversed(force *bool, p float64, rng RNG) bool {
	if force != nil {
		return *force
	}
	return rng.Float64() < p
}

// CheckProbability rejects values outside [0, 1].
func CheckProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: reversed probability must be between 0 and 1, got %v", ErrInvalidParameter, p)
	}
	return nil
}

// PositionCount returns how many cards the spread needs.
func (s Spread) PositionCount() int { return len(s.Positions) }
