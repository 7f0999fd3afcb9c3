package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSpread     = errors.New("unknown spread")
	ErrCardNotFound      = errors.New("card not found")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrEmptyHand         = errors.New("hand must contain at least one card")
	ErrCardCountMismatch = errors.New("card count does not match spread positions")
	ErrReadingGeneration = errors.New("reading generation failed")
	ErrInvalidCatalog    = errors.New("invalid catalog")

	// ErrStorage covers persistence write and serialization failures.
	ErrStorage = errors.New("storage failure")
	// ErrQuotaExceeded is returned by stores when a write would overflow the quota.
	ErrQuotaExceeded = fmt.Errorf("%w: quota exceeded", ErrStorage)
)

// CardCountMismatchError reports both sides of a hand/spread size mismatch.
type CardCountMismatchError struct {
	Cards     int
	Positions int
}

func (e *CardCountMismatchError) Error() string {
	return fmt.Sprintf("card count (%d) does not match spread positions (%d)", e.Cards, e.Positions)
}

func (e *CardCountMismatchError) Unwrap() error { return ErrCardCountMismatch }
