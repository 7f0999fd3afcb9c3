package app_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarot-studio/internal/adapters/decks"
	"github.com/randomtoy/tarot-studio/internal/adapters/kv/memory"
	"github.com/randomtoy/tarot-studio/internal/domain"
)

// seededRNG is a reproducible pseudo-random source.
type seededRNG struct{ r *rand.Rand }

func newSeededRNG(seed uint64) *seededRNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRNG) Intn(n int) int   { return s.r.IntN(n) }
func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// fixedRNG always returns the same values.
type fixedRNG struct {
	val int
	f   float64
}

func (r fixedRNG) Intn(n int) int   { return r.val % n }
func (r fixedRNG) Float64() float64 { return r.f }

func testCatalog(t *testing.T) *decks.EmbeddedStore {
	t.Helper()
	store, err := decks.NewEmbeddedStore()
	require.NoError(t, err)
	return store
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// failingKV wraps a memory store and rejects writes to keys containing failKey.
type failingKV struct {
	*memory.Store
	failKey string
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failKey != "" && strings.Contains(key, f.failKey) {
		return errDiskFull
	}
	return f.Store.Set(ctx, key, value)
}

var errDiskFull = errors.New("disk full")

func major(name string) domain.DrawnCard {
	return domain.DrawnCard{Card: domain.Card{
		ID:       "test_" + name,
		NameEn:   name,
		Arcana:   domain.Major,
		Keywords: []string{"focus"},
		Meaning:  domain.Meaning{Upright: "up", Reversed: "down"},
	}}
}

func minor(name string, suit domain.Suit, number int) domain.DrawnCard {
	return domain.DrawnCard{Card: domain.Card{
		ID:       "test_" + name,
		NameEn:   name,
		Arcana:   domain.Minor,
		Suit:     suit,
		Number:   number,
		Keywords: []string{"effort"},
		Meaning:  domain.Meaning{Upright: "up", Reversed: "down"},
	}}
}

func reversed(c domain.DrawnCard) domain.DrawnCard {
	c.IsReversed = true
	return c
}

// spreadOf builds a throwaway spread with one generic position per card.
func spreadOf(n int) domain.Spread {
	sp := domain.Spread{ID: "test", Name: "Test Spread", Description: "test"}
	for i := range n {
		sp.Positions = append(sp.Positions, domain.Position{
			ID:      "slot" + string(rune('a'+i)),
			Name:    "Slot",
			Meaning: "a test slot",
			X:       50,
			Y:       50,
		})
	}
	return sp
}
