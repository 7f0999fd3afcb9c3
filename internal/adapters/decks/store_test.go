package decks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarot-studio/internal/adapters/decks"
	"github.com/randomtoy/tarot-studio/internal/domain"
)

func TestEmbeddedStore_DeckComposition(t *testing.T) {
	store, err := decks.NewEmbeddedStore()
	require.NoError(t, err)

	assert.Len(t, store.Cards(), 78)
	assert.Len(t, store.MajorArcana(), 22)
	assert.Len(t, store.MinorArcana(), 56)
	for _, suit := range domain.Suits {
		assert.Len(t, store.CardsBySuit(suit), 14, "suit %s", suit)
	}

	seen := make(map[string]bool)
	for _, c := range store.Cards() {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.Keywords, "card %s", c.ID)
	}
}

func TestEmbeddedStore_SpreadPositionCounts(t *testing.T) {
	store, err := decks.NewEmbeddedStore()
	require.NoError(t, err)

	want := map[string]int{
		"single-card":  1,
		"three-card":   3,
		"celtic-cross": 10,
		"relationship": 6,
		"decision":     6,
	}
	spreads := store.Spreads()
	require.Len(t, spreads, len(want))
	for _, sp := range spreads {
		assert.Equal(t, want[sp.ID], sp.PositionCount(), "spread %s", sp.ID)
		for _, p := range sp.Positions {
			assert.True(t, p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100, "spread %s position %s", sp.ID, p.ID)
		}
	}
}

func TestEmbeddedStore_Lookups(t *testing.T) {
	store, err := decks.NewEmbeddedStore()
	require.NoError(t, err)

	fool, err := store.Card("major_0")
	require.NoError(t, err)
	assert.Equal(t, "The Fool", fool.NameEn)
	assert.Equal(t, domain.Major, fool.Arcana)

	_, err = store.Card("major_99")
	assert.ErrorIs(t, err, domain.ErrCardNotFound)

	_, err = store.Spread("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownSpread)

	ids := make([]string, 0, 5)
	for _, sp := range store.RecommendedSpreads() {
		ids = append(ids, sp.ID)
	}
	assert.Equal(t, []string{"single-card", "three-card", "relationship", "decision", "celtic-cross"}, ids)
}

func TestEmbeddedStore_SpreadsAreCopies(t *testing.T) {
	store, err := decks.NewEmbeddedStore()
	require.NoError(t, err)

	sp, err := store.Spread("three-card")
	require.NoError(t, err)
	sp.Positions[0].ID = "mutated"

	again, err := store.Spread("three-card")
	require.NoError(t, err)
	assert.Equal(t, "past", again.Positions[0].ID)
}

func TestParse_RejectsIncompleteCatalog(t *testing.T) {
	cards := []byte(`
cards:
  - id: major_0
    name: fool
    name_en: The Fool
    type: major
    number: 0
    image: /x.jpg
    keywords: [beginnings]
    meaning: {upright: up, reversed: down}
    description: d
`)
	spreads := []byte(`
spreads:
  - id: bad
    name: Bad
    description: out of bounds
    positions:
      - {id: p, name: P, meaning: m, x: 150, y: 50}
    layout: {width: 1, height: 1, card_size: {width: 1, height: 1}}
`)
	_, err := decks.Parse(cards, spreads)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "expected 78 cards")
	assert.Contains(t, err.Error(), "spread bad")
}
