package decks

import (
	"embed"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/randomtoy/tarot-studio/internal/domain"
)

//go:embed data/*.yaml
var deckFS embed.FS

const (
	cardsFile   = "data/cards.yaml"
	spreadsFile = "data/spreads.yaml"

	totalCards   = 78
	majorCards   = 22
	cardsPerSuit = 14
)

// recommended is the order spreads are offered in, simplest first.
var recommended = []string{"single-card", "three-card", "relationship", "decision", "celtic-cross"}

// EmbeddedStore serves the deck and spreads compiled into the binary.
type EmbeddedStore struct {
	cards   []domain.Card
	byID    map[string]int
	spreads []domain.Spread
}

// NewEmbeddedStore parses and validates the embedded catalog.
func NewEmbeddedStore() (*EmbeddedStore, error) {
	cardsRaw, err := deckFS.ReadFile(cardsFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded cards: %w", err)
	}
	spreadsRaw, err := deckFS.ReadFile(spreadsFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded spreads: %w", err)
	}
	return Parse(cardsRaw, spreadsRaw)
}

// Parse builds a store from raw YAML documents. Exported for tests that need a
// broken catalog.
func Parse(cardsRaw, spreadsRaw []byte) (*EmbeddedStore, error) {
	var cardsDoc struct {
		Cards []domain.Card `yaml:"cards"`
	}
	if err := yaml.Unmarshal(cardsRaw, &cardsDoc); err != nil {
		return nil, fmt.Errorf("parse cards: %w", err)
	}
	var spreadsDoc struct {
		Spreads []domain.Spread `yaml:"spreads"`
	}
	if err := yaml.Unmarshal(spreadsRaw, &spreadsDoc); err != nil {
		return nil, fmt.Errorf("parse spreads: %w", err)
	}

	s := &EmbeddedStore{
		cards:   cardsDoc.Cards,
		byID:    make(map[string]int, len(cardsDoc.Cards)),
		spreads: spreadsDoc.Spreads,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EmbeddedStore) validate() error {
	v := validator.New()
	var errs []error

	perSuit := make(map[domain.Suit]int, len(domain.Suits))
	major := 0
	for i, c := range s.cards {
		if err := v.Struct(c); err != nil {
			errs = append(errs, fmt.Errorf("card %d (%s): %w", i, c.ID, err))
			continue
		}
		if _, dup := s.byID[c.ID]; dup {
			errs = append(errs, fmt.Errorf("card %s: duplicate id", c.ID))
		}
		s.byID[c.ID] = i

		switch {
		case c.Arcana == domain.Major && c.Suit != "":
			errs = append(errs, fmt.Errorf("card %s: major arcana cannot have a suit", c.ID))
		case c.Arcana == domain.Minor && c.Suit == "":
			errs = append(errs, fmt.Errorf("card %s: minor arcana needs a suit", c.ID))
		case c.Arcana == domain.Minor && (c.Number < 1 || c.Number > cardsPerSuit):
			errs = append(errs, fmt.Errorf("card %s: minor number %d out of range", c.ID, c.Number))
		}
		if c.Arcana == domain.Major {
			major++
		} else {
			perSuit[c.Suit]++
		}
	}

	if len(s.cards) != totalCards {
		errs = append(errs, fmt.Errorf("expected %d cards, got %d", totalCards, len(s.cards)))
	}
	if major != majorCards {
		errs = append(errs, fmt.Errorf("expected %d major arcana, got %d", majorCards, major))
	}
	for _, suit := range domain.Suits {
		if perSuit[suit] != cardsPerSuit {
			errs = append(errs, fmt.Errorf("expected %d %s, got %d", cardsPerSuit, suit, perSuit[suit]))
		}
	}

	seen := make(map[string]bool, len(s.spreads))
	for _, sp := range s.spreads {
		if err := v.Struct(sp); err != nil {
			errs = append(errs, fmt.Errorf("spread %s: %w", sp.ID, err))
		}
		if seen[sp.ID] {
			errs = append(errs, fmt.Errorf("spread %s: duplicate id", sp.ID))
		}
		seen[sp.ID] = true
		if len(sp.Positions) > totalCards {
			errs = append(errs, fmt.Errorf("spread %s: more positions than cards", sp.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

func (s *EmbeddedStore) Cards() []domain.Card {
	return slices.Clone(s.cards)
}

func (s *EmbeddedStore) Card(id string) (domain.Card, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: %s", domain.ErrCardNotFound, id)
	}
	return s.cards[i], nil
}

func (s *EmbeddedStore) CardsBySuit(suit domain.Suit) []domain.Card {
	return s.filter(func(c domain.Card) bool { return c.Arcana == domain.Minor && c.Suit == suit })
}

func (s *EmbeddedStore) MajorArcana() []domain.Card {
	return s.filter(func(c domain.Card) bool { return c.Arcana == domain.Major })
}

func (s *EmbeddedStore) MinorArcana() []domain.Card {
	return s.filter(func(c domain.Card) bool { return c.Arcana == domain.Minor })
}

func (s *EmbeddedStore) filter(keep func(domain.Card) bool) []domain.Card {
	var out []domain.Card
	for _, c := range s.cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *EmbeddedStore) Spreads() []domain.Spread {
	out := make([]domain.Spread, len(s.spreads))
	for i, sp := range s.spreads {
		out[i] = cloneSpread(sp)
	}
	return out
}

func (s *EmbeddedStore) Spread(id string) (domain.Spread, error) {
	for _, sp := range s.spreads {
		if sp.ID == id {
			return cloneSpread(sp), nil
		}
	}
	return domain.Spread{}, fmt.Errorf("%w: %s", domain.ErrUnknownSpread, id)
}

func (s *EmbeddedStore) RecommendedSpreads() []domain.Spread {
	out := make([]domain.Spread, 0, len(recommended))
	for _, id := range recommended {
		if sp, err := s.Spread(id); err == nil {
			out = append(out, sp)
		}
	}
	return out
}

func cloneSpread(sp domain.Spread) domain.Spread {
	sp.Positions = slices.Clone(sp.Positions)
	return sp
}
