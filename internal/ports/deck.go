package ports

import "github.com/randomtoy/tarot-studio/internal/domain"

// Catalog provides read-only access to the card deck and spread templates.
// Returned slices are copies; callers may modify them freely.
type Catalog interface {
	Cards() []domain.Card
	Card(id string) (domain.Card, error)
	CardsBySuit(suit domain.Suit) []domain.Card
	MajorArcana() []domain.Card
	MinorArcana() []domain.Card
	Spreads() []domain.Spread
	Spread(id string) (domain.Spread, error)
	RecommendedSpreads() []domain.Spread
}
