package domain

import "time"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Arcana is the broad class a card belongs to.
type Arcana string

const (
	Major Arcana = "major"
	Minor Arcana = "minor"
)

// Suit is one of the four minor arcana suits.
type Suit string

const (
	Wands     Suit = "wands"
	Cups      Suit = "cups"
	Swords    Suit = "swords"
	Pentacles Suit = "pentacles"
)

// Suits lists the minor arcana suits in deck order.
var Suits = []Suit{Wands, Cups, Swords, Pentacles}

// Meaning holds the canned text for each orientation.
type Meaning struct {
	Upright  string `json:"upright" yaml:"upright" validate:"required"`
	Reversed string `json:"reversed" yaml:"reversed" validate:"required"`
}

// Card is an immutable catalog entry. Orientation is not part of it; see DrawnCard.
type Card struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Name        string   `json:"name" yaml:"name" validate:"required"`
	NameEn      string   `json:"nameEn" yaml:"name_en" validate:"required"`
	Arcana      Arcana   `json:"type" yaml:"type" validate:"oneof=major minor"`
	Suit        Suit     `json:"suit,omitempty" yaml:"suit" validate:"omitempty,oneof=wands cups swords pentacles"`
	Number      int      `json:"number" yaml:"number" validate:"gte=0,lte=21"`
	Image       string   `json:"image" yaml:"image" validate:"required"`
	Keywords    []string `json:"keywords" yaml:"keywords" validate:"min=1,dive,required"`
	Meaning     Meaning  `json:"meaning" yaml:"meaning"`
	Description string   `json:"description" yaml:"description" validate:"required"`
}

// IsMajor reports whether the card belongs to the major arcana.
func (c Card) IsMajor() bool { return c.Arcana == Major }

// DrawnCard is a copy of a catalog card with the orientation assigned at draw time.
type DrawnCard struct {
	Card
	IsReversed bool `json:"isReversed"`
}

// ActiveMeaning returns the meaning that applies to the drawn orientation.
func (d DrawnCard) ActiveMeaning() string {
	if d.IsReversed {
		return d.Meaning.Reversed
	}
	return d.Meaning.Upright
}

// Position is a named slot of a spread. X and Y are percentages of the layout box.
type Position struct {
	ID      string  `json:"id" yaml:"id" validate:"required"`
	Name    string  `json:"name" yaml:"name" validate:"required"`
	Meaning string  `json:"meaning" yaml:"meaning" validate:"required"`
	X       float64 `json:"x" yaml:"x" validate:"gte=0,lte=100"`
	Y       float64 `json:"y" yaml:"y" validate:"gte=0,lte=100"`
}

// Size is a width/height pair in layout units.
type Size struct {
	Width  int `json:"width" yaml:"width" validate:"gt=0"`
	Height int `json:"height" yaml:"height" validate:"gt=0"`
}

// Layout carries rendering hints for a spread.
type Layout struct {
	Width    int  `json:"width" yaml:"width" validate:"gt=0"`
	Height   int  `json:"height" yaml:"height" validate:"gt=0"`
	CardSize Size `json:"cardSize" yaml:"card_size"`
}

// Spread is a template of card positions.
type Spread struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Description string     `json:"description" yaml:"description" validate:"required"`
	Positions   []Position `json:"positions" yaml:"positions" validate:"min=1,dive"`
	Layout      Layout     `json:"layout" yaml:"layout"`
}

// Energy classifies the tone of a card or a whole reading.
type Energy string

const (
	Positive Energy = "positive"
	Negative Energy = "negative"
	Neutral  Energy = "neutral"
	// Mixed only applies to a whole reading.
	Mixed Energy = "mixed"
)

// CardInterpretation pairs a drawn card with its spread position.
type CardInterpretation struct {
	Card           DrawnCard `json:"card"`
	Position       Position  `json:"position"`
	Interpretation string    `json:"interpretation"`
	KeyMessages    []string  `json:"keyMessages"`
	Energy         Energy    `json:"energy"`
	// Relevance is set only when the reading was asked a question.
	Relevance *float64 `json:"relevanceToQuestion,omitempty"`
}

// Reading is the persisted result of interpreting a drawn hand.
type Reading struct {
	ID              string               `json:"id"`
	Timestamp       time.Time            `json:"timestamp"`
	Question        string               `json:"question,omitempty"`
	Spread          Spread               `json:"spread"`
	Cards           []DrawnCard          `json:"cards"`
	Interpretations []CardInterpretation `json:"interpretations"`
	OverallAnalysis string               `json:"overallAnalysis"`
	Advice          string               `json:"advice"`
}
