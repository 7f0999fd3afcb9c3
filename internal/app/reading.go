package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/randomtoy/tarot-studio/internal/domain"
)

// CombinationAnalysis is the whole-hand view computed once per reading.
type CombinationAnalysis struct {
	Theme         string        `json:"theme"`
	Energy        domain.Energy `json:"energy"`
	KeyInsights   []string      `json:"keyInsights"`
	Warnings      []string      `json:"warnings,omitempty"`
	Opportunities []string      `json:"opportunities,omitempty"`
}

// ReadingEngine turns a drawn hand into a Reading. Apart from the id and
// timestamp its output depends only on its inputs.
type ReadingEngine struct {
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

func NewReadingEngine(logger *slog.Logger) *ReadingEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadingEngine{
		now:    time.Now,
		newID:  func() string { return "reading_" + uuid.NewString() },
		logger: logger.With(slog.String("component", "reading")),
	}
}

// GenerateReading interprets cards against the spread's positions, in order.
// An empty question means none was asked.
func (e *ReadingEngine) GenerateReading(cards []domain.DrawnCard, spread domain.Spread, question string) (reading domain.Reading, err error) {
	if len(cards) == 0 {
		return domain.Reading{}, domain.ErrEmptyHand
	}
	if spread.PositionCount() == 0 {
		return domain.Reading{}, fmt.Errorf("%w: spread %q has no positions", domain.ErrInvalidParameter, spread.ID)
	}
	if len(cards) != spread.PositionCount() {
		return domain.Reading{}, &domain.CardCountMismatchError{Cards: len(cards), Positions: spread.PositionCount()}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("reading assembly panicked", "spread", spread.ID, "panic", r)
			reading = domain.Reading{}
			err = fmt.Errorf("%w: %v", domain.ErrReadingGeneration, r)
		}
	}()

	interpretations := make([]domain.CardInterpretation, len(cards))
	for i, c := range cards {
		interpretations[i] = e.InterpretCard(c, spread.Positions[i], question)
	}

	analysis := e.AnalyzeCombination(cards)

	return domain.Reading{
		ID:              e.newID(),
		Timestamp:       e.now(),
		Question:        question,
		Spread:          spread,
		Cards:           cards,
		Interpretations: interpretations,
		OverallAnalysis: overallAnalysis(spread, analysis, question),
		Advice:          advice(analysis),
	}, nil
}

// InterpretCard builds the interpretation of one card in one position.
func (e *ReadingEngine) InterpretCard(card domain.DrawnCard, position domain.Position, question string) domain.CardInterpretation {
	ci := domain.CardInterpretation{
		Card:           card,
		Position:       position,
		Interpretation: interpretationText(card, position),
		KeyMessages:    keyMessages(card, position),
		Energy:         CardEnergy(card),
	}
	if question != "" {
		r := Relevance(card, question)
		ci.Relevance = &r
	}
	return ci
}

func interpretationText(card domain.DrawnCard, position domain.Position) string {
	orientation := "upright"
	if card.IsReversed {
		orientation = "reversed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "In the %q position, the %s card %s appears %s, representing %s.\n\n",
		position.Name, arcanaLabels[card.Arcana], card.NameEn, orientation, position.Meaning)
	fmt.Fprintf(&b, "Core meaning of %s: %s\n\n", card.NameEn, card.ActiveMeaning())
	fmt.Fprintf(&b, "Key concepts: %s.", strings.Join(firstN(card.Keywords, 3), ", "))

	insights := make([]string, 0, 3)
	if s, ok := positionInsights[position.ID]; ok {
		insights = append(insights, s)
	} else {
		insights = append(insights, defaultPositionInsight)
	}
	insights = append(insights, fmt.Sprintf(arcanaInsights[card.Arcana], card.NameEn))
	if card.IsReversed {
		insights = append(insights, reversedInsight)
	}
	b.WriteString("\n\n")
	b.WriteString(strings.Join(insights, " "))
	return b.String()
}

func keyMessages(card domain.DrawnCard, position domain.Position) []string {
	var first string
	if len(card.Keywords) > 0 {
		first = card.Keywords[0]
	}

	messages := make([]string, 0, 3)
	if card.IsReversed {
		messages = append(messages, fmt.Sprintf(reversedMessage, first))
	} else {
		messages = append(messages, fmt.Sprintf(uprightMessage, first))
	}
	if m, ok := positionMessages[position.ID]; ok {
		messages = append(messages, m)
	}
	if card.Arcana == domain.Minor {
		if m, ok := numerologyThemes[card.Number]; ok {
			messages = append(messages, m)
		}
	}
	return messages
}

// CardEnergy classifies a single card. Only named cards carry a charge.
func CardEnergy(card domain.DrawnCard) domain.Energy {
	switch {
	case positiveCards[card.NameEn]:
		if card.IsReversed {
			return domain.Neutral
		}
		return domain.Positive
	case negativeCards[card.NameEn]:
		if card.IsReversed {
			return domain.Neutral
		}
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// Relevance scores how closely a card relates to a free-text question, in [0, 1].
func Relevance(card domain.DrawnCard, question string) float64 {
	lower := cases.Lower(language.Und)
	q := lower.String(question)

	score := baseRelevance
	for _, kw := range card.Keywords {
		if strings.Contains(q, lower.String(kw)) {
			score += keywordRelevance
		}
	}
	if containsAny(q, loveWords) && (card.Suit == domain.Cups || relationshipCards[card.NameEn]) {
		score += topicRelevance
	}
	if containsAny(q, careerWords) && careerSuits[card.Suit] {
		score += topicRelevance
	}
	return min(score, maxRelevance)
}

// AnalyzeCombination computes theme, overall energy, insights, warnings and
// opportunities for the whole hand.
func (e *ReadingEngine) AnalyzeCombination(cards []domain.DrawnCard) CombinationAnalysis {
	return CombinationAnalysis{
		Theme:         theme(cards),
		Energy:        overallEnergy(cards),
		KeyInsights:   keyInsights(cards),
		Warnings:      warnings(cards),
		Opportunities: opportunities(cards),
	}
}

func overallEnergy(cards []domain.DrawnCard) domain.Energy {
	var positive, negative int
	for _, c := range cards {
		switch CardEnergy(c) {
		case domain.Positive:
			positive++
		case domain.Negative:
			negative++
		}
	}
	switch {
	case positive > negative*2:
		return domain.Positive
	case negative > positive*2:
		return domain.Negative
	case positive > 0 && negative > 0:
		return domain.Mixed
	default:
		return domain.Neutral
	}
}

// theme picks the dominant suit; ties go to the suit seen first in the hand.
func theme(cards []domain.DrawnCard) string {
	counts := make(map[domain.Suit]int)
	var order []domain.Suit
	for _, c := range cards {
		if c.Suit == "" {
			continue
		}
		if counts[c.Suit] == 0 {
			order = append(order, c.Suit)
		}
		counts[c.Suit]++
	}

	var dominant domain.Suit
	for _, s := range order {
		if counts[s] > counts[dominant] {
			dominant = s
		}
	}
	if t, ok := suitThemes[dominant]; ok {
		return t
	}
	return defaultTheme
}

func keyInsights(cards []domain.DrawnCard) []string {
	insights := make([]string, 0)

	var major, reversed int
	for _, c := range cards {
		if c.IsMajor() {
			major++
		}
		if c.IsReversed {
			reversed++
		}
	}
	// Strict majority: more than half of the hand.
	if major*2 > len(cards) {
		insights = append(insights, majorInsight)
	}
	if reversed*2 > len(cards) {
		insights = append(insights, reversedMajority)
	}

	names := cardNames(cards)
	for _, p := range pairInsights {
		if names[p.first] && names[p.second] {
			insights = append(insights, p.text)
		}
	}
	return insights
}

func warnings(cards []domain.DrawnCard) []string {
	out := matchRules(cardNames(cards), cardWarnings)

	reversedMajor := 0
	for _, c := range cards {
		if c.IsMajor() && c.IsReversed {
			reversedMajor++
		}
	}
	if reversedMajor > reversedMajorLimit {
		out = append(out, reversedMajorWarning)
	}
	return out
}

func opportunities(cards []domain.DrawnCard) []string {
	return matchRules(cardNames(cards), cardOpportunities)
}

func matchRules(names map[string]bool, rules []cardRule) []string {
	var out []string
	for _, r := range rules {
		for _, n := range r.anyOf {
			if names[n] {
				out = append(out, r.text)
				break
			}
		}
	}
	return out
}

func overallAnalysis(spread domain.Spread, a CombinationAnalysis, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This %s reading reveals important insight about %q.\n\n", spread.Name, a.Theme)
	b.WriteString(energySummaries[a.Energy])
	b.WriteString("\n\n")

	if len(a.KeyInsights) > 0 {
		b.WriteString("Key insights:\n")
		for i, s := range a.KeyInsights {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	if question != "" {
		fmt.Fprintf(&b, "\nRegarding your question \"%s\", the cards offer guidance on several levels.", question)
	}
	return b.String()
}

func advice(a CombinationAnalysis) string {
	var b strings.Builder
	b.WriteString("Based on this reading, here is some advice:\n\n")
	fmt.Fprintf(&b, "• %s\n", energyAdvice[a.Energy])
	if tip, ok := themeAdvice[a.Theme]; ok {
		fmt.Fprintf(&b, "• %s\n", tip)
	}

	if len(a.Warnings) > 0 {
		b.WriteString("\nThings to watch:\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "• %s\n", w)
		}
	}
	if len(a.Opportunities) > 0 {
		b.WriteString("\nOpportunities to seize:\n")
		for _, o := range a.Opportunities {
			fmt.Fprintf(&b, "• %s\n", o)
		}
	}
	b.WriteString("\n")
	b.WriteString(closingDisclaimer)
	return b.String()
}

func cardNames(cards []domain.DrawnCard) map[string]bool {
	names := make(map[string]bool, len(cards))
	for _, c := range cards {
		names[c.NameEn] = true
	}
	return names
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
