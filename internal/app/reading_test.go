package app_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarot-studio/internal/app"
	"github.com/randomtoy/tarot-studio/internal/domain"
)

func TestGenerateReading_Preconditions(t *testing.T) {
	engine := app.NewReadingEngine(nil)

	_, err := engine.GenerateReading(nil, spreadOf(3), "")
	assert.ErrorIs(t, err, domain.ErrEmptyHand)

	hand := []domain.DrawnCard{major("The Fool"), major("The Sun")}
	_, err = engine.GenerateReading(hand, spreadOf(3), "")
	require.ErrorIs(t, err, domain.ErrCardCountMismatch)

	var mismatch *domain.CardCountMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Cards)
	assert.Equal(t, 3, mismatch.Positions)

	_, err = engine.GenerateReading(hand, spreadOf(0), "")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestGenerateReading_InterpretationsParallelHand(t *testing.T) {
	catalog := testCatalog(t)
	engine := app.NewReadingEngine(nil)
	drawing := app.NewDrawingService(catalog, newSeededRNG(17), nil)

	for _, sp := range catalog.Spreads() {
		res, err := drawing.Draw(sp.ID, app.DrawOptions{})
		require.NoError(t, err)

		reading, err := engine.GenerateReading(res.Cards, res.Spread, "")
		require.NoError(t, err)
		require.Len(t, reading.Interpretations, len(res.Cards))
		for i, in := range reading.Interpretations {
			assert.Equal(t, res.Cards[i], in.Card)
			assert.Equal(t, sp.Positions[i], in.Position)
			assert.NotEmpty(t, in.Interpretation)
			assert.Nil(t, in.Relevance, "no question, no relevance")
		}
		assert.True(t, strings.HasPrefix(reading.ID, "reading_"))
		assert.False(t, reading.Timestamp.IsZero())
		assert.Empty(t, reading.Question)
		assert.NotContains(t, reading.OverallAnalysis, "Regarding your question")
	}
}

func TestInterpretCard_Text(t *testing.T) {
	engine := app.NewReadingEngine(nil)
	pos := domain.Position{ID: "challenge", Name: "Challenge", Meaning: "the main obstacle"}

	in := engine.InterpretCard(reversed(minor("Three of Swords", domain.Swords, 3)), pos, "")

	assert.Contains(t, in.Interpretation, `In the "Challenge" position, the minor arcana card Three of Swords appears reversed, representing the main obstacle.`)
	assert.Contains(t, in.Interpretation, "Core meaning of Three of Swords: down")
	assert.Contains(t, in.Interpretation, "Key concepts: effort.")
	assert.Contains(t, in.Interpretation, "This is the main challenge you need to face and overcome.")
	assert.Contains(t, in.Interpretation, "Appearing reversed")

	want := []string{
		"Look at the inner blocks around effort",
		"This is a chance to grow",
		"Creativity and expression",
	}
	if diff := cmp.Diff(want, in.KeyMessages); diff != "" {
		t.Errorf("key messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretCard_UnknownPositionUsesDefaultInsight(t *testing.T) {
	engine := app.NewReadingEngine(nil)
	pos := domain.Position{ID: "option-a", Name: "Option A", Meaning: "the first path"}

	in := engine.InterpretCard(major("The Star"), pos, "")
	assert.Contains(t, in.Interpretation, "In this position the card provides guidance worth heeding.")
	assert.Contains(t, in.Interpretation, "As a major arcana card, The Star speaks of an important life lesson")
	assert.NotContains(t, in.Interpretation, "Appearing reversed")
	assert.Equal(t, []string{"Embrace the power of focus"}, in.KeyMessages)
}

func TestCardEnergy(t *testing.T) {
	tests := []struct {
		card domain.DrawnCard
		want domain.Energy
	}{
		{major("The Sun"), domain.Positive},
		{reversed(major("The Sun")), domain.Neutral},
		{major("The Tower"), domain.Negative},
		{reversed(major("Death")), domain.Neutral},
		{major("The Fool"), domain.Neutral},
		{minor("Ace of Cups", domain.Cups, 1), domain.Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.card.NameEn, func(t *testing.T) {
			assert.Equal(t, tt.want, app.CardEnergy(tt.card))
		})
	}
}

func TestRelevance(t *testing.T) {
	withKeywords := func(c domain.DrawnCard, kw ...string) domain.DrawnCard {
		c.Keywords = kw
		return c
	}

	tests := []struct {
		name     string
		card     domain.DrawnCard
		question string
		want     float64
	}{
		{"base", minor("Five of Swords", domain.Swords, 5), "What should I know?", 0.5},
		{"keyword", withKeywords(minor("Eight of Swords", domain.Swords, 8), "travel"), "Any TRAVEL soon?", 0.7},
		{"love and cups", minor("Two of Cups", domain.Cups, 2), "Will my love last?", 0.8},
		{"love and lovers", major("The Lovers"), "Is this relationship right?", 0.8},
		{"career and wands", withKeywords(minor("Eight of Wands", domain.Wands, 8), "travel"), "Should I travel for work?", 1.0},
		{"career misses cups", minor("Four of Cups", domain.Cups, 4), "Will I change my job?", 0.5},
		{"capped", withKeywords(minor("Two of Cups", domain.Cups, 2), "love", "romance"), "love and romance", 1.0},
		{"chinese love word", minor("Ten of Cups", domain.Cups, 10), "我的感情会好吗", 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, app.Relevance(tt.card, tt.question), 1e-9)
		})
	}
}

func TestInterpretCard_RelevanceOnlyWithQuestion(t *testing.T) {
	engine := app.NewReadingEngine(nil)
	pos := domain.Position{ID: "main", Name: "Main", Meaning: "m"}

	in := engine.InterpretCard(major("The Fool"), pos, "What now?")
	require.NotNil(t, in.Relevance)
	assert.InDelta(t, 0.5, *in.Relevance, 1e-9)
}

func TestAnalyzeCombination_Theme(t *testing.T) {
	engine := app.NewReadingEngine(nil)

	tests := []struct {
		name string
		hand []domain.DrawnCard
		want string
	}{
		{"dominant cups", []domain.DrawnCard{
			minor("Ace of Cups", domain.Cups, 1), minor("Two of Wands", domain.Wands, 2), minor("Three of Cups", domain.Cups, 3),
		}, "emotion/relationships"},
		{"tie goes to first seen", []domain.DrawnCard{
			minor("Two of Swords", domain.Swords, 2), minor("Two of Pentacles", domain.Pentacles, 2),
		}, "thought/communication"},
		{"tie other order", []domain.DrawnCard{
			minor("Two of Pentacles", domain.Pentacles, 2), minor("Two of Swords", domain.Swords, 2),
		}, "material/practice"},
		{"no suits", []domain.DrawnCard{major("The Fool"), major("The Moon")}, "life growth and transformation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.AnalyzeCombination(tt.hand).Theme)
		})
	}
}

func TestAnalyzeCombination_Energy(t *testing.T) {
	engine := app.NewReadingEngine(nil)

	tests := []struct {
		name string
		hand []domain.DrawnCard
		want domain.Energy
	}{
		{"positive", []domain.DrawnCard{major("The Sun"), major("The Star"), major("The Fool")}, domain.Positive},
		{"negative", []domain.DrawnCard{major("The Tower"), major("Death"), major("The Fool")}, domain.Negative},
		{"mixed", []domain.DrawnCard{major("The Tower"), major("Death"), major("The Sun")}, domain.Mixed},
		{"neutral", []domain.DrawnCard{major("The Fool"), major("The Moon")}, domain.Neutral},
		{"reversal neutralizes", []domain.DrawnCard{reversed(major("The Tower")), major("The Fool")}, domain.Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.AnalyzeCombination(tt.hand).Energy)
		})
	}
}

func TestAnalyzeCombination_InsightsWarningsOpportunities(t *testing.T) {
	engine := app.NewReadingEngine(nil)

	hand := []domain.DrawnCard{
		reversed(major("Death")),
		reversed(major("The Sun")),
		reversed(major("The Tower")),
		minor("Ace of Pentacles", domain.Pentacles, 1),
	}
	a := engine.AnalyzeCombination(hand)

	want := []string{
		"This reading touches on a significant life lesson and spiritual growth.",
		"More introspection is needed; look at what is blocking you from within.",
		"A major transformation will be followed by a new beginning and renewed hope.",
	}
	if diff := cmp.Diff(want, a.KeyInsights); diff != "" {
		t.Errorf("insights mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"Sudden change may be coming; prepare yourself for it.",
		"Important life lessons may be going unnoticed; take another look.",
	}, a.Warnings)
	assert.Equal(t, []string{"New beginnings and opportunities are emerging."}, a.Opportunities)
}

func TestAnalyzeCombination_HalfIsNotMajority(t *testing.T) {
	engine := app.NewReadingEngine(nil)
	hand := []domain.DrawnCard{major("The Fool"), reversed(minor("Two of Cups", domain.Cups, 2))}

	a := engine.AnalyzeCombination(hand)
	assert.Empty(t, a.KeyInsights)
	assert.Empty(t, a.Warnings)
	assert.Empty(t, a.Opportunities)
}

func TestGenerateReading_AdviceSections(t *testing.T) {
	engine := app.NewReadingEngine(nil)
	hand := []domain.DrawnCard{major("The Tower"), major("The Magician"), minor("Ace of Wands", domain.Wands, 1)}

	reading, err := engine.GenerateReading(hand, spreadOf(3), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(reading.Advice, "Based on this reading, here is some advice:"))
	assert.Contains(t, reading.Advice, "• Keep your balance; act with energy but think with care")
	assert.Contains(t, reading.Advice, "• Turn ideas into action and let your creativity work")
	assert.Contains(t, reading.Advice, "Things to watch:\n• Sudden change may be coming")
	assert.Contains(t, reading.Advice, "Opportunities to seize:\n• You have every tool")
	assert.True(t, strings.HasSuffix(reading.Advice, "Trust your intuition and walk your own path."))

	assert.Contains(t, reading.OverallAnalysis, `This Test Spread reading reveals important insight about "action/creation".`)
	assert.Contains(t, reading.OverallAnalysis, "The energy is a complex mix")
}

func TestGenerateReading_NoThemeAdviceWithoutDominantSuit(t *testing.T) {
	engine := app.NewReadingEngine(nil)
	hand := []domain.DrawnCard{major("The Sun"), major("The Star")}

	reading, err := engine.GenerateReading(hand, spreadOf(2), "")
	require.NoError(t, err)

	bullets := strings.Split(strings.TrimPrefix(reading.Advice, "Based on this reading, here is some advice:\n\n"), "\n")
	require.GreaterOrEqual(t, len(bullets), 2)
	assert.True(t, strings.HasPrefix(bullets[0], "• "))
	assert.False(t, strings.HasPrefix(bullets[1], "• "), "only the energy bullet precedes the next section")
}

func TestGenerateReading_EndToEndThreeCard(t *testing.T) {
	catalog := testCatalog(t)
	drawing := app.NewDrawingService(catalog, newSeededRNG(2024), nil)
	engine := app.NewReadingEngine(nil)

	res, err := drawing.Draw("three-card", app.DrawOptions{})
	require.NoError(t, err)
	require.Len(t, res.Cards, 3)

	ids := make(map[string]bool)
	for _, c := range res.Cards {
		ids[c.ID] = true
	}
	assert.Len(t, ids, 3)

	const question = "How is my day?"
	reading, err := engine.GenerateReading(res.Cards, res.Spread, question)
	require.NoError(t, err)

	assert.Equal(t, question, reading.Question)
	assert.Contains(t, reading.OverallAnalysis, res.Spread.Name)
	assert.Contains(t, reading.OverallAnalysis, question)
	for _, in := range reading.Interpretations {
		assert.NotEmpty(t, in.Interpretation)
		assert.Contains(t, []domain.Energy{domain.Positive, domain.Negative, domain.Neutral}, in.Energy)
		require.NotNil(t, in.Relevance)
		assert.True(t, *in.Relevance >= 0 && *in.Relevance <= 1)
	}
}
