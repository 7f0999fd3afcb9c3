package app

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/tarot-studio/internal/domain"
	"github.com/randomtoy/tarot-studio/internal/ports"
)

const singleCardSpread = "single-card"

// DrawOptions tunes a single draw. Nil pointers mean "use the default".
type DrawOptions struct {
	AllowDuplicates     bool
	ForceReversed       *bool
	ReversedProbability *float64
}

// DrawingResult is a drawn hand together with the spread it was drawn for.
type DrawingResult struct {
	Cards     []domain.DrawnCard `json:"cards"`
	Spread    domain.Spread      `json:"spread"`
	Timestamp time.Time          `json:"timestamp"`
	SessionID string             `json:"sessionId"`
}

// DrawingStats describes the current session.
type DrawingStats struct {
	SessionID      string `json:"sessionId"`
	UsedCount      int    `json:"usedCardsCount"`
	RemainingCount int    `json:"remainingCardsCount"`
	TotalCards     int    `json:"totalCards"`
}

// RandomnessReport summarizes a batch of single-card draws.
type RandomnessReport struct {
	Iterations   int            `json:"iterations"`
	ReversedRate float64        `json:"reversedRate"`
	Distribution map[string]int `json:"cardDistribution"`
	QualityScore float64        `json:"qualityScore"`
}

// DrawingService draws hands from the catalog. Within a session a card is not
// drawn twice unless duplicates are requested; when the remaining pool is too
// small the session silently starts over.
type DrawingService struct {
	catalog ports.Catalog
	rng     domain.RNG
	now     func() time.Time
	logger  *slog.Logger

	mu        sync.Mutex
	sessionID string
	used      map[string]struct{}
}

func NewDrawingService(catalog ports.Catalog, rng domain.RNG, logger *slog.Logger) *DrawingService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DrawingService{
		catalog: catalog,
		rng:     rng,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "drawing")),
	}
	s.newSession()
	return s
}

// newSession must be called with mu held (or before the service is shared).
func (s *DrawingService) newSession() {
	s.sessionID = "session_" + uuid.NewString()
	s.used = make(map[string]struct{})
}

// Draw deals one card per position of the given spread.
func (s *DrawingService) Draw(spreadID string, opts DrawOptions) (DrawingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draw(spreadID, opts)
}

func (s *DrawingService) draw(spreadID string, opts DrawOptions) (DrawingResult, error) {
	if spreadID == "" {
		return DrawingResult{}, fmt.Errorf("%w: spread id is required", domain.ErrInvalidParameter)
	}
	spread, err := s.catalog.Spread(spreadID)
	if err != nil {
		return DrawingResult{}, err
	}
	p := domain.DefaultReversedProbability
	if opts.ReversedProbability != nil {
		p = *opts.ReversedProbability
		if err := domain.CheckProbability(p); err != nil {
			return DrawingResult{}, err
		}
	}

	count := spread.PositionCount()
	all := s.catalog.Cards()
	pool := all
	if !opts.AllowDuplicates {
		pool = make([]domain.Card, 0, len(all))
		for _, c := range all {
			if _, used := s.used[c.ID]; !used {
				pool = append(pool, c)
			}
		}
		if len(pool) < count {
			s.logger.Info("session exhausted, starting over",
				"session_id", s.sessionID, "remaining", len(pool), "needed", count)
			s.newSession()
			pool = all
		}
	}

	shuffled := domain.Shuffle(pool, s.rng)
	cards := make([]domain.DrawnCard, count)
	for i := range count {
		card := shuffled[i]
		cards[i] = domain.DrawnCard{
			Card:       card,
			IsReversed: domain.Reversed(opts.ForceReversed, p, s.rng),
		}
		if !opts.AllowDuplicates {
			s.used[card.ID] = struct{}{}
		}
	}

	s.logger.Debug("cards drawn", "spread", spread.ID, "count", count, "session_id", s.sessionID)

	return DrawingResult{
		Cards:     cards,
		Spread:    spread,
		Timestamp: s.now(),
		SessionID: s.sessionID,
	}, nil
}

// Redraw starts a fresh session and draws.
func (s *DrawingService) Redraw(spreadID string, opts DrawOptions) (DrawingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newSession()
	return s.draw(spreadID, opts)
}

// DrawSingle draws one card from the single-card spread.
func (s *DrawingService) DrawSingle() (domain.DrawnCard, error) {
	res, err := s.Draw(singleCardSpread, DrawOptions{})
	if err != nil {
		return domain.DrawnCard{}, err
	}
	return res.Cards[0], nil
}

// DrawMultiple draws count cards straight from the catalog, ignoring spreads
// and the session.
func (s *DrawingService) DrawMultiple(count int, allowDuplicates bool) ([]domain.DrawnCard, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be a positive integer, got %d", domain.ErrInvalidParameter, count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.catalog.Cards()
	if !allowDuplicates && count > len(all) {
		return nil, fmt.Errorf("%w: cannot draw %d distinct cards from %d", domain.ErrInvalidParameter, count, len(all))
	}

	shuffled := domain.Shuffle(all, s.rng)
	cards := make([]domain.DrawnCard, count)
	for i := range count {
		card := shuffled[i%len(shuffled)]
		if allowDuplicates {
			card = all[s.rng.Intn(len(all))]
		}
		cards[i] = domain.DrawnCard{
			Card:       card,
			IsReversed: s.rng.Float64() < domain.DefaultReversedProbability,
		}
	}
	return cards, nil
}

// Stats reports session bookkeeping.
func (s *DrawingService) Stats() DrawingStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.catalog.Cards())
	return DrawingStats{
		SessionID:      s.sessionID,
		UsedCount:      len(s.used),
		RemainingCount: total - len(s.used),
		TotalCards:     total,
	}
}

// ResetSession forgets every card drawn so far.
func (s *DrawingService) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newSession()
	s.logger.Info("session reset", "session_id", s.sessionID)
}

// TestRandomness runs repeated single-card draws and scores how evenly the
// deck was covered.
func (s *DrawingService) TestRandomness(iterations int) (RandomnessReport, error) {
	if iterations <= 0 {
		return RandomnessReport{}, fmt.Errorf("%w: iterations must be positive", domain.ErrInvalidParameter)
	}

	dist := make(map[string]int)
	reversed := 0
	for range iterations {
		card, err := s.DrawSingle()
		if err != nil {
			return RandomnessReport{}, err
		}
		if card.IsReversed {
			reversed++
		}
		dist[card.ID]++
	}

	expected := float64(iterations) / float64(len(s.catalog.Cards()))
	var variance float64
	for _, n := range dist {
		d := float64(n) - expected
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(dist)))
	quality := math.Max(0, 100-(stddev/expected)*100)

	return RandomnessReport{
		Iterations:   iterations,
		ReversedRate: float64(reversed) / float64(iterations),
		Distribution: dist,
		QualityScore: math.Round(quality*100) / 100,
	}, nil
}
