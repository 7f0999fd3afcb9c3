package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randomtoy/tarot-studio/internal/domain"
	"github.com/randomtoy/tarot-studio/internal/ports"
)

// ReadSpreadRequest is the application-level input (no HTTP types).
type ReadSpreadRequest struct {
	SpreadID            string
	Question            string
	AllowDuplicates     bool
	ForceReversed       *bool
	ReversedProbability *float64
}

// HandCard identifies a card the caller already drew, with its orientation.
type HandCard struct {
	ID         string
	IsReversed bool
}

// InterpretHandRequest asks for a reading of a hand drawn elsewhere.
type InterpretHandRequest struct {
	SpreadID string
	Question string
	Cards    []HandCard
}

// ReadSpreadResponse is the application-level output.
type ReadSpreadResponse struct {
	Reading   domain.Reading `json:"reading"`
	SessionID string         `json:"sessionId"`
	Saved     bool           `json:"saved"`
}

// TarotService orchestrates drawing, interpretation and history autosave.
type TarotService struct {
	catalog  ports.Catalog
	drawing  *DrawingService
	engine   *ReadingEngine
	storage  *StorageService
	settings *SettingsService
	logger   *slog.Logger
}

func NewTarotService(catalog ports.Catalog, drawing *DrawingService, engine *ReadingEngine, storage *StorageService, settings *SettingsService, logger *slog.Logger) *TarotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TarotService{
		catalog:  catalog,
		drawing:  drawing,
		engine:   engine,
		storage:  storage,
		settings: settings,
		logger:   logger.With(slog.String("component", "tarot")),
	}
}

// ReadSpread draws a hand for the spread, interprets it and, when the user has
// autosave on, prepends it to the history. The user's reversed probability
// applies unless the request overrides it.
func (s *TarotService) ReadSpread(ctx context.Context, req ReadSpreadRequest) (ReadSpreadResponse, error) {
	prefs := s.settings.Current(ctx)

	p := prefs.ReversedCardProbability
	if req.ReversedProbability != nil {
		p = *req.ReversedProbability
	}

	drawn, err := s.drawing.Draw(req.SpreadID, DrawOptions{
		AllowDuplicates:     req.AllowDuplicates,
		ForceReversed:       req.ForceReversed,
		ReversedProbability: &p,
	})
	if err != nil {
		return ReadSpreadResponse{}, fmt.Errorf("draw: %w", err)
	}

	reading, err := s.engine.GenerateReading(drawn.Cards, drawn.Spread, req.Question)
	if err != nil {
		return ReadSpreadResponse{}, fmt.Errorf("generate reading: %w", err)
	}

	return s.finish(ctx, prefs, ReadSpreadResponse{Reading: reading, SessionID: drawn.SessionID})
}

// InterpretHand resolves the given cards against the catalog and interprets
// them in the spread's position order.
func (s *TarotService) InterpretHand(ctx context.Context, req InterpretHandRequest) (ReadSpreadResponse, error) {
	spread, err := s.catalog.Spread(req.SpreadID)
	if err != nil {
		return ReadSpreadResponse{}, err
	}

	hand := make([]domain.DrawnCard, len(req.Cards))
	for i, ref := range req.Cards {
		card, err := s.catalog.Card(ref.ID)
		if err != nil {
			return ReadSpreadResponse{}, err
		}
		hand[i] = domain.DrawnCard{Card: card, IsReversed: ref.IsReversed}
	}

	reading, err := s.engine.GenerateReading(hand, spread, req.Question)
	if err != nil {
		return ReadSpreadResponse{}, fmt.Errorf("generate reading: %w", err)
	}
	return s.finish(ctx, s.settings.Current(ctx), ReadSpreadResponse{Reading: reading})
}

func (s *TarotService) finish(ctx context.Context, prefs domain.Settings, resp ReadSpreadResponse) (ReadSpreadResponse, error) {
	if prefs.AutoSave {
		if err := s.storage.AddReading(ctx, resp.Reading); err != nil {
			return resp, fmt.Errorf("save reading: %w", err)
		}
		resp.Saved = true
	}

	s.logger.Info("reading generated",
		"reading_id", resp.Reading.ID,
		"spread", resp.Reading.Spread.ID,
		"cards", len(resp.Reading.Cards),
		"saved", resp.Saved,
	)
	return resp, nil
}
