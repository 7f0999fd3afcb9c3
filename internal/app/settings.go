package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/randomtoy/tarot-studio/internal/domain"
)

// SettingsService owns the user preference lifecycle: defaults on first use,
// validated partial updates, and reset.
type SettingsService struct {
	storage  *StorageService
	defaults domain.Settings
	validate *validator.Validate
	logger   *slog.Logger

	mu sync.Mutex
}

type SettingsOption func(*SettingsService)

// WithDefaultReversedProbability changes the probability new users start with.
func WithDefaultReversedProbability(p float64) SettingsOption {
	return func(s *SettingsService) { s.defaults.ReversedCardProbability = p }
}

func NewSettingsService(storage *StorageService, logger *slog.Logger, opts ...SettingsOption) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SettingsService{
		storage:  storage,
		defaults: domain.DefaultSettings(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With(slog.String("component", "settings")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the stored settings layered over the defaults. Invalid
// stored settings are ignored.
func (s *SettingsService) Current(ctx context.Context) domain.Settings {
	stored, ok := s.storage.LoadSettings(ctx, s.defaults)
	if !ok {
		return s.defaults
	}
	if err := s.validate.Struct(stored); err != nil {
		s.logger.Warn("stored settings invalid, using defaults", "error", err)
		return s.defaults
	}
	return stored
}

// Update merges patch into the current settings and persists the result.
func (s *SettingsService) Update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.Current(ctx))
	if err := s.validate.Struct(next); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err)
	}
	if err := s.storage.SaveSettings(ctx, next); err != nil {
		return domain.Settings{}, err
	}
	s.logger.Debug("settings updated")
	return next, nil
}

// Reset restores and persists the defaults.
func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SaveSettings(ctx, s.defaults); err != nil {
		return domain.Settings{}, err
	}
	s.logger.Info("settings reset to defaults")
	return s.defaults, nil
}

// Import stores an export file's sections. The settings section is layered
// over the defaults and validated; a rejected section is reported in the
// result and the rest of the file is still imported.
func (s *SettingsService) Import(ctx context.Context, req ImportRequest) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := ImportData{History: req.History}
	var rejected []string
	if req.Settings != nil {
		next := req.Settings.Apply(s.defaults)
		if err := s.validate.Struct(next); err != nil {
			rejected = append(rejected, "settings import failed: "+fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err).Error())
		} else {
			data.Settings = &next
		}
	}

	res := s.storage.ImportData(ctx, data)
	if len(rejected) > 0 {
		res.Errors = append(rejected, res.Errors...)
		res.Success = false
		s.logger.Warn("imported settings rejected", "errors", rejected)
	}
	return res
}
