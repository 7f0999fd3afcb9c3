package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/tarot-studio/internal/domain"
	"github.com/randomtoy/tarot-studio/internal/ports"
)

const (
	historyKey  = "tarot_reading_history"
	settingsKey = "tarot_user_settings"
	versionKey  = "tarot_app_version"
	sentinelKey = "tarot_storage_test"
	keyPrefix   = "tarot_"

	// SchemaVersion is stamped on the store and on every export.
	SchemaVersion = "1.0.0"

	// MaxHistory is the number of readings kept; older ones fall off the end.
	MaxHistory = 100
	// QuotaBytes is the assumed total capacity reported by StorageUsage.
	QuotaBytes = 5 * 1024 * 1024
)

// ExportBundle is the envelope written by ExportAll and accepted by ParseExport.
type ExportBundle struct {
	Version        string           `json:"version"`
	ExportDate     time.Time        `json:"exportDate"`
	ReadingHistory []domain.Reading `json:"readingHistory"`
	UserSettings   *domain.Settings `json:"userSettings"`
}

// ImportRequest holds the sections decoded from an export file. Settings is
// partial: fields the file leaves out keep their default.
type ImportRequest struct {
	History  []domain.Reading
	Settings *domain.SettingsPatch
}

// ImportData holds resolved sections to store. Nil sections are skipped.
type ImportData struct {
	History  []domain.Reading
	Settings *domain.Settings
}

// ImportResult reports a best-effort import.
type ImportResult struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// Usage is a snapshot of how much of the quota the app occupies.
type Usage struct {
	Used         int64   `json:"used"`
	Total        int64   `json:"total"`
	Percentage   float64 `json:"percentage"`
	ReadingCount int     `json:"readingCount"`
}

// StorageService persists reading history and settings as JSON blobs in a
// key-value store. Read failures degrade to empty values; write failures are
// returned wrapped in domain.ErrStorage.
type StorageService struct {
	kv     ports.KVStore
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// NewStorageService wraps kv and migrates any data written by an older version.
func NewStorageService(ctx context.Context, kv ports.KVStore, logger *slog.Logger) *StorageService {
	return newStorageService(ctx, kv, logger, time.Now)
}

// NewStorageServiceWithClock is NewStorageService with an injectable clock.
func NewStorageServiceWithClock(ctx context.Context, kv ports.KVStore, logger *slog.Logger, now func() time.Time) *StorageService {
	return newStorageService(ctx, kv, logger, now)
}

func newStorageService(ctx context.Context, kv ports.KVStore, logger *slog.Logger, now func() time.Time) *StorageService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &StorageService{
		kv:     kv,
		now:    now,
		logger: logger.With(slog.String("component", "storage")),
	}
	s.migrate(ctx)
	return s
}

func (s *StorageService) migrate(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, versionKey)
	if err != nil {
		s.logger.Warn("read schema version", "error", err)
		return
	}
	stored := string(raw)
	if ok && stored == SchemaVersion {
		return
	}
	if ok {
		s.logger.Info("migrating storage", "from", stored, "to", SchemaVersion)
		if err := s.backfillHistory(ctx); err != nil {
			s.logger.Error("migration failed", "error", err)
			return
		}
	}
	if err := s.kv.Set(ctx, versionKey, []byte(SchemaVersion)); err != nil {
		s.logger.Error("stamp schema version", "error", err)
	}
}

// backfillHistory gives every stored entry an id and a parseable timestamp.
func (s *StorageService) backfillHistory(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, historyKey)
	if err != nil || !ok {
		return err
	}
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	for _, e := range entries {
		if id, _ := e["id"].(string); id == "" {
			e["id"] = "reading_" + uuid.NewString()
		}
		ts, _ := e["timestamp"].(string)
		if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
			e["timestamp"] = now
		}
	}

	out, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return s.kv.Set(ctx, historyKey, out)
}

// SaveHistory replaces the stored history.
func (s *StorageService) SaveHistory(ctx context.Context, history []domain.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveHistory(ctx, history)
}

func (s *StorageService) saveHistory(ctx context.Context, history []domain.Reading) error {
	if history == nil {
		history = []domain.Reading{}
	}
	return s.put(ctx, historyKey, history)
}

// LoadHistory returns the stored history, most recent first. Missing or
// corrupt data yields an empty list.
func (s *StorageService) LoadHistory(ctx context.Context) []domain.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory(ctx)
}

func (s *StorageService) loadHistory(ctx context.Context) []domain.Reading {
	var history []domain.Reading
	if !s.get(ctx, historyKey, &history) || history == nil {
		return []domain.Reading{}
	}
	return history
}

// AddReading prepends r and trims the history to MaxHistory entries.
func (s *StorageService) AddReading(ctx context.Context, r domain.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append([]domain.Reading{r}, s.loadHistory(ctx)...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	return s.saveHistory(ctx, history)
}

// RemoveReading drops the reading with the given id, if present.
func (s *StorageService) RemoveReading(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.loadHistory(ctx)
	kept := history[:0]
	for _, r := range history {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.saveHistory(ctx, kept)
}

// GetReading looks up one stored reading.
func (s *StorageService) GetReading(ctx context.Context, id string) (domain.Reading, bool) {
	for _, r := range s.LoadHistory(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Reading{}, false
}

// ClearHistory deletes the whole history.
func (s *StorageService) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, historyKey); err != nil {
		return fmt.Errorf("%w: clear history: %w", domain.ErrStorage, err)
	}
	return nil
}

func (s *StorageService) SaveSettings(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, settingsKey, settings)
}

// LoadSettings decodes the stored settings over base, so fields missing from
// the stored record keep base's value. It reports false and returns base when
// nothing readable is stored.
func (s *StorageService) LoadSettings(ctx context.Context, base domain.Settings) (domain.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := base
	if !s.get(ctx, settingsKey, &settings) {
		return base, false
	}
	return settings, true
}

// DeleteSettings removes stored settings.
func (s *StorageService) DeleteSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, settingsKey); err != nil {
		return fmt.Errorf("%w: delete settings: %w", domain.ErrStorage, err)
	}
	return nil
}

// ExportAll bundles everything the app stores.
func (s *StorageService) ExportAll(ctx context.Context) ExportBundle {
	b := ExportBundle{
		Version:        SchemaVersion,
		ExportDate:     s.now(),
		ReadingHistory: s.LoadHistory(ctx),
	}
	if settings, ok := s.LoadSettings(ctx, domain.DefaultSettings()); ok {
		b.UserSettings = &settings
	}
	return b
}

// ParseExport decodes an export file into importable sections.
func ParseExport(r io.Reader) (ImportRequest, error) {
	var b struct {
		ReadingHistory []domain.Reading      `json:"readingHistory"`
		UserSettings   *domain.SettingsPatch `json:"userSettings"`
	}
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return ImportRequest{}, fmt.Errorf("%w: decode export: %w", domain.ErrInvalidParameter, err)
	}
	return ImportRequest{History: b.ReadingHistory, Settings: b.UserSettings}, nil
}

// ImportData saves each provided section independently and collects the
// failures rather than stopping at the first one. Settings are stored as
// given; SettingsService.Import resolves and validates them first.
func (s *StorageService) ImportData(ctx context.Context, data ImportData) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := ImportResult{Errors: []string{}}
	if data.History != nil {
		if err := s.saveHistory(ctx, data.History); err != nil {
			res.Errors = append(res.Errors, "history import failed: "+err.Error())
		}
	}
	if data.Settings != nil {
		if err := s.put(ctx, settingsKey, *data.Settings); err != nil {
			res.Errors = append(res.Errors, "settings import failed: "+err.Error())
		}
	}
	res.Success = len(res.Errors) == 0
	s.logger.Info("import finished", "success", res.Success, "errors", len(res.Errors))
	return res
}

// StorageUsage sums the size of every key in the app's namespace.
func (s *StorageService) StorageUsage(ctx context.Context) Usage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		s.logger.Warn("list keys", "error", err)
	}
	for _, k := range keys {
		v, ok, err := s.kv.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		used += int64(len(k) + len(v))
	}

	pct := float64(used) / QuotaBytes * 100
	return Usage{
		Used:         used,
		Total:        QuotaBytes,
		Percentage:   math.Round(pct*100) / 100,
		ReadingCount: len(s.loadHistory(ctx)),
	}
}

// CleanupExpired drops readings older than maxAgeDays and returns how many
// were removed.
func (s *StorageService) CleanupExpired(ctx context.Context, maxAgeDays int) (int, error) {
	if maxAgeDays < 0 {
		return 0, fmt.Errorf("%w: max age must not be negative, got %d", domain.ErrInvalidParameter, maxAgeDays)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	history := s.loadHistory(ctx)
	kept := make([]domain.Reading, 0, len(history))
	for _, r := range history {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		}
	}

	removed := len(history) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.saveHistory(ctx, kept); err != nil {
		return 0, err
	}
	s.logger.Info("expired readings removed", "removed", removed, "max_age_days", maxAgeDays)
	return removed, nil
}

// IsAvailable probes the store with a throwaway write.
func (s *StorageService) IsAvailable(ctx context.Context) bool {
	if err := s.kv.Set(ctx, sentinelKey, []byte("test")); err != nil {
		s.logger.Warn("storage unavailable", "error", err)
		return false
	}
	if err := s.kv.Delete(ctx, sentinelKey); err != nil {
		s.logger.Warn("storage unavailable", "error", err)
		return false
	}
	return true
}

func (s *StorageService) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrStorage, key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		if errors.Is(err, domain.ErrStorage) {
			return err
		}
		return fmt.Errorf("%w: write %s: %w", domain.ErrStorage, key, err)
	}
	return nil
}

// get reports whether key held a value that decoded into v.
func (s *StorageService) get(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read failed", "key", key, "error", err)
		return false
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("corrupt value ignored", "key", key, "error", err)
		return false
	}
	return true
}
