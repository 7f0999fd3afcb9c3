package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		env               map[string]string
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "defaults",
			want: &Config{
				HTTP:    HTTPConfig{Addr: ":8080"},
				Log:     LogConfig{Level: "info"},
				Storage: StorageConfig{Driver: "sqlite", Path: "tarot.db", QuotaBytes: 5 * 1024 * 1024},
				Drawing: DrawingConfig{ReversedProbability: 0.3},
				History: HistoryConfig{MaxAgeDays: 365},
			},
		},
		{
			name: "file values",
			configContent: `http:
  addr: 127.0.0.1:9000
storage:
  driver: memory
  quota_bytes: 1024
history:
  max_age_days: 30
`,
			want: &Config{
				HTTP:    HTTPConfig{Addr: "127.0.0.1:9000"},
				Log:     LogConfig{Level: "info"},
				Storage: StorageConfig{Driver: "memory", Path: "tarot.db", QuotaBytes: 1024},
				Drawing: DrawingConfig{ReversedProbability: 0.3},
				History: HistoryConfig{MaxAgeDays: 30},
			},
		},
		{
			name:          "environment overrides file",
			configContent: "log:\n  level: warn\n",
			env:           map[string]string{"TAROT_LOG_LEVEL": "debug", "TAROT_STORAGE_DRIVER": "memory"},
			want: &Config{
				HTTP:    HTTPConfig{Addr: ":8080"},
				Log:     LogConfig{Level: "debug"},
				Storage: StorageConfig{Driver: "memory", Path: "tarot.db", QuotaBytes: 5 * 1024 * 1024},
				Drawing: DrawingConfig{ReversedProbability: 0.3},
				History: HistoryConfig{MaxAgeDays: 365},
			},
		},
		{
			name:              "invalid yaml",
			configContent:     "http:\n  addr: [[[\n",
			wantErrorContains: []string{"configuration file found but could not be read"},
		},
		{
			name: "invalid values",
			configContent: `storage:
  driver: postgres
drawing:
  reversed_probability: 1.5
`,
			wantErrorContains: []string{
				"invalid configuration",
				"driver must be one of [memory sqlite]",
				"reversed_probability must be 1 or less",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			t.Setenv("HOME", dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if tt.configContent != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "tarot.yaml"), []byte(tt.configContent), 0o644))
			}

			got, err := Load("")
			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				for _, s := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), s)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  max_age_days: 7\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, got.History.MaxAgeDays)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "info"}.SlogLevel())
}
