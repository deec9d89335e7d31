// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Store
	}{
		{
			name: "trims values",
			files: map[string]string{
				KeyGroq:            "  gsk_abc123  \n",
				KeySemanticScholar: "s2_xyz",
				KeyOpenAlexEmail:   "user@example.com\n",
			},
			want: Store{KeyGroq: "gsk_abc123", KeySemanticScholar: "s2_xyz", KeyOpenAlexEmail: "user@example.com"},
		},
		{
			name:  "blank files are dropped",
			files: map[string]string{KeyAnthropic: "ak", KeyOpenAI: " \n\t"},
			want:  Store{KeyAnthropic: "ak"},
		},
		{
			name:  "unrecognized files are ignored",
			files: map[string]string{"github-token": "ghp", ".gitkeep": "", KeyOpenAI: "sk"},
			want:  Store{KeyOpenAI: "sk"},
		},
		{
			name: "empty directory",
			want: Store{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
			}
			got, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadKeyIsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, KeyGroq), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyAnthropic), []byte("ak"), 0o644))

	got, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyGroq)
	assert.Equal(t, "ak", got[KeyAnthropic])
}

func TestNames(t *testing.T) {
	s := Store{KeyOpenAlexEmail: "e", KeyAnthropic: "a", KeyGroq: "g"}
	assert.Equal(t, []string{KeyAnthropic, KeyGroq, KeyOpenAlexEmail}, s.Names())
	assert.Empty(t, Store{}.Names())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		cfg   types.Config
		store Store
		check func(t *testing.T, cfg types.Config)
	}{
		{
			name:  "groq key fills an empty default provider",
			store: Store{KeyGroq: "gsk", KeyAnthropic: "ak"},
			check: func(t *testing.T, cfg types.Config) {
				assert.Equal(t, "gsk", cfg.AI.APIKey)
			},
		},
		{
			name:  "key matches the configured provider",
			cfg:   types.Config{AI: types.AIConfig{Provider: types.ProviderAnthropic}},
			store: Store{KeyGroq: "gsk", KeyAnthropic: "ak"},
			check: func(t *testing.T, cfg types.Config) {
				assert.Equal(t, "ak", cfg.AI.APIKey)
			},
		},
		{
			name:  "eino uses the openai key",
			cfg:   types.Config{AI: types.AIConfig{Provider: types.ProviderEino}},
			store: Store{KeyOpenAI: "sk"},
			check: func(t *testing.T, cfg types.Config) {
				assert.Equal(t, "sk", cfg.AI.APIKey)
			},
		},
		{
			name:  "configured values win",
			cfg:   types.Config{AI: types.AIConfig{APIKey: "from-env"}, Metrics: types.MetricsConfig{APIKey: "m"}},
			store: Store{KeyGroq: "gsk", KeySemanticScholar: "s2"},
			check: func(t *testing.T, cfg types.Config) {
				assert.Equal(t, "from-env", cfg.AI.APIKey)
				assert.Equal(t, "m", cfg.Metrics.APIKey)
				assert.Equal(t, "s2", cfg.Search.SemanticScholarAPIKey)
			},
		},
		{
			name:  "bibliographic keys",
			store: Store{KeySemanticScholar: "s2", KeyOpenAlexEmail: "me@example.com"},
			check: func(t *testing.T, cfg types.Config) {
				assert.Equal(t, "s2", cfg.Metrics.APIKey)
				assert.Equal(t, "s2", cfg.Search.SemanticScholarAPIKey)
				assert.Equal(t, "me@example.com", cfg.Search.OpenAlexEmail)
				assert.Empty(t, cfg.AI.APIKey)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			tt.store.Apply(&cfg)
			tt.check(t, cfg)
		})
	}
}
