// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads API keys from a directory holding one file per key.
// The file name is the key name and the trimmed contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Key file names.
const (
	KeyGroq            = "groq-api-key"
	KeyOpenAI          = "openai-api-key"
	KeyAnthropic       = "anthropic-api-key"
	KeySemanticScholar = "semantic-scholar-api-key"
	KeyOpenAlexEmail   = "openalex-email"
)

var knownKeys = []string{KeyGroq, KeyOpenAI, KeyAnthropic, KeySemanticScholar, KeyOpenAlexEmail}

// providerKeys maps each generation provider to its key file.
var providerKeys = map[types.Provider]string{
	"":                      KeyGroq,
	types.ProviderGroq:      KeyGroq,
	types.ProviderOpenAI:    KeyOpenAI,
	types.ProviderEino:      KeyOpenAI,
	types.ProviderAnthropic: KeyAnthropic,
}

// Store holds the non-empty keys found in a secrets directory.
type Store map[string]string

// Load reads the recognized key files in dir. Other files are ignored. A
// missing directory or key file is not an error; a key file that exists
// but cannot be read is.
func Load(dir string) (Store, error) {
	s := Store{}
	var errs []error
	for _, name := range knownKeys {
		data, err := os.ReadFile(filepath.Join(dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			errs = append(errs, fmt.Errorf("reading secret %s: %w", name, err))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s[name] = v
		}
	}
	return s, errors.Join(errs...)
}

// Names returns the loaded key names in sorted order.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Apply fills empty credential fields of cfg. Values already set by the
// config file or environment are kept.
func (s Store) Apply(cfg *types.Config) {
	setIfEmpty(&cfg.AI.APIKey, s[providerKeys[cfg.AI.Provider]])
	setIfEmpty(&cfg.Metrics.APIKey, s[KeySemanticScholar])
	setIfEmpty(&cfg.Search.SemanticScholarAPIKey, s[KeySemanticScholar])
	setIfEmpty(&cfg.Search.OpenAlexEmail, s[KeyOpenAlexEmail])
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
