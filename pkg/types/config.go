// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ideation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Provider names a text generation service.
type Provider string

const (
	ProviderGroq      Provider = "groq"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderEino      Provider = "eino"
)

// AIConfig holds shared settings for stages that call a text generation API.
type AIConfig struct {
	// Provider selects the generation backend (groq, openai, anthropic, eino).
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "llama-3.3-70b-versatile").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// Timeout bounds a single generation request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// Configured reports whether a generation backend can be constructed.
func (c AIConfig) Configured() bool {
	return c.APIKey != ""
}

// Source names a bibliographic search backend.
type Source string

const (
	SourceArxiv           Source = "arxiv"
	SourceSemanticScholar Source = "semantic_scholar"
	SourceOpenAlex        Source = "openalex"
)

// SearchConfig holds settings for the candidate fetch stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Sources lists the bibliographic backends to query (default arxiv only).
	Sources []Source `json:"sources" yaml:"sources" mapstructure:"sources"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"-" yaml:"-" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail joins the OpenAlex polite pool when set.
	OpenAlexEmail string `json:"-" yaml:"-" mapstructure:"openalex_email"`

	// InterBackendDelay is the pause between backends that share a rate limit.
	InterBackendDelay time.Duration `json:"inter_backend_delay" yaml:"inter_backend_delay" mapstructure:"inter_backend_delay"`
}

// Enabled reports whether src is among the configured sources.
// An empty source list means arXiv only.
func (c SearchConfig) Enabled(src Source) bool {
	if len(c.Sources) == 0 {
		return src == SourceArxiv
	}
	for _, s := range c.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// MetricsConfig holds settings for citation metrics enrichment.
type MetricsConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is an optional Semantic Scholar API key.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// RequestDelay is the fixed pause between consecutive lookups (default 500ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// MaxRetries is the number of 429 retries per lookup (default 0).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// CachePath is an optional SQLite database caching lookups.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty" mapstructure:"cache_path"`

	// CacheTTL is how long a cached lookup stays fresh.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// SOTAConfig holds defaults for SOTA identification requests.
type SOTAConfig struct {
	// TopK is the number of papers returned (default 2, at most 10).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`

	// MaxResults is the number of candidates fetched (default 20, at most 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// IncludeMetrics controls citation enrichment.
	IncludeMetrics bool `json:"include_metrics" yaml:"include_metrics" mapstructure:"include_metrics"`
}

// ConversionBackend identifies the text extraction tool.
type ConversionBackend string

const (
	BackendAuto       ConversionBackend = "auto"
	BackendMarkitdown ConversionBackend = "markitdown"
)

// ConversionConfig holds settings for document text extraction.
type ConversionConfig struct {
	// Backend selects auto (by extension) or markitdown (container).
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Runtime pins the container engine ("docker" or "podman"). Empty
	// tries docker, then podman.
	Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty" mapstructure:"runtime"`

	// Image is the markitdown image (default "markitdown:latest").
	Image string `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`

	// Memory is the container memory limit, e.g. "1g". Empty means none.
	Memory string `json:"memory,omitempty" yaml:"memory,omitempty" mapstructure:"memory"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is a logrus level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File, when set, receives a copy of every log line.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	// OTLPEndpoint is the host:port of an OTLP/HTTP collector. Empty disables export.
	OTLPEndpoint string `json:"otlp_endpoint,omitempty" yaml:"otlp_endpoint,omitempty" mapstructure:"otlp_endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `json:"insecure" yaml:"insecure" mapstructure:"insecure"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`
}

// ServerConfig holds settings for the HTTP front end.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadBytes bounds a multipart /analyze request body.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// Config is the full process configuration decoded from the config file,
// environment and flags.
type Config struct {
	AI        AIConfig         `json:"ai" yaml:"ai" mapstructure:"ai"`
	Search    SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Metrics   MetricsConfig    `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
	SOTA      SOTAConfig       `json:"sota" yaml:"sota" mapstructure:"sota"`
	Converter ConversionConfig `json:"converter" yaml:"converter" mapstructure:"converter"`
	Log       LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig  `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
	Server    ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}
