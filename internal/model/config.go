package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	HTTP         HTTPConfig        `yaml:"http"`
	Cache        CacheConfig       `yaml:"cache"`
	LLM          LLMConfig         `yaml:"llm"`
	Validation   ValidationConfig  `yaml:"validation"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Server       ServerConfig      `yaml:"server"`
}

// HTTPConfig configures outbound HTTP (article fetching and data sources)
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig configures the fingerprint cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Dir             string        `yaml:"dir"` // Non-empty enables the disk layer
}

// LLMConfig configures the language-model capability
type LLMConfig struct {
	Provider       string `yaml:"provider"` // openai, anthropic, ollama
	Model          string `yaml:"model"`
	SynthesisModel string `yaml:"synthesis_model"` // Cheaper model for verdict summaries
	APIKey         string `yaml:"-"`               // Never persisted; read from environment
	BaseURL        string `yaml:"base_url"`
	Timeout        int    `yaml:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens"`
}

// ValidationConfig configures the validation multiplexer
type ValidationConfig struct {
	Timeout            time.Duration `yaml:"timeout"`               // Per source call
	MaxSourcesPerClaim int           `yaml:"max_sources_per_claim"` // Primary + fallbacks, bounded
	SupportTolerance   float64       `yaml:"support_tolerance"`     // Relative error for "supported"
	PartialTolerance   float64       `yaml:"partial_tolerance"`     // Relative error for "partially_supported"
	FREDAPIKey         string        `yaml:"-"`                     // From FRED_API_KEY
	EIAAPIKey          string        `yaml:"-"`                     // From EIA_API_KEY, optional
}

// ConcurrencyConfig bounds the parallel work per request and per batch
type ConcurrencyConfig struct {
	Workers           int `yaml:"workers"`            // Batch articles processed in parallel
	ValidationWorkers int `yaml:"validation_workers"` // Concurrent source calls per request
}

// RateLimitConfig bounds outbound requests per data-source host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// ServerConfig configures the HTTP entry point
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // Overall per-analysis deadline
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "ClearView/1.0 (+https://github.com/ppiankov/clearview)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Timeout:   60,
			MaxTokens: 4096,
		},
		Validation: ValidationConfig{
			Timeout:            10 * time.Second,
			MaxSourcesPerClaim: 2,
			SupportTolerance:   0.10,
			PartialTolerance:   0.35,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			ValidationWorkers: 8,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 4,
			BurstSize:         5,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 2 * time.Minute,
		},
	}
}
