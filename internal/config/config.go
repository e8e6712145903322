// Package config provides configuration management for the paper search service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/observability"
	"github.com/helixir/paper-search-service/internal/papersources"
	"github.com/helixir/paper-search-service/internal/search"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PAPERSEARCH"

// Config holds all configuration for the paper search service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// CORS contains cross-origin settings for the browser client.
	CORS CORSConfig `mapstructure:"cors"`
	// Search contains federated search settings.
	Search SearchConfig `mapstructure:"search"`
	// PaperSources contains paper source API configurations.
	PaperSources PaperSourcesConfig `mapstructure:"paper_sources"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing a non-streaming response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the keep-alive idle timeout.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	// AllowedOrigins lists the origins allowed to call the API. Empty allows all.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// AllowCredentials allows cookies and auth headers on cross-origin requests.
	AllowCredentials bool `mapstructure:"allow_credentials"`
	// MaxAge is how long, in seconds, a preflight response may be cached.
	MaxAge int `mapstructure:"max_age"`
}

// SearchConfig holds federated search configuration.
type SearchConfig struct {
	// DefaultMaxResults is used when a request omits max_results.
	DefaultMaxResults int `mapstructure:"default_max_results"`
	// MaxResultsCap clamps max_results per source.
	MaxResultsCap int `mapstructure:"max_results_cap"`
	// ProgressPacing is the delay after each source of a progress search.
	ProgressPacing time.Duration `mapstructure:"progress_pacing"`
	// HeartbeatInterval is the idle time after which a stream sends a heartbeat.
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	// HTTPTimeout is the per-request timeout for upstream calls.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	// UserAgent is sent with every upstream request.
	UserAgent string `mapstructure:"user_agent"`
	// MaxIdleConnsPerHost sizes the per-search connection pool.
	MaxIdleConnsPerHost int `mapstructure:"max_idle_conns_per_host"`
}

// PaperSourcesConfig holds per-database configuration.
type PaperSourcesConfig struct {
	// ArXiv contains arXiv API settings.
	ArXiv PaperSourceConfig `mapstructure:"arxiv"`
	// SemanticScholar contains Semantic Scholar API settings.
	SemanticScholar PaperSourceConfig `mapstructure:"semantic_scholar"`
	// Crossref contains Crossref API settings.
	Crossref PaperSourceConfig `mapstructure:"crossref"`
	// PubMed contains PubMed API settings.
	PubMed PaperSourceConfig `mapstructure:"pubmed"`
}

// PaperSourceConfig holds configuration for a single paper source API.
type PaperSourceConfig struct {
	// Enabled is reported by the discovery endpoints. It does not prevent a
	// caller from selecting the source.
	Enabled bool `mapstructure:"enabled"`
	// APIKey is the API key (loaded from environment variable, e.g. PAPERSEARCH_PAPER_SOURCES_SEMANTIC_SCHOLAR_API_KEY).
	APIKey string `mapstructure:"-"`
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// RateLimit is the maximum requests per second. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Burst is the rate limiter burst size.
	Burst int `mapstructure:"burst"`
	// Mailto identifies the caller to Crossref's polite pool.
	Mailto string `mapstructure:"mailto"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from an optional .env file, environment variables
// and config files.
func Load() (*Config, error) {
	// Variables already set in the environment take precedence over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paper-search-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables.
	// These fields use mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
func loadSecrets(cfg *Config) {
	cfg.PaperSources.SemanticScholar.APIKey = os.Getenv(EnvPrefix + "_PAPER_SOURCES_SEMANTIC_SCHOLAR_API_KEY")
	cfg.PaperSources.PubMed.APIKey = os.Getenv(EnvPrefix + "_PAPER_SOURCES_PUBMED_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "paper_search")

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	// Search defaults
	v.SetDefault("search.default_max_results", search.DefaultMaxResults)
	v.SetDefault("search.max_results_cap", search.DefaultMaxResultsCap)
	v.SetDefault("search.progress_pacing", "500ms")
	v.SetDefault("search.heartbeat_interval", "1s")
	v.SetDefault("search.http_timeout", "30s")
	v.SetDefault("search.user_agent", papersources.DefaultUserAgent)
	v.SetDefault("search.max_idle_conns_per_host", 4)

	// Paper sources defaults - arXiv
	v.SetDefault("paper_sources.arxiv.enabled", true)
	v.SetDefault("paper_sources.arxiv.base_url", papersources.DefaultArXivBaseURL)
	v.SetDefault("paper_sources.arxiv.rate_limit", 3.0) // arXiv recommends max 3 req/sec
	v.SetDefault("paper_sources.arxiv.burst", 1)
	v.SetDefault("paper_sources.arxiv.mailto", "")

	// Paper sources defaults - Semantic Scholar
	v.SetDefault("paper_sources.semantic_scholar.enabled", true)
	v.SetDefault("paper_sources.semantic_scholar.base_url", papersources.DefaultSemanticScholarBaseURL)
	v.SetDefault("paper_sources.semantic_scholar.rate_limit", 1.0) // unauthenticated shared pool
	v.SetDefault("paper_sources.semantic_scholar.burst", 1)
	v.SetDefault("paper_sources.semantic_scholar.mailto", "")

	// Paper sources defaults - Crossref
	v.SetDefault("paper_sources.crossref.enabled", true)
	v.SetDefault("paper_sources.crossref.base_url", papersources.DefaultCrossrefBaseURL)
	v.SetDefault("paper_sources.crossref.rate_limit", 10.0)
	v.SetDefault("paper_sources.crossref.burst", 5)
	v.SetDefault("paper_sources.crossref.mailto", "")

	// Paper sources defaults - PubMed
	v.SetDefault("paper_sources.pubmed.enabled", true)
	v.SetDefault("paper_sources.pubmed.base_url", papersources.DefaultPubMedBaseURL)
	v.SetDefault("paper_sources.pubmed.rate_limit", 3.0) // NCBI recommends max 3 req/sec without API key
	v.SetDefault("paper_sources.pubmed.burst", 3)
	v.SetDefault("paper_sources.pubmed.mailto", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate server ports
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Metrics.Enabled {
		if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
			return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
		}
		if c.Server.MetricsPort == c.Server.HTTPPort {
			return fmt.Errorf("metrics port must differ from HTTP port: %d", c.Server.MetricsPort)
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics path must start with '/': %q", c.Metrics.Path)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate search config
	if c.Search.DefaultMaxResults <= 0 {
		return fmt.Errorf("search default_max_results must be positive")
	}
	if c.Search.MaxResultsCap < c.Search.DefaultMaxResults {
		return fmt.Errorf("search max_results_cap (%d) must be >= default_max_results (%d)",
			c.Search.MaxResultsCap, c.Search.DefaultMaxResults)
	}
	if c.Search.ProgressPacing < 0 {
		return fmt.Errorf("search progress_pacing must not be negative")
	}
	if c.Search.HeartbeatInterval <= 0 {
		return fmt.Errorf("search heartbeat_interval must be positive")
	}
	if c.Search.HTTPTimeout <= 0 {
		return fmt.Errorf("search http_timeout must be positive")
	}

	// Validate paper sources
	for _, s := range c.PaperSources.entries() {
		u, err := url.Parse(s.cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("paper source %s: invalid base_url %q", s.kind, s.cfg.BaseURL)
		}
		if s.cfg.RateLimit < 0 {
			return fmt.Errorf("paper source %s: rate_limit must not be negative", s.kind)
		}
	}

	return nil
}

type sourceEntry struct {
	kind domain.SourceKind
	name string
	cfg  PaperSourceConfig
}

// entries returns the sources in catalog order.
func (c *PaperSourcesConfig) entries() []sourceEntry {
	return []sourceEntry{
		{domain.KindArXiv, "arXiv", c.ArXiv},
		{domain.KindSemanticScholar, "Semantic Scholar", c.SemanticScholar},
		{domain.KindCrossref, "Crossref", c.Crossref},
		{domain.KindPubMed, "PubMed", c.PubMed},
	}
}

// CatalogEntries returns the source catalog described by the configuration.
func (c *PaperSourcesConfig) CatalogEntries() []papersources.CatalogEntry {
	entries := c.entries()
	out := make([]papersources.CatalogEntry, len(entries))
	for i, s := range entries {
		out[i] = papersources.NewCatalogEntry(s.kind, s.name, s.cfg.BaseURL, s.cfg.Enabled)
	}
	return out
}

// RateLimits returns the per-source rate limits.
func (c *PaperSourcesConfig) RateLimits() []papersources.RateLimit {
	entries := c.entries()
	out := make([]papersources.RateLimit, len(entries))
	for i, s := range entries {
		out[i] = papersources.RateLimit{
			Kind:          s.kind,
			RatePerSecond: s.cfg.RateLimit,
			Burst:         s.cfg.Burst,
		}
	}
	return out
}

// CoordinatorConfig returns the search coordinator settings.
func (c *Config) CoordinatorConfig() search.Config {
	return search.Config{
		HTTPClient: papersources.HTTPClientConfig{
			Timeout:             c.Search.HTTPTimeout,
			UserAgent:           c.Search.UserAgent,
			MaxIdleConnsPerHost: c.Search.MaxIdleConnsPerHost,
		},
		DefaultMaxResults:     c.Search.DefaultMaxResults,
		MaxResultsCap:         c.Search.MaxResultsCap,
		ProgressPacing:        c.Search.ProgressPacing,
		SemanticScholarAPIKey: c.PaperSources.SemanticScholar.APIKey,
		PubMedAPIKey:          c.PaperSources.PubMed.APIKey,
		CrossrefMailto:        c.PaperSources.Crossref.Mailto,
	}
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() observability.LoggingConfig {
	return observability.LoggingConfig{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Output:    c.Logging.Output,
		AddSource: c.Logging.AddSource,
	}
}
