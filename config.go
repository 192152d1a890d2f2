package flaglite

import (
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

const (
	// DefaultBaseURL is the production FlagLite API endpoint.
	DefaultBaseURL = "https://api.flaglite.dev/v1"
	// DefaultCacheTTL is the decision cache time-to-live used when Config
	// leaves CacheTTL unset.
	DefaultCacheTTL = 30 * time.Second
	// DefaultTimeout is the HTTP request timeout used when Config leaves
	// Timeout unset.
	DefaultTimeout = 5 * time.Second

	// EnvAPIKey is the environment variable consulted when Config.APIKey is
	// empty.
	EnvAPIKey = "FLAGLITE_API_KEY"
	// EnvBaseURL is the environment variable consulted when Config.BaseURL is
	// empty.
	EnvBaseURL = "FLAGLITE_BASE_URL"
)

// userAgent identifies this SDK in API requests.
const userAgent = "flaglite-go/1.0.0"

// Config contains the configuration for the FlagLite client.
type Config struct {
	// APIKey is the FlagLite environment API key. When empty, the
	// FLAGLITE_API_KEY environment variable is used.
	APIKey string
	// BaseURL is the API base URL. When empty, the FLAGLITE_BASE_URL
	// environment variable is used, then DefaultBaseURL.
	BaseURL string
	// CacheTTL is the decision cache time-to-live. When zero,
	// DefaultCacheTTL is used. A negative value disables caching, as does
	// DisableCache.
	CacheTTL time.Duration
	// Timeout is the HTTP request timeout. When zero, DefaultTimeout is used.
	Timeout time.Duration
	// DisableCache disables the decision cache entirely; every evaluation
	// performs a remote lookup.
	DisableCache bool
	// Logger receives a warning for every evaluation failure absorbed by the
	// client. When unset, logging is discarded.
	Logger logr.Logger

	// testFetcher is an optional flagFetcher for testing. When set,
	// NewFromConfig uses it for both call paths instead of creating real
	// HTTP transports. This field is not part of the public API.
	testFetcher flagFetcher
}

// Option is a function that configures the Config.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithCacheTTL sets the decision cache time-to-live. A zero or negative ttl
// disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.CacheTTL = ttl
		if ttl <= 0 {
			c.DisableCache = true
		}
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithCacheDisabled disables the decision cache entirely.
func WithCacheDisabled() Option {
	return func(c *Config) {
		c.DisableCache = true
	}
}

// WithLogger sets the logger used for absorbed evaluation failures.
func WithLogger(logger logr.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// resolveAPIKey returns the API key, falling back to the environment.
func (c *Config) resolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(EnvAPIKey)
}

// resolveBaseURL returns the base URL, falling back to the environment and
// then the default, normalized to end with a slash.
func (c *Config) resolveBaseURL() string {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL
}

// resolveTimeout returns the HTTP timeout, falling back to the default.
func (c *Config) resolveTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// resolveCacheTTL returns the effective cache TTL, or 0 when caching is
// disabled.
func (c *Config) resolveCacheTTL() time.Duration {
	if c.DisableCache || c.CacheTTL < 0 {
		return 0
	}
	if c.CacheTTL == 0 {
		return DefaultCacheTTL
	}
	return c.CacheTTL
}

// resolveLogger returns the configured logger, or a discarding one.
func (c *Config) resolveLogger() logr.Logger {
	if c.Logger.GetSink() == nil {
		return logr.Discard()
	}
	return c.Logger
}
