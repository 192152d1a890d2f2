package flaglite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Client is a FlagLite feature flag client. It evaluates boolean flags
// against the FlagLite service, consulting a local TTL cache before issuing a
// network call, and never surfaces a transport or protocol failure to the
// caller: on any error the caller-supplied fallback is returned instead.
//
// [Client.Enabled] is safe for concurrent use. [Client.EnabledSync] is the
// blocking single-caller path; a Client used from multiple goroutines must
// use Enabled exclusively.
type Client struct {
	config Config
	logger logr.Logger

	// cache is nil when caching is disabled; the pipeline then always
	// performs a remote lookup.
	cache *TTLCache

	// mu guards the lazy creation of the concurrent-path fetcher and Close.
	mu sync.Mutex
	// fetcher is the transport handle for the Enabled path, created on
	// first use.
	fetcher flagFetcher
	// syncFetcher is the transport handle owned by the single-threaded
	// EnabledSync path, created on first use.
	syncFetcher flagFetcher
}

// New creates a new [Client] from an API key and options. An empty apiKey
// falls back to the FLAGLITE_API_KEY environment variable.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	config := Config{
		APIKey: apiKey,
	}
	for _, option := range options {
		option(&config)
	}
	return NewFromConfig(ctx, config)
}

// NewFromConfig creates a new [Client] from a [Config]. It returns a
// *ConfigurationError when no API key is resolvable; this is the only error
// the SDK ever propagates.
func NewFromConfig(_ context.Context, config Config) (*Client, error) {
	config.APIKey = config.resolveAPIKey()
	if config.APIKey == "" {
		return nil, &ConfigurationError{FlagLiteError{
			Message: "API key required: pass an API key or set " + EnvAPIKey,
		}}
	}
	config.BaseURL = config.resolveBaseURL()
	config.Timeout = config.resolveTimeout()

	client := &Client{
		config: config,
		logger: config.resolveLogger(),
	}
	if ttl := config.resolveCacheTTL(); ttl > 0 {
		client.cache = NewTTLCache(ttl)
	}

	// Allow injecting a test fetcher for testing
	if config.testFetcher != nil {
		client.fetcher = config.testFetcher
		client.syncFetcher = config.testFetcher
	}

	return client, nil
}

// evalOptions collects the per-evaluation settings.
type evalOptions struct {
	userID   string
	fallback bool
}

// EvalOption configures a single flag evaluation.
type EvalOption func(*evalOptions)

// WithUser scopes the evaluation to a user ID, enabling consistent
// per-user rollout decisions. An empty userID is equivalent to no user.
func WithUser(userID string) EvalOption {
	return func(o *evalOptions) {
		o.userID = userID
	}
}

// WithDefault sets the value returned when the evaluation fails for any
// reason. The default fallback is false (fail closed).
func WithDefault(fallback bool) EvalOption {
	return func(o *evalOptions) {
		o.fallback = fallback
	}
}

func newEvalOptions(opts []EvalOption) evalOptions {
	var eval evalOptions
	for _, opt := range opts {
		opt(&eval)
	}
	return eval
}

// Enabled reports whether a feature flag is enabled. Results are cached for
// the configured TTL. It never returns an error: on any failure (network,
// auth, rate limit, protocol) the failure is logged and the fallback is
// returned. Safe for concurrent use.
func (c *Client) Enabled(ctx context.Context, flagKey string, opts ...EvalOption) bool {
	eval := newEvalOptions(opts)

	var cacheGet func(string, string) (bool, bool)
	var cacheSet func(string, bool, string)
	if c.cache != nil {
		cacheGet = c.cache.Get
		cacheSet = c.cache.Set
	}
	fetch := func(flagKey, userID string) (*flagResponse, error) {
		return c.concurrentFetcher().FetchFlag(ctx, flagKey, userID)
	}

	return c.evaluate(flagKey, eval, cacheGet, cacheSet, fetch)
}

// EnabledSync is the blocking form of [Client.Enabled] for single-threaded
// callers. The calling goroutine completes the full lookup, including the
// network round trip, before proceeding. It uses the cache's unlocked
// operations and its own transport handle, so it must not be called
// concurrently with itself or with Enabled.
func (c *Client) EnabledSync(flagKey string, opts ...EvalOption) bool {
	eval := newEvalOptions(opts)

	var cacheGet func(string, string) (bool, bool)
	var cacheSet func(string, bool, string)
	if c.cache != nil {
		cacheGet = c.cache.GetUnlocked
		cacheSet = c.cache.SetUnlocked
	}
	fetch := func(flagKey, userID string) (*flagResponse, error) {
		return c.blockingFetcher().FetchFlag(context.Background(), flagKey, userID)
	}

	return c.evaluate(flagKey, eval, cacheGet, cacheSet, fetch)
}

// evaluate is the cache-aside pipeline shared by both call paths: cache
// lookup, then remote lookup on a miss, then cache population. cacheGet and
// cacheSet abstract over the cache's two locking forms and are nil when
// caching is disabled; fetch performs the single remote attempt. Every
// failure is absorbed here, so the caller always receives either the real
// decision or the fallback.
func (c *Client) evaluate(
	flagKey string,
	eval evalOptions,
	cacheGet func(string, string) (bool, bool),
	cacheSet func(string, bool, string),
	fetch func(string, string) (*flagResponse, error),
) bool {
	if cacheGet != nil {
		if value, ok := cacheGet(flagKey, eval.userID); ok {
			c.logger.V(1).Info("cache hit", "flagKey", flagKey, "userID", eval.userID)
			return value
		}
	}

	value, err := c.decide(flagKey, eval.userID, fetch)
	if err != nil {
		c.logger.Error(err, "flag evaluation failed, returning fallback",
			"flagKey", flagKey, "userID", eval.userID, "fallback", eval.fallback)
		return eval.fallback
	}

	if cacheSet != nil {
		cacheSet(flagKey, value, eval.userID)
	}
	return value
}

// decide performs the remote lookup and classifies the outcome according to
// the FlagLite API contract: 200 reads the enabled field, 404 means the flag
// does not exist and is defined to be disabled, 401 and 429 map to their
// error kinds, and anything else is a generic API error with the message
// taken from the body when decodable.
func (c *Client) decide(flagKey, userID string, fetch func(string, string) (*flagResponse, error)) (bool, error) {
	resp, err := fetch(flagKey, userID)
	if err != nil {
		return false, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return false, &FlagLiteError{
				Message:    fmt.Sprintf("malformed response body: %v", err),
				StatusCode: resp.StatusCode,
			}
		}
		return body.Enabled, nil

	case http.StatusUnauthorized:
		return false, &AuthenticationError{FlagLiteError{
			Message:    "invalid API key",
			StatusCode: resp.StatusCode,
		}}

	case http.StatusNotFound:
		// An unknown flag means disabled, not an error.
		return false, nil

	case http.StatusTooManyRequests:
		rateLimitErr := &RateLimitError{
			FlagLiteError: FlagLiteError{
				Message:    "rate limit exceeded",
				StatusCode: resp.StatusCode,
			},
		}
		if retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			rateLimitErr.RetryAfter = retryAfter
		}
		return false, rateLimitErr
	}

	message := fmt.Sprintf("HTTP %d", resp.StatusCode)
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Message != "" {
		message = body.Message
	}
	return false, &FlagLiteError{
		Message:    message,
		StatusCode: resp.StatusCode,
	}
}

// concurrentFetcher lazily creates the transport handle shared by Enabled
// callers.
func (c *Client) concurrentFetcher() flagFetcher {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetcher == nil {
		c.fetcher = newHTTPFetcher(&c.config)
	}
	return c.fetcher
}

// blockingFetcher lazily creates the transport handle owned by the
// single-threaded EnabledSync path.
func (c *Client) blockingFetcher() flagFetcher {
	if c.syncFetcher == nil {
		c.syncFetcher = newHTTPFetcher(&c.config)
	}
	return c.syncFetcher
}

// CacheTTL returns the decision cache time-to-live, or 0 when caching is
// disabled.
func (c *Client) CacheTTL() time.Duration {
	if c.cache == nil {
		return 0
	}
	return c.cache.TTL()
}

// InvalidateCache removes the cached decision for a flag. Use [WithUser] to
// invalidate a specific user's entry; other users' entries for the same flag
// are untouched.
func (c *Client) InvalidateCache(flagKey string, opts ...EvalOption) {
	if c.cache == nil {
		return
	}
	eval := newEvalOptions(opts)
	c.cache.Invalidate(flagKey, eval.userID)
}

// ClearCache removes every cached decision.
func (c *Client) ClearCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// CleanupExpiredCache removes every expired cache entry and returns the
// number removed. Expiry is otherwise lazy, so long-running applications with
// many distinct flags or users can call this periodically to reclaim memory.
func (c *Client) CleanupExpiredCache() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.CleanupExpired()
}

// Close releases both transport handles. It is safe to call more than once,
// and the error is always nil; Client implements [io.Closer] so it can be
// managed with defer. The client must not be used after Close.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetcher != nil {
		c.fetcher.Close()
		c.fetcher = nil
	}
	if c.syncFetcher != nil {
		c.syncFetcher.Close()
		c.syncFetcher = nil
	}
	return nil
}
