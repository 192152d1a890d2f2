// Package flaglite is the Go SDK for the FlagLite feature flag service.
//
// It evaluates boolean feature flags against the FlagLite API with a
// client-side TTL cache and a fail-safe boundary: flag evaluation never
// returns an error and never panics on remote trouble. On any failure
// (network, authentication, rate limiting, protocol) the caller-supplied
// fallback is returned instead, false unless overridden, so a flag outage
// can never crash or block application logic.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    flaglite "github.com/flaglite/flaglite-go"
//	)
//
//	func main() {
//	    // Reads FLAGLITE_API_KEY when the key argument is empty.
//	    flags, err := flaglite.New(context.Background(), "your-api-key")
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer flags.Close()
//
//	    if flags.Enabled(context.Background(), "new-checkout") {
//	        // Feature is enabled
//	    }
//
//	    // Scope the decision to a user for consistent percentage rollouts,
//	    // and fail open instead of closed.
//	    if flags.Enabled(context.Background(), "new-checkout",
//	        flaglite.WithUser("user-123"),
//	        flaglite.WithDefault(true)) {
//	        // Feature is enabled for user-123
//	    }
//	}
//
// # Configuration
//
// The client is created with [New] or [NewFromConfig]. [New] accepts an API
// key and options:
//
//   - [WithBaseURL]: Point the client at a different API endpoint
//   - [WithCacheTTL]: Change the decision cache time-to-live (default 30s)
//   - [WithCacheDisabled]: Skip caching entirely
//   - [WithTimeout]: Change the HTTP request timeout (default 5s)
//   - [WithLogger]: Receive a log record for every absorbed failure
//
// A missing API key is the one configuration the client refuses to run with:
// [New] returns a *[ConfigurationError] when neither the argument nor the
// FLAGLITE_API_KEY environment variable yields a key.
//
// # Caching
//
// Decisions are cached per (flag key, user ID) pair for the configured TTL;
// an evaluation with no user is its own cache partition. Entries expire
// lazily on read. [Client.InvalidateCache], [Client.ClearCache], and
// [Client.CleanupExpiredCache] give explicit control when flags are known to
// have changed or memory should be reclaimed eagerly.
//
// # Concurrent and Blocking Paths
//
// [Client.Enabled] takes a context and is safe for concurrent use from many
// goroutines. [Client.EnabledSync] is a blocking convenience for strictly
// single-threaded programs; it bypasses the cache's locking and owns a
// separate transport handle. The two paths produce identical decisions for
// identical cache and network state, but a client shared across goroutines
// must use Enabled exclusively.
//
// # OpenFeature
//
// The package also ships an OpenFeature provider over the same client:
//
//	provider := flaglite.NewProvider(flags)
//	openfeature.SetProvider(provider)
//
// Only boolean evaluation is meaningful; FlagLite flags carry no typed
// payloads.
package flaglite
