package flaglite

// FlagLiteError is the base error for all FlagLite SDK failures.
// StatusCode is the HTTP status that produced the error, or 0 when no
// response was received.
type FlagLiteError struct {
	Message    string
	StatusCode int
}

func (e *FlagLiteError) Error() string {
	return e.Message
}

// AuthenticationError reports an invalid or missing API key (HTTP 401).
type AuthenticationError struct {
	FlagLiteError
}

// RateLimitError reports request throttling by the service (HTTP 429).
// RetryAfter is the server's hint in seconds, 0 when the Retry-After header
// was absent or not integer-parsable.
type RateLimitError struct {
	FlagLiteError
	RetryAfter int
}

// NetworkError reports a transport-level failure: a timeout, a connection
// failure, or any other error raised before a response was received.
type NetworkError struct {
	FlagLiteError
	Err error
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a misconfigured client. It is the only error
// kind that escapes the SDK: [New] and [NewFromConfig] return it when no API
// key can be resolved, since a misconfigured client cannot safely produce any
// decision. Every other error kind is absorbed inside [Client.Enabled] and
// [Client.EnabledSync].
type ConfigurationError struct {
	FlagLiteError
}
