package flaglite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagLiteError(t *testing.T) {
	err := &FlagLiteError{Message: "something broke", StatusCode: 500}
	assert.Equal(t, "something broke", err.Error())
	assert.Equal(t, 500, err.StatusCode)
}

func TestAuthenticationError(t *testing.T) {
	var err error = &AuthenticationError{FlagLiteError{
		Message:    "invalid API key",
		StatusCode: 401,
	}}

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid API key", authErr.Error())
	assert.Equal(t, 401, authErr.StatusCode)
}

func TestRateLimitError(t *testing.T) {
	var err error = &RateLimitError{
		FlagLiteError: FlagLiteError{Message: "rate limit exceeded", StatusCode: 429},
		RetryAfter:    30,
	}

	var rateLimitErr *RateLimitError
	require.ErrorAs(t, err, &rateLimitErr)
	assert.Equal(t, 30, rateLimitErr.RetryAfter)
	assert.Equal(t, 429, rateLimitErr.StatusCode)
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	var err error = &NetworkError{
		FlagLiteError: FlagLiteError{Message: fmt.Sprintf("request failed: %v", cause)},
		Err:           cause,
	}

	assert.ErrorIs(t, err, cause)

	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.Zero(t, networkErr.StatusCode)
}

func TestConfigurationError(t *testing.T) {
	var err error = &ConfigurationError{FlagLiteError{Message: "API key required"}}

	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Error(), "API key required")
}
