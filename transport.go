package flaglite

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// flagResponse is the raw outcome of a flag lookup request: the HTTP status,
// the response body, and the response headers. Interpreting the status is the
// evaluation pipeline's job, not the transport's.
type flagResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// flagFetcher performs one flag lookup request against the FlagLite API.
// It abstracts over the HTTP transport so the evaluation pipeline can be
// tested without a network.
type flagFetcher interface {
	// FetchFlag issues a GET for the given flag key, scoped to userID when
	// it is non-empty. A transport-level failure is returned as a
	// *NetworkError; any received response, whatever its status, is returned
	// without error.
	FetchFlag(ctx context.Context, flagKey, userID string) (*flagResponse, error)
	// Close releases any connections held by the fetcher.
	Close()
}

// httpFetcher is the production flagFetcher over net/http. Each call path of
// the client owns one instance; the instance itself is as safe for concurrent
// use as its underlying *http.Client.
type httpFetcher struct {
	baseURL string // normalized to end with "/"
	header  http.Header
	client  *http.Client
}

func newHTTPFetcher(config *Config) *httpFetcher {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+config.APIKey)
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", userAgent)

	return &httpFetcher{
		baseURL: config.BaseURL,
		header:  header,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// FetchFlag implements flagFetcher.
func (f *httpFetcher) FetchFlag(ctx context.Context, flagKey, userID string) (*flagResponse, error) {
	endpoint := f.baseURL + "flags/" + url.PathEscape(flagKey)
	if userID != "" {
		endpoint += "?" + url.Values{"user_id": []string{userID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{
			FlagLiteError: FlagLiteError{Message: "building request: " + err.Error()},
			Err:           err,
		}
	}
	req.Header = f.header.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{
			FlagLiteError: FlagLiteError{Message: "request failed: " + err.Error()},
			Err:           err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{
			FlagLiteError: FlagLiteError{Message: "reading response body: " + err.Error()},
			Err:           err,
		}
	}

	return &flagResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

// Close implements flagFetcher.
func (f *httpFetcher) Close() {
	f.client.CloseIdleConnections()
}
