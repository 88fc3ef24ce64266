// Package api is the REST client for the Shopifyr backend. It owns the
// authentication interceptor contract: every outbound request carries
// the current credential when one exists, and a 401 response clears
// the session exactly once before the caller ever sees the error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the current credential. Read immediately before
// every send so a mid-flight login or logout is always honored.
type TokenSource interface {
	Token() string
}

// Invalidator receives the global 401 signal. Implemented by the
// session store.
type Invalidator interface {
	Invalidate()
}

type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// Timeout bounds each request. Zero means a 30s default.
	Timeout time.Duration
	// Tokens supplies the credential for the Authorization header.
	Tokens TokenSource
	// Session is invalidated when the backend rejects the credential.
	Session Invalidator
	// Transport overrides the underlying round tripper. Nil wraps
	// http.DefaultTransport with otelhttp instrumentation.
	Transport http.RoundTripper

	Logger zerolog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	session Invalidator
	breaker *gobreaker.CircuitBreaker[*http.Response]
	log     zerolog.Logger
}

func New(opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// The breaker only counts transport-level failures; HTTP error
	// statuses are valid responses and must not trip it.
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		baseURL: opts.BaseURL,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		tokens:  opts.Tokens,
		session: opts.Session,
		breaker: breaker,
		log:     opts.Logger.With().Str("component", "api").Logger(),
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Request phase of the interceptor: attach the credential read at
	// send time; absent token means an anonymous request.
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.responseError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if errDecode := json.NewDecoder(resp.Body).Decode(out); errDecode != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, errDecode)
		}
	}
	return nil
}

// responseError converts an HTTP error response into an *Error.
// Response phase of the interceptor: a 401 invalidates the session
// before the error propagates, so callers never see a 401 with a
// still-live session. Other statuses pass through untouched; in
// particular a 403 may mean "logged in but not entitled" and must not
// wipe a valid session.
func (c *Client) responseError(resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

	apiErr := &Error{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: body.Error,
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Debug().Str("code", apiErr.Code).Msg("credential rejected, invalidating session")
		c.session.Invalidate()
	}
	return apiErr
}
