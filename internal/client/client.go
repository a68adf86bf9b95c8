// Package client talks to the remote link shortening service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"url-shortener-web/internal/domain"
)

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 1 << 20

// LinkService is the contract of the remote service consumed by this client
type LinkService interface {
	// Lookup returns the original URL mapped to a short code
	Lookup(ctx context.Context, code string) (*domain.LookupResponse, error)

	// Shorten asks the service for a short alias of originalURL
	Shorten(ctx context.Context, req *domain.ShortenRequest) (*domain.ShortenResponse, error)
}

// APIError is a non-success answer from the link service
type APIError struct {
	StatusCode int
	Detail     string // Message taken from the error body, may be empty
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("link service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("link service returned %d", e.StatusCode)
}

// Options tunes the HTTP client
type Options struct {
	Timeout       time.Duration
	RatePerSecond int // 0 disables outbound rate limiting
	HTTPClient    *http.Client
}

// httpClient implements LinkService over HTTP+JSON
type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a LinkService client rooted at baseURL
func New(baseURL string, opts Options) LinkService {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: opts.Timeout,
			// The lookup endpoint answers with JSON; a redirect is not a valid answer
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RatePerSecond)
	}

	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    hc,
		limiter: limiter,
	}
}

// Lookup handles GET /{code}
func (c *httpClient) Lookup(ctx context.Context, code string) (*domain.LookupResponse, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}

	var out domain.LookupResponse
	if err := c.do(req, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusGone) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Error())
		}
		return nil, err
	}

	return &out, nil
}

// Shorten handles POST /shorten
func (c *httpClient) Shorten(ctx context.Context, in *domain.ShortenRequest) (*domain.ShortenResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode shorten request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shorten", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build shorten request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out domain.ShortenResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// do sends req and decodes a 2xx JSON body into out
func (c *httpClient) do(req *http.Request, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody domain.ErrorResponse
		// An undecodable error body simply has no detail
		_ = json.Unmarshal(payload, &errBody)
		return &APIError{StatusCode: resp.StatusCode, Detail: errBody.Message()}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return nil
}
