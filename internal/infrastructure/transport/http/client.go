package transporthttp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    http.Header
}

type Option func(*Client) error

func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.httpClient.Timeout = d
		return nil
	}
}

func WithBaseURL(u string) Option {
	return func(c *Client) error {
		parsed, err := url.Parse(u)
		if err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}
		c.baseURL = parsed
		return nil
	}
}

func WithHeaders(h http.Header) Option {
	return func(c *Client) error {
		for k, v := range h {
			c.headers[k] = append(c.headers[k], v...)
		}
		return nil
	}
}

// WithTLS sets the client TLS configuration. A nil config is ignored.
func WithTLS(cfg *tls.Config) Option {
	return func(c *Client) error {
		if cfg == nil {
			return nil
		}
		c.httpClient.Transport = &http.Transport{TLSClientConfig: cfg}
		return nil
	}
}

// WithHTTPClient replaces the underlying client, e.g. with one from httptest.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		c.httpClient = hc
		return nil
	}
}

func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{},
		headers:    make(http.Header),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.baseURL == nil {
		return nil, errors.New("base URL is required")
	}

	return c, nil
}

// Post sends body with the given content type. Any non-2xx response is an
// error carrying the start of the response body.
func (c *Client) Post(ctx context.Context, path, contentType string, body []byte) error {
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	fullURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	maps.Copy(req.Header, c.headers)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		const errBodySize = 1 << 10
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, errBodySize))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(payload))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}
