package newznab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a Newznab API client
type Client struct {
	endpoint   *url.URL
	apiKey     string
	debug      bool
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Newznab client. No request is made.
func NewClient(endpoint, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint URL: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: endpoint URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, endpoint)
	}

	options := clientOptions{
		timeout:   DefaultTimeout,
		userAgent: "nz",
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		endpoint:   u,
		apiKey:     apiKey,
		debug:      options.debug,
		userAgent:  options.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Request issues a GET with params and parses the response body. An <error>
// document is returned as *APIError.
func (c *Client) Request(ctx context.Context, params url.Values) (*Document, error) {
	raw, err := c.do(ctx, params)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(raw.Body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		if !raw.OK() {
			return nil, c.statusError(raw)
		}
		return nil, err
	}

	if !raw.OK() {
		return nil, c.statusError(raw)
	}

	return doc, nil
}

// RequestRaw issues a GET with params and returns the response untouched.
// Only transport failures are reported as errors; the status code is left to
// the caller.
func (c *Client) RequestRaw(ctx context.Context, params url.Values) (*RawResponse, error) {
	return c.do(ctx, params)
}

// do performs an HTTP GET with the API key injected
func (c *Client) do(ctx context.Context, params url.Values) (*RawResponse, error) {
	requestURL := c.buildURL(params)

	if c.debug {
		c.logger.Debug().Str("url", requestURL).Msg("Newznab request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.redact(urlErr.URL)
		}
		return nil, &TransportError{Endpoint: c.endpointName(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Endpoint:   c.endpointName(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Newznab response")
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// buildURL merges params into the endpoint query and overrides apikey
func (c *Client) buildURL(params url.Values) string {
	query := c.endpoint.Query()
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	query.Set("apikey", c.apiKey)

	u := *c.endpoint
	u.RawQuery = query.Encode()
	return u.String()
}

// redact replaces the API key in a request URL
func (c *Client) redact(requestURL string) string {
	return strings.ReplaceAll(requestURL, url.QueryEscape(c.apiKey), "REDACTED")
}

// endpointName returns the endpoint without its query string
func (c *Client) endpointName() string {
	u := *c.endpoint
	u.RawQuery = ""
	return u.String()
}

func (c *Client) statusError(raw *RawResponse) error {
	return &TransportError{Endpoint: c.endpointName(), StatusCode: raw.StatusCode}
}
