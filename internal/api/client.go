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

	"github.com/sdpower/mite-go/internal/config"
	"github.com/sdpower/mite-go/internal/types"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "mite-go/1.0"
)

// Client talks to the Mite REST API of a single account.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type Option func(*Client)

// WithBaseURL replaces https://{account}.mite.de.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

func NewClient(creds config.Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: fmt.Sprintf("https://%s.mite.de", creds.Account),
		apiKey:  creds.APIKey,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes a JSON response into dest when dest is
// not nil. body, if not nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-MiteApiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", types.ErrAPIRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", types.ErrAPIRequestFailed, path, err)
	}

	log.WithFields(log.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("mite api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
	}

	if dest != nil {
		if err := json.Unmarshal(respBody, dest); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}
	return nil
}
