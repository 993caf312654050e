// Package vanish is an HTTP client for the Vanish temporary email API.
package vanish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.vanish.host"

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read into APIError.
const maxErrorBody = 4096

// KeySource supplies the API key for each request. An empty key means
// the request is sent unauthenticated.
type KeySource interface {
	APIKey() string
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Keys is consulted on every request so rotated keys take effect
	// without rebuilding the client. Nil means no credential.
	Keys       KeySource
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client // overrides Timeout when set
}

// Client talks to the Vanish API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	keys       KeySource
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a client for opts.BaseURL, defaulting to DefaultBaseURL.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		keys:       opts.Keys,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
	}
}

// GetDomains returns the domains new mailboxes can be created on.
func (c *Client) GetDomains(ctx context.Context) ([]string, error) {
	var resp domainsResponse
	if err := c.do(ctx, http.MethodGet, "/domains", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Domains, nil
}

// GenerateEmail creates a mailbox and returns its address.
func (c *Client) GenerateEmail(ctx context.Context, opts GenerateOptions) (string, error) {
	var resp generateResponse
	if err := c.do(ctx, http.MethodPost, "/mailbox", nil, opts, &resp); err != nil {
		return "", err
	}
	return resp.Email, nil
}

// ListEmails returns one page of messages for address.
func (c *Client) ListEmails(ctx context.Context, address string, opts ListOptions) (*ListResult, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp ListResult
	path := "/mailbox/" + url.PathEscape(address) + "/emails"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEmail returns the full message with the given id.
func (c *Client) GetEmail(ctx context.Context, id string) (*EmailDetails, error) {
	var resp EmailDetails
	if err := c.do(ctx, http.MethodGet, "/emails/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteEmail deletes one message. A false result with a nil error means
// the API accepted the request but did not delete anything.
func (c *Client) DeleteEmail(ctx context.Context, id string) (bool, error) {
	var resp deleteEmailResponse
	if err := c.do(ctx, http.MethodDelete, "/emails/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// DeleteMailbox deletes every message for address and returns how many were removed.
func (c *Client) DeleteMailbox(ctx context.Context, address string) (int, error) {
	var resp deleteMailboxResponse
	if err := c.do(ctx, http.MethodDelete, "/mailbox/"+url.PathEscape(address), nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// do sends one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.keys != nil {
		if key := c.keys.APIKey(); key != "" {
			req.Header.Set("X-API-Key", key)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, b)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
