package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a cookie-aware JSON API client for exercising the server the way
// a browser-based frontend would.
type Client struct {
	client       *http.Client
	url          string
	secFetchSite string
}

// NewClient creates a client that keeps session cookies between requests.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create unsafe cookie jar: %w", err)
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    url,
	}, nil
}

// NewClientWithSecFetchSite creates a client that marks every request with the
// given Sec-Fetch-Site value. Use "cross-site" to simulate a malicious origin.
func NewClientWithSecFetchSite(url, secFetchSite string) (*Client, error) {
	client, err := NewClient(url)
	if err != nil {
		return nil, err
	}
	client.secFetchSite = secFetchSite
	return client, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return fmt.Errorf("close response body: %w", err)
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, urlPath, nil)
}

// PostJSON sends body as a JSON request body.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, urlPath, body)
}

// PutJSON sends body as a JSON request body.
func (c *Client) PutJSON(ctx context.Context, urlPath string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, urlPath, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, urlPath, nil)
}

// Do sends a request with an optional JSON-encoded body and returns the
// response. The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secFetchSite != "" {
		req.Header.Set("Sec-Fetch-Site", c.secFetchSite)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// SignUp registers a new account and leaves the client logged in.
func (c *Client) SignUp(ctx context.Context, email, password, name string) error {
	resp, err := c.PostJSON(ctx, "/api/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// LogIn authenticates with an email/password pair.
func (c *Client) LogIn(ctx context.Context, email, password string) error {
	resp, err := c.PostJSON(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("log in: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// LogOut destroys the session.
func (c *Client) LogOut(ctx context.Context) error {
	resp, err := c.PostJSON(ctx, "/api/logout", nil)
	if err != nil {
		return fmt.Errorf("log out: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
