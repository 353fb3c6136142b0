// Package client is the Go SDK for the dineguide HTTP API. It covers the
// public read routes under /api and the admin routes at the root.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/dineguide/dineguide/internal/api/respond"
)

// Client talks to a dineguide service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	rest    *resty.Client
}

// New creates a client for baseURL. Debug logging is switched on when
// DINEGUIDE_DEBUG or DEBUG is "true".
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: http.DefaultTransport},
	}
	if debugLoggingRequested() {
		opts = append([]Option{WithDebugLogging(true)}, opts...)
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.rest = resty.NewWithClient(c.http).
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json").
		SetError(&respond.ErrorResponse{})
	if c.apiKey != "" {
		c.rest.SetAuthToken(c.apiKey)
	}
	return c, nil
}

// BaseURL returns the service URL the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx)
}

// check converts transport failures and non-2xx responses into errors.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		observe(op, 0)
		return fmt.Errorf("%s: %w", op, err)
	}
	observe(op, resp.StatusCode())
	if !resp.IsError() {
		return nil
	}
	he := &HTTPError{Op: op, StatusCode: resp.StatusCode()}
	if er, ok := resp.Error().(*respond.ErrorResponse); ok && (er.Message != "" || er.Error != "") {
		he.Message = er.Message
		if he.Message == "" {
			he.Message = er.Error
		}
	} else {
		he.Message = strings.TrimSpace(resp.String())
	}
	return he
}

// Health returns the service health report.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	resp, err := c.request(ctx).SetResult(&out).Get("/api/health")
	if err := check("health", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges an admin API key for a bearer token.
func (c *Client) Login(ctx context.Context, apiKey string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := c.request(ctx).
		SetBody(map[string]string{"apiKey": apiKey}).
		SetResult(&out).
		Post("/auth/login")
	if err := check("login", resp, err); err != nil {
		return "", err
	}
	return out.Token, nil
}
