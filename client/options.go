package client

import (
	"fmt"
	"time"
)

// Option configures a Client during construction in New.
//
// Options run before the resty client is built, so transport options end up
// underneath resty's own request handling.
type Option func(*Client) error

// WithAPIKey sets the admin API key sent as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true. Do not enable this in production: dumps
// include headers and bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, ok := c.http.Transport.(*debugTransport); !ok {
				c.http.Transport = &debugTransport{base: c.http.Transport}
			}
		}
		return nil
	}
}
