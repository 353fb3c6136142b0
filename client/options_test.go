package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithHTTPTimeout(t *testing.T) {
	c := &Client{http: &http.Client{}}
	require.NoError(t, WithHTTPTimeout(5*time.Second)(c))
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	assert.Error(t, WithHTTPTimeout(0)(c))
	_, err := New("http://example.com", WithHTTPTimeout(-time.Second))
	assert.Error(t, err)
}

func TestWithDebugLoggingWrapsTransportOnce(t *testing.T) {
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header)}, nil
	})
	c := &Client{http: &http.Client{Transport: rt}}
	require.NoError(t, WithDebugLogging(true)(c))
	require.NoError(t, WithDebugLogging(true)(c))

	dt, ok := c.http.Transport.(*debugTransport)
	require.True(t, ok)
	_, nested := dt.base.(*debugTransport)
	assert.False(t, nested)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	resp, err := c.http.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.True(t, called)
}

func TestDebugTransportErrorPath(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})
	c := &Client{http: &http.Client{Transport: rt}}
	require.NoError(t, WithDebugLogging(true)(c))
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	_, err := c.http.Do(req)
	assert.Error(t, err)
}

func TestDebugEnabledFromEnv(t *testing.T) {
	t.Setenv("DINEGUIDE_DEBUG", "true")
	c, err := New("http://example.com")
	require.NoError(t, err)
	_, ok := c.http.Transport.(*debugTransport)
	assert.True(t, ok)
}

func TestAPIKeySentAsBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"restaurants":[],"count":0}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", WithAPIKey("secret"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.BaseURL())

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("list restaurants", "200"))
	list, err := c.ListRestaurants(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "Bearer secret", got)
	assert.Equal(t, before+1, testutil.ToFloat64(requestsTotal.WithLabelValues("list restaurants", "200")))
}
