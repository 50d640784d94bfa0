package bgg

import (
	"net/http"
	"time"

	"github.com/okian/boardshelf/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the XML API root, e.g. https://boardgamegeek.com/xmlapi2.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the pooled client. Timeout and pool options are
// ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeouts sets the overall request timeout and the dial timeout.
func WithTimeouts(total, connect time.Duration) Option {
	return func(c *Client) {
		if total > 0 {
			c.timeout = total
		}
		if connect > 0 {
			c.connectTimeout = connect
		}
	}
}

// WithMaxConns bounds the connection pool towards BGG.
func WithMaxConns(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithCollectionRetryDelay sets the wait between 202 polls.
func WithCollectionRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithCollectionMaxAttempts caps 202 polling. Zero keeps polling until the
// collection is ready or the context ends.
func WithCollectionMaxAttempts(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxAttempts = n
		}
	}
}

// WithBreaker configures the collection circuit breaker. maxFailures of
// zero disables tripping.
func WithBreaker(maxFailures int, openTimeout time.Duration) Option {
	return func(c *Client) {
		if maxFailures >= 0 {
			c.breakerMaxFailures = maxFailures
		}
		if openTimeout > 0 {
			c.breakerOpenTimeout = openTimeout
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
