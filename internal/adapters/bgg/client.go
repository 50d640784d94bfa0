// Package bgg talks to the BoardGameGeek XML API: it resolves a user's
// owned collection and bulk-fetches item metadata.
package bgg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/errs"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

// Default client configuration constants.
const (
	DefaultBaseURL            = "https://boardgamegeek.com/xmlapi2"
	defaultTimeout            = 60 * time.Second
	defaultConnectTimeout     = 10 * time.Second
	defaultMaxConns           = 20
	defaultRetryDelay         = 1500 * time.Millisecond
	defaultBreakerMaxFailures = 5
	defaultBreakerOpenTimeout = 30 * time.Second
	breakerName               = "bgg-collection"
	userAgent                 = "boardshelf/1.0"
)

// Client is a pooled HTTP client for the BGG XML API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	connectTimeout time.Duration
	maxConns       int

	retryDelay  time.Duration
	maxAttempts int

	breakerMaxFailures int
	breakerOpenTimeout time.Duration
	breaker            *gobreaker.CircuitBreaker[collectionReply]

	logger logger.Logger
}

// collectionReply is one /collection answer that passed the breaker.
type collectionReply struct {
	status int
	body   []byte
}

// New creates a BGG client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:            DefaultBaseURL,
		timeout:            defaultTimeout,
		connectTimeout:     defaultConnectTimeout,
		maxConns:           defaultMaxConns,
		retryDelay:         defaultRetryDelay,
		breakerMaxFailures: defaultBreakerMaxFailures,
		breakerOpenTimeout: defaultBreakerOpenTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("bgg")
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: c.connectTimeout}).DialContext,
				MaxIdleConns:        c.maxConns,
				MaxIdleConnsPerHost: c.maxConns,
				MaxConnsPerHost:     c.maxConns,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	maxFailures := uint32(c.breakerMaxFailures) //nolint:gosec // validated non-negative
	c.breaker = gobreaker.NewCircuitBreaker[collectionReply](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     c.breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return maxFailures > 0 && counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			metrics.UpdateBreakerState(name, breakerStateValue(to))
			c.logger.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	metrics.UpdateBreakerState(breakerName, breakerStateValue(gobreaker.StateClosed))

	return c
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// ResolveCollection returns the owned base-game ids of username in document
// order, together with the user's ratings. A 202 reply means BGG is still
// preparing the export; the request is repeated after the retry delay.
// Collection requests go through the circuit breaker.
func (c *Client) ResolveCollection(ctx context.Context, username string) ([]int, model.Ratings, error) {
	const op = "bgg.resolve_collection"

	q := url.Values{}
	q.Set("username", username)
	q.Set("own", "1")
	q.Set("excludesubtype", "boardgameexpansion")
	q.Set("stats", "1")

	for attempt := 1; ; attempt++ {
		reply, err := c.pollCollection(ctx, q)
		if err != nil {
			metrics.RecordCollectionPoll("error")
			return nil, nil, errs.WrapKind(op, ErrTransport, err)
		}

		if reply.status == http.StatusAccepted {
			metrics.RecordCollectionPoll("accepted")
			if c.maxAttempts > 0 && attempt >= c.maxAttempts {
				return nil, nil, errs.WrapKind(op, ErrTransport,
					fmt.Errorf("collection still queued after %d attempts", attempt))
			}
			c.logger.Debug(ctx, "collection queued, polling again",
				logger.String("username", username),
				logger.Int("attempt", attempt),
				logger.Duration("delay", c.retryDelay))
			if err := wait(ctx, c.retryDelay); err != nil {
				return nil, nil, errs.WrapKind(op, ErrTransport, err)
			}
			continue
		}

		metrics.RecordCollectionPoll("ready")
		ids, ratings, err := ParseCollection(reply.body)
		if err != nil {
			return nil, nil, errs.Wrap(op, err)
		}
		c.logger.Info(ctx, "collection resolved",
			logger.String("username", username),
			logger.Int("items", len(ids)),
			logger.Int("polls", attempt))
		return ids, ratings, nil
	}
}

// pollCollection issues one /collection request through the breaker. 202 and
// 2xx replies count as successes; anything else is a failure.
func (c *Client) pollCollection(ctx context.Context, q url.Values) (collectionReply, error) {
	reply, err := c.breaker.Execute(func() (collectionReply, error) {
		status, body, err := c.get(ctx, "/collection", q)
		if err != nil {
			return collectionReply{}, err
		}
		if status != http.StatusAccepted && (status < 200 || status >= 300) {
			return collectionReply{}, fmt.Errorf("unexpected status %d", status)
		}
		return collectionReply{status: status, body: body}, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return collectionReply{}, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return reply, err
}

// FetchThings requests metadata and statistics for ids in one call and
// returns the raw XML body.
func (c *Client) FetchThings(ctx context.Context, ids []int) ([]byte, error) {
	const op = "bgg.fetch_things"

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	q := url.Values{}
	q.Set("id", strings.Join(parts, ","))
	q.Set("stats", "1")
	q.Set("type", "boardgame")

	status, body, err := c.get(ctx, "/thing", q)
	if err != nil {
		return nil, errs.WrapKind(op, ErrTransport, err)
	}
	if status != http.StatusOK {
		return nil, errs.WrapKind(op, ErrTransport, fmt.Errorf("unexpected status %d", status))
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// wait blocks for d or until ctx ends.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
