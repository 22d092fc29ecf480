package resolver

import (
	"context"
	"fmt"
	"time"

	"settler/models"
	"settler/observability"

	log "github.com/sirupsen/logrus"
)

// Result is the overall outcome of a resolve operation.
type Result struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Message         string `json:"message"`
}

// Client submits resolve calls against an ordered list of candidate
// endpoints. Attempts are strictly sequential with one bounded-timeout
// attempt per endpoint; the first accepted or benign-duplicate response is
// terminal. Concurrent use for different accounts is safe; callers must not
// issue concurrent resolves for the same account.
type Client struct {
	endpoints        []string
	transport        Transport
	attemptTimeout   time.Duration
	rateLimitBackoff time.Duration
	metrics          *observability.Metrics
}

// NewClient creates a resolve client. metrics may be nil.
func NewClient(endpoints []string, transport Transport, attemptTimeout, rateLimitBackoff time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		endpoints:        endpoints,
		transport:        transport,
		attemptTimeout:   attemptTimeout,
		rateLimitBackoff: rateLimitBackoff,
		metrics:          metrics,
	}
}

// Resolve walks the endpoint list until one accepts the settlement call.
// Endpoint failures advance to the next candidate; a rate-limit answer waits
// out the backoff first. When every endpoint has failed, the last observed
// error is returned.
func (c *Client) Resolve(ctx context.Context, req Request) (*Result, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("no resolve endpoints configured")
	}

	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ResolveDurations.Observe(time.Since(start).Seconds())
		}
	}()

	var lastErr error
	for _, endpoint := range c.endpoints {
		resp, err := c.attempt(ctx, endpoint, req)
		if err != nil {
			lastErr = err
			c.count(endpoint, "error")
			log.WithFields(log.Fields{
				"endpoint": endpoint,
				"gameID":   req.GameID,
			}).WithError(err).Warn("Resolve attempt failed, trying next endpoint")
			continue
		}

		switch resp.Status {
		case StatusAccepted:
			c.count(endpoint, "accepted")
			log.WithFields(log.Fields{
				"endpoint": endpoint,
				"gameID":   req.GameID,
				"txHash":   resp.TransactionHash,
			}).Info("Game resolved")
			return &Result{
				Success:         true,
				TransactionHash: resp.TransactionHash,
				Message:         fmt.Sprintf("Game %s resolved successfully", req.GameID),
			}, nil

		case StatusAlreadySettled:
			c.count(endpoint, "duplicate")
			log.WithFields(log.Fields{
				"endpoint": endpoint,
				"gameID":   req.GameID,
			}).Info("Game was already resolved")
			return &Result{
				Success: true,
				Message: fmt.Sprintf("Game %s was already resolved", req.GameID),
			}, nil

		case StatusRateLimited:
			c.count(endpoint, "rate_limited")
			lastErr = fmt.Errorf("endpoint %s rate limited", endpoint)
			log.WithFields(log.Fields{
				"endpoint": endpoint,
				"backoff":  c.rateLimitBackoff,
			}).Warn("Rate limited, backing off before next endpoint")
			if err := c.wait(ctx); err != nil {
				return nil, err
			}

		case StatusRejected:
			c.count(endpoint, "rejected")
			return nil, fmt.Errorf("resolve rejected: %s", resp.Message)

		default:
			c.count(endpoint, "ambiguous")
			return nil, fmt.Errorf("%w: %s", models.ErrAmbiguousOutcome, resp.Raw)
		}
	}

	return nil, fmt.Errorf("all %d endpoints exhausted: %w", len(c.endpoints), lastErr)
}

func (c *Client) attempt(ctx context.Context, endpoint string, req Request) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()
	return c.transport.Submit(attemptCtx, endpoint, req)
}

func (c *Client) wait(ctx context.Context) error {
	select {
	case <-time.After(c.rateLimitBackoff):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) count(endpoint, outcome string) {
	if c.metrics != nil {
		c.metrics.ResolveAttempts.WithLabelValues(endpoint, outcome).Inc()
	}
}
