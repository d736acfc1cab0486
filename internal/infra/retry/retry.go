// Package retry runs an operation again on transient failures, with
// exponential backoff, full jitter and Retry-After support.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Backoff multiplies the jitter cap after every attempt (default 2).
	Backoff float64
	// OnRetry is called before each sleep.
	OnRetry func(attempt int, err error, sleep time.Duration)
}

// HTTPError is a failed API call. RetryAfter comes from the response, either
// the header or the body (Telegram sends it in the JSON parameters).
type HTTPError struct {
	StatusCode int
	Body       []byte
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error: <nil>"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, string(e.Body))
}

// IsRetryable reports whether err is a throttling or server-side failure.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// retryAfterLayouts are the HTTP date forms a Retry-After header may use.
var retryAfterLayouts = []string{time.RFC1123, time.RFC1123Z, time.RFC850, time.ANSIC}

// ParseRetryAfter reads a Retry-After header in seconds or as an HTTP date.
// Unparseable or past values give 0.
func ParseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	for _, layout := range retryAfterLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return max(time.Until(t), 0)
		}
	}
	return 0
}

func clamp(d, limit time.Duration) time.Duration {
	if limit > 0 && d > limit {
		return limit
	}
	return d
}

// FullJitterSleep picks a random sleep in [0, base*backoff^attempt], capped
// at maxDelay.
func FullJitterSleep(attempt int, baseDelay, maxDelay time.Duration, backoff float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if baseDelay <= 0 {
		return 0
	}
	if backoff < 1 {
		backoff = 1
	}
	capped := float64(baseDelay)
	for i := 0; i < attempt; i++ {
		capped *= backoff
		if maxDelay > 0 && capped >= float64(maxDelay) {
			break
		}
	}
	maxForAttempt := clamp(time.Duration(capped), maxDelay)
	if maxForAttempt <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(maxForAttempt) + 1))
}

// Do calls fn until it succeeds, fails permanently or runs out of retries.
// The last error is returned unchanged.
func Do(ctx context.Context, opts Options, fn func() error) error {
	opts = opts.withDefaults()
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= opts.MaxRetries {
			return err
		}

		d := opts.delay(attempt, err)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt+1, err, d)
		}
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
}

func (o Options) withDefaults() Options {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 300 * time.Millisecond
	}
	if o.Backoff <= 0 {
		o.Backoff = 2
	}
	return o
}

// delay prefers the server's Retry-After on 429 over the jittered backoff.
func (o Options) delay(attempt int, err error) time.Duration {
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusTooManyRequests && he.RetryAfter > 0 {
		return clamp(he.RetryAfter, o.MaxDelay)
	}
	return FullJitterSleep(attempt, o.BaseDelay, o.MaxDelay, o.Backoff)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
