package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/jsamuelsen/quotesync/internal/platform/config"
)

// backoffPolicy computes the wait before each retry: exponential growth
// from Initial, capped at Max, spread by ±Jitter of itself.
type backoffPolicy struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64

	// rand returns a value in [0, 1). Tests pin it.
	rand func() float64
}

func newBackoffPolicy(cfg config.RetryConfig) backoffPolicy {
	p := backoffPolicy{
		Initial:    cfg.InitialInterval,
		Max:        cfg.MaxInterval,
		Multiplier: cfg.Multiplier,
		Jitter:     cfg.JitterFactor,
		rand:       rand.Float64, //nolint:gosec // jitter does not need crypto randomness
	}

	if p.Multiplier < 1 {
		p.Multiplier = config.DefaultClientRetryMultiplier
	}

	return p
}

// wait returns the delay before retry number n, where n=1 is the first retry.
func (p backoffPolicy) wait(n int) time.Duration {
	d := float64(p.Initial) * math.Pow(p.Multiplier, float64(n-1))
	if p.Max > 0 {
		d = math.Min(d, float64(p.Max))
	}

	if p.Jitter > 0 {
		d += d * p.Jitter * (2*p.rand() - 1)
	}

	return time.Duration(d)
}

// retryableStatus reports whether the remote answered with a status worth
// asking again for.
func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// retryableError reports whether a transport error is transient. Caller
// cancellation and deadlines never are.
func retryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
