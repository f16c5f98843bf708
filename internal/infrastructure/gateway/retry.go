// Package gateway decorates the remote data gateway with the timeout and
// retry policy every call shares: a fixed per-attempt deadline, a bounded
// retry count with linear backoff, and no retries at all for failures the
// store reported as validation or conflict problems.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kpmroadlines/lr-console/internal/api/metrics"
	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const (
	defaultTimeout = 8 * time.Second
	defaultRetries = 2
	defaultBackoff = 500 * time.Millisecond
)

// Retrier wraps a ports.Gateway. Attempt n waits backoff×n before running.
type Retrier struct {
	inner   ports.Gateway
	timeout time.Duration
	retries int
	backoff time.Duration
	log     zerolog.Logger
}

func NewRetrier(inner ports.Gateway, timeout time.Duration, retries int, backoff time.Duration, log zerolog.Logger) *Retrier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retries < 0 {
		retries = defaultRetries
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &Retrier{inner: inner, timeout: timeout, retries: retries, backoff: backoff, log: log}
}

func (r *Retrier) Get(ctx context.Context, collection string, filter ports.Filter, page ports.Page) ([]ports.Record, int64, error) {
	var (
		recs  []ports.Record
		total int64
	)
	err := r.do(ctx, "get "+collection, func(ctx context.Context) error {
		var err error
		recs, total, err = r.inner.Get(ctx, collection, filter, page)
		return err
	})
	return recs, total, err
}

func (r *Retrier) Post(ctx context.Context, collection string, rec ports.Record) (ports.Record, error) {
	var out ports.Record
	err := r.do(ctx, "post "+collection, func(ctx context.Context) error {
		var err error
		out, err = r.inner.Post(ctx, collection, rec)
		return err
	})
	return out, err
}

func (r *Retrier) Put(ctx context.Context, collection, id string, update ports.Record) (ports.Record, error) {
	var out ports.Record
	err := r.do(ctx, "put "+collection, func(ctx context.Context) error {
		var err error
		out, err = r.inner.Put(ctx, collection, id, update)
		return err
	})
	return out, err
}

func (r *Retrier) Delete(ctx context.Context, collection, id string) (bool, error) {
	var ok bool
	err := r.do(ctx, "delete "+collection, func(ctx context.Context) error {
		var err error
		ok, err = r.inner.Delete(ctx, collection, id)
		return err
	})
	return ok, err
}

func (r *Retrier) do(ctx context.Context, op string, call func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
			metrics.GatewayRetriesTotal.Inc()
			r.log.Debug().Str("op", op).Int("attempt", attempt).Msg("retrying gateway call")
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err = call(attemptCtx)
		cancel()

		if err == nil || !transient(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	r.log.Warn().Err(err).Str("op", op).Int("retries", r.retries).Msg("gateway call exhausted retries")
	return err
}

// transient reports whether a failure is worth retrying. Conflict,
// validation and not-found failures are final; cancellation by the caller is
// final; everything else (network, per-attempt timeout) is assumed to pass.
func transient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrDuplicateRecord):
		return false
	}
	return true
}
