package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const (
	defaultIdleTimeout      = 10 * time.Minute
	defaultActivityThrottle = time.Minute
	idleCheckTimeout        = 5 * time.Second
)

// IdleMonitor forces logout after a fixed span of inactivity. The activity
// clock is shared through the ActivityStore, so several console instances
// coordinate: the local timer fires after the full window, re-reads the
// shared timestamp, and only forces logout when nobody anywhere was active.
// Activity writes are throttled so the shared store is not hammered on every
// interaction.
type IdleMonitor struct {
	timeout  time.Duration
	throttle time.Duration
	store    ports.ActivityStore
	onExpire func(context.Context)
	log      zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	timer     *time.Timer
	lastWrite time.Time
	running   bool
}

func NewIdleMonitor(
	timeout, throttle time.Duration,
	store ports.ActivityStore,
	onExpire func(context.Context),
	log zerolog.Logger,
) *IdleMonitor {
	if timeout <= 0 {
		timeout = defaultIdleTimeout
	}
	if throttle <= 0 {
		throttle = defaultActivityThrottle
	}
	return &IdleMonitor{
		timeout:  timeout,
		throttle: throttle,
		store:    store,
		onExpire: onExpire,
		log:      log,
		now:      time.Now,
	}
}

// Start arms the monitor. Only meaningful while an identity is present;
// callers start it after login/restore and Stop it on logout.
func (m *IdleMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	now := m.now().UTC()
	m.lastWrite = now
	m.timer = time.AfterFunc(m.timeout, m.fire)
	m.mu.Unlock()

	if err := m.store.Touch(ctx, now); err != nil {
		m.log.Warn().Err(err).Msg("failed to record initial activity")
	}
}

// Stop disarms the monitor and its timer. Idempotent.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Touch records user activity. Writes to the shared store are throttled to
// at most one per throttle interval; the local timer is left alone because
// the fire path re-checks the store anyway.
func (m *IdleMonitor) Touch(ctx context.Context) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	now := m.now().UTC()
	if now.Sub(m.lastWrite) < m.throttle {
		m.mu.Unlock()
		return
	}
	m.lastWrite = now
	m.mu.Unlock()

	if err := m.store.Touch(ctx, now); err != nil {
		m.log.Warn().Err(err).Msg("failed to record activity")
	}
}

// fire runs when the local timer elapses. The shared timestamp is
// authoritative: activity recorded elsewhere within the window reschedules
// the timer instead of logging out. Ambiguity (store unreadable) is resolved
// conservatively by staying logged in.
func (m *IdleMonitor) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), idleCheckTimeout)
	defer cancel()

	last, ok, err := m.store.Last(ctx)
	now := m.now().UTC()

	if err != nil {
		m.log.Warn().Err(err).Msg("idle check could not read shared activity, rescheduling")
		m.reschedule(m.timeout)
		return
	}
	if ok {
		if idle := now.Sub(last); idle < m.timeout {
			m.reschedule(m.timeout - idle)
			return
		}
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.timer = nil
	m.mu.Unlock()

	m.log.Info().Dur("timeout", m.timeout).Msg("idle timeout elapsed, forcing logout")
	m.onExpire(ctx)
}

func (m *IdleMonitor) reschedule(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.timer = time.AfterFunc(d, m.fire)
}
