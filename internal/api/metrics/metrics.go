// Package metrics defines and registers all custom Prometheus metrics for
// the LR console. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics registered here use promauto, so importing the package is enough;
// no explicit Register call is needed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lrconsole"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "inactive_profile", "profile_missing", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRestoresTotal counts startup session restorations.
// Label:
//   - result: "restored" or "logged_out"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of startup session restorations, by result.",
	},
	[]string{"result"},
)

// IdleLogoutsTotal counts logouts forced by the idle-timeout monitor.
var IdleLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idle_logouts_total",
		Help:      "Total number of logouts forced by idle timeout.",
	},
)

// GatewayRetriesTotal counts retried remote data gateway calls.
var GatewayRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_retries_total",
		Help:      "Total number of retried remote data gateway calls.",
	},
)

// ── Settlement metrics ────────────────────────────────────────────────────────

// AssignmentsTotal counts per-booking transporter assignments.
// Label:
//   - result: "ok" or "failed"
var AssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_total",
		Help:      "Total number of per-booking transporter assignments, by result.",
	},
	[]string{"result"},
)

// ReportDuration measures how long a settlement report takes to build.
var ReportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of settlement report generation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// BookingsCreatedTotal counts newly recorded lorry receipts.
// Label:
//   - direction: "paid" or "to_pay"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings recorded, by payment direction.",
	},
	[]string{"direction"},
)
