// Package metrics defines and registers all custom Prometheus metrics for the
// user API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at import time via
// promauto and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userapi"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate_email", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts. Failed lookups and bad passwords share
// the "invalid_credentials" result so the metric leaks nothing the API
// doesn't.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token exchanges.
// Label:
//   - result: "success", "invalid", "expired", or "error"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh-token exchanges, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout calls.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout calls.",
	},
)

// RoleUpdatesTotal counts role-update decisions.
// Label:
//   - result: "success" or "forbidden"
var RoleUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_updates_total",
		Help:      "Total number of role-update requests, by result.",
	},
	[]string{"result"},
)

// UsersDeletedTotal counts completed account deletions.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of deleted user accounts.",
	},
)

// PasswordHashDuration measures bcrypt hashing latency. Hashing dominates
// request latency, so this histogram is the first place to look when login
// slows down.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of adaptive password hashing operations.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsRecordedTotal counts audit events written to the trail.
// Label:
//   - action: the audit action (e.g. "user.login")
var AuditEventsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_recorded_total",
		Help:      "Total number of audit events persisted, by action.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the current number of events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
