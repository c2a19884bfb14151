// Package metrics defines and registers all custom Prometheus metrics for
// the invoice API. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invoicing"

// ── Invoice metrics ───────────────────────────────────────────────────────────

// InvoicesCreatedTotal counts created invoices.
// Label:
//   - role: the role of the creating actor ("client" or "admin")
var InvoicesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created, by creator role.",
	},
	[]string{"role"},
)

// StatusTransitionsTotal counts applied status transitions.
// Label:
//   - status: the new invoice status (e.g. "paid")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of invoice status transitions, by new status.",
	},
	[]string{"status"},
)

// ── Reminder metrics ──────────────────────────────────────────────────────────

// RemindersSentTotal counts reminder delivery attempts.
// Labels:
//   - kind: the notification kind (e.g. "client_14_days")
//   - outcome: "success" or "failure"
var RemindersSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Total number of reminder delivery attempts, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// ReminderRunsTotal counts completed reminder passes, however triggered.
var ReminderRunsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_runs_total",
		Help:      "Total number of completed reminder scheduler runs.",
	},
)

// ReminderRunDuration measures how long one full reminder pass takes.
var ReminderRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reminder_run_duration_seconds",
		Help:      "Duration of a full reminder scheduler pass.",
		Buckets:   prometheus.DefBuckets,
	},
)
