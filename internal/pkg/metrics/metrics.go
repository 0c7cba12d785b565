// Package metrics defines and registers all custom Prometheus metrics for the
// CRM API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto), so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsMutatedTotal counts successful writes on business records.
// Labels:
//   - entity: "client", "session", "opportunity" or "user"
//   - op: "create", "update", "move_stage", "delete" or "import"
var RecordsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_mutated_total",
		Help:      "Total number of record writes, by entity and operation.",
	},
	[]string{"entity", "op"},
)

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// DispatchTotal counts per-recipient send outcomes.
// Labels:
//   - channel: "whatsapp" or "email"
//   - result: "success" or "failure"
var DispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_total",
		Help:      "Total number of outbound messages attempted, by channel and result.",
	},
	[]string{"channel", "result"},
)

// DispatchBatchDuration measures how long a whole bulk send takes.
var DispatchBatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_batch_duration_seconds",
		Help:      "Duration of a bulk dispatch from first to last recipient.",
		Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
	},
	[]string{"channel"},
)

// ── Webhook metrics ───────────────────────────────────────────────────────────

// WebhookEventsProcessedTotal counts status events that were applied.
// Label:
//   - status: the delivery status reported (e.g. "delivered")
var WebhookEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_processed_total",
		Help:      "Total number of WhatsApp status events processed.",
	},
	[]string{"status"},
)

// WebhookEventsErrorsTotal counts status events that failed processing.
var WebhookEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_errors_total",
		Help:      "Total number of WhatsApp status events that failed processing.",
	},
	[]string{"reason"},
)

// WebhookDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var WebhookDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// WebhookQueueDepth tracks the events waiting in each worker channel.
var WebhookQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "webhook_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
