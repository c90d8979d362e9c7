// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartMutationsTotal counts successful cart mutations.
// Label:
//   - op: "add", "update", "remove", or "clear"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of successful cart mutations, by operation.",
	},
	[]string{"op"},
)

// CartMutationErrorsTotal counts failed cart mutations.
// Label:
//   - reason: "validation", "not_found", or "storage"
var CartMutationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutation_errors_total",
		Help:      "Total number of cart mutations that failed, by reason.",
	},
	[]string{"reason"},
)

// CartIdempotencyTotal counts add-item replay decisions.
// Label:
//   - result: "hit" (replay, skipped) or "miss" (new request, processed)
var CartIdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_idempotency_total",
		Help:      "Total number of add-item idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogRequestDuration measures upstream catalog call latency.
// Label:
//   - endpoint: "list", "get", or "categories"
var CatalogRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_request_duration_seconds",
		Help:      "Duration of upstream product catalog requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// CatalogCacheTotal counts catalog cache lookups.
// Label:
//   - result: "hit" or "miss"
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of catalog cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Activity pipeline metrics ─────────────────────────────────────────────────

// ActivityQueueDepth tracks the current number of events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of cart activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityErrorsTotal counts activity events that failed persistence.
var ActivityErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of cart activity events that failed processing.",
	},
)
