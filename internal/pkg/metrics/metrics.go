// Package metrics defines and registers all custom Prometheus metrics for the
// brandscape API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "brandscape"

// ── Matching metrics ──────────────────────────────────────────────────────────

// MatchResolutionTotal counts brand username resolutions.
// Label:
//   - tier: the strategy that produced rows ("exact", "case_fold",
//     "trimmed_case_fold", "substring"), "none", or "error" when the store failed
var MatchResolutionTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_resolution_total",
		Help:      "Total number of brand match resolutions, by winning tier.",
	},
	[]string{"tier"},
)

// ProfilesResolvedTotal counts influencer profiles attached to campaigns.
// Label:
//   - source: "influencers" or "dashboard_influencers"
var ProfilesResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profiles_resolved_total",
		Help:      "Total number of matched influencers resolved to a profile, by store.",
	},
	[]string{"source"},
)

// ProfilesDroppedTotal counts match rows dropped because no profile exists in either store.
var ProfilesDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profiles_dropped_total",
		Help:      "Total number of match rows dropped for lack of an influencer profile.",
	},
)

// ResolutionDuration measures the full resolve + reconcile step.
var ResolutionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "resolution_duration_seconds",
		Help:      "Duration of brand match resolution and profile reconciliation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Campaign metrics ──────────────────────────────────────────────────────────

// CampaignsCreatedTotal counts campaign creation outcomes.
// Label:
//   - result: "created", "replayed", "conflict", "no_matches", "deferred"
var CampaignsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_created_total",
		Help:      "Total number of campaign creation attempts, by result.",
	},
	[]string{"result"},
)

// CampaignsRecoveredTotal counts pending campaigns handled by the recovery sweeper.
// Label:
//   - result: "finalized", "discarded", "error"
var CampaignsRecoveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_recovered_total",
		Help:      "Total number of pending campaigns processed by the recovery sweeper.",
	},
	[]string{"result"},
)

// RecoveryQueueDepth tracks campaigns waiting in each recovery worker channel.
// Label:
//   - worker_id: numeric worker index
var RecoveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recovery_queue_depth",
		Help:      "Current number of pending campaigns queued in each recovery worker.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login attempts.
// Labels:
//   - action: "brand_signup", "brand_login", "influencer_signup", "influencer_login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// CatalogCacheTotal counts available-brands cache lookups.
// Label:
//   - result: "hit", "miss", "error"
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of available-brands cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Import metrics ────────────────────────────────────────────────────────────

// ImportedRowsTotal counts rows written by the CSV import job.
// Label:
//   - collection: target collection name
var ImportedRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imported_rows_total",
		Help:      "Total number of rows written by the CSV import, by collection.",
	},
	[]string{"collection"},
)
