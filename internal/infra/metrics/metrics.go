// Package metrics provides Prometheus metrics for petapd: counters for
// challenge completions and reward claims, and gauges for health checks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Challenges ─────────────────────────────────────────────────────────────

// ChallengesCompleted tracks newly recorded completions by kind.
var ChallengesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "challenges_completed_total",
	Help:      "Total newly completed challenge occurrences.",
}, []string{"kind"})

// RewardsClaimed tracks successful reward claims by kind.
var RewardsClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "rewards_claimed_total",
	Help:      "Total successful reward claims.",
}, []string{"kind"})

// ClaimsRejected tracks claim attempts that granted nothing, by reason.
var ClaimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "claims_rejected_total",
	Help:      "Total claim attempts that granted no reward.",
}, []string{"reason"})

// StickersGranted tracks reward stickers entering albums.
var StickersGranted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "stickers_granted_total",
	Help:      "Total reward stickers granted from claims.",
})

// ─── Entitlements ───────────────────────────────────────────────────────────

// ChancesConsumed tracks creation chances spent on stickers.
var ChancesConsumed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "chances_consumed_total",
	Help:      "Total creation chances consumed.",
})

// ChancesGranted tracks reward chances added to budgets.
var ChancesGranted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "chances_granted_total",
	Help:      "Total creation chances granted from rewards.",
})

// ChancesRestored tracks chances handed back by sticker deletion.
var ChancesRestored = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "chances_restored_total",
	Help:      "Total creation chances restored on deletion.",
})

// ─── Steps ──────────────────────────────────────────────────────────────────

// StepReports tracks step snapshot ingestions.
var StepReports = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "petap",
	Name:      "step_reports_total",
	Help:      "Total step snapshot reports ingested.",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "petap",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
