// Package metrics defines and registers all custom Prometheus metrics for the
// authentication service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// SigninsTotal counts sign-in attempts.
// Label:
//   - result: "success" or "failure"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate", or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of sign-up attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens rejected during request
// authentication. The reason label is the only place rejection causes are
// visible outside server logs.
// Label:
//   - reason: "empty", "malformed", "bad_signature", "expired", or "unsupported"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected, by reason.",
	},
	[]string{"reason"},
)

// IdentityResolutionsTotal counts per-request identity lookups performed after
// successful token verification.
// Label:
//   - result: "hit" or "miss" (subject no longer exists)
var IdentityResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_resolutions_total",
		Help:      "Total number of per-request identity lookups, by result.",
	},
	[]string{"result"},
)
