package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReferralBonusPoints 已发放的邀请奖励积分，按层级
	ReferralBonusPoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_referral_bonus_points_total",
			Help: "Signup bonus points awarded to referrers",
		},
		[]string{"level"},
	)

	CommissionPoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_commission_points_total",
			Help: "Commission points accrued to ancestors",
		},
		[]string{"level"},
	)

	RedemptionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_redemption_transitions_total",
			Help: "Redemption requests moved to a terminal status",
		},
		[]string{"status"},
	)

	StatsDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_referral_stats_degraded_total",
			Help: "Referral stats reads that fell back to zero values",
		},
	)
)
