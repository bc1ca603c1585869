// Package metrics exposes Prometheus counters for the settlement pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementsCommitted counts settlements whose financial transaction
	// committed, labeled by receipt type.
	SettlementsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_settlements_committed_total",
		Help: "Settlements whose financial transaction committed.",
	}, []string{"type"})

	// SettlementsAborted counts settlements that surfaced a terminal error,
	// labeled by receipt type and abort reason.
	SettlementsAborted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_settlements_aborted_total",
		Help: "Settlements aborted before commit.",
	}, []string{"type", "reason"})

	// SettlementRetries counts whole-transaction retries caused by receipt
	// number conflicts.
	SettlementRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_settlement_retries_total",
		Help: "Whole-transaction settlement retries after allocation conflicts.",
	})

	// BestEffortFailures counts reward/commission side effects that failed
	// after the financial transaction committed.
	BestEffortFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_settlement_best_effort_failures_total",
		Help: "Post-commit reward/commission side effects that failed.",
	}, []string{"effect"})

	// PointsIssued counts loyalty points credited to members, by action.
	PointsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_points_issued_total",
		Help: "Loyalty points credited to members.",
	}, []string{"action"})

	// PointsRedeemed counts loyalty points spent as payment tender.
	PointsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_points_redeemed_total",
		Help: "Loyalty points redeemed as payment tender.",
	})
)
