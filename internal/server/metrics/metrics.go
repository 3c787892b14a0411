// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

const namespace = "skillswap"

var (
	SessionsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_booked_total",
		Help:      "Sessions booked.",
	})
	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_completed_total",
		Help:      "Sessions confirmed by both participants.",
	})
	SessionsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_cancelled_total",
		Help:      "Sessions cancelled while pending.",
	})
	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Reviews accepted.",
	})
	LedgerTransfers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_transfers_total",
		Help:      "Committed ledger transactions by kind.",
	}, []string{"kind"})
	LedgerCoinsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_coins_moved_total",
		Help:      "Coins moved by committed ledger transactions, by kind.",
	}, []string{"kind"})
	RPCErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_errors_total",
		Help:      "RPC calls that returned a non-OK status, by code.",
	}, []string{"code"})
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC handling time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

// RecordTransfer counts a committed ledger row.
func RecordTransfer(t *models.Transaction) {
	if t == nil {
		return
	}
	LedgerTransfers.WithLabelValues(string(t.Kind)).Inc()
	LedgerCoinsMoved.WithLabelValues(string(t.Kind)).Add(float64(t.Amount))
}
