package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CartOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart mutations by operation",
		},
		[]string{"op"}, // add|remove|update|clear|load_reset
	)
	CartPersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_persist_failures_total",
			Help: "Failed writes of the cart snapshot to client storage",
		},
	)
)

var (
	CheckoutOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_outcomes_total",
			Help: "Checkout results by stage and rejection reason",
		},
		[]string{"stage", "reason"},
	)
	NotificationTier = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_tier_selected_total",
			Help: "Which notification sink tier was resolved for a frame",
		},
		[]string{"tier"},
	)
)

var (
	SessionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_registry_operations_total",
			Help: "Session registry operations",
		},
		[]string{"op"}, // hit|miss|created|evicted|expired
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of cart sessions currently held in memory",
		},
	)
)

var (
	FrameMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frame_messages_consumed_total",
			Help: "Number of frame capability messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	FrameMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frame_messages_processed_total",
			Help: "Number of frame capability messages applied",
		},
		[]string{"topic"},
	)
	FrameMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frame_messages_failed_total",
			Help: "Number of frame capability messages failed to apply",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister - регистрирует метрики в глобальном реестре; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CartOps, CartPersistFailures,
			CheckoutOutcomes, NotificationTier,
			SessionOps, SessionsActive,
			FrameMessagesConsumed, FrameMessagesProcessed, FrameMessagesFailed,
		)
	})
}
