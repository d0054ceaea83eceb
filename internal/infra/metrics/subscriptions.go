package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsActivated,
		subscriptionsCancelled,
		subscriptionsExpired,
	)
}

var (
	subscriptionsActivated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_activated_total",
			Help: "Subscriptions activated after verified payment, by plan.",
		},
		[]string{"plan"},
	)

	subscriptionsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_cancelled_total",
			Help: "User-initiated subscription cancellations.",
		},
	)

	subscriptionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions transitioned to expired (lazily or by the sweeper).",
		},
	)
)

func IncSubscriptionActivated(planID string) {
	subscriptionsActivated.WithLabelValues(norm(planID)).Inc()
}

func IncSubscriptionCancelled() {
	subscriptionsCancelled.Inc()
}

func IncSubscriptionsExpired(n int) {
	subscriptionsExpired.Add(float64(n))
}
