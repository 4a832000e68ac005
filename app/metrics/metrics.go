package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var signedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "redsys",
	Name:      "signed_requests_total",
	Help:      "Total number of payment requests signed for the gateway.",
}, []string{"environment"})

var notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "redsys",
	Name:      "notifications_total",
	Help:      "Total number of gateway notifications by verification result.",
}, []string{"result"})

var callbackDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payments",
	Name:      "status_callbacks_total",
	Help:      "Total number of status callback deliveries by outcome.",
}, []string{"outcome"})

var expiredPayments = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "payments",
	Name:      "expired_total",
	Help:      "Total number of pending payments moved to expired.",
})

// Notification results.
const (
	ResultApproved = "approved"
	ResultDeclined = "declined"
	ResultRejected = "rejected"
)

// Callback dispatch outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeRetry     = "retry"
	OutcomeFailed    = "failed"
)

func ObserveSignedRequest(environment string) {
	if len(environment) == 0 {
		return
	}
	signedRequests.With(prometheus.Labels{"environment": environment}).Inc()
}

func ObserveNotification(result string) {
	if len(result) == 0 {
		return
	}
	notifications.With(prometheus.Labels{"result": result}).Inc()
}

func ObserveCallbackDispatch(outcome string) {
	if len(outcome) == 0 {
		return
	}
	callbackDispatches.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func ObserveExpired(count int) {
	if count <= 0 {
		return
	}
	expiredPayments.Add(float64(count))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
