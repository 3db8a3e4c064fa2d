package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	SignupCount       prometheus.Counter
	SignupConflicts   prometheus.Counter
	ConfirmationSends prometheus.Counter
	ConfirmationFails prometheus.Counter
	NotificationSends prometheus.Counter
	NotificationFails prometheus.Counter
	PreordersCleared  prometheus.Counter
}

// NewMetrics creates Prometheus metrics registered on the given registerer.
// The server passes prometheus.DefaultRegisterer; tests pass a fresh
// registry so repeated construction does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SignupCount: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_signups_total",
			Help: "Total number of successful preorder signups",
		}),
		SignupConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_signup_conflicts_total",
			Help: "Total number of signups rejected as duplicate emails",
		}),
		ConfirmationSends: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_confirmation_sends_total",
			Help: "Total number of confirmation emails sent successfully",
		}),
		ConfirmationFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_confirmation_failures_total",
			Help: "Total number of confirmation emails that failed to send",
		}),
		NotificationSends: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_notification_sends_total",
			Help: "Total number of availability notifications sent successfully",
		}),
		NotificationFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_notification_failures_total",
			Help: "Total number of availability notifications that failed to send",
		}),
		PreordersCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "beewise_preorder_cleared_rows_total",
			Help: "Total number of preorder rows removed by clear operations",
		}),
	}
}
