package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	RegistrationsCreated   prometheus.Counter
	ConfirmationEmailsSent prometheus.Counter
	AdminEmailFailures     prometheus.Counter
}

// New creates all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registry; tests pass a fresh one.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "prelaunch_registrations_total",
			Help: "Total number of accepted pre-registrations",
		}),
		ConfirmationEmailsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "prelaunch_confirmation_emails_sent_total",
			Help: "Total number of confirmation emails delivered",
		}),
		AdminEmailFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prelaunch_admin_email_failures_total",
			Help: "Total number of best-effort admin notification emails that failed",
		}),
	}
}
