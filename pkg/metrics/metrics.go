package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Report metrics
	ReportsComposed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exception_notifier_reports_composed_total",
		Help: "Total number of exception reports composed",
	}, []string{"with_request"})
	ReportsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exception_notifier_reports_rejected_total",
		Help: "Total number of exception reports rejected before dispatch",
	}, []string{"reason"})
	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exception_notifier_mail_send_success_total",
		Help: "Total number of successfully sent report mails",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exception_notifier_mail_send_failure_total",
		Help: "Total number of failed report mail sends",
	}, []string{"host"})
	// Middleware metrics. Route templates only, never raw paths, to bound cardinality.
	PanicsRecovered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exception_notifier_panics_recovered_total",
		Help: "Total number of handler panics recovered and reported",
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(ReportsComposed)
	prometheus.MustRegister(ReportsRejected)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(PanicsRecovered)
}

// MetricsHandler exposes the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
