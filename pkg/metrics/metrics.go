package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions by outcome (accepted, rejected).",
	}, []string{"outcome"})
	MailSend = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_mail_send_total",
		Help: "Owner notification attempts by result (success, failure).",
	}, []string{"result"})
	MailSendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "contact_mail_send_duration_seconds",
		Help:    "Time spent delivering an owner notification to the relay.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

func init() {
	prometheus.MustRegister(ContactSubmissions)
	prometheus.MustRegister(MailSend)
	prometheus.MustRegister(MailSendDuration)
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
