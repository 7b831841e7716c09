package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_tokens_issued_total",
			Help: "Total number of bearer tokens issued",
		},
	)

	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_registrations_total",
			Help: "Total number of successful registrations",
		},
	)

	LoginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_login_failures_total",
			Help: "Total number of failed login attempts",
		},
	)

	AuthRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customerhub_auth_rejections_total",
			Help: "Total number of requests rejected by the auth gate",
		},
		[]string{"reason"},
	)
)
