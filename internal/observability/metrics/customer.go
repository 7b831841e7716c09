package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CustomersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_customers_created_total",
			Help: "Total number of customers created",
		},
	)

	CustomersUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_customers_updated_total",
			Help: "Total number of customers updated",
		},
	)

	CustomersDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_customers_deleted_total",
			Help: "Total number of customers deleted",
		},
	)

	CustomerSearches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customerhub_customer_searches_total",
			Help: "Total number of customer list queries with a search term",
		},
	)
)
