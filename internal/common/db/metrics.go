package db

import (
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vmorozov/customer-hub/internal/common/constants"
	"github.com/vmorozov/customer-hub/internal/observability/metrics"
)

func StartPoolMetrics(pool *pgxpool.Pool, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DBPoolMetricsInterval
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			stats := pool.Stat()
			metrics.DBPoolAcquiredConns.Set(float64(stats.AcquiredConns()))
			metrics.DBPoolIdleConns.Set(float64(stats.IdleConns()))
			metrics.DBPoolTotalConns.Set(float64(stats.TotalConns()))
		}
	}()
}
