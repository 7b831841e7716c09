package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	"github.com/vmorozov/customer-hub/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
}

// Postgres error classes worth retrying: connection failures,
// serialization failures, deadlocks, and lock timeouts. Everything
// else (constraint violations, no rows, bad SQL) is permanent.
var retryablePgCodes = map[string]struct{}{
	"08000": {}, "08001": {}, "08003": {}, "08004": {},
	"08006": {}, "08007": {}, "08P01": {},
	"40001": {}, "40P01": {},
	"55P03": {},
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryablePgCodes[pgErr.Code]
		return ok
	}
	return false
}

// RetryWithBackoff runs operation until it succeeds, fails with a
// permanent error, or exhausts config.MaxAttempts. Delay grows by
// config.Multiplier per attempt, capped at config.MaxDelay.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, operation func() error) error {
	delay := config.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				log.Infof("database operation recovered on attempt %d", attempt)
			}
			return nil
		}

		if !isRetryable(err) {
			return err
		}
		if attempt >= config.MaxAttempts {
			return fmt.Errorf("database operation failed after %d attempts: %w", attempt, err)
		}

		log.Warnf("database operation failed (attempt %d/%d), retrying in %v: %v", attempt, config.MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}
}
