package constants

import "time"

const (
	PasswordMinLength = 6
	PasswordMaxLength = 72

	NameMinLength    = 2
	NameMaxLength    = 100
	AddressMinLength = 5
	AddressMaxLength = 500

	DefaultPageLimit     = 12
	MaxPageLimit         = 100
	MaxSearchQueryLength = 100

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second
	DefaultTokenTTL       = 7 * 24 * time.Hour

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
