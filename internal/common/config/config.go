package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vmorozov/customer-hub/internal/common/constants"
)

var ErrMissingRequiredEnv = errors.New("missing required environment variable")

// FallbackJWTSecret keeps the service bootable without JWT_SECRET set.
// Running with it in production is a deployment risk; Load reports its use
// so the caller can log a warning.
const FallbackJWTSecret = "customer-hub-insecure-fallback-secret-change-me"

type Config struct {
	HTTPPort         string
	DatabaseURL      string
	JWTSecret        string
	UsingFallbackJWT bool
	TokenTTL         time.Duration
	RequestTimeout   time.Duration
	DefaultPageLimit int
	MaxRequestSize   int64
}

func Load() (Config, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	usingFallback := false
	if jwtSecret == "" {
		jwtSecret = FallbackJWTSecret
		usingFallback = true
	}

	return Config{
		HTTPPort:         getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:      databaseURL,
		JWTSecret:        jwtSecret,
		UsingFallbackJWT: usingFallback,
		TokenTTL:         getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		RequestTimeout:   getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		DefaultPageLimit: getIntEnv("DEFAULT_PAGE_LIMIT", constants.DefaultPageLimit),
		MaxRequestSize:   getInt64Env("MAX_REQUEST_SIZE", constants.DefaultMaxRequestSize),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
