package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/vmorozov/customer-hub/internal/auth/http"
	authservice "github.com/vmorozov/customer-hub/internal/auth/service"
	"github.com/vmorozov/customer-hub/internal/common/clock"
	"github.com/vmorozov/customer-hub/internal/common/config"
	commoncrypto "github.com/vmorozov/customer-hub/internal/common/crypto"
	"github.com/vmorozov/customer-hub/internal/common/db"
	commonhttp "github.com/vmorozov/customer-hub/internal/common/http"
	"github.com/vmorozov/customer-hub/internal/common/jwtverify"
	"github.com/vmorozov/customer-hub/internal/common/logger"
	srv "github.com/vmorozov/customer-hub/internal/common/server"
	customerhttp "github.com/vmorozov/customer-hub/internal/customer/http"
	customerrepo "github.com/vmorozov/customer-hub/internal/customer/repository"
	customerservice "github.com/vmorozov/customer-hub/internal/customer/service"
	userrepo "github.com/vmorozov/customer-hub/internal/user/repository"
	"github.com/vmorozov/customer-hub/migrations"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_DIR"), "customer-hub", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.UsingFallbackJWT {
		log.Warn("JWT_SECRET is not set, using insecure fallback secret")
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	if err := migrations.Apply(context.Background(), pool); err != nil {
		log.Fatalf("failed to apply database schema: %v", err)
	}
	log.Info("database schema is up to date")

	userRepo := userrepo.NewPgRepository(pool)
	customerRepo := customerrepo.NewPgRepository(pool)

	clk := clock.NewRealClock()
	hasher := commoncrypto.NewBcryptHasher()
	idGenerator := commoncrypto.NewUUIDGenerator()

	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
	authService := authservice.NewAuthService(userRepo, hasher, idGenerator, tokenIssuer, clk, log)
	customerService := customerservice.NewCustomerService(customerRepo, idGenerator, clk, cfg.DefaultPageLimit, log)

	identityResolver := authservice.NewIdentityResolver(userRepo)
	authGate := jwtverify.Middleware(cfg.JWTSecret, identityResolver, log)

	authHandler := authhttp.NewHandler(authService, authGate, cfg.RequestTimeout, log)
	customerHandler := customerhttp.NewHandler(customerService, authGate, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/api/health", commonhttp.HealthHandler(log))
	mux.Handle("/api/auth/", authHandler)
	mux.Handle("/api/customers", customerHandler)
	mux.Handle("/api/customers/", customerHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteFailure(w, http.StatusNotFound, "API endpoint not found")
	})

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, cfg.MaxRequestSize, mux)
	finalHandler := rateLimiter.Middleware()(baseHandler)

	server := srv.New(srv.DefaultConfig(cfg.HTTPPort), finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Info("closing database pool")
			pool.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, shutdownHooks)
}
