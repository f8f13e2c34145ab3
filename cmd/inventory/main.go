package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountrepo "github.com/gnr-surgicals/inventory/internal/account/repository"
	authhttp "github.com/gnr-surgicals/inventory/internal/auth/http"
	authservice "github.com/gnr-surgicals/inventory/internal/auth/service"
	"github.com/gnr-surgicals/inventory/internal/common/bootstrap"
	"github.com/gnr-surgicals/inventory/internal/common/clock"
	commoncrypto "github.com/gnr-surgicals/inventory/internal/common/crypto"
	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/resilience"
	srv "github.com/gnr-surgicals/inventory/internal/common/server"
	"github.com/gnr-surgicals/inventory/internal/equipment/feed"
	equipmenthttp "github.com/gnr-surgicals/inventory/internal/equipment/http"
	equipmentrepo "github.com/gnr-surgicals/inventory/internal/equipment/repository"
	equipmentservice "github.com/gnr-surgicals/inventory/internal/equipment/service"
	statshttp "github.com/gnr-surgicals/inventory/internal/stats/http"
	statsservice "github.com/gnr-surgicals/inventory/internal/stats/service"
)

const serviceName = "inventory"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app, err := bootstrap.New(serviceName, bootstrap.ServerRequirements)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Config
	log := app.Log

	if _, err := app.Migrate(ctx); err != nil {
		return err
	}
	if err := app.OpenPool(ctx); err != nil {
		return err
	}

	realClock := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()

	accountsBreaker := newBreaker(app, "accounts")
	equipmentBreaker := newBreaker(app, "equipment")

	tokens := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, realClock)
	authService := authservice.NewAuthService(authservice.Deps{
		Repo:        accountrepo.NewPgRepository(app.Pool),
		Hasher:      commoncrypto.NewBcryptHasher(0),
		IDGenerator: idGenerator,
		Tokens:      tokens,
		Clock:       realClock,
		Breaker:     accountsBreaker,
		Log:         log,
	})

	hub := feed.NewHub(log)
	go hub.Run(ctx)

	equipmentRepo := equipmentrepo.NewPgRepository(app.Pool)
	equipmentService := equipmentservice.NewEquipmentService(equipmentservice.Deps{
		Repo:        equipmentRepo,
		IDGenerator: idGenerator,
		Clock:       realClock,
		Breaker:     equipmentBreaker,
		Publisher:   hub,
		Log:         log,
	})
	statsService := statsservice.NewStatsService(statsservice.Deps{
		Reader:  equipmentRepo,
		Breaker: equipmentBreaker,
		Log:     log,
	})

	rateLimiter := commonhttp.NewStrictRateLimiter(cfg.TrustProxyHeaders)
	protect := tokens.Verifier().Middleware(log)

	api := http.NewServeMux()
	api.Handle("/", commonhttp.RootHandler())
	api.Handle("GET /api/health", commonhttp.HealthHandler(cfg.Env))
	authhttp.NewHandler(authService, log).Routes(api, rateLimiter)
	equipmenthttp.NewHandler(equipmentService, log).Routes(api, protect)
	statshttp.NewHandler(statsService, log).Routes(api, protect)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /ws/equipment", feed.NewHandler(hub, tokens.Verifier(), cfg.AllowedOrigins, log))
	mux.Handle("/", commonhttp.WithTimeout(cfg.RequestTimeout)(api))

	handler := commonhttp.BuildBaseHandler(log, cfg.AllowedOrigins, mux)
	server := srv.New(cfg.Addr(), cfg.RequestTimeout, handler)

	log.Infof("environment=%s allowed_origins=%v health=http://localhost:%s/api/health", cfg.Env, cfg.AllowedOrigins, cfg.HTTPPort)

	hooks := []srv.ShutdownHook{
		func(context.Context) error {
			rateLimiter.Stop()
			return nil
		},
	}

	return srv.Run(ctx, server, log, serviceName, hooks)
}

func newBreaker(app *bootstrap.App, name string) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  int32(app.Config.CircuitBreakerThreshold),
		Timeout:    app.Config.CircuitBreakerTimeout,
		ResetAfter: app.Config.CircuitBreakerReset,
		Name:       name,
		Logger:     app.Log,
	})
}
