package main

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/salabelleza/agenda-console/internal/availability"
	consolehttp "github.com/salabelleza/agenda-console/internal/http"
	"github.com/salabelleza/agenda-console/internal/observability/metrics"
	"github.com/salabelleza/agenda-console/internal/reports"
	"github.com/salabelleza/agenda-console/internal/session"
	"github.com/salabelleza/agenda-console/internal/upstream"
	"github.com/salabelleza/agenda-console/internal/workflow"
	"github.com/salabelleza/agenda-console/libs/config"
	"github.com/salabelleza/agenda-console/libs/httpx"
	otelx "github.com/salabelleza/agenda-console/libs/otel"
	"github.com/salabelleza/agenda-console/libs/runtime"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "agenda-console")
	port, err := config.Port("PORT", "4200")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	sess, err := session.Open(config.String("SESSION_DB_PATH", "agenda-session.db"))
	if err != nil {
		logger.Error("session store open failed", "err", err)
		panic(err)
	}
	defer func() { _ = sess.Close() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	backendRaw := config.String("BACKEND_URL", "http://localhost:8080")
	backendURL, err := url.Parse(backendRaw)
	if err != nil {
		logger.Error("invalid BACKEND_URL", "url", backendRaw, "err", err)
		panic(err)
	}

	api, err := upstream.New(upstream.Options{
		BaseURL:  backendRaw,
		Timeout:  config.Duration("BACKEND_TIMEOUT", 10*time.Second),
		CacheTTL: config.Duration("QUERY_CACHE_TTL", 15*time.Second),
		Tokens:   sess,
		Logger:   logger,
		Metrics:  upstreamMetrics,
	})
	if err != nil {
		logger.Error("upstream client init failed", "err", err)
		panic(err)
	}

	checker := availability.NewChecker(api.Appointments)
	wf := workflow.New(api.Appointments, api.Payments, logger)
	views := reports.NewService(api.Appointments, api.Clients, api.Payments, logger)

	router := consolehttp.NewRouter(consolehttp.Handlers{
		Auth:      consolehttp.NewAuthHandler(api.Auth, sess, logger),
		Agenda:    consolehttp.NewAgendaHandler(api.Appointments, api.Services, checker, wf, logger),
		Payments:  consolehttp.NewPaymentsHandler(api.Payments, wf, logger),
		Resources: consolehttp.NewResourcesHandler(api, logger),
		Views:     consolehttp.NewViewsHandler(views),
		Proxy:     consolehttp.NewProxy(backendURL, "/api/v1", sess, logger),
		Registry:  registry,
		ReadyChecks: []runtime.ReadyCheck{
			{Name: "backend", Check: api.Ping},
			{Name: "session-db", Check: sess.Ping},
		},
	})

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	handler := httpx.Chain(router,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods:   config.List("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders:   config.List("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id"),
			AllowCredentials: config.Bool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           config.Duration("CORS_MAX_AGE", 10*time.Minute),
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT", 15*time.Second)),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "console")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "backend", backendRaw)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
