package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vivair-contato/contato"
	"vivair-contato/contato/application"
	cinfra "vivair-contato/contato/infra"
	"vivair-contato/middleware/cors"
	"vivair-contato/middleware/ratelimit"
	rlapp "vivair-contato/middleware/ratelimit/application"
	"vivair-contato/middleware/ratelimit/domain"
	rlinfra "vivair-contato/middleware/ratelimit/infra"
	"vivair-contato/middleware/requestlog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := newLogger(os.Stdout, cfg.logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h, closeFn, err := newHandler(ctx, cfg, logger, reg)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("site listening",
		"addr", cfg.listenAddr,
		"upstream", cfg.upstreamURL,
		"contato_limit", cfg.contatoLimit,
		"contato_window", cfg.contatoWindow.String(),
		"min_elapsed", cfg.contatoMinElapsed.String(),
		"redis", cfg.redisAddr != "",
		"rate_rps", cfg.rateRPS,
		"rate_burst", cfg.rateBurst,
		"concurrency_max", cfg.concurrencyMax,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newHandler monta stores, pipeline do contato e rotas. O func devolvido
// fecha o que foi aberto (cliente Redis).
func newHandler(ctx context.Context, cfg config, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, func(), error) {
	closeFn := func() {}

	var (
		window domain.WindowLimiter
		stats  domain.StatsStore
	)
	if cfg.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closeFn = func() { _ = rdb.Close() }

		window = rlinfra.NewRedisWindowStore(rdb, cfg.contatoLimit, cfg.contatoWindow)
		stats = rlinfra.NewRedisStatsStore(rdb,
			rlinfra.WithStatsTTL(cfg.statsTTL),
			rlinfra.WithStatsBucket(cfg.statsBucket),
		)
	} else {
		mem := rlinfra.NewMemoryWindowStore(cfg.contatoLimit, cfg.contatoWindow)
		mem.StartJanitor(ctx, time.Minute)
		window = mem
		stats = rlinfra.NewMemoryStatsStore()
	}

	if cfg.notify.HTTPClient == nil {
		cfg.notify.HTTPClient = &http.Client{Timeout: cfg.notifyTimeout}
	}

	keyFn := ratelimit.DefaultKeyFunc(cfg.clientIPHeader, cfg.trustProxy)
	svc := application.Service{
		Limiter: rlapp.WindowService{Limiter: window, Logger: logger},
		Guard:   application.Guard{MinElapsed: cfg.contatoMinElapsed},
		Dispatcher: application.Dispatcher{
			Channels: cinfra.Channels(cfg.notify, logger),
			Timeout:  cfg.notifyTimeout,
			Logger:   logger,
		},
		Stats:    stats,
		Observer: contato.NewMetrics(reg),
		Logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestlog.Handler(logger))
	if len(cfg.corsOrigins) > 0 {
		r.Use(cors.Handler(cfg.corsOrigins))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if cfg.rateEnabled {
			store := rlinfra.NewStore(cfg.rateRPS, cfg.rateBurst)
			store.StartJanitor(ctx)
			r.Use(ratelimit.Middleware(ratelimit.Options{
				Store:               store,
				Stats:               stats,
				KeyFn:               keyFn,
				AddRateLimitHeaders: cfg.addHeaders,
			}))
		}

		conc := ratelimit.ConcurrencyOptions{AcquireTimeout: cfg.concurrencyTimeout, Logger: logger}
		if cfg.concurrencyMax > 0 {
			pool := rlinfra.NewChanPool(cfg.concurrencyMax)
			reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "vivair",
				Subsystem: "contato",
				Name:      "in_flight",
				Help:      "Submissões em processamento",
			}, func() float64 { return float64(pool.InFlight()) }))
			conc.Pool = pool
		}
		r.With(ratelimit.ConcurrencyMiddleware(conc)).Handle("/api/contato", contato.NewHandler(svc, keyFn, logger))

		if cfg.upstreamURL != "" {
			r.Handle("/*", newProxy(cfg.upstreamURL, logger))
		}
	})

	return r, closeFn, nil
}

// newProxy encaminha as páginas do site (tudo fora de /api) ao front-end.
func newProxy(upstream string, logger *slog.Logger) http.Handler {
	target, _ := url.Parse(upstream)
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxy error", "path", r.URL.Path, "error", err)
		ratelimit.WriteError(w, http.StatusBadGateway, "bad gateway")
	}
	return proxy
}
