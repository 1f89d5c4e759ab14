package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/org"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/policy"
	"hrms/internal/platform/cache"
	"hrms/internal/platform/config"
	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
	"hrms/internal/platform/events"
	"hrms/internal/platform/memstore"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/realtime"
	"hrms/internal/platform/storage"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	orghandler "hrms/internal/transport/http/handlers/org"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	policyhandler "hrms/internal/transport/http/handlers/policy"
	"hrms/internal/transport/http/middleware"
)

const banner = "HRMS Server API is running"

type App struct {
	Config config.Config
	Router http.Handler
	Bus    *events.Bus

	stores  stores
	hub     *realtime.Hub
	redis   *redis.Client
	stopBus context.CancelFunc
}

// stores is the persistence selected by STORE_DRIVER.
type stores struct {
	org      org.StoreAPI
	policy   policy.StoreAPI
	employee employee.StoreAPI
	payroll  payroll.StoreAPI
	ping     func(context.Context) error
	close    func()
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		mem := memstore.New()
		slog.Warn("using in-memory store; data is lost on restart")
		return stores{
			org:      mem.Org(),
			policy:   mem.Policies(),
			employee: mem.Employees(),
			payroll:  mem.Payroll(),
			ping:     mem.Ping,
			close:    func() {},
		}, nil
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return stores{}, fmt.Errorf("data encryption key: %w", err)
	}
	if !crypto.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; sensitive employee fields are stored in plaintext")
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return stores{}, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("migrations: %w", err)
		}
	}
	return stores{
		org:      org.NewStore(pool),
		policy:   policy.NewStore(pool),
		employee: employee.NewStore(pool, crypto),
		payroll:  payroll.NewStore(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

// New wires every dependency and builds the router. Close releases them.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, stores: st}

	var collector *metrics.Collector
	var observer events.Observer
	var recorder middleware.RequestRecorder
	if cfg.MetricsEnabled {
		collector = metrics.New()
		observer = collector
		recorder = collector
	}

	var listCache *cache.Cache
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("redis unavailable; list cache disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			app.redis = rdb
			listCache = cache.New(rdb, cfg.CacheTTL)
		}
	}

	app.hub = realtime.NewHub(cfg.AllowedOrigins)
	app.Bus = events.NewBus(cfg.EventBuffer, observer)
	app.Bus.Subscribe("realtime", app.hub.Subscriber())
	app.Bus.Subscribe("log", func(ctx context.Context, evt events.Event) error {
		slog.Debug("event", "name", evt.Name, "occurredAt", evt.OccurredAt)
		return nil
	})
	busCtx, stopBus := context.WithCancel(context.Background())
	app.stopBus = stopBus
	app.Bus.Start(busCtx)

	uploader, err := storage.New(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	allocator := codes.NewAllocator(cfg.CodeAllocation)
	orgService := org.NewService(st.org, allocator, app.Bus, listCache)
	policyService := policy.NewService(st.policy, allocator, app.Bus, listCache)
	employeeService := employee.NewService(st.employee, allocator, uploader, app.Bus, listCache, cfg.JWTSecret)
	payrollService := payroll.NewService(st.payroll, app.Bus, listCache)

	if err := Seed(ctx, employeeService, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		app.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger(recorder))
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(banner))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := st.ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}
	router.Method(http.MethodGet, "/ws", app.hub)
	if local, ok := uploader.(*storage.Local); ok {
		router.Mount(storage.LocalPrefix, local.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

		orghandler.NewHandler(orgService).RegisterRoutes(r)
		policyhandler.NewHandler(policyService).RegisterRoutes(r)
		employeehandler.NewHandler(employeeService, middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

// Close stops the event bus after delivering what is queued, then releases
// connections.
func (a *App) Close() {
	if a.stopBus != nil {
		a.stopBus()
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.Bus.Drain(drainCtx)
		cancel()
	}
	if a.hub != nil {
		if err := a.hub.Close(); err != nil {
			slog.Warn("close realtime hub", "err", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.stores.close != nil {
		a.stores.close()
	}
}

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HRMS server listening", "addr", cfg.Addr, "store", cfg.StoreDriver, "storage", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}
