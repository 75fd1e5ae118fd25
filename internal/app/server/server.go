package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffready/internal/domain/audit"
	"staffready/internal/domain/auth"
	"staffready/internal/domain/candidates"
	"staffready/internal/domain/catalog"
	"staffready/internal/domain/documents"
	"staffready/internal/domain/jobs"
	"staffready/internal/domain/reports"
	"staffready/internal/platform/config"
	cryptoutil "staffready/internal/platform/crypto"
	"staffready/internal/platform/db"
	jobsched "staffready/internal/platform/jobs"
	"staffready/internal/platform/metrics"
	adminhandler "staffready/internal/transport/http/handlers/admin"
	audithandler "staffready/internal/transport/http/handlers/audit"
	authhandler "staffready/internal/transport/http/handlers/auth"
	cataloghandler "staffready/internal/transport/http/handlers/catalog"
	candidateshandler "staffready/internal/transport/http/handlers/candidates"
	documentshandler "staffready/internal/transport/http/handlers/documents"
	jobshandler "staffready/internal/transport/http/handlers/jobs"
	reportshandler "staffready/internal/transport/http/handlers/reports"
	wallethandler "staffready/internal/transport/http/handlers/wallet"
	"staffready/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector

	cancel context.CancelFunc
}

// New connects, migrates, seeds, and wires the full router. Callers own the
// returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	collector := metrics.New()

	authStore := auth.NewStore(pool)
	auditSvc := audit.New(pool)
	catalogStore := catalog.NewStore(pool)
	candidateStore := candidates.NewStore(pool)
	documentStore := documents.NewStore(pool)
	documentSvc := documents.NewService(documentStore)
	jobStore := jobs.NewStore(pool)
	jobSvc := jobs.NewService(jobStore, candidateStore, documentStore, catalogStore)
	reportSvc := reports.NewService(candidateStore, documentStore, catalogStore, cryptoSvc)
	if cfg.ReportsDir != "" {
		reportSvc.Dir = cfg.ReportsDir
	}
	idemStore := middleware.NewIdempotencyStore(pool)

	jobCtx, cancel := context.WithCancel(context.Background())
	scheduler := jobsched.New(pool, cfg, documentStore, collector)
	scheduler.Start(jobCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, auditSvc, cryptoSvc, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
		r.Post("/auth/request-reset", authHandler.HandleRequestReset)
		r.Post("/auth/reset", authHandler.HandleResetPassword)
		r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
		r.Post("/auth/mfa/enable", authHandler.HandleMFAEnable)
		r.Post("/auth/mfa/disable", authHandler.HandleMFADisable)

		cataloghandler.NewHandler(catalogStore, auditSvc, authStore).RegisterRoutes(r)
		candidateshandler.NewHandler(candidateStore, auditSvc, authStore).RegisterRoutes(r)
		documentshandler.NewHandler(documentSvc, documentStore, candidateStore, auditSvc, authStore).RegisterRoutes(r)
		wallethandler.NewHandler(catalogStore, candidateStore, documentStore, collector, authStore).RegisterRoutes(r)
		jobshandler.NewHandler(jobSvc, candidateStore, auditSvc, collector, idemStore, authStore).RegisterRoutes(r)
		reportshandler.NewHandler(pool, reportSvc, authStore).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
		adminhandler.NewHandler(scheduler, collector, authStore).RegisterRoutes(r)
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Metrics: collector,
		cancel:  cancel,
	}, nil
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("staffready server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
