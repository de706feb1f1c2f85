package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hrrecords/internal/app/seed"
	"hrrecords/internal/domain/accidents"
	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/documents"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/config"
	cryptoutil "hrrecords/internal/platform/crypto"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/logger"
	"hrrecords/internal/platform/metrics"
	"hrrecords/internal/platform/storage"
	"hrrecords/internal/transport/http/api"
	accidenthandler "hrrecords/internal/transport/http/handlers/accidents"
	audithandler "hrrecords/internal/transport/http/handlers/audit"
	authhandler "hrrecords/internal/transport/http/handlers/auth"
	documenthandler "hrrecords/internal/transport/http/handlers/documents"
	employeehandler "hrrecords/internal/transport/http/handlers/employees"
	"hrrecords/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *db.Handle
	Objects storage.Store
	Metrics *metrics.Collector
	Router  http.Handler
}

// New wires the application. A missing DATABASE_URL is not an error: the
// router still serves, with empty reads and failing writes.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	passcodeHash := cfg.AccessPasscodeHash
	if passcodeHash == "" {
		hash, err := identity.HashPasscode(cfg.AccessPasscode)
		if err != nil {
			return nil, fmt.Errorf("hash access passcode: %w", err)
		}
		passcodeHash = hash
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		log.Warn().Msg("JWT_SECRET not set, using a random secret; sessions end on restart")
	}

	cipher, err := cryptoutil.NewFieldCipher(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("data encryption key: %w", err)
	}
	if !cipher.Enabled() {
		log.Warn().Msg("DATA_ENCRYPTION_KEY not set, salaries stored in plaintext")
	}

	objects, err := storage.New(ctx, storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
		UsePathStyle:  cfg.S3UsePathStyle,
	})
	if err != nil {
		return nil, err
	}

	handle := db.NewHandle(cfg.DatabaseURL)
	employeeStore := employees.NewStore(handle, cipher)
	accidentStore := accidents.NewStore(handle)
	documentStore := documents.NewStore(handle)
	userStore := identity.NewStore(handle, cfg.OwnerID)

	if handle.Configured() {
		if err := prepareDatabase(ctx, cfg, handle, seed.Stores{
			Employees: employeeStore,
			Accidents: accidentStore,
			Users:     userStore,
		}); err != nil {
			log.Error().Err(err).Msg("database preparation failed, continuing")
		}
	} else {
		log.Warn().Msg("DATABASE_URL not set, reads return empty results and writes fail")
	}

	identitySvc := identity.NewService(userStore, identity.Options{
		OwnerID:      cfg.OwnerID,
		OwnerName:    cfg.OwnerName,
		OwnerEmail:   cfg.OwnerEmail,
		PasscodeHash: passcodeHash,
		JWTSecret:    cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL,
	})
	auditSvc := audit.New(handle)
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction(), cfg.S3PublicBaseURL))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(identitySvc, cfg.SessionCookieName))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", readiness(handle, objects))
	if cfg.MetricsEnabled {
		router.With(middleware.RequireAdmin).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
		})

		authhandler.NewHandler(identitySvc, auditSvc, cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProduction()).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCaller)
			employeehandler.NewHandler(employees.NewService(employeeStore), auditSvc).RegisterRoutes(r)
			accidenthandler.NewHandler(accidents.NewService(accidentStore, employeeStore), auditSvc).RegisterRoutes(r)
			documenthandler.NewHandler(documents.NewService(documentStore, objects), auditSvc).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc).RegisterRoutes(r)
		})
	})

	router.Handle("/*", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{Config: cfg, DB: handle, Objects: objects, Metrics: collector, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	logger.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Environment).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

func prepareDatabase(ctx context.Context, cfg config.Config, handle *db.Handle, stores seed.Stores) error {
	pool, err := handle.Pool(ctx)
	if err != nil {
		return err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, os.DirFS(cfg.MigrationsDir)); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := seed.Run(ctx, stores, seed.Owner{ID: cfg.OwnerID, Name: cfg.OwnerName, Email: cfg.OwnerEmail}); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

type readinessReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

// readiness answers 503 only when a configured database cannot be reached.
func readiness(handle *db.Handle, objects storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := readinessReport{Status: "ok", Database: "ok", Storage: "configured"}
		if _, ok := objects.(*storage.S3Store); !ok {
			report.Storage = "unconfigured"
		}
		status := http.StatusOK
		switch {
		case !handle.Configured():
			report.Status = "degraded"
			report.Database = "unconfigured"
		default:
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := handle.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("readiness ping failed")
				report.Status = "unavailable"
				report.Database = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		api.WriteJSON(w, status, api.Envelope{Success: status == http.StatusOK, Data: report, RequestID: middleware.GetRequestID(r.Context())})
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	index := filepath.Join(h.staticPath, h.indexPath)
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}
