package main

//go:generate swag init

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/satheeshds/fintrack/auth"
	"github.com/satheeshds/fintrack/config"
	"github.com/satheeshds/fintrack/db"
	_ "github.com/satheeshds/fintrack/docs"
	"github.com/satheeshds/fintrack/handlers"
	"github.com/satheeshds/fintrack/ledger"
	"github.com/satheeshds/fintrack/logger"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
)

//go:embed static/*
var staticFiles embed.FS

// @title           Finance Tracker API
// @version         1.0.0
// @description     API for tracking accounts, planned and confirmed income and expenses, categories, payment types and shared groups.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	l := logger.New(cfg.LogLevel)
	log.Logger = l

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open database
	database, dialect, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(ctx, database, dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, using a random secret; sessions end on restart")
		cfg.JWTSecret = randomSecret()
	}
	revoker := auth.NewRevoker(ctx, cfg.RedisAddr)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, revoker)
	h := handlers.New(ledger.NewStore(database, dialect), issuer, cfg.ImportMaxBytes)

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger(log.Logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", h.Routes)

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Serve static files (UI)
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", srv.Addr).Str("driver", string(dialect)).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func randomSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
