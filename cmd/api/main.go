package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authjwt "pet-tracker/internal/adapters/auth/jwt"
	authremote "pet-tracker/internal/adapters/auth/remote"
	blobfs "pet-tracker/internal/adapters/blob/filesystem"
	"pet-tracker/internal/adapters/blob/httpstore"
	blobmem "pet-tracker/internal/adapters/blob/memory"
	cachemem "pet-tracker/internal/adapters/cache/memory"
	cachesqlite "pet-tracker/internal/adapters/cache/sqlite"
	"pet-tracker/internal/adapters/capabilities/plansfeatures"
	pg "pet-tracker/internal/adapters/storage/postgres"
	"pet-tracker/internal/platform/config"
	"pet-tracker/internal/platform/logger"
	"pet-tracker/internal/platform/otel"
	"pet-tracker/internal/router"
)

// @title pet-tracker API
// @version 1.0
// @description Mascotas, peso, comidas y medicaciones por usuario, con cache local read-through.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	if err := run(log); err != nil {
		log.Error("server stopped", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(log logger.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.AppName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	opts := router.Options{
		Logger:              log,
		InterstitialEvery:   cfg.InterstitialEvery,
		InterstitialIdleTTL: cfg.InterstitialIdleTTL,
	}

	closers, err := wire(ctx, cfg, log, &opts)
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":  cfg.Addr(),
			"auth":  cfg.AuthMode,
			"cache": cfg.CacheDriver,
			"blobs": cfg.BlobDriver,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// wire arma los adapters según config. Devuelve funciones de cierre
// aunque falle a mitad, para liberar lo que sí se abrió.
func wire(ctx context.Context, cfg config.Config, log logger.Logger, opts *router.Options) ([]func() error, error) {
	var closers []func() error

	// Remote store: Postgres si hay DSN; si no, in-memory (lo arma el router).
	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return closers, fmt.Errorf("open postgres: %w", err)
		}
		closers = append(closers, db.Close)
		if err := pg.Migrate(ctx, db); err != nil {
			return closers, err
		}
		opts.Remote = pg.NewRemoteStore(db)
	}

	switch cfg.CacheDriver {
	case "sqlite":
		s, err := cachesqlite.Open(cfg.CachePath)
		if err != nil {
			return closers, err
		}
		closers = append(closers, s.Close)
		opts.Cache = s
	default:
		opts.Cache = cachemem.NewStore()
	}

	switch cfg.BlobDriver {
	case "filesystem":
		s, err := blobfs.New(cfg.BlobDir, cfg.BlobBaseURL)
		if err != nil {
			return closers, err
		}
		opts.Blobs = s
		opts.BlobHandler = s.Handler()
	case "http":
		s, err := httpstore.New(httpstore.Config{
			BaseURL: cfg.BlobBaseURL,
			APIKey:  cfg.BlobAPIKey,
			Timeout: cfg.BlobTimeout,
		})
		if err != nil {
			return closers, err
		}
		opts.Blobs = s
	default:
		opts.Blobs = blobmem.NewStore()
	}

	switch cfg.AuthMode {
	case "jwt":
		v, err := authjwt.NewVerifier(authjwt.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
		if err != nil {
			return closers, err
		}
		opts.AuthVerifier = v
	case "remote":
		v, err := authremote.NewVerifier(authremote.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
			Timeout: cfg.AuthTimeout,
		})
		if err != nil {
			return closers, err
		}
		opts.AuthVerifier = v
	default:
		log.Warn("auth in dev mode: X-Debug-User-ID is trusted", nil)
	}

	if cfg.PlansBaseURL != "" {
		c, err := plansfeatures.NewClient(plansfeatures.Config{BaseURL: cfg.PlansBaseURL, APIKey: cfg.PlansAPIKey})
		if err != nil {
			return closers, err
		}
		opts.Capabilities = plansfeatures.NewResolver(c, cfg.PlansCacheTTL)
	}

	return closers, nil
}
