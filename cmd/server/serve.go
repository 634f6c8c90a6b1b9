package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hacklingo-backend/internal/api"
	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/metrics"
	"github.com/hacklingo-backend/internal/password"
	"github.com/hacklingo-backend/internal/repository"
	"github.com/hacklingo-backend/internal/service"
	"github.com/hacklingo-backend/internal/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

// buildServices wires repositories and collaborators into the service set.
// The returned func releases the uploader.
func buildServices(ctx context.Context, db *database.DB, m *metrics.Metrics) (*service.Services, func(), error) {
	repos := repository.New(db)
	collab := service.Collaborators{
		Hasher: password.NewBcryptHasher(cfg.Auth.BcryptCost),
	}
	if m != nil {
		collab.Metrics = m
	}

	release := func() {}
	if cfg.Storage.Enabled() {
		uploader, err := storage.NewGCSUploader(ctx, cfg.Storage, log)
		if err != nil {
			return nil, release, err
		}
		collab.Uploader = uploader
		release = func() {
			if err := uploader.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close storage client")
			}
		}
	} else {
		log.Warn().Msg("GCS_BUCKET is not set, uploads are disabled")
	}

	return service.NewServices(repos, repository.NewTxRunner(db), collab, cfg, log), release, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Str("env", cfg.Env).Msg("Starting Hacklingo server...")

	db := openDB()
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	m := metrics.New()
	repos := repository.New(db)
	counters := map[string]metrics.Counter{
		"users":    repos.User,
		"forums":   repos.Forum,
		"posts":    repos.Post,
		"comments": repos.Comment,
	}
	for entity, counter := range counters {
		if err := m.RegisterEntityCount(entity, counter); err != nil {
			log.Fatal().Err(err).Str("entity", entity).Msg("Failed to register entity gauge")
		}
	}

	services, release, err := buildServices(cmd.Context(), db, m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer release()

	services.Sweeper.Start(context.Background())

	router := api.NewRouter(services, cfg, log, api.Options{Metrics: m, Health: db})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Sweeper.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
