package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"memorylane/internal/server"
	"memorylane/pkg/album"
	"memorylane/pkg/archive"
	"memorylane/pkg/auth"
	"memorylane/pkg/config"
	"memorylane/pkg/logger"
	"memorylane/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the memory archive HTTP server",
	Long: `Start the HTTP server.

The server runs even when the credential store is unreachable: login is
then unavailable but the process stays up, so a missing DATABASE_URL
never takes the site down.`,
	Example: `  # Start with environment configuration
  memorylane serve

  # Start with an explicit config file
  memorylane serve --config ./memorylane.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		// no .env file is the normal case in production
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	logger.SetLogger(log)

	if cfg.Session.Secret == "" {
		bytes := make([]byte, 32)
		if _, err := rand.Read(bytes); err != nil {
			return err
		}
		cfg.Session.Secret = hex.EncodeToString(bytes)
		log.Warn("generated a random session secret; set SESSION_SECRET to keep sessions across restarts")
	}

	ctx := context.Background()

	var users storage.UserStore
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, running without credential store; login is disabled")
	} else if store, err := storage.NewPostgresStore(ctx, cfg.Database.URL, log); err != nil {
		log.WithError(err).Warn("credential store unreachable, running in degraded mode")
	} else {
		users = store
		defer store.Close()
	}

	authService := auth.NewService(users, cfg.Session.Secret, cfg.Server.Production, log)
	if err := authService.EnsureDefaultAccount(ctx); err != nil {
		log.WithError(err).Error("default account bootstrap failed")
	}

	var arch *archive.Archive
	if a, err := archive.Load(cfg.Archive.Path, log); err != nil {
		log.WithError(err).WithField("path", cfg.Archive.Path).Warn("chat archive unavailable")
	} else {
		arch = a
	}

	scraper := album.New(&cfg.Album, log)
	srv := server.New(authService, scraper, arch, cfg.Server.StaticDir, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.InfoWithFields("server starting", map[string]interface{}{
			"port":       cfg.Server.Port,
			"production": cfg.Server.Production,
		})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
