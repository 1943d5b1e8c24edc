package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ivix-ratings/internal/config"
	"ivix-ratings/internal/repository/blob"
	"ivix-ratings/internal/service"
	"ivix-ratings/internal/storage"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "ivix",
	Short:         "Game rating catalog service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(gamesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.IsDevelopment() {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// app bundles what every subcommand needs: config, logger, an open store and
// a restored controller.
type app struct {
	cfg        config.Config
	logger     *logrus.Logger
	store      storage.Store
	controller *service.Controller
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	controller := service.NewController(service.Config{
		Games:      blob.NewGameRepository(store),
		Users:      blob.NewUserRepository(store),
		Session:    blob.NewSessionRepository(store),
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err := controller.Restore(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore state: %w", err)
	}

	return &app{cfg: cfg, logger: logger, store: store, controller: controller}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("close storage: %v", err)
	}
}
