package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"stickyboard/internal/config"
	"stickyboard/internal/db"
	"stickyboard/internal/storage"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stickyboard",
	Short: "Sticky notes board server",
	Long: `Stickyboard serves a board of draggable, resizable sticky notes.
Notes are kept in a key-value store (in memory, or MongoDB when MONGODB_URI is set)
and can be synced to a mock remote endpoint.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("STICKYBOARD_CONFIG"), "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	return cfg, logger, nil
}

// openKV returns the configured store backend and a func that releases it.
func openKV(cfg config.Config, logger *slog.Logger) (storage.KV, func(), error) {
	if cfg.MongoURI == "" {
		logger.Info("using in-memory storage")
		return storage.NewMemoryKV(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("connecting to MongoDB", "uri", cfg.MongoURI)
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB")

	kv := storage.NewMongoKV(database, cfg.Collection)
	if err := kv.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure indexes", "error", err)
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx, database); err != nil {
			logger.Warn("failed to disconnect MongoDB", "error", err)
		}
	}
	return kv, closeFn, nil
}
