package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/ferg-cod3s/rq-challenge/internal/control"
	"github.com/ferg-cod3s/rq-challenge/internal/core/config"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Employee gateway service",
	Long: `Gateway fronts a rate-limited upstream employee service, adding retries,
search, salary aggregates and delete-by-id on top of its primitive API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and gRPC health server",
	RunE:  runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "config file")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads .env and the config file, then initialises logging.
// A missing default config file falls back to built-in defaults.
func loadConfig() (*config.AppConfig, error) {
	_ = godotenv.Load()

	path := cfgPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		return nil, err
	}

	slogLevel := slog.LevelInfo
	switch {
	case isDebug || cfg.Logging.Level == "debug":
		slogLevel = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		slogLevel = slog.LevelWarn
	case cfg.Logging.Level == "error":
		slogLevel = slog.LevelError
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := control.NewGateway(ctx, cfg, slog.Default())
	if err != nil {
		slog.Error("Failed to initialize gateway", "error", err)
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("Error closing gateway", "error", err)
		}
	}()

	slog.Info("Gateway started",
		"port", cfg.Server.Port,
		"grpc_port", cfg.Server.GRPCPort,
		"upstream", cfg.Upstream.BaseURL,
	)

	if err := app.Run(ctx); err != nil {
		slog.Error("Gateway failed", "error", err)
		return err
	}

	slog.Info("Gateway stopped gracefully")
	return nil
}
