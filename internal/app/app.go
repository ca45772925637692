// Package app assembles the components shared by the server and Lambda
// entry points.
package app

import (
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx"

	"blobs-proxy/internal/client"
	"blobs-proxy/internal/config"
	"blobs-proxy/internal/service"
)

// Core provides config, logger, upstream client and relay service. Callers
// must supply *config.CLI and *metrics.Metrics (which may be nil).
var Core = fx.Options(
	fx.Provide(
		config.Load,
		NewLogger,
		client.NewBlobsClient,
		service.NewRelayService,
	),
	fx.Invoke(warnConfig),
)

// NewLogger builds the process logger from the log section of cfg.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "text":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

func warnConfig(cfg *config.Config, logger *slog.Logger) {
	cfg.WarnPermissions(logger)
	cfg.WarnMissingToken(logger)
}
