// Package main is the entry point for the profile service.
//
// main only reads configuration from the environment, builds the logger and
// hands both to internal/server. All behaviour lives in internal packages.
//
// ENVIRONMENT:
//
//	PORT           listen port (default 8080)
//	MEDIA_DIR      directory for uploaded pictures (default "media", created if absent)
//	LOG_LEVEL      debug, info, warn or error (default debug)
//	PROFILE_STORE  "memory" (default) or "sqlite"; both lose profiles on exit
package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sakif/profile-service/internal/server"
)

func main() {
	level, ok := parseLevel(os.Getenv("LOG_LEVEL"))
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	if !ok {
		logger.Warn("unknown LOG_LEVEL, using debug", slog.String("value", os.Getenv("LOG_LEVEL")))
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	mediaDir := "media"
	if envDir := os.Getenv("MEDIA_DIR"); envDir != "" {
		mediaDir = envDir
	}

	srv, err := server.New(server.Config{
		Port:     port,
		MediaDir: mediaDir,
		Store:    os.Getenv("PROFILE_STORE"),
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// parseLevel maps LOG_LEVEL to a slog level. Empty means debug; an unknown
// value also falls back to debug and reports ok=false.
func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelDebug, false
	}
}
