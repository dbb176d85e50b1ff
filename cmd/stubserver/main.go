package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/staffdesk/leavedesk-go/internal/config"
	"github.com/staffdesk/leavedesk-go/internal/stubserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})).With(
		slog.String("app", "leavedesk-stub"),
		slog.String("env", cfg.App.Env),
	)

	srv := stubserver.New(cfg.Stub.JWTSecret, cfg.Stub.TokenTTL, logger)
	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	logger.Info("stub record service listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
