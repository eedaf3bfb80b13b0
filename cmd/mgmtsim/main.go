// Command mgmtsim runs one management-simulator session behind the HTTP
// dispatch API. A rendering layer drives the player through it; the clock is
// the only thing that moves on its own.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dreamypudu/prototipo-6/internal/api"
	"github.com/dreamypudu/prototipo-6/internal/config"
	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/engine"
	"github.com/dreamypudu/prototipo-6/internal/export"
)

func main() {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("management simulator starting",
		"player", cfg.PlayerName,
		"seed", cfg.Seed,
		"strict", cfg.Strict,
		"period_seconds", cfg.PeriodSeconds,
	)

	// ── Export store ──────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	store, err := export.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open export store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("export store opened", "path", cfg.DBPath)

	// ── Session ───────────────────────────────────────────────────────
	rules := engine.Rules{
		PeriodSeconds:       cfg.PeriodSeconds,
		MinProgress:         cfg.MinProgress,
		Strict:              cfg.Strict,
		Seed:                cfg.Seed,
		MoodCancelThreshold: cfg.MoodCancelThreshold,
		StartBudget:         cfg.StartBudget,
		StartReputation:     cfg.StartReputation,
	}
	session := engine.NewSession(content.Default(), rules)
	session.Start(cfg.PlayerName)

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Session:  session,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	// ── Clock loop ────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			session.Tick()
		case sig := <-sigCh:
			slog.Info("received signal, finishing session", "signal", sig)
			report := session.Finish()
			if err := store.SaveReport(report); err != nil {
				slog.Error("session export failed", "error", err)
				os.Exit(1)
			}
			slog.Info("session exported, shutting down", "session", report.SessionID)
			return
		}
	}
}
