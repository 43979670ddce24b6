package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/chess-duel/internal/config"
	"github.com/park285/chess-duel/internal/console"
	"github.com/park285/chess-duel/internal/msgcat"
	"github.com/park285/chess-duel/internal/obslog"
	"github.com/park285/chess-duel/internal/render"
	"github.com/park285/chess-duel/internal/results"
	"github.com/park285/chess-duel/internal/session"
)

var version = "dev"

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledgers := results.Open(ctx, results.OpenOptions{
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		Dir:         cfg.ResultsDir,
		RecentLimit: cfg.ResultsRecentLimit,
		TTL:         time.Duration(cfg.ResultsTTLSec) * time.Second,
	})
	defer func() {
		if err := ledgers.Close(); err != nil {
			obslog.L().Warn("duel_ledger_close_error", zap.Error(err))
		}
	}()

	sessions := session.NewManager(session.Options{
		Recorder:     ledgers.Recorder(),
		Ledger:       ledgers.Query(),
		Renderer:     render.NewSVGBoardRenderer(),
		SnapshotPx:   cfg.SnapshotPx,
		StoreTimeout: time.Duration(cfg.StoreTimeoutSec) * time.Second,
	})

	con := console.New(os.Stdin, os.Stdout, cat, sessions, console.Settings{
		White:       cfg.WhiteName,
		Black:       cfg.BlackName,
		StartFEN:    cfg.StartFEN,
		SnapshotDir: cfg.SnapshotDir,
		Version:     version,
	})
	obslog.L().Info("duel_start", zap.String("version", version), zap.String("white", cfg.WhiteName), zap.String("black", cfg.BlackName))
	if err := con.Run(ctx); err != nil && ctx.Err() == nil {
		obslog.L().Error("duel_console_error", zap.Error(err))
		os.Exit(1)
	}
}
