package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type AppConfig struct {
	WhiteName string
	BlackName string
	StartFEN  string

	MessagesDir string
	SnapshotDir string
	SnapshotPx  int

	RedisURL    string
	DatabaseURL string
	ResultsDir  string

	ResultsRecentLimit int
	ResultsTTLSec      int
	StoreTimeoutSec    int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		WhiteName:          "White",
		BlackName:          "Black",
		SnapshotPx:         480,
		ResultsRecentLimit: 20,
		ResultsTTLSec:      0,
		StoreTimeoutSec:    3,
	}

	if v := strings.TrimSpace(os.Getenv("WHITE_NAME")); v != "" {
		cfg.WhiteName = v
	}
	if v := strings.TrimSpace(os.Getenv("BLACK_NAME")); v != "" {
		cfg.BlackName = v
	}
	cfg.StartFEN = strings.TrimSpace(os.Getenv("START_FEN"))

	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))
	cfg.SnapshotDir = strings.TrimSpace(os.Getenv("SNAPSHOT_DIR"))
	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 64 {
			cfg.SnapshotPx = n
		}
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if v := strings.TrimSpace(os.Getenv("RESULTS_DIR")); v != "" {
		cfg.ResultsDir = filepath.Clean(v)
	}

	if v := strings.TrimSpace(os.Getenv("RESULTS_RECENT_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ResultsRecentLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RESULTS_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ResultsTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("STORE_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StoreTimeoutSec = n
		}
	}

	if strings.EqualFold(cfg.WhiteName, cfg.BlackName) {
		return nil, errors.New("WHITE_NAME and BLACK_NAME must differ")
	}

	return cfg, nil
}
