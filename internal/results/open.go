package results

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chess-duel/internal/obslog"
)

// OpenOptions selects which ledgers to open. Blank locations are skipped.
type OpenOptions struct {
	RedisURL    string
	DatabaseURL string
	Dir         string
	RecentLimit int
	TTL         time.Duration
	// NoFallback leaves the set empty instead of adding a MemoryLedger.
	NoFallback bool
}

// Set is every ledger that could be opened.
type Set struct {
	Ledgers []Ledger
}

// Open connects each configured ledger. A ledger that fails to open is
// logged and left out so play is never blocked by a store. With nothing open
// the set falls back to a MemoryLedger unless NoFallback is set.
func Open(ctx context.Context, opts OpenOptions) *Set {
	s := &Set{}
	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		if l, err := OpenBadger(dir, opts.RecentLimit); err != nil {
			obslog.L().Warn("duel_ledger_open_error", zap.String("kind", "badger"), zap.Error(err))
		} else {
			s.Ledgers = append(s.Ledgers, l)
		}
	}
	if url := strings.TrimSpace(opts.RedisURL); url != "" {
		if l, err := NewRedisLedger(url, RedisOptions{RecentLimit: opts.RecentLimit, TTL: opts.TTL}); err != nil {
			obslog.L().Warn("duel_ledger_open_error", zap.String("kind", "redis"), zap.Error(err))
		} else {
			s.Ledgers = append(s.Ledgers, l)
		}
	}
	if url := strings.TrimSpace(opts.DatabaseURL); url != "" {
		l, err := NewPostgresLedger(url, opts.RecentLimit)
		if err == nil {
			if err = l.EnsureSchema(ctx); err != nil {
				_ = l.Close()
			}
		}
		if err != nil {
			obslog.L().Warn("duel_ledger_open_error", zap.String("kind", "postgres"), zap.Error(err))
		} else {
			s.Ledgers = append(s.Ledgers, l)
		}
	}
	if len(s.Ledgers) == 0 && !opts.NoFallback {
		s.Ledgers = append(s.Ledgers, NewMemoryLedger(opts.RecentLimit))
	}
	obslog.L().Info("duel_ledgers_ready", zap.Int("count", len(s.Ledgers)))
	return s
}

// Recorder fans out to every open ledger.
func (s *Set) Recorder() Recorder {
	if s == nil || len(s.Ledgers) == 0 {
		return Nop{}
	}
	m := make(Multi, 0, len(s.Ledgers))
	for _, l := range s.Ledgers {
		m = append(m, l)
	}
	return m
}

// Query returns the ledger used for standings and recent games: the first one
// opened, in badger, redis, postgres order.
func (s *Set) Query() Ledger {
	if s == nil || len(s.Ledgers) == 0 {
		return nil
	}
	return s.Ledgers[0]
}

func (s *Set) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, l := range s.Ledgers {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
