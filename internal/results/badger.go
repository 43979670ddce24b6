package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/park285/chess-duel/internal/domain"
)

const (
	prefixResult   = "result:"
	prefixRecent   = "recent:"
	prefixStanding = "standing:"
)

// BadgerLedger keeps results in a local embedded store.
type BadgerLedger struct {
	db     *badger.DB
	recent int
}

// OpenBadger opens (or creates) the store under dir.
func OpenBadger(dir string, recentLimit int) (*BadgerLedger, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("RESULTS_DIR is required for badger ledger")
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return openBadger(opts, recentLimit)
}

// OpenBadgerInMemory opens a store that lives only as long as the process.
func OpenBadgerInMemory(recentLimit int) (*BadgerLedger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts, recentLimit)
}

func openBadger(opts badger.Options, recentLimit int) (*BadgerLedger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	if recentLimit <= 0 {
		recentLimit = 20
	}
	return &BadgerLedger{db: db, recent: recentLimit}, nil
}

func (b *BadgerLedger) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

type storedStanding struct {
	GamesPlayed int       `json:"games_played"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	LastResult  string    `json:"last_result"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Record stores rec and updates both players' standings in one transaction.
// A session id that is already present is left alone.
func (b *BadgerLedger) Record(ctx context.Context, rec *domain.GameRecord) error {
	if b == nil || b.db == nil {
		return ErrNotConfigured
	}
	if err := validate(rec); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(toStored(rec))
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixResult + rec.SessionID)
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(key, raw); err != nil {
			return err
		}
		if err := txn.Set(recentIndexKey(rec), []byte(rec.SessionID)); err != nil {
			return err
		}
		for _, player := range []string{rec.White, rec.Black} {
			s, err := loadStanding(txn, player)
			if err != nil {
				return err
			}
			tally(s, rec, player)
			enc, err := json.Marshal(storedStanding{
				GamesPlayed: s.GamesPlayed,
				Wins:        s.Wins,
				Losses:      s.Losses,
				Draws:       s.Draws,
				LastResult:  string(s.LastResult),
				UpdatedAt:   s.UpdatedAt,
			})
			if err != nil {
				return err
			}
			if err := txn.Set(standingKeyBytes(player), enc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BadgerLedger) Standings(ctx context.Context, player string) (*domain.PlayerStanding, error) {
	if b == nil || b.db == nil {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.PlayerStanding
	err := b.db.View(func(txn *badger.Txn) error {
		s, err := loadStanding(txn, player)
		out = s
		return err
	})
	return out, err
}

// Recent returns up to n records, newest first.
func (b *BadgerLedger) Recent(ctx context.Context, n int) ([]*domain.GameRecord, error) {
	if b == nil || b.db == nil {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 || n > b.recent {
		n = b.recent
	}
	var out []*domain.GameRecord
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixRecent)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append([]byte(prefixRecent), 0xFF)); it.ValidForPrefix(prefix) && len(out) < n; it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			item, err := txn.Get([]byte(prefixResult + string(id)))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var s storedRecord
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &s) }); err != nil {
				return fmt.Errorf("decode result %s: %w", id, err)
			}
			out = append(out, s.record())
		}
		return nil
	})
	return out, err
}

func loadStanding(txn *badger.Txn, player string) (*domain.PlayerStanding, error) {
	player = strings.TrimSpace(player)
	s := &domain.PlayerStanding{Player: player}
	item, err := txn.Get(standingKeyBytes(player))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var st storedStanding
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &st) }); err != nil {
		return nil, err
	}
	s.GamesPlayed = st.GamesPlayed
	s.Wins = st.Wins
	s.Losses = st.Losses
	s.Draws = st.Draws
	s.LastResult = domain.Result(st.LastResult)
	s.UpdatedAt = st.UpdatedAt
	return s, nil
}

// recentIndexKey sorts by end time; the session id breaks ties.
func recentIndexKey(rec *domain.GameRecord) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", prefixRecent, rec.EndedAt.UnixNano(), rec.SessionID))
}

func standingKeyBytes(player string) []byte {
	return []byte(prefixStanding + strings.ToLower(strings.TrimSpace(player)))
}
