// Package results keeps end-of-game summaries. Live sessions are never stored
// here; a ledger only sees a game once it has ended.
package results

import (
	"context"
	"errors"
	"strings"

	"github.com/park285/chess-duel/internal/domain"
)

var (
	ErrNilRecord     = errors.New("results: nil record")
	ErrMissingID     = errors.New("results: record has no session id")
	ErrNotConfigured = errors.New("results: ledger not initialized")
)

// Recorder receives one record per finished game.
type Recorder interface {
	Record(ctx context.Context, rec *domain.GameRecord) error
}

// Ledger is a Recorder that can also answer standings and recent-game queries.
type Ledger interface {
	Recorder
	Standings(ctx context.Context, player string) (*domain.PlayerStanding, error)
	Recent(ctx context.Context, n int) ([]*domain.GameRecord, error)
	Close() error
}

func validate(rec *domain.GameRecord) error {
	if rec == nil {
		return ErrNilRecord
	}
	if strings.TrimSpace(rec.SessionID) == "" {
		return ErrMissingID
	}
	return nil
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, *domain.GameRecord) error { return nil }

// Multi fans a record out to every recorder and joins their errors. A failing
// recorder does not stop the others.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, rec *domain.GameRecord) error {
	if err := validate(rec); err != nil {
		return err
	}
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// tally applies rec to the standing of player.
func tally(s *domain.PlayerStanding, rec *domain.GameRecord, player string) {
	s.Player = player
	s.GamesPlayed++
	switch {
	case rec.Result == domain.ResultDraw:
		s.Draws++
	case rec.Winner() == player:
		s.Wins++
	default:
		s.Losses++
	}
	s.LastResult = rec.Result
	s.UpdatedAt = rec.EndedAt
}
