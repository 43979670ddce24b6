package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/chess-duel/internal/domain"
)

const schemaDuelResults = `CREATE TABLE IF NOT EXISTS duel_results (
    session_id    TEXT PRIMARY KEY,
    white_name    TEXT NOT NULL,
    black_name    TEXT NOT NULL,
    result        TEXT NOT NULL,
    result_method TEXT NOT NULL,
    plies         INTEGER NOT NULL DEFAULT 0,
    captures      INTEGER NOT NULL DEFAULT 0,
    final_fen     TEXT NOT NULL DEFAULT '',
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL DEFAULT 0
)`

const upsertDuelResult = `INSERT INTO duel_results (
    session_id, white_name, black_name, result, result_method,
    plies, captures, final_fen, started_at, ended_at, duration_ms
  ) VALUES (
    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
  ) ON CONFLICT (session_id) DO UPDATE SET
    white_name=EXCLUDED.white_name,
    black_name=EXCLUDED.black_name,
    result=EXCLUDED.result,
    result_method=EXCLUDED.result_method,
    plies=EXCLUDED.plies,
    captures=EXCLUDED.captures,
    final_fen=EXCLUDED.final_fen,
    started_at=EXCLUDED.started_at,
    ended_at=EXCLUDED.ended_at,
    duration_ms=EXCLUDED.duration_ms`

const selectStandings = `SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE (lower(white_name)=lower($1) AND result='1-0') OR (lower(black_name)=lower($1) AND result='0-1')),
    COUNT(*) FILTER (WHERE (lower(white_name)=lower($1) AND result='0-1') OR (lower(black_name)=lower($1) AND result='1-0')),
    COUNT(*) FILTER (WHERE result='1/2-1/2'),
    MAX(ended_at)
  FROM duel_results
  WHERE lower(white_name)=lower($1) OR lower(black_name)=lower($1)`

const selectRecent = `SELECT session_id, white_name, black_name, result, result_method,
    plies, captures, final_fen, started_at, ended_at, duration_ms
  FROM duel_results
  ORDER BY ended_at DESC
  LIMIT $1`

// PostgresLedger upserts one row per finished game into duel_results.
type PostgresLedger struct {
	db     *sql.DB
	recent int
}

func NewPostgresLedger(databaseURL string, recentLimit int) (*PostgresLedger, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if recentLimit <= 0 {
		recentLimit = 20
	}
	return &PostgresLedger{db: db, recent: recentLimit}, nil
}

func (p *PostgresLedger) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// EnsureSchema creates duel_results when it does not exist yet.
func (p *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if p == nil || p.db == nil {
		return ErrNotConfigured
	}
	if _, err := p.db.ExecContext(ctx, schemaDuelResults); err != nil {
		return fmt.Errorf("create duel_results: %w", err)
	}
	return nil
}

func (p *PostgresLedger) Record(ctx context.Context, rec *domain.GameRecord) error {
	if p == nil || p.db == nil {
		return ErrNotConfigured
	}
	if err := validate(rec); err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, upsertDuelResult, upsertArgs(rec)...); err != nil {
		return fmt.Errorf("upsert duel_results: %w", err)
	}
	return nil
}

func upsertArgs(rec *domain.GameRecord) []any {
	return []any{
		strings.TrimSpace(rec.SessionID),
		strings.TrimSpace(rec.White),
		strings.TrimSpace(rec.Black),
		string(rec.Result),
		string(rec.Method),
		rec.Plies,
		rec.Captures,
		rec.FinalFEN,
		rec.StartedAt,
		rec.EndedAt,
		durationMS(rec),
	}
}

func (p *PostgresLedger) Standings(ctx context.Context, player string) (*domain.PlayerStanding, error) {
	if p == nil || p.db == nil {
		return nil, ErrNotConfigured
	}
	player = strings.TrimSpace(player)
	s := &domain.PlayerStanding{Player: player}
	var last sql.NullTime
	err := p.db.QueryRowContext(ctx, selectStandings, player).
		Scan(&s.GamesPlayed, &s.Wins, &s.Losses, &s.Draws, &last)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	if last.Valid {
		s.UpdatedAt = last.Time
	}
	return s, nil
}

func (p *PostgresLedger) Recent(ctx context.Context, n int) ([]*domain.GameRecord, error) {
	if p == nil || p.db == nil {
		return nil, ErrNotConfigured
	}
	if n <= 0 || n > p.recent {
		n = p.recent
	}
	rows, err := p.db.QueryContext(ctx, selectRecent, n)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []*domain.GameRecord
	for rows.Next() {
		var (
			rec        domain.GameRecord
			result     string
			method     string
			durationMS int64
		)
		if err := rows.Scan(&rec.SessionID, &rec.White, &rec.Black, &result, &method,
			&rec.Plies, &rec.Captures, &rec.FinalFEN, &rec.StartedAt, &rec.EndedAt, &durationMS); err != nil {
			return nil, err
		}
		rec.Result = domain.Result(result)
		rec.Method = domain.Method(method)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, &rec)
	}
	return out, rows.Err()
}
