package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/chess-duel/internal/domain"
)

// RedisLedger keeps per-player tallies in hashes and a capped list of recent
// result ids.
type RedisLedger struct {
	rdb    *redis.Client
	recent int
	ttl    time.Duration
}

type RedisOptions struct {
	// RecentLimit caps the recent list (default 20).
	RecentLimit int
	// TTL expires result and standing keys; zero keeps them.
	TTL time.Duration
}

func NewRedisLedger(redisURL string, opts RedisOptions) (*RedisLedger, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for redis ledger")
	}
	ropts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 20
	}
	return &RedisLedger{rdb: rdb, recent: opts.RecentLimit, ttl: opts.TTL}, nil
}

func (l *RedisLedger) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

// Record stores rec once; a second call for the same session id is a no-op.
// The result key and the tallies commit in one MULTI/EXEC, so a failed
// attempt leaves nothing claimed and can be retried.
func (l *RedisLedger) Record(ctx context.Context, rec *domain.GameRecord) error {
	if l == nil || l.rdb == nil {
		return ErrNotConfigured
	}
	if err := validate(rec); err != nil {
		return err
	}
	raw, err := json.Marshal(toStored(rec))
	if err != nil {
		return err
	}

	keys := []string{resultKey(rec.SessionID), standingKey(rec.White), standingKey(rec.Black)}
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = l.rdb.Watch(ctx, func(tx *redis.Tx) error {
			return l.recordTx(ctx, tx, rec, raw)
		}, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("redis record result: %w", err)
	}
	return nil
}

const maxTxAttempts = 3

func (l *RedisLedger) recordTx(ctx context.Context, tx *redis.Tx, rec *domain.GameRecord, raw []byte) error {
	n, err := tx.Exists(ctx, resultKey(rec.SessionID)).Result()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// EXEC does not roll back, so a wrong-typed key must stop us before MULTI.
	for _, player := range []string{rec.White, rec.Black} {
		typ, err := tx.Type(ctx, standingKey(player)).Result()
		if err != nil {
			return err
		}
		if typ != "none" && typ != "hash" {
			return fmt.Errorf("standing for %q is a %s, not a hash", player, typ)
		}
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKey(rec.SessionID), raw, l.ttl)
		for _, player := range []string{rec.White, rec.Black} {
			key := standingKey(player)
			pipe.HIncrBy(ctx, key, "games", 1)
			switch {
			case rec.Result == domain.ResultDraw:
				pipe.HIncrBy(ctx, key, "draws", 1)
			case rec.Winner() == player:
				pipe.HIncrBy(ctx, key, "wins", 1)
			default:
				pipe.HIncrBy(ctx, key, "losses", 1)
			}
			pipe.HSet(ctx, key, "last_result", string(rec.Result), "updated_at", rec.EndedAt.UTC().Format(time.RFC3339Nano))
			if l.ttl > 0 {
				pipe.Expire(ctx, key, l.ttl)
			}
		}
		pipe.LPush(ctx, recentKey(), rec.SessionID)
		pipe.LTrim(ctx, recentKey(), 0, int64(l.recent-1))
		return nil
	})
	return err
}

func (l *RedisLedger) Standings(ctx context.Context, player string) (*domain.PlayerStanding, error) {
	if l == nil || l.rdb == nil {
		return nil, ErrNotConfigured
	}
	player = strings.TrimSpace(player)
	fields, err := l.rdb.HGetAll(ctx, standingKey(player)).Result()
	if err != nil {
		return nil, err
	}
	s := &domain.PlayerStanding{Player: player}
	s.GamesPlayed, _ = strconv.Atoi(fields["games"])
	s.Wins, _ = strconv.Atoi(fields["wins"])
	s.Losses, _ = strconv.Atoi(fields["losses"])
	s.Draws, _ = strconv.Atoi(fields["draws"])
	s.LastResult = domain.Result(fields["last_result"])
	if ts := fields["updated_at"]; ts != "" {
		s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return s, nil
}

// Recent returns up to n records, newest first. Ids whose record expired are skipped.
func (l *RedisLedger) Recent(ctx context.Context, n int) ([]*domain.GameRecord, error) {
	if l == nil || l.rdb == nil {
		return nil, ErrNotConfigured
	}
	if n <= 0 || n > l.recent {
		n = l.recent
	}
	ids, err := l.rdb.LRange(ctx, recentKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GameRecord, 0, len(ids))
	for _, id := range ids {
		raw, err := l.rdb.Get(ctx, resultKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var s storedRecord
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode result %s: %w", id, err)
		}
		out = append(out, s.record())
	}
	return out, nil
}

func resultKey(id string) string       { return "duel:result:" + strings.TrimSpace(id) }
func standingKey(player string) string { return "duel:standing:" + strings.ToLower(strings.TrimSpace(player)) }
func recentKey() string                { return "duel:recent" }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
