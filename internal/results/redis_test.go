package results

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/park285/chess-duel/internal/domain"
)

func newTestRedisLedger(t *testing.T, opts RedisOptions) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	url := fmt.Sprintf("redis://%s/0", mr.Addr())
	l, err := NewRedisLedger(url, opts)
	if err != nil {
		t.Fatalf("NewRedisLedger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLedger_RecordAndStandings(t *testing.T) {
	l, _ := newTestRedisLedger(t, RedisOptions{})
	ctx := context.Background()

	for _, rec := range []*domain.GameRecord{
		sampleRecord("g1", domain.ResultBlackWins, 0),
		sampleRecord("g2", domain.ResultWhiteWins, 10),
		sampleRecord("g3", domain.ResultDraw, 20),
	} {
		if err := l.Record(ctx, rec); err != nil {
			t.Fatalf("Record(%s): %v", rec.SessionID, err)
		}
	}

	bob, err := l.Standings(ctx, "Bob")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if bob.GamesPlayed != 3 || bob.Wins != 1 || bob.Losses != 1 || bob.Draws != 1 {
		t.Fatalf("bob standing = %+v", bob)
	}
	if bob.LastResult != domain.ResultDraw {
		t.Fatalf("last result = %q", bob.LastResult)
	}
	if !bob.UpdatedAt.Equal(sampleRecord("g3", domain.ResultDraw, 20).EndedAt) {
		t.Fatalf("updated_at = %v", bob.UpdatedAt)
	}
}

func TestRedisLedger_RecordIsIdempotent(t *testing.T) {
	l, _ := newTestRedisLedger(t, RedisOptions{})
	ctx := context.Background()
	rec := sampleRecord("same", domain.ResultWhiteWins, 0)
	for i := 0; i < 3; i++ {
		if err := l.Record(ctx, rec); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}
	alice, err := l.Standings(ctx, "alice")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if alice.GamesPlayed != 1 || alice.Wins != 1 {
		t.Fatalf("replayed record counted twice: %+v", alice)
	}
	recent, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("recent len = %d, want 1", len(recent))
	}
}

func TestRedisLedger_FailedWriteLeavesNothingClaimed(t *testing.T) {
	l, mr := newTestRedisLedger(t, RedisOptions{})
	ctx := context.Background()
	rec := sampleRecord("flaky", domain.ResultBlackWins, 0)

	mr.SetError("ERR out of memory")
	if err := l.Record(ctx, rec); err == nil {
		t.Fatalf("Record succeeded against a failing server")
	}
	mr.SetError("")
	if mr.Exists(resultKey("flaky")) {
		t.Fatalf("result key claimed by a failed write")
	}

	// A corrupted standing key fails the write before anything is queued.
	if err := mr.Set(standingKey("alice"), "garbage"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := l.Record(ctx, rec); err == nil {
		t.Fatalf("Record succeeded over a non-hash standing")
	}
	if mr.Exists(resultKey("flaky")) || mr.Exists(standingKey("bob")) {
		t.Fatalf("partial write left behind: keys = %v", mr.Keys())
	}
	mr.Del(standingKey("alice"))

	if err := l.Record(ctx, rec); err != nil {
		t.Fatalf("retry: %v", err)
	}
	for _, player := range []string{"alice", "bob"} {
		st, err := l.Standings(ctx, player)
		if err != nil {
			t.Fatalf("Standings(%s): %v", player, err)
		}
		if st.GamesPlayed != 1 {
			t.Fatalf("%s standing after retry = %+v", player, st)
		}
	}
	recent, err := l.Recent(ctx, 10)
	if err != nil || len(recent) != 1 || recent[0].SessionID != "flaky" {
		t.Fatalf("recent = %v, %v", recent, err)
	}
}

func TestRedisLedger_RecentIsCappedAndNewestFirst(t *testing.T) {
	l, _ := newTestRedisLedger(t, RedisOptions{RecentLimit: 2})
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		if err := l.Record(ctx, sampleRecord(id, domain.ResultWhiteWins, i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	recent, err := l.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].SessionID != "c" || recent[1].SessionID != "b" {
		t.Fatalf("recent = %+v", recent)
	}
	if recent[0].Method != domain.MethodCheckmate || recent[0].Duration != 90*time.Second {
		t.Fatalf("record not round-tripped: %+v", recent[0])
	}
}

func TestRedisLedger_TTLApplied(t *testing.T) {
	l, mr := newTestRedisLedger(t, RedisOptions{TTL: time.Hour})
	ctx := context.Background()
	if err := l.Record(ctx, sampleRecord("ttl", domain.ResultDraw, 0)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if ttl := mr.TTL(resultKey("ttl")); ttl != time.Hour {
		t.Fatalf("result ttl = %v", ttl)
	}
	if ttl := mr.TTL(standingKey("alice")); ttl != time.Hour {
		t.Fatalf("standing ttl = %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	recent, err := l.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expired record still listed: %+v", recent)
	}
}

func TestRedisLedger_RejectsBadInput(t *testing.T) {
	l, _ := newTestRedisLedger(t, RedisOptions{})
	ctx := context.Background()
	if err := l.Record(ctx, nil); err != ErrNilRecord {
		t.Fatalf("nil record: %v", err)
	}
	if err := l.Record(ctx, &domain.GameRecord{}); err != ErrMissingID {
		t.Fatalf("missing id: %v", err)
	}
	if _, err := NewRedisLedger("", RedisOptions{}); err == nil {
		t.Fatalf("empty url should fail")
	}
	if _, err := NewRedisLedger("http://localhost:6379", RedisOptions{}); err == nil {
		t.Fatalf("wrong scheme should fail")
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, err := parseRedisURL("redis://:secret@127.0.0.1:6380/3")
	if err != nil {
		t.Fatalf("parseRedisURL: %v", err)
	}
	if opts.Addr != "127.0.0.1:6380" || opts.Password != "secret" || opts.DB != 3 {
		t.Fatalf("opts = %+v", opts)
	}
}
