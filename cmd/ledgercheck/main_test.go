package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/park285/chess-duel/internal/domain"
	"github.com/park285/chess-duel/internal/results"
)

func TestReport_NoLedgerIsAnError(t *testing.T) {
	set := results.Open(context.Background(), results.OpenOptions{NoFallback: true})
	var out bytes.Buffer
	if err := report(context.Background(), &out, set, []string{"alice"}); !errors.Is(err, errNoLedger) {
		t.Fatalf("err = %v, want errNoLedger", err)
	}
	if out.Len() != 0 {
		t.Fatalf("printed %q with no ledger open", out.String())
	}
}

func TestReport_PrintsStandingsAndRecent(t *testing.T) {
	ctx := context.Background()
	l := results.NewMemoryLedger(5)
	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &domain.GameRecord{
		SessionID: "g1",
		White:     "alice",
		Black:     "bob",
		Result:    domain.ResultWhiteWins,
		Method:    domain.MethodCheckmate,
		Plies:     7,
		StartedAt: end.Add(-time.Minute),
		EndedAt:   end,
	}
	if err := l.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var out bytes.Buffer
	set := &results.Set{Ledgers: []results.Ledger{l}}
	if err := report(ctx, &out, set, []string{"alice", "bob"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"== *results.MemoryLedger",
		"alice            played=1 won=1 lost=0 drawn=0",
		"bob              played=1 won=0 lost=1 drawn=0",
		"g1  alice    vs bob",
		"(checkmate, 7 plies)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
