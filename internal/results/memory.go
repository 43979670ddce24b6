package results

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/chess-duel/internal/domain"
)

// MemoryLedger keeps results for the lifetime of the process. It stands in
// when no store is configured.
type MemoryLedger struct {
	mu sync.RWMutex

	recent    int
	byID      map[string]*domain.GameRecord
	order     []*domain.GameRecord // insertion order, latest last
	standings map[string]*domain.PlayerStanding
}

func NewMemoryLedger(recentLimit int) *MemoryLedger {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	return &MemoryLedger{
		recent:    recentLimit,
		byID:      make(map[string]*domain.GameRecord),
		standings: make(map[string]*domain.PlayerStanding),
	}
}

func (m *MemoryLedger) Record(ctx context.Context, rec *domain.GameRecord) error {
	if err := validate(rec); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[rec.SessionID]; exists {
		return nil
	}
	copy := *rec
	m.byID[rec.SessionID] = &copy
	m.order = append(m.order, &copy)

	for _, player := range []string{rec.White, rec.Black} {
		key := standingKey(player)
		s, ok := m.standings[key]
		if !ok {
			s = &domain.PlayerStanding{}
			m.standings[key] = s
		}
		tally(s, &copy, strings.TrimSpace(player))
	}
	return nil
}

func (m *MemoryLedger) Standings(ctx context.Context, player string) (*domain.PlayerStanding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.standings[standingKey(player)]; ok {
		copy := *s
		return &copy, nil
	}
	return &domain.PlayerStanding{Player: strings.TrimSpace(player)}, nil
}

// Recent returns up to n records by EndedAt, newest first.
func (m *MemoryLedger) Recent(ctx context.Context, n int) ([]*domain.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 || n > m.recent {
		n = m.recent
	}
	m.mu.RLock()
	items := append([]*domain.GameRecord(nil), m.order...)
	m.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EndedAt.After(items[j].EndedAt)
	})
	if len(items) > n {
		items = items[:n]
	}
	out := make([]*domain.GameRecord, 0, len(items))
	for _, r := range items {
		copy := *r
		out = append(out, &copy)
	}
	return out, nil
}

func (m *MemoryLedger) Close() error { return nil }
