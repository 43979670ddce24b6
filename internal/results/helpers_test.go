package results

import (
	"time"

	"github.com/park285/chess-duel/internal/domain"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleRecord(id string, result domain.Result, minutes int) *domain.GameRecord {
	method := domain.MethodCheckmate
	if result == domain.ResultDraw {
		method = domain.MethodStalemate
	}
	start := baseTime.Add(time.Duration(minutes) * time.Minute)
	return &domain.GameRecord{
		SessionID: id,
		White:     "alice",
		Black:     "bob",
		Result:    result,
		Method:    method,
		Plies:     4,
		Captures:  0,
		FinalFEN:  "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 0 1",
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
	}
}
