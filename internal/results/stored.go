package results

import (
	"time"

	"github.com/park285/chess-duel/internal/domain"
)

// storedRecord is the JSON shape shared by the redis and badger ledgers.
type storedRecord struct {
	SessionID  string    `json:"session_id"`
	White      string    `json:"white"`
	Black      string    `json:"black"`
	Result     string    `json:"result"`
	Method     string    `json:"method"`
	Plies      int       `json:"plies"`
	Captures   int       `json:"captures"`
	FinalFEN   string    `json:"final_fen"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMS int64     `json:"duration_ms"`
}

func toStored(rec *domain.GameRecord) storedRecord {
	return storedRecord{
		SessionID:  rec.SessionID,
		White:      rec.White,
		Black:      rec.Black,
		Result:     string(rec.Result),
		Method:     string(rec.Method),
		Plies:      rec.Plies,
		Captures:   rec.Captures,
		FinalFEN:   rec.FinalFEN,
		StartedAt:  rec.StartedAt,
		EndedAt:    rec.EndedAt,
		DurationMS: durationMS(rec),
	}
}

func (s storedRecord) record() *domain.GameRecord {
	return &domain.GameRecord{
		SessionID: s.SessionID,
		White:     s.White,
		Black:     s.Black,
		Result:    domain.Result(s.Result),
		Method:    domain.Method(s.Method),
		Plies:     s.Plies,
		Captures:  s.Captures,
		FinalFEN:  s.FinalFEN,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Duration:  time.Duration(s.DurationMS) * time.Millisecond,
	}
}

func durationMS(rec *domain.GameRecord) int64 {
	d := rec.Duration
	if d == 0 {
		d = rec.EndedAt.Sub(rec.StartedAt)
	}
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
