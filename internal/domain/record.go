package domain

import "time"

type Result string

const (
	ResultWhiteWins Result = "1-0"
	ResultBlackWins Result = "0-1"
	ResultDraw      Result = "1/2-1/2"
)

type Method string

const (
	MethodCheckmate Method = "checkmate"
	MethodStalemate Method = "stalemate"
)

// GameRecord is the end-of-game summary handed to result ledgers.
type GameRecord struct {
	SessionID string
	White     string
	Black     string
	Result    Result
	Method    Method
	Plies     int
	Captures  int
	FinalFEN  string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

// Winner returns the winning player's name, or "" for a draw.
func (r *GameRecord) Winner() string {
	switch r.Result {
	case ResultWhiteWins:
		return r.White
	case ResultBlackWins:
		return r.Black
	default:
		return ""
	}
}

// Loser returns the losing player's name, or "" for a draw.
func (r *GameRecord) Loser() string {
	switch r.Result {
	case ResultWhiteWins:
		return r.Black
	case ResultBlackWins:
		return r.White
	default:
		return ""
	}
}

type PlayerStanding struct {
	Player      string
	GamesPlayed int
	Wins        int
	Losses      int
	Draws       int
	LastResult  Result
	UpdatedAt   time.Time
}
