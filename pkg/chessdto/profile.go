package chessdto

import "time"

type PlayerStanding struct {
	Player      string
	GamesPlayed int
	Wins        int
	Losses      int
	Draws       int
	LastResult  string
	UpdatedAt   time.Time
}

type GameSummary struct {
	SessionID string
	White     string
	Black     string
	Result    string
	Method    string
	Plies     int
	Captures  int
	FinalFEN  string
	StartedAt time.Time
	EndedAt   time.Time
}
