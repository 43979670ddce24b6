package chessdto

// CreateSessionRequest seats two players. FirstColor is "white", "black" or
// anything else for a random draw; it names the side First plays.
type CreateSessionRequest struct {
	First      string
	Second     string
	FirstColor string
	// FEN optionally replaces the standard starting position.
	FEN string
}

type PlayRequest struct {
	SessionID string
	From      string
	To        string
}

type StandingsRequest struct {
	Player string
}

type RecentRequest struct {
	Limit int
}
