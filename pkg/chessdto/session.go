package chessdto

// CaptureInfo names the pieces involved in a capture in lower-case words.
type CaptureInfo struct {
	By       string
	Attacker string
	Captured string
}

// TurnReport is what one move attempt produced, flattened for callers outside
// the module.
type TurnReport struct {
	SessionID string
	Move      string
	Mover     string
	Accepted  bool
	Error     *DomainError
	Status    string
	InCheck   string
	Capture   *CaptureInfo
	Finished  bool
	Winner    string
}

type SessionState struct {
	SessionID  string
	White      string
	Black      string
	FEN        string
	Active     string
	Status     string
	MoveCount  int
	Captures   int
	Finished   bool
	Winner     string
	BoardImage []byte
}
