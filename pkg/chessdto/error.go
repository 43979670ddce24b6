package chessdto

const (
	CodeEmptyOrigin      = "empty_origin"
	CodeForeignPiece     = "foreign_piece"
	CodeFriendlyOccupied = "friendly_occupied_destination"
	CodeIllegalPieceMove = "illegal_piece_move"
	CodeSelfCheck        = "self_check"
	CodeBadSquare        = "bad_square"
	CodeGameOver         = "game_over"
	CodeSessionNotFound  = "session_not_found"
	CodeStoreUnavailable = "store_unavailable"
)

// DomainError is the error shape handed to callers outside the module.
// Cause, when set, is reachable through errors.Is and errors.As.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
	Cause     error `json:"-"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}

func (e DomainError) Unwrap() error { return e.Cause }
