package chess

// Rejection is the reason a proposed move was refused. The zero value,
// Accepted, means the move passed every check.
type Rejection uint8

const (
	Accepted Rejection = iota
	EmptyOrigin
	ForeignPiece
	FriendlyOccupiedDestination
	IllegalPieceMove
	SelfCheck
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case EmptyOrigin:
		return "empty_origin"
	case ForeignPiece:
		return "foreign_piece"
	case FriendlyOccupiedDestination:
		return "friendly_occupied_destination"
	case IllegalPieceMove:
		return "illegal_piece_move"
	case SelfCheck:
		return "self_check"
	default:
		return "unknown"
	}
}

// Error lets a rejection travel as an error value; compare with errors.Is.
func (r Rejection) Error() string { return "move rejected: " + r.String() }

// Validate runs the ordered legality checks for m with active to move and
// returns the first failure, or Accepted. The board is left exactly as it was
// on every return.
func Validate(b *Board, m Move, active Color) Rejection {
	origin := b.At(m.From)
	if origin.Empty() {
		return EmptyOrigin
	}
	if origin.Piece.Color != active {
		return ForeignPiece
	}
	if b.At(m.To).Control == active {
		return FriendlyOccupiedDestination
	}
	if !reaches(b, m, active) {
		return IllegalPieceMove
	}
	if LeavesKingInCheck(b, m, active) {
		return SelfCheck
	}
	return Accepted
}

func reaches(b *Board, m Move, color Color) bool {
	for _, to := range Destinations(b, m.From, color) {
		if to == m.To {
			return true
		}
	}
	return false
}
