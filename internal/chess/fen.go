package chess

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// ParseFEN decodes the piece placement and side to move of a FEN record.
// Castling rights, en-passant target and clocks are accepted but ignored since
// none of those rules exist here.
func ParseFEN(s string) (Board, Color, error) {
	var b Board
	s = strings.TrimSpace(s)
	if s == "" {
		return b, NoColor, fmt.Errorf("parse fen: empty record")
	}
	opt, err := nchess.FEN(s)
	if err != nil {
		return b, NoColor, fmt.Errorf("parse fen: %w", err)
	}
	pos := nchess.NewGame(opt).Position()

	for sq, p := range pos.Board().SquareMap() {
		if p == nchess.NoPiece {
			continue
		}
		piece, ok := fromLibraryPiece(p)
		if !ok {
			return b, NoColor, fmt.Errorf("parse fen: unsupported piece %v on %v", p, sq)
		}
		b.Put(fromLibrarySquare(sq), piece)
	}

	active := White
	if pos.Turn() == nchess.Black {
		active = Black
	}
	return b, active, nil
}

// fromLibrarySquare maps a square (a1 = rank 0 there) onto our rank-0-is-8 layout.
func fromLibrarySquare(sq nchess.Square) Coordinate {
	return Coordinate{Rank: Size - 1 - int(sq.Rank()), File: int(sq.File())}
}

func fromLibraryPiece(p nchess.Piece) (Piece, bool) {
	var color Color
	switch p.Color() {
	case nchess.White:
		color = White
	case nchess.Black:
		color = Black
	default:
		return NoPiece, false
	}
	var kind Kind
	switch p.Type() {
	case nchess.Pawn:
		kind = Pawn
	case nchess.Rook:
		kind = Rook
	case nchess.Knight:
		kind = Knight
	case nchess.Bishop:
		kind = Bishop
	case nchess.Queen:
		kind = Queen
	case nchess.King:
		kind = King
	default:
		return NoPiece, false
	}
	return Piece{Kind: kind, Color: color}, true
}

// FEN renders the placement and side-to-move fields followed by "- - 0 1".
func (b *Board) FEN(active Color) string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		empty := 0
		for f := 0; f < Size; f++ {
			t := b[r][f]
			if t.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(t.Piece.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < Size-1 {
			sb.WriteByte('/')
		}
	}
	if active == Black {
		sb.WriteString(" b")
	} else {
		sb.WriteString(" w")
	}
	sb.WriteString(" - - 0 1")
	return sb.String()
}
