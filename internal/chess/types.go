// Package chess implements the rules core of a two-player game: the mailbox board,
// pseudo-legal move generation, check detection, move validation and the turn
// state machine. It deals only in structured values; text belongs to callers.
package chess

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of ranks and files on the board.
const Size = 8

// Color identifies a side. NoColor marks an empty tile.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// Kind is the type of a piece.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Piece pairs a kind with its owner.
type Piece struct {
	Kind  Kind
	Color Color
}

// NoPiece is the zero piece held by empty tiles.
var NoPiece = Piece{}

// Letter returns the board icon: upper case for White, lower case for Black,
// a space for NoPiece.
func (p Piece) Letter() byte {
	var l byte
	switch p.Kind {
	case Pawn:
		l = 'P'
	case Rook:
		l = 'R'
	case Knight:
		l = 'N'
	case Bishop:
		l = 'B'
	case Queen:
		l = 'Q'
	case King:
		l = 'K'
	default:
		return ' '
	}
	if p.Color == Black {
		l += 'a' - 'A'
	}
	return l
}

// Coordinate addresses a tile. Rank 0 is Black's back rank ("8"), rank 7 is
// White's back rank ("1"); file 0 is "a".
type Coordinate struct {
	Rank int
	File int
}

// Valid reports whether c lies on the board.
func (c Coordinate) Valid() bool {
	return c.Rank >= 0 && c.Rank < Size && c.File >= 0 && c.File < Size
}

// Offset returns c shifted by the given rank and file deltas. The result may be
// off the board.
func (c Coordinate) Offset(dr, df int) Coordinate {
	return Coordinate{Rank: c.Rank + dr, File: c.File + df}
}

// String renders c in algebraic form ("e2"). Off-board coordinates render as "??".
func (c Coordinate) String() string {
	if !c.Valid() {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'a'+c.File, Size-c.Rank)
}

// ErrBadCoordinate reports text that is not a square name.
var ErrBadCoordinate = errors.New("bad coordinate")

// ParseCoordinate reads exactly one square name such as "e2" or "E2".
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	return Coordinate{Rank: Size - int(s[1]-'0'), File: int(s[0] - 'a')}, nil
}

// Move is a from/to pair. There is no promotion, castling or en-passant flag.
type Move struct {
	From Coordinate
	To   Coordinate
}

func (m Move) String() string { return m.From.String() + m.To.String() }

// StateKind enumerates game states.
type StateKind uint8

const (
	Normal StateKind = iota
	Error
	Check
	Checkmate
	Stalemate
)

func (k StateKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Error:
		return "error"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// State is the game state. Color names the affected side for Check and
// Checkmate and is NoColor otherwise.
type State struct {
	Kind  StateKind
	Color Color
}

// Terminal reports whether the session is over.
func (s State) Terminal() bool {
	return s.Kind == Checkmate || s.Kind == Stalemate
}

func (s State) String() string {
	if s.Kind == Check || s.Kind == Checkmate {
		return s.Kind.String() + ":" + s.Color.String()
	}
	return s.Kind.String()
}

// Capture describes a piece being displaced by an accepted move.
type Capture struct {
	Attacker Kind
	Captured Kind
	By       Color
}
