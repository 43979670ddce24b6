package chess

// Tile is a single square. Control mirrors the occupant's color so occupancy
// tests do not need to look at the piece; it is NoColor iff the tile is empty.
type Tile struct {
	Piece   Piece
	Control Color
}

// NewTile returns a tile holding p.
func NewTile(p Piece) Tile {
	if p.Kind == NoKind {
		return Tile{}
	}
	return Tile{Piece: p, Control: p.Color}
}

// EmptyTile returns a tile with no occupant.
func EmptyTile() Tile { return Tile{} }

// Empty reports whether no piece stands on t.
func (t Tile) Empty() bool { return t.Control == NoColor }

// Board is the 8x8 grid indexed [rank][file]. It is a value: copying a Board
// copies every tile.
type Board [Size][Size]Tile

// At returns the tile at c. Out-of-range coordinates panic.
func (b *Board) At(c Coordinate) Tile { return b[c.Rank][c.File] }

// Set overwrites the tile at c.
func (b *Board) Set(c Coordinate, t Tile) { b[c.Rank][c.File] = t }

// Put places p on c.
func (b *Board) Put(c Coordinate, p Piece) { b.Set(c, NewTile(p)) }

// Clear empties the tile at c.
func (b *Board) Clear(c Coordinate) { b[c.Rank][c.File] = EmptyTile() }

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardBoard returns the initial position: Black on ranks 0-1, White on 6-7.
func StandardBoard() Board {
	var b Board
	for f := 0; f < Size; f++ {
		b[0][f] = NewTile(Piece{Kind: backRank[f], Color: Black})
		b[1][f] = NewTile(Piece{Kind: Pawn, Color: Black})
		b[6][f] = NewTile(Piece{Kind: Pawn, Color: White})
		b[7][f] = NewTile(Piece{Kind: backRank[f], Color: White})
	}
	return b
}

// Pieces returns the coordinates of every piece controlled by color, rank-major.
func (b *Board) Pieces(color Color) []Coordinate {
	var out []Coordinate
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if b[r][f].Control == color {
				out = append(out, Coordinate{Rank: r, File: f})
			}
		}
	}
	return out
}

// King scans all 64 tiles for color's king. Nothing tracks the king between
// moves, so callers must not cache the result across mutations.
func (b *Board) King(color Color) (Coordinate, bool) {
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			t := b[r][f]
			if t.Control == color && t.Piece.Kind == King {
				return Coordinate{Rank: r, File: f}, true
			}
		}
	}
	return Coordinate{}, false
}

// Count returns how many pieces of the given kind and color are on the board.
func (b *Board) Count(p Piece) int {
	n := 0
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if b[r][f].Piece == p && b[r][f].Control == p.Color {
				n++
			}
		}
	}
	return n
}
