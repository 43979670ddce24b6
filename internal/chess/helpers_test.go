package chess

import (
	"sort"
	"testing"
)

// diagram builds a board from eight rows, rank 8 first. '.' is empty, letters
// follow FEN case (upper = White).
func diagram(t *testing.T, rows ...string) Board {
	t.Helper()
	if len(rows) != Size {
		t.Fatalf("diagram: want %d rows, got %d", Size, len(rows))
	}
	var b Board
	for r, row := range rows {
		if len(row) != Size {
			t.Fatalf("diagram: row %d has %d columns", r, len(row))
		}
		for f := 0; f < Size; f++ {
			ch := row[f]
			if ch == '.' {
				continue
			}
			p, ok := pieceFromLetter(ch)
			if !ok {
				t.Fatalf("diagram: bad letter %q at row %d col %d", ch, r, f)
			}
			b.Put(Coordinate{Rank: r, File: f}, p)
		}
	}
	return b
}

func pieceFromLetter(ch byte) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	kinds := map[byte]Kind{'P': Pawn, 'R': Rook, 'N': Knight, 'B': Bishop, 'Q': Queen, 'K': King}
	k, ok := kinds[ch]
	if !ok {
		return NoPiece, false
	}
	return Piece{Kind: k, Color: color}, true
}

// sq parses "e2" style squares for test readability.
func sq(t *testing.T, s string) Coordinate {
	t.Helper()
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		t.Fatalf("bad square %q", s)
	}
	return Coordinate{Rank: Size - int(s[1]-'0'), File: int(s[0] - 'a')}
}

func mv(t *testing.T, from, to string) Move {
	t.Helper()
	return Move{From: sq(t, from), To: sq(t, to)}
}

func squares(cs []Coordinate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	sort.Strings(out)
	return out
}

func moveStrings(ms []Move) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// perft counts leaf nodes of the legal move tree to the given depth.
func perft(b Board, color Color, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := LegalMoves(&b, color)
	if depth == 1 {
		return len(moves)
	}
	n := 0
	for _, m := range moves {
		next := b
		next.Set(m.To, next.At(m.From))
		next.Clear(m.From)
		n += perft(next, color.Opponent(), depth-1)
	}
	return n
}
