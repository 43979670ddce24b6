package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/park285/chess-duel/internal/chess"
)

// Panel is the text shown beside the board.
type Panel struct {
	Turn       string
	LastAction string
	Status     string
	Error      string
}

const panelRule = "|||--------------------|||"

// DrawBoard writes an ASCII board, rank 8 on top. Dark squares are hatched
// with slashes; pieces use their FEN letter.
func DrawBoard(w io.Writer, b *chess.Board, p Panel) error {
	side := map[int]string{
		3: panelRule,
		4: "||| " + p.Turn,
		5: panelRule,
		6: "||| " + p.LastAction,
		7: "||| " + p.Status,
	}

	var sb strings.Builder
	sb.WriteString("    A  B  C  D  E  F  G  H\n")
	sb.WriteString("  +------------------------+\n")
	for r := 0; r < chess.Size; r++ {
		label := chess.Size - r
		fmt.Fprintf(&sb, "%d |", label)
		for f := 0; f < chess.Size; f++ {
			sb.WriteString(squareText(b.At(chess.Coordinate{Rank: r, File: f}), (r+f)%2 == 1))
		}
		fmt.Fprintf(&sb, "| %d", label)
		if text, ok := side[r]; ok {
			sb.WriteString("    ")
			sb.WriteString(strings.TrimRight(text, " "))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  +------------------------+")
	if p.Error != "" {
		sb.WriteString("        ||| ")
		sb.WriteString(p.Error)
	}
	sb.WriteByte('\n')
	sb.WriteString("    A  B  C  D  E  F  G  H\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func squareText(t chess.Tile, dark bool) string {
	icon := t.Piece.Letter()
	if !dark {
		return " " + string(icon) + " "
	}
	if t.Empty() {
		return "///"
	}
	return "/" + string(icon) + "/"
}
