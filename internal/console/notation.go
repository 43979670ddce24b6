package console

import (
	"errors"
	"strings"

	"github.com/park285/chess-duel/internal/chess"
)

var ErrBadSquare = errors.New("console: bad square")

// ParseSquare reads a square name from the first two characters of s, in
// either case. Anything typed after them is ignored.
func ParseSquare(s string) (chess.Coordinate, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return chess.Coordinate{}, ErrBadSquare
	}
	c, err := chess.ParseCoordinate(s[:2])
	if err != nil {
		return chess.Coordinate{}, ErrBadSquare
	}
	return c, nil
}
