package chess

var (
	rookRays   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopRays = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

	knightOffsets = [8][2]int{
		{2, 1}, {1, 2}, {-1, 2}, {-2, 1},
		{1, -2}, {2, -1}, {-2, -1}, {-1, -2},
	}
	kingOffsets = [8][2]int{
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	}
)

// Destinations returns every square the piece on from can reach by its movement
// pattern, ignoring whether the move would expose its own king. color is the
// side the piece moves for. The board is only read.
//
// The result may hold duplicates when patterns are composed (Queen is the Rook
// list followed by the Bishop list); callers count entries, so they are kept.
func Destinations(b *Board, from Coordinate, color Color) []Coordinate {
	switch b.At(from).Piece.Kind {
	case Pawn:
		return pawnDestinations(b, from, color, nil)
	case Rook:
		return slide(b, from, color, rookRays, nil)
	case Knight:
		return jump(b, from, color, knightOffsets, nil)
	case Bishop:
		return slide(b, from, color, bishopRays, nil)
	case Queen:
		dst := slide(b, from, color, rookRays, nil)
		return slide(b, from, color, bishopRays, dst)
	case King:
		return jump(b, from, color, kingOffsets, nil)
	case NoKind:
		return nil
	default:
		return nil
	}
}

// pawnHome returns the rank a pawn of color starts on and its forward step.
func pawnHome(color Color) (home, dir int) {
	if color == White {
		return 6, -1
	}
	return 1, 1
}

func pawnDestinations(b *Board, from Coordinate, color Color, dst []Coordinate) []Coordinate {
	home, dir := pawnHome(color)

	one := from.Offset(dir, 0)
	if one.Valid() && b.At(one).Empty() {
		dst = append(dst, one)
		// eligibility is purely rank based
		two := from.Offset(2*dir, 0)
		if from.Rank == home && two.Valid() && b.At(two).Empty() {
			dst = append(dst, two)
		}
	}

	for _, df := range [2]int{-1, 1} {
		diag := from.Offset(dir, df)
		if !diag.Valid() {
			continue
		}
		if ctl := b.At(diag).Control; ctl != NoColor && ctl != color {
			dst = append(dst, diag)
		}
	}
	return dst
}

func slide(b *Board, from Coordinate, color Color, rays [4][2]int, dst []Coordinate) []Coordinate {
	for _, ray := range rays {
		for c := from.Offset(ray[0], ray[1]); c.Valid(); c = c.Offset(ray[0], ray[1]) {
			ctl := b.At(c).Control
			if ctl == NoColor {
				dst = append(dst, c)
				continue
			}
			if ctl != color {
				dst = append(dst, c)
			}
			break
		}
	}
	return dst
}

func jump(b *Board, from Coordinate, color Color, offsets [8][2]int, dst []Coordinate) []Coordinate {
	for _, o := range offsets {
		c := from.Offset(o[0], o[1])
		if !c.Valid() {
			continue
		}
		if b.At(c).Control != color {
			dst = append(dst, c)
		}
	}
	return dst
}
