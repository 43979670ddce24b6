package chess

// IsInCheck reports whether color's king stands on a pseudo-legal destination
// of any opposing piece. The king is located by a full board scan on every
// call. A board without a king of that color is never in check.
func IsInCheck(b *Board, color Color) bool {
	king, ok := b.King(color)
	if !ok {
		return false
	}
	enemy := color.Opponent()
	for _, from := range b.Pieces(enemy) {
		for _, to := range Destinations(b, from, enemy) {
			if to == king {
				return true
			}
		}
	}
	return false
}

// LeavesKingInCheck plays m on b, asks whether color is then in check, and
// puts both tiles back before returning. The restore is deferred so it runs on
// every path out of the function.
//
// No other goroutine may touch b while this runs.
func LeavesKingInCheck(b *Board, m Move, color Color) bool {
	from, to := b.At(m.From), b.At(m.To)
	defer func() {
		b.Set(m.From, from)
		b.Set(m.To, to)
	}()

	b.Set(m.To, from)
	b.Clear(m.From)
	return IsInCheck(b, color)
}

// IsOutOfMoves reports whether every pseudo-legal move of color leaves its own
// king in check. Both tallies walk the same per-piece destination list, entry by
// entry, so duplicates from composed patterns are counted on both sides alike.
// A side with no pseudo-legal moves at all is out of moves.
func IsOutOfMoves(b *Board, color Color) bool {
	total, inCheck := tallyMoves(b, color)
	return total == inCheck
}

func tallyMoves(b *Board, color Color) (total, inCheck int) {
	for _, from := range b.Pieces(color) {
		dests := Destinations(b, from, color)
		total += len(dests)
		for _, to := range dests {
			if LeavesKingInCheck(b, Move{From: from, To: to}, color) {
				inCheck++
			}
		}
	}
	return total, inCheck
}

// LegalMoves lists every move of color that passes validation. Order follows
// the board scan and each piece's generation order; duplicates are dropped.
func LegalMoves(b *Board, color Color) []Move {
	var out []Move
	for _, from := range b.Pieces(color) {
		seen := make(map[Coordinate]bool)
		for _, to := range Destinations(b, from, color) {
			if seen[to] {
				continue
			}
			seen[to] = true
			m := Move{From: from, To: to}
			if Validate(b, m, color) == Accepted {
				out = append(out, m)
			}
		}
	}
	return out
}
