package chess

import "errors"

var (
	// ErrGameOver is returned by Play once the game reached checkmate or stalemate.
	ErrGameOver = errors.New("game is over")
	// ErrOffBoard is returned by Play for coordinates outside 0..7.
	ErrOffBoard = errors.New("coordinate off board")
)

// Outcome is what one move attempt produced. Rejection is Accepted for a move
// that was applied; Capture is set only when that move displaced a piece.
type Outcome struct {
	Move      Move
	Mover     Color
	Rejection Rejection
	State     State
	Capture   *Capture
}

// Game is the turn state machine. It owns its board for the whole session;
// callers see copies only. A Game is not safe for concurrent use.
type Game struct {
	board    Board
	active   Color
	state    State
	plies    int
	captures int
	last     *Capture
}

// NewGame starts a game from the standard position with White to move.
func NewGame() *Game {
	return NewGameFrom(StandardBoard(), White)
}

// NewGameFrom starts a game from an arbitrary position. The caller vouches for
// one king per side.
func NewGameFrom(b Board, active Color) *Game {
	if active != Black {
		active = White
	}
	return &Game{board: b, active: active}
}

// Board returns a copy of the current position.
func (g *Game) Board() Board { return g.board }

// Active returns the side to move.
func (g *Game) Active() Color { return g.active }

// State returns the current game state.
func (g *Game) State() State { return g.state }

// Plies returns the number of accepted moves.
func (g *Game) Plies() int { return g.plies }

// Captures returns the number of accepted moves that took a piece.
func (g *Game) Captures() int { return g.captures }

// LastCapture returns the capture made by the most recent accepted move, if any.
func (g *Game) LastCapture() *Capture { return g.last }

// Winner returns the side that delivered mate, or NoColor.
func (g *Game) Winner() Color {
	if g.state.Kind == Checkmate {
		return g.state.Color.Opponent()
	}
	return NoColor
}

// Screen runs the pre-move screening: both sides are tested for having no
// legal move, whichever side is to move, and the game ends in stalemate when
// the side to move has none. One departure from that rule: a side to move
// that has no legal move and is also in check is reported as Checkmate, not
// Stalemate. Play never leaves such a position behind, so only a board loaded
// with NewGameFrom or ParseFEN can reach it.
func (g *Game) Screen() State {
	if g.state.Terminal() {
		return g.state
	}
	out := map[Color]bool{
		White: IsOutOfMoves(&g.board, White),
		Black: IsOutOfMoves(&g.board, Black),
	}
	if out[g.active] {
		if IsInCheck(&g.board, g.active) {
			g.state = State{Kind: Checkmate, Color: g.active}
		} else {
			g.state = State{Kind: Stalemate}
		}
	}
	return g.state
}

// Play attempts m for the side to move.
//
// A rejected move leaves the board and the side to move untouched and sets the
// state to Error. An accepted move is applied, check and checkmate are
// evaluated for the side that did not move, the turn passes, and the next
// screening runs so a stalemate shows up in the returned state.
func (g *Game) Play(m Move) (Outcome, error) {
	if g.state.Terminal() {
		return Outcome{Move: m, Mover: g.active, State: g.state}, ErrGameOver
	}
	if !m.From.Valid() || !m.To.Valid() {
		return Outcome{Move: m, Mover: g.active, State: g.state}, ErrOffBoard
	}

	mover := g.active
	if r := Validate(&g.board, m, mover); r != Accepted {
		g.state = State{Kind: Error}
		return Outcome{Move: m, Mover: mover, Rejection: r, State: g.state}, nil
	}

	capture := g.apply(m)
	g.state = State{Kind: Normal}

	// both sides are probed; only the side that did not move can be in check
	// after a validated move
	whiteInCheck := IsInCheck(&g.board, White)
	blackInCheck := IsInCheck(&g.board, Black)
	opponent := mover.Opponent()
	if (opponent == White && whiteInCheck) || (opponent == Black && blackInCheck) {
		g.state = State{Kind: Check, Color: opponent}
		if IsOutOfMoves(&g.board, opponent) {
			g.state = State{Kind: Checkmate, Color: opponent}
		}
	}

	g.active = opponent
	if !g.state.Terminal() {
		g.Screen()
	}
	return Outcome{Move: m, Mover: mover, State: g.state, Capture: capture}, nil
}

// apply moves the origin tile onto the destination and clears the origin,
// recording a capture when the destination held an enemy piece.
func (g *Game) apply(m Move) *Capture {
	from, to := g.board.At(m.From), g.board.At(m.To)
	var capture *Capture
	if !to.Empty() {
		capture = &Capture{Attacker: from.Piece.Kind, Captured: to.Piece.Kind, By: from.Piece.Color}
		g.captures++
	}
	g.board.Set(m.To, from)
	g.board.Clear(m.From)
	g.plies++
	g.last = capture
	return capture
}
