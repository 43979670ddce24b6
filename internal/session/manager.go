// Package session hosts live games. Each session owns one chess.Game and
// serializes every read and write of its board behind a per-session lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/chess-duel/internal/chess"
	"github.com/park285/chess-duel/internal/domain"
	"github.com/park285/chess-duel/internal/obslog"
	"github.com/park285/chess-duel/internal/render"
	"github.com/park285/chess-duel/internal/results"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPlayers  = errors.New("two distinct player names are required")
	ErrGameOver        = chess.ErrGameOver
)

type Options struct {
	// Recorder receives one record per finished game. Defaults to results.Nop.
	Recorder results.Recorder
	// Ledger answers standings and recent-game queries; optional.
	Ledger       results.Ledger
	Renderer     render.BoardRenderer
	SnapshotPx   int
	StoreTimeout time.Duration
	Now          func() time.Time
}

// Snapshot is a consistent copy of a session taken under its lock.
type Snapshot struct {
	ID          string
	White       string
	Black       string
	Board       chess.Board
	Active      chess.Color
	State       chess.State
	Plies       int
	Captures    int
	LastMove    *chess.Move
	LastCapture *chess.Capture
	StartedAt   time.Time
}

// Player returns the name seated on color.
func (s Snapshot) Player(color chess.Color) string {
	switch color {
	case chess.White:
		return s.White
	case chess.Black:
		return s.Black
	default:
		return ""
	}
}

type session struct {
	mu        sync.Mutex
	id        string
	white     string
	black     string
	startedAt time.Time
	game      *chess.Game
	lastMove  *chess.Move
	recorded  bool
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		White:       s.white,
		Black:       s.black,
		Board:       s.game.Board(),
		Active:      s.game.Active(),
		State:       s.game.State(),
		Plies:       s.game.Plies(),
		Captures:    s.game.Captures(),
		LastCapture: s.game.LastCapture(),
		StartedAt:   s.startedAt,
	}
	if s.lastMove != nil {
		mv := *s.lastMove
		snap.LastMove = &mv
	}
	return snap
}

func (s *session) player(color chess.Color) string {
	if color == chess.Black {
		return s.black
	}
	return s.white
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	opts     Options
}

func NewManager(opts Options) *Manager {
	if opts.Recorder == nil {
		opts.Recorder = results.Nop{}
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 3 * time.Second
	}
	if opts.SnapshotPx <= 0 {
		opts.SnapshotPx = 480
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{sessions: make(map[string]*session), opts: opts}
}

// Create seats two players and screens the opening position. A loaded
// position that is already over ends the session on the spot.
func (m *Manager) Create(ctx context.Context, first, second string, choice ColorChoice, fen string) (Snapshot, error) {
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if first == "" || second == "" || strings.EqualFold(first, second) {
		return Snapshot{}, ErrInvalidPlayers
	}

	board, active := chess.StandardBoard(), chess.White
	if strings.TrimSpace(fen) != "" {
		var err error
		board, active, err = chess.ParseFEN(fen)
		if err != nil {
			return Snapshot{}, fmt.Errorf("create session: %w", err)
		}
	}

	white, black := assignSeats(first, second, choice)
	s := &session{
		id:        uuid.NewString(),
		white:     white,
		black:     black,
		startedAt: m.opts.Now(),
		game:      chess.NewGameFrom(board, active),
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.game.Screen()
	obslog.L().Info("duel_session_create",
		zap.String("session_id", s.id),
		zap.String("white", s.white),
		zap.String("black", s.black),
		zap.String("active", s.game.Active().String()),
		zap.String("state", state.String()),
		zap.Bool("custom_position", strings.TrimSpace(fen) != ""),
	)
	if state.Terminal() {
		m.finish(ctx, s)
	}
	return s.snapshot(), nil
}

// Snapshot returns the current view of a session.
func (m *Manager) Snapshot(id string) (Snapshot, error) {
	s, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// Play submits mv for the side to move. Rejections come back in the outcome
// with a nil error; errors are reserved for unknown sessions, finished games
// and off-board coordinates.
func (m *Manager) Play(ctx context.Context, id string, mv chess.Move) (chess.Outcome, error) {
	s, err := m.get(id)
	if err != nil {
		return chess.Outcome{Move: mv}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.play(ctx, s, mv)
}

func (m *Manager) play(ctx context.Context, s *session, mv chess.Move) (chess.Outcome, error) {
	out, err := s.game.Play(mv)
	if err != nil {
		return out, err
	}
	if out.Rejection != chess.Accepted {
		obslog.L().Info("duel_move_rejected",
			zap.String("session_id", s.id),
			zap.String("mover", out.Mover.String()),
			zap.String("move", mv.String()),
			zap.String("reason", out.Rejection.String()),
		)
		return out, nil
	}

	s.lastMove = &mv
	fields := []zap.Field{
		zap.String("session_id", s.id),
		zap.String("mover", out.Mover.String()),
		zap.String("move", mv.String()),
		zap.Int("plies", s.game.Plies()),
		zap.String("state", out.State.String()),
	}
	if out.Capture != nil {
		fields = append(fields,
			zap.String("attacker", out.Capture.Attacker.String()),
			zap.String("captured", out.Capture.Captured.String()),
		)
	}
	obslog.L().Info("duel_move", fields...)

	if out.State.Kind == chess.Check {
		obslog.L().Info("duel_check",
			zap.String("session_id", s.id),
			zap.String("color", out.State.Color.String()),
		)
	}
	if out.State.Terminal() {
		m.finish(ctx, s)
	}
	return out, nil
}

// finish hands the result to the recorder once. Callers hold s.mu.
func (m *Manager) finish(ctx context.Context, s *session) {
	if s.recorded {
		return
	}
	s.recorded = true
	rec := s.record(m.opts.Now())
	obslog.L().Info("duel_game_over",
		zap.String("session_id", s.id),
		zap.String("result", string(rec.Result)),
		zap.String("method", string(rec.Method)),
		zap.Int("plies", rec.Plies),
		zap.Duration("duration", rec.Duration),
	)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.StoreTimeout)
	defer cancel()
	if err := m.opts.Recorder.Record(ctx, rec); err != nil {
		obslog.L().Warn("duel_result_persist_error",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return
	}
	obslog.L().Info("duel_result_persist", zap.String("session_id", s.id))
}

func (s *session) record(end time.Time) *domain.GameRecord {
	state := s.game.State()
	board := s.game.Board()
	rec := &domain.GameRecord{
		SessionID: s.id,
		White:     s.white,
		Black:     s.black,
		Result:    domain.ResultDraw,
		Method:    domain.MethodStalemate,
		Plies:     s.game.Plies(),
		Captures:  s.game.Captures(),
		FinalFEN:  board.FEN(s.game.Active()),
		StartedAt: s.startedAt,
		EndedAt:   end,
		Duration:  end.Sub(s.startedAt),
	}
	if state.Kind == chess.Checkmate {
		rec.Method = domain.MethodCheckmate
		rec.Result = domain.ResultWhiteWins
		if state.Color == chess.White {
			rec.Result = domain.ResultBlackWins
		}
	}
	return rec
}

// End drops a session from the registry.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) get(id string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// RenderSnapshot draws snap as a PNG, highlighting the last move and a
// checked king.
func (m *Manager) RenderSnapshot(ctx context.Context, snap Snapshot) ([]byte, error) {
	if m.opts.Renderer == nil {
		return nil, errors.New("no board renderer configured")
	}
	opts := render.RenderOptions{
		HUDHeader:  fmt.Sprintf("%s vs %s", snap.White, snap.Black),
		HUDTurn:    hudTurn(snap),
		SquareSize: m.opts.SnapshotPx / chess.Size,
	}
	if snap.LastMove != nil {
		opts.Highlight = &render.MoveHighlight{From: snap.LastMove.From, To: snap.LastMove.To}
	}
	if k := snap.State.Kind; k == chess.Check || k == chess.Checkmate {
		if c, ok := snap.Board.King(snap.State.Color); ok {
			opts.Check = &c
		}
	}
	return m.opts.Renderer.RenderPNG(ctx, &snap.Board, opts)
}

func hudTurn(snap Snapshot) string {
	switch snap.State.Kind {
	case chess.Checkmate:
		return "Checkmate - " + snap.Player(snap.State.Color.Opponent()) + " wins"
	case chess.Stalemate:
		return "Stalemate"
	}
	return fmt.Sprintf("%s (%s) to move", snap.Player(snap.Active), snap.Active)
}
