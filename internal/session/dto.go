package session

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/chess-duel/internal/chess"
	"github.com/park285/chess-duel/internal/domain"
	"github.com/park285/chess-duel/internal/obslog"
	"github.com/park285/chess-duel/internal/results"
	"github.com/park285/chess-duel/pkg/chessdto"
)

// CreateSession is Create for callers speaking chessdto.
func (m *Manager) CreateSession(ctx context.Context, req chessdto.CreateSessionRequest) (*chessdto.SessionState, error) {
	snap, err := m.Create(ctx, req.First, req.Second, ParseColorChoice(req.FirstColor), req.FEN)
	if err != nil {
		return nil, err
	}
	return stateDTO(snap), nil
}

// PlayNotation parses two square names and plays them. Malformed squares,
// rejected moves and finished games are reported in the TurnReport; a
// missing session comes back as a session_not_found DomainError.
func (m *Manager) PlayNotation(ctx context.Context, req chessdto.PlayRequest) (*chessdto.TurnReport, error) {
	rep := &chessdto.TurnReport{
		SessionID: req.SessionID,
		Move:      strings.ToLower(strings.TrimSpace(req.From) + strings.TrimSpace(req.To)),
	}
	s, err := m.get(req.SessionID)
	if err != nil {
		return nil, domainError(err)
	}

	from, ferr := chess.ParseCoordinate(req.From)
	to, terr := chess.ParseCoordinate(req.To)
	if bad := errors.Join(ferr, terr); bad != nil {
		rep.Error = &chessdto.DomainError{Code: chessdto.CodeBadSquare, Message: bad.Error(), Retryable: true}
		return rep, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := m.play(ctx, s, chess.Move{From: from, To: to})
	rep.Mover = s.player(out.Mover)
	rep.Status = s.game.State().Kind.String()
	rep.Finished = s.game.State().Terminal()
	if w := s.game.Winner(); w != chess.NoColor {
		rep.Winner = s.player(w)
	}
	if err != nil {
		if errors.Is(err, chess.ErrGameOver) {
			rep.Error = &chessdto.DomainError{Code: chessdto.CodeGameOver, Message: err.Error()}
			return rep, nil
		}
		return nil, err
	}

	rep.Error = rejectionError(out.Rejection)
	rep.Accepted = rep.Error == nil
	if k := out.State.Kind; k == chess.Check || k == chess.Checkmate {
		rep.InCheck = s.player(out.State.Color)
	}
	if c := out.Capture; c != nil {
		rep.Capture = &chessdto.CaptureInfo{
			By:       s.player(c.By),
			Attacker: c.Attacker.String(),
			Captured: c.Captured.String(),
		}
	}
	return rep, nil
}

// State returns the exported view of a session, with a PNG of the board when
// withImage is set and a renderer is configured.
func (m *Manager) State(ctx context.Context, id string, withImage bool) (*chessdto.SessionState, error) {
	snap, err := m.Snapshot(id)
	if err != nil {
		return nil, domainError(err)
	}
	st := stateDTO(snap)
	if withImage && m.opts.Renderer != nil {
		img, rerr := m.RenderSnapshot(ctx, snap)
		if rerr != nil {
			obslog.L().Warn("duel_render_error", zap.String("session_id", id), zap.Error(rerr))
		} else {
			st.BoardImage = img
		}
	}
	return st, nil
}

func (m *Manager) Standings(ctx context.Context, req chessdto.StandingsRequest) (*chessdto.PlayerStanding, error) {
	if m.opts.Ledger == nil {
		return nil, results.ErrNotConfigured
	}
	st, err := m.opts.Ledger.Standings(ctx, strings.TrimSpace(req.Player))
	if err != nil {
		return nil, domainError(err)
	}
	return standingDTO(st), nil
}

func (m *Manager) Recent(ctx context.Context, req chessdto.RecentRequest) ([]chessdto.GameSummary, error) {
	if m.opts.Ledger == nil {
		return nil, results.ErrNotConfigured
	}
	recs, err := m.opts.Ledger.Recent(ctx, req.Limit)
	if err != nil {
		return nil, domainError(err)
	}
	out := make([]chessdto.GameSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, summaryDTO(r))
	}
	return out, nil
}

// rejectionError maps a refused move onto a DomainError. Every rejection is
// retryable: the same side simply proposes another move. Accepted yields nil.
func rejectionError(r chess.Rejection) *chessdto.DomainError {
	var code string
	switch r {
	case chess.Accepted:
		return nil
	case chess.EmptyOrigin:
		code = chessdto.CodeEmptyOrigin
	case chess.ForeignPiece:
		code = chessdto.CodeForeignPiece
	case chess.FriendlyOccupiedDestination:
		code = chessdto.CodeFriendlyOccupied
	case chess.IllegalPieceMove:
		code = chessdto.CodeIllegalPieceMove
	case chess.SelfCheck:
		code = chessdto.CodeSelfCheck
	default:
		code = r.String()
	}
	return &chessdto.DomainError{Code: code, Message: r.Error(), Retryable: true}
}

// domainError wraps a manager or ledger failure for chessdto callers.
// The original error stays reachable through errors.Is.
func domainError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return &chessdto.DomainError{Code: chessdto.CodeSessionNotFound, Message: err.Error(), Cause: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &chessdto.DomainError{Code: chessdto.CodeStoreUnavailable, Message: err.Error(), Retryable: true, Cause: err}
	}
}

func stateDTO(snap Snapshot) *chessdto.SessionState {
	st := &chessdto.SessionState{
		SessionID: snap.ID,
		White:     snap.White,
		Black:     snap.Black,
		FEN:       snap.Board.FEN(snap.Active),
		Active:    snap.Active.String(),
		Status:    snap.State.Kind.String(),
		MoveCount: snap.Plies,
		Captures:  snap.Captures,
		Finished:  snap.State.Terminal(),
	}
	if snap.State.Kind == chess.Checkmate {
		st.Winner = snap.Player(snap.State.Color.Opponent())
	}
	return st
}

func standingDTO(s *domain.PlayerStanding) *chessdto.PlayerStanding {
	if s == nil {
		return nil
	}
	return &chessdto.PlayerStanding{
		Player:      s.Player,
		GamesPlayed: s.GamesPlayed,
		Wins:        s.Wins,
		Losses:      s.Losses,
		Draws:       s.Draws,
		LastResult:  string(s.LastResult),
		UpdatedAt:   s.UpdatedAt,
	}
}

func summaryDTO(r *domain.GameRecord) chessdto.GameSummary {
	return chessdto.GameSummary{
		SessionID: r.SessionID,
		White:     r.White,
		Black:     r.Black,
		Result:    string(r.Result),
		Method:    string(r.Method),
		Plies:     r.Plies,
		Captures:  r.Captures,
		FinalFEN:  r.FinalFEN,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
	}
}
