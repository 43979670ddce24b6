// Package console is the text front end: main menu, board drawing and the
// prompt loop that turns typed squares into moves.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/chess-duel/internal/chess"
	"github.com/park285/chess-duel/internal/msgcat"
	"github.com/park285/chess-duel/internal/obslog"
	"github.com/park285/chess-duel/internal/results"
	"github.com/park285/chess-duel/internal/session"
	"github.com/park285/chess-duel/pkg/chessdto"
)

const appName = "chess-duel"

type Settings struct {
	White       string
	Black       string
	StartFEN    string
	SnapshotDir string
	Version     string
}

type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	cat      *msgcat.Catalog
	sessions *session.Manager
	settings Settings
}

func New(in io.Reader, out io.Writer, cat *msgcat.Catalog, sessions *session.Manager, settings Settings) *Console {
	if settings.Version == "" {
		settings.Version = "dev"
	}
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		cat:      cat,
		sessions: sessions,
		settings: settings,
	}
}

// Run shows the main menu until the player exits or input runs out.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.say("menu.banner", nil)
		c.say("menu.options", nil)
		choice, ok := c.ask(c.cat.Text("menu.prompt", nil))
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			c.say("menu.start", nil)
			if err := c.Play(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		case "2":
			c.say("menu.tutorial", nil)
			c.say("menu.back", nil)
		case "3":
			c.say("menu.info", map[string]string{"Name": appName, "Version": c.settings.Version})
			c.say("menu.back", nil)
		case "4":
			c.say("menu.exit", nil)
			return nil
		default:
			c.say("menu.invalid", nil)
		}
	}
}

// Play runs one game from the configured position until it ends. It returns
// io.EOF when input runs out mid-game.
func (c *Console) Play(ctx context.Context) error {
	snap, err := c.sessions.Create(ctx, c.settings.White, c.settings.Black, session.ColorWhite, c.settings.StartFEN)
	if err != nil {
		return err
	}
	defer func() { _ = c.sessions.End(snap.ID) }()

	c.say("game.started", nil)
	panel := Panel{Status: c.statusText(snap.State)}
	for !snap.State.Terminal() {
		panel.Turn = c.cat.Text("game.turn", map[string]string{"Color": colorWord(snap.Active)})
		if err := DrawBoard(c.out, &snap.Board, panel); err != nil {
			return err
		}

		from, err := c.readSquare("game.prompt_from")
		if err != nil {
			return err
		}
		to, err := c.readSquare("game.prompt_to")
		if err != nil {
			return err
		}

		out, err := c.sessions.Play(ctx, snap.ID, chess.Move{From: from, To: to})
		if err != nil {
			return err
		}
		if snap, err = c.sessions.Snapshot(snap.ID); err != nil {
			return err
		}
		if out.Rejection != chess.Accepted {
			reason := c.cat.Text("reject."+out.Rejection.String(), nil)
			panel.Error = c.cat.Text("game.input_error", map[string]string{"Reason": reason})
			continue
		}
		panel.Error = ""
		panel.LastAction = c.cat.Text("game.last_action", map[string]string{"Action": c.actionText(out)})
		panel.Status = c.statusText(out.State)
	}

	panel.Turn = ""
	if err := DrawBoard(c.out, &snap.Board, panel); err != nil {
		return err
	}
	c.println(c.statusText(snap.State))
	c.saveSnapshot(ctx, snap)
	c.reportResults(ctx, snap)
	c.say("game.over", nil)
	return nil
}

// readSquare prompts until a well-formed square is typed.
func (c *Console) readSquare(promptKey string) (chess.Coordinate, error) {
	prompt := c.cat.Text(promptKey, nil)
	for {
		line, ok := c.ask(prompt)
		if !ok {
			return chess.Coordinate{}, io.EOF
		}
		sq, err := ParseSquare(line)
		if err == nil {
			return sq, nil
		}
		prompt = c.cat.Text("game.bad_square", nil)
	}
}

func (c *Console) actionText(out chess.Outcome) string {
	if cp := out.Capture; cp != nil {
		return c.cat.Text("capture.narrative", map[string]string{
			"By":       colorWord(cp.By),
			"Attacker": strings.ToUpper(cp.Attacker.String()),
			"Victim":   colorWord(cp.By.Opponent()),
			"Captured": strings.ToUpper(cp.Captured.String()),
		})
	}
	return c.cat.Text("game.last_move", map[string]string{
		"From": strings.ToUpper(out.Move.From.String()),
		"To":   strings.ToUpper(out.Move.To.String()),
	})
}

func (c *Console) statusText(st chess.State) string {
	switch st.Kind {
	case chess.Check:
		return c.cat.Text("status.check", map[string]string{"Color": colorWord(st.Color)})
	case chess.Checkmate:
		return c.cat.Text("status.checkmate", map[string]string{
			"Loser":  colorWord(st.Color),
			"Winner": colorWord(st.Color.Opponent()),
		})
	case chess.Stalemate:
		return c.cat.Text("status.stalemate", nil)
	default:
		return ""
	}
}

func (c *Console) saveSnapshot(ctx context.Context, snap session.Snapshot) {
	dir := strings.TrimSpace(c.settings.SnapshotDir)
	if dir == "" {
		return
	}
	img, err := c.sessions.RenderSnapshot(ctx, snap)
	if err == nil {
		err = os.MkdirAll(dir, 0o755)
	}
	path := filepath.Join(dir, snap.ID+".png")
	if err == nil {
		err = os.WriteFile(path, img, 0o644)
	}
	if err != nil {
		obslog.L().Warn("duel_snapshot_error", zap.String("session_id", snap.ID), zap.Error(err))
		return
	}
	c.say("game.snapshot_saved", map[string]string{"Path": path})
}

// reportResults prints the ledger's view of the finished game when a ledger
// is configured.
func (c *Console) reportResults(ctx context.Context, snap session.Snapshot) {
	recent, err := c.sessions.Recent(ctx, chessdto.RecentRequest{Limit: 1})
	if errors.Is(err, results.ErrNotConfigured) {
		return
	}
	if err != nil {
		obslog.L().Warn("duel_results_query_error", zap.String("session_id", snap.ID), zap.Error(err))
		return
	}
	if len(recent) > 0 && recent[0].SessionID == snap.ID {
		c.say("results.recorded", map[string]any{
			"Result": recent[0].Result,
			"Method": recent[0].Method,
			"Plies":  recent[0].Plies,
		})
	}
	for _, player := range []string{snap.White, snap.Black} {
		st, err := c.sessions.Standings(ctx, chessdto.StandingsRequest{Player: player})
		if err != nil {
			obslog.L().Warn("duel_results_query_error", zap.String("player", player), zap.Error(err))
			continue
		}
		c.say("results.standings", map[string]any{
			"Player": player,
			"Wins":   st.Wins,
			"Losses": st.Losses,
			"Draws":  st.Draws,
		})
	}
}

func (c *Console) ask(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) say(key string, data any) {
	c.println(c.cat.Text(key, data))
}

func (c *Console) println(s string) {
	if s != "" {
		fmt.Fprintln(c.out, s)
	}
}

func colorWord(color chess.Color) string {
	return strings.ToUpper(color.String())
}
