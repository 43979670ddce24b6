package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/chess-duel/internal/chess"
	"github.com/park285/chess-duel/internal/msgcat"
	"github.com/park285/chess-duel/internal/render"
	"github.com/park285/chess-duel/internal/results"
	"github.com/park285/chess-duel/internal/session"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    chess.Coordinate
		wantErr bool
	}{
		{in: "e2", want: chess.Coordinate{Rank: 6, File: 4}},
		{in: "A1", want: chess.Coordinate{Rank: 7, File: 0}},
		{in: " h8 ", want: chess.Coordinate{Rank: 0, File: 7}},
		{in: "e2e4", want: chess.Coordinate{Rank: 6, File: 4}},
		{in: "b7 please", want: chess.Coordinate{Rank: 1, File: 1}},
		{in: "", wantErr: true},
		{in: "e", wantErr: true},
		{in: "i1", wantErr: true},
		{in: "a9", wantErr: true},
		{in: "a0", wantErr: true},
		{in: "11", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSquare(tt.in)
		if tt.wantErr {
			if err != ErrBadSquare {
				t.Fatalf("ParseSquare(%q) err = %v, want ErrBadSquare", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSquare(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDrawBoard_StartPosition(t *testing.T) {
	b := chess.StandardBoard()
	var out bytes.Buffer
	if err := DrawBoard(&out, &b, Panel{Turn: "WHITE'S TURN", Error: "oops"}); err != nil {
		t.Fatalf("DrawBoard: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	want := []string{
		"8 | r /n/ b /q/ k /b/ n /r/| 8",
		"7 |/p/ p /p/ p /p/ p /p/ p | 7",
		"6 |   ///   ///   ///   ///| 6",
	}
	if diff := cmp.Diff(want, lines[2:5]); diff != "" {
		t.Fatalf("top ranks (-want +got):\n%s", diff)
	}
	if !strings.HasSuffix(lines[6], "||| WHITE'S TURN") {
		t.Fatalf("turn line = %q", lines[6])
	}
	if lines[9] != "1 |/R/ N /B/ Q /K/ B /N/ R | 1    |||" {
		t.Fatalf("rank 1 = %q", lines[9])
	}
	if !strings.HasSuffix(lines[10], "||| oops") {
		t.Fatalf("error line = %q", lines[10])
	}
}

func newTestConsole(t *testing.T, input string, opts session.Options, settings Settings) (*Console, *bytes.Buffer) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	if settings.White == "" {
		settings.White, settings.Black = "alice", "bob"
	}
	var out bytes.Buffer
	return New(strings.NewReader(input), &out, cat, session.NewManager(opts), settings), &out
}

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestRun_MenuNavigation(t *testing.T) {
	c, out := newTestConsole(t, script("9", "2", "3", "4"), session.Options{}, Settings{Version: "1.2.3"})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Please enter a number between 1 and 4.",
		"||| Program Tutorial |||",
		"chess-duel 1.2.3: a two player console chess game.",
		"|||   Exit Program   |||",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if n := strings.Count(text, "MAIN MENU"); n != 4 {
		t.Fatalf("menu shown %d times, want 4", n)
	}
}

func TestRun_EndOfInputLeavesQuietly(t *testing.T) {
	c, _ := newTestConsole(t, "", session.Options{}, Settings{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	c, _ = newTestConsole(t, script("1", "e2"), session.Options{}, Settings{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run with input ending mid-game: %v", err)
	}
}

func TestRun_FoolsMate(t *testing.T) {
	ledger, err := results.OpenBadgerInMemory(5)
	if err != nil {
		t.Fatalf("OpenBadgerInMemory: %v", err)
	}
	t.Cleanup(func() { _ = ledger.Close() })
	dir := t.TempDir()

	input := script(
		"1",
		"zz",       // malformed start square is asked again
		"e7", "e5", // black piece on white's turn
		"f2", "f3",
		"e7", "e5",
		"G2", "g4",
		"d8", "h4",
		"4",
	)
	c, out := newTestConsole(t, input, session.Options{
		Recorder:   ledger,
		Ledger:     ledger,
		Renderer:   render.NewSVGBoardRenderer(),
		SnapshotPx: 128,
	}, Settings{SnapshotDir: dir})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Please enter a square as a file A-H followed by a rank 1-8: ",
		"INPUT ERROR: Invalid starting square. That piece belongs to your opponent.",
		"LAST MOVE: F2 to F3.",
		"BLACK'S TURN",
		"CHECKMATE: WHITE IS IN CHECKMATE. BLACK WINS THE GAME!!!",
		"Result 0-1 recorded (checkmate after 4 moves).",
		"bob: 1 won, 0 lost, 0 drawn",
		"alice: 0 won, 1 lost, 0 drawn",
		"Game is over. Returning to main menu...",
		"|||   Exit Program   |||",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil || len(files) != 1 {
		t.Fatalf("snapshots = %v (err %v)", files, err)
	}
	if info, err := os.Stat(files[0]); err != nil || info.Size() == 0 {
		t.Fatalf("snapshot file: %v", err)
	}
}

func TestPlay_CaptureNarrative(t *testing.T) {
	input := script("e2", "e4", "d7", "d5", "e4", "d5")
	c, out := newTestConsole(t, input, session.Options{}, Settings{})
	if err := c.Play(context.Background()); err == nil {
		t.Fatalf("expected io.EOF when input runs out mid-game")
	}
	if !strings.Contains(out.String(), "LAST MOVE: WHITE PAWN CAPTURES BLACK PAWN.") {
		t.Fatalf("capture narrative missing:\n%s", out.String())
	}
}

func TestPlay_LoadedStalemate(t *testing.T) {
	c, out := newTestConsole(t, "", session.Options{}, Settings{StartFEN: "7K/5k1P/8/8/8/8/8/8 w - - 0 1"})
	if err := c.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !strings.Contains(out.String(), "STALEMATE. GAME ENDS IN A DRAW") {
		t.Fatalf("stalemate text missing:\n%s", out.String())
	}
}
