package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_EmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	keys := []string{
		"menu.banner", "menu.options", "menu.prompt", "menu.tutorial", "menu.info",
		"game.turn", "game.prompt_from", "game.prompt_to", "game.bad_square",
		"capture.narrative", "status.check", "status.checkmate", "status.stalemate",
		"reject.empty_origin", "reject.foreign_piece", "reject.friendly_occupied_destination",
		"reject.illegal_piece_move", "reject.self_check",
	}
	for _, k := range keys {
		if !c.Has(k) {
			t.Fatalf("embedded catalog missing %q", k)
		}
	}
}

func TestRender_CaptureNarrative(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("capture.narrative", map[string]string{
		"By": "WHITE", "Attacker": "PAWN", "Victim": "BLACK", "Captured": "PAWN",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "WHITE PAWN CAPTURES BLACK PAWN." {
		t.Fatalf("Render = %q", got)
	}
}

func TestRender_MissingDataIsAnError(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("status.check", map[string]string{}); err == nil {
		t.Fatalf("expected missingkey error")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected template not found")
	}
	if got := c.Text("no.such.key", nil); got != "no.such.key" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestNew_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "status:\n  stalemate: \"Pat. Nobody wins.\"\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("status.stalemate", nil); got != "Pat. Nobody wins." {
		t.Fatalf("override not applied: %q", got)
	}
	if got := c.Text("status.check", map[string]string{"Color": "BLACK"}); !strings.Contains(got, "BLACK") {
		t.Fatalf("defaults lost after override: %q", got)
	}
}

func TestNew_DuplicateOverrideKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "menu:\n  prompt: one\n")
	writeFile(t, filepath.Join(dir, "b.yml"), "menu:\n  prompt: two\n")
	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestNew_RejectsNonStringLeaves(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "menu:\n  prompt: 3\n")
	if _, err := New(dir); err == nil {
		t.Fatalf("expected an error for a numeric leaf")
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
