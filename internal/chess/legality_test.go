package chess

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate_StartPosition(t *testing.T) {
	b := StandardBoard()
	tests := []struct {
		name   string
		from   string
		to     string
		active Color
		want   Rejection
	}{
		{"pawn double step", "e2", "e4", White, Accepted},
		{"knight jump", "g1", "f3", White, Accepted},
		{"empty origin", "e4", "e5", White, EmptyOrigin},
		{"empty origin beats friendly destination", "e3", "e2", White, EmptyOrigin},
		{"opponent piece", "e7", "e5", White, ForeignPiece},
		{"own piece out of turn", "e2", "e4", Black, ForeignPiece},
		{"friendly destination", "a1", "a2", White, FriendlyOccupiedDestination},
		{"friendly destination on self", "d1", "d1", White, FriendlyOccupiedDestination},
		{"pawn triple step", "e2", "e5", White, IllegalPieceMove},
		{"knight off pattern", "g1", "g3", White, IllegalPieceMove},
		{"blocked bishop", "c1", "e3", White, IllegalPieceMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := b
			got := Validate(&b, mv(t, tt.from, tt.to), tt.active)
			if got != tt.want {
				t.Fatalf("Validate(%s%s, %s) = %s, want %s", tt.from, tt.to, tt.active, got, tt.want)
			}
			if diff := cmp.Diff(before, b); diff != "" {
				t.Fatalf("validation mutated the board (-before +after):\n%s", diff)
			}
		})
	}
}

func TestValidate_SelfCheck(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		m    [2]string
	}{
		{
			name: "pinned rook leaves the file",
			rows: []string{"k...r...", "........", "........", "........", "........", "........", "....R...", "....K..."},
			m:    [2]string{"e2", "d2"},
		},
		{
			name: "king steps into a rook file",
			rows: []string{"k..r....", "........", "........", "........", "........", "........", "........", "....K..."},
			m:    [2]string{"e1", "d1"},
		},
		{
			name: "king steps next to the enemy king",
			rows: []string{"........", "........", "........", "...k....", "........", "....K...", "........", "........"},
			m:    [2]string{"e3", "e4"},
		},
		{
			name: "ignoring an existing check",
			rows: []string{"k...r...", "........", "........", "........", "........", "........", "P.......", "....K..."},
			m:    [2]string{"a2", "a3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := diagram(t, tt.rows...)
			before := b
			if got := Validate(&b, mv(t, tt.m[0], tt.m[1]), White); got != SelfCheck {
				t.Fatalf("Validate = %s, want %s", got, SelfCheck)
			}
			if diff := cmp.Diff(before, b); diff != "" {
				t.Fatalf("validation mutated the board (-before +after):\n%s", diff)
			}
		})
	}
}

func TestValidate_RoundTripsEveryPseudoMove(t *testing.T) {
	b := diagram(t,
		"r..qk..r",
		"ppp..ppp",
		"..n..n..",
		"...pp...",
		".b..P...",
		"..NP.N..",
		"PPP..PPP",
		"R.BQKB.R",
	)
	before := b
	for _, color := range []Color{White, Black} {
		for _, from := range b.Pieces(color) {
			for _, to := range Destinations(&b, from, color) {
				Validate(&b, Move{From: from, To: to}, color)
			}
		}
	}
	if diff := cmp.Diff(before, b); diff != "" {
		t.Fatalf("board changed after validating every pseudo-move (-before +after):\n%s", diff)
	}
}

func TestRejection_AsError(t *testing.T) {
	var err error = SelfCheck
	if !errors.Is(err, SelfCheck) {
		t.Fatalf("errors.Is should match the same rejection")
	}
	if errors.Is(err, EmptyOrigin) {
		t.Fatalf("errors.Is should not match a different rejection")
	}
	if got := err.Error(); got != "move rejected: self_check" {
		t.Fatalf("Error() = %q", got)
	}
}
