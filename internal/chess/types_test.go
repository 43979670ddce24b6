package chess

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   string
		want Coordinate
		ok   bool
	}{
		{"a8", Coordinate{Rank: 0, File: 0}, true},
		{"H1", Coordinate{Rank: 7, File: 7}, true},
		{" e2 ", Coordinate{Rank: 6, File: 4}, true},
		{"e2e4", Coordinate{}, false},
		{"e", Coordinate{}, false},
		{"j2", Coordinate{}, false},
		{"e9", Coordinate{}, false},
	}
	for _, tt := range tests {
		got, err := ParseCoordinate(tt.in)
		if tt.ok != (err == nil) {
			t.Fatalf("ParseCoordinate(%q) err = %v", tt.in, err)
		}
		if err != nil && !errors.Is(err, ErrBadCoordinate) {
			t.Fatalf("ParseCoordinate(%q) err = %v, want ErrBadCoordinate", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCoordinate(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if tt.ok && got.String() != strings.ToLower(strings.TrimSpace(tt.in)) {
			t.Fatalf("round trip %q -> %s", tt.in, got)
		}
	}
}

func TestStateAndColorStrings(t *testing.T) {
	if got := (State{Kind: Checkmate, Color: White}).String(); got != "checkmate:white" {
		t.Fatalf("got %q", got)
	}
	if got := (State{Kind: Stalemate}).String(); got != "stalemate" {
		t.Fatalf("got %q", got)
	}
	if White.Opponent() != Black || Black.Opponent() != White || NoColor.Opponent() != NoColor {
		t.Fatalf("Opponent mapping broken")
	}
	if (Coordinate{Rank: 8, File: 0}).String() != "??" {
		t.Fatalf("off-board coordinate should render as ??")
	}
	if (Piece{Kind: Knight, Color: Black}).Letter() != 'n' || NoPiece.Letter() != ' ' {
		t.Fatalf("Letter mapping broken")
	}
}
