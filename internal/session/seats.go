package session

import (
	"crypto/rand"
	"math/big"
	"strings"
)

type ColorChoice string

const (
	ColorWhite  ColorChoice = "white"
	ColorBlack  ColorChoice = "black"
	ColorRandom ColorChoice = "random"
)

func ParseColorChoice(s string) ColorChoice {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "white", "w":
		return ColorWhite
	case "black", "b":
		return ColorBlack
	default:
		return ColorRandom
	}
}

// assignSeats returns the white and black player for a pairing where first
// asked for choice.
func assignSeats(first, second string, choice ColorChoice) (white, black string) {
	switch choice {
	case ColorWhite:
		return first, second
	case ColorBlack:
		return second, first
	}
	if n, _ := rand.Int(rand.Reader, big.NewInt(2)); n != nil && n.Int64() == 0 {
		return second, first
	}
	return first, second
}
