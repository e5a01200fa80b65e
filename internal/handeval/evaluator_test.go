package handeval

import (
	"testing"

	"holdem-client/card"
)

func cards(t *testing.T, ss ...string) []card.Card {
	t.Helper()
	out := make([]card.Card, 0, len(ss))
	for _, s := range ss {
		c, err := card.Parse(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		out = append(out, c)
	}
	return out
}

func TestBestOf_Categories(t *testing.T) {
	tests := []struct {
		name      string
		hole      []string
		community []string
		want      Category
	}{
		{"royal flush", []string{"As", "Ks"}, []string{"Qs", "Js", "Ts", "2d", "3c"}, RoyalFlush},
		{"straight flush", []string{"9h", "8h"}, []string{"7h", "6h", "5h", "Ad", "Ac"}, StraightFlush},
		{"quads", []string{"7s", "7h"}, []string{"7c", "7d", "Ks", "2d", "3c"}, FourOfAKind},
		{"full house", []string{"Ts", "Th"}, []string{"Tc", "4d", "4s", "9h", "2c"}, FullHouse},
		{"flush", []string{"Ad", "8d"}, []string{"5d", "3d", "2d", "Ks", "Kh"}, Flush},
		{"straight", []string{"9s", "8h"}, []string{"7c", "6d", "5s", "Kh", "Kd"}, Straight},
		{"wheel", []string{"As", "2h"}, []string{"3c", "4d", "5s", "Kh", "Qd"}, Straight},
		{"trips", []string{"Js", "Jh"}, []string{"Jc", "9d", "5s", "3h", "2d"}, ThreeOfAKind},
		{"two pair", []string{"Qs", "Qh"}, []string{"9c", "9d", "5s", "3h", "2d"}, TwoPair},
		{"one pair", []string{"As", "Ah"}, []string{"9c", "7d", "5s", "3h", "2d"}, OnePair},
		{"high card", []string{"As", "Jh"}, []string{"9c", "7d", "5s", "3h", "2d"}, HighCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := BestOf(cards(t, tt.hole...), cards(t, tt.community...))
			if !ok {
				t.Fatal("expected a result")
			}
			if res.Category != tt.want {
				t.Fatalf("category = %v, want %v", res.Category, tt.want)
			}
		})
	}
}

func TestBestOf_Ordering(t *testing.T) {
	// The score must order hands totally within and across categories.
	pairs := []struct {
		name                   string
		strongHole, strongComm []string
		weakHole, weakComm     []string
	}{
		{
			"straight beats trips",
			[]string{"9s", "8h"}, []string{"7c", "6d", "5s", "Kh", "Kd"},
			[]string{"Js", "Jh"}, []string{"Jc", "9d", "5s", "3h", "2d"},
		},
		{
			"higher pair wins",
			[]string{"As", "Ah"}, []string{"9c", "7d", "5s", "3h", "2d"},
			[]string{"Ks", "Kh"}, []string{"9c", "7d", "5s", "3h", "2d"},
		},
		{
			"kicker decides equal pairs",
			[]string{"As", "Ah"}, []string{"Kc", "7d", "5s", "3h", "2d"},
			[]string{"Ac", "Ad"}, []string{"Qc", "7d", "5s", "3h", "2d"},
		},
		{
			"six-high straight beats the wheel",
			[]string{"6s", "5h"}, []string{"4c", "3d", "2s", "Kh", "Qd"},
			[]string{"As", "2h"}, []string{"3c", "4d", "5s", "Kh", "Qd"},
		},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			strong, ok := BestOf(cards(t, tt.strongHole...), cards(t, tt.strongComm...))
			if !ok {
				t.Fatal("no strong result")
			}
			weak, ok := BestOf(cards(t, tt.weakHole...), cards(t, tt.weakComm...))
			if !ok {
				t.Fatal("no weak result")
			}
			if strong.Score <= weak.Score {
				t.Fatalf("%s: strong score %d <= weak score %d", tt.name, strong.Score, weak.Score)
			}
		})
	}
}

func TestBestOf_PicksBestFiveOfSeven(t *testing.T) {
	// Trips on the board plus a pocket pair: the full house must win out
	// over the plain trips combination.
	res, ok := BestOf(cards(t, "4s", "4h"), cards(t, "Tc", "Td", "Ts", "9h", "2c"))
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Category != FullHouse {
		t.Fatalf("category = %v, want full house", res.Category)
	}
}

func TestBestOf_IgnoresHiddenCards(t *testing.T) {
	hole := []card.Card{card.Hidden, card.Hidden}
	community := cards(t, "Tc", "Td", "Ts", "9h", "2c")
	res, ok := BestOf(hole, community)
	if !ok {
		t.Fatal("five known community cards are enough")
	}
	if res.Category != ThreeOfAKind {
		t.Fatalf("category = %v, want trips", res.Category)
	}

	if _, ok := BestOf(hole, cards(t, "Tc", "Td", "Ts", "9h")); ok {
		t.Fatal("four known cards must not produce a result")
	}
}
