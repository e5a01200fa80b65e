package card

import "testing"

func TestParse_Ranks(t *testing.T) {
	cases := []struct {
		in   string
		rank byte
		suit Suit
	}{
		{"As", 1, Spade},
		{"2h", 2, Heart},
		{"9c", 9, Club},
		{"Td", 10, Diamond},
		{"10d", 10, Diamond},
		{"Jh", 11, Heart},
		{"Qs", 12, Spade},
		{"Kc", 13, Club},
		{"kC", 13, Club},
	}
	for _, tc := range cases {
		c, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", tc.in, err)
		}
		if c.Rank() != tc.rank {
			t.Fatalf("Parse(%q) rank = %d, want %d", tc.in, c.Rank(), tc.rank)
		}
		if c.Suit() != tc.suit {
			t.Fatalf("Parse(%q) suit = %v, want %v", tc.in, c.Suit(), tc.suit)
		}
	}
}

func TestParse_Hidden(t *testing.T) {
	for _, in := range []string{"??", "XX", "xx"} {
		c, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", in, err)
		}
		if c != Hidden {
			t.Fatalf("Parse(%q) = %v, want Hidden", in, c)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "A", "1s", "Ax", "Zd"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
	}
}

func TestWire_RoundTrip(t *testing.T) {
	for _, in := range []string{"As", "Td", "7h", "Kd", "2c"} {
		c, err := Parse(in)
		if err != nil {
			t.Fatal(err)
		}
		if got := c.Wire(); got != in {
			t.Fatalf("Wire() = %q, want %q", got, in)
		}
	}
}

func TestParseList_DegradesToHidden(t *testing.T) {
	cards := ParseList([]string{"As", "bogus", "Kd"})
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[1] != Hidden {
		t.Fatalf("expected unparseable entry to become Hidden, got %v", cards[1])
	}
	if cards[0].Wire() != "As" || cards[2].Wire() != "Kd" {
		t.Fatalf("unexpected cards: %v", cards)
	}
}
