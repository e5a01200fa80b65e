package card

import (
	"fmt"
	"strings"
)

// Card is a single playing card.
//
// Encoding:
// - high 4 bits: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - low 4 bits: rank (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
type Card byte

const (
	Invalid Card = 0
	Hidden  Card = 0xFF // face-down card, rank unknown to this client
)

type Suit byte

const (
	Spade Suit = iota
	Heart
	Club
	Diamond
)

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠"
	case Heart:
		return "♥"
	case Club:
		return "♣"
	case Diamond:
		return "♦"
	}
	return "?"
}

func (s Suit) Letter() byte {
	switch s {
	case Spade:
		return 's'
	case Heart:
		return 'h'
	case Club:
		return 'c'
	case Diamond:
		return 'd'
	}
	return '?'
}

// Rank returns 1-13 (A=1, K=13), or 0 for Invalid/Hidden.
func (c Card) Rank() byte {
	if c == Invalid || c == Hidden {
		return 0
	}
	return byte(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func rankString(r byte) string {
	switch r {
	case 1:
		return "A"
	case 10:
		return "T"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return fmt.Sprintf("%d", r)
	}
}

func (c Card) String() string {
	switch c {
	case Invalid:
		return "??"
	case Hidden:
		return "[]"
	}
	return rankString(c.Rank()) + c.Suit().String()
}

// Wire returns the two-character server representation, e.g. "As", "Td".
func (c Card) Wire() string {
	if c == Invalid || c == Hidden {
		return "??"
	}
	return rankString(c.Rank()) + string(c.Suit().Letter())
}

// Parse converts a server card string such as "As", "Td" or "10h" into a Card.
// "??" and "XX" denote a face-down card.
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "??" || s == "XX" || s == "xx" {
		return Hidden, nil
	}
	if len(s) < 2 {
		return Invalid, fmt.Errorf("invalid card string %q", s)
	}

	rankPart := s[:len(s)-1]
	suitPart := s[len(s)-1]

	var rank byte
	switch strings.ToUpper(rankPart) {
	case "A":
		rank = 1
	case "T", "10":
		rank = 10
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = rankPart[0] - '0'
	default:
		return Invalid, fmt.Errorf("invalid card rank %q", rankPart)
	}

	var suit Suit
	switch suitPart {
	case 's', 'S':
		suit = Spade
	case 'h', 'H':
		suit = Heart
	case 'c', 'C':
		suit = Club
	case 'd', 'D':
		suit = Diamond
	default:
		return Invalid, fmt.Errorf("invalid card suit %q", string(suitPart))
	}

	return Card(byte(suit)<<4 | rank), nil
}

// ParseList converts a slice of server card strings. Unparseable entries
// become Hidden rather than failing the whole list; the server controls
// what it reveals and a display layer should degrade gracefully.
func ParseList(ss []string) []Card {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := Parse(s)
		if err != nil {
			c = Hidden
		}
		out = append(out, c)
	}
	return out
}
