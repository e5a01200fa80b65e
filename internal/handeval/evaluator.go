// Package handeval ranks poker hands on the client purely for display:
// showing the local player what their best five cards currently make. The
// server remains the only authority on showdown results.
package handeval

import "holdem-client/card"

type Category byte

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	}
	return "Unknown"
}

// Result describes the best five-card hand found. Score orders hands
// totally: a larger score always beats a smaller one.
type Result struct {
	Category Category
	Score    uint32
	Best     [5]card.Card
}

// BestOf evaluates the strongest five-card hand available from the local
// player's hole cards plus the community cards. Face-down and invalid
// cards are ignored; fewer than five known cards means no result.
func BestOf(hole, community []card.Card) (Result, bool) {
	pool := make([]card.Card, 0, 7)
	for _, c := range hole {
		if c.Rank() != 0 {
			pool = append(pool, c)
		}
	}
	for _, c := range community {
		if c.Rank() != 0 {
			pool = append(pool, c)
		}
	}
	n := len(pool)
	if n < 5 {
		return Result{}, false
	}

	var best Result
	found := false
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand := [5]card.Card{pool[a], pool[b], pool[c], pool[d], pool[e]}
						cat, score := eval5(hand)
						if !found || score > best.Score {
							best = Result{Category: cat, Score: score, Best: hand}
							found = true
						}
					}
				}
			}
		}
	}
	return best, found
}

// eval5 scores exactly five cards. The score packs the category into the
// high bits and five 4-bit tiebreak ranks below it, most significant
// first, so numeric comparison is hand comparison.
func eval5(cs [5]card.Card) (Category, uint32) {
	var counts [15]int
	suited := true
	for i, c := range cs {
		counts[rankHigh(c)]++
		if i > 0 && c.Suit() != cs[0].Suit() {
			suited = false
		}
	}

	straightHigh := straightHighRank(counts)

	var cat Category
	switch {
	case suited && straightHigh == 14:
		cat = RoyalFlush
	case suited && straightHigh > 0:
		cat = StraightFlush
	case hasCount(counts, 4):
		cat = FourOfAKind
	case hasCount(counts, 3) && hasCount(counts, 2):
		cat = FullHouse
	case suited:
		cat = Flush
	case straightHigh > 0:
		cat = Straight
	case hasCount(counts, 3):
		cat = ThreeOfAKind
	case pairCount(counts) == 2:
		cat = TwoPair
	case pairCount(counts) == 1:
		cat = OnePair
	default:
		cat = HighCard
	}

	score := uint32(cat) << 20
	if cat == Straight || cat == StraightFlush || cat == RoyalFlush {
		score |= uint32(straightHigh) << 16
		return cat, score
	}

	// Tiebreak ranks: grouped ranks first (larger groups, then higher
	// ranks), each repeated per card so five nibbles are always packed.
	shift := 16
	for group := 4; group >= 1; group-- {
		for r := 14; r >= 2; r-- {
			if counts[r] != group {
				continue
			}
			for i := 0; i < group; i++ {
				score |= uint32(r) << shift
				shift -= 4
			}
		}
	}
	return cat, score
}

// rankHigh maps a card to 2..14 with the ace high.
func rankHigh(c card.Card) int {
	r := int(c.Rank())
	if r == 1 {
		return 14
	}
	return r
}

// straightHighRank returns the high rank of a straight over the five
// counted cards, 0 if none. The wheel (A-2-3-4-5) is a 5-high straight.
func straightHighRank(counts [15]int) int {
	for high := 14; high >= 6; high-- {
		run := true
		for r := high; r > high-5; r-- {
			if counts[r] == 0 {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}
	if counts[14] > 0 && counts[2] > 0 && counts[3] > 0 && counts[4] > 0 && counts[5] > 0 {
		return 5
	}
	return 0
}

func hasCount(counts [15]int, want int) bool {
	for r := 2; r <= 14; r++ {
		if counts[r] == want {
			return true
		}
	}
	return false
}

func pairCount(counts [15]int) int {
	n := 0
	for r := 2; r <= 14; r++ {
		if counts[r] == 2 {
			n++
		}
	}
	return n
}
