package poker

import (
	"fmt"
	"sort"
)

// HandCategory is one of the ten hand rankings, ordered weakest to strongest.
type HandCategory int32

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryToString = map[HandCategory]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (hc HandCategory) String() string {
	return categoryToString[hc]
}

var rankValueNames = map[int32]string{
	2: "Deuce", 3: "Three", 4: "Four", 5: "Five", 6: "Six", 7: "Seven",
	8: "Eight", 9: "Nine", 10: "Ten", 11: "Jack", 12: "Queen", 13: "King", 14: "Ace",
}

// Evaluation is the result of ranking a hand. Strength is a single
// monotonically-ordered value: any two evaluations compare by Strength
// alone, and equal Strength means an exact tie.
type Evaluation struct {
	Category HandCategory
	Strength uint32
	Cards    []Card // the best five cards
}

// Strength packs the category in the high nibble above five 4-bit
// tiebreak nibbles, most significant tiebreak first.
func packStrength(category HandCategory, tiebreaks []int32) uint32 {
	strength := uint32(category) << 20
	shift := 16
	for _, tb := range tiebreaks {
		strength |= uint32(tb) << uint(shift)
		shift -= 4
	}
	return strength
}

func (e Evaluation) Description() string {
	tb1 := int32((e.Strength >> 16) & 0xF)
	switch e.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush, Straight:
		return fmt.Sprintf("%s, %s High", e.Category, rankValueNames[tb1])
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %ss", rankValueNames[tb1])
	case FullHouse:
		tb2 := int32((e.Strength >> 12) & 0xF)
		return fmt.Sprintf("Full House, %ss over %ss", rankValueNames[tb1], rankValueNames[tb2])
	case Flush, HighCard:
		return fmt.Sprintf("%s, %s High", e.Category, rankValueNames[tb1])
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %ss", rankValueNames[tb1])
	case TwoPair:
		tb2 := int32((e.Strength >> 12) & 0xF)
		return fmt.Sprintf("Two Pair, %ss and %ss", rankValueNames[tb1], rankValueNames[tb2])
	case Pair:
		return fmt.Sprintf("Pair of %ss", rankValueNames[tb1])
	}
	return e.Category.String()
}

// Evaluate returns the best five-card ranking from 5, 6, or 7 cards by
// scoring every five-card subset. Any other input size is a caller error.
func Evaluate(cards []Card) Evaluation {
	switch len(cards) {
	case 5:
		return evaluateFive(cards)
	case 6, 7:
		best := Evaluation{}
		for _, combo := range combinations(cards, 5) {
			eval := evaluateFive(combo)
			if eval.Strength > best.Strength {
				best = eval
			}
		}
		return best
	default:
		panic("Only support 5, 6 and 7 cards.")
	}
}

// combinations returns every k-card subset of cards.
func combinations(cards []Card, k int) [][]Card {
	var result [][]Card
	n := len(cards)
	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}
	for {
		combo := make([]Card, k)
		for i, idx := range indexes {
			combo[i] = cards[idx]
		}
		result = append(result, combo)

		// advance to the next combination
		i := k - 1
		for i >= 0 && indexes[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		indexes[i]++
		for j := i + 1; j < k; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
	return result
}

// rankGroup is a run of same-value cards within a five card hand.
type rankGroup struct {
	value int32
	count int
}

func evaluateFive(cards []Card) Evaluation {
	sorted := make([]Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RankValue() > sorted[j].RankValue()
	})

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit() != sorted[0].Suit() {
			flush = false
			break
		}
	}

	counts := make(map[int32]int)
	for _, c := range sorted {
		counts[c.RankValue()]++
	}
	groups := make([]rankGroup, 0, 5)
	for value, count := range counts {
		groups = append(groups, rankGroup{value: value, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	straightHigh := straightHighCard(groups)

	var category HandCategory
	var tiebreaks []int32
	switch {
	case flush && straightHigh == 14:
		category = RoyalFlush
		tiebreaks = []int32{14}
	case flush && straightHigh > 0:
		category = StraightFlush
		tiebreaks = []int32{straightHigh}
	case groups[0].count == 4:
		category = FourOfAKind
		tiebreaks = []int32{groups[0].value, groups[1].value}
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
		tiebreaks = []int32{groups[0].value, groups[1].value}
	case flush:
		category = Flush
		tiebreaks = groupValues(groups)
	case straightHigh > 0:
		category = Straight
		tiebreaks = []int32{straightHigh}
	case groups[0].count == 3:
		category = ThreeOfAKind
		tiebreaks = groupValues(groups)
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
		tiebreaks = groupValues(groups)
	case groups[0].count == 2:
		category = Pair
		tiebreaks = groupValues(groups)
	default:
		category = HighCard
		tiebreaks = groupValues(groups)
	}

	return Evaluation{
		Category: category,
		Strength: packStrength(category, tiebreaks),
		Cards:    sorted,
	}
}

func groupValues(groups []rankGroup) []int32 {
	values := make([]int32, len(groups))
	for i, g := range groups {
		values[i] = g.value
	}
	return values
}

// straightHighCard returns the high card value of a straight, or 0 if
// the hand is not a straight. The wheel (A-2-3-4-5) is five high, which
// keeps it strictly below every other straight.
func straightHighCard(groups []rankGroup) int32 {
	if len(groups) != 5 {
		return 0
	}
	// groups are sorted by value descending when all counts are 1
	if groups[0].value-groups[4].value == 4 {
		return groups[0].value
	}
	if groups[0].value == 14 && groups[1].value == 5 && groups[4].value == 2 {
		return 5
	}
	return 0
}
