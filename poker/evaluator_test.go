package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cards(strs ...string) []Card {
	result := make([]Card, len(strs))
	for i, s := range strs {
		result[i] = NewCard(s)
	}
	return result
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name     string
		cards    []string
		expected HandCategory
	}{
		{"Royal Flush", []string{"As", "Ks", "Qs", "Js", "Ts"}, RoyalFlush},
		{"Straight Flush", []string{"9h", "8h", "7h", "6h", "5h"}, StraightFlush},
		{"Steel Wheel", []string{"Ad", "2d", "3d", "4d", "5d"}, StraightFlush},
		{"Four of a Kind", []string{"Qc", "Qd", "Qh", "Qs", "2c"}, FourOfAKind},
		{"Full House", []string{"Jc", "Jd", "Jh", "4s", "4c"}, FullHouse},
		{"Flush", []string{"Kc", "Tc", "7c", "4c", "2c"}, Flush},
		{"Straight", []string{"Tc", "9d", "8h", "7s", "6c"}, Straight},
		{"Wheel", []string{"Ac", "2d", "3h", "4s", "5c"}, Straight},
		{"Three of a Kind", []string{"8c", "8d", "8h", "Ks", "2c"}, ThreeOfAKind},
		{"Two Pair", []string{"Ac", "Ad", "9h", "9s", "2c"}, TwoPair},
		{"Pair", []string{"Tc", "Td", "8h", "5s", "2c"}, Pair},
		{"High Card", []string{"Ac", "Jd", "8h", "5s", "2c"}, HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluate(cards(tt.cards...))
			assert.Equal(t, tt.expected, eval.Category)
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	hand := cards("Ah", "Kd", "Qs", "Jc", "Th", "9d", "8c")
	first := Evaluate(hand)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Strength, Evaluate(hand).Strength)
		assert.Equal(t, first.Category, Evaluate(hand).Category)
	}
}

func TestFlushBeatsPair(t *testing.T) {
	flush := Evaluate(cards("2h", "5h", "7h", "9h", "Jh"))
	pair := Evaluate(cards("As", "Ad", "Kc", "Qh", "Js"))
	assert.Greater(t, flush.Strength, pair.Strength)
}

func TestWheelIsLowestStraight(t *testing.T) {
	wheel := Evaluate(cards("Ac", "2d", "3h", "4s", "5c"))
	sixHigh := Evaluate(cards("2c", "3d", "4h", "5s", "6c"))
	assert.Equal(t, Straight, wheel.Category)
	assert.Equal(t, Straight, sixHigh.Category)
	assert.Less(t, wheel.Strength, sixHigh.Strength)
}

func TestAceHighIsNotAStraightAroundTheCorner(t *testing.T) {
	eval := Evaluate(cards("Jc", "Qd", "Kh", "As", "2c"))
	assert.Equal(t, HighCard, eval.Category)
}

func TestStrengthOrderingAcrossCategories(t *testing.T) {
	ordered := [][]string{
		{"Ac", "Jd", "8h", "5s", "2c"}, // high card
		{"Tc", "Td", "8h", "5s", "2c"}, // pair
		{"Ac", "Ad", "9h", "9s", "2c"}, // two pair
		{"8c", "8d", "8h", "Ks", "2c"}, // trips
		{"Tc", "9d", "8h", "7s", "6c"}, // straight
		{"Kc", "Tc", "7c", "4c", "2c"}, // flush
		{"Jc", "Jd", "Jh", "4s", "4c"}, // full house
		{"Qc", "Qd", "Qh", "Qs", "2c"}, // quads
		{"9h", "8h", "7h", "6h", "5h"}, // straight flush
		{"As", "Ks", "Qs", "Js", "Ts"}, // royal flush
	}

	var prev uint32
	for _, hand := range ordered {
		eval := Evaluate(cards(hand...))
		assert.Greater(t, eval.Strength, prev, "hand %v should outrank the previous one", hand)
		prev = eval.Strength
	}
}

func TestTiebreaksWithinCategory(t *testing.T) {
	acesUp := Evaluate(cards("Ac", "Ad", "3h", "3s", "9c"))
	kingsUp := Evaluate(cards("Kc", "Kd", "Qh", "Qs", "Ac"))
	assert.Greater(t, acesUp.Strength, kingsUp.Strength)

	betterKicker := Evaluate(cards("Tc", "Td", "Ah", "5s", "2c"))
	worseKicker := Evaluate(cards("Th", "Ts", "Kh", "5d", "2d"))
	assert.Greater(t, betterKicker.Strength, worseKicker.Strength)
}

func TestExactTieHasEqualStrength(t *testing.T) {
	a := Evaluate(cards("Ac", "Kd", "Qh", "Js", "9c"))
	b := Evaluate(cards("Ah", "Ks", "Qd", "Jc", "9d"))
	assert.Equal(t, a.Strength, b.Strength)
}

func TestEvaluateSevenPicksBestFive(t *testing.T) {
	// two hearts in the hole plus three on the board make a flush even
	// though the seven cards also contain a pair
	eval := Evaluate(cards("Ah", "Kh", "As", "7h", "4h", "2h", "9c"))
	assert.Equal(t, Flush, eval.Category)
	assert.Len(t, eval.Cards, 5)
	for _, c := range eval.Cards {
		assert.Equal(t, int32(2), c.Suit())
	}
}

func TestEvaluateBoardPlays(t *testing.T) {
	board := []string{"Tc", "9d", "8h", "7s", "6c"}
	eval := Evaluate(cards(append([]string{"2h", "3d"}, board...)...))
	assert.Equal(t, Straight, eval.Category)
}

func TestEvaluatePanicsOnBadSize(t *testing.T) {
	assert.Panics(t, func() { Evaluate(cards("Ah", "Kh")) })
	assert.Panics(t, func() { Evaluate(nil) })
}

func TestDescription(t *testing.T) {
	tests := []struct {
		cards    []string
		expected string
	}{
		{[]string{"As", "Ks", "Qs", "Js", "Ts"}, "Royal Flush"},
		{[]string{"9h", "8h", "7h", "6h", "5h"}, "Straight Flush, Nine High"},
		{[]string{"Qc", "Qd", "Qh", "Qs", "2c"}, "Four of a Kind, Queens"},
		{[]string{"Jc", "Jd", "Jh", "4s", "4c"}, "Full House, Jacks over Fours"},
		{[]string{"Kc", "Tc", "7c", "4c", "2c"}, "Flush, King High"},
		{[]string{"Ac", "2d", "3h", "4s", "5c"}, "Straight, Five High"},
		{[]string{"8c", "8d", "8h", "Ks", "2c"}, "Three of a Kind, Eights"},
		{[]string{"Ac", "Ad", "9h", "9s", "2c"}, "Two Pair, Aces and Nines"},
		{[]string{"Tc", "Td", "8h", "5s", "2c"}, "Pair of Tens"},
		{[]string{"Ac", "Jd", "8h", "5s", "2c"}, "High Card, Ace High"},
	}
	for _, tt := range tests {
		eval := Evaluate(cards(tt.cards...))
		assert.Equal(t, tt.expected, eval.Description())
	}
}
