package poker

import (
	"fmt"
	"strings"
)

// Card is a packed representation of a playing card.
// Bits 16-28 are the one-hot rank bit, bits 12-15 the suit,
// bits 8-11 the rank index, and the low byte the rank prime.
type Card int32

var (
	intRanks [13]int32
	strRanks = "23456789TJQKA"
	primes   = []int32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}
)

var (
	charRankToIntRank = map[uint8]int32{}
	charSuitToIntSuit = map[uint8]int32{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
)

var prettySuits = map[int]string{
	1: "♠", // spades
	2: "❤", // hearts
	4: "♦", // diamonds
	8: "♣", // clubs
}

func init() {
	for i := 0; i < 13; i++ {
		intRanks[i] = int32(i)
	}

	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = intRanks[i]
	}
}

// NewCard builds a card from its two character form, e.g. "Kh", "Td", "9s".
func NewCard(s string) Card {
	rankInt := charRankToIntRank[s[0]]
	suitInt := charSuitToIntSuit[s[1]]
	rankPrime := primes[rankInt]

	bitRank := int32(1) << uint32(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank | rankPrime)
}

func NewCardFromByte(cardByte uint8) Card {
	rankInt := int32(cardByte >> 4)
	suitInt := int32(cardByte & 0xF)
	rankPrime := primes[rankInt]

	bitRank := int32(1) << uint32(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank | rankPrime)
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	*c = NewCard(string(b[1:3]))
	return nil
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

// Rank returns the rank index 0-12 (0 is deuce, 12 is ace).
func (c Card) Rank() int32 {
	return (int32(c) >> 8) & 0xF
}

// RankValue returns the card's face value 2-14 (ace high).
func (c Card) RankValue() int32 {
	return c.Rank() + 2
}

func (c Card) Suit() int32 {
	return (int32(c) >> 12) & 0xF
}

func (c Card) BitRank() int32 {
	return (int32(c) >> 16) & 0x1FFF
}

func (c Card) GetByte() uint8 {
	rank := c.Rank()
	suit := c.Suit()
	b := uint8((rank << 4) | suit)
	return b
}

func FromByteCards(byteCards []byte) []Card {
	cards := make([]Card, len(byteCards))
	for i, b := range byteCards {
		cards[i] = NewCardFromByte(b)
	}
	return cards
}

func CardsToByteCards(cards []Card) []byte {
	byteCards := make([]byte, len(cards))
	for i, c := range cards {
		byteCards[i] = c.GetByte()
	}
	return byteCards
}

func CardToString(card Card) string {
	val := card.GetByte()
	suit := int(val & 0xF)
	rank := int((val >> 4) & 0xF)
	return fmt.Sprintf("%s%s", string(strRanks[rank]), prettySuits[suit])
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", CardToString(c))
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}

func PrintCards(cards []Card) string {
	return CardsToString(cards)
}
