package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCard(t *testing.T) {
	card := NewCard("Kh")
	assert.Equal(t, int32(11), card.Rank())
	assert.Equal(t, int32(13), card.RankValue())
	assert.Equal(t, int32(2), card.Suit())
	assert.Equal(t, "Kh", card.String())

	ace := NewCard("As")
	assert.Equal(t, int32(14), ace.RankValue())
	deuce := NewCard("2c")
	assert.Equal(t, int32(2), deuce.RankValue())
}

func TestCardStringRoundTrip(t *testing.T) {
	for _, s := range []string{"2s", "7d", "Tc", "Jh", "Qd", "Ks", "Ah"} {
		assert.Equal(t, s, NewCard(s).String())
	}
}

func TestCardByteRoundTrip(t *testing.T) {
	for _, s := range []string{"2s", "9h", "Td", "Ac"} {
		card := NewCard(s)
		assert.Equal(t, card, NewCardFromByte(card.GetByte()))
	}
}

func TestBitRankIsOneHot(t *testing.T) {
	seen := map[int32]bool{}
	for _, r := range "23456789TJQKA" {
		card := NewCard(string(r) + "s")
		bitRank := card.BitRank()
		assert.Equal(t, int32(0), bitRank&(bitRank-1), "bit rank must have a single bit set")
		assert.False(t, seen[bitRank])
		seen[bitRank] = true
	}
}

func TestCardJSON(t *testing.T) {
	card := NewCard("Qd")
	data, err := json.Marshal(&card)
	assert.NoError(t, err)
	assert.Equal(t, `"Qd"`, string(data))

	var decoded Card
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, card, decoded)
}

func TestByteCardsRoundTrip(t *testing.T) {
	original := cards("Ah", "Kd", "2c", "Ts")
	assert.Equal(t, original, FromByteCards(CardsToByteCards(original)))
}
