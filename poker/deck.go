package poker

import (
	"fmt"
	"math/rand"

	"cardroom.io/holdem/util/random"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

// Deck is an ordered set of the 52 distinct cards, consumed as cards
// are dealt. A fresh deck is built and shuffled for every hand.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

func newSeed() rand.Source {
	return rand.NewSource(random.NewSeed())
}

// NewDeck returns a shuffled deck. A nil source seeds from crypto/rand.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	randGen := rand.New(source)
	deck := &Deck{randGen: randGen}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)

	randGen := deck.randGen
	if randGen == nil {
		randGen = rand.New(newSeed())
	}
	for i := range deck.cards {
		loc := int(randGen.Uint32() % 52)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}

	return deck
}

func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card

	for _, rank := range strRanks {
		for suit := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}

	return cards
}

func (deck *Deck) GetBytes() []uint8 {
	cards := make([]byte, len(deck.cards))
	for i, card := range deck.cards {
		cards[i] = card.GetByte()
	}
	return cards
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

type CardsInAscii []string

// DeckFromScript arranges a deck so that the given hole cards and board
// come off the top in dealing order. Hole cards are dealt one card per
// player per pass, so player i's card j sits at index i + j*numPlayers.
// Used by tests to script exact hands.
func DeckFromScript(playerCards []CardsInAscii, flop CardsInAscii, turn Card, river Card, burnCard bool) *Deck {
	deck := NewDeck(nil)
	noOfPlayers := len(playerCards)
	for i, playerCards := range playerCards {
		for j, cardStr := range playerCards {
			deckIndex := i + j*noOfPlayers
			deck.placeCard(NewCard(cardStr), deckIndex)
		}
	}

	deckIndex := len(playerCards) * len(playerCards[0])
	if burnCard {
		deckIndex++
	}

	for _, cardStr := range flop {
		deck.placeCard(NewCard(cardStr), deckIndex)
		deckIndex++
	}

	if burnCard {
		deckIndex++
	}

	deck.placeCard(turn, deckIndex)
	deckIndex++

	if burnCard {
		deckIndex++
	}

	deck.placeCard(river, deckIndex)

	return deck
}

// placeCard swaps the given card into position index.
func (deck *Deck) placeCard(card Card, index int) {
	cardLoc := deck.getCardLoc(card)
	if cardLoc < 0 {
		panic(fmt.Sprintf("Deck.placeCard unable to find card %s in deck\nDeck: %s\n", CardToString(card), deck.PrettyPrint()))
	}
	currentCard := deck.cards[index]
	deck.cards[index] = card
	deck.cards[cardLoc] = currentCard
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}
