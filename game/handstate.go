package game

import (
	"fmt"

	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/poker"
)

var handLogger = logging.GetZeroLogger("game::hand", nil)

// HandState is one hand's mutable state. Seats are indexed 1..MaxSeats;
// index 0 is reserved for the dealer position and never holds a player.
// It is mutated only by ApplyAction and the street-advance helpers, and
// only ever under the owning Game's lock.
type HandState struct {
	GameID            string
	HandNum           uint32
	MaxSeats          uint32
	SmallBlind        int64
	BigBlind          int64
	Seats             []*Seat
	Deck              *poker.Deck
	Board             []poker.Card
	Pot               int64
	CurrentBet        int64
	CurrentState      HandStatus
	ButtonPos         uint32
	SmallBlindPos     uint32
	BigBlindPos       uint32
	CurrentSeat       uint32
	LastAggressor     uint32
	CurrentActionNum  uint32
	BurnCards         bool
	NoActiveSeats     uint32
	BalanceBeforeHand map[uint32]int64
}

// ActionResult reports what the state machine did after an accepted action.
type ActionResult struct {
	StreetChanged bool
	BoardRanOut   bool
	HandEnded     bool
	Result        *HandResult
}

// NewHandState deals a fresh hand: builds and shuffles a deck, seats the
// funded players, deals hole cards and posts the blinds. The caller owns
// seat lifecycle across hands; this resets the per-hand fields.
// A non-nil deck overrides the shuffled one (scripted hands in tests).
func NewHandState(gameID string, handNum uint32, config *GameConfig, seats []*Seat, buttonPos uint32, scriptedDeck *poker.Deck) (*HandState, error) {
	h := &HandState{
		GameID:       gameID,
		HandNum:      handNum,
		MaxSeats:     config.MaxSeats,
		SmallBlind:   config.SmallBlind,
		BigBlind:     config.BigBlind,
		Seats:        seats,
		ButtonPos:    buttonPos,
		CurrentState: HandStatusDeal,
		BurnCards:    true,
	}

	h.BalanceBeforeHand = make(map[uint32]int64)
	for _, seat := range seats[1:] {
		if seat.PlayerID == 0 {
			seat.Status = SeatEmpty
			continue
		}
		seat.HoleCards = nil
		seat.RoundBet = 0
		seat.HandBet = 0
		seat.ActedThisStreet = false
		if seat.Stack > 0 {
			seat.Status = SeatActive
			h.NoActiveSeats++
			h.BalanceBeforeHand[seat.SeatNo] = seat.Stack
		} else {
			seat.Status = SeatEliminated
		}
	}
	if h.NoActiveSeats < 2 {
		return nil, NotEnoughPlayersError{Needed: 2, Present: h.NoActiveSeats}
	}
	if !h.inHand(buttonPos) {
		return nil, fmt.Errorf("Button pos %d does not have a funded seat", buttonPos)
	}

	if h.NoActiveSeats == 2 {
		// heads-up: the button posts the small blind
		h.SmallBlindPos = buttonPos
		h.BigBlindPos = h.nextInHand(buttonPos)
	} else {
		h.SmallBlindPos = h.nextInHand(buttonPos)
		h.BigBlindPos = h.nextInHand(h.SmallBlindPos)
	}

	if scriptedDeck != nil {
		h.Deck = scriptedDeck
	} else {
		h.Deck = poker.NewDeck(nil)
	}
	h.dealHoleCards()
	h.postBlinds()
	h.CurrentState = HandStatusPreflop

	handLogger.Debug().
		Str(logging.GameIDKey, gameID).
		Uint32(logging.HandNumKey, handNum).
		Msgf("New hand. Button: %d SB: %d BB: %d active seats: %d",
			h.ButtonPos, h.SmallBlindPos, h.BigBlindPos, h.NoActiveSeats)

	return h, nil
}

// dealHoleCards deals one card per pass to each funded seat in ascending
// seat order, matching the order DeckFromScript arranges.
func (h *HandState) dealHoleCards() {
	for pass := 0; pass < 2; pass++ {
		for _, seat := range h.Seats[1:] {
			if seat.Status != SeatActive {
				continue
			}
			seat.HoleCards = append(seat.HoleCards, h.Deck.Draw(1)...)
		}
	}
}

func (h *HandState) postBlinds() {
	sbSeat := h.Seats[h.SmallBlindPos]
	bbSeat := h.Seats[h.BigBlindPos]
	h.commitChips(sbSeat, minChips(h.SmallBlind, sbSeat.Stack))
	h.commitChips(bbSeat, minChips(h.BigBlind, bbSeat.Stack))

	// the big blind sets the bet to match even when posted short
	h.CurrentBet = h.BigBlind
	h.LastAggressor = h.BigBlindPos
	h.CurrentSeat = h.BigBlindPos
}

// BeginBetting opens the preflop action. The returned result is only
// terminal when the blinds already put every seat all-in.
func (h *HandState) BeginBetting() *ActionResult {
	return h.advance()
}

// commitChips moves chips from a seat's stack into the pot. The sum of
// all stacks plus the pot is invariant across every commit.
func (h *HandState) commitChips(seat *Seat, amount int64) {
	seat.Stack -= amount
	seat.RoundBet += amount
	seat.HandBet += amount
	h.Pot += amount
	if seat.Stack == 0 {
		seat.Status = SeatAllIn
	}
}

// ApplyAction validates and applies one action for the acting seat.
// A rejected action returns InvalidActionError and leaves every field
// untouched; it is never treated as a fold.
func (h *HandState) ApplyAction(action HandAction) (*ActionResult, error) {
	if err := h.validateAction(action); err != nil {
		return nil, err
	}

	seat := h.Seats[action.SeatNo]
	switch action.Action {
	case ACTION_FOLD:
		seat.Status = SeatFolded
	case ACTION_CHECK:
		// no chips move
	case ACTION_CALL:
		owed := h.CurrentBet - seat.RoundBet
		h.commitChips(seat, minChips(owed, seat.Stack))
	case ACTION_RAISE:
		h.commitChips(seat, action.Amount-seat.RoundBet)
		h.CurrentBet = action.Amount
		h.becomeAggressor(seat)
	case ACTION_ALLIN:
		h.commitChips(seat, seat.Stack)
		if seat.RoundBet > h.CurrentBet {
			h.CurrentBet = seat.RoundBet
			h.becomeAggressor(seat)
		}
	}
	seat.ActedThisStreet = true
	h.CurrentActionNum++

	handLogger.Debug().
		Str(logging.GameIDKey, h.GameID).
		Uint32(logging.HandNumKey, h.HandNum).
		Uint32(logging.SeatNumKey, seat.SeatNo).
		Str(logging.ActionKey, action.Action.String()).
		Msgf("Seat acted. Pot: %d current bet: %d", h.Pot, h.CurrentBet)

	return h.advance(), nil
}

// becomeAggressor re-opens the action for every other live seat.
func (h *HandState) becomeAggressor(seat *Seat) {
	h.LastAggressor = seat.SeatNo
	for _, s := range h.Seats[1:] {
		if s.SeatNo != seat.SeatNo && s.Status == SeatActive {
			s.ActedThisStreet = false
		}
	}
}

func (h *HandState) validateAction(action HandAction) error {
	switch h.CurrentState {
	case HandStatusPreflop, HandStatusFlop, HandStatusTurn, HandStatusRiver:
	default:
		return InvalidActionError{Msg: fmt.Sprintf("Hand is not in a betting round. Current state: %s", h.CurrentState)}
	}
	if h.CurrentSeat == 0 || action.SeatNo != h.CurrentSeat {
		return InvalidActionError{Msg: fmt.Sprintf("Invalid seat made action. The next valid action seat is: %d", h.CurrentSeat)}
	}
	seat := h.Seats[action.SeatNo]
	if seat.Status != SeatActive {
		return InvalidActionError{Msg: fmt.Sprintf("Seat %d cannot act with status %s", seat.SeatNo, seat.Status)}
	}

	switch action.Action {
	case ACTION_FOLD:
	case ACTION_CHECK:
		if seat.RoundBet != h.CurrentBet {
			return InvalidActionError{Msg: fmt.Sprintf("Cannot check while owing chips. Current bet: %d, committed: %d", h.CurrentBet, seat.RoundBet)}
		}
	case ACTION_CALL:
		if h.CurrentBet < seat.RoundBet {
			return InvalidActionError{Msg: "Nothing to call"}
		}
	case ACTION_RAISE:
		if action.Amount <= h.CurrentBet {
			return InvalidActionError{Msg: fmt.Sprintf("Raise amount %d must exceed the current bet %d", action.Amount, h.CurrentBet)}
		}
		if action.Amount-seat.RoundBet > seat.Stack {
			return InvalidActionError{Msg: fmt.Sprintf("Raise to %d exceeds the seat's stack. Stack: %d, committed: %d", action.Amount, seat.Stack, seat.RoundBet)}
		}
	case ACTION_ALLIN:
		if seat.Stack <= 0 {
			return InvalidActionError{Msg: "Seat has no chips to go all-in"}
		}
	default:
		return InvalidActionError{Msg: fmt.Sprintf("Unknown action type %d", action.Action)}
	}
	return nil
}

// advance moves the turn cursor, progresses streets, and settles the
// hand when a terminal condition is reached.
func (h *HandState) advance() *ActionResult {
	if h.seatsInHand() == 1 {
		return h.settleFoldWin()
	}

	if !h.bettingComplete() {
		h.CurrentSeat = h.nextActionableSeat(h.CurrentSeat)
		return &ActionResult{}
	}

	if h.actionableSeats() <= 1 {
		// nobody left with chips behind: run the board out
		h.runBoardOut()
		return h.settleShowdown(true)
	}

	if h.CurrentState == HandStatusRiver {
		return h.settleShowdown(false)
	}

	h.dealNextStreet()
	return &ActionResult{StreetChanged: true}
}

// bettingComplete reports whether every seat still able to act has both
// acted this street and matched the current bet.
func (h *HandState) bettingComplete() bool {
	for _, seat := range h.Seats[1:] {
		if seat.Status != SeatActive {
			continue
		}
		if !seat.ActedThisStreet || seat.RoundBet != h.CurrentBet {
			return false
		}
	}
	return true
}

func (h *HandState) dealNextStreet() {
	for _, seat := range h.Seats[1:] {
		seat.RoundBet = 0
		if seat.Status == SeatActive {
			seat.ActedThisStreet = false
		}
	}
	h.CurrentBet = 0
	h.LastAggressor = 0

	switch h.CurrentState {
	case HandStatusPreflop:
		h.dealBoardCards(3)
		h.CurrentState = HandStatusFlop
	case HandStatusFlop:
		h.dealBoardCards(1)
		h.CurrentState = HandStatusTurn
	case HandStatusTurn:
		h.dealBoardCards(1)
		h.CurrentState = HandStatusRiver
	}

	h.CurrentSeat = h.nextActionableSeat(h.ButtonPos)

	handLogger.Debug().
		Str(logging.GameIDKey, h.GameID).
		Uint32(logging.HandNumKey, h.HandNum).
		Msgf("%s dealt. Board: %s pot: %d", h.CurrentState, poker.CardsToString(h.Board), h.Pot)
}

func (h *HandState) dealBoardCards(n int) {
	if h.BurnCards {
		h.Deck.Draw(1)
	}
	h.Board = append(h.Board, h.Deck.Draw(n)...)
}

// runBoardOut deals any remaining streets with no further betting.
func (h *HandState) runBoardOut() {
	for h.CurrentState != HandStatusRiver && len(h.Board) < 5 {
		switch h.CurrentState {
		case HandStatusPreflop:
			h.dealBoardCards(3)
			h.CurrentState = HandStatusFlop
		case HandStatusFlop:
			h.dealBoardCards(1)
			h.CurrentState = HandStatusTurn
		case HandStatusTurn:
			h.dealBoardCards(1)
			h.CurrentState = HandStatusRiver
		}
	}
}

func minChips(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// TotalChips returns the pot plus every seat's stack. Conserved across
// all operations within a hand.
func (h *HandState) TotalChips() int64 {
	total := h.Pot
	for _, seat := range h.Seats[1:] {
		if seat.PlayerID != 0 {
			total += seat.Stack
		}
	}
	return total
}

func (h *HandState) inHand(seatNo uint32) bool {
	seat := h.Seats[seatNo]
	return seat.Status == SeatActive || seat.Status == SeatAllIn || seat.Status == SeatFolded
}

// seatsInHand counts the seats that have not folded.
func (h *HandState) seatsInHand() uint32 {
	var n uint32
	for _, seat := range h.Seats[1:] {
		if seat.Status == SeatActive || seat.Status == SeatAllIn {
			n++
		}
	}
	return n
}

// actionableSeats counts the seats that still have chips to bet.
func (h *HandState) actionableSeats() uint32 {
	var n uint32
	for _, seat := range h.Seats[1:] {
		if seat.Status == SeatActive {
			n++
		}
	}
	return n
}

// nextInHand returns the next dealt-in seat clockwise.
func (h *HandState) nextInHand(from uint32) uint32 {
	seatNo := from
	for i := uint32(0); i < h.MaxSeats; i++ {
		seatNo = seatNo%h.MaxSeats + 1
		if h.inHand(seatNo) {
			return seatNo
		}
	}
	return 0
}

// nextActionableSeat returns the next seat clockwise that still owes an
// action this street, or 0 when none does.
func (h *HandState) nextActionableSeat(from uint32) uint32 {
	seatNo := from
	for i := uint32(0); i < h.MaxSeats; i++ {
		seatNo = seatNo%h.MaxSeats + 1
		seat := h.Seats[seatNo]
		if seat.Status != SeatActive {
			continue
		}
		if !seat.ActedThisStreet || seat.RoundBet != h.CurrentBet {
			return seatNo
		}
	}
	return 0
}
