package game

import (
	"fmt"
	"time"

	"cardroom.io/holdem/poker"
)

// HandStatus is the current betting round of a hand.
type HandStatus int32

const (
	HandStatusDeal HandStatus = iota
	HandStatusPreflop
	HandStatusFlop
	HandStatusTurn
	HandStatusRiver
	HandStatusShowdown
	HandStatusEnded
)

var handStatusToString = map[HandStatus]string{
	HandStatusDeal:     "DEAL",
	HandStatusPreflop:  "PREFLOP",
	HandStatusFlop:     "FLOP",
	HandStatusTurn:     "TURN",
	HandStatusRiver:    "RIVER",
	HandStatusShowdown: "SHOW_DOWN",
	HandStatusEnded:    "ENDED",
}

func (s HandStatus) String() string {
	return handStatusToString[s]
}

// SeatStatus tracks what a seat can still do in the current hand.
type SeatStatus int32

const (
	SeatEmpty SeatStatus = iota
	SeatActive
	SeatFolded
	SeatAllIn
	SeatEliminated
)

var seatStatusToString = map[SeatStatus]string{
	SeatEmpty:      "EMPTY",
	SeatActive:     "ACTIVE",
	SeatFolded:     "FOLDED",
	SeatAllIn:      "ALL_IN",
	SeatEliminated: "ELIMINATED",
}

func (s SeatStatus) String() string {
	return seatStatusToString[s]
}

// ActionType is a player action submitted to the betting round state machine.
type ActionType int32

const (
	ACTION_FOLD ActionType = iota + 1
	ACTION_CHECK
	ACTION_CALL
	ACTION_RAISE
	ACTION_ALLIN
)

var actionToString = map[ActionType]string{
	ACTION_FOLD:  "FOLD",
	ACTION_CHECK: "CHECK",
	ACTION_CALL:  "CALL",
	ACTION_RAISE: "RAISE",
	ACTION_ALLIN: "ALLIN",
}

func (a ActionType) String() string {
	return actionToString[a]
}

// ParseActionType maps a transport action name to its ActionType.
func ParseActionType(s string) (ActionType, bool) {
	for action, name := range actionToString {
		if name == s {
			return action, true
		}
	}
	return 0, false
}

// HandAction is one submitted action for the acting seat.
// Amount is only meaningful for RAISE: the seat's new total commitment
// for the current street, not the increment.
type HandAction struct {
	SeatNo   uint32
	Action   ActionType
	Amount   int64
	TimedOut bool
}

// Seat is one position at the table. Stack is the authoritative in-hand
// stake; the external ledger is only touched at buy-in and cash-out.
type Seat struct {
	SeatNo          uint32
	PlayerID        uint64
	Name            string
	Stack           int64
	HoleCards       []poker.Card
	RoundBet        int64 // chips committed this street
	HandBet         int64 // chips committed this hand
	Status          SeatStatus
	ActedThisStreet bool
}

// MaxTableSeats is the largest seat count any table may be configured
// with. Seat 0 is reserved, so a full ring uses seats 1..MaxTableSeats.
const MaxTableSeats uint32 = 9

// GameConfig carries the fixed parameters of one table.
type GameConfig struct {
	GameID        string
	MaxSeats      uint32
	MinPlayers    uint32
	SmallBlind    int64
	BigBlind      int64
	MinBuyIn      int64
	MaxBuyIn      int64
	ActionTimeout time.Duration
}

// Validate rejects configurations the engine cannot run. Client-supplied
// configs must pass here before any chips are escrowed against them.
func (c *GameConfig) Validate() error {
	if c.MinPlayers < 2 {
		return InvalidGameConfigError{Msg: fmt.Sprintf("MinPlayers must be at least 2, got %d", c.MinPlayers)}
	}
	if c.MaxSeats < c.MinPlayers || c.MaxSeats > MaxTableSeats {
		return InvalidGameConfigError{Msg: fmt.Sprintf("MaxSeats must be between MinPlayers and %d, got %d", MaxTableSeats, c.MaxSeats)}
	}
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return InvalidGameConfigError{Msg: fmt.Sprintf("Blinds must satisfy 0 < small <= big, got %d/%d", c.SmallBlind, c.BigBlind)}
	}
	if c.MinBuyIn <= 0 || c.MaxBuyIn < c.MinBuyIn {
		return InvalidGameConfigError{Msg: fmt.Sprintf("Buy-in range must satisfy 0 < min <= max, got %d..%d", c.MinBuyIn, c.MaxBuyIn)}
	}
	if c.BigBlind > c.MinBuyIn {
		return InvalidGameConfigError{Msg: fmt.Sprintf("Big blind %d exceeds the minimum buy-in %d", c.BigBlind, c.MinBuyIn)}
	}
	if c.ActionTimeout <= 0 {
		return InvalidGameConfigError{Msg: "ActionTimeout must be positive"}
	}
	return nil
}

// TimeoutStats tracks per-player turn forfeitures for a session.
type TimeoutStats struct {
	ConsecutiveActionTimeouts uint32
	ActedAtLeastOnce          bool
}

// HandWinner is one seat's share of the pot at hand end.
type HandWinner struct {
	SeatNo   uint32
	PlayerID uint64
	Amount   int64
	Rank     string
	Cards    []poker.Card
}

// HandResult is produced when a hand completes, either at showdown or
// when all but one seat folds.
type HandResult struct {
	HandNum     uint32
	Board       []poker.Card
	Pot         int64
	Winners     []HandWinner
	WonWithout  bool // pot awarded without showdown
	BalanceDiff map[uint32]int64
}
