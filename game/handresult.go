package game

import (
	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/poker"
)

// settleFoldWin awards the whole pot to the last seat standing without
// evaluating any hand.
func (h *HandState) settleFoldWin() *ActionResult {
	var winner *Seat
	for _, seat := range h.Seats[1:] {
		if seat.Status == SeatActive || seat.Status == SeatAllIn {
			winner = seat
			break
		}
	}

	pot := h.Pot
	winner.Stack += pot
	h.Pot = 0
	h.CurrentSeat = 0
	h.CurrentState = HandStatusEnded
	h.markEliminated()

	handLogger.Info().
		Str(logging.GameIDKey, h.GameID).
		Uint32(logging.HandNumKey, h.HandNum).
		Uint32(logging.SeatNumKey, winner.SeatNo).
		Msgf("Hand ended without showdown. Seat %d wins %d", winner.SeatNo, pot)

	return &ActionResult{
		HandEnded: true,
		Result: &HandResult{
			HandNum: h.HandNum,
			Board:   h.Board,
			Pot:     pot,
			Winners: []HandWinner{{
				SeatNo:   winner.SeatNo,
				PlayerID: winner.PlayerID,
				Amount:   pot,
			}},
			WonWithout:  true,
			BalanceDiff: h.balanceDiff(),
		},
	}
}

// settleShowdown evaluates every non-folded seat over its hole cards
// plus the board and splits the pot among the strongest hands. The split
// uses integer division; remainder chips go one at a time to the tied
// winners in clockwise order starting from the first seat after the
// button, so no chip is ever dropped.
func (h *HandState) settleShowdown(boardRanOut bool) *ActionResult {
	h.CurrentState = HandStatusShowdown
	h.CurrentSeat = 0

	type showdownHand struct {
		seat *Seat
		eval poker.Evaluation
	}

	var best uint32
	hands := make(map[uint32]showdownHand)
	for _, seatNo := range h.clockwiseFromButton() {
		seat := h.Seats[seatNo]
		if seat.Status != SeatActive && seat.Status != SeatAllIn {
			continue
		}
		allCards := make([]poker.Card, 0, 7)
		allCards = append(allCards, seat.HoleCards...)
		allCards = append(allCards, h.Board...)
		eval := poker.Evaluate(allCards)
		hands[seatNo] = showdownHand{seat: seat, eval: eval}
		if eval.Strength > best {
			best = eval.Strength
		}
		handLogger.Debug().
			Str(logging.GameIDKey, h.GameID).
			Uint32(logging.HandNumKey, h.HandNum).
			Uint32(logging.SeatNumKey, seatNo).
			Msgf("Showdown: %s %s", poker.CardsToString(seat.HoleCards), eval.Description())
	}

	// winners in clockwise seat order from the button for the remainder policy
	var winners []showdownHand
	for _, seatNo := range h.clockwiseFromButton() {
		if hand, ok := hands[seatNo]; ok && hand.eval.Strength == best {
			winners = append(winners, hand)
		}
	}

	pot := h.Pot
	share := pot / int64(len(winners))
	remainder := pot % int64(len(winners))

	result := &HandResult{
		HandNum: h.HandNum,
		Board:   h.Board,
		Pot:     pot,
		Winners: make([]HandWinner, 0, len(winners)),
	}
	for i, hand := range winners {
		amount := share
		if int64(i) < remainder {
			amount++
		}
		hand.seat.Stack += amount
		result.Winners = append(result.Winners, HandWinner{
			SeatNo:   hand.seat.SeatNo,
			PlayerID: hand.seat.PlayerID,
			Amount:   amount,
			Rank:     hand.eval.Description(),
			Cards:    hand.eval.Cards,
		})
	}
	h.Pot = 0
	h.CurrentState = HandStatusEnded
	h.markEliminated()
	result.BalanceDiff = h.balanceDiff()

	for _, w := range result.Winners {
		handLogger.Info().
			Str(logging.GameIDKey, h.GameID).
			Uint32(logging.HandNumKey, h.HandNum).
			Uint32(logging.SeatNumKey, w.SeatNo).
			Msgf("Seat %d wins %d with %s", w.SeatNo, w.Amount, w.Rank)
	}

	return &ActionResult{
		BoardRanOut: boardRanOut,
		HandEnded:   true,
		Result:      result,
	}
}

// clockwiseFromButton lists every seat number starting at the first seat
// after the button.
func (h *HandState) clockwiseFromButton() []uint32 {
	order := make([]uint32, 0, h.MaxSeats)
	seatNo := h.ButtonPos
	for i := uint32(0); i < h.MaxSeats; i++ {
		seatNo = seatNo%h.MaxSeats + 1
		order = append(order, seatNo)
	}
	return order
}

// markEliminated busts the seats that finished the hand with no chips.
func (h *HandState) markEliminated() {
	for _, seat := range h.Seats[1:] {
		if seat.PlayerID != 0 && seat.Stack == 0 {
			seat.Status = SeatEliminated
		}
	}
}

func (h *HandState) balanceDiff() map[uint32]int64 {
	diff := make(map[uint32]int64)
	for seatNo, before := range h.BalanceBeforeHand {
		diff[seatNo] = h.Seats[seatNo].Stack - before
	}
	return diff
}
