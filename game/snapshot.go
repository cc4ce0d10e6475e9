package game

// SeatSnapshot is one seat's public view. Hole cards are only filled in
// for the seat of the requesting player.
type SeatSnapshot struct {
	SeatNo    uint32   `json:"seatNo"`
	PlayerID  uint64   `json:"playerId,omitempty"`
	Name      string   `json:"name,omitempty"`
	Stack     int64    `json:"stack"`
	RoundBet  int64    `json:"roundBet"`
	Status    string   `json:"status"`
	HoleCards []string `json:"holeCards,omitempty"`
}

// TableSnapshot is the render request payload: everything the transport
// needs to display the current table state.
type TableSnapshot struct {
	GameID     string         `json:"gameId"`
	HandNum    uint32         `json:"handNum"`
	Street     string         `json:"street"`
	Board      []string       `json:"board"`
	Pot        int64          `json:"pot"`
	CurrentBet int64          `json:"currentBet"`
	ActionSeat uint32         `json:"actionSeat"`
	ButtonSeat uint32         `json:"buttonSeat"`
	// milliseconds left on the acting seat's clock; zero when no seat acts
	ActionClockMs int64          `json:"actionClockMs"`
	Seats         []SeatSnapshot `json:"seats"`
}

// Snapshot renders the current table state. forPlayerID controls whose
// hole cards are revealed; zero reveals none.
func (g *Game) Snapshot(forPlayerID uint64) *TableSnapshot {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.buildSnapshot(forPlayerID)
}

func (g *Game) buildSnapshot(forPlayerID uint64) *TableSnapshot {
	snapshot := &TableSnapshot{
		GameID: g.config.GameID,
		Street: HandStatusDeal.String(),
	}

	if g.handState != nil {
		h := g.handState
		snapshot.HandNum = h.HandNum
		snapshot.Street = h.CurrentState.String()
		snapshot.Pot = h.Pot
		snapshot.CurrentBet = h.CurrentBet
		snapshot.ActionSeat = h.CurrentSeat
		snapshot.ButtonSeat = h.ButtonPos
		snapshot.Board = make([]string, 0, len(h.Board))
		for _, card := range h.Board {
			snapshot.Board = append(snapshot.Board, card.String())
		}
		if h.CurrentSeat != 0 {
			remaining := g.config.ActionTimeout - g.turnTimer.GetElapsedTime()
			if remaining < 0 {
				remaining = 0
			}
			if remaining > g.config.ActionTimeout {
				remaining = g.config.ActionTimeout
			}
			snapshot.ActionClockMs = remaining.Milliseconds()
		}
	}

	for _, seat := range g.seats[1:] {
		if seat.PlayerID == 0 {
			continue
		}
		seatSnapshot := SeatSnapshot{
			SeatNo:   seat.SeatNo,
			PlayerID: seat.PlayerID,
			Name:     seat.Name,
			Stack:    seat.Stack,
			RoundBet: seat.RoundBet,
			Status:   seat.Status.String(),
		}
		if forPlayerID != 0 && seat.PlayerID == forPlayerID {
			for _, card := range seat.HoleCards {
				seatSnapshot.HoleCards = append(seatSnapshot.HoleCards, card.String())
			}
		}
		snapshot.Seats = append(snapshot.Seats, seatSnapshot)
	}
	return snapshot
}
