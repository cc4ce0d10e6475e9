package game

import (
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/poker"
	"cardroom.io/holdem/timer"
	"cardroom.io/holdem/util"
)

// Broadcaster receives table snapshots and hand results for delivery.
// The engine does not care how they are rendered or delivered.
type Broadcaster interface {
	BroadcastTableSnapshot(snapshot *TableSnapshot)
	BroadcastHandResult(gameID string, result *HandResult)
}

// SeatPlayer is a funded player being seated into a new game.
type SeatPlayer struct {
	SeatNo   uint32
	PlayerID uint64
	Name     string
	Stack    int64
}

// Game is one table session. Every entry point takes the session lock,
// so actions on one session are applied atomically and in submission
// order; independent sessions share nothing.
type Game struct {
	logger *zerolog.Logger
	config *GameConfig

	lock         sync.Mutex
	seats        []*Seat
	buttonPos    uint32
	handNum      uint32
	handState    *HandState
	ended        bool
	scriptedDeck *poker.Deck

	clock        quartz.Clock
	turnTimer    *timer.TurnTimer
	broadcaster  Broadcaster
	onHandEnded  func(result *HandResult)
	timeoutStats map[uint64]*TimeoutStats
}

// NewGame seats the given players and prepares the session. No hand is
// dealt until DealNextHand is called.
func NewGame(config *GameConfig, players []SeatPlayer, clock quartz.Clock, broadcaster Broadcaster, onHandEnded func(result *HandResult)) *Game {
	logger := logging.GetZeroLogger("game::game", nil)
	g := &Game{
		logger:       logger,
		config:       config,
		clock:        clock,
		broadcaster:  broadcaster,
		onHandEnded:  onHandEnded,
		timeoutStats: make(map[uint64]*TimeoutStats),
	}

	g.seats = make([]*Seat, config.MaxSeats+1)
	for i := range g.seats {
		g.seats[i] = &Seat{SeatNo: uint32(i), Status: SeatEmpty}
	}
	for _, p := range players {
		g.seats[p.SeatNo] = &Seat{
			SeatNo:   p.SeatNo,
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Stack:    p.Stack,
			Status:   SeatActive,
		}
		g.timeoutStats[p.PlayerID] = &TimeoutStats{}
	}
	g.turnTimer = timer.NewTurnTimer(config.GameID, clock, g.handleTurnTimeout)
	return g
}

func (g *Game) Config() *GameConfig {
	return g.config
}

func (g *Game) HandNum() uint32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.handNum
}

// SolventSeats counts the seats still holding chips.
func (g *Game) SolventSeats() uint32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.solventSeats()
}

func (g *Game) solventSeats() uint32 {
	var n uint32
	for _, seat := range g.seats[1:] {
		if seat.PlayerID != 0 && seat.Stack > 0 {
			n++
		}
	}
	return n
}

// SetupNextDeck scripts the deck for the next hand (exact-card tests).
func (g *Game) SetupNextDeck(deck *poker.Deck) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.scriptedDeck = deck
}

// DealNextHand starts the next hand of the session: advances the button,
// builds a fresh shuffled deck, deals, posts blinds, and arms the action
// timer for the first seat to act.
func (g *Game) DealNextHand() error {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.ended {
		return UnexpectedHandStatusError{Expected: HandStatusDeal, Current: HandStatusEnded}
	}
	if solvent := g.solventSeats(); solvent < g.config.MinPlayers {
		return NotEnoughPlayersError{Needed: g.config.MinPlayers, Present: solvent}
	}

	g.buttonPos = g.nextSolventSeat(g.buttonPos)
	g.handNum++
	deck := g.scriptedDeck
	g.scriptedDeck = nil

	handState, err := NewHandState(g.config.GameID, g.handNum, g.config, g.seats, g.buttonPos, deck)
	if err != nil {
		return err
	}
	g.handState = handState
	util.Metrics.HandDealt()

	result := handState.BeginBetting()
	g.afterAdvance(result)
	return nil
}

// PlayerActed applies one submitted action. Illegal or stale actions are
// rejected with InvalidActionError and leave the session untouched.
func (g *Game) PlayerActed(playerID uint64, actionType ActionType, amount int64) error {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.ended || g.handState == nil || g.handState.CurrentState == HandStatusEnded {
		return InvalidActionError{Msg: "No hand is in progress"}
	}
	seat := g.seatByPlayer(playerID)
	if seat == nil {
		return InvalidActionError{Msg: "Player is not seated at this table"}
	}

	result, err := g.handState.ApplyAction(HandAction{
		SeatNo: seat.SeatNo,
		Action: actionType,
		Amount: amount,
	})
	if err != nil {
		g.logger.Info().
			Err(err).
			Str(logging.GameIDKey, g.config.GameID).
			Uint64(logging.PlayerIDKey, playerID).
			Str(logging.ActionKey, actionType.String()).
			Msg("Rejected player action")
		return err
	}

	stats := g.timeoutStats[playerID]
	stats.ConsecutiveActionTimeouts = 0
	stats.ActedAtLeastOnce = true

	g.turnTimer.Pause()
	g.afterAdvance(result)
	return nil
}

// handleTurnTimeout forfeits the turn of a seat that never acted: the
// seat checks when it owes nothing and folds otherwise. A firing for a
// hand that has already advanced is a no-op.
func (g *Game) handleTurnTimeout(msg timer.TimerMsg) {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.ended || g.handState == nil || g.handState.CurrentState == HandStatusEnded {
		return
	}
	if msg.ActionNum != g.handState.CurrentActionNum || msg.SeatNo != g.handState.CurrentSeat {
		g.logger.Debug().
			Str(logging.GameIDKey, g.config.GameID).
			Uint32(logging.SeatNumKey, msg.SeatNo).
			Msg("Ignoring stale turn timer")
		return
	}

	action := HandAction{SeatNo: msg.SeatNo, Action: ACTION_FOLD, TimedOut: true}
	if msg.CanCheck {
		action.Action = ACTION_CHECK
	}
	result, err := g.handState.ApplyAction(action)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str(logging.GameIDKey, g.config.GameID).
			Uint32(logging.SeatNumKey, msg.SeatNo).
			Msg("Could not apply timeout action")
		return
	}

	util.Metrics.ActionTimedOut()
	g.timeoutStats[msg.PlayerID].ConsecutiveActionTimeouts++
	g.logger.Info().
		Str(logging.GameIDKey, g.config.GameID).
		Uint32(logging.HandNumKey, g.handNum).
		Uint32(logging.SeatNumKey, msg.SeatNo).
		Uint64(logging.PlayerIDKey, msg.PlayerID).
		Str(logging.ActionKey, action.Action.String()).
		Msg("Seat timed out and forfeited its turn")

	g.afterAdvance(result)
}

// afterAdvance runs under the session lock after the state machine
// moved: broadcasts the new table state, and either completes the hand
// or arms the action timer for the next seat.
func (g *Game) afterAdvance(result *ActionResult) {
	if g.broadcaster != nil {
		g.broadcaster.BroadcastTableSnapshot(g.buildSnapshot(0))
	}

	if result.HandEnded {
		g.turnTimer.Pause()
		if g.broadcaster != nil {
			g.broadcaster.BroadcastHandResult(g.config.GameID, result.Result)
		}
		if g.onHandEnded != nil {
			g.onHandEnded(result.Result)
		}
		return
	}

	seatNo := g.handState.CurrentSeat
	if seatNo == 0 {
		return
	}
	seat := g.seats[seatNo]
	g.turnTimer.Reset(timer.TimerMsg{
		SeatNo:    seatNo,
		PlayerID:  seat.PlayerID,
		ActionNum: g.handState.CurrentActionNum,
		CanCheck:  seat.RoundBet == g.handState.CurrentBet,
	}, g.config.ActionTimeout)
}

// EndSession halts the session, synchronously cancelling any pending
// turn timer, and returns the remaining stacks for cash-out.
func (g *Game) EndSession() []SeatPlayer {
	g.lock.Lock()
	defer g.lock.Unlock()

	g.ended = true
	g.turnTimer.Destroy()

	var remaining []SeatPlayer
	for _, seat := range g.seats[1:] {
		if seat.PlayerID == 0 {
			continue
		}
		remaining = append(remaining, SeatPlayer{
			SeatNo:   seat.SeatNo,
			PlayerID: seat.PlayerID,
			Name:     seat.Name,
			Stack:    seat.Stack,
		})
	}
	return remaining
}

// ForfeitCounts returns the per-player timeout counts for the standings
// record.
func (g *Game) ForfeitCounts() map[uint64]uint32 {
	g.lock.Lock()
	defer g.lock.Unlock()
	counts := make(map[uint64]uint32)
	for playerID, stats := range g.timeoutStats {
		counts[playerID] = stats.ConsecutiveActionTimeouts
	}
	return counts
}

func (g *Game) seatByPlayer(playerID uint64) *Seat {
	for _, seat := range g.seats[1:] {
		if seat.PlayerID == playerID {
			return seat
		}
	}
	return nil
}

// nextSolventSeat returns the next seat clockwise holding chips.
func (g *Game) nextSolventSeat(from uint32) uint32 {
	seatNo := from
	for i := uint32(0); i < g.config.MaxSeats; i++ {
		seatNo = seatNo%g.config.MaxSeats + 1
		seat := g.seats[seatNo]
		if seat.PlayerID != 0 && seat.Stack > 0 {
			return seatNo
		}
	}
	return 0
}
