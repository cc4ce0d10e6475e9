package timer

import (
	"sync"
	"time"

	"github.com/coder/quartz"

	"cardroom.io/holdem/logging"
)

var timerLogger = logging.GetZeroLogger("timer::turn_timer", nil)

// TimerMsg identifies the turn a timer was armed for. ActionNum pins the
// message to a specific point in the hand so a late firing against an
// advanced hand is detectable by the callback.
type TimerMsg struct {
	SeatNo    uint32
	PlayerID  uint64
	ActionNum uint32
	CanCheck  bool
}

// TurnTimer schedules the per-turn forfeiture callback for one game.
// Reset/Pause/Destroy are safe to call from any goroutine; Destroy
// synchronously stops the pending timer so no callback fires for a
// torn-down game.
type TurnTimer struct {
	gameID   string
	clock    quartz.Clock
	callback func(TimerMsg)

	mu          sync.Mutex
	pending     *quartz.Timer
	current     TimerMsg
	lastResetAt time.Time
	destroyed   bool
}

func NewTurnTimer(gameID string, clock quartz.Clock, callback func(TimerMsg)) *TurnTimer {
	return &TurnTimer{
		gameID:   gameID,
		clock:    clock,
		callback: callback,
	}
}

// Reset arms the timer for a new turn, replacing any pending one.
func (t *TurnTimer) Reset(msg TimerMsg, timeout time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	if t.pending != nil {
		t.pending.Stop()
	}
	t.current = msg
	t.lastResetAt = t.clock.Now()
	t.pending = t.clock.AfterFunc(timeout, func() {
		timerLogger.Debug().
			Str(logging.GameIDKey, t.gameID).
			Uint32(logging.SeatNumKey, msg.SeatNo).
			Msg("Turn timer fired")
		t.callback(msg)
	})
}

// Pause cancels the pending timer without tearing the timer down.
func (t *TurnTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Destroy cancels the pending timer and rejects further resets.
func (t *TurnTimer) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *TurnTimer) GetElapsedTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Now().Sub(t.lastResetAt)
}

func (t *TurnTimer) GetCurrentTimerMsg() TimerMsg {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
