package timer

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
)

func TestResetReplacesPendingTimer(t *testing.T) {
	mockClock := quartz.NewMock(t)
	var fired []TimerMsg
	turnTimer := NewTurnTimer("g1", mockClock, func(msg TimerMsg) {
		fired = append(fired, msg)
	})

	turnTimer.Reset(TimerMsg{SeatNo: 1, ActionNum: 1}, 10*time.Second)
	turnTimer.Reset(TimerMsg{SeatNo: 2, ActionNum: 2}, 10*time.Second)
	mockClock.Advance(10 * time.Second).MustWait(context.Background())

	assert.Equal(t, []TimerMsg{{SeatNo: 2, ActionNum: 2}}, fired)
}

func TestPauseStopsFiring(t *testing.T) {
	mockClock := quartz.NewMock(t)
	var fired []TimerMsg
	turnTimer := NewTurnTimer("g1", mockClock, func(msg TimerMsg) {
		fired = append(fired, msg)
	})

	turnTimer.Reset(TimerMsg{SeatNo: 1, ActionNum: 1}, 10*time.Second)
	turnTimer.Pause()
	mockClock.Advance(time.Minute).MustWait(context.Background())

	assert.Empty(t, fired)
}

func TestDestroyRejectsFurtherResets(t *testing.T) {
	mockClock := quartz.NewMock(t)
	var fired []TimerMsg
	turnTimer := NewTurnTimer("g1", mockClock, func(msg TimerMsg) {
		fired = append(fired, msg)
	})

	turnTimer.Reset(TimerMsg{SeatNo: 1, ActionNum: 1}, 10*time.Second)
	turnTimer.Destroy()
	turnTimer.Reset(TimerMsg{SeatNo: 2, ActionNum: 2}, 10*time.Second)
	mockClock.Advance(time.Minute).MustWait(context.Background())

	assert.Empty(t, fired)
}

func TestElapsedTime(t *testing.T) {
	mockClock := quartz.NewMock(t)
	turnTimer := NewTurnTimer("g1", mockClock, func(TimerMsg) {})

	turnTimer.Reset(TimerMsg{SeatNo: 1}, time.Minute)
	mockClock.Advance(12 * time.Second).MustWait(context.Background())

	assert.Equal(t, 12*time.Second, turnTimer.GetElapsedTime())
	assert.Equal(t, uint32(1), turnTimer.GetCurrentTimerMsg().SeatNo)
}
