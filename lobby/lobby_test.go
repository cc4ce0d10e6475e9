package lobby

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/ledger"
)

func testConfig() *game.GameConfig {
	return &game.GameConfig{
		GameID:     "lobby-1",
		MaxSeats:   3,
		MinPlayers: 2,
		SmallBlind: 5,
		BigBlind:   10,
		MinBuyIn:   100,
		MaxBuyIn:   500,
	}
}

func newTestLobby(chips ledger.Ledger) *Lobby {
	return NewLobby("lobby-1", 1, testConfig(), chips, time.Now())
}

func seededLedger(playerIDs ...uint64) *ledger.MemoryLedger {
	chips := ledger.NewMemoryLedger()
	for _, playerID := range playerIDs {
		chips.SetBalance(playerID, 1000)
	}
	return chips
}

func TestReserveSeatEscrowsBuyIn(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))
	require.NoError(t, l.ReserveSeat(ctx, 2, "bob", 100))

	balance, _ := chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(800), balance)
	assert.Equal(t, uint32(2), l.SeatedCount())
}

func TestDuplicateSeatRejected(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))
	err := l.ReserveSeat(ctx, 1, "alice", 200)
	assert.ErrorAs(t, err, &DuplicateSeatError{})

	// the rejected attempt must not touch the ledger
	balance, _ := chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(800), balance)
}

func TestLobbyFullRejected(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2, 3, 4)
	l := newTestLobby(chips)

	for playerID := uint64(1); playerID <= 3; playerID++ {
		require.NoError(t, l.ReserveSeat(ctx, playerID, "p", 100))
	}
	err := l.ReserveSeat(ctx, 4, "late", 100)
	assert.ErrorAs(t, err, &LobbyFullError{})
	balance, _ := chips.GetBalance(ctx, 4)
	assert.Equal(t, int64(1000), balance)
}

func TestBuyInBounds(t *testing.T) {
	ctx := context.Background()
	l := newTestLobby(seededLedger(1))

	assert.ErrorAs(t, l.ReserveSeat(ctx, 1, "alice", 99), &BuyInOutOfRangeError{})
	assert.ErrorAs(t, l.ReserveSeat(ctx, 1, "alice", 501), &BuyInOutOfRangeError{})
}

func TestFailedDebitLeavesNoReservation(t *testing.T) {
	ctx := context.Background()
	chips := ledger.NewMemoryLedger()
	chips.SetBalance(1, 50) // below the minimum buy-in
	l := newTestLobby(chips)

	err := l.ReserveSeat(ctx, 1, "alice", 100)
	require.Error(t, err)
	var insufficient ledger.InsufficientBalanceError
	assert.ErrorAs(t, errors.Cause(err), &insufficient)
	assert.Equal(t, uint32(0), l.SeatedCount())

	// the player can retry once funded
	chips.SetBalance(1, 1000)
	assert.NoError(t, l.ReserveSeat(ctx, 1, "alice", 100))
}

func TestReleaseSeatRefunds(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))
	require.NoError(t, l.ReleaseSeat(ctx, 1))

	balance, _ := chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(1000), balance)
	assert.Equal(t, uint32(0), l.SeatedCount())

	assert.ErrorAs(t, l.ReleaseSeat(ctx, 1), &SeatNotReservedError{})
}

func TestSeatNumbersReuseLowestFree(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2, 3)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "a", 100))
	require.NoError(t, l.ReserveSeat(ctx, 2, "b", 100))
	require.NoError(t, l.ReleaseSeat(ctx, 1))
	require.NoError(t, l.ReserveSeat(ctx, 3, "c", 100))

	players, err := l.Promote(1)
	require.NoError(t, err)
	seatByPlayer := map[uint64]uint32{}
	for _, player := range players {
		seatByPlayer[player.PlayerID] = player.SeatNo
	}
	assert.Equal(t, map[uint64]uint32{2: 2, 3: 1}, seatByPlayer)
}

func TestCancelIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))
	require.NoError(t, l.ReserveSeat(ctx, 2, "bob", 200))

	assert.ErrorAs(t, l.Cancel(ctx, 2), &NotOwnerError{})
	require.NoError(t, l.Cancel(ctx, 1))

	for _, playerID := range []uint64{1, 2} {
		balance, _ := chips.GetBalance(ctx, playerID)
		assert.Equal(t, int64(1000), balance)
	}
}

func TestExpireRefundsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))
	require.NoError(t, l.ReserveSeat(ctx, 2, "bob", 300))

	require.NoError(t, l.Expire(ctx))
	require.NoError(t, l.Expire(ctx), "a second expiry is a no-op")

	balance1, _ := chips.GetBalance(ctx, 1)
	balance2, _ := chips.GetBalance(ctx, 2)
	assert.Equal(t, int64(1000), balance1)
	assert.Equal(t, int64(1000), balance2)

	// nothing works on a discarded lobby
	assert.ErrorAs(t, l.ReserveSeat(ctx, 1, "alice", 200), &LobbyClosedError{})
	assert.ErrorAs(t, l.ReleaseSeat(ctx, 1), &LobbyClosedError{})
}

func TestExpireAfterPromoteIsNoOp(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))
	require.NoError(t, l.ReserveSeat(ctx, 2, "bob", 300))

	players, err := l.Promote(1)
	require.NoError(t, err)
	require.Len(t, players, 2)

	require.NoError(t, l.Expire(ctx))

	// escrows became stacks; expiry must not refund them
	balance1, _ := chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(800), balance1)
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	chips := seededLedger(1, 2)
	l := newTestLobby(chips)

	require.NoError(t, l.ReserveSeat(ctx, 1, "alice", 200))

	_, err := l.Promote(2)
	assert.ErrorAs(t, err, &NotOwnerError{})
	_, err = l.Promote(1)
	assert.ErrorAs(t, err, &InsufficientSeatsError{}, "one seat is below the minimum")

	require.NoError(t, l.ReserveSeat(ctx, 2, "bob", 300))
	players, err := l.Promote(1)
	require.NoError(t, err)
	require.Len(t, players, 2)

	stacks := map[uint64]int64{}
	for _, player := range players {
		stacks[player.PlayerID] = player.Stack
	}
	assert.Equal(t, map[uint64]int64{1: 200, 2: 300}, stacks)

	_, err = l.Promote(1)
	assert.ErrorAs(t, err, &LobbyClosedError{}, "a lobby promotes at most once")
}
