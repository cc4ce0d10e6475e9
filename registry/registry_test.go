package registry

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/history"
	"cardroom.io/holdem/ledger"
	"cardroom.io/holdem/lobby"
)

func testGameConfig() *game.GameConfig {
	return &game.GameConfig{
		MaxSeats:      6,
		MinPlayers:    2,
		SmallBlind:    5,
		BigBlind:      10,
		MinBuyIn:      100,
		MaxBuyIn:      1000,
		ActionTimeout: 30 * time.Second,
	}
}

type fixture struct {
	reg      *Registry
	clock    *quartz.Mock
	chips    *ledger.MemoryLedger
	recorder *history.MemoryRecorder
}

func newFixture(t *testing.T, maxSessions int) *fixture {
	t.Helper()
	mockClock := quartz.NewMock(t)
	chips := ledger.NewMemoryLedger()
	recorder := history.NewMemoryRecorder()
	reg, err := NewRegistry(Config{
		MaxSessions:  maxSessions,
		LobbyTimeout: 5 * time.Minute,
		Delays: game.Delays{
			MoveToNextHand:  3000,
			ResultPerWinner: 1500,
		},
	}, mockClock, chips, recorder, nil)
	require.NoError(t, err)
	return &fixture{reg: reg, clock: mockClock, chips: chips, recorder: recorder}
}

func (f *fixture) fund(playerIDs ...uint64) {
	for _, playerID := range playerIDs {
		f.chips.SetBalance(playerID, 1000)
	}
}

func TestCreateLobbyEscrowsOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NotEmpty(t, lobbyID)

	balance, _ := f.chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(800), balance)

	snapshot, err := f.reg.LobbySnapshot(lobbyID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), snapshot.SeatCount)
	assert.Equal(t, uint64(1), snapshot.OwnerID)
}

func TestCreateLobbyRejectsDegenerateConfig(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1)

	oversized := testGameConfig()
	oversized.MaxSeats = math.MaxUint32
	_, err := f.reg.CreateLobby(ctx, 1, "alice", 200, oversized)
	require.ErrorAs(t, err, &game.InvalidGameConfigError{})

	solo := testGameConfig()
	solo.MinPlayers = 1
	_, err = f.reg.CreateLobby(ctx, 1, "alice", 200, solo)
	require.ErrorAs(t, err, &game.InvalidGameConfigError{})

	balance, _ := f.chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(1000), balance, "a refused config must not escrow anything")
	assert.Equal(t, 0, f.reg.ActiveSessions())
}

func TestRegistryCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	f.fund(1, 2)

	_, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)

	_, err = f.reg.CreateLobby(ctx, 2, "bob", 200, testGameConfig())
	assert.ErrorAs(t, err, &RegistryFullError{})
}

func TestLobbyExpiryRefundsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1, 2)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NoError(t, f.reg.JoinLobby(ctx, lobbyID, 2, "bob", 300))

	f.clock.Advance(5 * time.Minute).MustWait(ctx)

	balance1, _ := f.chips.GetBalance(ctx, 1)
	balance2, _ := f.chips.GetBalance(ctx, 2)
	assert.Equal(t, int64(1000), balance1)
	assert.Equal(t, int64(1000), balance2)
	assert.Equal(t, 0, f.reg.ActiveSessions())

	_, err = f.reg.LobbySnapshot(lobbyID)
	assert.ErrorAs(t, err, &SessionNotFoundError{})
}

func TestCancelLobbyStopsExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NoError(t, f.reg.CancelLobby(ctx, lobbyID, 1))

	balance, _ := f.chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(1000), balance)

	// the expiry window passing must credit nothing twice
	f.clock.Advance(5 * time.Minute).MustWait(ctx)
	balance, _ = f.chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(1000), balance)
}

func TestLeaveLobbyRefundsSeat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1, 2)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NoError(t, f.reg.JoinLobby(ctx, lobbyID, 2, "bob", 300))
	require.NoError(t, f.reg.LeaveLobby(ctx, lobbyID, 2))

	balance, _ := f.chips.GetBalance(ctx, 2)
	assert.Equal(t, int64(1000), balance)
}

func TestStartGameDealsFirstHand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1, 2)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NoError(t, f.reg.JoinLobby(ctx, lobbyID, 2, "bob", 300))

	require.NoError(t, f.reg.StartGame(ctx, lobbyID, 1))

	_, err = f.reg.LobbySnapshot(lobbyID)
	assert.ErrorAs(t, err, &SessionNotFoundError{}, "a promoted lobby is gone")

	snapshot, err := f.reg.GameSnapshot(lobbyID, 0)
	require.NoError(t, err)
	assert.Equal(t, "PREFLOP", snapshot.Street)
	assert.Equal(t, uint32(1), snapshot.HandNum)
	assert.Equal(t, int64(15), snapshot.Pot)

	// expiry firing after promotion must not refund the stacks
	f.clock.Advance(5 * time.Minute).MustWait(ctx)
	balance, _ := f.chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(800), balance)
}

func TestFailedFirstDealTearsDownSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1)

	// a lobby whose promotion gate is weaker than the two-player dealing
	// minimum: Promote succeeds with one seat but the first deal cannot
	config := testGameConfig()
	config.MinPlayers = 1
	lobbyID := "solo-lobby"
	config.GameID = lobbyID
	soloLobby := lobby.NewLobby(lobbyID, 1, config, f.chips, f.clock.Now())
	require.NoError(t, soloLobby.ReserveSeat(ctx, 1, "alice", 200))
	entry := &lobbyEntry{lobby: soloLobby}
	entry.expiryTimer = f.clock.AfterFunc(5*time.Minute, func() {})
	f.reg.lobbies.Set(lobbyID, entry)

	err := f.reg.StartGame(ctx, lobbyID, 1)
	require.ErrorAs(t, err, &game.NotEnoughPlayersError{})

	balance, _ := f.chips.GetBalance(ctx, 1)
	assert.Equal(t, int64(1000), balance, "a session that never dealt must cash the buy-in back out")
	assert.Equal(t, 0, f.reg.ActiveSessions(), "a dead session must not hold a capacity slot")

	record, ok := f.reg.RecentStandings(lobbyID)
	require.True(t, ok, "teardown must record standings")
	assert.Equal(t, uint32(0), record.HandsDealt)
}

func TestStartGameIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1, 2)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NoError(t, f.reg.JoinLobby(ctx, lobbyID, 2, "bob", 300))

	err = f.reg.StartGame(ctx, lobbyID, 2)
	assert.ErrorAs(t, err, &lobby.NotOwnerError{})
}

func TestNextHandScheduledAfterResultDelay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.fund(1, 2)

	lobbyID, err := f.reg.CreateLobby(ctx, 1, "alice", 200, testGameConfig())
	require.NoError(t, err)
	require.NoError(t, f.reg.JoinLobby(ctx, lobbyID, 2, "bob", 300))
	require.NoError(t, f.reg.StartGame(ctx, lobbyID, 1))

	// heads-up the owner sits on the button and acts first
	require.NoError(t, f.reg.PlayerActed(lobbyID, 1, game.ACTION_FOLD, 0))

	snapshot, err := f.reg.GameSnapshot(lobbyID, 0)
	require.NoError(t, err)
	assert.Equal(t, "ENDED", snapshot.Street)

	// 3000ms between hands plus 1500ms for the single winner
	f.clock.Advance(4500 * time.Millisecond).MustWait(ctx)

	snapshot, err = f.reg.GameSnapshot(lobbyID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), snapshot.HandNum)
	assert.Equal(t, "PREFLOP", snapshot.Street)
}

func TestPlayerActedUnknownSession(t *testing.T) {
	f := newFixture(t, 10)
	err := f.reg.PlayerActed("nope", 1, game.ACTION_FOLD, 0)
	assert.ErrorAs(t, err, &SessionNotFoundError{})
}

func TestRecentStandingsMiss(t *testing.T) {
	f := newFixture(t, 10)
	_, ok := f.reg.RecentStandings("nope")
	assert.False(t, ok)
}
