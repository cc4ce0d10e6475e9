// Package registry holds every live lobby and game session, keyed by an
// opaque identifier, and owns all timeout scheduling: lobby expiry,
// between-hand progression, and session teardown. Tearing an entry down
// cancels its timers synchronously, so a timer can never fire against a
// freed session; a firing for an identifier that is already gone is a
// logged no-op.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/history"
	"cardroom.io/holdem/ledger"
	"cardroom.io/holdem/lobby"
	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/util"
)

var registryLogger = logging.GetZeroLogger("registry::registry", nil)

const recentStandingsCacheSize = 128

// Config bounds the registry and paces session progression.
type Config struct {
	MaxSessions  int
	LobbyTimeout time.Duration
	Delays       game.Delays
}

type lobbyEntry struct {
	lobby       *lobby.Lobby
	expiryTimer *quartz.Timer
}

type gameEntry struct {
	game *game.Game

	mu            sync.Mutex
	nextHandTimer *quartz.Timer
}

// Registry is the single owner of all live sessions in the process.
type Registry struct {
	cfg         Config
	clock       quartz.Clock
	chips       ledger.Ledger
	recorder    history.Recorder
	broadcaster game.Broadcaster

	createMu sync.Mutex
	lobbies  cmap.ConcurrentMap
	games    cmap.ConcurrentMap
	recent   *lru.Cache
}

func NewRegistry(cfg Config, clock quartz.Clock, chips ledger.Ledger, recorder history.Recorder, broadcaster game.Broadcaster) (*Registry, error) {
	recent, err := lru.New(recentStandingsCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create standings cache")
	}
	return &Registry{
		cfg:         cfg,
		clock:       clock,
		chips:       chips,
		recorder:    recorder,
		broadcaster: broadcaster,
		lobbies:     cmap.New(),
		games:       cmap.New(),
		recent:      recent,
	}, nil
}

func (r *Registry) ActiveSessions() int {
	return r.lobbies.Count() + r.games.Count()
}

func (r *Registry) updateSessionGauge() {
	util.Metrics.SetActiveSessionCount(r.ActiveSessions())
}

// CreateLobby mints a new lobby, reserves the owner's seat, and arms
// the expiry timer. Refused when the config fails validation or the
// registry is at capacity; nothing is escrowed on refusal.
func (r *Registry) CreateLobby(ctx context.Context, ownerID uint64, ownerName string, buyIn int64, config *game.GameConfig) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()

	if r.ActiveSessions() >= r.cfg.MaxSessions {
		return "", RegistryFullError{MaxSessions: r.cfg.MaxSessions}
	}

	lobbyID := uuid.NewString()
	config.GameID = lobbyID
	newLobby := lobby.NewLobby(lobbyID, ownerID, config, r.chips, r.clock.Now())
	if err := newLobby.ReserveSeat(ctx, ownerID, ownerName, buyIn); err != nil {
		return "", err
	}

	entry := &lobbyEntry{lobby: newLobby}
	entry.expiryTimer = r.clock.AfterFunc(r.cfg.LobbyTimeout, func() {
		r.expireLobby(lobbyID)
	})
	r.lobbies.Set(lobbyID, entry)
	util.Metrics.LobbyCreated()
	r.updateSessionGauge()

	registryLogger.Info().
		Str(logging.LobbyIDKey, lobbyID).
		Uint64(logging.PlayerIDKey, ownerID).
		Msgf("Lobby created with buy-in %d", buyIn)
	return lobbyID, nil
}

// expireLobby fires when a lobby outlives its window without starting:
// every escrowed buy-in is refunded and the lobby discarded.
func (r *Registry) expireLobby(lobbyID string) {
	value, ok := r.lobbies.Pop(lobbyID)
	if !ok {
		// already promoted or cancelled
		return
	}
	entry := value.(*lobbyEntry)
	if err := entry.lobby.Expire(context.Background()); err != nil {
		registryLogger.Error().Err(err).Str(logging.LobbyIDKey, lobbyID).Msg("Errors while refunding expired lobby")
	}
	util.Metrics.LobbyExpired()
	r.updateSessionGauge()
	registryLogger.Info().Str(logging.LobbyIDKey, lobbyID).Msg("Lobby expired and was discarded")
}

func (r *Registry) getLobby(lobbyID string) (*lobbyEntry, error) {
	value, ok := r.lobbies.Get(lobbyID)
	if !ok {
		return nil, SessionNotFoundError{SessionID: lobbyID}
	}
	return value.(*lobbyEntry), nil
}

func (r *Registry) getGame(gameID string) (*gameEntry, error) {
	value, ok := r.games.Get(gameID)
	if !ok {
		return nil, SessionNotFoundError{SessionID: gameID}
	}
	return value.(*gameEntry), nil
}

func (r *Registry) JoinLobby(ctx context.Context, lobbyID string, playerID uint64, name string, buyIn int64) error {
	entry, err := r.getLobby(lobbyID)
	if err != nil {
		return err
	}
	return entry.lobby.ReserveSeat(ctx, playerID, name, buyIn)
}

func (r *Registry) LeaveLobby(ctx context.Context, lobbyID string, playerID uint64) error {
	entry, err := r.getLobby(lobbyID)
	if err != nil {
		return err
	}
	return entry.lobby.ReleaseSeat(ctx, playerID)
}

// CancelLobby discards a lobby on the owner's request, refunding every
// seat and halting the expiry timer.
func (r *Registry) CancelLobby(ctx context.Context, lobbyID string, callerID uint64) error {
	entry, err := r.getLobby(lobbyID)
	if err != nil {
		return err
	}
	if err := entry.lobby.Cancel(ctx, callerID); err != nil {
		return err
	}
	entry.expiryTimer.Stop()
	r.lobbies.Remove(lobbyID)
	r.updateSessionGauge()
	return nil
}

func (r *Registry) LobbySnapshot(lobbyID string) (*lobby.Snapshot, error) {
	entry, err := r.getLobby(lobbyID)
	if err != nil {
		return nil, err
	}
	return entry.lobby.Snapshot(), nil
}

// StartGame promotes a lobby into a running game session and deals the
// first hand. Owner-only; the expiry timer is cancelled before the
// lobby record is discarded.
func (r *Registry) StartGame(ctx context.Context, lobbyID string, callerID uint64) error {
	entry, err := r.getLobby(lobbyID)
	if err != nil {
		return err
	}

	players, err := entry.lobby.Promote(callerID)
	if err != nil {
		return err
	}
	entry.expiryTimer.Stop()
	r.lobbies.Remove(lobbyID)

	config := entry.lobby.Config()
	newGame := game.NewGame(config, players, r.clock, r.broadcaster, func(result *game.HandResult) {
		r.onHandEnded(lobbyID, result)
	})
	r.games.Set(lobbyID, &gameEntry{game: newGame})
	r.updateSessionGauge()

	registryLogger.Info().
		Str(logging.GameIDKey, lobbyID).
		Msgf("Lobby promoted to game with %d players", len(players))

	if err := newGame.DealNextHand(); err != nil {
		// the session is already registered; cash the stacks back out
		// instead of stranding them in a game that can never progress
		registryLogger.Error().Err(err).Str(logging.GameIDKey, lobbyID).Msg("Could not deal the first hand")
		r.teardownGame(lobbyID)
		return err
	}
	return nil
}

// onHandEnded schedules the next deal after the result display delay.
// Teardown happens at the scheduled time, not here, so the final hand's
// result stays visible for the same window.
func (r *Registry) onHandEnded(gameID string, result *game.HandResult) {
	entry, err := r.getGame(gameID)
	if err != nil {
		registryLogger.Debug().Str(logging.GameIDKey, gameID).Msg("Hand ended for a session no longer registered")
		return
	}

	displayMs := r.cfg.Delays.MoveToNextHand + r.cfg.Delays.ResultPerWinner*uint32(len(result.Winners)) + r.cfg.Delays.BeforeDeal
	delay := time.Duration(displayMs) * time.Millisecond
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.nextHandTimer = r.clock.AfterFunc(delay, func() {
		r.nextHand(gameID)
	})
}

// nextHand continues a session between hands: deals again while at
// least two seats are funded, tears the session down otherwise.
func (r *Registry) nextHand(gameID string) {
	entry, err := r.getGame(gameID)
	if err != nil {
		return
	}

	if entry.game.SolventSeats() < entry.game.Config().MinPlayers {
		r.teardownGame(gameID)
		return
	}
	if err := entry.game.DealNextHand(); err != nil {
		registryLogger.Error().Err(err).Str(logging.GameIDKey, gameID).Msg("Could not deal next hand. Tearing the session down")
		r.teardownGame(gameID)
	}
}

// teardownGame removes the session, synchronously cancelling its timers,
// cashes the remaining stacks back to the ledger, and emits the final
// standings to the history recorder.
func (r *Registry) teardownGame(gameID string) {
	value, ok := r.games.Pop(gameID)
	if !ok {
		return
	}
	entry := value.(*gameEntry)
	entry.mu.Lock()
	if entry.nextHandTimer != nil {
		entry.nextHandTimer.Stop()
	}
	entry.mu.Unlock()

	remaining := entry.game.EndSession()
	forfeits := entry.game.ForfeitCounts()

	record := &history.Record{
		SessionID:  gameID,
		HandsDealt: entry.game.HandNum(),
	}
	for _, player := range remaining {
		if player.Stack > 0 {
			if _, err := r.chips.Credit(context.Background(), player.PlayerID, player.Stack); err != nil {
				registryLogger.Error().
					Err(err).
					Str(logging.GameIDKey, gameID).
					Uint64(logging.PlayerIDKey, player.PlayerID).
					Msgf("Could not cash out stack of %d", player.Stack)
			}
		}
		record.Standings = append(record.Standings, history.Standing{
			PlayerID:   player.PlayerID,
			Name:       player.Name,
			FinalStack: player.Stack,
			Forfeits:   forfeits[player.PlayerID],
		})
	}

	if err := r.recorder.Save(record); err != nil {
		// fire-and-forget: the teardown itself never fails on this
		registryLogger.Error().Err(err).Str(logging.GameIDKey, gameID).Msg("Could not save standings record")
	}
	r.recent.Add(gameID, record)
	util.Metrics.SessionTornDown()
	r.updateSessionGauge()

	registryLogger.Info().Str(logging.GameIDKey, gameID).Msg("Game session torn down")
}

// PlayerActed routes a transport action tuple to its session.
func (r *Registry) PlayerActed(gameID string, playerID uint64, actionType game.ActionType, amount int64) error {
	entry, err := r.getGame(gameID)
	if err != nil {
		return err
	}
	return entry.game.PlayerActed(playerID, actionType, amount)
}

func (r *Registry) GameSnapshot(gameID string, forPlayerID uint64) (*game.TableSnapshot, error) {
	entry, err := r.getGame(gameID)
	if err != nil {
		return nil, err
	}
	return entry.game.Snapshot(forPlayerID), nil
}

// RecentStandings returns the cached standings of a recently completed
// session, if it is still in the cache.
func (r *Registry) RecentStandings(gameID string) (*history.Record, bool) {
	value, ok := r.recent.Get(gameID)
	if !ok {
		return nil, false
	}
	return value.(*history.Record), true
}
