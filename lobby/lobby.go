// Package lobby handles pre-game seat reservation and buy-in escrow.
// Chips are debited from the ledger when a seat is reserved and refunded
// exactly once on release, cancellation, or expiry; a failed debit
// leaves no reservation behind.
package lobby

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/ledger"
	"cardroom.io/holdem/logging"
)

var lobbyLogger = logging.GetZeroLogger("lobby::lobby", nil)

// ReservedSeat is one escrowed seat reservation.
type ReservedSeat struct {
	PlayerID uint64
	Name     string
	SeatNo   uint32
	Escrow   int64
	refunded bool
}

// Lobby collects seated players before a game session exists.
type Lobby struct {
	ID        string
	OwnerID   uint64
	CreatedAt time.Time

	config *game.GameConfig
	chips  ledger.Ledger

	mu     sync.Mutex
	seats  map[uint64]*ReservedSeat
	closed bool
}

func NewLobby(id string, ownerID uint64, config *game.GameConfig, chips ledger.Ledger, createdAt time.Time) *Lobby {
	return &Lobby{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		config:    config,
		chips:     chips,
		seats:     make(map[uint64]*ReservedSeat),
	}
}

// ReserveSeat escrows the buy-in and assigns the lowest free seat. The
// debit happens last so any rejection leaves the ledger untouched, and
// a failed debit leaves the lobby untouched.
func (l *Lobby) ReserveSeat(ctx context.Context, playerID uint64, name string, buyIn int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return LobbyClosedError{}
	}
	if _, ok := l.seats[playerID]; ok {
		return DuplicateSeatError{PlayerID: playerID}
	}
	if uint32(len(l.seats)) >= l.config.MaxSeats {
		return LobbyFullError{MaxSeats: l.config.MaxSeats}
	}
	if buyIn < l.config.MinBuyIn || buyIn > l.config.MaxBuyIn {
		return BuyInOutOfRangeError{BuyIn: buyIn, Min: l.config.MinBuyIn, Max: l.config.MaxBuyIn}
	}

	if _, err := l.chips.Debit(ctx, playerID, buyIn); err != nil {
		return errors.Wrap(err, "Could not escrow buy-in")
	}

	l.seats[playerID] = &ReservedSeat{
		PlayerID: playerID,
		Name:     name,
		SeatNo:   l.lowestFreeSeat(),
		Escrow:   buyIn,
	}
	lobbyLogger.Info().
		Str(logging.LobbyIDKey, l.ID).
		Uint64(logging.PlayerIDKey, playerID).
		Msgf("Seat reserved with buy-in %d. Seated: %d", buyIn, len(l.seats))
	return nil
}

// ReleaseSeat refunds the player's escrow and frees the seat.
func (l *Lobby) ReleaseSeat(ctx context.Context, playerID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return LobbyClosedError{}
	}
	seat, ok := l.seats[playerID]
	if !ok {
		return SeatNotReservedError{PlayerID: playerID}
	}

	if err := l.refundSeat(ctx, seat); err != nil {
		return err
	}
	delete(l.seats, playerID)
	return nil
}

// Cancel discards the lobby, refunding every escrow. Owner-only.
func (l *Lobby) Cancel(ctx context.Context, callerID uint64) error {
	if callerID != l.OwnerID {
		return NotOwnerError{PlayerID: callerID}
	}
	return l.discard(ctx)
}

// Expire discards the lobby on timeout, refunding every escrow. Calling
// it on an already-promoted or cancelled lobby is a no-op.
func (l *Lobby) Expire(ctx context.Context) error {
	return l.discard(ctx)
}

func (l *Lobby) discard(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var lastErr error
	for _, seat := range l.seats {
		if err := l.refundSeat(ctx, seat); err != nil {
			// keep refunding the rest; an escrow must never be dropped silently
			lobbyLogger.Error().
				Err(err).
				Str(logging.LobbyIDKey, l.ID).
				Uint64(logging.PlayerIDKey, seat.PlayerID).
				Msg("Could not refund escrow")
			lastErr = err
		}
	}
	return lastErr
}

// refundSeat credits the escrow back at most once.
func (l *Lobby) refundSeat(ctx context.Context, seat *ReservedSeat) error {
	if seat.refunded {
		return nil
	}
	if _, err := l.chips.Credit(ctx, seat.PlayerID, seat.Escrow); err != nil {
		return errors.Wrap(err, "Could not refund escrow")
	}
	seat.refunded = true
	return nil
}

// Promote converts the lobby into the initial seating of a game session.
// Owner-only; requires the minimum seat count. The lobby is consumed:
// escrowed buy-ins become the session's starting stacks and any later
// expiry firing is a no-op.
func (l *Lobby) Promote(callerID uint64) ([]game.SeatPlayer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, LobbyClosedError{}
	}
	if callerID != l.OwnerID {
		return nil, NotOwnerError{PlayerID: callerID}
	}
	if uint32(len(l.seats)) < l.config.MinPlayers {
		return nil, InsufficientSeatsError{Needed: l.config.MinPlayers, Seated: uint32(len(l.seats))}
	}

	l.closed = true
	players := make([]game.SeatPlayer, 0, len(l.seats))
	for _, seat := range l.seats {
		players = append(players, game.SeatPlayer{
			SeatNo:   seat.SeatNo,
			PlayerID: seat.PlayerID,
			Name:     seat.Name,
			Stack:    seat.Escrow,
		})
	}
	return players, nil
}

func (l *Lobby) SeatedCount() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint32(len(l.seats))
}

func (l *Lobby) Config() *game.GameConfig {
	return l.config
}

// lowestFreeSeat returns the lowest seat number not yet reserved.
// Callers hold l.mu.
func (l *Lobby) lowestFreeSeat() uint32 {
	taken := make(map[uint32]bool, len(l.seats))
	for _, seat := range l.seats {
		taken[seat.SeatNo] = true
	}
	for seatNo := uint32(1); seatNo <= l.config.MaxSeats; seatNo++ {
		if !taken[seatNo] {
			return seatNo
		}
	}
	return 0
}

// Snapshot is the lobby's public view.
type Snapshot struct {
	LobbyID   string   `json:"lobbyId"`
	OwnerID   uint64   `json:"ownerId"`
	Seated    []string `json:"seated"`
	SeatCount uint32   `json:"seatCount"`
	MaxSeats  uint32   `json:"maxSeats"`
}

func (l *Lobby) Snapshot() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := &Snapshot{
		LobbyID:   l.ID,
		OwnerID:   l.OwnerID,
		SeatCount: uint32(len(l.seats)),
		MaxSeats:  l.config.MaxSeats,
	}
	for _, seat := range l.seats {
		snapshot.Seated = append(snapshot.Seated, seat.Name)
	}
	return snapshot
}
