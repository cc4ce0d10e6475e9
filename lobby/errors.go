package lobby

import "fmt"

type DuplicateSeatError struct {
	PlayerID uint64
}

func (e DuplicateSeatError) Error() string {
	return fmt.Sprintf("Player %d already holds a seat in this lobby", e.PlayerID)
}

type LobbyFullError struct {
	MaxSeats uint32
}

func (e LobbyFullError) Error() string {
	return fmt.Sprintf("Lobby is full. Max seats: %d", e.MaxSeats)
}

type BuyInOutOfRangeError struct {
	BuyIn int64
	Min   int64
	Max   int64
}

func (e BuyInOutOfRangeError) Error() string {
	return fmt.Sprintf("Buy-in %d is out of range [%d, %d]", e.BuyIn, e.Min, e.Max)
}

type NotOwnerError struct {
	PlayerID uint64
}

func (e NotOwnerError) Error() string {
	return fmt.Sprintf("Player %d is not the lobby owner", e.PlayerID)
}

type InsufficientSeatsError struct {
	Needed uint32
	Seated uint32
}

func (e InsufficientSeatsError) Error() string {
	return fmt.Sprintf("Not enough seats reserved to start. Needed: %d, Seated: %d", e.Needed, e.Seated)
}

type LobbyClosedError struct{}

func (e LobbyClosedError) Error() string {
	return "Lobby is no longer open"
}

type SeatNotReservedError struct {
	PlayerID uint64
}

func (e SeatNotReservedError) Error() string {
	return fmt.Sprintf("Player %d holds no seat in this lobby", e.PlayerID)
}
