// Package ledger holds the external economy collaborator interface.
// The engine never proceeds past a failed debit, and it only touches
// the ledger at buy-in escrow and final cash-out.
package ledger

import (
	"context"
	"fmt"
)

type InsufficientBalanceError struct {
	PlayerID uint64
	Balance  int64
	Amount   int64
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Player %d has insufficient balance. Balance: %d, Requested: %d", e.PlayerID, e.Balance, e.Amount)
}

// Ledger is the balance store. Debit and Credit are atomic; a returned
// error means no chips moved.
type Ledger interface {
	GetBalance(ctx context.Context, playerID uint64) (int64, error)
	Debit(ctx context.Context, playerID uint64, amount int64) (int64, error)
	Credit(ctx context.Context, playerID uint64, amount int64) (int64, error)
}
