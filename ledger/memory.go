package ledger

import (
	"context"
	"sync"
)

// MemoryLedger is an in-process balance store, used for tests and for
// running the server without Redis.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[uint64]int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[uint64]int64),
	}
}

// SetBalance seeds a player's balance.
func (m *MemoryLedger) SetBalance(playerID uint64, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] = amount
}

func (m *MemoryLedger) GetBalance(ctx context.Context, playerID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[playerID], nil
}

func (m *MemoryLedger) Debit(ctx context.Context, playerID uint64, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.balances[playerID]
	if balance < amount {
		return balance, InsufficientBalanceError{PlayerID: playerID, Balance: balance, Amount: amount}
	}
	m.balances[playerID] = balance - amount
	return m.balances[playerID], nil
}

func (m *MemoryLedger) Credit(ctx context.Context, playerID uint64, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] += amount
	return m.balances[playerID], nil
}
