package ledger

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// debitScript decrements a balance only when it covers the amount, so a
// debit can never leave a negative balance or partially apply.
var debitScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local amount = tonumber(ARGV[1])
if balance < amount then
	return {0, balance}
end
balance = balance - amount
redis.call("SET", KEYS[1], balance)
return {1, balance}
`)

// RedisLedger is a Redis-backed balance store.
type RedisLedger struct {
	rdclient *redis.Client
}

func NewRedisLedger(redisURL string, redisPW string, redisDB int) *RedisLedger {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisLedger{
		rdclient: rdclient,
	}
}

func balanceKey(playerID uint64) string {
	return fmt.Sprintf("balance:%d", playerID)
}

func (r *RedisLedger) GetBalance(ctx context.Context, playerID uint64) (int64, error) {
	balance, err := r.rdclient.Get(ctx, balanceKey(playerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *RedisLedger) Debit(ctx context.Context, playerID uint64, amount int64) (int64, error) {
	res, err := debitScript.Run(ctx, r.rdclient, []string{balanceKey(playerID)}, amount).Int64Slice()
	if err != nil {
		return 0, err
	}
	if res[0] == 0 {
		return res[1], InsufficientBalanceError{PlayerID: playerID, Balance: res[1], Amount: amount}
	}
	return res[1], nil
}

func (r *RedisLedger) Credit(ctx context.Context, playerID uint64, amount int64) (int64, error) {
	return r.rdclient.IncrBy(ctx, balanceKey(playerID), amount).Result()
}

// SetBalance seeds a player's balance.
func (r *RedisLedger) SetBalance(ctx context.Context, playerID uint64, amount int64) error {
	return r.rdclient.Set(ctx, balanceKey(playerID), amount, 0).Err()
}
