package history

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisRecorder appends standings records to a per-session Redis list.
type RedisRecorder struct {
	rdclient *redis.Client
}

func NewRedisRecorder(redisURL string, redisPW string, redisDB int) *RedisRecorder {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisRecorder{
		rdclient: rdclient,
	}
}

func (r *RedisRecorder) Save(record *Record) error {
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("history:%s", record.SessionID)
	return r.rdclient.RPush(context.Background(), key, recordBytes).Err()
}
