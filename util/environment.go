package util

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type tableServerEnvironment struct {
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	NatsURL       string
	RestPort      string
	ActionTimeout string
	LobbyTimeout  string
	MaxSessions   string
	DisableDelays string
	LogLevel      string
}

// Env is a helper object for accessing environment variables.
var Env = &tableServerEnvironment{
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	NatsURL:       "NATS_URL",
	RestPort:      "REST_PORT",
	ActionTimeout: "ACTION_TIMEOUT",
	LobbyTimeout:  "LOBBY_TIMEOUT",
	MaxSessions:   "MAX_SESSIONS",
	DisableDelays: "DISABLE_DELAYS",
	LogLevel:      "LOG_LEVEL",
}

func (t *tableServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(t.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (t *tableServerEnvironment) GetRedisHost() string {
	host := os.Getenv(t.RedisHost)
	if host == "" {
		return "localhost"
	}
	return host
}

func (t *tableServerEnvironment) GetRedisPort() int {
	portStr := os.Getenv(t.RedisPort)
	if portStr == "" {
		return 6379
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid Redis port %s. Using default 6379", portStr)
		return 6379
	}
	return portNum
}

func (t *tableServerEnvironment) GetRedisPW() string {
	return os.Getenv(t.RedisPW)
}

func (t *tableServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(t.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid Redis db %s. Using default 0", dbStr)
		return 0
	}
	return dbNum
}

func (t *tableServerEnvironment) GetNatsURL() string {
	url := os.Getenv(t.NatsURL)
	if url == "" {
		return "nats://localhost:4222"
	}
	return url
}

func (t *tableServerEnvironment) GetRestPort() int {
	portStr := os.Getenv(t.RestPort)
	if portStr == "" {
		return 8080
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid REST port %s. Using default 8080", portStr)
		return 8080
	}
	return portNum
}

// GetActionTimeoutSec returns the per-turn action timeout in seconds.
func (t *tableServerEnvironment) GetActionTimeoutSec() int {
	str := os.Getenv(t.ActionTimeout)
	if str == "" {
		return 30
	}
	sec, err := strconv.Atoi(str)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid action timeout %s. Using default 30", str)
		return 30
	}
	return sec
}

// GetLobbyTimeoutSec returns the lobby expiry in seconds from creation.
func (t *tableServerEnvironment) GetLobbyTimeoutSec() int {
	str := os.Getenv(t.LobbyTimeout)
	if str == "" {
		return 300
	}
	sec, err := strconv.Atoi(str)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid lobby timeout %s. Using default 300", str)
		return 300
	}
	return sec
}

func (t *tableServerEnvironment) GetMaxSessions() int {
	str := os.Getenv(t.MaxSessions)
	if str == "" {
		return 500
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid max sessions %s. Using default 500", str)
		return 500
	}
	return n
}

func (t *tableServerEnvironment) ShouldDisableDelays() bool {
	v := os.Getenv(t.DisableDelays)
	return v == "1" || v == "true"
}

func (t *tableServerEnvironment) GetZeroLogLogLevel() zerolog.Level {
	levelStr := os.Getenv(t.LogLevel)
	if levelStr == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid log level %s. Using default info", levelStr)
		return zerolog.InfoLevel
	}
	return level
}
