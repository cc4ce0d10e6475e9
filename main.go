package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/history"
	"cardroom.io/holdem/ledger"
	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/nats"
	"cardroom.io/holdem/registry"
	"cardroom.io/holdem/rest"
	"cardroom.io/holdem/util"
)

var delayConfigFile *string
var envFile *string
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	delayConfigFile = flag.String("delays", "delays.yaml", "YAML file containing pause times")
	envFile = flag.String("env", "", "optional .env file to load before reading the environment")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return errors.Wrapf(err, "Unable to load env file %s", *envFile)
		}
	}

	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)

	delays, err := game.ParseDelayConfig(*delayConfigFile)
	if err != nil {
		return errors.Wrap(err, "Error while parsing delay config")
	}
	if util.Env.ShouldDisableDelays() {
		delays = game.Delays{}
	}

	chips, recorder, err := buildPersist()
	if err != nil {
		return err
	}

	transport, err := nats.NewTransport(util.Env.GetNatsURL())
	if err != nil {
		return errors.Wrap(err, "Error while connecting to NATS")
	}
	defer transport.Close()

	reg, err := registry.NewRegistry(registry.Config{
		MaxSessions:  util.Env.GetMaxSessions(),
		LobbyTimeout: time.Duration(util.Env.GetLobbyTimeoutSec()) * time.Second,
		Delays:       delays,
	}, quartz.NewReal(), chips, recorder, transport)
	if err != nil {
		return errors.Wrap(err, "Error while creating session registry")
	}

	if err := transport.Subscribe(reg); err != nil {
		return errors.Wrap(err, "Error while subscribing to action subjects")
	}

	restPort := util.Env.GetRestPort()
	mainLogger.Info().Msgf("Serving REST on port %d", restPort)
	return rest.NewServer(reg).Run(restPort)
}

func buildPersist() (ledger.Ledger, history.Recorder, error) {
	persistMethod := util.Env.GetPersistMethod()
	switch persistMethod {
	case "memory":
		return ledger.NewMemoryLedger(), history.NewMemoryRecorder(), nil
	case "redis":
		redisURL := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		redisPW := util.Env.GetRedisPW()
		redisDB := util.Env.GetRedisDB()
		return ledger.NewRedisLedger(redisURL, redisPW, redisDB),
			history.NewRedisRecorder(redisURL, redisPW, redisDB), nil
	default:
		return nil, nil, fmt.Errorf("Unsupported persist method: %s", persistMethod)
	}
}
