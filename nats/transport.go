// Package nats adapts the engine to a NATS message bus: inbound player
// action tuples and outbound table snapshots and hand results. The
// engine stays agnostic to the delivery mechanism.
package nats

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/registry"
)

var natsLogger = logging.GetZeroLogger("nats::transport", nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// playerActionMsg is the inbound action tuple.
type playerActionMsg struct {
	PlayerID uint64 `json:"playerId"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
}

// Transport is the NATS adapter. It implements game.Broadcaster.
type Transport struct {
	nc  *natsgo.Conn
	reg *registry.Registry
	sub *natsgo.Subscription
}

func NewTransport(natsURL string) (*Transport, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to connect to nats server at %s", natsURL)
	}
	return &Transport{nc: nc}, nil
}

// Subscribe starts routing inbound action messages to the registry.
func (t *Transport) Subscribe(reg *registry.Registry) error {
	t.reg = reg
	sub, err := t.nc.Subscribe(actionSubjectWildcard(), t.onActionMsg)
	if err != nil {
		return errors.Wrap(err, "Failed to subscribe to action subject")
	}
	t.sub = sub
	return nil
}

func (t *Transport) Close() {
	if t.sub != nil {
		t.sub.Unsubscribe()
	}
	t.nc.Close()
}

func (t *Transport) onActionMsg(msg *natsgo.Msg) {
	// holdem.game.<id>.action
	tokens := strings.Split(msg.Subject, ".")
	if len(tokens) != 4 {
		natsLogger.Error().Msgf("Unexpected action subject %s", msg.Subject)
		return
	}
	gameID := tokens[2]

	var action playerActionMsg
	if err := json.Unmarshal(msg.Data, &action); err != nil {
		natsLogger.Error().Err(err).Str(logging.GameIDKey, gameID).Msg("Could not parse action message")
		return
	}
	actionType, ok := game.ParseActionType(action.Action)
	if !ok {
		natsLogger.Error().
			Str(logging.GameIDKey, gameID).
			Str(logging.ActionKey, action.Action).
			Msg("Unknown action type")
		return
	}

	if err := t.reg.PlayerActed(gameID, action.PlayerID, actionType, action.Amount); err != nil {
		// rejected actions are reported back on the table subject via
		// the next snapshot; here we only log them
		natsLogger.Info().
			Err(err).
			Str(logging.GameIDKey, gameID).
			Uint64(logging.PlayerIDKey, action.PlayerID).
			Msg("Action rejected")
	}
}

func (t *Transport) BroadcastTableSnapshot(snapshot *game.TableSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		natsLogger.Error().Err(err).Str(logging.GameIDKey, snapshot.GameID).Msg("Could not marshal table snapshot")
		return
	}
	if err := t.nc.Publish(tableSubject(snapshot.GameID), data); err != nil {
		natsLogger.Error().Err(err).Str(logging.GameIDKey, snapshot.GameID).Msg("Could not publish table snapshot")
	}
}

func (t *Transport) BroadcastHandResult(gameID string, result *game.HandResult) {
	data, err := json.Marshal(result)
	if err != nil {
		natsLogger.Error().Err(err).Str(logging.GameIDKey, gameID).Msg("Could not marshal hand result")
		return
	}
	if err := t.nc.Publish(resultSubject(gameID), data); err != nil {
		natsLogger.Error().Err(err).Str(logging.GameIDKey, gameID).Msg("Could not publish hand result")
	}
}
