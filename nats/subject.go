package nats

import "fmt"

// Subject layout:
//   holdem.game.<id>.action  player -> engine action tuples
//   holdem.game.<id>.table   engine -> table snapshots
//   holdem.game.<id>.result  engine -> hand results

func actionSubjectWildcard() string {
	return "holdem.game.*.action"
}

func tableSubject(gameID string) string {
	return fmt.Sprintf("holdem.game.%s.table", gameID)
}

func resultSubject(gameID string) string {
	return fmt.Sprintf("holdem.game.%s.result", gameID)
}
