package game

import "fmt"

// InvalidGameConfigError rejects a table configuration before a lobby
// is created for it. The message always names the violated bound.
type InvalidGameConfigError struct {
	Msg string
}

func (e InvalidGameConfigError) Error() string {
	return fmt.Sprintf("Invalid game config: %s", e.Msg)
}

// InvalidActionError rejects an action without mutating hand state. The
// message always names the violated rule.
type InvalidActionError struct {
	Msg string
}

func (e InvalidActionError) Error() string {
	return e.Msg
}

type UnexpectedHandStatusError struct {
	Expected HandStatus
	Current  HandStatus
}

func (e UnexpectedHandStatusError) Error() string {
	return fmt.Sprintf("Unexpected hand status. Expected: %s, Current: %s", e.Expected, e.Current)
}

type NotEnoughPlayersError struct {
	Needed  uint32
	Present uint32
}

func (e NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("Not enough funded players to deal a hand. Needed: %d, Present: %d", e.Needed, e.Present)
}
