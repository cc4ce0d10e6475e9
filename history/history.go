// Package history receives final standings when a session is torn down.
// Fire-and-forget from the engine's perspective: a failed write is
// logged, never propagated back into the session teardown.
package history

// Standing is one participant's final result in a session.
type Standing struct {
	PlayerID   uint64 `json:"playerId"`
	Name       string `json:"name"`
	FinalStack int64  `json:"finalStack"`
	Forfeits   uint32 `json:"forfeits"`
}

// Record is the final standings of one completed session.
type Record struct {
	SessionID  string     `json:"sessionId"`
	HandsDealt uint32     `json:"handsDealt"`
	Standings  []Standing `json:"standings"`
}

type Recorder interface {
	Save(record *Record) error
}
