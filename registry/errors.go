package registry

import "fmt"

type RegistryFullError struct {
	MaxSessions int
}

func (e RegistryFullError) Error() string {
	return fmt.Sprintf("Session registry is at capacity (%d). New lobbies are refused", e.MaxSessions)
}

type SessionNotFoundError struct {
	SessionID string
}

func (e SessionNotFoundError) Error() string {
	return fmt.Sprintf("No live lobby or game with ID %s", e.SessionID)
}
