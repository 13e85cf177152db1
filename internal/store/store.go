package store

import "blackjack-table/internal/game"

// Store defines the interface for session storage
type Store interface {
	// SaveSession saves a session to the store
	SaveSession(s *game.Session) error

	// GetSession retrieves a session by ID
	GetSession(id string) (*game.Session, error)

	// GetPlayerSessions retrieves all sessions for a player
	GetPlayerSessions(playerID string) ([]*game.Session, error)

	// GetLatestPlayerSession retrieves a player's most recently
	// updated session
	GetLatestPlayerSession(playerID string) (*game.Session, error)

	// DeleteSession removes a session from the store
	DeleteSession(id string) error

	// GetAllSessions returns all sessions in the store
	GetAllSessions() ([]*game.Session, error)
}
