package store

import (
	"blackjack-table/internal/db"
	"blackjack-table/internal/game"
)

// DatabaseStore is a database implementation of session storage
type DatabaseStore struct {
	db *db.Database
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.Database) *DatabaseStore {
	return &DatabaseStore{
		db: database,
	}
}

// SaveSession saves a session to the database
func (s *DatabaseStore) SaveSession(sess *game.Session) error {
	return s.db.SaveSession(sess)
}

// GetSession retrieves a session by ID
func (s *DatabaseStore) GetSession(id string) (*game.Session, error) {
	return s.db.GetSession(id)
}

// GetPlayerSessions retrieves all sessions for a player
func (s *DatabaseStore) GetPlayerSessions(playerID string) ([]*game.Session, error) {
	return s.db.GetPlayerSessions(playerID)
}

// GetLatestPlayerSession retrieves a player's most recently updated session
func (s *DatabaseStore) GetLatestPlayerSession(playerID string) (*game.Session, error) {
	return s.db.GetLatestPlayerSession(playerID)
}

// DeleteSession removes a session from the database
func (s *DatabaseStore) DeleteSession(id string) error {
	return s.db.DeleteSession(id)
}

// GetAllSessions returns all sessions in the database
func (s *DatabaseStore) GetAllSessions() ([]*game.Session, error) {
	return s.db.GetAllSessions()
}
