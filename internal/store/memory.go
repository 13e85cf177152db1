package store

import (
	"errors"
	"sync"

	"blackjack-table/internal/game"
)

// MemoryStore is an in-memory implementation of session storage
type MemoryStore struct {
	sessions map[string]*game.Session
	players  map[string][]*game.Session
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*game.Session),
		players:  make(map[string][]*game.Session),
	}
}

// SaveSession saves a session to the store
func (s *MemoryStore) SaveSession(sess *game.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; !exists {
		s.players[sess.PlayerID] = append(s.players[sess.PlayerID], sess)
	}
	s.sessions[sess.ID] = sess

	return nil
}

// GetSession retrieves a session by ID
func (s *MemoryStore) GetSession(id string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}

	return sess, nil
}

// GetPlayerSessions retrieves all sessions for a player
func (s *MemoryStore) GetPlayerSessions(playerID string) ([]*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, exists := s.players[playerID]
	if !exists {
		return []*game.Session{}, nil
	}

	return sessions, nil
}

// GetLatestPlayerSession retrieves a player's most recently updated session
func (s *MemoryStore) GetLatestPlayerSession(playerID string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, exists := s.players[playerID]
	if !exists || len(sessions) == 0 {
		return nil, errors.New("no session found for player")
	}

	latest := sessions[0]
	for _, sess := range sessions[1:] {
		if sess.UpdatedAt.After(latest.UpdatedAt) {
			latest = sess
		}
	}

	return latest, nil
}

// DeleteSession removes a session from the store
func (s *MemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[id]
	if !exists {
		return errors.New("session not found")
	}

	delete(s.sessions, id)

	playerSessions := s.players[sess.PlayerID]
	for i, ps := range playerSessions {
		if ps.ID == id {
			s.players[sess.PlayerID] = append(playerSessions[:i], playerSessions[i+1:]...)
			break
		}
	}

	return nil
}

// GetAllSessions returns all sessions in the store
func (s *MemoryStore) GetAllSessions() ([]*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*game.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}

	return sessions, nil
}
