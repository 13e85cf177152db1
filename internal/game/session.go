package game

import (
	"time"

	"github.com/google/uuid"
)

// Session binds one engine to one player for the lifetime of their
// seat at the table. It is the unit of storage and of websocket
// broadcast.
type Session struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Engine    *Engine   `json:"engine"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates a session with a fresh engine.
func NewSession(playerID string, bankroll int) *Session {
	now := time.Now()

	return &Session{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		Engine:    NewEngine(bankroll),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply forwards a command to the engine and bumps the update time
// on success.
func (s *Session) Apply(cmd Command, amount int) error {
	if err := s.Engine.Apply(cmd, amount); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	return nil
}
