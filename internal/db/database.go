package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"blackjack-table/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

// Player is the persisted player record. Hands and bets live in the
// session state, not here.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Bankroll int       `json:"bankroll"`
	LastSeen time.Time `json:"lastSeen"`
}

type PlayerStats struct {
	PlayerID     string    `json:"playerId"`
	PlayerName   string    `json:"playerName"`
	RoundsPlayed int       `json:"roundsPlayed"`
	RoundsWon    int       `json:"roundsWon"`
	TotalBets    int       `json:"totalBets"`
	TotalPayouts int       `json:"totalPayouts"`
	LastPlayed   time.Time `json:"lastPlayed"`
}

// NewDatabase opens (and if needed initializes) the SQLite database
// at the given path.
func NewDatabase(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// initTables creates the necessary tables if they don't exist
func initTables(db *sql.DB) error {
	// Players table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			bankroll INTEGER NOT NULL DEFAULT 1000,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating players table: %v", err)
	}

	// Sessions table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP,
			phase TEXT NOT NULL,
			state TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating sessions table: %v", err)
	}

	// Round results table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS round_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			bet INTEGER NOT NULL,
			result TEXT NOT NULL,
			payout INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions (id),
			FOREIGN KEY (player_id) REFERENCES players (id)
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating round_results table: %v", err)
	}

	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetPlayerByID retrieves a player from the database by ID
func (d *Database) GetPlayerByID(playerID string) (*Player, error) {
	var player Player

	err := d.db.QueryRow("SELECT id, name, bankroll, last_seen FROM players WHERE id = ?", playerID).Scan(
		&player.ID,
		&player.Name,
		&player.Bankroll,
		&player.LastSeen,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Player not found
		}
		return nil, err
	}

	return &player, nil
}

// CreatePlayer creates a new player in the database
func (d *Database) CreatePlayer(playerID, playerName string, bankroll int) error {
	now := time.Now()
	_, err := d.db.Exec(
		"INSERT INTO players (id, name, bankroll, created_at, last_seen) VALUES (?, ?, ?, ?, ?)",
		playerID, playerName, bankroll, now, now,
	)
	return err
}

// UpdatePlayerBankroll updates a player's bankroll in the database
func (d *Database) UpdatePlayerBankroll(playerID string, bankroll int) error {
	_, err := d.db.Exec(
		"UPDATE players SET bankroll = ?, last_seen = ? WHERE id = ?",
		bankroll, time.Now(), playerID,
	)
	return err
}

// UpdatePlayerLastSeen updates a player's last seen timestamp
func (d *Database) UpdatePlayerLastSeen(playerID string) error {
	_, err := d.db.Exec(
		"UPDATE players SET last_seen = ? WHERE id = ?",
		time.Now(), playerID,
	)
	return err
}

// SaveSession saves a session to the database
func (d *Database) SaveSession(sess *game.Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		INSERT INTO sessions (id, player_id, created_at, updated_at, phase, state)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = excluded.updated_at, phase = excluded.phase, state = excluded.state
	`,
		sess.ID, sess.PlayerID, sess.CreatedAt, time.Now(), string(sess.Engine.Phase), string(state))
	return err
}

// GetSession retrieves a session by ID
func (d *Database) GetSession(id string) (*game.Session, error) {
	var state []byte
	var sess game.Session

	err := d.db.QueryRow(`
		SELECT state FROM sessions WHERE id = ?
	`, id).Scan(&state)

	if err != nil {
		return nil, errors.New("session not found")
	}

	if err := json.Unmarshal(state, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// GetPlayerSessions retrieves all sessions for a player
func (d *Database) GetPlayerSessions(playerID string) ([]*game.Session, error) {
	rows, err := d.db.Query(`
		SELECT state FROM sessions WHERE player_id = ? ORDER BY created_at DESC
	`, playerID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetLatestPlayerSession retrieves a player's most recently updated session
func (d *Database) GetLatestPlayerSession(playerID string) (*game.Session, error) {
	var state []byte
	var sess game.Session

	err := d.db.QueryRow(`
		SELECT state FROM sessions
		WHERE player_id = ?
		ORDER BY updated_at DESC LIMIT 1
	`, playerID).Scan(&state)

	if err != nil {
		return nil, errors.New("no session found for player")
	}

	if err := json.Unmarshal(state, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// DeleteSession removes a session from the database
func (d *Database) DeleteSession(id string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// GetAllSessions returns all sessions in the database
func (d *Database) GetAllSessions() ([]*game.Session, error) {
	rows, err := d.db.Query(`
		SELECT state FROM sessions ORDER BY created_at DESC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]*game.Session, error) {
	var sessions []*game.Session
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}

		var sess game.Session
		if err := json.Unmarshal(state, &sess); err != nil {
			return nil, err
		}

		sessions = append(sessions, &sess)
	}

	return sessions, rows.Err()
}

// SaveRoundResult saves a settled round for a player
func (d *Database) SaveRoundResult(sessionID, playerID string, bet int, result string, payout int) error {
	_, err := d.db.Exec(
		"INSERT INTO round_results (session_id, player_id, bet, result, payout, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		sessionID, playerID, bet, result, payout, time.Now(),
	)
	return err
}

// GetPlayerStats retrieves a player's statistics
func (d *Database) GetPlayerStats(playerID string) (*PlayerStats, error) {
	var stats PlayerStats
	var playerName string

	// Get player name
	err := d.db.QueryRow("SELECT name FROM players WHERE id = ?", playerID).Scan(&playerName)
	if err != nil {
		return nil, err
	}

	// Get total rounds played
	err = d.db.QueryRow("SELECT COUNT(*) FROM round_results WHERE player_id = ?", playerID).Scan(&stats.RoundsPlayed)
	if err != nil {
		log.Printf("Error getting rounds played: %v", err)
	}

	// Get total rounds won
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM round_results WHERE player_id = ? AND result IN ('win', 'blackjack', 'dealerBust')",
		playerID,
	).Scan(&stats.RoundsWon)
	if err != nil {
		log.Printf("Error getting rounds won: %v", err)
	}

	// Get total bets
	err = d.db.QueryRow("SELECT COALESCE(SUM(bet), 0) FROM round_results WHERE player_id = ?", playerID).Scan(&stats.TotalBets)
	if err != nil {
		log.Printf("Error getting total bets: %v", err)
	}

	// Get total payouts
	err = d.db.QueryRow("SELECT COALESCE(SUM(payout), 0) FROM round_results WHERE player_id = ?", playerID).Scan(&stats.TotalPayouts)
	if err != nil {
		log.Printf("Error getting total payouts: %v", err)
	}

	// Get last played timestamp
	err = d.db.QueryRow("SELECT MAX(created_at) FROM round_results WHERE player_id = ?", playerID).Scan(&stats.LastPlayed)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("Error getting last played: %v", err)
	}

	stats.PlayerID = playerID
	stats.PlayerName = playerName

	return &stats, nil
}
