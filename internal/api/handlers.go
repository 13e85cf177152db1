package api

import (
	"encoding/json"
	"net/http"

	"blackjack-table/internal/db"
	"blackjack-table/internal/game"
	"blackjack-table/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DefaultBankroll is the starting bankroll for players without a
// persisted record.
const DefaultBankroll = 1000

// Handlers contains all the API handlers
type Handlers struct {
	store    store.Store
	database *db.Database
	hub      *Hub
}

// NewHandlers creates a new instance of Handlers
func NewHandlers(store store.Store, database *db.Database, hub *Hub) *Handlers {
	return &Handlers{
		store:    store,
		database: database,
		hub:      hub,
	}
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Session endpoints
	r.HandleFunc("/api/session/new", h.NewSession).Methods("POST")
	r.HandleFunc("/api/session/{id}", h.GetSession).Methods("GET")

	// Command endpoints, one per discrete player action
	r.HandleFunc("/api/session/{id}/bet", h.command(game.CmdPlaceBet)).Methods("POST")
	r.HandleFunc("/api/session/{id}/clear-bet", h.command(game.CmdClearBet)).Methods("POST")
	r.HandleFunc("/api/session/{id}/deal", h.command(game.CmdDeal)).Methods("POST")
	r.HandleFunc("/api/session/{id}/hit", h.command(game.CmdHit)).Methods("POST")
	r.HandleFunc("/api/session/{id}/stand", h.command(game.CmdStand)).Methods("POST")
	r.HandleFunc("/api/session/{id}/double", h.command(game.CmdDouble)).Methods("POST")
	r.HandleFunc("/api/session/{id}/split", h.command(game.CmdSplit)).Methods("POST")
	r.HandleFunc("/api/session/{id}/insurance", h.command(game.CmdInsurance)).Methods("POST")
	r.HandleFunc("/api/session/{id}/surrender", h.command(game.CmdSurrender)).Methods("POST")

	// Player endpoints
	r.HandleFunc("/api/player/register", h.RegisterPlayer).Methods("POST")
	r.HandleFunc("/api/player/{id}", h.GetPlayer).Methods("GET")
	r.HandleFunc("/api/player/{id}/session", h.GetPlayerSession).Methods("GET")
	r.HandleFunc("/api/player/{id}/stats", h.GetPlayerStats).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws", h.hub.WebSocketHandler)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// NewSession seats a player at a fresh table
func (h *Handlers) NewSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
		Bankroll int    `json:"bankroll"`
	}

	// Body is optional; an anonymous session gets defaults
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if req.PlayerID == "" {
		req.PlayerID = uuid.New().String()
	}
	if req.Bankroll <= 0 {
		req.Bankroll = DefaultBankroll
	}

	// A registered player resumes with their persisted bankroll
	if h.database != nil {
		if player, err := h.database.GetPlayerByID(req.PlayerID); err == nil && player != nil {
			req.Bankroll = player.Bankroll
			h.database.UpdatePlayerLastSeen(req.PlayerID)
		}
	}

	sess := game.NewSession(req.PlayerID, req.Bankroll)

	if err := h.store.SaveSession(sess); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if h.database != nil {
		h.database.SaveSession(sess)
	}

	response(w, http.StatusCreated, map[string]interface{}{
		"id":       sess.ID,
		"playerId": sess.PlayerID,
		"game":     sess.Engine.Snapshot(),
	})
}

// GetSession returns the renderable state of a session
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	sess, err := h.store.GetSession(sessionID)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	response(w, http.StatusOK, sess.Engine.Snapshot())
}

// command builds the handler for a single engine command. The engine
// processes each command to completion, so by the time this returns
// the round has fully advanced (including the dealer's whole turn).
func (h *Handlers) command(cmd game.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		sessionID := vars["id"]

		var req struct {
			Amount int `json:"amount"`
		}
		if cmd == game.CmdPlaceBet {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				errorResponse(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		sess, err := h.store.GetSession(sessionID)
		if err != nil {
			errorResponse(w, http.StatusNotFound, "Session not found")
			return
		}

		prePhase := sess.Engine.Phase

		if err := sess.Apply(cmd, req.Amount); err != nil {
			// Rejected commands leave the engine in its prior valid
			// state; the snapshot carries the user-facing message.
			response(w, http.StatusBadRequest, map[string]interface{}{
				"error": err.Error(),
				"game":  sess.Engine.Snapshot(),
			})
			return
		}

		if err := h.store.SaveSession(sess); err != nil {
			errorResponse(w, http.StatusInternalServerError, "Failed to update session")
			return
		}

		if h.hub != nil {
			h.hub.BroadcastSession(sess)
		}

		if h.database != nil {
			h.database.SaveSession(sess)
			h.persistSettlement(sess, cmd, prePhase)
		}

		response(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"game":    sess.Engine.Snapshot(),
		})
	}
}

// persistSettlement records a settled round. Deal can settle a round
// on its own (blackjack); hit, stand and double settle from the
// player's turn.
func (h *Handlers) persistSettlement(sess *game.Session, cmd game.Command, prePhase game.Phase) {
	engine := sess.Engine
	if engine.Phase != game.RoundOver || engine.Outcome == "" {
		return
	}
	if cmd != game.CmdDeal && prePhase != game.PlayerTurn {
		return
	}

	h.database.SaveRoundResult(sess.ID, sess.PlayerID, engine.CurrentBet, string(engine.Outcome), engine.LastPayout)
	h.database.UpdatePlayerBankroll(sess.PlayerID, engine.Bankroll)
}

// RegisterPlayer registers a new player
func (h *Handlers) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		errorResponse(w, http.StatusBadRequest, "Player name is required")
		return
	}

	playerID := uuid.New().String()

	if h.database != nil {
		if err := h.database.CreatePlayer(playerID, req.Name, DefaultBankroll); err != nil {
			errorResponse(w, http.StatusInternalServerError, "Failed to create player")
			return
		}
	}

	response(w, http.StatusCreated, map[string]interface{}{
		"id":       playerID,
		"name":     req.Name,
		"bankroll": DefaultBankroll,
	})
}

// GetPlayer returns player information
func (h *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := vars["id"]

	if h.database == nil {
		errorResponse(w, http.StatusInternalServerError, "Database not available")
		return
	}

	player, err := h.database.GetPlayerByID(playerID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Error retrieving player")
		return
	}

	if player == nil {
		errorResponse(w, http.StatusNotFound, "Player not found")
		return
	}

	h.database.UpdatePlayerLastSeen(playerID)

	response(w, http.StatusOK, player)
}

// GetPlayerSession returns the player's most recently updated session
func (h *Handlers) GetPlayerSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := vars["id"]

	sess, err := h.store.GetLatestPlayerSession(playerID)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "No session found for player")
		return
	}

	response(w, http.StatusOK, map[string]interface{}{
		"id":       sess.ID,
		"playerId": sess.PlayerID,
		"game":     sess.Engine.Snapshot(),
	})
}

// GetPlayerStats returns player statistics
func (h *Handlers) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := vars["id"]

	if h.database == nil {
		errorResponse(w, http.StatusInternalServerError, "Database not available")
		return
	}

	stats, err := h.database.GetPlayerStats(playerID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Error retrieving player statistics")
		return
	}

	response(w, http.StatusOK, stats)
}
