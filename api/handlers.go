package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crab.casa/fooskill/store"
)

type createUserRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	user, err := s.service.CreateUser(r.Context(), groupFrom(r), store.UserID(req.UserID), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleReadUser(w http.ResponseWriter, r *http.Request) {
	userID := store.UserID(chi.URLParam(r, "userID"))
	users, err := s.service.ReadUsers(r.Context(), groupFrom(r), []store.UserID{userID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users[0])
}

func (s *Server) handleQueryUser(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	users, err := s.service.QueryUser(r.Context(), groupFrom(r), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.GetLeaderboard(r.Context(), groupFrom(r), time.Now().UTC())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	var before *store.GameID
	if raw := r.URL.Query().Get("before"); raw != "" {
		id := store.GameID(raw)
		before = &id
	}

	games, err := s.service.ListGames(r.Context(), groupFrom(r), before)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	userID := store.UserID(chi.URLParam(r, "userID"))

	joined := r.URL.Query().Get("joined") == "true"
	if joined {
		games, err := s.service.GetRecentGamesJoined(r.Context(), groupFrom(r), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, games)
		return
	}

	games, err := s.service.GetRecentGames(r.Context(), groupFrom(r), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

type createGameRequest struct {
	GameID    string   `json:"game_id"`
	WinnerIDs []string `json:"winner_ids"`
	LoserIDs  []string `json:"loser_ids"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.GameID == "" {
		req.GameID = uuid.NewString()
	}

	winnerIDs := make([]store.UserID, len(req.WinnerIDs))
	for i, id := range req.WinnerIDs {
		winnerIDs[i] = store.UserID(id)
	}
	loserIDs := make([]store.UserID, len(req.LoserIDs))
	for i, id := range req.LoserIDs {
		loserIDs[i] = store.UserID(id)
	}

	game, err := s.service.CreateGame(r.Context(), groupFrom(r), store.GameID(req.GameID), winnerIDs, loserIDs, time.Now().UTC())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (s *Server) handleGroupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetGroupStats(r.Context(), groupFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
