package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bowling/internal/app"
	"bowling/internal/domain"
	"bowling/internal/model"
	"bowling/internal/repository"
)

const (
	defaultResultsLimit = 10
	maxResultsLimit     = 100
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateGameRequest is the body for game creation
type CreateGameRequest struct {
	Bowler string `json:"bowler"`
}

// CreateGameResponse is the response for game creation
type CreateGameResponse struct {
	GameID    string `json:"gameId"`
	Bowler    string `json:"bowler"`
	WatchLink string `json:"watchLink"`
}

// RecordRollRequest is the body for recording a roll
type RecordRollRequest struct {
	Pins *int `json:"pins"`
}

// ScoreResponse is the response for the score endpoint
type ScoreResponse struct {
	GameID string `json:"gameId"`
	Score  int    `json:"score"`
}

// FramesResponse is the response for the frames endpoint
type FramesResponse struct {
	GameID   string         `json:"gameId"`
	Frames   []domain.Frame `json:"frames"`
	Complete bool           `json:"complete"`
}

// ResultsResponse is the response for the leaderboard endpoint
type ResultsResponse struct {
	Results []*model.Result `json:"results"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveGames int `json:"activeGames"`
	TotalRolls  int `json:"totalRolls"`
}

// handleCreateGame handles POST /api/games
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}

	session, err := s.hub.CreateGame(req.Bowler)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	// Build watch link
	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}
	watchLink := scheme + "://" + r.Host + "/ws?gameId=" + session.GetGameID()

	s.sendJSON(w, http.StatusCreated, &CreateGameResponse{
		GameID:    session.GetGameID(),
		Bowler:    session.GetBowler(),
		WatchLink: watchLink,
	})
}

// handleGetGame handles GET /api/games/{gameId}
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	s.sendSuccess(w, session.Scorecard())
}

// handleDeleteGame handles DELETE /api/games/{gameId}
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.DeleteSession(gameID(r)); err != nil {
		s.sendDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRecordRoll handles POST /api/games/{gameId}/rolls
func (s *Server) handleRecordRoll(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req RecordRollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pins == nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Body must be JSON with an integer pins field")
		return
	}

	card, err := session.RecordRoll(domain.Roll(*req.Pins))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, card)
}

// handleGetScore handles GET /api/games/{gameId}/score
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	score, err := session.Score()
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &ScoreResponse{
		GameID: session.GetGameID(),
		Score:  score,
	})
}

// handleGetFrames handles GET /api/games/{gameId}/frames
func (s *Server) handleGetFrames(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	card := session.Scorecard()
	s.sendSuccess(w, &FramesResponse{
		GameID:   card.GameID,
		Frames:   card.Frames,
		Complete: card.Complete,
	})
}

// handleFinishGame handles POST /api/games/{gameId}/finish
func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	result, err := session.Finish(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, result)
}

// handleTopResults handles GET /api/results
func (s *Server) handleTopResults(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.sendError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = min(n, maxResultsLimit)
	}

	results, err := s.hub.TopResults(r.Context(), limit)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &ResultsResponse{Results: results})
}

// handleGetResult handles GET /api/results/{resultId}
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.hub.GetResult(r.Context(), chi.URLParam(r, "resultId"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, result)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveGames: s.hub.GetSessionCount(),
		TotalRolls:  s.hub.GetTotalRollCount(),
	})
}

// lookupSession resolves the game in the URL or writes a 404
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*app.GameSession, bool) {
	session, err := s.hub.GetSession(gameID(r))
	if err != nil {
		s.sendDomainError(w, err)
		return nil, false
	}
	return session, true
}

func gameID(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "gameId"))
}

// sendDomainError maps known errors to status codes
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		s.sendError(w, http.StatusNotFound, "GAME_NOT_FOUND", "Game not found")
	case errors.Is(err, repository.ErrResultNotFound):
		s.sendError(w, http.StatusNotFound, "RESULT_NOT_FOUND", "Result not found")
	case errors.Is(err, domain.ErrIncompleteGame):
		s.sendError(w, http.StatusConflict, "INCOMPLETE_GAME", err.Error())
	case errors.Is(err, domain.ErrGameFinished):
		s.sendError(w, http.StatusConflict, "GAME_FINISHED", "Game already finished")
	case errors.Is(err, domain.ErrEmptyBowler):
		s.sendError(w, http.StatusBadRequest, "MISSING_BOWLER", "Bowler name is required")
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	s.sendJSON(w, http.StatusOK, data)
}

// sendJSON sends a successful JSON response with the given status
func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
