package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"bowling/internal/config"
	"bowling/internal/domain"
	"bowling/internal/metrics"
	"bowling/internal/model"
	"bowling/internal/repository"
)

// GameCodeChars are characters used for game codes (no ambiguous chars)
const GameCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GameHub manages all active game sessions
type GameHub struct {
	sessions  map[string]*GameSession
	mu        sync.RWMutex
	cfg       config.GameConfig
	results   repository.ResultRepository
	logger    *zap.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewGameHub creates a new game hub
func NewGameHub(cfg config.GameConfig, results repository.ResultRepository, logger *zap.Logger) *GameHub {
	hub := &GameHub{
		sessions: make(map[string]*GameSession),
		cfg:      cfg,
		results:  results,
		logger:   logger,
		done:     make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateGame creates a new game for the bowler and returns its session
func (h *GameHub) CreateGame(bowler string) (*GameSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Generate unique game code
	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = h.generateCode()
		if _, exists := h.sessions[code]; !exists {
			break
		}
	}

	if _, exists := h.sessions[code]; exists {
		return nil, fmt.Errorf("failed to generate unique game code")
	}

	game, err := domain.NewGame(code, bowler)
	if err != nil {
		return nil, err
	}

	session := NewGameSession(game, h.results, h.logger, h.cfg.EventBuffer)
	h.sessions[code] = session
	metrics.GameCreated()

	h.logger.Info("game created", zap.String("gameId", code), zap.String("bowler", game.Bowler))

	return session, nil
}

// GetSession returns a game session by code
func (h *GameHub) GetSession(code string) (*GameSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[code]
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	return session, nil
}

// DeleteSession removes a game session
func (h *GameHub) DeleteSession(code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[code]
	if !ok {
		return domain.ErrGameNotFound
	}

	session.Close()
	delete(h.sessions, code)
	metrics.GameRemoved()
	h.logger.Info("game deleted", zap.String("gameId", code))

	return nil
}

// GetSessionCount returns the number of active sessions
func (h *GameHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalRollCount returns the number of rolls across all sessions
func (h *GameHub) GetTotalRollCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetRollCount()
	}
	return total
}

// GetResult loads an archived result
func (h *GameHub) GetResult(ctx context.Context, id string) (*model.Result, error) {
	return h.results.Get(ctx, id)
}

// TopResults returns the best archived results
func (h *GameHub) TopResults(ctx context.Context, limit int) ([]*model.Result, error) {
	return h.results.Top(ctx, limit)
}

// Close shuts down the hub and all sessions
func (h *GameHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, session := range h.sessions {
			session.Close()
			metrics.GameRemoved()
		}
		h.sessions = make(map[string]*GameSession)
	})
}

// generateCode generates a random game code
func (h *GameHub) generateCode() string {
	b := make([]byte, h.cfg.CodeLength)
	rand.Read(b)

	code := make([]byte, h.cfg.CodeLength)
	for i := range code {
		code[i] = GameCodeChars[int(b[i])%len(GameCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically cleans up stale games
func (h *GameHub) cleanupLoop() {
	ticker := time.NewTicker(h.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleGames(time.Now())
		}
	}
}

// cleanupStaleGames removes unwatched games idle for longer than StaleAfter
func (h *GameHub) cleanupStaleGames(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	stale := make([]string, 0)
	for code, session := range h.sessions {
		if session.GetClientCount() == 0 && now.Sub(session.GetLastActivity()) > h.cfg.StaleAfter {
			stale = append(stale, code)
		}
	}

	for _, code := range stale {
		h.sessions[code].Close()
		delete(h.sessions, code)
		metrics.GameRemoved()
		h.logger.Info("stale game cleaned up", zap.String("gameId", code))
	}

	return len(stale)
}
