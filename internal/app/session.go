package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bowling/internal/domain"
	"bowling/internal/metrics"
	"bowling/internal/model"
	"bowling/internal/repository"
)

// ClientConnection represents a connected watcher
type ClientConnection interface {
	Send(message interface{}) error
	GetClientID() string
	Close() error
}

// GameSession wraps a game with concurrency control and client management.
// mu guards the game, so recording and scoring never interleave.
type GameSession struct {
	game         *domain.Game
	mu           sync.RWMutex
	lastActivity time.Time

	clients   map[string]ClientConnection // clientID -> client
	clientsMu sync.RWMutex

	results repository.ResultRepository
	logger  *zap.Logger

	// Event channel for broadcasting
	events    chan *domain.GameEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewGameSession creates a new game session
func NewGameSession(game *domain.Game, results repository.ResultRepository, logger *zap.Logger, eventBuffer int) *GameSession {
	session := &GameSession{
		game:         game,
		lastActivity: game.CreatedAt,
		clients:      make(map[string]ClientConnection),
		results:      results,
		logger:       logger.With(zap.String("gameId", game.ID)),
		events:       make(chan *domain.GameEvent, eventBuffer),
		done:         make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// GetGameID returns the game code
func (s *GameSession) GetGameID() string {
	return s.game.ID
}

// GetBowler returns the bowler's name
func (s *GameSession) GetBowler() string {
	return s.game.Bowler
}

// GetCreatedAt returns when the game was created
func (s *GameSession) GetCreatedAt() time.Time {
	return s.game.CreatedAt
}

// GetLastActivity returns when the game last changed
func (s *GameSession) GetLastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// GetRollCount returns the number of recorded rolls
func (s *GameSession) GetRollCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.RollCount()
}

// GetStatus returns the game status
func (s *GameSession) GetStatus() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Status
}

// RegisterClient registers a watcher connection
func (s *GameSession) RegisterClient(clientID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[clientID] = client
}

// UnregisterClient removes a watcher connection
func (s *GameSession) UnregisterClient(clientID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, clientID)
}

// GetClientCount returns the number of connected watchers
func (s *GameSession) GetClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// RecordRoll records a roll and broadcasts the updated scorecard
func (s *GameSession) RecordRoll(pins domain.Roll) (*domain.ScorecardPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Record(pins); err != nil {
		return nil, err
	}
	s.lastActivity = time.Now()
	metrics.RollRecorded()

	card := s.game.Scorecard()

	s.queueEvent(domain.NewEvent(domain.EventRollRecorded, s.game.ID, &domain.RollRecordedPayload{
		Pins:      pins,
		RollCount: len(card.Rolls),
	}))
	s.queueEvent(domain.NewEvent(domain.EventScoreUpdated, s.game.ID, card))

	s.logger.Debug("roll recorded", zap.Int("pins", int(pins)), zap.Int("rollCount", len(card.Rolls)))

	return card, nil
}

// Score returns the game total, or domain.ErrIncompleteGame
func (s *GameSession) Score() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, err := s.game.Score()
	metrics.ScoreComputed(err == nil)

	return score, err
}

// Scorecard returns a snapshot of the game
func (s *GameSession) Scorecard() *domain.ScorecardPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Scorecard()
}

// Finish archives the final score and closes the game for further rolls
func (s *GameSession) Finish(ctx context.Context) (*model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsFinished() {
		return nil, domain.ErrGameFinished
	}

	score, err := s.game.Score()
	if err != nil {
		return nil, err
	}

	rolls := s.game.Rolls()
	result := &model.Result{
		ID:         uuid.NewString(),
		GameID:     s.game.ID,
		Bowler:     s.game.Bowler,
		Rolls:      make([]int, len(rolls)),
		Score:      score,
		FinishedAt: time.Now(),
	}
	for i, r := range rolls {
		result.Rolls[i] = int(r)
	}

	// Archive first so a failed save leaves the game open
	if err := s.results.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to archive result: %w", err)
	}

	if _, err := s.game.Finish(); err != nil {
		return nil, err
	}
	s.lastActivity = result.FinishedAt
	metrics.GameFinished(score)

	s.queueEvent(domain.NewEvent(domain.EventGameFinished, s.game.ID, &domain.GameFinishedPayload{
		ResultID: result.ID,
		Bowler:   result.Bowler,
		Score:    score,
	}))

	s.logger.Info("game finished", zap.String("resultId", result.ID), zap.Int("score", score))

	return result, nil
}

// queueEvent adds an event to the broadcast queue
func (s *GameSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", zap.String("type", string(event.Type)))
	}
}

// eventLoop processes events and broadcasts to clients
func (s *GameSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to every watcher
func (s *GameSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for clientID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", zap.String("clientId", clientID), zap.Error(err))
		}
	}
}

// Close shuts down the session
func (s *GameSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		// Close all client connections
		s.clientsMu.Lock()
		for _, client := range s.clients {
			if err := client.Close(); err != nil {
				s.logger.Debug("failed to close client", zap.Error(err))
			}
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
