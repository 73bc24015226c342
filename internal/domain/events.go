package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventGameCreated  EventType = "GAME_CREATED"
	EventRollRecorded EventType = "ROLL_RECORDED"
	EventScoreUpdated EventType = "SCORE_UPDATED"
	EventGameFinished EventType = "GAME_FINISHED"
	EventError        EventType = "ERROR"
)

// GameEvent represents an event that occurred in the game
type GameEvent struct {
	Type      EventType   `json:"type"`
	GameID    string      `json:"gameId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new game event
func NewEvent(eventType EventType, gameID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// ScorecardPayload is the full state of a game
type ScorecardPayload struct {
	GameID   string  `json:"gameId"`
	Bowler   string  `json:"bowler"`
	Status   Status  `json:"status"`
	Rolls    []Roll  `json:"rolls"`
	Frames   []Frame `json:"frames"`
	Score    *int    `json:"score,omitempty"` // Only set once all ten frames resolve
	Complete bool    `json:"complete"`
}

// RollRecordedPayload is sent after each roll
type RollRecordedPayload struct {
	Pins      Roll `json:"pins"`
	RollCount int  `json:"rollCount"`
}

// GameFinishedPayload is sent when a game is finished and archived
type GameFinishedPayload struct {
	ResultID string `json:"resultId"`
	Bowler   string `json:"bowler"`
	Score    int    `json:"score"`
}

// ErrorPayload is sent when an error occurs
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
