package ws

import (
	"time"

	"bowling/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgRecordRoll   MessageType = "record_roll"
	MsgGetScorecard MessageType = "get_scorecard"
	MsgPing         MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgScorecard MessageType = "scorecard"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// RecordRollPayload is the payload for record_roll message
type RecordRollPayload struct {
	Pins int `json:"pins"`
}

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ClientID  string                   `json:"clientId"`
	GameID    string                   `json:"gameId"`
	Scorecard *domain.ScorecardPayload `json:"scorecard"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeGameFinished   = "GAME_FINISHED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
