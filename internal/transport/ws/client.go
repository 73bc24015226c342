package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bowling/internal/app"
	"bowling/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 4096
	sendBufferSize = 256
)

// inboundMessage defers payload decoding to the handler of each message type
type inboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client is one watcher of a game. It may also record rolls.
type Client struct {
	conn      *websocket.Conn
	session   *app.GameSession
	clientID  string
	logger    *zap.Logger
	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewClient creates a client for an upgraded connection
func NewClient(conn *websocket.Conn, session *app.GameSession, clientID string, logger *zap.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		clientID: clientID,
		logger:   logger.With(zap.String("clientId", clientID)),
		outbox:   make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// GetClientID implements app.ClientConnection
func (c *Client) GetClientID() string {
	return c.clientID
}

// Send queues a message for the write loop. Messages to a slow or closed
// client are dropped rather than blocking the session broadcaster.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return nil
	default:
	}

	select {
	case c.outbox <- data:
	case <-c.done:
	default:
		c.logger.Warn("outbox full, message dropped")
	}
	return nil
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// Run serves the connection until the peer goes away or the session closes it
func (c *Client) Run() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		c.session.UnregisterClient(c.clientID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		c.dispatch(data)
	}
}

// writeLoop owns all writes to the connection. Each message is its own text frame.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var (
			kind int
			data []byte
		)

		select {
		case <-c.done:
			return
		case data = <-c.outbox:
			kind = websocket.TextMessage
		case <-ticker.C:
			kind = websocket.PingMessage
		}

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(kind, data); err != nil {
			c.Close()
			return
		}
	}
}

func (c *Client) dispatch(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgRecordRoll:
		c.recordRoll(msg.Payload)
	case MsgGetScorecard:
		c.reply(MsgScorecard, c.session.Scorecard())
	case MsgPing:
		c.reply(MsgPong, nil)
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// recordRoll records the pins in payload. The updated scorecard comes back
// through the session broadcast, not as a direct reply.
func (c *Client) recordRoll(payload json.RawMessage) {
	var req struct {
		Pins *int `json:"pins"`
	}
	if len(payload) == 0 || json.Unmarshal(payload, &req) != nil || req.Pins == nil {
		c.sendError(ErrCodeInvalidMessage, "Pins must be an integer")
		return
	}

	if _, err := c.session.RecordRoll(domain.Roll(*req.Pins)); err != nil {
		if errors.Is(err, domain.ErrGameFinished) {
			c.sendError(ErrCodeGameFinished, "Game already finished")
			return
		}
		c.logger.Error("record roll failed", zap.Error(err))
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

func (c *Client) sendConnected() {
	c.reply(MsgConnected, &ConnectedPayload{
		ClientID:  c.clientID,
		GameID:    c.session.GetGameID(),
		Scorecard: c.session.Scorecard(),
	})
}

func (c *Client) sendError(code, message string) {
	c.reply(MsgError, &ErrorPayload{Code: code, Message: message})
}

func (c *Client) reply(msgType MessageType, payload interface{}) {
	if err := c.Send(NewServerMessage(msgType, payload)); err != nil {
		c.logger.Debug("failed to encode reply", zap.String("type", string(msgType)), zap.Error(err))
	}
}
