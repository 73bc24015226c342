package ws

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bowling/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.GameHub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.GameHub, logger *zap.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Scoreboards are embedded on arbitrary origins
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := strings.ToUpper(r.URL.Query().Get("gameId"))
	if gameID == "" {
		http.Error(w, "gameId is required", http.StatusBadRequest)
		return
	}

	session, err := h.hub.GetSession(gameID)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.New().String()
	client := NewClient(conn, session, clientID, h.logger)
	session.RegisterClient(clientID, client)

	h.logger.Info("websocket connected",
		zap.String("gameId", gameID),
		zap.String("clientId", clientID),
	)

	client.sendConnected()
	client.Run()
}
