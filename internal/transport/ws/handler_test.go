package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bowling/internal/app"
	"bowling/internal/config"
	"bowling/internal/repository/memory"
)

// frame is the common shape of server messages and game events
type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func setup(t *testing.T) (*app.GameHub, *httptest.Server) {
	t.Helper()

	hub := app.NewGameHub(config.Default().Game, memory.NewResultRepository(), zap.NewNop())
	srv := httptest.NewServer(NewHandler(hub, zap.NewNop()))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

// readUntil skips frames until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) frame {
	t.Helper()

	for i := 0; i < 20; i++ {
		if f := readFrame(t, conn); f.Type == msgType {
			return f
		}
	}
	t.Fatalf("no %s frame received", msgType)
	return frame{}
}

func TestHandler_RejectsUnknownGame(t *testing.T) {
	_, srv := setup(t)

	resp, err := http.Get(srv.URL + "/?gameId=NOPE99")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_ConnectedAndRecordRoll(t *testing.T) {
	hub, srv := setup(t)

	session, err := hub.CreateGame("Dude")
	require.NoError(t, err)

	conn := dial(t, srv, strings.ToLower(session.GetGameID()))

	connected := readFrame(t, conn)
	require.Equal(t, string(MsgConnected), connected.Type)

	var payload ConnectedPayload
	require.NoError(t, json.Unmarshal(connected.Payload, &payload))
	assert.Equal(t, session.GetGameID(), payload.GameID)
	assert.NotEmpty(t, payload.ClientID)
	assert.Equal(t, "Dude", payload.Scorecard.Bowler)

	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type:    MsgRecordRoll,
		Payload: RecordRollPayload{Pins: 10},
	}))

	rolled := readUntil(t, conn, "ROLL_RECORDED")
	assert.JSONEq(t, `{"pins":10,"rollCount":1}`, string(rolled.Payload))

	updated := readUntil(t, conn, "SCORE_UPDATED")
	assert.Contains(t, string(updated.Payload), `"rolls":[10]`)

	assert.Equal(t, 1, session.GetRollCount())
}

func TestHandler_InvalidMessages(t *testing.T) {
	hub, srv := setup(t)

	session, err := hub.CreateGame("Walter")
	require.NoError(t, err)

	conn := dial(t, srv, session.GetGameID())
	readUntil(t, conn, string(MsgConnected))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	errFrame := readUntil(t, conn, string(MsgError))
	assert.Contains(t, string(errFrame.Payload), ErrCodeInvalidMessage)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    MsgRecordRoll,
		"payload": map[string]interface{}{"pins": 2.5},
	}))
	errFrame = readUntil(t, conn, string(MsgError))
	assert.Contains(t, string(errFrame.Payload), "integer")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "bogus"}))
	errFrame = readUntil(t, conn, string(MsgError))
	assert.Contains(t, string(errFrame.Payload), "Unknown message type")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgPing}))
	readUntil(t, conn, string(MsgPong))

	assert.Zero(t, session.GetRollCount())
}

func TestHandler_GetScorecard(t *testing.T) {
	hub, srv := setup(t)

	session, err := hub.CreateGame("Maude")
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, err := session.RecordRoll(10)
		require.NoError(t, err)
	}

	conn := dial(t, srv, session.GetGameID())
	readUntil(t, conn, string(MsgConnected))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgGetScorecard}))
	card := readUntil(t, conn, string(MsgScorecard))
	assert.Contains(t, string(card.Payload), `"score":300`)
	assert.Contains(t, string(card.Payload), `"complete":true`)
}
