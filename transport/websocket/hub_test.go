package websocket

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

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

// stubViewer has no connection; the tests read its send channel directly
func stubViewer(h *Hub, sessionID string, buffer int) *viewer {
	return &viewer{id: sessionID + "-viewer", sessionID: sessionID, hub: h, send: make(chan []byte, buffer)}
}

func roomSize(h *Hub, sessionID string) int {
	if r, ok := h.rooms[sessionID]; ok {
		return r.Size()
	}
	return 0
}

func readMessage(t *testing.T, v *viewer) Message {
	t.Helper()
	select {
	case data, ok := <-v.send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no message queued")
		return Message{}
	}
}

func TestHub_AddRemove(t *testing.T) {
	h := NewHub()
	a := stubViewer(h, "room", 4)
	b := stubViewer(h, "room", 4)

	h.add(a)
	h.add(b)
	assert.Equal(t, 2, roomSize(h, "room"))

	h.remove(a)
	assert.Equal(t, 1, roomSize(h, "room"))
	_, open := <-a.send
	assert.False(t, open)

	// second remove is a no-op
	h.remove(a)

	h.remove(b)
	assert.NotContains(t, h.rooms, "room")
}

func TestHub_DeliverStaysInSession(t *testing.T) {
	h := NewHub()
	v := stubViewer(h, "mine", 4)
	other := stubViewer(h, "theirs", 4)
	h.add(v)
	h.add(other)

	state := &engine.GameState{PlayerPos: engine.Position{X: 2, Y: 1}, GoalPos: engine.Position{X: 4, Y: 4}}
	h.BroadcastToSession("mine", EventMove, state)
	h.deliver(<-h.outbox)

	msg := readMessage(t, v)
	assert.Equal(t, "mine", msg.SessionID)
	assert.Equal(t, EventMove, msg.Event)
	require.NotNil(t, msg.GameState)
	assert.Equal(t, state.PlayerPos, msg.GameState.PlayerPos)

	assert.Empty(t, other.send)
}

func TestHub_EmptyEventIsStateUpdate(t *testing.T) {
	h := NewHub()
	h.BroadcastToSession("s", "", &engine.GameState{})
	assert.Equal(t, EventStateUpdate, (<-h.outbox).Event)
}

func TestHub_Notify(t *testing.T) {
	h := NewHub()
	h.Notify("s", "custom", "payload")

	msg := <-h.outbox
	assert.Equal(t, "s", msg.SessionID)
	assert.Equal(t, "custom", msg.Event)
	assert.Equal(t, "payload", msg.Data)
	assert.Nil(t, msg.GameState)
}

func TestHub_DropsSlowViewers(t *testing.T) {
	h := NewHub()
	slow := stubViewer(h, "s", 1)
	fast := stubViewer(h, "s", 4)
	h.add(slow)
	h.add(fast)

	h.deliver(&Message{SessionID: "s", Event: "one"})
	h.deliver(&Message{SessionID: "s", Event: "two"})

	assert.Equal(t, 1, roomSize(h, "s"))
	assert.Equal(t, "one", readMessage(t, fast).Event)
	assert.Equal(t, "two", readMessage(t, fast).Event)
}

func TestHub_CloseSession(t *testing.T) {
	h := NewHub()
	v := stubViewer(h, "gone", 4)
	h.add(v)

	h.CloseSession("gone")
	h.deliver(<-h.outbox)

	assert.Equal(t, EventClosed, readMessage(t, v).Event)
	_, open := <-v.send
	assert.False(t, open)
	assert.NotContains(t, h.rooms, "gone")
}

func TestHub_Stop(t *testing.T) {
	h := NewHub()
	v := stubViewer(h, "s", 1)
	h.add(v)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	_, open := <-v.send
	assert.False(t, open)

	// nothing blocks once stopped
	h.Notify("s", "e", nil)
	h.CloseSession("s")
	assert.Zero(t, h.ClientCount("s"))
}

func dial(t *testing.T, h *Hub, sessionID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return h.ClientCount(sessionID) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestServeWS_JoinAndLeave(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := dial(t, h, "live")
	assert.Equal(t, 1, h.ClientCount("live"))

	conn.Close()
	assert.Eventually(t, func() bool { return h.ClientCount("live") == 0 }, time.Second, 5*time.Millisecond)
}

func TestServeWS_ReceivesUpdates(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := dial(t, h, "watch")

	won := &engine.GameState{PlayerPos: engine.Position{X: 3, Y: 3}, GameOver: true, Victory: true}
	h.BroadcastToSession("watch", EventVictory, won)
	h.CloseSession("watch")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	var first, second Message
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))

	assert.Equal(t, EventVictory, first.Event)
	require.NotNil(t, first.GameState)
	assert.True(t, first.GameState.Victory)
	assert.Equal(t, won.PlayerPos, first.GameState.PlayerPos)

	assert.Equal(t, EventClosed, second.Event)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Eventually(t, func() bool { return h.ClientCount("watch") == 0 }, time.Second, 5*time.Millisecond)
}
