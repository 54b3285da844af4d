package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = pongTimeout * 9 / 10

	// viewers only send control frames
	readLimit = 512
)

// viewer is one websocket connection watching a session
type viewer struct {
	id        string
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
}

func newViewer(h *Hub, conn *websocket.Conn, id, sessionID string) *viewer {
	return &viewer{
		id:        id,
		sessionID: sessionID,
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}
}

func (v *viewer) logger() *log.Entry {
	return log.WithFields(log.Fields{"session": v.sessionID, "viewer": v.id})
}

// readLoop discards incoming frames so pongs and close frames are handled,
// and leaves the hub when the peer goes away
func (v *viewer) readLoop() {
	defer func() {
		select {
		case v.hub.leave <- v:
		case <-v.hub.quit:
		}
		v.conn.Close()
	}()

	v.conn.SetReadLimit(readLimit)
	extend := func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	}
	_ = extend("")
	v.conn.SetPongHandler(extend)

	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				v.logger().WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

// writeLoop drains send onto the connection and keeps it alive with pings.
// A closed send channel means the hub dropped the viewer.
func (v *viewer) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case data, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
