package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

// Events pushed to viewers
const (
	EventStateUpdate = "state_update"
	EventMove        = "move"
	EventReset       = "reset"
	EventRegenerate  = "regenerate"
	EventVictory     = "victory"
	EventClosed      = "session_closed"
)

// Message is the JSON frame sent to every viewer of a session
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      any               `json:"data,omitempty"`

	// final drops the session's viewers once delivered
	final bool
}

type room = mapset.Set[*viewer]

type countQuery struct {
	sessionID string
	answer    chan int
}

// Hub fans session updates out to the websocket viewers of each session.
// rooms is owned by the Run goroutine; everything else talks to it over
// channels.
type Hub struct {
	upgrader websocket.Upgrader
	rooms    map[string]*room

	join    chan *viewer
	leave   chan *viewer
	outbox  chan *Message
	queries chan countQuery

	quit     chan struct{}
	stopOnce sync.Once
}

// NewHub returns a hub that accepts any origin. Call Run before serving.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		rooms:   make(map[string]*room),
		join:    make(chan *viewer),
		leave:   make(chan *viewer),
		outbox:  make(chan *Message, engine.WebSocketBufferSize),
		queries: make(chan countQuery),
		quit:    make(chan struct{}),
	}
}

// Run processes joins, leaves and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case v := <-h.join:
			h.add(v)
		case v := <-h.leave:
			h.remove(v)
		case msg := <-h.outbox:
			h.deliver(msg)
		case q := <-h.queries:
			n := 0
			if r, ok := h.rooms[q.sessionID]; ok {
				n = r.Size()
			}
			q.answer <- n
		case <-h.quit:
			for id := range h.rooms {
				h.dropRoom(id)
			}
			return
		}
	}
}

// Stop ends Run and disconnects every viewer. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// ServeWS upgrades the request and attaches the connection to sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	v := newViewer(h, conn, uuid.NewString(), sessionID)
	select {
	case h.join <- v:
	case <-h.quit:
		conn.Close()
		return
	}

	go v.writeLoop()
	go v.readLoop()
}

// ClientCount returns how many viewers are attached to sessionID
func (h *Hub) ClientCount(sessionID string) int {
	q := countQuery{sessionID: sessionID, answer: make(chan int, 1)}
	select {
	case h.queries <- q:
		return <-q.answer
	case <-h.quit:
		return 0
	}
}

// BroadcastToSession pushes state to the session's viewers. An empty event
// is sent as state_update.
func (h *Hub) BroadcastToSession(sessionID, event string, state *engine.GameState) {
	if event == "" {
		event = EventStateUpdate
	}
	h.publish(&Message{SessionID: sessionID, Event: event, GameState: state})
}

// Notify pushes an event without a game state
func (h *Hub) Notify(sessionID, event string, data any) {
	h.publish(&Message{SessionID: sessionID, Event: event, Data: data})
}

// CloseSession tells the session's viewers it is gone and disconnects them
func (h *Hub) CloseSession(sessionID string) {
	h.publish(&Message{SessionID: sessionID, Event: EventClosed, final: true})
}

func (h *Hub) publish(msg *Message) {
	select {
	case h.outbox <- msg:
	case <-h.quit:
	}
}

func (h *Hub) add(v *viewer) {
	r, ok := h.rooms[v.sessionID]
	if !ok {
		s := mapset.New[*viewer]()
		r = &s
		h.rooms[v.sessionID] = r
	}
	r.Put(v)
	v.logger().WithField("viewers", r.Size()).Debug("websocket viewer joined")
}

func (h *Hub) remove(v *viewer) {
	r, ok := h.rooms[v.sessionID]
	if !ok || !r.Has(v) {
		return
	}
	r.Remove(v)
	close(v.send)
	if r.Size() == 0 {
		delete(h.rooms, v.sessionID)
	}
	v.logger().WithField("viewers", r.Size()).Debug("websocket viewer left")
}

func (h *Hub) dropRoom(sessionID string) {
	r, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	r.Each(func(v *viewer) { close(v.send) })
	delete(h.rooms, sessionID)
}

// deliver queues msg on each viewer. Viewers with a full buffer are dropped.
func (h *Hub) deliver(msg *Message) {
	r, ok := h.rooms[msg.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).WithField("event", msg.Event).Error("failed to encode websocket message")
		return
	}

	var slow []*viewer
	r.Each(func(v *viewer) {
		select {
		case v.send <- data:
		default:
			slow = append(slow, v)
		}
	})
	for _, v := range slow {
		v.logger().Warn("websocket viewer too slow, disconnecting")
		h.remove(v)
	}

	if msg.final {
		h.dropRoom(msg.SessionID)
	}
}
