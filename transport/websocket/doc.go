// Package websocket streams live session updates to browsers and other
// watchers.
//
// A viewer connects with ?session=<id> and receives one JSON frame per
// change to that session:
//
//	{"session_id": "ab12cd34", "event": "move", "game_state": {...}}
//
// Events are state_update, move, reset, regenerate, victory and
// session_closed. The last one is followed by a normal close. Viewers are
// listen-only; moves go through the REST API or the MCP tools.
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Rooms are only touched by the Run goroutine. A viewer whose send buffer
// is full is disconnected rather than allowed to stall the others.
package websocket
