package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
	"github.com/wricardo/mcp-training/mazerunner/transport/websocket"
)

// Server exposes a GameService over HTTP under /api and streams session
// updates on /ws
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer wires the routes. hub may be nil when live updates are disabled.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{service: gameService, hub: hub, router: mux.NewRouter()}

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(logRequests)

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/mazes", s.handleGenerateMaze).Methods(http.MethodPost)

	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)

	sessions := api.PathPrefix("/sessions/{id}").Subrouter()
	sessions.HandleFunc("", s.handleGetSession).Methods(http.MethodGet)
	sessions.HandleFunc("", s.handleDeleteSession).Methods(http.MethodDelete)
	sessions.HandleFunc("/state", s.handleGetGameState).Methods(http.MethodGet)
	sessions.HandleFunc("/scene", s.handleGetScene).Methods(http.MethodGet)
	sessions.HandleFunc("/solution", s.handleGetSolution).Methods(http.MethodGet)
	sessions.HandleFunc("/history", s.handleGetHistory).Methods(http.MethodGet)
	sessions.HandleFunc("/move", s.handleMove).Methods(http.MethodPost)
	sessions.HandleFunc("/bulk-move", s.handleBulkMove).Methods(http.MethodPost)
	sessions.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	sessions.HandleFunc("/regenerate", s.handleRegenerate).Methods(http.MethodPost)

	api.HandleFunc("/configs", s.handleListConfigs).Methods(http.MethodGet)
	api.HandleFunc("/configs", s.handleCreateConfig).Methods(http.MethodPost)
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.handleWebSocket)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusRecorder remembers the status code written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs every API call at debug level. It is not mounted on /ws,
// which needs the connection hijacked.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("api request")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, service.ErrorResponse{Error: message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidConfig), errors.Is(err, maze.ErrInvalidDimensions):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// reply writes v, or the error when err is set
func reply(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, status, v)
}

// decode reads a JSON body into v. With optional set an empty body is accepted.
func decode(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return io.EOF
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// broadcast pushes a state change to the session's live viewers
func (s *Server) broadcast(sessionID, event string, state *engine.GameState) {
	if s.hub == nil || state == nil {
		return
	}
	if event == websocket.EventMove && state.Victory {
		event = websocket.EventVictory
	}
	s.hub.BroadcastToSession(sessionID, event, state)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "live updates are disabled")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session parameter required")
		return
	}
	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Invalid session")
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}
