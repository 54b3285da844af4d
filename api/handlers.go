package api

import (
	"cmp"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
	"github.com/wricardo/mcp-training/mazerunner/transport/websocket"
)

const (
	defaultHistoryLimit = 20
	invalidBody         = "Invalid request body"
)

func sessionID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// positiveInt reads a positive integer query parameter, falling back to def
func positiveInt(q url.Values, key string, def int) int {
	if n, err := strconv.Atoi(q.Get(key)); err == nil && n > 0 {
		return n
	}
	return def
}

func (s *Server) handleGenerateMaze(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateMazeRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	info, err := s.service.GenerateMaze(r.Context(), req.Rows, req.Columns, req.Seed)
	reply(w, http.StatusCreated, info, err)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	info, err := s.service.CreateSession(r.Context(), req.Config(), req.Seed)
	reply(w, http.StatusCreated, info, err)
}

// handleListSessions accepts sort=accessed|created, order=desc|asc and limit
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	list := service.SessionList{Total: len(sessions), Sort: "accessed", Order: "desc"}
	if q.Get("sort") == "created" {
		list.Sort = "created"
	}
	if q.Get("order") == "asc" {
		list.Order = "asc"
	}

	slices.SortStableFunc(sessions, func(a, b *service.SessionInfo) int {
		ta, tb := a.LastAccessedAt, b.LastAccessedAt
		if list.Sort == "created" {
			ta, tb = a.CreatedAt, b.CreatedAt
		}
		if list.Order == "asc" {
			return ta.Compare(tb)
		}
		return tb.Compare(ta)
	})

	if limit := positiveInt(q, "limit", len(sessions)); limit < len(sessions) {
		sessions = sessions[:limit]
	}
	list.Sessions = sessions
	list.Count = len(sessions)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), sessionID(r))
	reply(w, http.StatusOK, info, err)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := s.service.DeleteSession(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	if s.hub != nil {
		s.hub.CloseSession(id)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Session %s deleted", id)})
}

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), sessionID(r))
	reply(w, http.StatusOK, state, err)
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.service.GetScene(r.Context(), sessionID(r))
	reply(w, http.StatusOK, scene, err)
}

func (s *Server) handleGetSolution(w http.ResponseWriter, r *http.Request) {
	solution, err := s.service.GetSolution(r.Context(), sessionID(r))
	reply(w, http.StatusOK, solution, err)
}

// handleGetHistory accepts page, limit and order=desc|asc
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := service.HistoryOptions{
		Page:  positiveInt(q, "page", 1),
		Limit: positiveInt(q, "limit", defaultHistoryLimit),
		Order: "desc",
	}
	if q.Get("order") == "asc" {
		opts.Order = "asc"
	}

	history, err := s.service.GetMoveHistory(r.Context(), sessionID(r), opts)
	reply(w, http.StatusOK, history, err)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var req service.MoveRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	result, err := s.service.Move(r.Context(), id, req.Direction, req.Reset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.broadcast(id, websocket.EventMove, result.GameState)

	entry := log.WithFields(log.Fields{"session": id, "direction": req.Direction})
	switch {
	case result.Step != nil:
		st := result.Step
		entry.Infof("moved (%d,%d)->(%d,%d) victory=%v", st.From.X, st.From.Y, st.To.X, st.To.Y, st.Victory)
	case result.AttemptedTo != nil:
		a := result.AttemptedTo
		entry.Infof("blocked at (%d,%d): %s", a.X, a.Y, a.Reason)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var req service.BulkMoveRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	result, err := s.service.BulkMove(r.Context(), id, req.Moves, req.Reset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.broadcast(id, websocket.EventMove, result.GameState)

	log.WithFields(log.Fields{
		"session":  id,
		"executed": result.MovesExecuted,
		"asked":    result.RequestedMoves,
		"stop":     cmp.Or(result.StopReasonCode, "none"),
		"distance": result.DistanceToGoal,
	}).Infof("bulk move ended at (%d,%d)", result.EndPos.X, result.EndPos.Y)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	state, err := s.service.Reset(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.broadcast(id, websocket.EventReset, state)
	writeJSON(w, http.StatusOK, service.StateMessage{Message: "Game reset successfully", State: state})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var req service.RegenerateRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	state, err := s.service.Regenerate(r.Context(), id, req.Seed)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.broadcast(id, websocket.EventRegenerate, state)
	writeJSON(w, http.StatusOK, service.StateMessage{Message: "Maze regenerated", Seed: state.Seed, State: state})
}

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	reply(w, http.StatusOK, configs, err)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")
	config, err := s.service.LoadConfig(r.Context(), name)
	reply(w, http.StatusOK, config, err)
}

// handleCreateConfig stores a new preset under its name
func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var config engine.GameConfig
	if err := decode(r, &config, false); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	if config.Name == "" {
		writeError(w, http.StatusBadRequest, "Config name is required")
		return
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.SaveConfig(r.Context(), config.Name, &config); err != nil {
		writeServiceError(w, fmt.Errorf("failed to save config: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":   "Configuration saved successfully",
		"config_id": config.Name,
	})
}
