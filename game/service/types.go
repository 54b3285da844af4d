package service

import (
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// MazeInfo describes a freshly generated maze
type MazeInfo struct {
	Rows           int        `json:"rows"`
	Columns        int        `json:"columns"`
	Seed           uint64     `json:"seed"`
	Maze           *maze.Maze `json:"maze"`
	ASCII          string     `json:"ascii"`
	OpenPassages   int        `json:"open_passages"`
	DeadEnds       int        `json:"dead_ends"`
	SolutionLength int        `json:"solution_length"` // moves from top-left to bottom-right
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_wall|blocked_boundary|invalid_direction|game_over|victory
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	GameOver       bool     `json:"game_over"`
	GameOverCode   string   `json:"game_over_code,omitempty"`
	Message        string   `json:"message,omitempty"`
	PossibleMoves  []string `json:"possible_moves,omitempty"`
	DistanceToGoal int      `json:"distance_to_goal"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx     int             `json:"idx"`
	Dir     string          `json:"dir"`
	From    engine.Position `json:"from"`
	To      engine.Position `json:"to"`
	Success bool            `json:"success"`
	Victory bool            `json:"victory,omitempty"`
}

// AttemptInfo details a move that did not go through
type AttemptInfo struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Reason string `json:"reason"` // wall|boundary|invalid_direction|game_over
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "blocked", "victory", "reset", "regenerate"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// SolutionInfo is the unique route from the player to the goal
type SolutionInfo struct {
	From   engine.Position `json:"from"`
	To     engine.Position `json:"to"`
	Moves  []string        `json:"moves"`
	Length int             `json:"length"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string  `json:"filename"`
	ConfigID    string  `json:"config_id"` // The identifier to use for session creation
	Name        string  `json:"name"`      // Display name
	Description string  `json:"description"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Seed        *uint64 `json:"seed,omitempty"`
}

// Request and reply bodies of the REST API, shared by its clients

// GenerateMazeRequest asks for a standalone maze
type GenerateMazeRequest struct {
	Rows    int     `json:"rows"`
	Columns int     `json:"columns"`
	Seed    *uint64 `json:"seed,omitempty"`
}

// CreateSessionRequest starts a session. ConfigName is the older spelling of ConfigID.
type CreateSessionRequest struct {
	ConfigID   string  `json:"config_id,omitempty"`
	ConfigName string  `json:"config_name,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
}

// Config returns the requested preset, preferring ConfigID
func (r CreateSessionRequest) Config() string {
	if r.ConfigID != "" {
		return r.ConfigID
	}
	return r.ConfigName
}

type MoveRequest struct {
	Direction string `json:"direction"`
	Reset     bool   `json:"reset,omitempty"`
}

type BulkMoveRequest struct {
	Moves []string `json:"moves"`
	Reset bool     `json:"reset,omitempty"`
}

// RegenerateRequest replaces a session's maze; a nil Seed draws a random one
type RegenerateRequest struct {
	Seed *uint64 `json:"seed,omitempty"`
}

// StateMessage is the reply to reset and regenerate
type StateMessage struct {
	Message string            `json:"message"`
	Seed    uint64            `json:"seed,omitempty"`
	State   *engine.GameState `json:"state"`
}

// SessionList is one page of sessions
type SessionList struct {
	Count    int            `json:"count"`
	Total    int            `json:"total"`
	Sessions []*SessionInfo `json:"sessions"`
	Sort     string         `json:"sort"`
	Order    string         `json:"order"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}
