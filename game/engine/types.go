package engine

import (
	"slices"

	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

const (
	// Validation constants
	MinGridSize         = 1
	MaxGridSize         = 100
	MaxBulkMoves        = 100
	MaxCanvasSize       = 10000
	DefaultCanvasSize   = 600
	WebSocketBufferSize = 256
)

// Position represents x,y coordinates; X is the column and Y the row
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PositionOf converts a maze cell into a position
func PositionOf(c maze.Cell) Position {
	return Position{X: c.Col, Y: c.Row}
}

// Cell converts the position back into a maze cell
func (p Position) Cell() maze.Cell {
	return maze.Cell{Row: p.Y, Col: p.X}
}

// Messages holds the player facing texts of a configuration
type Messages struct {
	Welcome    string `json:"welcome"`
	Moved      string `json:"moved"`
	Blocked    string `json:"blocked"`
	Victory    string `json:"victory"`
	AlreadyWon string `json:"already_won"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`

	// Seed pins the generated maze. When nil every new game draws a fresh seed.
	Seed *uint64 `json:"seed,omitempty"`

	// Canvas used for scene geometry
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	WallThickness float64 `json:"wall_thickness,omitempty"`

	// CollapseOnVictory drops every wall once the goal is reached
	CollapseOnVictory bool `json:"collapse_on_victory"`

	Messages Messages `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Maze       *maze.Maze `json:"maze"`
	Seed       uint64     `json:"seed"`
	PlayerPos  Position   `json:"player_pos"`
	GoalPos    Position   `json:"goal_pos"`
	Message    string     `json:"message"`
	GameOver   bool       `json:"game_over"`
	Victory    bool       `json:"victory"`
	Collapsed  bool       `json:"collapsed"`
	ConfigName string     `json:"config_name"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper views (not required for core game logic)
	PossibleMoves  []string `json:"possible_moves,omitempty"`
	DistanceToGoal int      `json:"distance_to_goal"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}

// Clone returns a copy that later moves on gs do not touch. The maze is
// shared; it is never modified after generation.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	c.MoveHistory = slices.Clone(gs.MoveHistory)
	c.CurrentMoves = slices.Clone(gs.CurrentMoves)
	c.PossibleMoves = slices.Clone(gs.PossibleMoves)
	return &c
}
