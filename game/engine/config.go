package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Rows)
	}
	if config.Columns < MinGridSize || config.Columns > MaxGridSize {
		return fmt.Errorf("config validation: columns must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Columns)
	}

	// Validate canvas
	if config.Width <= 0 || config.Width > MaxCanvasSize {
		return fmt.Errorf("config validation: width must be between 1 and %d, got %g", MaxCanvasSize, config.Width)
	}
	if config.Height <= 0 || config.Height > MaxCanvasSize {
		return fmt.Errorf("config validation: height must be between 1 and %d, got %g", MaxCanvasSize, config.Height)
	}
	if config.WallThickness < 0 {
		return fmt.Errorf("config validation: wall_thickness cannot be negative, got %g", config.WallThickness)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for move count")
	}
	if config.Messages.Moved != "" && !strings.Contains(config.Messages.Moved, "%s") {
		return fmt.Errorf("config validation: messages.moved must contain %%s for direction")
	}
	if config.Messages.Blocked != "" && !strings.Contains(config.Messages.Blocked, "%s") {
		return fmt.Errorf("config validation: messages.blocked must contain %%s for direction")
	}

	return nil
}

// DefaultConfig returns the built-in configuration used when no preset is available
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:              "classic",
		Description:       "A 10x10 maze. Find the way from the top-left corner to the goal in the bottom-right.",
		Rows:              10,
		Columns:           10,
		Width:             DefaultCanvasSize,
		Height:            DefaultCanvasSize,
		WallThickness:     5,
		CollapseOnVictory: true,
		Messages: Messages{
			Welcome:    "Welcome! Find your way to the goal in the bottom-right corner.",
			Moved:      "Moved %s.",
			Blocked:    "A wall blocks the way %s.",
			Victory:    "You escaped the maze in %d moves! The walls come tumbling down.",
			AlreadyWon: "The maze is solved. Reset or regenerate to play again.",
		},
	}
}

// resolveSeed returns the configured seed or draws a fresh one
func resolveSeed(config *GameConfig) uint64 {
	if config != nil && config.Seed != nil {
		return *config.Seed
	}
	return rand.Uint64()
}

// InitGameState creates a new game state for the configuration, generating
// the maze from the given seed
func InitGameState(config *GameConfig, seed uint64) (*GameState, error) {
	if config == nil {
		config = DefaultConfig()
	}

	m, err := maze.Generate(config.Rows, config.Columns, maze.NewSource(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to generate maze: %w", err)
	}

	state := &GameState{
		Maze:              m,
		Seed:              seed,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
	state.placeAtStart(config)

	return state, nil
}

// InitGameStateFromConfig creates a new game state using the provided configuration
// and its seed, drawing a fresh seed when none is set
func InitGameStateFromConfig(config *GameConfig) (*GameState, error) {
	return InitGameState(config, resolveSeed(config))
}

// placeAtStart puts the player in the top-left cell and the goal in the bottom-right
func (gs *GameState) placeAtStart(config *GameConfig) {
	gs.PlayerPos = Position{X: 0, Y: 0}
	gs.GoalPos = Position{X: gs.Maze.Columns - 1, Y: gs.Maze.Rows - 1}
	gs.Message = config.Messages.Welcome
	gs.GameOver = false
	gs.Victory = false
	gs.Collapsed = false

	// A single cell maze starts solved
	if gs.PlayerPos == gs.GoalPos {
		gs.win(config, 0)
	}
	gs.Refresh()
}
