package engine

import (
	"strings"
	"testing"
)

func createValidConfig() *GameConfig {
	return &GameConfig{
		Name:              "Test Config",
		Description:       "A valid test configuration",
		Rows:              4,
		Columns:           6,
		Width:             600,
		Height:            400,
		WallThickness:     4,
		CollapseOnVictory: true,
		Messages: Messages{
			Welcome:    "Welcome to the test maze!",
			Moved:      "Moved %s",
			Blocked:    "Blocked going %s",
			Victory:    "Escaped in %d moves!",
			AlreadyWon: "Already won",
		},
	}
}

func TestValidateGameConfig_ValidConfig(t *testing.T) {
	config := createValidConfig()
	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}

	if err := ValidateGameConfig(DefaultConfig()); err != nil {
		t.Errorf("Expected default config to pass validation, got error: %v", err)
	}
}

func TestValidateGameConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *GameConfig)
		contains string
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"zero rows", func(c *GameConfig) { c.Rows = 0 }, "rows must be between"},
		{"too many rows", func(c *GameConfig) { c.Rows = MaxGridSize + 1 }, "rows must be between"},
		{"zero columns", func(c *GameConfig) { c.Columns = 0 }, "columns must be between"},
		{"too many columns", func(c *GameConfig) { c.Columns = MaxGridSize + 1 }, "columns must be between"},
		{"zero width", func(c *GameConfig) { c.Width = 0 }, "width must be between"},
		{"negative height", func(c *GameConfig) { c.Height = -5 }, "height must be between"},
		{"negative wall", func(c *GameConfig) { c.WallThickness = -1 }, "wall_thickness"},
		{"missing welcome", func(c *GameConfig) { c.Messages.Welcome = "" }, "messages.welcome"},
		{"missing victory", func(c *GameConfig) { c.Messages.Victory = "" }, "messages.victory is required"},
		{"victory without count", func(c *GameConfig) { c.Messages.Victory = "You won" }, "%d"},
		{"moved without direction", func(c *GameConfig) { c.Messages.Moved = "Moved" }, "messages.moved"},
		{"blocked without direction", func(c *GameConfig) { c.Messages.Blocked = "Blocked" }, "messages.blocked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.mutate(config)

			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got: %v", tt.contains, err)
			}
		})
	}

	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidateGameConfig_OptionalMessages(t *testing.T) {
	config := createValidConfig()
	config.Messages.Moved = ""
	config.Messages.Blocked = ""
	config.Messages.AlreadyWon = ""

	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Expected optional messages to be optional, got: %v", err)
	}
}

func TestInitGameState(t *testing.T) {
	config := createValidConfig()

	state, err := InitGameState(config, 7)
	if err != nil {
		t.Fatalf("Failed to init state: %v", err)
	}

	if state.Maze == nil {
		t.Fatal("Expected maze to be generated")
	}
	if state.Maze.Rows != config.Rows || state.Maze.Columns != config.Columns {
		t.Errorf("Expected %dx%d maze, got %dx%d", config.Rows, config.Columns, state.Maze.Rows, state.Maze.Columns)
	}
	if err := state.Maze.Verify(); err != nil {
		t.Errorf("Expected perfect maze, got: %v", err)
	}
	if state.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", state.Seed)
	}
	if state.PlayerPos != (Position{X: 0, Y: 0}) {
		t.Errorf("Expected player at (0,0), got %+v", state.PlayerPos)
	}
	if state.GoalPos != (Position{X: 5, Y: 3}) {
		t.Errorf("Expected goal at (5,3), got %+v", state.GoalPos)
	}
	if state.Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	if state.ConfigName != config.Name {
		t.Errorf("Expected config name %q, got %q", config.Name, state.ConfigName)
	}
	if state.DistanceToGoal < 8 {
		t.Errorf("Expected distance to goal of at least 8, got %d", state.DistanceToGoal)
	}
	if len(state.PossibleMoves) == 0 {
		t.Error("Expected at least one possible move from the start")
	}
}

func TestInitGameStateFromConfig_Seed(t *testing.T) {
	config := createValidConfig()
	seed := uint64(99)
	config.Seed = &seed

	a, err := InitGameStateFromConfig(config)
	if err != nil {
		t.Fatal(err)
	}
	b, err := InitGameStateFromConfig(config)
	if err != nil {
		t.Fatal(err)
	}

	if a.Seed != 99 || b.Seed != 99 {
		t.Errorf("Expected both states to use seed 99, got %d and %d", a.Seed, b.Seed)
	}
	if a.Maze.String() != b.Maze.String() {
		t.Error("Expected identical mazes for the same seed")
	}
}

func TestInitGameState_SingleCell(t *testing.T) {
	config := createValidConfig()
	config.Rows = 1
	config.Columns = 1

	state, err := InitGameState(config, 1)
	if err != nil {
		t.Fatal(err)
	}

	if !state.Victory || !state.GameOver {
		t.Error("Expected a single cell maze to start solved")
	}
	if state.Message != "Escaped in 0 moves!" {
		t.Errorf("Unexpected victory message %q", state.Message)
	}
}
