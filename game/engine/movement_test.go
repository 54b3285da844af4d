package engine

import (
	"strings"
	"testing"
)

func createTestGameState() *GameState {
	return &GameState{
		Maze:              uShapedMaze(),
		PlayerPos:         Position{X: 0, Y: 0},
		GoalPos:           Position{X: 1, Y: 1},
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
}

func TestCanMove_Passages(t *testing.T) {
	state := createTestGameState()

	tests := []struct {
		name     string
		pos      Position
		dir      string
		expected bool
	}{
		{"open passage right", Position{0, 0}, "right", true},
		{"closed wall down", Position{0, 0}, "down", false},
		{"boundary up", Position{0, 0}, "up", false},
		{"boundary left", Position{0, 0}, "left", false},
		{"open passage down", Position{1, 0}, "down", true},
		{"open passage left at bottom", Position{1, 1}, "left", true},
		{"closed wall up", Position{0, 1}, "up", false},
		{"invalid direction", Position{0, 0}, "diagonal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state.PlayerPos = tt.pos
			if got := state.CanMove(tt.dir); got != tt.expected {
				t.Errorf("CanMove(%q) from %+v = %v, want %v", tt.dir, tt.pos, got, tt.expected)
			}
		})
	}
}

func TestCanMove_GameOver(t *testing.T) {
	state := createTestGameState()
	state.GameOver = true

	if state.CanMove("right") {
		t.Error("Expected no movement after game over")
	}
}

func TestMovePlayer_DirectionMapping(t *testing.T) {
	config := createTestConfig()

	tests := []struct {
		from      Position
		direction string
		expected  Position
	}{
		{Position{0, 0}, "right", Position{1, 0}},
		{Position{1, 0}, "left", Position{0, 0}},
		{Position{1, 0}, "down", Position{1, 1}},
		{Position{1, 1}, "up", Position{1, 0}},
	}

	for _, tt := range tests {
		state := createTestGameState()
		state.GoalPos = Position{X: -1, Y: -1}
		state.PlayerPos = tt.from

		if !state.MovePlayer(tt.direction, config) {
			t.Errorf("Expected move %s from %+v to succeed", tt.direction, tt.from)
			continue
		}
		if state.PlayerPos != tt.expected {
			t.Errorf("Move %s from %+v: expected %+v, got %+v", tt.direction, tt.from, tt.expected, state.PlayerPos)
		}
	}
}

func TestMovePlayer_InvalidDirection(t *testing.T) {
	state := createTestGameState()

	if state.MovePlayer("northeast", createTestConfig()) {
		t.Error("Expected invalid direction to fail")
	}
	if !strings.Contains(state.Message, "Unknown direction") {
		t.Errorf("Expected unknown direction message, got %q", state.Message)
	}
	if state.PlayerPos != (Position{}) {
		t.Error("Expected position unchanged")
	}
}

func TestMovePlayer_WallCollision(t *testing.T) {
	state := createTestGameState()

	if state.MovePlayer("down", createTestConfig()) {
		t.Error("Expected wall to block the move")
	}
	if state.Message != "Wall down" {
		t.Errorf("Expected configured blocked message, got %q", state.Message)
	}
	if state.GameOver {
		t.Error("Expected hitting a wall not to end the game")
	}
}

func TestMovePlayer_FallbackMessages(t *testing.T) {
	config := createTestConfig()
	config.Messages.Moved = ""
	config.Messages.Blocked = ""
	state := createTestGameState()

	state.MovePlayer("up", config)
	if !strings.Contains(state.Message, "Can't move up") {
		t.Errorf("Expected fallback blocked message, got %q", state.Message)
	}

	state.MovePlayer("right", config)
	if !strings.Contains(state.Message, "Moved right to (1,0)") {
		t.Errorf("Expected fallback moved message, got %q", state.Message)
	}
}

func TestMovePlayer_GameOverState(t *testing.T) {
	state := createTestGameState()
	state.GameOver = true

	if state.MovePlayer("right", createTestConfig()) {
		t.Error("Expected move to fail when game is over")
	}
	if state.Message != "Already won" {
		t.Errorf("Expected already won message, got %q", state.Message)
	}
}

func TestMovePlayer_Victory(t *testing.T) {
	config := createTestConfig()
	state := createTestGameState()
	state.PlayerPos = Position{X: 1, Y: 0}
	state.CurrentMovesCount = 4

	if !state.MovePlayer("down", config) {
		t.Fatal("Expected move into goal to succeed")
	}
	if !state.Victory || !state.GameOver || !state.Collapsed {
		t.Errorf("Expected victory, game over and collapse, got %+v", state)
	}
	if state.Message != "Victory in 5 moves!" {
		t.Errorf("Expected victory message counting this move, got %q", state.Message)
	}
}

func TestRefresh(t *testing.T) {
	state := createTestGameState()
	state.Refresh()

	if state.DistanceToGoal != 2 {
		t.Errorf("Expected distance 2, got %d", state.DistanceToGoal)
	}
	if len(state.PossibleMoves) != 1 || state.PossibleMoves[0] != "right" {
		t.Errorf("Expected [right], got %v", state.PossibleMoves)
	}

	state.PlayerPos = Position{X: 0, Y: 1}
	state.Refresh()
	if state.DistanceToGoal != 1 {
		t.Errorf("Expected distance 1 from (0,1), got %d", state.DistanceToGoal)
	}

	state.PlayerPos = Position{X: 9, Y: 9}
	state.Refresh()
	if state.DistanceToGoal != -1 {
		t.Errorf("Expected -1 for an off-grid player, got %d", state.DistanceToGoal)
	}
}

func TestAddMoveToHistory(t *testing.T) {
	state := createTestGameState()

	state.AddMoveToHistory("right", Position{0, 0}, Position{1, 0}, true)
	state.AddMoveToHistory("down", Position{1, 0}, Position{1, 0}, false)

	if state.TotalMoves != 2 || len(state.MoveHistory) != 2 {
		t.Errorf("Expected 2 moves in history, got %d/%d", state.TotalMoves, len(state.MoveHistory))
	}
	if state.CurrentMovesCount != 2 || len(state.CurrentMoves) != 2 {
		t.Errorf("Expected 2 moves in current segment, got %d/%d", state.CurrentMovesCount, len(state.CurrentMoves))
	}

	entry := state.MoveHistory[1]
	if entry.MoveNumber != 2 {
		t.Errorf("Expected move number 2, got %d", entry.MoveNumber)
	}
	if entry.Success {
		t.Error("Expected second entry to be a failure")
	}
	if entry.Timestamp == 0 {
		t.Error("Expected timestamp to be set")
	}
}
