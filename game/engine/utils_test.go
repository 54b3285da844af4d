package engine

import (
	"strings"
	"testing"
)

func TestRenderASCII(t *testing.T) {
	state := createTestGameState()

	expected := strings.Join([]string{
		"+---+---+",
		"| @     |",
		"+---+   +",
		"|     G |",
		"+---+---+",
		"",
	}, "\n")

	if got := RenderASCII(state); got != expected {
		t.Errorf("Unexpected rendering:\n%s\nwant:\n%s", got, expected)
	}
}

func TestRenderASCII_Collapsed(t *testing.T) {
	state := createTestGameState()
	state.PlayerPos = state.GoalPos
	state.Collapsed = true

	expected := strings.Join([]string{
		"+---+---+",
		"|       |",
		"+   +   +",
		"|     @ |",
		"+---+---+",
		"",
	}, "\n")

	if got := RenderASCII(state); got != expected {
		t.Errorf("Unexpected rendering:\n%s\nwant:\n%s", got, expected)
	}
}

func TestRenderASCII_Empty(t *testing.T) {
	if RenderASCII(nil) != "" {
		t.Error("Expected empty rendering for nil state")
	}
	if RenderASCII(&GameState{}) != "" {
		t.Error("Expected empty rendering without maze")
	}
}
