package engine

import (
	"strings"

	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// RenderASCII draws the maze with the player as @ and the goal as G.
// Collapsed mazes are drawn with only the outer boundary.
func RenderASCII(state *GameState) string {
	if state == nil || state.Maze == nil {
		return ""
	}
	m := state.Maze

	isOpen := func(c maze.Cell, d maze.Direction) bool {
		if state.Collapsed {
			return m.Contains(c.Step(d))
		}
		return m.IsOpen(c, d)
	}

	cellText := func(c maze.Cell) string {
		switch PositionOf(c) {
		case state.PlayerPos:
			return " @ "
		case state.GoalPos:
			return " G "
		}
		return "   "
	}

	var b strings.Builder
	b.WriteString("+" + strings.Repeat("---+", m.Columns) + "\n")
	for r := 0; r < m.Rows; r++ {
		b.WriteString("|")
		for c := 0; c < m.Columns; c++ {
			cell := maze.Cell{Row: r, Col: c}
			b.WriteString(cellText(cell))
			if isOpen(cell, maze.Right) {
				b.WriteString(" ")
			} else {
				b.WriteString("|")
			}
		}
		b.WriteString("\n+")
		for c := 0; c < m.Columns; c++ {
			if isOpen(maze.Cell{Row: r, Col: c}, maze.Down) {
				b.WriteString("   +")
			} else {
				b.WriteString("---+")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
