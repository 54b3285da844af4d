package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

const (
	wallRune   = '█'
	playerRune = '@'
	goalRune   = 'G'

	// cellWidth is the number of screen columns per maze grid unit
	cellWidth = 2

	helpLine = "arrows/wasd/hjkl move · r reset · n new maze · q quit"
)

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	goalStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	textStyle   = tcell.StyleDefault
	winStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// ScreenPos maps a maze cell to the screen column and row of its left half
func ScreenPos(c maze.Cell) (int, int) {
	return (2*c.Col + 1) * cellWidth, 2*c.Row + 1
}

// Draw renders the maze, the player and the goal followed by a status block.
// Each cell and each wall slot takes one grid unit; corners are always solid.
func Draw(screen tcell.Screen, state *engine.GameState) {
	screen.Clear()
	if state == nil || state.Maze == nil {
		screen.Show()
		return
	}
	m := state.Maze

	wall := func(gx, gy int) {
		for i := 0; i < cellWidth; i++ {
			screen.SetContent(gx*cellWidth+i, gy, wallRune, nil, wallStyle)
		}
	}

	closed := func(c maze.Cell, d maze.Direction) bool {
		if !m.Contains(c.Step(d)) {
			return true
		}
		return !state.Collapsed && !m.IsOpen(c, d)
	}

	gridW, gridH := 2*m.Columns+1, 2*m.Rows+1
	for gy := 0; gy < gridH; gy += 2 {
		for gx := 0; gx < gridW; gx += 2 {
			wall(gx, gy)
		}
	}

	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Columns; c++ {
			cell := maze.Cell{Row: r, Col: c}
			gx, gy := 2*c+1, 2*r+1
			if c == 0 && closed(cell, maze.Left) {
				wall(gx-1, gy)
			}
			if r == 0 && closed(cell, maze.Up) {
				wall(gx, gy-1)
			}
			if closed(cell, maze.Right) {
				wall(gx+1, gy)
			}
			if closed(cell, maze.Down) {
				wall(gx, gy+1)
			}
		}
	}

	x, y := ScreenPos(state.GoalPos.Cell())
	screen.SetContent(x, y, goalRune, nil, goalStyle)
	x, y = ScreenPos(state.PlayerPos.Cell())
	screen.SetContent(x, y, playerRune, nil, playerStyle)

	row := gridH + 1
	status := fmt.Sprintf("moves %d · seed %d", state.CurrentMovesCount, state.Seed)
	drawText(screen, 0, row, status, textStyle)
	msgStyle := textStyle
	if state.Victory {
		msgStyle = winStyle
	}
	drawText(screen, 0, row+1, state.Message, msgStyle)
	drawText(screen, 0, row+2, helpLine, textStyle)

	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// action is what a key press asks for
type action int

const (
	actionNone action = iota
	actionMove
	actionReset
	actionRegenerate
	actionQuit
)

// keyAction maps a key event to an action and, for moves, a direction
func keyAction(ev *tcell.EventKey) (action, string) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit, ""
	case tcell.KeyUp:
		return actionMove, "up"
	case tcell.KeyDown:
		return actionMove, "down"
	case tcell.KeyLeft:
		return actionMove, "left"
	case tcell.KeyRight:
		return actionMove, "right"
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return actionMove, "up"
		case 's', 'j':
			return actionMove, "down"
		case 'a', 'h':
			return actionMove, "left"
		case 'd', 'l':
			return actionMove, "right"
		case 'r':
			return actionReset, ""
		case 'n':
			return actionRegenerate, ""
		case 'q':
			return actionQuit, ""
		}
	}
	return actionNone, ""
}

// Run draws the game and applies key presses until the player quits or the
// screen stops delivering events. The caller owns Init and Fini.
func Run(screen tcell.Screen, eng engine.Engine) error {
	Draw(screen, eng.GetState())

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			act, dir := keyAction(ev)
			switch act {
			case actionQuit:
				return nil
			case actionMove:
				eng.Move(dir)
			case actionReset:
				eng.Reset()
			case actionRegenerate:
				if _, err := eng.Regenerate(nil); err != nil {
					return fmt.Errorf("regenerate maze: %w", err)
				}
			case actionNone:
				continue
			}
		}

		Draw(screen, eng.GetState())
	}
}
