package terminal

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func newEngine(t *testing.T, rows, columns int, seed uint64) *engine.GameEngine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Rows, cfg.Columns = rows, columns
	eng, err := engine.NewEngineWithSeed(cfg, seed)
	require.NoError(t, err)
	return eng
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func lineAt(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		b.WriteRune(runeAt(screen, x, y))
	}
	return b.String()
}

func TestDrawMatchesWallTables(t *testing.T) {
	screen := newScreen(t)
	eng := newEngine(t, 4, 5, 11)
	state := eng.GetState()

	Draw(screen, state)

	m := state.Maze
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Columns; c++ {
			cell := maze.Cell{Row: r, Col: c}
			x, y := ScreenPos(cell)

			if c < m.Columns-1 {
				got := runeAt(screen, x+cellWidth, y) == wallRune
				assert.Equal(t, !m.IsOpen(cell, maze.Right), got, "vertical wall right of %v", cell)
			}
			if r < m.Rows-1 {
				got := runeAt(screen, x, y+1) == wallRune
				assert.Equal(t, !m.IsOpen(cell, maze.Down), got, "horizontal wall below %v", cell)
			}
		}
	}

	// Outer boundary and corners are solid
	assert.Equal(t, wallRune, runeAt(screen, 0, 0))
	assert.Equal(t, wallRune, runeAt(screen, 0, 1))
	right := (2*m.Columns)*cellWidth + 1
	bottom := 2 * m.Rows
	assert.Equal(t, wallRune, runeAt(screen, right, bottom))

	px, py := ScreenPos(state.PlayerPos.Cell())
	assert.Equal(t, playerRune, runeAt(screen, px, py))
	gx, gy := ScreenPos(state.GoalPos.Cell())
	assert.Equal(t, goalRune, runeAt(screen, gx, gy))

	assert.Contains(t, lineAt(screen, bottom+2, 40), "seed 11")
	assert.Contains(t, lineAt(screen, bottom+4, 60), "q quit")
}

func TestDrawCollapsedKeepsBoundary(t *testing.T) {
	screen := newScreen(t)
	eng := newEngine(t, 3, 3, 4)
	state := eng.GetState()
	state.Collapsed = true

	Draw(screen, state)

	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			x, y := ScreenPos(maze.Cell{Row: r, Col: c})
			assert.NotEqual(t, wallRune, runeAt(screen, x+cellWidth, y), "interior wall at row %d col %d", r, c)
		}
	}

	// Left and right boundary rows are still drawn
	_, y := ScreenPos(maze.Cell{Row: 1, Col: 0})
	assert.Equal(t, wallRune, runeAt(screen, 0, y))
	x, _ := ScreenPos(maze.Cell{Row: 1, Col: 2})
	assert.Equal(t, wallRune, runeAt(screen, x+cellWidth, y))
}

func TestDrawNilState(t *testing.T) {
	screen := newScreen(t)
	Draw(screen, nil)
	assert.NotEqual(t, wallRune, runeAt(screen, 0, 0))
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		act  action
		dir  string
	}{
		{"arrow up", tcell.KeyUp, 0, actionMove, "up"},
		{"arrow right", tcell.KeyRight, 0, actionMove, "right"},
		{"wasd down", tcell.KeyRune, 's', actionMove, "down"},
		{"vi left", tcell.KeyRune, 'h', actionMove, "left"},
		{"reset", tcell.KeyRune, 'r', actionReset, ""},
		{"regenerate", tcell.KeyRune, 'n', actionRegenerate, ""},
		{"quit", tcell.KeyRune, 'q', actionQuit, ""},
		{"escape", tcell.KeyEscape, 0, actionQuit, ""},
		{"ctrl-c", tcell.KeyCtrlC, 0, actionQuit, ""},
		{"other", tcell.KeyRune, 'x', actionNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, dir := keyAction(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))
			assert.Equal(t, tt.act, act)
			assert.Equal(t, tt.dir, dir)
		})
	}
}

var dirKeys = map[string]tcell.Key{
	"up":    tcell.KeyUp,
	"down":  tcell.KeyDown,
	"left":  tcell.KeyLeft,
	"right": tcell.KeyRight,
}

func TestRunSolvesMaze(t *testing.T) {
	screen := newScreen(t)
	eng := newEngine(t, 2, 2, 8)

	solution, err := eng.GetSolution()
	require.NoError(t, err)
	require.NotEmpty(t, solution)

	for _, dir := range solution {
		screen.InjectKey(dirKeys[dir], 0, tcell.ModNone)
	}
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, Run(screen, eng))

	assert.True(t, eng.IsVictory())
	assert.Equal(t, engine.Position{X: 1, Y: 1}, eng.GetPlayerPosition())
}

func TestRunResetAndRegenerate(t *testing.T) {
	screen := newScreen(t)
	eng := newEngine(t, 4, 4, 3)
	seed := eng.GetState().Seed

	first := eng.GetPossibleMoves()
	require.NotEmpty(t, first)

	screen.InjectKey(dirKeys[first[0]], 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	require.NoError(t, Run(screen, eng))

	assert.Equal(t, engine.Position{}, eng.GetPlayerPosition())
	assert.Equal(t, seed, eng.GetState().Seed)
	assert.Len(t, eng.GetMoveHistory(), 1)

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)
	require.NoError(t, Run(screen, eng))

	assert.NoError(t, eng.GetState().Maze.Verify())
	assert.Equal(t, engine.Position{}, eng.GetPlayerPosition())
}
