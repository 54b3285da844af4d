package maze

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corridor is a 2x2 maze shaped like a U: (0,0)-(0,1), (0,1)-(1,1), (1,1)-(1,0)
func corridor() *Maze {
	return &Maze{
		Rows:       2,
		Columns:    2,
		Vertical:   [][]bool{{true}, {true}},
		Horizontal: [][]bool{{false, true}},
	}
}

func TestIsOpen(t *testing.T) {
	m := corridor()

	assert.True(t, m.IsOpen(Cell{0, 0}, Right))
	assert.True(t, m.IsOpen(Cell{0, 1}, Left))
	assert.True(t, m.IsOpen(Cell{0, 1}, Down))
	assert.True(t, m.IsOpen(Cell{1, 1}, Up))
	assert.False(t, m.IsOpen(Cell{0, 0}, Down))
	assert.False(t, m.IsOpen(Cell{0, 0}, Up), "boundary is closed")
	assert.False(t, m.IsOpen(Cell{0, 0}, Left), "boundary is closed")
	assert.False(t, m.IsOpen(Cell{5, 5}, Left))
}

func TestOpenNeighbors(t *testing.T) {
	m := corridor()

	assert.ElementsMatch(t, []Cell{{0, 0}, {1, 1}}, m.OpenNeighbors(Cell{0, 1}))
	assert.Equal(t, []Direction{Right}, m.OpenDirections(Cell{0, 0}))
}

func TestReachable(t *testing.T) {
	m := corridor()
	assert.Equal(t, 4, m.Reachable(Cell{}))
	assert.Equal(t, 0, m.Reachable(Cell{Row: -1}))

	m.Horizontal[0][1] = false
	assert.Equal(t, 2, m.Reachable(Cell{}))
}

func TestVerify(t *testing.T) {
	t.Run("perfect", func(t *testing.T) {
		assert.NoError(t, corridor().Verify())
	})

	t.Run("cycle", func(t *testing.T) {
		m := corridor()
		m.Horizontal[0][0] = true
		err := m.Verify()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotPerfect))
	})

	t.Run("disconnected", func(t *testing.T) {
		m := corridor()
		m.Vertical[1][0] = false
		assert.True(t, errors.Is(m.Verify(), ErrNotPerfect))
	})

	t.Run("disconnected with right edge count", func(t *testing.T) {
		// 5 open passages but one cell is isolated and the rest has a cycle
		m := &Maze{
			Rows:       2,
			Columns:    3,
			Vertical:   [][]bool{{true, false}, {true, false}},
			Horizontal: [][]bool{{true, true, false}},
		}
		m.Vertical[0][1] = true
		assert.Equal(t, 5, m.OpenPassages())
		assert.True(t, errors.Is(m.Verify(), ErrNotPerfect))
	})

	t.Run("malformed table", func(t *testing.T) {
		m := corridor()
		m.Vertical = [][]bool{{true}}
		assert.True(t, errors.Is(m.Verify(), ErrNotPerfect))
	})

	t.Run("bad dimensions", func(t *testing.T) {
		m := &Maze{}
		assert.True(t, errors.Is(m.Verify(), ErrInvalidDimensions))
	})
}

func TestPath(t *testing.T) {
	m := corridor()

	path, err := m.Path(Cell{0, 0}, Cell{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []Cell{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, path)
	assert.Equal(t, []Direction{Right, Down, Left}, DirectionsAlong(path))

	path, err = m.Path(Cell{1, 1}, Cell{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []Cell{{1, 1}}, path)
	assert.Nil(t, DirectionsAlong(path))

	_, err = m.Path(Cell{0, 0}, Cell{2, 0})
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestPath_Generated(t *testing.T) {
	m, err := Generate(15, 20, NewSource(8))
	require.NoError(t, err)

	goal := Cell{Row: 14, Col: 19}
	path, err := m.Path(Cell{}, goal)
	require.NoError(t, err)

	assert.Equal(t, Cell{}, path[0])
	assert.Equal(t, goal, path[len(path)-1])

	current := Cell{}
	for _, d := range DirectionsAlong(path) {
		require.True(t, m.IsOpen(current, d))
		current = current.Step(d)
	}
	assert.Equal(t, goal, current)
}

func TestDeadEnds(t *testing.T) {
	assert.Equal(t, []Cell{{0, 0}, {1, 0}}, corridor().DeadEnds())
}

func TestString(t *testing.T) {
	expected := strings.Join([]string{
		"+---+---+",
		"|       |",
		"+---+   +",
		"|       |",
		"+---+---+",
		"",
	}, "\n")

	assert.Equal(t, expected, corridor().String())
}
