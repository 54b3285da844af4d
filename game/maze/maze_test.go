package maze

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed values and returns 0 once they run out
type scriptedSource struct {
	t      *testing.T
	values []int
	calls  int
}

func (s *scriptedSource) IntN(n int) int {
	s.calls++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	require.Less(s.t, v, n, "scripted value out of range on call %d", s.calls)
	return v
}

func countEntries(table [][]bool) int {
	n := 0
	for _, row := range table {
		n += len(row)
	}
	return n
}

func TestGenerate_InvalidDimensions(t *testing.T) {
	tests := []struct {
		rows, columns int
	}{
		{0, 5},
		{5, 0},
		{-1, 3},
		{3, -2},
		{0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.rows, tt.columns), func(t *testing.T) {
			src := &scriptedSource{t: t}
			m, err := Generate(tt.rows, tt.columns, src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDimensions))
			assert.Nil(t, m)
			assert.Zero(t, src.calls, "no randomness should be consumed")
		})
	}
}

func TestGenerate_SingleCell(t *testing.T) {
	m, err := Generate(1, 1, NewSource(7))
	require.NoError(t, err)

	assert.Equal(t, 0, countEntries(m.Vertical))
	assert.Equal(t, 0, countEntries(m.Horizontal))
	assert.Equal(t, Cell{}, m.Start)
	assert.NoError(t, m.Verify())
}

func TestGenerate_ScriptedTwoByTwo(t *testing.T) {
	// start (0,0), then right, down, left, leaving one wall closed
	src := &scriptedSource{t: t, values: []int{
		0, 0, // start row, start column
		1, 0, // (0,0): [right down] kept
		1, 0, // (0,1): [down left] kept
		0, 0, // (1,1): [up left] -> [left up]
	}}

	m, err := Generate(2, 2, src)
	require.NoError(t, err)

	assert.Equal(t, Cell{Row: 0, Col: 0}, m.Start)
	assert.Equal(t, [][]bool{{true}, {true}}, m.Vertical)
	assert.Equal(t, [][]bool{{false, true}}, m.Horizontal)
	assert.Equal(t, 3, m.OpenPassages())
	assert.NoError(t, m.Verify())
}

func TestGenerate_ScriptedStartCell(t *testing.T) {
	src := &scriptedSource{t: t, values: []int{2, 3}}

	m, err := Generate(3, 4, src)
	require.NoError(t, err)
	assert.Equal(t, Cell{Row: 2, Col: 3}, m.Start)
	assert.NoError(t, m.Verify())
}

func TestGenerate_SpanningTree(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 2}, {2, 1}, {1, 7}, {7, 1}, {2, 2}, {3, 5}, {10, 10}, {17, 4}, {40, 60}}

	for _, size := range sizes {
		for seed := uint64(0); seed < 5; seed++ {
			rows, columns := size[0], size[1]
			t.Run(fmt.Sprintf("%dx%d/seed%d", rows, columns, seed), func(t *testing.T) {
				m, err := Generate(rows, columns, NewSource(seed))
				require.NoError(t, err)

				assert.Len(t, m.Vertical, rows)
				assert.Len(t, m.Horizontal, rows-1)
				assert.Equal(t, rows*columns-1, m.OpenPassages())
				assert.Equal(t, rows*columns, m.Reachable(Cell{}))
				assert.Equal(t, rows*columns, m.Reachable(Cell{Row: rows - 1, Col: columns - 1}))
				assert.NoError(t, m.Verify())
			})
		}
	}
}

// countSimplePaths enumerates every simple path between two cells
func countSimplePaths(m *Maze, from, to Cell) int {
	onPath := map[Cell]bool{}
	var walk func(c Cell) int
	walk = func(c Cell) int {
		if c == to {
			return 1
		}
		onPath[c] = true
		defer delete(onPath, c)
		total := 0
		for _, next := range m.OpenNeighbors(c) {
			if !onPath[next] {
				total += walk(next)
			}
		}
		return total
	}
	return walk(from)
}

func TestGenerate_UniquePaths(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		m, err := Generate(3, 4, NewSource(seed))
		require.NoError(t, err)

		for a := 0; a < m.Cells(); a++ {
			for b := 0; b < m.Cells(); b++ {
				from := Cell{Row: a / m.Columns, Col: a % m.Columns}
				to := Cell{Row: b / m.Columns, Col: b % m.Columns}
				require.Equal(t, 1, countSimplePaths(m, from, to), "seed %d %v -> %v", seed, from, to)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 1 << 40} {
		first, err := Generate(12, 9, NewSource(seed))
		require.NoError(t, err)
		second, err := Generate(12, 9, NewSource(seed))
		require.NoError(t, err)

		assert.Equal(t, first, second, "seed %d", seed)
	}
}

func TestGenerate_SeedsDiffer(t *testing.T) {
	a, err := Generate(10, 10, NewSource(1))
	require.NoError(t, err)
	b, err := Generate(10, 10, NewSource(2))
	require.NoError(t, err)

	assert.NotEqual(t, a.String(), b.String())
}

func TestGenerate_LongCorridor(t *testing.T) {
	// a single row degenerates into one corridor; depth equals the cell count
	m, err := Generate(1, 5000, NewSource(3))
	require.NoError(t, err)

	for c, open := range m.Vertical[0] {
		require.True(t, open, "wall %d should be open", c)
	}
	assert.NoError(t, m.Verify())
}

func TestGenerate_Large(t *testing.T) {
	m, err := Generate(300, 300, NewSource(99))
	require.NoError(t, err)
	assert.NoError(t, m.Verify())
}

func TestGenerate_NilSource(t *testing.T) {
	_, err := Generate(2, 2, nil)
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		parsed, ok := ParseDirection(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, parsed)
	}

	_, ok := ParseDirection("north")
	assert.False(t, ok)
}
