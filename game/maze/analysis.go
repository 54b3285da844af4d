package maze

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// IsOpen reports whether the wall on side d of cell c has been removed.
// The outer boundary is always closed.
func (m *Maze) IsOpen(c Cell, d Direction) bool {
	if !m.Contains(c) || !m.Contains(c.Step(d)) {
		return false
	}
	switch d {
	case Left:
		return m.Vertical[c.Row][c.Col-1]
	case Right:
		return m.Vertical[c.Row][c.Col]
	case Up:
		return m.Horizontal[c.Row-1][c.Col]
	case Down:
		return m.Horizontal[c.Row][c.Col]
	}
	return false
}

// OpenDirections returns the directions with an open passage out of c
func (m *Maze) OpenDirections(c Cell) []Direction {
	var dirs []Direction
	for _, d := range Directions {
		if m.IsOpen(c, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// OpenNeighbors returns the cells connected to c by an open passage
func (m *Maze) OpenNeighbors(c Cell) []Cell {
	var cells []Cell
	for _, d := range m.OpenDirections(c) {
		cells = append(cells, c.Step(d))
	}
	return cells
}

// OpenPassages counts the open entries across both wall tables
func (m *Maze) OpenPassages() int {
	count := 0
	for _, row := range m.Vertical {
		for _, open := range row {
			if open {
				count++
			}
		}
	}
	for _, row := range m.Horizontal {
		for _, open := range row {
			if open {
				count++
			}
		}
	}
	return count
}

// Reachable returns how many cells can be reached from the given cell
// through open passages, including the cell itself
func (m *Maze) Reachable(from Cell) int {
	if !m.Contains(from) {
		return 0
	}

	seen := mapset.New[Cell]()
	seen.Put(from)
	queue := []Cell{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range m.OpenNeighbors(current) {
			if seen.Has(next) {
				continue
			}
			seen.Put(next)
			queue = append(queue, next)
		}
	}

	return seen.Size()
}

// Verify checks that the wall tables are well formed and that the open
// passages form a spanning tree over the grid
func (m *Maze) Verify() error {
	if m.Rows < 1 || m.Columns < 1 {
		return fmt.Errorf("%w: rows=%d columns=%d", ErrInvalidDimensions, m.Rows, m.Columns)
	}
	if len(m.Vertical) != m.Rows {
		return fmt.Errorf("%w: vertical table has %d rows, want %d", ErrNotPerfect, len(m.Vertical), m.Rows)
	}
	for r, row := range m.Vertical {
		if len(row) != m.Columns-1 {
			return fmt.Errorf("%w: vertical row %d has %d entries, want %d", ErrNotPerfect, r, len(row), m.Columns-1)
		}
	}
	if len(m.Horizontal) != m.Rows-1 {
		return fmt.Errorf("%w: horizontal table has %d rows, want %d", ErrNotPerfect, len(m.Horizontal), m.Rows-1)
	}
	for r, row := range m.Horizontal {
		if len(row) != m.Columns {
			return fmt.Errorf("%w: horizontal row %d has %d entries, want %d", ErrNotPerfect, r, len(row), m.Columns)
		}
	}

	// A connected graph on n vertices with n-1 edges is a tree
	if open, want := m.OpenPassages(), m.Cells()-1; open != want {
		return fmt.Errorf("%w: %d open passages, want %d", ErrNotPerfect, open, want)
	}
	if reached := m.Reachable(Cell{}); reached != m.Cells() {
		return fmt.Errorf("%w: %d of %d cells reachable", ErrNotPerfect, reached, m.Cells())
	}
	return nil
}

// Path returns the path of cells from one cell to another, both included.
// In a perfect maze this is the only simple path between them.
func (m *Maze) Path(from, to Cell) ([]Cell, error) {
	if !m.Contains(from) {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, from)
	}
	if !m.Contains(to) {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, to)
	}

	parent := map[Cell]Cell{}
	seen := mapset.New[Cell]()
	seen.Put(from)
	queue := []Cell{from}

	for len(queue) > 0 && !seen.Has(to) {
		current := queue[0]
		queue = queue[1:]
		for _, next := range m.OpenNeighbors(current) {
			if seen.Has(next) {
				continue
			}
			seen.Put(next)
			parent[next] = current
			queue = append(queue, next)
		}
	}

	if !seen.Has(to) {
		return nil, fmt.Errorf("%w: %v unreachable from %v", ErrNotPerfect, to, from)
	}

	path := []Cell{to}
	for current := to; current != from; {
		current = parent[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// DirectionsAlong converts a path of adjacent cells into the moves that walk it
func DirectionsAlong(path []Cell) []Direction {
	if len(path) < 2 {
		return nil
	}
	dirs := make([]Direction, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		for _, d := range Directions {
			if path[i-1].Step(d) == path[i] {
				dirs = append(dirs, d)
				break
			}
		}
	}
	return dirs
}

// DeadEnds returns the cells with exactly one open passage, in row order
func (m *Maze) DeadEnds() []Cell {
	var cells []Cell
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Columns; c++ {
			cell := Cell{Row: r, Col: c}
			if len(m.OpenDirections(cell)) == 1 {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// String draws the maze with +---+ corners and | walls
func (m *Maze) String() string {
	var b strings.Builder

	b.WriteString("+" + strings.Repeat("---+", m.Columns) + "\n")
	for r := 0; r < m.Rows; r++ {
		b.WriteString("|")
		for c := 0; c < m.Columns; c++ {
			if m.IsOpen(Cell{Row: r, Col: c}, Right) {
				b.WriteString("    ")
			} else {
				b.WriteString("   |")
			}
		}
		b.WriteString("\n+")
		for c := 0; c < m.Columns; c++ {
			if m.IsOpen(Cell{Row: r, Col: c}, Down) {
				b.WriteString("   +")
			} else {
				b.WriteString("---+")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
