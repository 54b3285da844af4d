package maze

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrNotPerfect        = errors.New("maze is not perfect")
	ErrOutOfBounds       = errors.New("cell out of bounds")
)

// Direction identifies one of the four grid neighbors of a cell
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists the canonical neighbor order used before shuffling
var Directions = [4]Direction{Up, Right, Down, Left}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Offset returns the row and column delta for the direction
func (d Direction) Offset() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	}
	return 0, 0
}

// ParseDirection maps "up", "right", "down" and "left" to a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "right":
		return Right, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	}
	return 0, false
}

// Cell is a grid position
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the neighboring cell in direction d (it may be out of bounds)
func (c Cell) Step(d Direction) Cell {
	dr, dc := d.Offset()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Maze is the immutable result of a generation run
type Maze struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`

	// Vertical[r][c] is open when (r,c) and (r,c+1) are connected
	Vertical [][]bool `json:"vertical"`
	// Horizontal[r][c] is open when (r,c) and (r+1,c) are connected
	Horizontal [][]bool `json:"horizontal"`

	// Start is the cell the traversal began from
	Start Cell `json:"start"`
}

// Contains reports whether c lies inside the grid
func (m *Maze) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < m.Rows && c.Col >= 0 && c.Col < m.Columns
}

// Cells returns the number of cells in the grid
func (m *Maze) Cells() int {
	return m.Rows * m.Columns
}

type neighbor struct {
	cell Cell
	dir  Direction
}

type frame struct {
	neighbors []neighbor
	next      int
	cell      Cell
}

// generator holds the mutable tables of a single run
type generator struct {
	rows, columns int
	visited       [][]bool
	vertical      [][]bool
	horizontal    [][]bool
	src           Source
}

// Generate builds a perfect maze of the given size using a randomized
// depth-first backtracker. src drives both the start cell and the neighbor
// order at every step.
func Generate(rows, columns int, src Source) (*Maze, error) {
	if rows < 1 || columns < 1 {
		return nil, fmt.Errorf("%w: rows=%d columns=%d", ErrInvalidDimensions, rows, columns)
	}
	if src == nil {
		return nil, fmt.Errorf("maze: nil random source")
	}

	g := &generator{
		rows:       rows,
		columns:    columns,
		visited:    newTable(rows, columns),
		vertical:   newTable(rows, columns-1),
		horizontal: newTable(rows-1, columns),
		src:        src,
	}

	start := Cell{Row: src.IntN(rows), Col: src.IntN(columns)}
	g.walk(start)

	return &Maze{
		Rows:       rows,
		Columns:    columns,
		Vertical:   g.vertical,
		Horizontal: g.horizontal,
		Start:      start,
	}, nil
}

// walk runs the backtracking traversal with an explicit stack. A neighbor's
// whole subtree is explored before the next sibling is tried, and neighbor
// lists are shuffled when a cell is entered, matching the recursive order.
func (g *generator) walk(start Cell) {
	stack := []*frame{g.enter(start)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.neighbors) {
			stack = stack[:len(stack)-1]
			continue
		}

		n := top.neighbors[top.next]
		top.next++
		if g.visited[n.cell.Row][n.cell.Col] {
			continue
		}

		g.open(top.cell, n.dir)
		stack = append(stack, g.enter(n.cell))
	}
}

// enter marks c visited and returns its frame with in-bounds neighbors shuffled
func (g *generator) enter(c Cell) *frame {
	g.visited[c.Row][c.Col] = true

	neighbors := make([]neighbor, 0, len(Directions))
	for _, d := range Directions {
		next := c.Step(d)
		if next.Row < 0 || next.Row >= g.rows || next.Col < 0 || next.Col >= g.columns {
			continue
		}
		neighbors = append(neighbors, neighbor{cell: next, dir: d})
	}
	Shuffle(neighbors, g.src)

	return &frame{cell: c, neighbors: neighbors}
}

// open removes the wall between c and its neighbor in direction d
func (g *generator) open(c Cell, d Direction) {
	switch d {
	case Left:
		g.vertical[c.Row][c.Col-1] = true
	case Right:
		g.vertical[c.Row][c.Col] = true
	case Up:
		g.horizontal[c.Row-1][c.Col] = true
	case Down:
		g.horizontal[c.Row][c.Col] = true
	}
}

func newTable(rows, columns int) [][]bool {
	table := make([][]bool, rows)
	for i := range table {
		table[i] = make([]bool, columns)
	}
	return table
}
