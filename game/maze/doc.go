// Package maze generates perfect rectangular mazes.
//
// A maze is described by two wall tables. Vertical[r][c] is the wall between
// cell (r, c) and cell (r, c+1); Horizontal[r][c] is the wall between cell
// (r, c) and cell (r+1, c). A true entry means the wall has been removed and
// the two cells are connected.
//
// Generation uses a randomized depth-first backtracker driven by a Source.
// The open passages of every generated maze form a spanning tree over the
// grid: each cell is reachable and there is exactly one simple path between
// any two cells.
//
// Usage:
//
//	m, err := maze.Generate(10, 10, maze.NewSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(m)
//
//	path, _ := m.Path(maze.Cell{}, maze.Cell{Row: 9, Col: 9})
//
// Reproducibility:
//
// Two calls with the same dimensions and identically seeded sources return
// identical tables. Neighbors are enumerated in the order up, right, down,
// left before being shuffled; changing that order changes seeded output.
package maze
