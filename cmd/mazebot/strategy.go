package main

import (
	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// WallFollower walks a maze keeping one hand on the wall. It only looks at
// the open directions of the current cell, so it needs no map. In a perfect
// maze every wall is connected to the boundary and the walk reaches every
// cell, the goal included, in at most 2*(cells-1) moves.
type WallFollower struct {
	leftHand bool
	heading  maze.Direction
	visited  map[engine.Position]int
}

func NewWallFollower(leftHand bool) *WallFollower {
	s := &WallFollower{leftHand: leftHand}
	s.Reset()
	return s
}

// Reset forgets the walk so far
func (s *WallFollower) Reset() {
	s.heading = maze.Down
	s.visited = map[engine.Position]int{}
}

// Visited returns how many distinct cells the walk has entered
func (s *WallFollower) Visited() int {
	return len(s.visited)
}

// Mark records a visit to pos
func (s *WallFollower) Mark(pos engine.Position) {
	s.visited[pos]++
}

func turn(d maze.Direction, quarter int) maze.Direction {
	return maze.Direction((int(d) + quarter + 4) % 4)
}

// NextMove picks the next direction from the open directions of the current
// cell, trying the hand side first, then straight ahead, the other side and
// finally back the way it came. It returns "" when nothing is open.
func (s *WallFollower) NextMove(state *engine.GameState) string {
	s.Mark(state.PlayerPos)

	open := map[string]bool{}
	for _, m := range state.PossibleMoves {
		open[m] = true
	}

	hand := 1
	if s.leftHand {
		hand = -1
	}

	for _, quarter := range []int{hand, 0, -hand, 2} {
		d := turn(s.heading, quarter)
		if open[d.String()] {
			s.heading = d
			return d.String()
		}
	}
	return ""
}
