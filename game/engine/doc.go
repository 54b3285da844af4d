// Package engine runs a single game on a perfect maze.
//
// The player starts in the top-left cell and walks one cell per move through
// open passages; the goal is the bottom-right cell. The maze is a spanning
// tree, so GetSolution always finds the one route from where the player
// stands. Winning can collapse the interior walls, after which GetScene
// draws only the boundary.
//
//	cfg := engine.DefaultConfig()
//	eng, _ := engine.NewEngineWithSeed(cfg, 42)
//	eng.Move("right")
//
// Reset keeps the maze and the cumulative history; Regenerate swaps in a new
// maze of the same size.
package engine
