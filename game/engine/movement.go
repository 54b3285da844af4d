package engine

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// CanMove checks whether an open passage leads out of the player's cell in the given direction
func (gs *GameState) CanMove(direction string) bool {
	if gs.GameOver || gs.Maze == nil {
		return false
	}
	d, ok := maze.ParseDirection(direction)
	if !ok {
		return false
	}
	return gs.Maze.IsOpen(gs.PlayerPos.Cell(), d)
}

// MovePlayer attempts to move the player in the specified direction
func (gs *GameState) MovePlayer(direction string, config *GameConfig) bool {
	if gs.GameOver {
		gs.Message = config.Messages.AlreadyWon
		return false
	}

	d, ok := maze.ParseDirection(direction)
	if !ok {
		gs.Message = fmt.Sprintf("Unknown direction %q. Use up, down, left or right.", direction)
		return false
	}

	from := gs.PlayerPos.Cell()
	if !gs.Maze.IsOpen(from, d) {
		if config.Messages.Blocked != "" {
			gs.Message = fmt.Sprintf(config.Messages.Blocked, direction)
		} else {
			gs.Message = fmt.Sprintf("Can't move %s: wall at (%d,%d)", direction, gs.PlayerPos.X, gs.PlayerPos.Y)
		}
		return false
	}

	gs.PlayerPos = PositionOf(from.Step(d))

	if gs.PlayerPos == gs.GoalPos {
		// history is appended after this returns, so count the current move here
		gs.win(config, gs.CurrentMovesCount+1)
		return true
	}

	if config.Messages.Moved != "" {
		gs.Message = fmt.Sprintf(config.Messages.Moved, direction)
	} else {
		gs.Message = fmt.Sprintf("Moved %s to (%d,%d)", direction, gs.PlayerPos.X, gs.PlayerPos.Y)
	}
	return true
}

// win ends the game in victory after the given number of moves
func (gs *GameState) win(config *GameConfig, moves int) {
	gs.Victory = true
	gs.GameOver = true
	gs.Collapsed = config.CollapseOnVictory
	gs.Message = fmt.Sprintf(config.Messages.Victory, moves)
}

// Refresh recomputes the helper views derived from the maze and player position
func (gs *GameState) Refresh() {
	gs.PossibleMoves = nil
	gs.DistanceToGoal = 0
	if gs.Maze == nil {
		return
	}

	if !gs.GameOver {
		for _, d := range maze.Directions {
			if gs.Maze.IsOpen(gs.PlayerPos.Cell(), d) {
				gs.PossibleMoves = append(gs.PossibleMoves, d.String())
			}
		}
	}

	path, err := gs.Maze.Path(gs.PlayerPos.Cell(), gs.GoalPos.Cell())
	if err != nil {
		gs.DistanceToGoal = -1
		return
	}
	gs.DistanceToGoal = len(path) - 1
}

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(action string, fromPos, toPos Position, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   gs.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}

// clearSegment starts a new attempt without touching the cumulative history
func (gs *GameState) clearSegment() {
	gs.CurrentMoves = []MoveHistoryEntry{}
	gs.CurrentMovesCount = 0
}
