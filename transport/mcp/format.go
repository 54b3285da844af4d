package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

func formatMazeInfo(info *service.MazeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maze %dx%d (seed %d)\n", info.Rows, info.Columns, info.Seed)
	fmt.Fprintf(&b, "Open passages: %d | Dead ends: %d | Solution length: %d\n\n", info.OpenPassages, info.DeadEnds, info.SolutionLength)
	b.WriteString(info.ASCII)
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	rows, columns := 0, 0
	if state.Maze != nil {
		rows, columns = state.Maze.Rows, state.Maze.Columns
	}

	// Header (include cumulative total moves)
	fmt.Fprintf(&result, "Position: (%d,%d) | Goal: (%d,%d) | Maze: %dx%d | Moves: %d\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.GoalPos.X, state.GoalPos.Y,
		rows, columns, state.TotalMoves)

	if !state.GameOver {
		moves := state.PossibleMoves
		if moves == nil {
			moves = possibleMoves(state)
		}
		if len(moves) > 0 {
			fmt.Fprintf(&result, "Possible moves: %s\n", strings.Join(moves, ","))
		}
	}
	result.WriteString("\n")
	result.WriteString(engine.RenderASCII(state))

	// Status
	if state.GameOver {
		if state.Victory {
			result.WriteString("\n🎉 VICTORY!")
		} else {
			result.WriteString("\n💀 GAME OVER")
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

// possibleMoves derives open directions when the server did not send them
func possibleMoves(state *engine.GameState) []string {
	if state.Maze == nil {
		return nil
	}
	var res []string
	for _, d := range state.Maze.OpenDirections(state.PlayerPos.Cell()) {
		res = append(res, d.String())
	}
	return res
}

func describeCell(state *engine.GameState, cell maze.Cell) string {
	var b strings.Builder
	pos := engine.PositionOf(cell)
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n", pos.X, pos.Y)

	switch pos {
	case state.PlayerPos:
		b.WriteString("You are here.\n")
	case state.GoalPos:
		b.WriteString("This is the goal.\n")
	}

	open := 0
	for _, d := range maze.Directions {
		side := "wall"
		switch {
		case !state.Maze.Contains(cell.Step(d)):
			side = "boundary"
		case state.Collapsed || state.Maze.IsOpen(cell, d):
			side = "open"
			open++
		}
		fmt.Fprintf(&b, "  %-5s %s\n", d.String()+":", side)
	}

	if open == 1 {
		b.WriteString("This cell is a dead end.\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if result.Step != nil {
		s := result.Step
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d)\n", s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y)
	}

	if result.AttemptedTo != nil {
		a := result.AttemptedTo
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) reason=%s\n", a.X, a.Y, a.Reason)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d moves were considered\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d)\n", s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y)
		}
	}

	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "\nBlocked on move %d: attempted (%d,%d) reason=%s\n", result.StoppedOnMove, a.X, a.Y, a.Reason)
	}

	if result.GameOver && result.GameOverCode != "" {
		fmt.Fprintf(&b, "\nGame over: %s\n", result.GameOverCode)
	} else {
		fmt.Fprintf(&b, "\nDistance to goal: %d\n", result.DistanceToGoal)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatSolution(solution *service.SolutionInfo, steps int, limited bool) string {
	if solution.Length == 0 {
		return "You are already at the goal."
	}

	moves := solution.Moves
	header := fmt.Sprintf("Route from (%d,%d) to (%d,%d): %d moves\n",
		solution.From.X, solution.From.Y, solution.To.X, solution.To.Y, solution.Length)
	if limited && steps > 0 && steps < len(moves) {
		moves = moves[:steps]
		header += fmt.Sprintf("Next %d moves:\n", steps)
	}
	return header + strings.Join(moves, ",")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) • Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s (%d,%d)→(%d,%d)\n", move.MoveNumber, move.Action, status,
			move.FromPosition.X, move.FromPosition.Y, move.ToPosition.X, move.ToPosition.Y)
	}

	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment • Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, move.Action, status)
	}
	return b.String()
}

func formatSessionList(list *service.SessionList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", list.Count)
	for _, s := range list.Sessions {
		status := "playing"
		if s.GameState != nil && s.GameState.Victory {
			status = "solved"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}
	return b.String()
}

func formatConfigs(configs []service.ConfigInfo) string {
	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s\n  %s\n  Maze: %d rows x %d columns", config.ConfigID, config.Description, config.Rows, config.Columns)
		if config.Seed != nil {
			fmt.Fprintf(&b, ", fixed seed %d", *config.Seed)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
