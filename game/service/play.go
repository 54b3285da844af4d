package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

const (
	defaultHistoryPage = 20
	maxHistoryPage     = 100
)

// Stop reason codes reported by BulkMove
const (
	StopBlockedWall      = "blocked_wall"
	StopBlockedBoundary  = "blocked_boundary"
	StopInvalidDirection = "invalid_direction"
	StopGameOver         = "game_over"
	StopVictory          = "victory"
)

func event(kind, message string, at engine.Position) GameEvent {
	return GameEvent{Type: kind, Message: message, Timestamp: time.Now(), Position: at}
}

func resetEvent() GameEvent {
	return event("reset", "Game reset to initial state", engine.Position{})
}

// stepEvents reports a completed step, plus victory when it reached the goal
func stepEvents(state *engine.GameState, dir string, to engine.Position) []GameEvent {
	events := []GameEvent{event("move", fmt.Sprintf("Moved %s to (%d,%d)", dir, to.X, to.Y), to)}
	if state.Victory {
		events = append(events, event("victory", state.Message, to))
	}
	return events
}

// attempt describes the cell a refused move aimed at and why it was refused
func attempt(m *maze.Maze, from engine.Position, dir string, over bool) *AttemptInfo {
	a := &AttemptInfo{X: from.X, Y: from.Y}
	d, ok := maze.ParseDirection(dir)
	switch {
	case over:
		a.Reason = "game_over"
	case !ok:
		a.Reason = "invalid_direction"
	default:
		target := from.Cell().Step(d)
		a.X, a.Y = target.Col, target.Row
		a.Reason = "boundary"
		if m.Contains(target) {
			a.Reason = "wall"
		}
	}
	return a
}

func stopCode(reason string) string {
	switch reason {
	case "wall":
		return StopBlockedWall
	case "boundary":
		return StopBlockedBoundary
	}
	return reason
}

// Move applies one move. A refused move is not an error: the result carries
// Success false and the attempted target.
func (s *gameService) Move(_ context.Context, id, direction string, reset bool) (*MoveResult, error) {
	var result *MoveResult
	err := s.withSession(id, true, func(sess *Session) error {
		eng := sess.Engine
		events := []GameEvent{}
		if reset {
			eng.Reset()
			events = append(events, resetEvent())
		}

		from, over := eng.GetPlayerPosition(), eng.IsGameOver()
		ok := eng.Move(direction)
		state := eng.GetState()
		result = &MoveResult{Success: ok, GameState: state.Clone(), Message: state.Message}

		if !ok {
			result.AttemptedTo = attempt(state.Maze, from, direction, over)
			result.Events = append(events, event("blocked", state.Message, from))
			return nil
		}

		to := eng.GetPlayerPosition()
		result.Events = append(events, stepEvents(state, direction, to)...)
		result.Step = &StepInfo{Idx: 1, Dir: direction, From: from, To: to, Success: true, Victory: state.Victory}
		return nil
	})
	return result, err
}

// BulkMove applies moves in order and stops at the first one refused.
// Requests longer than engine.MaxBulkMoves are truncated.
func (s *gameService) BulkMove(_ context.Context, id string, moves []string, reset bool) (*BulkMoveResult, error) {
	var result *BulkMoveResult
	err := s.withSession(id, true, func(sess *Session) error {
		eng := sess.Engine
		result = &BulkMoveResult{RequestedMoves: len(moves), Success: true, Events: []GameEvent{}}
		if reset {
			eng.Reset()
			result.Events = append(result.Events, resetEvent())
		}
		result.StartPos = eng.GetPlayerPosition()

		if len(moves) > engine.MaxBulkMoves {
			result.Truncated, result.Limit = true, engine.MaxBulkMoves
			moves = moves[:engine.MaxBulkMoves]
		}

		for i, dir := range moves {
			n := i + 1
			if eng.IsGameOver() {
				result.StoppedOnMove = n
				result.StoppedReason = "game over"
				result.StopReasonCode = StopGameOver
				break
			}

			from := eng.GetPlayerPosition()
			if !eng.Move(dir) {
				state := eng.GetState()
				result.Success = false
				result.StoppedOnMove = n
				result.AttemptedTo = attempt(state.Maze, from, dir, false)
				result.StopReasonCode = stopCode(result.AttemptedTo.Reason)
				result.StoppedReason = fmt.Sprintf("move %d blocked: %s", n, dir)
				result.Events = append(result.Events, event("blocked", state.Message, from))
				break
			}

			to, state := eng.GetPlayerPosition(), eng.GetState()
			result.MovesExecuted++
			result.Events = append(result.Events, stepEvents(state, dir, to)...)
			result.Steps = append(result.Steps, StepInfo{Idx: n, Dir: dir, From: from, To: to, Success: true, Victory: state.Victory})
		}

		end := eng.GetState()
		result.GameState = end.Clone()
		result.EndPos = end.PlayerPos
		result.GameOver = end.GameOver
		result.Message = end.Message
		result.PossibleMoves = eng.GetPossibleMoves()
		result.DistanceToGoal = end.DistanceToGoal
		if end.Victory {
			result.GameOverCode = StopVictory
			if result.StopReasonCode == "" {
				result.StopReasonCode = StopVictory
			}
		}
		return nil
	})
	return result, err
}

// Reset puts the player back on the start cell of the same maze
func (s *gameService) Reset(_ context.Context, id string) (state *engine.GameState, err error) {
	err = s.withSession(id, true, func(sess *Session) error {
		state = sess.Engine.Reset().Clone()
		return nil
	})
	return state, err
}

// Regenerate swaps in a new maze; a nil seed draws a random one
func (s *gameService) Regenerate(_ context.Context, id string, seed *uint64) (state *engine.GameState, err error) {
	err = s.withSession(id, true, func(sess *Session) error {
		state, err = sess.Engine.Regenerate(seed)
		if err == nil {
			state = state.Clone()
			log.WithFields(log.Fields{"session": id, "seed": state.Seed}).Debug("regenerated maze")
		}
		return err
	})
	return state, err
}

// GetMoveHistory pages through the cumulative move history. Order defaults
// to desc, most recent first.
func (s *gameService) GetMoveHistory(_ context.Context, id string, opts HistoryOptions) (*HistoryResponse, error) {
	var history []engine.MoveHistoryEntry
	err := s.withSession(id, false, func(sess *Session) error {
		history = slices.Clone(sess.Engine.GetMoveHistory())
		return nil
	})
	if err != nil {
		return nil, err
	}

	opts.Page = max(opts.Page, 1)
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryPage
	}
	opts.Limit = min(opts.Limit, maxHistoryPage)

	ordered := history
	if opts.Order != "asc" {
		slices.Reverse(ordered)
	}

	total := len(history)
	pages := max((total+opts.Limit-1)/opts.Limit, 1)
	start := min((opts.Page-1)*opts.Limit, total)
	end := min(start+opts.Limit, total)

	return &HistoryResponse{
		Moves:       append([]engine.MoveHistoryEntry{}, ordered[start:end]...),
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  pages,
		HasNext:     opts.Page < pages,
		HasPrevious: opts.Page > 1,
	}, nil
}
