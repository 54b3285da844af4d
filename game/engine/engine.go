package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/wricardo/mcp-training/mazerunner/game/layout"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// Engine is what an interactive front end needs to play a game
type Engine interface {
	GetState() *GameState
	Move(direction string) bool
	Reset() *GameState
	Regenerate(seed *uint64) (*GameState, error)
}

var _ Engine = (*GameEngine)(nil)

// GameEngine plays a single maze. It is not safe for concurrent use; the
// service layer serializes access.
type GameEngine struct {
	config *GameConfig
	state  *GameState
}

// build validates config before producing the starting state
func build(config *GameConfig, start func() (*GameState, error)) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	state, err := start()
	if err != nil {
		return nil, err
	}
	return &GameEngine{config: config, state: state}, nil
}

// NewEngine starts a game on config. A seed in the config pins the maze,
// otherwise a random one is drawn.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return build(config, func() (*GameState, error) {
		return InitGameStateFromConfig(config)
	})
}

// NewEngineWithSeed starts a game on the maze for seed, ignoring the config's seed
func NewEngineWithSeed(config *GameConfig, seed uint64) (*GameEngine, error) {
	return build(config, func() (*GameState, error) {
		return InitGameState(config, seed)
	})
}

// NewEngineFromState resumes a saved game
func NewEngineFromState(config *GameConfig, state *GameState) (*GameEngine, error) {
	return build(config, func() (*GameState, error) {
		if err := checkState(state); err != nil {
			return nil, err
		}
		state.Refresh()
		return state, nil
	})
}

func checkState(state *GameState) error {
	switch {
	case state == nil:
		return errors.New("state cannot be nil")
	case state.Maze == nil:
		return errors.New("state has no maze")
	}
	if err := state.Maze.Verify(); err != nil {
		return fmt.Errorf("invalid maze in state: %w", err)
	}
	return nil
}

func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the running game with a saved one
func (e *GameEngine) SetState(state *GameState) error {
	if err := checkState(state); err != nil {
		return err
	}
	state.Refresh()
	e.state = state
	return nil
}

func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

func (e *GameEngine) IsGameOver() bool { return e.state.GameOver }

func (e *GameEngine) IsVictory() bool { return e.state.Victory }

func (e *GameEngine) GetPlayerPosition() Position { return e.state.PlayerPos }

func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry { return e.state.MoveHistory }

// Reset puts the player back on the start cell of the same maze. The
// cumulative history survives; the current segment starts over.
func (e *GameEngine) Reset() *GameState {
	e.state.clearSegment()
	e.state.placeAtStart(e.config)
	return e.state
}

// Regenerate swaps in a new maze of the same size and resets the player.
// A nil seed draws a random one.
func (e *GameEngine) Regenerate(seed *uint64) (*GameState, error) {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}

	m, err := maze.Generate(e.config.Rows, e.config.Columns, maze.NewSource(s))
	if err != nil {
		return nil, fmt.Errorf("failed to generate maze: %w", err)
	}

	e.state.Maze, e.state.Seed = m, s
	return e.Reset(), nil
}

// Move tries one step and records it in the history whether or not it went
// through. After victory every move is refused.
func (e *GameEngine) Move(direction string) bool {
	if e.state.GameOver {
		e.state.Message = e.config.Messages.AlreadyWon
		return false
	}

	from := e.state.PlayerPos
	ok := e.state.MovePlayer(direction, e.config)
	e.state.AddMoveToHistory(direction, from, e.state.PlayerPos, ok)
	e.state.Refresh()
	return ok
}

func (e *GameEngine) CanMove(direction string) bool {
	return e.state.CanMove(direction)
}

// GetPossibleMoves lists the open directions out of the player's cell in
// up, right, down, left order
func (e *GameEngine) GetPossibleMoves() []string {
	var open []string
	for _, d := range maze.Directions {
		if name := d.String(); e.CanMove(name) {
			open = append(open, name)
		}
	}
	return open
}

// GetScene lays the maze out on the configured canvas with the ball on the
// player's cell. Once the walls have collapsed only the boundary remains.
func (e *GameEngine) GetScene() (*layout.Scene, error) {
	scene, err := layout.Build(e.state.Maze, e.config.Width, e.config.Height, layout.Options{
		WallThickness: e.config.WallThickness,
	})
	if err != nil {
		return nil, err
	}

	scene.Ball.X, scene.Ball.Y = scene.CellCenter(e.state.PlayerPos.Cell())
	if e.state.Collapsed {
		scene.Walls = nil
	}
	return scene, nil
}

// GetSolution returns the moves along the unique path from the player to the goal
func (e *GameEngine) GetSolution() ([]string, error) {
	path, err := e.state.Maze.Path(e.state.PlayerPos.Cell(), e.state.GoalPos.Cell())
	if err != nil {
		return nil, err
	}

	dirs := maze.DirectionsAlong(path)
	moves := make([]string, len(dirs))
	for i, d := range dirs {
		moves[i] = d.String()
	}
	return moves, nil
}
