// Command mazebot plays a Maze Runner session through the REST API without
// looking at the solution. It keeps one hand on the wall until it reaches
// the goal, which always works in a perfect maze.
//
//	mazebot --url http://localhost:8080 --config easy --seed 7 -v
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

var errMoveLimit = errors.New("move limit reached")

// runOptions controls a single solving run
type runOptions struct {
	MaxMoves int
	Delay    time.Duration
	Verbose  bool
}

// runResult summarizes a finished run
type runResult struct {
	Moves   int
	Visited int
	State   *engine.GameState
}

// solve resets the session and walks it until victory, the move limit or
// a dead stop
func solve(ctx context.Context, client *Client, strategy *WallFollower, opts runOptions) (*runResult, error) {
	state, err := client.Reset(ctx)
	if err != nil {
		return nil, err
	}
	strategy.Reset()

	result := &runResult{State: state}
	for !state.Victory && !state.GameOver {
		if opts.MaxMoves > 0 && result.Moves >= opts.MaxMoves {
			return result, fmt.Errorf("%w after %d moves", errMoveLimit, result.Moves)
		}

		direction := strategy.NextMove(state)
		if direction == "" {
			return result, fmt.Errorf("no open direction at (%d,%d)", state.PlayerPos.X, state.PlayerPos.Y)
		}

		moved, err := client.Move(ctx, direction)
		if err != nil {
			return result, err
		}
		if !moved.Success {
			return result, fmt.Errorf("server rejected %s at (%d,%d): %s",
				direction, state.PlayerPos.X, state.PlayerPos.Y, moved.Message)
		}

		state = moved.GameState
		result.State = state
		result.Moves++

		if opts.Verbose && result.Moves%50 == 0 {
			log.WithField("session", client.SessionID()).Debugf("move %d at (%d,%d), %d from goal",
				result.Moves, state.PlayerPos.X, state.PlayerPos.Y, state.DistanceToGoal)
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	strategy.Mark(state.PlayerPos)
	result.Visited = strategy.Visited()
	return result, nil
}

func main() {
	if err := newApp(play).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// botConfig is what the command line asks for
type botConfig struct {
	ServerURL   string
	ConfigName  string
	Seed        *uint64 // nil draws a random maze
	Continue    string
	SessionFile string
	MaxMoves    int
	LeftHand    bool
	Verbose     bool
	Delay       time.Duration
}

func newApp(run func(context.Context, botConfig) error) *cli.Command {
	return &cli.Command{
		Name:  "mazebot",
		Usage: "solve a Maze Runner session by following a wall",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "game configuration (server default when empty)"},
			&cli.Uint64Flag{Name: "seed", Usage: "maze seed for a new session (random when unset)"},
			&cli.StringFlag{Name: "continue", Usage: "resume playing an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "file remembering the last session ID"},
			&cli.IntFlag{Name: "max-moves", Usage: "maximum moves (0 = 2*(cells-1), enough for any perfect maze)"},
			&cli.BoolFlag{Name: "left", Usage: "follow the left wall instead of the right"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "verbose output"},
			&cli.IntFlag{Name: "delay", Usage: "delay between moves in milliseconds"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, configFrom(cmd))
		},
	}
}

func configFrom(cmd *cli.Command) botConfig {
	cfg := botConfig{
		ServerURL:   cmd.String("url"),
		ConfigName:  cmd.String("config"),
		Continue:    cmd.String("continue"),
		SessionFile: cmd.String("session-file"),
		MaxMoves:    cmd.Int("max-moves"),
		LeftHand:    cmd.Bool("left"),
		Verbose:     cmd.Bool("verbose"),
		Delay:       time.Duration(cmd.Int("delay")) * time.Millisecond,
	}
	if cmd.IsSet("seed") {
		seed := cmd.Uint64("seed")
		cfg.Seed = &seed
	}
	return cfg
}

// play resumes or creates a session and walks it to the goal
func play(ctx context.Context, cfg botConfig) error {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.Infof("Connecting to game server at %s", cfg.ServerURL)
	client := NewClient(cfg.ServerURL)

	savedSessionID := cfg.Continue
	if savedSessionID == "" {
		if data, err := os.ReadFile(cfg.SessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	var state *engine.GameState
	if savedSessionID != "" {
		client.Use(savedSessionID)
		var err error
		state, err = client.GetState(ctx)
		if err != nil {
			log.Warnf("Failed to resume session %s (may be expired): %v", savedSessionID, err)
			savedSessionID = ""
		} else {
			log.WithField("session", savedSessionID).Info("🔄 Resumed session")
		}
	}

	if savedSessionID == "" {
		var err error
		state, err = client.CreateSession(ctx, cfg.ConfigName, cfg.Seed)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		log.WithField("session", client.SessionID()).Info("✨ Session created")

		if err := os.WriteFile(cfg.SessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.Warnf("Failed to save session ID: %v", err)
		}
	}

	cells := state.Maze.Cells()
	log.Infof("Maze %dx%d, seed %d, %d moves from goal", state.Maze.Rows, state.Maze.Columns, state.Seed, state.DistanceToGoal)

	limit := cfg.MaxMoves
	if limit == 0 {
		limit = 2 * (cells - 1)
	}

	result, err := solve(ctx, client, NewWallFollower(cfg.LeftHand), runOptions{
		MaxMoves: limit,
		Delay:    cfg.Delay,
		Verbose:  cfg.Verbose,
	})
	if err != nil {
		if result != nil {
			log.Errorf("❌ Stopped after %d moves", result.Moves)
		}
		log.Infof("Session: %s", client.SessionID())
		return err
	}

	log.Infof("🎉 VICTORY in %d moves, visited %d/%d cells", result.Moves, result.Visited, cells)
	log.Infof("Session: %s", client.SessionID())
	return nil
}
