// Command mazegen generates, inspects and plays perfect mazes from the
// command line.
//
//	mazegen generate --rows 8 --columns 12 --seed 42
//	mazegen generate --format scene --width 800 --height 600
//	mazegen analyze --rows 20 --columns 20 --samples 200
//	mazegen validate --config-dir configs
//	mazegen play --config easy
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazerunner/game/config"
	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/layout"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
	"github.com/wricardo/mcp-training/mazerunner/transport/terminal"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func dimensionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "rows", Aliases: []string{"r"}, Value: 10, Usage: "number of rows"},
		&cli.IntFlag{Name: "columns", Aliases: []string{"c"}, Value: 10, Usage: "number of columns"},
		&cli.Uint64Flag{Name: "seed", Usage: "seed for a reproducible maze (random when unset)"},
	}
}

func configDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Value:   "configs",
		Usage:   "directory containing game configurations",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

// seedFrom returns the --seed flag or a fresh random seed
func seedFrom(cmd *cli.Command) uint64 {
	if cmd.IsSet("seed") {
		return cmd.Uint64("seed")
	}
	return rand.Uint64()
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "mazegen",
		Usage:  "generate, inspect and play perfect mazes",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate a maze and print it",
				Flags: append(dimensionFlags(),
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "ascii", Usage: "output format: ascii, json or scene"},
					&cli.FloatFlag{Name: "width", Value: engine.DefaultCanvasSize, Usage: "canvas width for --format scene"},
					&cli.FloatFlag{Name: "height", Value: engine.DefaultCanvasSize, Usage: "canvas height for --format scene"},
				),
				Action: generateAction,
			},
			{
				Name:  "analyze",
				Usage: "generate many mazes and report statistics",
				Flags: append(dimensionFlags(),
					&cli.IntFlag{Name: "samples", Aliases: []string{"n"}, Value: 100, Usage: "number of mazes to generate"},
				),
				Action: analyzeAction,
			},
			{
				Name:   "validate",
				Usage:  "validate the game configurations in a directory",
				Flags:  []cli.Flag{configDirFlag()},
				Action: validateAction,
			},
			{
				Name:  "play",
				Usage: "play a maze in the terminal",
				Flags: []cli.Flag{
					configDirFlag(),
					&cli.StringFlag{Name: "config", Value: "", Usage: "configuration to play (default preset when empty)"},
					&cli.Uint64Flag{Name: "seed", Usage: "seed for a reproducible maze"},
				},
				Action: playAction,
			},
		},
	}
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	seed := seedFrom(cmd)
	m, err := maze.Generate(cmd.Int("rows"), cmd.Int("columns"), maze.NewSource(seed))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	switch format := cmd.String("format"); format {
	case "ascii":
		fmt.Fprintf(out, "seed %d\n%s", seed, m)
		return nil
	case "json":
		return writeJSON(out, struct {
			Seed uint64     `json:"seed"`
			Maze *maze.Maze `json:"maze"`
		}{seed, m})
	case "scene":
		scene, err := layout.Build(m, cmd.Float("width"), cmd.Float("height"), layout.Options{})
		if err != nil {
			return err
		}
		return writeJSON(out, scene)
	default:
		return fmt.Errorf("unknown format %q (want ascii, json or scene)", format)
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	samples := cmd.Int("samples")
	if samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", samples)
	}

	stats, err := analyzeMazes(cmd.Int("rows"), cmd.Int("columns"), samples, seedFrom(cmd))
	if err != nil {
		return err
	}

	printStats(cmd.Root().Writer, stats)
	return nil
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	results, err := validateDir(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	if !printResults(cmd.Root().Writer, results) {
		return fmt.Errorf("some configurations have errors")
	}
	return nil
}

func playAction(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	var gameConfig *engine.GameConfig
	if name := cmd.String("config"); name != "" {
		gameConfig, err = manager.LoadConfig(name)
		if err != nil {
			return err
		}
	} else {
		gameConfig = manager.GetDefault()
	}

	var eng *engine.GameEngine
	if cmd.IsSet("seed") {
		eng, err = engine.NewEngineWithSeed(gameConfig, cmd.Uint64("seed"))
	} else {
		eng, err = engine.NewEngine(gameConfig)
	}
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return terminal.Run(screen, eng)
}
