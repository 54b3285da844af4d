package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// sampleSeed is used to build a trial maze for configurations without a seed
const sampleSeed = 1

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages holds informational lines; otherwise it holds
// the problems that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Messages = append(r.Messages, "✓ "+fmt.Sprintf(format, args...))
}

// validateDir validates every *.json file in dir, in name order
func validateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files in %s", dir)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}
	return results, nil
}

// validateConfig loads a configuration, checks it, then generates a trial maze
// from it and verifies the maze is perfect and solvable from start to goal.
func validateConfig(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var cfg engine.GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&cfg); err != nil {
		result.fail("%v", err)
		return result
	}

	seed := uint64(sampleSeed)
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	m, err := maze.Generate(cfg.Rows, cfg.Columns, maze.NewSource(seed))
	if err != nil {
		result.fail("Generation failed: %v", err)
		return result
	}
	if err := m.Verify(); err != nil {
		result.fail("Generated maze is not perfect: %v", err)
		return result
	}

	goal := maze.Cell{Row: cfg.Rows - 1, Col: cfg.Columns - 1}
	path2goal, err := m.Path(maze.Cell{}, goal)
	if err != nil {
		result.fail("Goal unreachable: %v", err)
		return result
	}

	result.info("Name: %s", cfg.Name)
	result.info("Grid: %dx%d", cfg.Rows, cfg.Columns)
	result.info("Canvas: %gx%g", cfg.Width, cfg.Height)
	if cfg.Seed != nil {
		result.info("Seed: %d (fixed)", seed)
	} else {
		result.info("Seed: random (checked with %d)", seed)
	}
	result.info("Passages: %d", m.OpenPassages())
	result.info("Dead ends: %d", len(m.DeadEnds()))
	result.info("Solution: %d moves", len(path2goal)-1)

	return result
}

// printResults writes a report in file order and reports whether every
// configuration is valid
func printResults(out io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, msg := range result.Messages {
				fmt.Fprintln(out, "  "+msg)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(out, "❌ INVALID")
		for _, msg := range result.Messages {
			fmt.Fprintln(out, "  ❌ "+msg)
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid
}
