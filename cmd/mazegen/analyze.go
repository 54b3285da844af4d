package main

import (
	"fmt"
	"io"

	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

// summary tracks min, max and mean of one measurement across samples
type summary struct {
	Min, Max int
	total    int
	count    int
}

func (s *summary) add(v int) {
	if s.count == 0 || v < s.Min {
		s.Min = v
	}
	if s.count == 0 || v > s.Max {
		s.Max = v
	}
	s.total += v
	s.count++
}

func (s summary) Mean() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.total) / float64(s.count)
}

// mazeStats aggregates measurements over a batch of generated mazes
type mazeStats struct {
	Rows, Columns int
	Samples       int
	FirstSeed     uint64
	Passages      int
	DeadEnds      summary
	Solution      summary
}

// analyzeMazes generates samples mazes with consecutive seeds starting at
// seed. Every maze must verify; the first one that does not aborts the run.
func analyzeMazes(rows, columns, samples int, seed uint64) (*mazeStats, error) {
	stats := &mazeStats{Rows: rows, Columns: columns, Samples: samples, FirstSeed: seed}
	goal := maze.Cell{Row: rows - 1, Col: columns - 1}

	for i := 0; i < samples; i++ {
		s := seed + uint64(i)
		m, err := maze.Generate(rows, columns, maze.NewSource(s))
		if err != nil {
			return nil, err
		}
		if err := m.Verify(); err != nil {
			return nil, fmt.Errorf("seed %d: %w", s, err)
		}

		path, err := m.Path(maze.Cell{}, goal)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", s, err)
		}

		stats.Passages = m.OpenPassages()
		stats.DeadEnds.add(len(m.DeadEnds()))
		stats.Solution.add(len(path) - 1)
	}

	return stats, nil
}

func printStats(out io.Writer, stats *mazeStats) {
	fmt.Fprintf(out, "=== %dx%d mazes, %d samples from seed %d ===\n",
		stats.Rows, stats.Columns, stats.Samples, stats.FirstSeed)
	fmt.Fprintf(out, "Passages:        %d (cells - 1)\n", stats.Passages)
	fmt.Fprintf(out, "Dead ends:       avg %.2f  min %d  max %d\n",
		stats.DeadEnds.Mean(), stats.DeadEnds.Min, stats.DeadEnds.Max)
	fmt.Fprintf(out, "Solution length: avg %.2f  min %d  max %d\n",
		stats.Solution.Mean(), stats.Solution.Min, stats.Solution.Max)
	fmt.Fprintln(out, "✅ All mazes verified perfect")
}
