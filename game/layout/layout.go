// Package layout places the pieces of a generated maze on a canvas.
//
// Every rectangle is centre-anchored: X and Y give the middle of the shape,
// Width and Height its full extent. Only closed walls produce a rectangle.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

var ErrInvalidCanvas = errors.New("invalid canvas size")

const (
	LabelWall = "wall"
	LabelGoal = "goal"
	LabelBall = "ball"

	DefaultWallThickness     = 5.0
	DefaultBoundaryThickness = 2.0
)

// Options tunes wall thickness. Zero values fall back to the defaults.
type Options struct {
	WallThickness     float64 `json:"wall_thickness,omitempty"`
	BoundaryThickness float64 `json:"boundary_thickness,omitempty"`
}

// Rect is a centre-anchored rectangle
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
}

// Circle is the actor body
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Label  string  `json:"label"`
}

// Scene is everything a renderer or physics simulation needs
type Scene struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	UnitX    float64 `json:"unit_x"`
	UnitY    float64 `json:"unit_y"`
	Boundary []Rect  `json:"boundary"`
	Walls    []Rect  `json:"walls"`
	Goal     Rect    `json:"goal"`
	Ball     Circle  `json:"ball"`
}

// Build converts the wall tables of m into canvas geometry
func Build(m *maze.Maze, width, height float64, opts Options) (*Scene, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: nil maze")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, width, height)
	}
	if m.Rows < 1 || m.Columns < 1 {
		return nil, fmt.Errorf("%w: rows=%d columns=%d", maze.ErrInvalidDimensions, m.Rows, m.Columns)
	}

	t := opts.WallThickness
	if t <= 0 {
		t = DefaultWallThickness
	}
	b := opts.BoundaryThickness
	if b <= 0 {
		b = DefaultBoundaryThickness
	}

	ux := width / float64(m.Columns)
	uy := height / float64(m.Rows)

	s := &Scene{
		Width:  width,
		Height: height,
		UnitX:  ux,
		UnitY:  uy,
		Boundary: []Rect{
			{X: width / 2, Y: 0, Width: width, Height: b, Label: LabelWall},
			{X: width / 2, Y: height, Width: width, Height: b, Label: LabelWall},
			{X: width, Y: height / 2, Width: b, Height: height, Label: LabelWall},
			{X: 0, Y: height / 2, Width: b, Height: height, Label: LabelWall},
		},
		Goal: Rect{
			X:      width - ux/2,
			Y:      height - uy/2,
			Width:  ux / 2,
			Height: uy / 2,
			Label:  LabelGoal,
		},
		Ball: Circle{
			X:      ux / 2,
			Y:      uy / 2,
			Radius: math.Min(ux, uy) / 4,
			Label:  LabelBall,
		},
	}

	for r, row := range m.Horizontal {
		for c, open := range row {
			if open {
				continue
			}
			s.Walls = append(s.Walls, Rect{
				X:      float64(c)*ux + ux/2,
				Y:      float64(r)*uy + uy,
				Width:  ux,
				Height: t,
				Label:  LabelWall,
			})
		}
	}
	for r, row := range m.Vertical {
		for c, open := range row {
			if open {
				continue
			}
			s.Walls = append(s.Walls, Rect{
				X:      float64(c)*ux + ux,
				Y:      float64(r)*uy + uy/2,
				Width:  t,
				Height: uy,
				Label:  LabelWall,
			})
		}
	}

	return s, nil
}

// CellCenter returns the canvas position of the middle of a cell
func (s *Scene) CellCenter(c maze.Cell) (float64, float64) {
	return float64(c.Col)*s.UnitX + s.UnitX/2, float64(c.Row)*s.UnitY + s.UnitY/2
}

// Contains reports whether the point lies inside the rectangle, edges included
func (r Rect) Contains(x, y float64) bool {
	return math.Abs(x-r.X) <= r.Width/2 && math.Abs(y-r.Y) <= r.Height/2
}
