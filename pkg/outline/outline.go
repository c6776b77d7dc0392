// Package outline parses stroke outline path strings and flattens them into
// closed polygon loops.
//
// Outline strings use the usual 2-D path grammar (M, L, H, V, C, S, Q, T, Z in
// absolute and relative forms). Coordinates are returned in the source's own
// units; no transform is applied.
package outline

import (
	"errors"
	"fmt"
)

// ErrMalformedOutline is matched by every *MalformedOutlineError.
var ErrMalformedOutline = errors.New("malformed outline")

// MalformedOutlineError reports a path string that cannot be tokenized or that
// contains no usable closed loop.
type MalformedOutlineError struct {
	Index  int // stroke index, -1 when parsed outside a character
	Pos    int // byte offset into the path string, -1 when not positional
	Reason string
}

func (e *MalformedOutlineError) Error() string {
	prefix := "malformed outline"
	if e.Index >= 0 {
		prefix = fmt.Sprintf("stroke %d: malformed outline", e.Index)
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", prefix, e.Pos, e.Reason)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Reason)
}

// Is lets errors.Is match ErrMalformedOutline.
func (e *MalformedOutlineError) Is(target error) bool {
	return target == ErrMalformedOutline
}

// Point is a 2-D point in outline units.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Op is a normalized drawing command.
type Op byte

const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpQuad  Op = 'Q'
	OpCubic Op = 'C'
	OpClose Op = 'Z'
)

// Command is one absolute drawing command. Pts holds the control points
// followed by the end point (0 for Close, 1 for Move/Line, 2 for Quad,
// 3 for Cubic).
type Command struct {
	Op  Op
	Pts []Point
}

// Path is a parsed outline: the normalized command list.
type Path struct {
	Commands []Command
}

// Polygon is a closed loop. The closing edge from the last point back to the
// first is implicit.
type Polygon []Point

// Shape is one fillable region: an outer contour with optional holes.
// Contours wind counter-clockwise and holes clockwise (y up).
type Shape struct {
	Contour Polygon
	Holes   []Polygon
}

// ParseStroke parses one stroke's path string, flattens curves with
// curveSegments steps and returns the first fillable shape. Errors carry the
// stroke index.
func ParseStroke(index int, d string, curveSegments int) (Shape, error) {
	p, err := Parse(d)
	if err != nil {
		return Shape{}, withIndex(err, index)
	}
	shapes, err := p.Shapes(curveSegments)
	if err != nil {
		return Shape{}, withIndex(err, index)
	}
	return shapes[0], nil
}

func withIndex(err error, index int) error {
	var me *MalformedOutlineError
	if errors.As(err, &me) {
		cp := *me
		cp.Index = index
		return &cp
	}
	return err
}
