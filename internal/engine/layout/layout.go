// Package layout computes the shared placement that centers a whole glyph.
package layout

import "github.com/Faultbox/strokeglyph/pkg/math"

// Layout is the aggregate bounding box of every stroke of a character and the
// offset that moves its center to the origin.
type Layout struct {
	Bounds  math.Box2
	OffsetX float64
	OffsetY float64
}

// Aggregate combines per-stroke outline boxes into one layout. The offset is
// -(min+max)/2 on each axis. Depth never takes part in centering. An empty
// input (or only empty boxes) yields a zero offset.
func Aggregate(boxes []math.Box2) Layout {
	total := math.EmptyBox2()
	for _, b := range boxes {
		total = total.Union(b)
	}
	if total.IsEmpty() {
		return Layout{Bounds: total}
	}

	cx, cy := total.Center()
	return Layout{
		Bounds:  total,
		OffsetX: -cx,
		OffsetY: -cy,
	}
}

// Offset returns the centering translation as a vector with zero depth.
func (l Layout) Offset() math.Vec3 {
	return math.Vec3{X: float32(l.OffsetX), Y: float32(l.OffsetY)}
}
