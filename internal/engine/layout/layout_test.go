package layout

import (
	"testing"

	"github.com/Faultbox/strokeglyph/internal/engine/model"
	"github.com/Faultbox/strokeglyph/pkg/math"
	"github.com/Faultbox/strokeglyph/pkg/outline"
)

func TestAggregateEmpty(t *testing.T) {
	l := Aggregate(nil)
	if l.OffsetX != 0 || l.OffsetY != 0 {
		t.Errorf("expected zero offset for no strokes, got (%v, %v)", l.OffsetX, l.OffsetY)
	}
	if !l.Bounds.IsEmpty() {
		t.Error("expected empty bounds for no strokes")
	}
}

func TestAggregateUnion(t *testing.T) {
	boxes := []math.Box2{
		{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50},
		{MinX: 400, MinY: 700, MaxX: 1000, MaxY: 900},
	}
	l := Aggregate(boxes)

	if l.OffsetX != -500 || l.OffsetY != -450 {
		t.Errorf("offset = (%v, %v), want (-500, -450)", l.OffsetX, l.OffsetY)
	}
	want := math.Box2{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 900}
	if l.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", l.Bounds, want)
	}
}

func TestSquareCentroidOffset(t *testing.T) {
	p, err := outline.Parse("M 200 300 L 600 300 L 600 700 L 200 700 Z")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	shapes, err := p.Shapes(4)
	if err != nil {
		t.Fatalf("Shapes() error: %v", err)
	}
	mesh, err := model.Extrude(shapes[0], model.DefaultParams())
	if err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}

	l := Aggregate([]math.Box2{mesh.Outline})
	// Centroid of the square is (400, 500); the bevel must not shift it.
	if l.OffsetX != -400 || l.OffsetY != -500 {
		t.Errorf("offset = (%v, %v), want (-400, -500)", l.OffsetX, l.OffsetY)
	}
	if off := l.Offset(); off.Z != 0 {
		t.Errorf("offset must not carry depth, got z=%v", off.Z)
	}
}
