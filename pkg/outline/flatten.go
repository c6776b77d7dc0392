package outline

import "math"

// areaEpsilon is the smallest loop area treated as real geometry, in squared
// outline units.
const areaEpsilon = 1e-9

// Polygons flattens every subpath into a closed loop. Curves are sampled with
// curveSegments uniform steps. Subpaths left open are closed implicitly;
// subpaths with fewer than three distinct points or no area are dropped. An
// error is returned if no loop survives.
func (p *Path) Polygons(curveSegments int) ([]Polygon, error) {
	if curveSegments < 1 {
		curveSegments = 1
	}

	var loops []Polygon
	var cur Polygon
	var pen Point

	flush := func() {
		if poly := cleanLoop(cur); poly != nil {
			loops = append(loops, poly)
		}
		cur = nil
	}

	for _, c := range p.Commands {
		switch c.Op {
		case OpMove:
			flush()
			pen = c.Pts[0]
			cur = Polygon{pen}
		case OpLine:
			if cur == nil {
				cur = Polygon{pen}
			}
			pen = c.Pts[0]
			cur = append(cur, pen)
		case OpQuad:
			if cur == nil {
				cur = Polygon{pen}
			}
			p0, p1, p2 := pen, c.Pts[0], c.Pts[1]
			for i := 1; i <= curveSegments; i++ {
				cur = append(cur, quadAt(p0, p1, p2, float64(i)/float64(curveSegments)))
			}
			pen = p2
		case OpCubic:
			if cur == nil {
				cur = Polygon{pen}
			}
			p0, p1, p2, p3 := pen, c.Pts[0], c.Pts[1], c.Pts[2]
			for i := 1; i <= curveSegments; i++ {
				cur = append(cur, cubicAt(p0, p1, p2, p3, float64(i)/float64(curveSegments)))
			}
			pen = p3
		case OpClose:
			if len(cur) > 0 {
				pen = cur[0]
			}
			flush()
		}
	}
	flush()

	if len(loops) == 0 {
		return nil, &MalformedOutlineError{Index: -1, Pos: -1, Reason: "no closed loop with area"}
	}
	return loops, nil
}

// Shapes groups the flattened loops into fillable shapes. A loop nested inside
// an odd number of other loops is a hole of its innermost container; the rest
// are outer contours. Shapes are returned in the order their contours appear
// in the path, so Shapes()[0] is the stroke's primary region.
func (p *Path) Shapes(curveSegments int) ([]Shape, error) {
	loops, err := p.Polygons(curveSegments)
	if err != nil {
		return nil, err
	}

	n := len(loops)
	areas := make([]float64, n)
	for i, l := range loops {
		areas[i] = math.Abs(l.Area())
	}

	// parent[i] is the smallest loop containing loop i, or -1.
	parent := make([]int, n)
	depth := make([]int, n)
	for i := range loops {
		parent[i] = -1
		for j := range loops {
			if i == j || areas[j] <= areas[i] || !loops[j].Contains(loops[i][0]) {
				continue
			}
			depth[i]++
			if parent[i] < 0 || areas[j] < areas[parent[i]] {
				parent[i] = j
			}
		}
	}

	shapeOf := make(map[int]int)
	var shapes []Shape
	for i, l := range loops {
		if depth[i]%2 == 1 {
			continue
		}
		shapeOf[i] = len(shapes)
		shapes = append(shapes, Shape{Contour: l.Oriented(true)})
	}
	for i, l := range loops {
		if depth[i]%2 == 0 {
			continue
		}
		si, ok := shapeOf[parent[i]]
		if !ok {
			continue
		}
		shapes[si].Holes = append(shapes[si].Holes, l.Oriented(false))
	}
	return shapes, nil
}

// Area returns the signed area (positive for counter-clockwise, y up).
func (pg Polygon) Area() float64 {
	var a float64
	for i := range pg {
		j := (i + 1) % len(pg)
		a += pg[i].X*pg[j].Y - pg[j].X*pg[i].Y
	}
	return a / 2
}

// Oriented returns the loop wound counter-clockwise when ccw is true and
// clockwise otherwise. The receiver is not modified.
func (pg Polygon) Oriented(ccw bool) Polygon {
	out := make(Polygon, len(pg))
	copy(out, pg)
	if (pg.Area() > 0) != ccw {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Contains reports whether pt lies inside the loop (even-odd rule).
func (pg Polygon) Contains(pt Point) bool {
	inside := false
	for i, j := 0, len(pg)-1; i < len(pg); j, i = i, i+1 {
		a, b := pg[i], pg[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// cleanLoop removes consecutive duplicates and a duplicated closing point.
func cleanLoop(pts Polygon) Polygon {
	if len(pts) < 3 {
		return nil
	}
	out := make(Polygon, 0, len(pts))
	for _, pt := range pts {
		if len(out) > 0 && samePoint(out[len(out)-1], pt) {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && samePoint(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 || math.Abs(out.Area()) < areaEpsilon {
		return nil
	}
	return out
}

func samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	return Point{
		u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
