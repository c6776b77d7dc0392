package model

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/strokeglyph/pkg/outline"
)

// earEpsilon is the smallest doubled triangle area accepted as an ear.
const earEpsilon = 1e-10

// triangulate fills a counter-clockwise contour with clockwise holes. Holes are
// bridged into the contour first, then the single merged loop is ear-clipped.
// It returns the merged loop and index triples into it, wound counter-clockwise.
func triangulate(contour outline.Polygon, holes []outline.Polygon) ([]outline.Point, []int) {
	merged := make([]outline.Point, len(contour))
	copy(merged, contour)

	// Bridge holes right to left so earlier bridges never cross later ones.
	order := make([]int, len(holes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return maxX(holes[order[a]]) > maxX(holes[order[b]])
	})
	for _, hi := range order {
		merged = bridgeHole(merged, holes[hi])
	}

	return merged, earClip(merged)
}

// bridgeHole splices hole into outer through a pair of coincident edges from
// the hole's rightmost vertex to a visible outer vertex. A hole with no
// visible outer vertex is dropped.
func bridgeHole(outer []outline.Point, hole outline.Polygon) []outline.Point {
	if len(hole) < 3 {
		return outer
	}

	hi := 0
	for i, p := range hole {
		if p.X > hole[hi].X || (p.X == hole[hi].X && p.Y < hole[hi].Y) {
			hi = i
		}
	}
	h := hole[hi]

	// Cast a ray towards +X and find the nearest outer edge it crosses.
	n := len(outer)
	m := -1
	hitX := gomath.Inf(1)
	for i := 0; i < n; i++ {
		a, b := outer[i], outer[(i+1)%n]
		if a.Y == b.Y {
			if a.Y == h.Y {
				for _, k := range []int{i, (i + 1) % n} {
					if outer[k].X >= h.X && outer[k].X < hitX {
						hitX, m = outer[k].X, k
					}
				}
			}
			continue
		}
		if (a.Y > h.Y) == (b.Y > h.Y) && a.Y != h.Y && b.Y != h.Y {
			continue
		}
		x := a.X + (h.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < h.X || x >= hitX {
			continue
		}
		hitX = x
		if a.X > b.X {
			m = i
		} else {
			m = (i + 1) % n
		}
	}
	if m < 0 {
		return outer
	}

	// Another outer vertex may sit inside the triangle (h, hit, m) and block
	// the bridge; take the one closest in angle to the ray.
	hit := outline.Point{X: hitX, Y: h.Y}
	if outer[m] != hit {
		bestTan := gomath.Inf(1)
		for i, p := range outer {
			if i == m || p.X < h.X || p == h {
				continue
			}
			if !pointInTriangleAny(h, hit, outer[m], p) {
				continue
			}
			tan := gomath.Abs(p.Y-h.Y) / gomath.Max(p.X-h.X, 1e-12)
			if tan < bestTan {
				bestTan = tan
				m = i
			}
		}
	}

	out := make([]outline.Point, 0, n+len(hole)+2)
	out = append(out, outer[:m+1]...)
	out = append(out, hole[hi:]...)
	out = append(out, hole[:hi+1]...)
	out = append(out, outer[m:]...)
	return out
}

// earClip triangulates a simple counter-clockwise loop. Loops that are not
// quite simple (self-touching outlines) still terminate: when no ear is found
// a collinear vertex is dropped or the current vertex is cut anyway.
func earClip(pts []outline.Point) []int {
	n := len(pts)
	if n < 3 {
		return nil
	}

	prev := make([]int, n)
	next := make([]int, n)
	for i := range pts {
		prev[i] = (i + n - 1) % n
		next[i] = (i + 1) % n
	}
	remove := func(i int) {
		next[prev[i]] = next[i]
		prev[next[i]] = prev[i]
	}

	tris := make([]int, 0, 3*(n-2))
	remaining := n
	i := 0
	misses := 0
	for remaining > 3 {
		a, c := prev[i], next[i]
		if isEar(pts, next, a, i, c) {
			tris = append(tris, a, i, c)
			remove(i)
			remaining--
			misses = 0
			i = c
			continue
		}

		i = c
		misses++
		if misses < remaining {
			continue
		}

		misses = 0
		if j := findCollinear(pts, prev, next, i, remaining); j >= 0 {
			remove(j)
			remaining--
			i = next[j]
			continue
		}
		if cross(pts[prev[i]], pts[i], pts[next[i]]) > earEpsilon {
			tris = append(tris, prev[i], i, next[i])
		}
		c = next[i]
		remove(i)
		remaining--
		i = c
	}

	if cross(pts[prev[i]], pts[i], pts[next[i]]) > earEpsilon {
		tris = append(tris, prev[i], i, next[i])
	}
	return tris
}

func isEar(pts []outline.Point, next []int, a, b, c int) bool {
	pa, pb, pc := pts[a], pts[b], pts[c]
	if cross(pa, pb, pc) <= earEpsilon {
		return false
	}
	for p := next[c]; p != a; p = next[p] {
		q := pts[p]
		if q == pa || q == pb || q == pc {
			continue
		}
		if pointInTriangle(pa, pb, pc, q) {
			return false
		}
	}
	return true
}

func findCollinear(pts []outline.Point, prev, next []int, start, count int) int {
	i := start
	for k := 0; k < count; k++ {
		if gomath.Abs(cross(pts[prev[i]], pts[i], pts[next[i]])) <= earEpsilon {
			return i
		}
		i = next[i]
	}
	return -1
}

// cross returns the doubled signed area of triangle abc.
func cross(a, b, c outline.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// pointInTriangle tests p against a counter-clockwise triangle, edges included.
func pointInTriangle(a, b, c, p outline.Point) bool {
	return cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0
}

// pointInTriangleAny tests p against a triangle of either winding.
func pointInTriangleAny(a, b, c, p outline.Point) bool {
	if cross(a, b, c) < 0 {
		b, c = c, b
	}
	return pointInTriangle(a, b, c, p)
}

func maxX(pg outline.Polygon) float64 {
	x := gomath.Inf(-1)
	for _, p := range pg {
		x = gomath.Max(x, p.X)
	}
	return x
}
