package outline

import (
	"strconv"
	"strings"
)

// Parse tokenizes a path string into absolute commands. Relative commands are
// resolved, H/V become lines and the smooth forms S/T get their reflected
// control point.
func Parse(d string) (*Path, error) {
	if strings.TrimSpace(d) == "" {
		return nil, &MalformedOutlineError{Index: -1, Pos: -1, Reason: "empty path"}
	}

	p := &parser{data: d}
	for p.err == nil {
		p.skipSeparators()
		if p.pos >= len(p.data) {
			break
		}
		p.command()
	}
	if p.err != nil {
		return nil, p.err
	}
	if len(p.cmds) == 0 {
		return nil, &MalformedOutlineError{Index: -1, Pos: -1, Reason: "no drawing commands"}
	}
	return &Path{Commands: p.cmds}, nil
}

type parser struct {
	data string
	pos  int
	err  error

	start Point // current subpath start
	cur   Point
	ctrl  Point // last cubic control point, for S
	quad  Point // last quadratic control point, for T
	open  bool  // a subpath has been started
	cmds  []Command
}

func (p *parser) command() {
	at := p.pos
	c := p.data[p.pos]
	if !isCommand(c) {
		p.fail(at, "unexpected character "+strconv.QuoteRune(rune(c)))
		return
	}
	p.pos++

	rel := c >= 'a'
	if rel {
		c -= 'a' - 'A'
	}
	if c != 'M' && !p.open {
		p.fail(at, "path must start with a moveto")
		return
	}

	switch c {
	case 'M':
		pts := p.points(1, at)
		if p.err != nil {
			return
		}
		// Pairs after the first moveto are implicit linetos.
		for i, pt := range pts {
			pt = p.resolve(pt, rel)
			if i == 0 {
				p.emit(OpMove, pt)
				p.start = pt
				p.open = true
				continue
			}
			p.emit(OpLine, pt)
		}

	case 'L':
		for _, pt := range p.points(1, at) {
			p.emit(OpLine, p.resolve(pt, rel))
		}

	case 'H', 'V':
		for _, n := range p.numbers(at) {
			q := p.cur
			switch {
			case c == 'H' && rel:
				q.X += n
			case c == 'H':
				q.X = n
			case rel:
				q.Y += n
			default:
				q.Y = n
			}
			p.emit(OpLine, q)
		}

	case 'C':
		pts := p.points(3, at)
		for i := 0; i+2 < len(pts); i += 3 {
			p.emit(OpCubic, p.resolve(pts[i], rel), p.resolve(pts[i+1], rel), p.resolve(pts[i+2], rel))
		}

	case 'S':
		pts := p.points(2, at)
		for i := 0; i+1 < len(pts); i += 2 {
			c1 := reflect(p.ctrl, p.cur)
			p.emit(OpCubic, c1, p.resolve(pts[i], rel), p.resolve(pts[i+1], rel))
		}

	case 'Q':
		pts := p.points(2, at)
		for i := 0; i+1 < len(pts); i += 2 {
			p.emit(OpQuad, p.resolve(pts[i], rel), p.resolve(pts[i+1], rel))
		}

	case 'T':
		for _, pt := range p.points(1, at) {
			c1 := reflect(p.quad, p.cur)
			p.emit(OpQuad, c1, p.resolve(pt, rel))
		}

	case 'Z':
		p.cmds = append(p.cmds, Command{Op: OpClose})
		p.cur = p.start
		p.ctrl = p.cur
		p.quad = p.cur

	case 'A':
		p.fail(at, "elliptical arcs are not supported")
	}
}

// emit appends a command and tracks the pen and the reflection points.
func (p *parser) emit(op Op, pts ...Point) {
	p.cmds = append(p.cmds, Command{Op: op, Pts: pts})
	p.cur = pts[len(pts)-1]

	p.ctrl = p.cur
	p.quad = p.cur
	switch op {
	case OpCubic:
		p.ctrl = pts[1]
	case OpQuad:
		p.quad = pts[0]
	}
}

func (p *parser) resolve(pt Point, rel bool) Point {
	if rel {
		return Point{p.cur.X + pt.X, p.cur.Y + pt.Y}
	}
	return pt
}

// points reads coordinate pairs in groups of n; a trailing partial group is an error.
func (p *parser) points(n int, at int) []Point {
	nums := p.numbers(at)
	if p.err != nil {
		return nil
	}
	if len(nums)%(2*n) != 0 {
		p.fail(at, "wrong number of coordinates for command "+string(p.data[at]))
		return nil
	}
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		pts = append(pts, Point{nums[i], nums[i+1]})
	}
	return pts
}

// numbers reads one or more numbers following a command letter.
func (p *parser) numbers(at int) []float64 {
	var out []float64
	for p.err == nil {
		p.skipSeparators()
		if p.pos >= len(p.data) || !isNumberStart(p.data[p.pos]) {
			break
		}
		out = append(out, p.number())
	}
	if p.err == nil && len(out) == 0 {
		p.fail(at, "expected coordinates after "+string(p.data[at]))
	}
	return out
}

// number scans [sign] digits [. digits] [e [sign] digits]. A second '.' ends
// the number, so "1.5.5" reads as 1.5 then .5.
func (p *parser) number() float64 {
	s := p.pos
	i := s
	if i < len(p.data) && (p.data[i] == '+' || p.data[i] == '-') {
		i++
	}
	digits := 0
	for i < len(p.data) && isDigit(p.data[i]) {
		i++
		digits++
	}
	if i < len(p.data) && p.data[i] == '.' {
		i++
		for i < len(p.data) && isDigit(p.data[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		p.fail(s, "invalid number")
		return 0
	}
	if i < len(p.data) && (p.data[i] == 'e' || p.data[i] == 'E') {
		j := i + 1
		if j < len(p.data) && (p.data[j] == '+' || p.data[j] == '-') {
			j++
		}
		if j < len(p.data) && isDigit(p.data[j]) {
			for j < len(p.data) && isDigit(p.data[j]) {
				j++
			}
			i = j
		}
	}

	v, err := strconv.ParseFloat(p.data[s:i], 64)
	if err != nil {
		p.fail(s, "invalid number: "+err.Error())
		return 0
	}
	p.pos = i
	return v
}

func (p *parser) skipSeparators() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) fail(pos int, reason string) {
	if p.err == nil {
		p.err = &MalformedOutlineError{Index: -1, Pos: pos, Reason: reason}
	}
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}

func isCommand(c byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqTtAaZz", c) >= 0
}

func isNumberStart(c byte) bool {
	return isDigit(c) || c == '-' || c == '+' || c == '.'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
