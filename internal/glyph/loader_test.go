package glyph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/strokeglyph/internal/outlines"
	"github.com/Faultbox/strokeglyph/internal/timing"
)

// gatedSource blocks loads of gated characters until their gate is closed
// or the load is canceled.
type gatedSource struct {
	outlines.StaticSource
	gates    map[string]chan struct{}
	canceled chan string
}

func newGatedSource(gated ...string) *gatedSource {
	s := &gatedSource{
		StaticSource: outlines.StaticSource{
			"永": {Strokes: testStrokes},
			"一": {Strokes: testStrokes[:1]},
			"二": {Strokes: testStrokes[:2]},
		},
		gates:    make(map[string]chan struct{}),
		canceled: make(chan string, 8),
	}
	for _, c := range gated {
		s.gates[c] = make(chan struct{})
	}
	return s
}

func (s *gatedSource) Load(ctx context.Context, char string) (*outlines.Character, error) {
	if g, ok := s.gates[char]; ok {
		select {
		case <-g:
		case <-ctx.Done():
			s.canceled <- char
			return nil, ctx.Err()
		}
	}
	return s.StaticSource.Load(ctx, char)
}

func newGatedController(t *testing.T, src *gatedSource) *Controller {
	t.Helper()
	s := DefaultSettings()
	s.Geometry = testParams()
	c := NewController(src, nil, timing.NewRand(7), s)
	if _, err := c.LoadCharacter(context.Background(), 0, "永"); err != nil {
		t.Fatalf("LoadCharacter() error: %v", err)
	}
	return c
}

func pollUntil(t *testing.T, l *Loader, now float64) LoadResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := l.Poll(now); ok {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("load was never applied")
	return LoadResult{}
}

func TestControllerFetchLeavesStateAlone(t *testing.T) {
	src := newGatedSource("一")
	c := newGatedController(t, src)
	gen := c.Pool().Generation()

	fetched := make(chan Fetched, 1)
	go func() { fetched <- c.Fetch(context.Background(), "一") }()

	// The render side keeps drawing the old character while the fetch blocks.
	if frames := c.Frame(10); len(frames) != 3 {
		t.Errorf("expected 3 frames while fetching, got %d", len(frames))
	}
	close(src.gates["一"])

	var f Fetched
	select {
	case f = <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return")
	}
	if f.Err != nil || f.Char != "一" || len(f.Data.Strokes) != 1 {
		t.Fatalf("unexpected fetch result %+v", f)
	}
	if c.Character() != "永" || c.Pool().Generation() != gen {
		t.Error("fetch must not touch the controller")
	}

	if _, err := c.Apply(20, f); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if c.Character() != "一" || c.Pool().Len() != 1 {
		t.Errorf("expected 一 with 1 stroke, got %q with %d", c.Character(), c.Pool().Len())
	}
}

func TestControllerApplyFailedFetch(t *testing.T) {
	c := newGatedController(t, newGatedSource())
	f := c.Fetch(context.Background(), "龍")
	if _, err := c.Apply(10, f); !errors.Is(err, outlines.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if c.Character() != "永" {
		t.Errorf("expected 永 kept, got %q", c.Character())
	}
}

func TestLoaderAppliesOnPoll(t *testing.T) {
	src := newGatedSource("一")
	c := newGatedController(t, src)
	l := NewLoader(c)
	defer l.Close()

	l.Request(context.Background(), "一", time.Second)
	if _, ok := l.Poll(10); ok {
		t.Fatal("expected nothing to apply while the fetch is blocked")
	}
	if !l.Pending() {
		t.Error("expected a pending load")
	}
	if c.Character() != "永" {
		t.Errorf("expected 永 on screen while loading, got %q", c.Character())
	}

	close(src.gates["一"])
	r := pollUntil(t, l, 20)
	if r.Err != nil {
		t.Fatalf("load error: %v", r.Err)
	}
	if r.Char != "一" || c.Character() != "一" {
		t.Errorf("expected 一 applied, got result %q, controller %q", r.Char, c.Character())
	}
	if r.Report.Built != 1 {
		t.Errorf("expected 1 stroke built, got %d", r.Report.Built)
	}
	if l.Pending() {
		t.Error("expected no pending load after apply")
	}
}

func TestLoaderNewRequestCancelsPrevious(t *testing.T) {
	src := newGatedSource("一")
	c := newGatedController(t, src)
	l := NewLoader(c)

	l.Request(context.Background(), "一", 0)
	l.Request(context.Background(), "二", 0)

	select {
	case got := <-src.canceled:
		if got != "一" {
			t.Errorf("expected 一 canceled, got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded load was not canceled")
	}

	r := pollUntil(t, l, 10)
	if r.Char != "二" || c.Character() != "二" {
		t.Errorf("expected 二 applied, got result %q, controller %q", r.Char, c.Character())
	}

	l.Close()
	if r, ok := l.Poll(20); ok {
		t.Errorf("expected the superseded result dropped, got %+v", r)
	}
	if c.Character() != "二" {
		t.Errorf("expected 二 kept, got %q", c.Character())
	}
}

func TestLoaderFailureKeepsCharacter(t *testing.T) {
	c := newGatedController(t, newGatedSource())
	l := NewLoader(c)
	defer l.Close()

	l.Request(context.Background(), "龍", time.Second)
	r := pollUntil(t, l, 10)
	if !errors.Is(r.Err, outlines.ErrCharacterNotFound) {
		t.Errorf("expected ErrCharacterNotFound, got %v", r.Err)
	}
	if c.Character() != "永" {
		t.Errorf("expected 永 kept, got %q", c.Character())
	}
}
