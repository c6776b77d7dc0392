package glyph

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/logger"
)

// LoadResult is a fetch that Poll applied to the controller.
type LoadResult struct {
	Input  string
	Char   string
	Report BuildReport
	Err    error
}

type fetchResult struct {
	seq uint64
	f   Fetched
}

// Loader fetches characters off the render loop. Outline data is loaded on
// a goroutine and handed back over a channel; meshes are only built when
// the render loop calls Poll. Request, Poll and Close must be called from
// the same goroutine as the controller.
type Loader struct {
	ctrl    *Controller
	results chan fetchResult
	done    chan struct{}
	wg      sync.WaitGroup

	cancel  context.CancelFunc
	seq     uint64
	pending bool
}

// NewLoader creates a loader that applies to c.
func NewLoader(c *Controller) *Loader {
	return &Loader{
		ctrl:    c,
		results: make(chan fetchResult, 4),
		done:    make(chan struct{}),
	}
}

// Request starts fetching input. A request still in flight is canceled and
// its result is dropped when it arrives. A zero timeout means no deadline
// beyond ctx.
func (l *Loader) Request(ctx context.Context, input string, timeout time.Duration) {
	if l.cancel != nil {
		l.cancel()
	}
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	l.cancel = cancel
	l.seq++
	l.pending = true

	seq := l.seq
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		f := l.ctrl.Fetch(ctx, input)
		select {
		case l.results <- fetchResult{seq: seq, f: f}:
		case <-l.done:
		}
	}()
}

// Poll applies the latest requested character if its data has arrived. It
// never blocks. ok is false when nothing was applied this call.
func (l *Loader) Poll(now float64) (res LoadResult, ok bool) {
	for {
		select {
		case r := <-l.results:
			if r.seq != l.seq {
				logger.Named("glyph").Debug("dropping superseded load", zap.String("input", r.f.Input))
				continue
			}
			l.pending = false
			report, err := l.ctrl.Apply(now, r.f)
			return LoadResult{Input: r.f.Input, Char: r.f.Char, Report: report, Err: err}, true
		default:
			return LoadResult{}, false
		}
	}
}

// Pending reports whether the latest request has not been applied yet.
func (l *Loader) Pending() bool { return l.pending }

// Close cancels any request in flight and waits for its goroutine.
func (l *Loader) Close() {
	if l.cancel != nil {
		l.cancel()
	}
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	l.wg.Wait()
}
