package loader

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultFallback is shown when no fallback was supplied or the supplied
// one failed too. It must stay a constant.
const DefaultFallback = "Something went wrong while loading this view.\nPlease reload and try again."

// ────────────────────────────────────────────────────────────
// State
// ────────────────────────────────────────────────────────────

// State is the loader's render state.
type State int

const (
	StateNormal State = iota
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ────────────────────────────────────────────────────────────
// Producers
// ────────────────────────────────────────────────────────────

// Producer builds a view. Returning an error or panicking counts as a
// render failure.
type Producer func() (string, error)

// Static returns a producer that always yields s.
func Static(s string) Producer {
	return func() (string, error) { return s, nil }
}

// FromView wraps a Bubble Tea style View function.
func FromView(view func() string) Producer {
	return func() (string, error) { return view(), nil }
}

// ────────────────────────────────────────────────────────────
// Loader
// ────────────────────────────────────────────────────────────

// Loader renders a primary view and degrades to a fallback once the
// primary fails. See the package documentation for the state machine.
type Loader struct {
	name     string
	primary  Producer
	fallback Producer
	sink     Sink
	now      func() time.Time

	mu             sync.Mutex
	state          State
	failure        *CapturedFailure
	fallbackBroken bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFallback sets the view shown after a failure. The producer is
// expected never to fail; if it does, DefaultFallback is used instead.
func WithFallback(p Producer) Option {
	return func(l *Loader) { l.fallback = p }
}

// WithSink sets where captured failures are reported.
func WithSink(s Sink) Option {
	return func(l *Loader) {
		if s != nil {
			l.sink = s
		}
	}
}

// WithClock overrides time.Now for capture timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New creates a loader for the named view.
func New(name string, primary Producer, opts ...Option) *Loader {
	l := &Loader{
		name:    name,
		primary: primary,
		sink:    discardSink{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the view name used in diagnostics.
func (l *Loader) Name() string { return l.name }

// State returns the current render state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Failure returns the failure that moved the loader into StateFailed.
func (l *Loader) Failure() (CapturedFailure, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failure == nil {
		return CapturedFailure{}, false
	}
	return *l.failure, true
}

// Render produces the current view. It never panics and never returns an
// error: failures of the primary are captured, failures of the fallback
// are replaced by DefaultFallback.
func (l *Loader) Render() string {
	l.mu.Lock()
	failed := l.state == StateFailed
	l.mu.Unlock()

	if failed {
		return l.renderFallback()
	}

	view, rf := attempt(l.name, l.primary)
	if rf == nil {
		return view
	}

	l.mu.Lock()
	if l.state == StateFailed {
		// A nested render got here first.
		l.mu.Unlock()
		return l.renderFallback()
	}
	captured := CapturedFailure{
		ID:         uuid.NewString(),
		View:       l.name,
		OccurredAt: l.now(),
		Err:        rf,
	}
	l.state = StateFailed
	l.failure = &captured
	sink := l.sink
	l.mu.Unlock()

	emit(sink, captured)
	return l.renderFallback()
}

// Reset returns the loader to StateNormal. The next Render tries the
// primary again.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateNormal
	l.failure = nil
	l.fallbackBroken = false
}

func (l *Loader) renderFallback() string {
	l.mu.Lock()
	fb := l.fallback
	broken := l.fallbackBroken
	l.mu.Unlock()

	if fb == nil || broken {
		return DefaultFallback
	}
	view, rf := attempt(l.name+"/fallback", fb)
	if rf != nil {
		l.mu.Lock()
		l.fallbackBroken = true
		l.mu.Unlock()
		return DefaultFallback
	}
	return view
}

// attempt runs p inside a recovery scope and reports any failure as data.
func attempt(name string, p Producer) (view string, rf *RenderFailure) {
	if p == nil {
		return "", &RenderFailure{View: name, Cause: fmt.Errorf("no view producer")}
	}
	defer func() {
		if r := recover(); r != nil {
			view = ""
			rf = &RenderFailure{
				View:     name,
				Cause:    panicCause(r),
				Panicked: true,
				Stack:    string(debug.Stack()),
			}
		}
	}()

	view, err := p()
	if err != nil {
		return "", &RenderFailure{View: name, Cause: err}
	}
	return view, nil
}
