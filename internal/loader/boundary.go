package loader

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer is implemented by child models that report render failures as
// errors instead of panicking.
type Renderer interface {
	Render() (string, error)
}

// RemountMsg asks the boundary guarding View to rebuild its child.
type RemountMsg struct {
	View string
}

// Remount returns a command that re-mounts the named boundary.
func Remount(view string) tea.Cmd {
	return func() tea.Msg { return RemountMsg{View: view} }
}

// Boundary mounts a child tea.Model behind a Loader. Only the child's view
// construction is guarded; Update and commands run unprotected, as in any
// other model.
type Boundary struct {
	name   string
	mount  func() tea.Model
	child  tea.Model
	loader *Loader

	// mountErr is set when mount itself panicked; the next render reports it.
	mountErr error

	width, height int
	sized         func(width, height int) string
	loaderOpts    []Option
}

// BoundaryOption configures a Boundary.
type BoundaryOption func(*Boundary)

// WithSizedFallback renders the fallback with the last known window size.
func WithSizedFallback(fn func(width, height int) string) BoundaryOption {
	return func(b *Boundary) { b.sized = fn }
}

// WithLoaderOptions passes options through to the underlying Loader.
func WithLoaderOptions(opts ...Option) BoundaryOption {
	return func(b *Boundary) { b.loaderOpts = append(b.loaderOpts, opts...) }
}

// NewBoundary mounts the child returned by mount and guards its rendering.
func NewBoundary(name string, mount func() tea.Model, opts ...BoundaryOption) *Boundary {
	b := &Boundary{name: name, mount: mount}
	for _, opt := range opts {
		opt(b)
	}

	lopts := append([]Option(nil), b.loaderOpts...)
	if b.sized != nil {
		lopts = append(lopts, WithFallback(func() (string, error) {
			return b.sized(b.width, b.height), nil
		}))
	}
	b.loader = New(name, b.renderChild, lopts...)
	b.child, b.mountErr = safeMount(mount)
	return b
}

// Name returns the view name used in diagnostics.
func (b *Boundary) Name() string { return b.name }

// State reports the loader state of the guarded view.
func (b *Boundary) State() State { return b.loader.State() }

// Failure returns the captured failure, if any.
func (b *Boundary) Failure() (CapturedFailure, bool) { return b.loader.Failure() }

// Child returns the mounted model, nil if mounting failed.
func (b *Boundary) Child() tea.Model { return b.child }

// Init runs the mounted child's Init, if any.
func (b *Boundary) Init() tea.Cmd {
	if b.child == nil {
		return nil
	}
	return b.child.Init()
}

// Update records the window size, handles remounts and forwards msg to
// the child while the view is healthy.
func (b *Boundary) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
	case RemountMsg:
		if msg.View == b.name {
			return b, b.Remount()
		}
	}

	// A failed subtree is unmounted until the next Remount.
	if b.child == nil || b.loader.State() == StateFailed {
		return b, nil
	}

	next, cmd := b.child.Update(msg)
	b.child = next
	return b, cmd
}

// View renders the child through the loader, or the fallback once failed.
func (b *Boundary) View() string {
	return b.loader.Render()
}

// Remount rebuilds the child and resets the loader. It is the only way out
// of StateFailed.
func (b *Boundary) Remount() tea.Cmd {
	b.child, b.mountErr = safeMount(b.mount)
	b.loader.Reset()
	if b.child == nil {
		return nil
	}
	if b.width > 0 {
		b.child, _ = b.child.Update(tea.WindowSizeMsg{Width: b.width, Height: b.height})
	}
	return b.child.Init()
}

func (b *Boundary) renderChild() (string, error) {
	if b.child == nil {
		if b.mountErr != nil {
			return "", b.mountErr
		}
		return "", fmt.Errorf("view %s is not mounted", b.name)
	}
	if r, ok := b.child.(Renderer); ok {
		return r.Render()
	}
	return b.child.View(), nil
}

func safeMount(mount func() tea.Model) (m tea.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("mount: %w\n%s", panicCause(r), debug.Stack())
		}
	}()
	return mount(), nil
}
