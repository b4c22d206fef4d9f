// Package headless implements the engine boundary without a display. It backs
// the test suite and frame-bounded demo runs: frames advance only when the
// caller steps the loop.
package headless

import (
	"github.com/nightconcept/stage-go/internal/engine"
)

// Engine creates headless contexts.
type Engine struct{}

// New returns a headless engine.
func New() *Engine {
	return &Engine{}
}

// NewContext binds a context to the surface, or fails with ErrNoSurface when
// the surface is absent.
func (e *Engine) NewContext(s engine.Surface) (engine.Context, error) {
	if s == nil {
		return nil, engine.ErrNoSurface
	}
	w, h := s.Size()
	return &Context{width: w, height: h}, nil
}

// Surface is an in-memory drawable area.
type Surface struct {
	id            string
	width, height int
}

// NewSurface creates a surface with the given identifier and dimensions.
func NewSurface(id string, width, height int) *Surface {
	return &Surface{id: id, width: width, height: height}
}

func (s *Surface) ID() string       { return s.id }
func (s *Surface) Size() (int, int) { return s.width, s.height }
func (s *Surface) SetSize(w, h int) { s.width, s.height = w, h }

// Context is a headless rendering context. The render loop does not run on
// its own; Step drives it.
type Context struct {
	width, height int

	renderFns []func()
	resizeFns []func(width, height int)
}

// RunRenderLoop registers the per-frame callback. Frames are produced by Step.
func (c *Context) RunRenderLoop(fn func()) {
	c.renderFns = append(c.renderFns, fn)
}

// OnResize registers the surface-size change handler.
func (c *Context) OnResize(fn func(width, height int)) {
	c.resizeFns = append(c.resizeFns, fn)
}

// Resize recomputes the viewport dimensions.
func (c *Context) Resize(width, height int) {
	c.width, c.height = width, height
}

// Viewport reports the current viewport dimensions.
func (c *Context) Viewport() (int, int) {
	return c.width, c.height
}

// RenderScene is a no-op draw; headless contexts only track state.
func (c *Context) RenderScene(s *engine.Scene) {}

// Step invokes every registered render callback n times, simulating n display
// refreshes.
func (c *Context) Step(n int) {
	for i := 0; i < n; i++ {
		for _, fn := range c.renderFns {
			fn()
		}
	}
}

// DispatchResize simulates a surface-size change event.
func (c *Context) DispatchResize(width, height int) {
	for _, fn := range c.resizeFns {
		fn(width, height)
	}
}

// RenderCallbackCount reports how many render callbacks are registered.
func (c *Context) RenderCallbackCount() int {
	return len(c.renderFns)
}

// ResizeHandlerCount reports how many resize handlers are registered.
func (c *Context) ResizeHandlerCount() int {
	return len(c.resizeFns)
}
