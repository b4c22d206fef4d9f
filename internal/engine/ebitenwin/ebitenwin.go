// Package ebitenwin implements the engine boundary on top of an ebiten
// desktop window. Ebiten owns the render loop: Draw drives the registered
// render callbacks at the display refresh rate and Layout reports surface
// size changes.
package ebitenwin

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/nightconcept/stage-go/internal/engine"
)

// Engine creates window-backed contexts.
type Engine struct{}

// New returns an ebiten-backed engine.
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
	return &Context{surface: s, width: w, height: h}, nil
}

// Surface describes the desktop window to open.
type Surface struct {
	id            string
	title         string
	width, height int
}

// NewSurface creates a window surface with the given identifier, title, and
// initial dimensions.
func NewSurface(id, title string, width, height int) *Surface {
	return &Surface{id: id, title: title, width: width, height: height}
}

func (s *Surface) ID() string       { return s.id }
func (s *Surface) Size() (int, int) { return s.width, s.height }

// Context is a rendering context drawing into an ebiten window.
type Context struct {
	surface engine.Surface

	width, height int

	renderFns []func()
	resizeFns []func(width, height int)

	screen *ebiten.Image // valid only while Draw runs
	frames int           // 0 means unbounded
}

func (c *Context) RunRenderLoop(fn func()) {
	c.renderFns = append(c.renderFns, fn)
}

func (c *Context) OnResize(fn func(width, height int)) {
	c.resizeFns = append(c.resizeFns, fn)
}

func (c *Context) Resize(width, height int) {
	c.width, c.height = width, height
}

func (c *Context) Viewport() (int, int) {
	return c.width, c.height
}

// Run opens the window and blocks until it closes. maxFrames > 0 bounds the
// run; 0 runs until the user closes the window.
func (c *Context) Run(maxFrames int) error {
	c.frames = maxFrames
	if ws, ok := c.surface.(*Surface); ok && ws.title != "" {
		ebiten.SetWindowTitle(ws.title)
	}
	ebiten.SetWindowSize(c.width, c.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(&game{ctx: c})
}

type game struct {
	ctx   *Context
	drawn int
}

func (g *game) Update() error {
	if g.ctx.frames > 0 && g.drawn >= g.ctx.frames {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.drawn++
	g.ctx.screen = screen
	for _, fn := range g.ctx.renderFns {
		fn()
	}
	g.ctx.screen = nil
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.ctx.width || outsideHeight != g.ctx.height {
		for _, fn := range g.ctx.resizeFns {
			fn(outsideWidth, outsideHeight)
		}
	}
	return g.ctx.width, g.ctx.height
}

// RenderScene paints a simple wireframe projection of the scene: the ground
// plane as stroked edges and spheres as filled circles, shaded by the first
// light's intensity.
func (c *Context) RenderScene(s *engine.Scene) {
	if c.screen == nil {
		return
	}
	c.screen.Fill(color.RGBA{R: 0x12, G: 0x12, B: 0x1a, A: 0xff})

	var cam *engine.ArcRotateCamera
	intensity := 1.0
	for _, o := range s.Objects() {
		switch v := o.(type) {
		case *engine.ArcRotateCamera:
			if cam == nil {
				cam = v
			}
		case *engine.HemisphericLight:
			intensity = v.Intensity
		}
	}
	if cam == nil {
		return
	}
	proj := newProjector(cam, c.width, c.height)

	for _, o := range s.Objects() {
		m, ok := o.(*engine.Mesh)
		if !ok {
			continue
		}
		switch m.Shape {
		case engine.ShapeGround:
			c.drawGround(proj, m)
		case engine.ShapeSphere:
			c.drawSphere(proj, m, intensity)
		}
	}
}

func (c *Context) drawGround(p *projector, m *engine.Mesh) {
	hw, hh := m.Width/2, m.Height/2
	corners := [4]engine.Vector3{
		{X: m.Position.X - hw, Y: m.Position.Y, Z: m.Position.Z - hh},
		{X: m.Position.X + hw, Y: m.Position.Y, Z: m.Position.Z - hh},
		{X: m.Position.X + hw, Y: m.Position.Y, Z: m.Position.Z + hh},
		{X: m.Position.X - hw, Y: m.Position.Y, Z: m.Position.Z + hh},
	}
	clr := color.RGBA{R: 0x55, G: 0x5c, B: 0x66, A: 0xff}
	for i := range corners {
		x0, y0, ok0 := p.project(corners[i])
		x1, y1, ok1 := p.project(corners[(i+1)%4])
		if ok0 && ok1 {
			vector.StrokeLine(c.screen, x0, y0, x1, y1, 1, clr, true)
		}
	}
}

func (c *Context) drawSphere(p *projector, m *engine.Mesh, intensity float64) {
	x, y, ok := p.project(m.Position)
	if !ok {
		return
	}
	r := p.scale(m.Position, m.Diameter/2)
	shade := uint8(math.Min(255, 0xc8*intensity))
	vector.DrawFilledCircle(c.screen, x, y, r, color.RGBA{R: shade, G: shade, B: shade, A: 0xff}, true)
}

// projector is a minimal pinhole camera built from the arc-rotate camera's
// spherical position.
type projector struct {
	pos                engine.Vector3
	right, up, forward engine.Vector3
	focal              float64
	cx, cy             float64
}

func newProjector(cam *engine.ArcRotateCamera, width, height int) *projector {
	pos := cam.Position()
	forward := normalize(sub(cam.Target, pos))
	right := normalize(cross(forward, engine.Vector3{Y: 1}))
	up := cross(right, forward)
	const fov = 0.8
	return &projector{
		pos:     pos,
		right:   right,
		up:      up,
		forward: forward,
		focal:   float64(height) / 2 / math.Tan(fov/2),
		cx:      float64(width) / 2,
		cy:      float64(height) / 2,
	}
}

func (p *projector) project(w engine.Vector3) (float32, float32, bool) {
	d := sub(w, p.pos)
	z := dot(d, p.forward)
	if z < 0.05 {
		return 0, 0, false
	}
	x := p.cx + p.focal*dot(d, p.right)/z
	y := p.cy - p.focal*dot(d, p.up)/z
	return float32(x), float32(y), true
}

// scale converts a world-space length at the given position into pixels.
func (p *projector) scale(at engine.Vector3, length float64) float32 {
	z := dot(sub(at, p.pos), p.forward)
	if z < 0.05 {
		return 0
	}
	return float32(p.focal * length / z)
}

func sub(a, b engine.Vector3) engine.Vector3 {
	return engine.Vector3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func dot(a, b engine.Vector3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func cross(a, b engine.Vector3) engine.Vector3 {
	return engine.Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize(v engine.Vector3) engine.Vector3 {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		return v
	}
	return engine.Vector3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}
