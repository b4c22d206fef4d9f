// Package engine defines the rendering collaborator boundary the demo runtime
// is written against, plus the scene container and the object records it owns.
//
// The boundary is deliberately narrow: construct a context from a surface,
// construct a scene from the context, add objects, register one render
// callback and one resize handler. Implementations live in subpackages.
package engine

import (
	"errors"
	"math"
)

// ErrNoSurface is returned when a context is requested for a surface that
// does not exist. It is the only authored failure path at startup.
var ErrNoSurface = errors.New("engine: rendering surface not found")

// Surface is the drawable area in the host environment that the engine
// renders into.
type Surface interface {
	ID() string
	Size() (width, height int)
}

// Engine creates contexts bound to surfaces.
type Engine interface {
	// NewContext binds a rendering context to the given surface. A nil
	// surface yields ErrNoSurface.
	NewContext(s Surface) (Context, error)
}

// Context is the engine's handle to the rendering surface and device. The
// render loop is owned by the context; callers only register callbacks.
type Context interface {
	// RunRenderLoop registers fn to be invoked once per display refresh.
	RunRenderLoop(fn func())

	// OnResize registers a handler invoked when the surface size changes.
	OnResize(fn func(width, height int))

	// Resize recomputes the viewport for the given dimensions.
	Resize(width, height int)

	// Viewport reports the current viewport dimensions.
	Viewport() (width, height int)

	// RenderScene draws one frame of the given scene.
	RenderScene(s *Scene)
}

// Vector3 is a point or direction in scene space.
type Vector3 struct {
	X, Y, Z float64
}

// Kind discriminates the object records a scene can hold.
type Kind int

const (
	KindCamera Kind = iota
	KindLight
	KindMesh
)

// Object is anything a scene can own.
type Object interface {
	ObjectName() string
	ObjectKind() Kind
}

// Scene is a container owned by an engine context holding all drawable and
// interactive objects. It is the single owner of everything added to it; no
// other goroutine accesses it.
type Scene struct {
	ctx     Context
	objects []Object
	frames  int
}

// NewScene constructs a scene bound to the given context.
func NewScene(ctx Context) *Scene {
	return &Scene{ctx: ctx}
}

// Add places an object under the scene's ownership.
func (s *Scene) Add(o Object) {
	s.objects = append(s.objects, o)
}

// Render draws one frame through the owning context.
func (s *Scene) Render() {
	s.frames++
	s.ctx.RenderScene(s)
}

// Objects returns a copy of the scene contents in insertion order.
func (s *Scene) Objects() []Object {
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Count reports how many objects of the given kind the scene holds.
func (s *Scene) Count(k Kind) int {
	n := 0
	for _, o := range s.objects {
		if o.ObjectKind() == k {
			n++
		}
	}
	return n
}

// FrameCount reports how many frames have been rendered.
func (s *Scene) FrameCount() int {
	return s.frames
}

// ArcRotateCamera orbits a target point, positioned by spherical coordinates:
// alpha is the longitudinal angle, beta the latitudinal angle, radius the
// distance from the target.
type ArcRotateCamera struct {
	Name   string
	Alpha  float64
	Beta   float64
	Radius float64
	Target Vector3

	control Surface
}

// NewArcRotateCamera constructs an orbiting camera from spherical coordinates.
func NewArcRotateCamera(name string, alpha, beta, radius float64, target Vector3) *ArcRotateCamera {
	return &ArcRotateCamera{Name: name, Alpha: alpha, Beta: beta, Radius: radius, Target: target}
}

// AttachControl binds user input on the given surface to the camera.
func (c *ArcRotateCamera) AttachControl(s Surface) {
	c.control = s
}

// Attached reports whether the camera is receiving input from a surface.
func (c *ArcRotateCamera) Attached() bool {
	return c.control != nil
}

// Position computes the camera's cartesian position from its spherical
// coordinates relative to the target.
func (c *ArcRotateCamera) Position() Vector3 {
	sinBeta := math.Sin(c.Beta)
	return Vector3{
		X: c.Target.X + c.Radius*sinBeta*math.Cos(c.Alpha),
		Y: c.Target.Y + c.Radius*math.Cos(c.Beta),
		Z: c.Target.Z + c.Radius*sinBeta*math.Sin(c.Alpha),
	}
}

func (c *ArcRotateCamera) ObjectName() string { return c.Name }
func (c *ArcRotateCamera) ObjectKind() Kind   { return KindCamera }

// HemisphericLight is an ambient light defined by an up direction.
type HemisphericLight struct {
	Name      string
	Direction Vector3
	Intensity float64
}

// NewHemisphericLight constructs an ambient light with full intensity.
func NewHemisphericLight(name string, direction Vector3) *HemisphericLight {
	return &HemisphericLight{Name: name, Direction: direction, Intensity: 1}
}

func (l *HemisphericLight) ObjectName() string { return l.Name }
func (l *HemisphericLight) ObjectKind() Kind   { return KindLight }

// MeshShape names the primitive a mesh was built from.
type MeshShape int

const (
	ShapeSphere MeshShape = iota
	ShapeGround
)

// Mesh is a static geometric primitive.
type Mesh struct {
	Name     string
	Shape    MeshShape
	Position Vector3

	// Sphere parameters.
	Diameter float64
	Segments int

	// Ground parameters.
	Width  float64
	Height float64
}

// NewSphere constructs a sphere mesh of the given diameter and tessellation.
func NewSphere(name string, diameter float64, segments int) *Mesh {
	return &Mesh{Name: name, Shape: ShapeSphere, Diameter: diameter, Segments: segments}
}

// NewGround constructs a flat ground plane of the given width and height.
func NewGround(name string, width, height float64) *Mesh {
	return &Mesh{Name: name, Shape: ShapeGround, Width: width, Height: height}
}

func (m *Mesh) ObjectName() string { return m.Name }
func (m *Mesh) ObjectKind() Kind   { return KindMesh }
