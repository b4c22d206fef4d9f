// Package scene performs the one-time startup sequencing for the demo: it
// builds the scene contents and hands control to the engine's render loop.
package scene

import (
	"math"

	"github.com/nightconcept/stage-go/internal/engine"
)

// SurfaceID is the fixed identifier of the drawable surface the demo expects
// in its host environment. The scaffolded host page uses the same id for its
// canvas element.
const SurfaceID = "render-canvas"

// App holds everything Startup constructed. The context owns the render loop;
// the scene owns every object.
type App struct {
	Ctx    engine.Context
	Scene  *engine.Scene
	Camera *engine.ArcRotateCamera
	Light  *engine.HemisphericLight
	Sphere *engine.Mesh
	Ground *engine.Mesh
}

// Startup runs the startup sequence against the given engine and surface:
// context, scene, orbiting camera attached to surface input, hemispheric
// light, a sphere raised to half its diameter, and a ground plane. It
// registers exactly one render callback and one resize handler, then returns;
// the render loop runs until the host process terminates.
//
// A missing surface is the only failure path: Startup returns ErrNoSurface
// immediately and registers nothing.
func Startup(eng engine.Engine, surface engine.Surface) (*App, error) {
	ctx, err := eng.NewContext(surface)
	if err != nil {
		return nil, err
	}

	sc := engine.NewScene(ctx)

	camera := engine.NewArcRotateCamera("camera", -math.Pi/2, math.Pi/2.5, 3, engine.Vector3{})
	camera.AttachControl(surface)
	sc.Add(camera)

	light := engine.NewHemisphericLight("light", engine.Vector3{Y: 1})
	light.Intensity = 0.7
	sc.Add(light)

	sphere := engine.NewSphere("sphere", 2, 32)
	sphere.Position.Y = 1
	sc.Add(sphere)

	ground := engine.NewGround("ground", 6, 6)
	sc.Add(ground)

	ctx.RunRenderLoop(sc.Render)
	ctx.OnResize(ctx.Resize)

	return &App{
		Ctx:    ctx,
		Scene:  sc,
		Camera: camera,
		Light:  light,
		Sphere: sphere,
		Ground: ground,
	}, nil
}
