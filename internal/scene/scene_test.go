package scene_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/stage-go/internal/engine"
	"github.com/nightconcept/stage-go/internal/engine/headless"
	"github.com/nightconcept/stage-go/internal/scene"
)

func startup(t *testing.T) (*scene.App, *headless.Context) {
	t.Helper()
	surface := headless.NewSurface(scene.SurfaceID, 800, 600)
	app, err := scene.Startup(headless.New(), surface)
	require.NoError(t, err)
	return app, app.Ctx.(*headless.Context)
}

func TestStartup_CompletesWithSurfacePresent(t *testing.T) {
	t.Parallel()
	app, _ := startup(t)
	assert.NotNil(t, app.Scene)
	assert.NotNil(t, app.Camera)
}

func TestStartup_FailsWithoutSurface(t *testing.T) {
	t.Parallel()
	_, err := scene.Startup(headless.New(), nil)
	assert.ErrorIs(t, err, engine.ErrNoSurface)
}

func TestStartup_RegistersExactlyOneCallbackOfEachKind(t *testing.T) {
	t.Parallel()
	_, ctx := startup(t)
	assert.Equal(t, 1, ctx.RenderCallbackCount())
	assert.Equal(t, 1, ctx.ResizeHandlerCount())
}

func TestStartup_RepeatedStartupsDoNotAccumulateCallbacks(t *testing.T) {
	t.Parallel()
	// Each startup binds a fresh context; callbacks never stack up across
	// runs.
	for i := 0; i < 3; i++ {
		_, ctx := startup(t)
		assert.Equal(t, 1, ctx.RenderCallbackCount())
		assert.Equal(t, 1, ctx.ResizeHandlerCount())
	}
}

func TestStartup_SceneContents(t *testing.T) {
	t.Parallel()
	app, ctx := startup(t)

	assert.Equal(t, 1, app.Scene.Count(engine.KindCamera))
	assert.Equal(t, 1, app.Scene.Count(engine.KindLight))
	assert.Equal(t, 2, app.Scene.Count(engine.KindMesh))

	// Object counts are unaffected by how many frames have run.
	ctx.Step(10)
	assert.Equal(t, 1, app.Scene.Count(engine.KindCamera))
	assert.Equal(t, 1, app.Scene.Count(engine.KindLight))
	assert.Equal(t, 2, app.Scene.Count(engine.KindMesh))
	assert.Equal(t, 10, app.Scene.FrameCount())
}

func TestStartup_ObjectParameters(t *testing.T) {
	t.Parallel()
	app, _ := startup(t)

	assert.InDelta(t, -math.Pi/2, app.Camera.Alpha, 1e-9)
	assert.InDelta(t, math.Pi/2.5, app.Camera.Beta, 1e-9)
	assert.InDelta(t, 3, app.Camera.Radius, 1e-9)
	assert.Equal(t, engine.Vector3{}, app.Camera.Target)
	assert.True(t, app.Camera.Attached(), "camera must receive surface input")

	assert.InDelta(t, 0.7, app.Light.Intensity, 1e-9)
	assert.Equal(t, engine.Vector3{Y: 1}, app.Light.Direction)

	assert.Equal(t, engine.ShapeSphere, app.Sphere.Shape)
	assert.InDelta(t, 2, app.Sphere.Diameter, 1e-9)
	assert.Equal(t, 32, app.Sphere.Segments)
	assert.InDelta(t, 1, app.Sphere.Position.Y, 1e-9)

	assert.Equal(t, engine.ShapeGround, app.Ground.Shape)
	assert.InDelta(t, 6, app.Ground.Width, 1e-9)
	assert.InDelta(t, 6, app.Ground.Height, 1e-9)
}

func TestResize_ChangesViewportOnly(t *testing.T) {
	t.Parallel()
	app, ctx := startup(t)

	before := app.Scene.Objects()
	ctx.DispatchResize(1920, 1080)

	w, h := ctx.Viewport()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	after := app.Scene.Objects()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i], "resize must not alter scene object identity")
	}
}

func TestRenderLoop_DrivesSceneRender(t *testing.T) {
	t.Parallel()
	app, ctx := startup(t)
	assert.Equal(t, 0, app.Scene.FrameCount())
	ctx.Step(5)
	assert.Equal(t, 5, app.Scene.FrameCount())
}

func TestCameraPosition_FromSphericalCoordinates(t *testing.T) {
	t.Parallel()
	cam := engine.NewArcRotateCamera("c", 0, math.Pi/2, 2, engine.Vector3{})
	pos := cam.Position()
	assert.InDelta(t, 2, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Y, 1e-9)
	assert.InDelta(t, 0, pos.Z, 1e-9)

	overhead := engine.NewArcRotateCamera("c", 0, 0, 2, engine.Vector3{})
	pos = overhead.Position()
	assert.InDelta(t, 0, pos.X, 1e-9)
	assert.InDelta(t, 2, pos.Y, 1e-9)
	assert.InDelta(t, 0, pos.Z, 1e-9)
}
