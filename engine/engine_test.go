package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/light"
	"github.com/Carmen-Shannon/oxy-shadows/engine/lighting"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	polls    int
	closeAt  int
	closed   int
	onKey    func(uint32)
	onResize func(int, int)
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKey = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return w.closed == 0 }
func (w *fakeWindow) Close() error                                 { w.closed++; return nil }
func (w *fakeWindow) Width() int                                   { return 640 }
func (w *fakeWindow) Height() int                                  { return 480 }

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	return w.closeAt == 0 || w.polls < w.closeAt
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, *renderertest.FakeAllocator) {
	t.Helper()
	fake := renderertest.NewFakeAllocator()
	options = append([]EngineBuilderOption{WithRenderer(fake), WithPreparerOptions(lighting.WithPackWorkers(1))}, options...)
	e := NewEngine(options...)
	t.Cleanup(e.Shutdown)
	return e, fake
}

func addLight(t *testing.T, e Engine, fake *renderertest.FakeAllocator, name string, opts ...light.LightBuilderOption) light.Light {
	t.Helper()
	opts = append([]light.LightBuilderOption{light.WithResources(fake, fake), light.WithShadowMapResolution(8)}, opts...)
	l := light.NewLight(name, 5, opts...)
	require.NoError(t, e.Registry().Insert(name, l))
	return l
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	var results []lighting.FrameResult
	var ticks int
	e, fake := newTestEngine(t,
		WithMaxFrames(3),
		WithTickCallback(func(float32) { ticks++ }),
		WithFrameCallback(func(res lighting.FrameResult) { results = append(results, res) }),
	)
	addLight(t, e, fake, "sun")
	addLight(t, e, fake, "torch", light.WithMovable(true))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, e.Frames())
	assert.Equal(t, 3, ticks)
	require.Len(t, results, 3)

	assert.Equal(t, 18, results[0].Passes)
	assert.Equal(t, 6, results[1].Passes)
	assert.Equal(t, 6, results[2].Passes)
	require.Len(t, fake.Uploads, 3)
	for i, res := range results {
		assert.Len(t, res.Records, 2)
		assert.Equal(t, res.Buffer(), fake.Uploads[i])
		assert.Len(t, fake.Uploads[i], 2*light.GPUPointLightSize)
	}
}

func TestRunStopsOnUploadFailure(t *testing.T) {
	e, fake := newTestEngine(t, WithMaxFrames(5))
	addLight(t, e, fake, "sun")
	fake.FailOn(renderertest.OpUploadLights, 2)

	err := e.Run(context.Background())
	require.ErrorIs(t, err, renderertest.ErrInjected)
	assert.Equal(t, 1, e.Frames())
	assert.Len(t, fake.Uploads, 1)
}

func TestRunUpdatesEntitiesUnlessPaused(t *testing.T) {
	var updates int
	e, _ := newTestEngine(t, WithMaxFrames(2))
	require.NoError(t, e.Registry().Insert("spinner", entity.NewEntity("spinner",
		entity.WithUpdateFunc(func(entity.Entity, float32) { updates++ }),
	)))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 2, updates)

	e.TogglePause()
	assert.True(t, e.Paused())
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, e.Frames())
	assert.Equal(t, 2, updates)
}

func TestQuitFromTickCallback(t *testing.T) {
	var e Engine
	e, _ = newTestEngine(t, WithTickCallback(func(float32) {
		if e.Frames() == 4 {
			e.Quit()
		}
	}))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 5, e.Frames())

	e.Quit()
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e, _ := newTestEngine(t, WithTickRate(1000))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	assert.Positive(t, e.Frames())
}

func TestRunReturnsAbortedFrame(t *testing.T) {
	e, fake := newTestEngine(t)
	require.NoError(t, e.Registry().Insert("orphan", light.NewLight("orphan", 3)))

	err := e.Run(context.Background())
	require.ErrorIs(t, err, lighting.ErrFrameAborted)
	assert.Zero(t, e.Frames())
	assert.False(t, fake.PassOpen())
	assert.True(t, e.Registry().IsDirty(e.Registry().Lights()[0]))
}

func TestRunFailsWhenDeviceGone(t *testing.T) {
	e, fake := newTestEngine(t)
	fake.SetDeviceReady(false)

	err := e.Run(context.Background())
	require.ErrorIs(t, err, renderer.ErrDeviceReleased)
}

func TestWindowDrivesLoopAndKeys(t *testing.T) {
	w := &fakeWindow{closeAt: 4}
	e, fake := newTestEngine(t, WithWindow(w))
	sun := addLight(t, e, fake, "sun")

	require.NotNil(t, w.onKey)
	require.NotNil(t, w.onResize)
	w.onResize(800, 600)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, e.Frames())
	assert.False(t, e.Registry().IsDirty(sun))
	assert.True(t, e.Preparer().Baked(sun))

	w.onKey(common.KeyR)
	assert.True(t, e.Registry().IsDirty(sun))
	assert.False(t, e.Preparer().Baked(sun))

	w.onKey(common.KeyP)
	assert.True(t, e.Paused())
	w.onKey(common.KeyP)
	assert.False(t, e.Paused())

	e.Shutdown()
	assert.Equal(t, 1, w.closed)
}

func TestShutdownReleasesEverything(t *testing.T) {
	e, fake := newTestEngine(t, WithMaxFrames(1))
	sun := addLight(t, e, fake, "sun")
	require.NoError(t, e.Run(context.Background()))
	require.Positive(t, fake.Stats().Images)

	e.Shutdown()
	e.Shutdown()

	assert.True(t, fake.Released())
	assert.Zero(t, e.Registry().Count())
	assert.True(t, sun.Destroyed())
	assert.False(t, sun.Shadows().Target(light.ShadowTargetStatic).Valid())
}

func TestProfilerReceivesFrames(t *testing.T) {
	e, _ := newTestEngine(t, WithMaxFrames(2), WithProfiling(true))
	require.NoError(t, e.Run(context.Background()))

	e.DisableProfiler()
	e.EnableProfiler()
	assert.Equal(t, 2, e.Frames())
}
