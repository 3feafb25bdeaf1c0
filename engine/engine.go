package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/light"
	"github.com/Carmen-Shannon/oxy-shadows/engine/lighting"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/Carmen-Shannon/oxy-shadows/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadows/engine/registry"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadows/engine/window"
	"go.trai.ch/zerr"
)

// engine implements the Engine interface.
// Owns the registry, renderer and preparer and drives them from a single frame loop.
type engine struct {
	reg      *registry.Registry
	r        renderer.Renderer
	preparer *lighting.Preparer
	window   window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	forceSoftware bool
	preparerOpts  []lighting.PreparerBuilderOption

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
	maxFrames  int
	frames     atomic.Int64
	paused     atomic.Bool

	tickCallback  func(deltaTime float32)
	frameCallback func(res lighting.FrameResult)

	quitChannel  chan struct{}
	quitOnce     sync.Once
	shutdownOnce sync.Once
}

// Engine is the main entry point for the engine.
// It runs the per-frame update, shadow preparation and profiling on the calling goroutine.
type Engine interface {
	// Registry returns the entity registry lights and entities are inserted into.
	//
	// Returns:
	//   - *registry.Registry: the engine's registry
	Registry() *registry.Registry

	// Renderer returns the renderer shadow resources are allocated from.
	//
	// Returns:
	//   - renderer.Renderer: the engine's renderer
	Renderer() renderer.Renderer

	// Preparer returns the per-frame shadow preparer.
	//
	// Returns:
	//   - *lighting.Preparer: the engine's preparer
	Preparer() *lighting.Preparer

	// Window returns the window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called once per frame after entities are updated.
	//
	// Parameters:
	//   - callback: function receiving the frame's delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetFrameCallback registers the function called with each frame's shadow results.
	//
	// Parameters:
	//   - callback: function receiving the frame result
	SetFrameCallback(callback func(res lighting.FrameResult))

	// RebakeStatic forces every light's static shadow map to be rendered again on the next frame.
	RebakeStatic()

	// TogglePause stops or resumes entity updates. Shadow preparation continues while paused.
	TogglePause()

	// Paused reports whether entity updates are paused.
	Paused() bool

	// Frames returns the number of frames completed by Run.
	Frames() int

	// Run drives the frame loop until ctx is cancelled, Quit is called, the window closes or the
	// frame limit is reached.
	//
	// Parameters:
	//   - ctx: cancels the loop between frames
	//
	// Returns:
	//   - error: a frame error that stopped the loop, or nil for a normal stop
	Run(ctx context.Context) error

	// Quit stops Run after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Shutdown destroys every registered entity, releases the renderer and closes the window.
	// Safe to call multiple times.
	Shutdown()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithRenderer a WGPU renderer is created on the window's surface, or headless without a window.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	if err := light.CheckShaderLayout(); err != nil {
		panic("engine: " + err.Error())
	}

	e := &engine{
		reg:         registry.New(),
		profiler:    profiler.NewProfiler(),
		quitChannel: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.r == nil {
		e.r = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window,
			renderer.WithForceSoftwareRenderer(e.forceSoftware),
		)
	}
	e.preparer = lighting.NewPreparer(e.reg, e.r, e.preparerOpts...)

	if e.window != nil {
		e.window.SetKeyDownCallback(e.handleKey)
		e.window.SetResizeCallback(func(width, height int) {
			logger.Logger().Debug("window resized", "width", width, "height", height)
		})
	}

	return e
}

func (e *engine) Registry() *registry.Registry {
	return e.reg
}

func (e *engine) Renderer() renderer.Renderer {
	return e.r
}

func (e *engine) Preparer() *lighting.Preparer {
	return e.preparer
}

func (e *engine) Window() window.Window {
	return e.window
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetFrameCallback(callback func(res lighting.FrameResult)) {
	e.frameCallback = callback
}

func (e *engine) RebakeStatic() {
	marked := 0
	for _, l := range e.reg.Lights() {
		e.preparer.Invalidate(l)
		if err := e.reg.MarkLightDirty(l); err == nil {
			marked++
		}
	}
	logger.Logger().Info("static shadow maps invalidated", "lights", marked)
}

func (e *engine) TogglePause() {
	paused := !e.paused.Load()
	e.paused.Store(paused)
	logger.Logger().Info("entity updates", "paused", paused)
}

func (e *engine) Paused() bool {
	return e.paused.Load()
}

func (e *engine) Frames() int {
	return int(e.frames.Load())
}

func (e *engine) handleKey(keyCode uint32) {
	switch keyCode {
	case common.KeyR:
		e.RebakeStatic()
	case common.KeyP:
		e.TogglePause()
	case common.KeySpace:
		st := e.r.Stats()
		logger.Logger().Info("resource stats",
			"images", st.Images,
			"views", st.Views,
			"framebuffers", st.Framebuffers,
			"samplers", st.Samplers,
			"textures", st.Textures,
			"lights", len(e.reg.Lights()),
			"dirty", len(e.reg.DirtyLights()),
		)
	}
}

func (e *engine) Run(ctx context.Context) error {
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.quitChannel:
			return nil
		default:
		}

		if e.window != nil && !e.window.PollEvents() {
			return nil
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		if !e.paused.Load() {
			e.reg.UpdateAll(dt)
		}
		if e.tickCallback != nil {
			e.tickCallback(dt)
		}

		res, err := e.frame()
		if err != nil {
			return err
		}

		if e.frameCallback != nil {
			e.frameCallback(res)
		}
		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick(profiler.FrameStats{
				Drained: res.Drained,
				Passes:  res.Passes,
				Skipped: len(res.Skipped),
			})
		}

		if n := e.frames.Add(1); e.maxFrames > 0 && int(n) >= e.maxFrames {
			return nil
		}

		// Frame rate limiting
		if e.frameLimit > 0 {
			if remaining := e.frameLimit - time.Since(now); remaining > 0 {
				select {
				case <-time.After(remaining):
				case <-ctx.Done():
				case <-e.quitChannel:
				}
			}
		}
	}
}

// frame records one shadow frame. The frame is always ended once begun, even when preparation aborts.
func (e *engine) frame() (lighting.FrameResult, error) {
	cmd, err := e.r.BeginShadowFrame()
	if err != nil {
		return lighting.FrameResult{}, zerr.Wrap(err, "begin shadow frame")
	}

	res, prepErr := e.preparer.PrepareFrame(cmd)
	endErr := e.r.EndShadowFrame(cmd)
	if prepErr != nil {
		return res, prepErr
	}
	if endErr != nil {
		return res, zerr.Wrap(endErr, "end shadow frame")
	}
	if err := e.r.UploadLightBuffer(res.Buffer()); err != nil {
		return res, zerr.Wrap(err, "upload light buffer")
	}
	return res, nil
}

// Quit signals Run to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.Quit()
		e.reg.Shutdown()
		e.r.Release()
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				logger.Logger().Warn("window close failed", "error", err)
			}
		}
		logger.Logger().Info("engine shut down", "frames", e.Frames())
	})
}
