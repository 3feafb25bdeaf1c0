package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-shadows/engine/lighting"
	"github.com/Carmen-Shannon/oxy-shadows/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadows/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerOptions replaces the profiler with one built from options.
//
// Parameters:
//   - options: profiler options such as the report interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerOptions(options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(options...)
	}
}

// WithTickRate caps the frame loop at fps frames per second.
// Values <= 0 leave the loop uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithMaxFrames stops Run after n frames. Values <= 0 run until stopped.
//
// Parameters:
//   - n: the frame count
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxFrames(n int) EngineBuilderOption {
	return func(e *engine) {
		e.maxFrames = n
	}
}

// WithWindow sets the window the engine polls and whose surface the default renderer targets.
// Without a window the engine runs headless.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer instead of creating a WGPU one.
//
// Parameters:
//   - r: the renderer to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.r = r
	}
}

// WithForceSoftwareRenderer requests a fallback adapter for the default renderer.
//
// Parameters:
//   - force: if true, the default renderer uses a software adapter
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) EngineBuilderOption {
	return func(e *engine) {
		e.forceSoftware = force
	}
}

// WithPreparerOptions passes options through to the shadow preparer.
//
// Parameters:
//   - options: preparer options such as the draw callback or pack workers
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPreparerOptions(options ...lighting.PreparerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.preparerOpts = append(e.preparerOpts, options...)
	}
}

// WithTickCallback registers the function called once per frame after entities are updated.
//
// Parameters:
//   - callback: function receiving the frame's delta time in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithFrameCallback registers the function called with each frame's shadow results.
//
// Parameters:
//   - callback: function receiving the frame result
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameCallback(callback func(res lighting.FrameResult)) EngineBuilderOption {
	return func(e *engine) {
		e.frameCallback = callback
	}
}
