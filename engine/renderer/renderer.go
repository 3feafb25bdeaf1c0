package renderer

import (
	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/Carmen-Shannon/oxy-shadows/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface. Every call is served by the selected backend.
type renderer struct {
	RendererBackend

	backendType RendererBackendType

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	surfaceOverridden    bool
	deviceLabel          string
}

// Renderer is the shadow-facing view of the GPU device.
//
// It allocates the images, views, framebuffers and samplers shadow targets are built from,
// exposes the clear and load shadow render passes, and batches a frame's shadow passes
// into one command submission.
type Renderer interface {
	Allocator
	PipelineProvider
	ShadowPassRecorder

	// BeginShadowFrame creates the command context every shadow pass, barrier and copy
	// of this frame is recorded on. Must be paired with EndShadowFrame.
	//
	// Returns:
	//   - CommandContext: the frame's command context
	//   - error: an error if the device is gone or the encoder could not be created
	BeginShadowFrame() (CommandContext, error)

	// EndShadowFrame finishes the frame's command context and submits it to the GPU queue.
	//
	// Parameters:
	//   - cmd: the context returned by BeginShadowFrame
	//
	// Returns:
	//   - error: an error if the encoder could not be finished
	EndShadowFrame(cmd CommandContext) error

	// UploadLightBuffer writes the frame's packed point light records to the light storage buffer,
	// growing the buffer when data no longer fits. Empty data leaves the buffer untouched.
	//
	// Parameters:
	//   - data: the records, back to back
	//
	// Returns:
	//   - error: an error if the device is gone or the buffer could not be grown
	UploadLightBuffer(data []byte) error

	// Stats reports how many GPU objects the backend currently holds.
	//
	// Returns:
	//   - ResourceStats: live object counts
	Stats() ResourceStats

	// Release destroys every remaining GPU object and the device itself.
	// Afterwards DeviceReady reports false. Calling Release more than once is safe.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer on the given backend. When win is nil, or WithSurfaceDescriptor(nil)
// is passed, the device is requested without a surface and runs headless.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window whose surface the device must be compatible with, may be nil
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created Renderer instance
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if !r.surfaceOverridden && win != nil {
		r.surfaceDescriptor = win.SurfaceDescriptor()
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.RendererBackend = newWGPURendererBackend(
			r.surfaceDescriptor,
			r.forceFallbackAdapter,
			common.Coalesce(r.deviceLabel, "Shadow Device"),
		)
	}

	logger.Logger().Info("renderer ready",
		"backend", backendType,
		"headless", r.surfaceDescriptor == nil,
		"software", r.forceFallbackAdapter,
	)
	return r
}
