package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithSurfaceDescriptor overrides the surface the device is made compatible with.
// Passing nil requests a headless device with no surface.
//
// Parameters:
//   - desc: the surface descriptor, or nil for headless operation
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) RendererBuilderOption {
	return func(r *renderer) {
		r.surfaceDescriptor = desc
		r.surfaceOverridden = true
	}
}

// WithDeviceLabel sets the debug label of the requested GPU device.
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - RendererBuilderOption: a function that applies the label option to a renderer
func WithDeviceLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		r.deviceLabel = label
	}
}
