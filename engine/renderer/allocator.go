package renderer

//go:generate mockgen -source=allocator.go -destination=mocks/mock_allocator.go -package=mocks

// Allocator creates and destroys the raw GPU objects shadow targets are built from,
// records layout transitions and copies, and keeps a registry of named textures.
//
// Destroy calls on null or unknown handles are no-ops. Handles are never reused.
type Allocator interface {
	// DeviceReady reports whether the underlying GPU device exists. Once the device is released
	// every Create call fails and callers should skip Destroy calls entirely.
	//
	// Returns:
	//   - bool: true while the device is alive
	DeviceReady() bool

	// CreateCubemapImage allocates a layered depth image in LayoutUndefined.
	//
	// Parameters:
	//   - desc: size, layer count, format and usage of the image
	//
	// Returns:
	//   - ImageHandle: the new image
	//   - error: an error if the device rejected the allocation
	CreateCubemapImage(desc ImageDescriptor) (ImageHandle, error)

	// DestroyImage releases an image created by CreateCubemapImage.
	//
	// Parameters:
	//   - image: the image to release
	DestroyImage(image ImageHandle)

	// CreateView creates a 2D or cube view over a layer range of an image.
	//
	// Parameters:
	//   - desc: the image, format, view type and layer range of the view
	//
	// Returns:
	//   - ViewHandle: the new view
	//   - error: an error if the image is unknown or the device rejected the view
	CreateView(desc ViewDescriptor) (ViewHandle, error)

	// DestroyView releases a view created by CreateView.
	//
	// Parameters:
	//   - view: the view to release
	DestroyView(view ViewHandle)

	// CreateFramebuffer binds a depth attachment view to a render pass.
	//
	// Parameters:
	//   - desc: the render pass, attachment view and extent of the framebuffer
	//
	// Returns:
	//   - FramebufferHandle: the new framebuffer
	//   - error: an error if the pass or view is unknown
	CreateFramebuffer(desc FramebufferDescriptor) (FramebufferHandle, error)

	// DestroyFramebuffer releases a framebuffer created by CreateFramebuffer.
	//
	// Parameters:
	//   - fb: the framebuffer to release
	DestroyFramebuffer(fb FramebufferHandle)

	// CreateSampler creates a clamp-to-edge sampler.
	//
	// Parameters:
	//   - desc: filtering and comparison settings
	//
	// Returns:
	//   - SamplerHandle: the new sampler
	//   - error: an error if the device rejected the sampler
	CreateSampler(desc SamplerDescriptor) (SamplerHandle, error)

	// DestroySampler releases a sampler created by CreateSampler.
	//
	// Parameters:
	//   - sampler: the sampler to release
	DestroySampler(sampler SamplerHandle)

	// RecordLayoutTransition records a single layout barrier.
	//
	// Parameters:
	//   - cmd: the frame's command context, or nil to submit the barrier immediately
	//   - barrier: the image, layouts, synchronization scopes and subresource range
	//
	// Returns:
	//   - error: an error if the image is unknown or not in barrier.OldLayout
	RecordLayoutTransition(cmd CommandContext, barrier LayoutBarrier) error

	// RecordImageCopy copies every layer of src into dst. The images must already be in
	// LayoutTransferSrcOptimal and LayoutTransferDstOptimal respectively.
	//
	// Parameters:
	//   - cmd: the frame's command context, or nil to submit the copy immediately
	//   - src: the image to copy from
	//   - dst: the image to copy into
	//   - width, height: the extent of each layer
	//   - layers: the number of layers to copy
	//
	// Returns:
	//   - error: an error if either image is unknown or in the wrong layout
	RecordImageCopy(cmd CommandContext, src, dst ImageHandle, width, height, layers uint32) error

	// RegisterTexture publishes a texture under name so other systems can sample it.
	// The registry takes ownership of the texture's image and sampler; its view stays with the caller.
	//
	// Parameters:
	//   - name: the unique texture name
	//   - tex: the texture to register
	//
	// Returns:
	//   - error: an error if a texture is already registered under name
	RegisterTexture(name string, tex Texture) error

	// LookupTexture returns the texture registered under name.
	//
	// Parameters:
	//   - name: the texture name
	//
	// Returns:
	//   - Texture: the registered texture, zero if absent
	//   - bool: true if a texture is registered under name
	LookupTexture(name string) (Texture, bool)

	// ReleaseTexture unregisters name and destroys the image and sampler it owns.
	// Unknown names are ignored.
	//
	// Parameters:
	//   - name: the texture name
	ReleaseTexture(name string)
}

// PipelineProvider exposes the render passes shadow targets bind their framebuffers to.
type PipelineProvider interface {
	// ShadowClearRenderPass returns the depth-only pass that clears its attachment on load.
	// Static shadow targets are rendered from scratch with this pass.
	//
	// Returns:
	//   - RenderPassHandle: the clear pass
	ShadowClearRenderPass() RenderPassHandle

	// ShadowLoadRenderPass returns the depth-only pass that preserves its attachment on load.
	// Dynamic shadow targets are patched incrementally with this pass.
	//
	// Returns:
	//   - RenderPassHandle: the load pass
	ShadowLoadRenderPass() RenderPassHandle
}

// ShadowPassRecorder opens and closes depth-only passes on a framebuffer.
type ShadowPassRecorder interface {
	// BeginShadowPass starts a depth-only pass on fb using the render pass fb was created with.
	//
	// Parameters:
	//   - cmd: the frame's command context from BeginShadowFrame
	//   - fb: the face framebuffer to render into
	//
	// Returns:
	//   - error: an error if no frame is open or fb is unknown
	BeginShadowPass(cmd CommandContext, fb FramebufferHandle) error

	// EndShadowPass ends the pass started by BeginShadowPass.
	//
	// Parameters:
	//   - cmd: the frame's command context
	EndShadowPass(cmd CommandContext)
}
