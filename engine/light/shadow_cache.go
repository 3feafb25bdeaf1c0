package light

import (
	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"go.trai.ch/zerr"
)

// ShadowTargetKind selects one of the two cubemap targets a light may own.
type ShadowTargetKind int

const (
	// ShadowTargetStatic is rendered from scratch with the clear pass.
	ShadowTargetStatic ShadowTargetKind = iota
	// ShadowTargetDynamic is seeded by copy from the static target and patched with the load pass.
	ShadowTargetDynamic
)

func (k ShadowTargetKind) String() string {
	switch k {
	case ShadowTargetStatic:
		return "static"
	case ShadowTargetDynamic:
		return "dynamic"
	default:
		return "invalid"
	}
}

func (k ShadowTargetKind) valid() bool {
	return k == ShadowTargetStatic || k == ShadowTargetDynamic
}

// ShadowTarget is a snapshot of one cubemap shadow target.
// FaceViews and Framebuffers are indexed by common.CubeFace.
type ShadowTarget struct {
	Name         string
	Image        renderer.ImageHandle
	CubeView     renderer.ViewHandle
	FaceViews    [common.CubeFaceCount]renderer.ViewHandle
	Framebuffers [common.CubeFaceCount]renderer.FramebufferHandle
	Sampler      renderer.SamplerHandle
	Layout       renderer.ImageLayout
	Width        uint32
	Height       uint32
}

// Valid reports whether the target's image and cube view both exist.
func (t ShadowTarget) Valid() bool {
	return !t.Image.IsNull() && !t.CubeView.IsNull()
}

// ShadowCache lazily creates and owns the static and dynamic cubemap shadow targets of one light.
// It is not safe for concurrent use.
type ShadowCache struct {
	owner      string
	resolution uint32
	alloc      renderer.Allocator
	passes     renderer.PipelineProvider

	targets   [2]ShadowTarget
	destroyed bool
}

// NewShadowCache creates an empty cache for the named light. Nothing is allocated until a target is requested.
//
// Parameters:
//   - owner: the light name target names are derived from
//   - resolution: the width and height of each cube face in texels, 0 for the default
//   - alloc: the allocator targets are created with, may be nil until SetResources
//   - passes: the provider of the clear and load shadow passes, may be nil until SetResources
//
// Returns:
//   - *ShadowCache: the empty cache
func NewShadowCache(owner string, resolution uint32, alloc renderer.Allocator, passes renderer.PipelineProvider) *ShadowCache {
	if resolution == 0 {
		resolution = DefaultShadowMapResolution
	}
	return &ShadowCache{
		owner:      owner,
		resolution: resolution,
		alloc:      alloc,
		passes:     passes,
	}
}

// SetResources attaches the allocator and pipeline provider. Targets already created keep
// referring to the allocator that made them, so this should be called before the first Ensure.
func (c *ShadowCache) SetResources(alloc renderer.Allocator, passes renderer.PipelineProvider) {
	c.alloc = alloc
	c.passes = passes
}

// Resolution returns the width and height of each cube face in texels.
func (c *ShadowCache) Resolution() uint32 {
	return c.resolution
}

// Target returns a snapshot of the requested target. Unknown kinds yield the zero target.
func (c *ShadowCache) Target(kind ShadowTargetKind) ShadowTarget {
	if !kind.valid() {
		return ShadowTarget{}
	}
	return c.targets[kind]
}

// Layout returns the tracked layout of the requested target. It is LayoutUndefined when the target does not exist.
func (c *ShadowCache) Layout(kind ShadowTargetKind) renderer.ImageLayout {
	return c.Target(kind).Layout
}

// Destroyed reports whether Destroy has run.
func (c *ShadowCache) Destroyed() bool {
	return c.destroyed
}

// Ensure returns the requested target, creating it on first use.
//
// Creation allocates the cubemap image, moves it to LayoutDepthAttachmentOptimal, then creates the cube view,
// the six face views and the sampler, and registers the texture under the target's derived name.
// If any step fails every object created by this call is released before the error is returned.
//
// Parameters:
//   - kind: the target to obtain
//
// Returns:
//   - ShadowTarget: the existing or newly created target
//   - error: a contract violation (see IsContractViolation) or a wrapped allocator failure
func (c *ShadowCache) Ensure(kind ShadowTargetKind) (ShadowTarget, error) {
	if err := c.checkReady(kind); err != nil {
		return ShadowTarget{}, err
	}
	if t := c.targets[kind]; t.Valid() {
		return t, nil
	}
	// A target missing its image or cube view is unusable; drop any strays before rebuilding.
	c.releaseTarget(kind)

	t, err := c.create(kind)
	if err != nil {
		return ShadowTarget{}, err
	}
	c.targets[kind] = t
	logger.Logger().Debug("shadow target created",
		"light", c.owner,
		"target", kind,
		"name", t.Name,
		"resolution", c.resolution,
	)
	return t, nil
}

func (c *ShadowCache) create(kind ShadowTargetKind) (t ShadowTarget, err error) {
	alloc := c.alloc
	usage := renderer.UsageDepthAttachment | renderer.UsageSampled | renderer.UsageTransferSrc
	name := StaticTargetName(c.owner)
	if kind == ShadowTargetDynamic {
		usage |= renderer.UsageTransferDst
		name = DynamicTargetName(c.owner)
	}

	rb := &rollback{}
	defer func() {
		if n := rb.run(); n > 0 {
			logger.Logger().Debug("shadow target rolled back", "light", c.owner, "target", kind, "released", n)
		}
	}()

	t = ShadowTarget{Name: name, Width: c.resolution, Height: c.resolution}
	fail := func(cause error, step string) (ShadowTarget, error) {
		wrapped := zerr.Wrap(cause, "failed to create shadow target "+step)
		wrapped = zerr.With(wrapped, "light", c.owner)
		wrapped = zerr.With(wrapped, "target", kind.String())
		return ShadowTarget{}, wrapped
	}

	t.Image, err = alloc.CreateCubemapImage(renderer.ImageDescriptor{
		Label:  name,
		Width:  c.resolution,
		Height: c.resolution,
		Layers: common.CubeFaceCount,
		Format: shadowMapFormat,
		Usage:  usage,
	})
	if err != nil {
		return fail(err, "image")
	}
	image := t.Image
	rb.push(func() { alloc.DestroyImage(image) })

	barrier, _, err := barrierFor(image, renderer.LayoutUndefined, renderer.LayoutDepthAttachmentOptimal)
	if err != nil {
		return fail(err, "initial layout")
	}
	if err = alloc.RecordLayoutTransition(nil, barrier); err != nil {
		return fail(err, "initial layout")
	}

	t.CubeView, err = alloc.CreateView(renderer.ViewDescriptor{
		Label:  name + "_cube",
		Image:  image,
		Format: shadowMapFormat,
		Type:   renderer.ViewTypeCube,
		Range:  cubeRange,
	})
	if err != nil {
		return fail(err, "cube view")
	}
	cubeView := t.CubeView
	rb.push(func() { alloc.DestroyView(cubeView) })

	for _, face := range common.CubeFaces {
		view, viewErr := alloc.CreateView(renderer.ViewDescriptor{
			Label:  name + "_face" + face.String(),
			Image:  image,
			Format: shadowMapFormat,
			Type:   renderer.ViewType2D,
			Range: renderer.SubresourceRange{
				MipLevelCount:   1,
				BaseArrayLayer:  uint32(face),
				ArrayLayerCount: 1,
			},
		})
		if viewErr != nil {
			return fail(viewErr, "face view "+face.String())
		}
		t.FaceViews[face] = view
		rb.push(func() { alloc.DestroyView(view) })
	}

	t.Sampler, err = alloc.CreateSampler(renderer.SamplerDescriptor{
		Label:         name + "_sampler",
		LinearFilter:  true,
		CompareDepth:  true,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fail(err, "sampler")
	}
	sampler := t.Sampler
	rb.push(func() { alloc.DestroySampler(sampler) })

	err = alloc.RegisterTexture(name, renderer.Texture{
		Image:   image,
		View:    cubeView,
		Sampler: sampler,
		Format:  shadowMapFormat,
		Width:   c.resolution,
		Height:  c.resolution,
	})
	if err != nil {
		return fail(err, "registration")
	}

	rb.commit()
	t.Layout = renderer.LayoutDepthAttachmentOptimal
	return t, nil
}

// FaceFramebuffer returns the framebuffer rendering into one face of the requested target.
// The target is created if needed, and the framebuffer is created on first request bound to the
// clear pass for the static target or the load pass for the dynamic target.
//
// Parameters:
//   - kind: the target the framebuffer renders into
//   - face: the cube face index in [0,6)
//
// Returns:
//   - renderer.FramebufferHandle: the cached or newly created framebuffer
//   - error: ErrFaceOutOfRange for a bad index, or any error from Ensure or the allocator
func (c *ShadowCache) FaceFramebuffer(kind ShadowTargetKind, face int) (renderer.FramebufferHandle, error) {
	if !common.CubeFace(face).Valid() {
		return 0, zerr.With(zerr.Wrap(ErrFaceOutOfRange, "face framebuffer requested"), "face", face)
	}
	t, err := c.Ensure(kind)
	if err != nil {
		return 0, err
	}
	if fb := t.Framebuffers[face]; !fb.IsNull() {
		return fb, nil
	}

	pass := c.passes.ShadowClearRenderPass()
	if kind == ShadowTargetDynamic {
		pass = c.passes.ShadowLoadRenderPass()
	}
	fb, err := c.alloc.CreateFramebuffer(renderer.FramebufferDescriptor{
		Label:      t.Name + "_fb" + common.CubeFace(face).String(),
		RenderPass: pass,
		Attachment: t.FaceViews[face],
		Width:      t.Width,
		Height:     t.Height,
	})
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "failed to create face framebuffer"), "light", c.owner)
		return 0, zerr.With(wrapped, "face", face)
	}
	c.targets[kind].Framebuffers[face] = fb
	return fb, nil
}

// Transition moves the requested target to layout. Requesting the current layout records nothing;
// otherwise exactly one barrier is recorded and the tracked layout is updated once it succeeds.
//
// Parameters:
//   - cmd: the command context to record on, or nil for an immediate transition
//   - kind: the target to transition, which must already exist
//   - layout: the requested layout
//
// Returns:
//   - error: a contract violation, or the allocator's error with the tracked layout unchanged
func (c *ShadowCache) Transition(cmd renderer.CommandContext, kind ShadowTargetKind, layout renderer.ImageLayout) error {
	if err := c.checkReady(kind); err != nil {
		return err
	}
	t := c.targets[kind]
	if !t.Valid() {
		return zerr.With(zerr.Wrap(ErrInvalidTarget, "transition before target creation"), "target", kind.String())
	}

	barrier, needed, err := barrierFor(t.Image, t.Layout, layout)
	if err != nil || !needed {
		return err
	}
	if err := c.alloc.RecordLayoutTransition(cmd, barrier); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "failed to record layout transition"), "light", c.owner)
		return zerr.With(wrapped, "to", layout.String())
	}
	c.targets[kind].Layout = layout
	return nil
}

// SeedDynamic copies every face of the static target into the dynamic target, leaving the static
// target in LayoutTransferSrcOptimal and the dynamic target in LayoutTransferDstOptimal.
// Both targets must already exist.
//
// Parameters:
//   - cmd: the command context to record on, or nil for an immediate copy
//
// Returns:
//   - error: ErrInvalidTarget if a target is missing, or any transition or copy error
func (c *ShadowCache) SeedDynamic(cmd renderer.CommandContext) error {
	if err := c.checkReady(ShadowTargetDynamic); err != nil {
		return err
	}
	src, dst := c.targets[ShadowTargetStatic], c.targets[ShadowTargetDynamic]
	if !src.Valid() || !dst.Valid() {
		return zerr.With(zerr.Wrap(ErrInvalidTarget, "seed before both targets exist"), "light", c.owner)
	}
	if err := c.Transition(cmd, ShadowTargetStatic, renderer.LayoutTransferSrcOptimal); err != nil {
		return err
	}
	if err := c.Transition(cmd, ShadowTargetDynamic, renderer.LayoutTransferDstOptimal); err != nil {
		return err
	}
	if err := c.alloc.RecordImageCopy(cmd, src.Image, dst.Image, dst.Width, dst.Height, common.CubeFaceCount); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to seed dynamic shadow target"), "light", c.owner)
	}
	return nil
}

// Destroy releases both targets: framebuffers first, then views, then the registered texture which
// owns the image and sampler. Layouts return to LayoutUndefined. When the device is already gone only
// the local handles are cleared. Calling Destroy more than once is a no-op.
func (c *ShadowCache) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.releaseTarget(ShadowTargetStatic)
	c.releaseTarget(ShadowTargetDynamic)
}

func (c *ShadowCache) releaseTarget(kind ShadowTargetKind) {
	t := c.targets[kind]
	c.targets[kind] = ShadowTarget{}
	if t.Image.IsNull() && t.CubeView.IsNull() {
		return
	}

	if c.alloc == nil || !c.alloc.DeviceReady() {
		logger.Logger().Warn("device gone, dropping shadow target handles", "light", c.owner, "target", kind)
		return
	}

	for _, fb := range t.Framebuffers {
		if !fb.IsNull() {
			c.alloc.DestroyFramebuffer(fb)
		}
	}
	for _, v := range t.FaceViews {
		if !v.IsNull() {
			c.alloc.DestroyView(v)
		}
	}
	if !t.CubeView.IsNull() {
		c.alloc.DestroyView(t.CubeView)
	}
	if _, ok := c.alloc.LookupTexture(t.Name); ok {
		c.alloc.ReleaseTexture(t.Name)
		return
	}
	// Never registered: the image and sampler are still ours.
	if !t.Sampler.IsNull() {
		c.alloc.DestroySampler(t.Sampler)
	}
	c.alloc.DestroyImage(t.Image)
}

func (c *ShadowCache) checkReady(kind ShadowTargetKind) error {
	if c.destroyed {
		return zerr.With(zerr.Wrap(ErrLightDestroyed, "shadow cache used after destroy"), "light", c.owner)
	}
	if !kind.valid() {
		return zerr.With(zerr.Wrap(ErrInvalidTarget, "unknown target kind"), "kind", int(kind))
	}
	if c.alloc == nil || c.passes == nil {
		return zerr.With(zerr.Wrap(ErrNotReady, "no allocator or pipeline provider"), "light", c.owner)
	}
	if !c.alloc.DeviceReady() {
		return zerr.With(zerr.Wrap(ErrDeviceNotInitialized, "allocator has no device"), "light", c.owner)
	}
	return nil
}
