package renderer

import (
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.trai.ch/zerr"
)

// Render pass handles exposed by the wgpu backend. WebGPU has no render pass objects;
// the handle selects the depth load op used when a framebuffer bound to it is begun.
const (
	shadowClearRenderPass RenderPassHandle = iota + 1
	shadowLoadRenderPass
)

type wgpuImage struct {
	texture *wgpu.Texture
	desc    ImageDescriptor
	// layouts tracks the layout of every array layer. WebGPU transitions implicitly,
	// so barriers only validate and update this bookkeeping.
	layouts []ImageLayout
}

type wgpuView struct {
	view  *wgpu.TextureView
	image ImageHandle
	rng   SubresourceRange
}

type wgpuFramebuffer struct {
	attachment ViewHandle
	loadOp     wgpu.LoadOp
	width      uint32
	height     uint32
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	nextHandle   uint64
	images       map[ImageHandle]*wgpuImage
	views        map[ViewHandle]*wgpuView
	framebuffers map[FramebufferHandle]wgpuFramebuffer
	samplers     map[SamplerHandle]*wgpu.Sampler
	textures     map[string]Texture

	// Shadow pass state for rendering depth-only passes from a light's perspective.
	// All of a frame's passes, barriers and copies share one command encoder.
	shadowFrameEncoder *wgpu.CommandEncoder
	shadowPass         *wgpu.RenderPassEncoder

	// Storage buffer holding the packed point lights; capacity grows in powers of two.
	lightBuffer     *wgpu.Buffer
	lightBufferSize uint64
}

type wgpuRendererBackend interface {
	Renderer

	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface
	LightBuffer() *wgpu.Buffer
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, deviceLabel string) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:           &sync.Mutex{},
		instance:     wgpu.CreateInstance(nil),
		images:       make(map[ImageHandle]*wgpuImage),
		views:        make(map[ViewHandle]*wgpuView),
		framebuffers: make(map[FramebufferHandle]wgpuFramebuffer),
		samplers:     make(map[SamplerHandle]*wgpu.Sampler),
		textures:     make(map[string]Texture),
	}
	if surfaceDescriptor != nil {
		w.surface = w.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: deviceLabel,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Instance() *wgpu.Instance {
	return b.instance
}

func (b *wgpuRendererBackendImpl) Adapter() *wgpu.Adapter {
	return b.adapter
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}

func (b *wgpuRendererBackendImpl) LightBuffer() *wgpu.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lightBuffer
}

func (b *wgpuRendererBackendImpl) DeviceReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.device != nil
}

func (b *wgpuRendererBackendImpl) ShadowClearRenderPass() RenderPassHandle {
	return shadowClearRenderPass
}

func (b *wgpuRendererBackendImpl) ShadowLoadRenderPass() RenderPassHandle {
	return shadowLoadRenderPass
}

func (b *wgpuRendererBackendImpl) CreateCubemapImage(desc ImageDescriptor) (ImageHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return 0, ErrDeviceReleased
	}
	if desc.Width == 0 || desc.Height == 0 || desc.Layers == 0 {
		return 0, zerr.With(zerr.Wrap(ErrInvalidDescriptor, "create cubemap image"), "label", desc.Label)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: desc.Layers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toWGPUFormat(desc.Format),
		Usage:         toWGPUUsage(desc.Usage),
	})
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create cubemap image"), "label", desc.Label)
	}

	h := ImageHandle(b.allocHandle())
	b.images[h] = &wgpuImage{
		texture: tex,
		desc:    desc,
		layouts: make([]ImageLayout, desc.Layers),
	}
	return h, nil
}

func (b *wgpuRendererBackendImpl) DestroyImage(image ImageHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyImageLocked(image)
}

func (b *wgpuRendererBackendImpl) CreateView(desc ViewDescriptor) (ViewHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return 0, ErrDeviceReleased
	}
	img, ok := b.images[desc.Image]
	if !ok {
		return 0, zerr.With(zerr.Wrap(ErrUnknownHandle, "create view"), "image", uint64(desc.Image))
	}
	rng := desc.Range
	if rng.MipLevelCount == 0 {
		rng.MipLevelCount = 1
	}
	if rng.ArrayLayerCount == 0 || rng.BaseArrayLayer+rng.ArrayLayerCount > img.desc.Layers {
		return 0, zerr.With(zerr.Wrap(ErrInvalidDescriptor, "create view"), "label", desc.Label)
	}

	dimension := wgpu.TextureViewDimension2D
	if desc.Type == ViewTypeCube {
		dimension = wgpu.TextureViewDimensionCube
	}

	view, err := img.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label,
		Format:          toWGPUFormat(desc.Format),
		Dimension:       dimension,
		BaseMipLevel:    rng.BaseMipLevel,
		MipLevelCount:   rng.MipLevelCount,
		BaseArrayLayer:  rng.BaseArrayLayer,
		ArrayLayerCount: rng.ArrayLayerCount,
		Aspect:          wgpu.TextureAspectDepthOnly,
	})
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create image view"), "label", desc.Label)
	}

	h := ViewHandle(b.allocHandle())
	b.views[h] = &wgpuView{view: view, image: desc.Image, rng: rng}
	return h, nil
}

func (b *wgpuRendererBackendImpl) DestroyView(view ViewHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyViewLocked(view)
}

func (b *wgpuRendererBackendImpl) CreateFramebuffer(desc FramebufferDescriptor) (FramebufferHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return 0, ErrDeviceReleased
	}
	if _, ok := b.views[desc.Attachment]; !ok {
		return 0, zerr.With(zerr.Wrap(ErrUnknownHandle, "create framebuffer"), "view", uint64(desc.Attachment))
	}

	var loadOp wgpu.LoadOp
	switch desc.RenderPass {
	case shadowClearRenderPass:
		loadOp = wgpu.LoadOpClear
	case shadowLoadRenderPass:
		loadOp = wgpu.LoadOpLoad
	default:
		return 0, zerr.With(zerr.Wrap(ErrUnknownHandle, "create framebuffer"), "render_pass", uint64(desc.RenderPass))
	}

	h := FramebufferHandle(b.allocHandle())
	b.framebuffers[h] = wgpuFramebuffer{
		attachment: desc.Attachment,
		loadOp:     loadOp,
		width:      desc.Width,
		height:     desc.Height,
	}
	return h, nil
}

func (b *wgpuRendererBackendImpl) DestroyFramebuffer(fb FramebufferHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.framebuffers, fb)
}

func (b *wgpuRendererBackendImpl) CreateSampler(desc SamplerDescriptor) (SamplerHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return 0, ErrDeviceReleased
	}

	filter := wgpu.FilterModeNearest
	if desc.LinearFilter {
		filter = wgpu.FilterModeLinear
	}
	sd := &wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: max(desc.MaxAnisotropy, 1),
	}
	if desc.CompareDepth {
		sd.Compare = wgpu.CompareFunctionLess
	}

	samp, err := b.device.CreateSampler(sd)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create sampler"), "label", desc.Label)
	}

	h := SamplerHandle(b.allocHandle())
	b.samplers[h] = samp
	return h, nil
}

func (b *wgpuRendererBackendImpl) DestroySampler(sampler SamplerHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroySamplerLocked(sampler)
}

func (b *wgpuRendererBackendImpl) RecordLayoutTransition(cmd CommandContext, barrier LayoutBarrier) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ErrDeviceReleased
	}
	img, ok := b.images[barrier.Image]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownHandle, "record layout transition"), "image", uint64(barrier.Image))
	}

	first, count := barrier.Range.BaseArrayLayer, barrier.Range.ArrayLayerCount
	if count == 0 || first+count > uint32(len(img.layouts)) {
		return zerr.With(zerr.Wrap(ErrInvalidDescriptor, "record layout transition"), "image", img.desc.Label)
	}

	// Transitions out of Undefined discard contents and are valid from any tracked layout.
	if barrier.OldLayout != LayoutUndefined {
		for layer := first; layer < first+count; layer++ {
			if img.layouts[layer] != barrier.OldLayout {
				return zerr.With(zerr.With(zerr.Wrap(ErrLayoutMismatch, "record layout transition"), "image", img.desc.Label), "layer", layer)
			}
		}
	}
	for layer := first; layer < first+count; layer++ {
		img.layouts[layer] = barrier.NewLayout
	}
	return nil
}

func (b *wgpuRendererBackendImpl) RecordImageCopy(cmd CommandContext, src, dst ImageHandle, width, height, layers uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ErrDeviceReleased
	}
	srcImg, ok := b.images[src]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownHandle, "record image copy"), "image", uint64(src))
	}
	dstImg, ok := b.images[dst]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownHandle, "record image copy"), "image", uint64(dst))
	}
	if layers > uint32(len(srcImg.layouts)) || layers > uint32(len(dstImg.layouts)) {
		return zerr.With(zerr.Wrap(ErrInvalidDescriptor, "record image copy"), "layers", layers)
	}
	for layer := range layers {
		if srcImg.layouts[layer] != LayoutTransferSrcOptimal {
			return zerr.With(zerr.Wrap(ErrLayoutMismatch, "record image copy"), "image", srcImg.desc.Label)
		}
		if dstImg.layouts[layer] != LayoutTransferDstOptimal {
			return zerr.With(zerr.Wrap(ErrLayoutMismatch, "record image copy"), "image", dstImg.desc.Label)
		}
	}

	encoder, oneShot, err := b.encoderLocked(cmd)
	if err != nil {
		return err
	}

	encoder.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{
			Texture:  srcImg.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyTexture{
			Texture:  dstImg.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: layers,
		},
	)

	if oneShot {
		return b.submitLocked(encoder)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) RegisterTexture(name string, tex Texture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.textures[name]; exists {
		return zerr.With(zerr.Wrap(ErrTextureExists, "register texture"), "name", name)
	}
	b.textures[name] = tex
	return nil
}

func (b *wgpuRendererBackendImpl) LookupTexture(name string) (Texture, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tex, ok := b.textures[name]
	return tex, ok
}

func (b *wgpuRendererBackendImpl) ReleaseTexture(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, ok := b.textures[name]
	if !ok {
		return
	}
	delete(b.textures, name)
	b.destroySamplerLocked(tex.Sampler)
	b.destroyImageLocked(tex.Image)
}

func (b *wgpuRendererBackendImpl) BeginShadowFrame() (CommandContext, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil, ErrDeviceReleased
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create shadow frame encoder")
	}
	b.shadowFrameEncoder = encoder
	return encoder, nil
}

func (b *wgpuRendererBackendImpl) BeginShadowPass(cmd CommandContext, fb FramebufferHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	encoder, ok := cmd.(*wgpu.CommandEncoder)
	if !ok || encoder == nil || encoder != b.shadowFrameEncoder {
		return ErrNoFrame
	}
	record, ok := b.framebuffers[fb]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownHandle, "begin shadow pass"), "framebuffer", uint64(fb))
	}
	view, ok := b.views[record.attachment]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownHandle, "begin shadow pass"), "view", uint64(record.attachment))
	}
	if img, ok := b.images[view.image]; ok {
		for layer := view.rng.BaseArrayLayer; layer < view.rng.BaseArrayLayer+view.rng.ArrayLayerCount; layer++ {
			if img.layouts[layer] != LayoutDepthAttachmentOptimal {
				return zerr.With(zerr.Wrap(ErrLayoutMismatch, "begin shadow pass"), "image", img.desc.Label)
			}
		}
	}

	b.shadowPass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		// No color attachments, depth-only pass
		ColorAttachments: nil,
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            view.view,
			DepthLoadOp:     record.loadOp,
			DepthStoreOp:    wgpu.StoreOpStore, // Must store, this is the shadow map
			DepthClearValue: 1.0,
		},
	})
	return nil
}

func (b *wgpuRendererBackendImpl) EndShadowPass(cmd CommandContext) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowPass == nil {
		return
	}
	b.shadowPass.End()
	b.shadowPass = nil
}

func (b *wgpuRendererBackendImpl) EndShadowFrame(cmd CommandContext) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder == nil {
		return nil
	}
	if b.shadowPass != nil {
		b.shadowPass.End()
		b.shadowPass = nil
	}
	encoder := b.shadowFrameEncoder
	b.shadowFrameEncoder = nil
	return b.submitLocked(encoder)
}

func (b *wgpuRendererBackendImpl) UploadLightBuffer(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return zerr.Wrap(ErrDeviceReleased, "upload light buffer")
	}
	if len(data) == 0 {
		return nil
	}

	size := uint64(len(data))
	if b.lightBuffer == nil || size > b.lightBufferSize {
		capacity := max(minLightBufferSize, nextPowerOfTwo(size))
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            "Point Light Buffer",
			Size:             capacity,
			Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to grow light buffer"), "size", capacity)
		}
		if b.lightBuffer != nil {
			b.lightBuffer.Release()
		}
		b.lightBuffer = buf
		b.lightBufferSize = capacity
		logger.Logger().Debug("light buffer grown", "bytes", capacity)
	}
	b.queue.WriteBuffer(b.lightBuffer, 0, data)
	return nil
}

func (b *wgpuRendererBackendImpl) Stats() ResourceStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ResourceStats{
		Images:       len(b.images),
		Views:        len(b.views),
		Framebuffers: len(b.framebuffers),
		Samplers:     len(b.samplers),
		Textures:     len(b.textures),
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return
	}
	if b.shadowFrameEncoder != nil {
		b.shadowFrameEncoder.Release()
		b.shadowFrameEncoder = nil
		b.shadowPass = nil
	}

	leaked := len(b.views) + len(b.images) + len(b.samplers)
	for h := range b.views {
		b.destroyViewLocked(h)
	}
	for h := range b.samplers {
		b.destroySamplerLocked(h)
	}
	for h := range b.images {
		b.destroyImageLocked(h)
	}
	clear(b.framebuffers)
	clear(b.textures)
	if b.lightBuffer != nil {
		b.lightBuffer.Release()
		b.lightBuffer, b.lightBufferSize = nil, 0
	}
	if leaked > 0 {
		logger.Logger().Warn("released gpu objects still held at shutdown", "count", leaked)
	}

	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	if b.surface != nil {
		b.surface.Release()
	}
	b.instance.Release()
	b.queue, b.device, b.adapter, b.surface, b.instance = nil, nil, nil, nil, nil
	logger.Logger().Info("gpu device released")
}

// minLightBufferSize is the initial light buffer capacity in bytes.
const minLightBufferSize = 4096

func nextPowerOfTwo(v uint64) uint64 {
	p := uint64(1)
	for p < v {
		p <<= 1
	}
	return p
}

func (b *wgpuRendererBackendImpl) allocHandle() uint64 {
	b.nextHandle++
	return b.nextHandle
}

// encoderLocked resolves cmd to a command encoder. A nil cmd yields a fresh encoder
// the caller must submit itself.
func (b *wgpuRendererBackendImpl) encoderLocked(cmd CommandContext) (*wgpu.CommandEncoder, bool, error) {
	if cmd == nil {
		encoder, err := b.device.CreateCommandEncoder(nil)
		if err != nil {
			return nil, false, zerr.Wrap(err, "failed to create one-shot encoder")
		}
		return encoder, true, nil
	}
	encoder, ok := cmd.(*wgpu.CommandEncoder)
	if !ok || encoder == nil || encoder != b.shadowFrameEncoder {
		return nil, false, ErrNoFrame
	}
	return encoder, false, nil
}

func (b *wgpuRendererBackendImpl) submitLocked(encoder *wgpu.CommandEncoder) error {
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return zerr.Wrap(err, "failed to finish command encoder")
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) destroyImageLocked(image ImageHandle) {
	img, ok := b.images[image]
	if !ok {
		return
	}
	delete(b.images, image)
	img.texture.Release()
}

func (b *wgpuRendererBackendImpl) destroyViewLocked(view ViewHandle) {
	v, ok := b.views[view]
	if !ok {
		return
	}
	delete(b.views, view)
	v.view.Release()
}

func (b *wgpuRendererBackendImpl) destroySamplerLocked(sampler SamplerHandle) {
	s, ok := b.samplers[sampler]
	if !ok {
		return
	}
	delete(b.samplers, sampler)
	s.Release()
}

func toWGPUFormat(f TextureFormat) wgpu.TextureFormat {
	switch f {
	case FormatDepth24Plus:
		return wgpu.TextureFormatDepth24Plus
	default:
		return wgpu.TextureFormatDepth32Float
	}
}

func toWGPUUsage(u ImageUsage) wgpu.TextureUsage {
	var usage wgpu.TextureUsage
	if u.Has(UsageDepthAttachment) {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	if u.Has(UsageSampled) {
		usage |= wgpu.TextureUsageTextureBinding
	}
	if u.Has(UsageTransferSrc) {
		usage |= wgpu.TextureUsageCopySrc
	}
	if u.Has(UsageTransferDst) {
		usage |= wgpu.TextureUsageCopyDst
	}
	return usage
}
