// Package renderertest provides an in-memory Renderer for exercising shadow code without a GPU.
package renderertest

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"go.trai.ch/zerr"
)

// Op names an allocator operation for failure injection and call counting.
type Op string

const (
	OpCreateImage        Op = "CreateCubemapImage"
	OpDestroyImage       Op = "DestroyImage"
	OpCreateView         Op = "CreateView"
	OpDestroyView        Op = "DestroyView"
	OpCreateFramebuffer  Op = "CreateFramebuffer"
	OpDestroyFramebuffer Op = "DestroyFramebuffer"
	OpCreateSampler      Op = "CreateSampler"
	OpDestroySampler     Op = "DestroySampler"
	OpRecordTransition   Op = "RecordLayoutTransition"
	OpRecordCopy         Op = "RecordImageCopy"
	OpRegisterTexture    Op = "RegisterTexture"
	OpReleaseTexture     Op = "ReleaseTexture"
	OpBeginPass          Op = "BeginShadowPass"
	OpEndPass            Op = "EndShadowPass"
	OpUploadLights       Op = "UploadLightBuffer"
)

const (
	// ClearPass is the handle returned by ShadowClearRenderPass.
	ClearPass renderer.RenderPassHandle = 1
	// LoadPass is the handle returned by ShadowLoadRenderPass.
	LoadPass renderer.RenderPassHandle = 2
)

// ErrInjected is returned by operations armed with FailOn.
var ErrInjected = zerr.New("injected allocator failure")

// RecordedBarrier is one RecordLayoutTransition call.
type RecordedBarrier struct {
	Cmd     renderer.CommandContext
	Barrier renderer.LayoutBarrier
}

// RecordedCopy is one RecordImageCopy call.
type RecordedCopy struct {
	Cmd                   renderer.CommandContext
	Src, Dst              renderer.ImageHandle
	Width, Height, Layers uint32
}

// RecordedPass is one BeginShadowPass call.
type RecordedPass struct {
	Cmd         renderer.CommandContext
	Framebuffer renderer.FramebufferHandle
	RenderPass  renderer.RenderPassHandle
	Image       renderer.ImageHandle
	Layer       uint32
}

type fakeImage struct {
	desc    renderer.ImageDescriptor
	layouts []renderer.ImageLayout
}

// frame is the CommandContext handed out by BeginShadowFrame.
type frame struct {
	id int
}

// FakeAllocator is an in-memory renderer.Renderer. It tracks every live object and per-layer layouts,
// validates barriers and copies the way a real device would, and records everything for assertions.
type FakeAllocator struct {
	mu sync.Mutex

	next        uint64
	deviceReady bool
	released    bool

	images       map[renderer.ImageHandle]*fakeImage
	views        map[renderer.ViewHandle]renderer.ViewDescriptor
	framebuffers map[renderer.FramebufferHandle]renderer.FramebufferDescriptor
	samplers     map[renderer.SamplerHandle]renderer.SamplerDescriptor
	textures     map[string]renderer.Texture

	calls  map[Op]int
	failAt map[Op]int
	log    []Op

	frames    int
	openFrame *frame
	openPass  bool

	Barriers []RecordedBarrier
	Copies   []RecordedCopy
	Passes   []RecordedPass
	// Uploads holds a copy of every UploadLightBuffer payload.
	Uploads [][]byte
}

var _ renderer.Renderer = &FakeAllocator{}

// NewFakeAllocator returns a fake with a live device and no objects.
func NewFakeAllocator() *FakeAllocator {
	return &FakeAllocator{
		deviceReady:  true,
		images:       make(map[renderer.ImageHandle]*fakeImage),
		views:        make(map[renderer.ViewHandle]renderer.ViewDescriptor),
		framebuffers: make(map[renderer.FramebufferHandle]renderer.FramebufferDescriptor),
		samplers:     make(map[renderer.SamplerHandle]renderer.SamplerDescriptor),
		textures:     make(map[string]renderer.Texture),
		calls:        make(map[Op]int),
		failAt:       make(map[Op]int),
	}
}

// FailOn arms op so that its nth call from now fails with ErrInjected. The failure fires once.
func (f *FakeAllocator) FailOn(op Op, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAt[op] = f.calls[op] + n
}

// SetDeviceReady simulates device loss (false) or recovery (true).
func (f *FakeAllocator) SetDeviceReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deviceReady = ready
}

// Calls returns how many times op has been invoked, failed calls included.
func (f *FakeAllocator) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Log returns every operation in call order.
func (f *FakeAllocator) Log() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.log)
}

// ResetLog clears the call log and recorded barriers, copies and passes. Live objects are kept.
func (f *FakeAllocator) ResetLog() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = nil
	f.Barriers = nil
	f.Copies = nil
	f.Passes = nil
	f.Uploads = nil
}

// Balanced reports whether every created object has been destroyed and no texture is registered.
func (f *FakeAllocator) Balanced() bool {
	s := f.Stats()
	return s == renderer.ResourceStats{}
}

// LayerLayouts returns the tracked layout of every layer of image, or nil for unknown images.
func (f *FakeAllocator) LayerLayouts(image renderer.ImageHandle) []renderer.ImageLayout {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[image]
	if !ok {
		return nil
	}
	return slices.Clone(img.layouts)
}

// ViewDescriptor returns the descriptor a live view was created with.
func (f *FakeAllocator) ViewDescriptor(view renderer.ViewHandle) (renderer.ViewDescriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.views[view]
	return d, ok
}

// FramebufferDescriptor returns the descriptor a live framebuffer was created with.
func (f *FakeAllocator) FramebufferDescriptor(fb renderer.FramebufferHandle) (renderer.FramebufferDescriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.framebuffers[fb]
	return d, ok
}

// ImageDescriptor returns the descriptor a live image was created with.
func (f *FakeAllocator) ImageDescriptor(image renderer.ImageHandle) (renderer.ImageDescriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[image]
	if !ok {
		return renderer.ImageDescriptor{}, false
	}
	return img.desc, true
}

// enter counts the call and reports an injected or device failure. Callers hold f.mu.
func (f *FakeAllocator) enter(op Op, needsDevice bool) error {
	f.calls[op]++
	f.log = append(f.log, op)
	if at, ok := f.failAt[op]; ok && f.calls[op] == at {
		delete(f.failAt, op)
		return zerr.With(zerr.Wrap(ErrInjected, "injected"), "op", string(op))
	}
	if needsDevice && !f.deviceReady {
		return zerr.Wrap(renderer.ErrDeviceReleased, string(op))
	}
	return nil
}

func (f *FakeAllocator) handle() uint64 {
	f.next++
	return f.next
}

func (f *FakeAllocator) DeviceReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deviceReady
}

func (f *FakeAllocator) CreateCubemapImage(desc renderer.ImageDescriptor) (renderer.ImageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpCreateImage, true); err != nil {
		return 0, err
	}
	if desc.Width == 0 || desc.Height == 0 || desc.Layers == 0 {
		return 0, zerr.With(zerr.Wrap(renderer.ErrInvalidDescriptor, "zero image extent"), "label", desc.Label)
	}
	h := renderer.ImageHandle(f.handle())
	f.images[h] = &fakeImage{
		desc:    desc,
		layouts: make([]renderer.ImageLayout, desc.Layers),
	}
	return h, nil
}

func (f *FakeAllocator) DestroyImage(image renderer.ImageHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.enter(OpDestroyImage, false)
	delete(f.images, image)
}

func (f *FakeAllocator) CreateView(desc renderer.ViewDescriptor) (renderer.ViewHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpCreateView, true); err != nil {
		return 0, err
	}
	img, ok := f.images[desc.Image]
	if !ok {
		return 0, zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "view of unknown image"), "image", uint64(desc.Image))
	}
	if desc.Range.BaseArrayLayer+desc.Range.ArrayLayerCount > img.desc.Layers {
		return 0, zerr.With(zerr.Wrap(renderer.ErrInvalidDescriptor, "view layer range exceeds image"), "label", desc.Label)
	}
	h := renderer.ViewHandle(f.handle())
	f.views[h] = desc
	return h, nil
}

func (f *FakeAllocator) DestroyView(view renderer.ViewHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.enter(OpDestroyView, false)
	delete(f.views, view)
}

func (f *FakeAllocator) CreateFramebuffer(desc renderer.FramebufferDescriptor) (renderer.FramebufferHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpCreateFramebuffer, true); err != nil {
		return 0, err
	}
	if desc.RenderPass != ClearPass && desc.RenderPass != LoadPass {
		return 0, zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "unknown render pass"), "pass", uint64(desc.RenderPass))
	}
	if _, ok := f.views[desc.Attachment]; !ok {
		return 0, zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "unknown attachment view"), "view", uint64(desc.Attachment))
	}
	h := renderer.FramebufferHandle(f.handle())
	f.framebuffers[h] = desc
	return h, nil
}

func (f *FakeAllocator) DestroyFramebuffer(fb renderer.FramebufferHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.enter(OpDestroyFramebuffer, false)
	delete(f.framebuffers, fb)
}

func (f *FakeAllocator) CreateSampler(desc renderer.SamplerDescriptor) (renderer.SamplerHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpCreateSampler, true); err != nil {
		return 0, err
	}
	h := renderer.SamplerHandle(f.handle())
	f.samplers[h] = desc
	return h, nil
}

func (f *FakeAllocator) DestroySampler(sampler renderer.SamplerHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.enter(OpDestroySampler, false)
	delete(f.samplers, sampler)
}

func (f *FakeAllocator) RecordLayoutTransition(cmd renderer.CommandContext, barrier renderer.LayoutBarrier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpRecordTransition, true); err != nil {
		return err
	}
	if cmd != nil && cmd != f.openFrame {
		return zerr.Wrap(renderer.ErrNoFrame, "barrier on a foreign command context")
	}
	img, ok := f.images[barrier.Image]
	if !ok {
		return zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "barrier on unknown image"), "image", uint64(barrier.Image))
	}
	r := barrier.Range
	if r.BaseArrayLayer+r.ArrayLayerCount > uint32(len(img.layouts)) {
		return zerr.Wrap(renderer.ErrInvalidDescriptor, "barrier layer range exceeds image")
	}
	for i := r.BaseArrayLayer; i < r.BaseArrayLayer+r.ArrayLayerCount; i++ {
		if barrier.OldLayout != renderer.LayoutUndefined && img.layouts[i] != barrier.OldLayout {
			err := zerr.With(zerr.Wrap(renderer.ErrLayoutMismatch, "barrier old layout"), "expected", barrier.OldLayout.String())
			return zerr.With(err, "actual", img.layouts[i].String())
		}
	}
	for i := r.BaseArrayLayer; i < r.BaseArrayLayer+r.ArrayLayerCount; i++ {
		img.layouts[i] = barrier.NewLayout
	}
	f.Barriers = append(f.Barriers, RecordedBarrier{Cmd: cmd, Barrier: barrier})
	return nil
}

func (f *FakeAllocator) RecordImageCopy(cmd renderer.CommandContext, src, dst renderer.ImageHandle, width, height, layers uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpRecordCopy, true); err != nil {
		return err
	}
	if cmd != nil && cmd != f.openFrame {
		return zerr.Wrap(renderer.ErrNoFrame, "copy on a foreign command context")
	}
	s, ok := f.images[src]
	if !ok {
		return zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "copy from unknown image"), "image", uint64(src))
	}
	d, ok := f.images[dst]
	if !ok {
		return zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "copy into unknown image"), "image", uint64(dst))
	}
	if layers > uint32(len(s.layouts)) || layers > uint32(len(d.layouts)) {
		return zerr.Wrap(renderer.ErrInvalidDescriptor, "copy layer count exceeds image")
	}
	for i := range layers {
		if s.layouts[i] != renderer.LayoutTransferSrcOptimal {
			return zerr.With(zerr.Wrap(renderer.ErrLayoutMismatch, "copy source not in transfer src layout"), "layer", i)
		}
		if d.layouts[i] != renderer.LayoutTransferDstOptimal {
			return zerr.With(zerr.Wrap(renderer.ErrLayoutMismatch, "copy destination not in transfer dst layout"), "layer", i)
		}
	}
	f.Copies = append(f.Copies, RecordedCopy{Cmd: cmd, Src: src, Dst: dst, Width: width, Height: height, Layers: layers})
	return nil
}

func (f *FakeAllocator) RegisterTexture(name string, tex renderer.Texture) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpRegisterTexture, true); err != nil {
		return err
	}
	if _, ok := f.textures[name]; ok {
		return zerr.With(zerr.Wrap(renderer.ErrTextureExists, "register texture"), "name", name)
	}
	f.textures[name] = tex
	return nil
}

func (f *FakeAllocator) LookupTexture(name string) (renderer.Texture, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tex, ok := f.textures[name]
	return tex, ok
}

func (f *FakeAllocator) ReleaseTexture(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.enter(OpReleaseTexture, false)
	tex, ok := f.textures[name]
	if !ok {
		return
	}
	delete(f.textures, name)
	delete(f.samplers, tex.Sampler)
	delete(f.images, tex.Image)
}

func (f *FakeAllocator) ShadowClearRenderPass() renderer.RenderPassHandle {
	return ClearPass
}

func (f *FakeAllocator) ShadowLoadRenderPass() renderer.RenderPassHandle {
	return LoadPass
}

func (f *FakeAllocator) BeginShadowFrame() (renderer.CommandContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.deviceReady {
		return nil, zerr.Wrap(renderer.ErrDeviceReleased, "begin shadow frame")
	}
	f.frames++
	f.openFrame = &frame{id: f.frames}
	return f.openFrame, nil
}

func (f *FakeAllocator) EndShadowFrame(cmd renderer.CommandContext) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openFrame == nil || cmd != f.openFrame {
		return zerr.Wrap(renderer.ErrNoFrame, "end shadow frame")
	}
	f.openFrame = nil
	return nil
}

func (f *FakeAllocator) BeginShadowPass(cmd renderer.CommandContext, fb renderer.FramebufferHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpBeginPass, true); err != nil {
		return err
	}
	if f.openFrame == nil || cmd != f.openFrame {
		return zerr.Wrap(renderer.ErrNoFrame, "begin shadow pass")
	}
	desc, ok := f.framebuffers[fb]
	if !ok {
		return zerr.With(zerr.Wrap(renderer.ErrUnknownHandle, "pass on unknown framebuffer"), "framebuffer", uint64(fb))
	}
	view := f.views[desc.Attachment]
	img, ok := f.images[view.Image]
	if !ok {
		return zerr.Wrap(renderer.ErrUnknownHandle, "framebuffer attachment has no image")
	}
	layer := view.Range.BaseArrayLayer
	if img.layouts[layer] != renderer.LayoutDepthAttachmentOptimal {
		return zerr.With(zerr.Wrap(renderer.ErrLayoutMismatch, "face not in depth attachment layout"), "layout", img.layouts[layer].String())
	}
	f.openPass = true
	f.Passes = append(f.Passes, RecordedPass{
		Cmd:         cmd,
		Framebuffer: fb,
		RenderPass:  desc.RenderPass,
		Image:       view.Image,
		Layer:       layer,
	})
	return nil
}

func (f *FakeAllocator) EndShadowPass(cmd renderer.CommandContext) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.enter(OpEndPass, false)
	f.openPass = false
}

func (f *FakeAllocator) UploadLightBuffer(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpUploadLights, true); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	f.Uploads = append(f.Uploads, slices.Clone(data))
	return nil
}

// PassOpen reports whether BeginShadowPass succeeded without a matching EndShadowPass.
func (f *FakeAllocator) PassOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openPass
}

func (f *FakeAllocator) Stats() renderer.ResourceStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return renderer.ResourceStats{
		Images:       len(f.images),
		Views:        len(f.views),
		Framebuffers: len(f.framebuffers),
		Samplers:     len(f.samplers),
		Textures:     len(f.textures),
	}
}

// Release drops every object and marks the device gone, like the real backend.
func (f *FakeAllocator) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return
	}
	f.released = true
	f.deviceReady = false
	clear(f.images)
	clear(f.views)
	clear(f.framebuffers)
	clear(f.samplers)
	clear(f.textures)
}

// Released reports whether Release has been called.
func (f *FakeAllocator) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}
