package renderertest

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubeDesc() renderer.ImageDescriptor {
	return renderer.ImageDescriptor{
		Label:  "cube",
		Width:  64,
		Height: 64,
		Layers: 6,
		Format: renderer.FormatDepth32Float,
		Usage:  renderer.UsageDepthAttachment | renderer.UsageSampled,
	}
}

func allLayers() renderer.SubresourceRange {
	return renderer.SubresourceRange{MipLevelCount: 1, ArrayLayerCount: 6}
}

func TestFakeCreateDestroyBalanced(t *testing.T) {
	f := NewFakeAllocator()

	img, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)
	view, err := f.CreateView(renderer.ViewDescriptor{Image: img, Type: renderer.ViewTypeCube, Range: allLayers()})
	require.NoError(t, err)
	fb, err := f.CreateFramebuffer(renderer.FramebufferDescriptor{RenderPass: ClearPass, Attachment: view, Width: 64, Height: 64})
	require.NoError(t, err)
	assert.False(t, f.Balanced())

	f.DestroyFramebuffer(fb)
	f.DestroyView(view)
	f.DestroyImage(img)
	assert.True(t, f.Balanced())
	assert.Equal(t, []Op{OpCreateImage, OpCreateView, OpCreateFramebuffer, OpDestroyFramebuffer, OpDestroyView, OpDestroyImage}, f.Log())
}

func TestFakeFailOnFiresOnce(t *testing.T) {
	f := NewFakeAllocator()
	img, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)

	f.FailOn(OpCreateView, 2)
	_, err = f.CreateView(renderer.ViewDescriptor{Image: img, Range: allLayers()})
	require.NoError(t, err)
	_, err = f.CreateView(renderer.ViewDescriptor{Image: img, Range: allLayers()})
	require.ErrorIs(t, err, ErrInjected)
	_, err = f.CreateView(renderer.ViewDescriptor{Image: img, Range: allLayers()})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Calls(OpCreateView))
}

func TestFakeDeviceGone(t *testing.T) {
	f := NewFakeAllocator()
	f.SetDeviceReady(false)

	_, err := f.CreateCubemapImage(cubeDesc())
	require.ErrorIs(t, err, renderer.ErrDeviceReleased)
	assert.False(t, f.DeviceReady())
}

func TestFakeLayoutTracking(t *testing.T) {
	f := NewFakeAllocator()
	img, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)

	err = f.RecordLayoutTransition(nil, renderer.LayoutBarrier{
		Image:     img,
		OldLayout: renderer.LayoutUndefined,
		NewLayout: renderer.LayoutDepthAttachmentOptimal,
		Range:     allLayers(),
	})
	require.NoError(t, err)
	for _, l := range f.LayerLayouts(img) {
		assert.Equal(t, renderer.LayoutDepthAttachmentOptimal, l)
	}

	err = f.RecordLayoutTransition(nil, renderer.LayoutBarrier{
		Image:     img,
		OldLayout: renderer.LayoutTransferSrcOptimal,
		NewLayout: renderer.LayoutDepthReadOnlyOptimal,
		Range:     allLayers(),
	})
	require.ErrorIs(t, err, renderer.ErrLayoutMismatch)
	assert.Len(t, f.Barriers, 1)
}

func TestFakeCopyRequiresTransferLayouts(t *testing.T) {
	f := NewFakeAllocator()
	src, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)
	dst, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)

	err = f.RecordImageCopy(nil, src, dst, 64, 64, 6)
	require.ErrorIs(t, err, renderer.ErrLayoutMismatch)

	for img, layout := range map[renderer.ImageHandle]renderer.ImageLayout{
		src: renderer.LayoutTransferSrcOptimal,
		dst: renderer.LayoutTransferDstOptimal,
	} {
		require.NoError(t, f.RecordLayoutTransition(nil, renderer.LayoutBarrier{
			Image:     img,
			NewLayout: layout,
			Range:     allLayers(),
		}))
	}
	require.NoError(t, f.RecordImageCopy(nil, src, dst, 64, 64, 6))
	require.Len(t, f.Copies, 1)
	assert.Equal(t, uint32(6), f.Copies[0].Layers)
}

func TestFakeReleaseTextureFreesImageAndSampler(t *testing.T) {
	f := NewFakeAllocator()
	img, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)
	view, err := f.CreateView(renderer.ViewDescriptor{Image: img, Type: renderer.ViewTypeCube, Range: allLayers()})
	require.NoError(t, err)
	sampler, err := f.CreateSampler(renderer.SamplerDescriptor{})
	require.NoError(t, err)

	tex := renderer.Texture{Image: img, View: view, Sampler: sampler}
	require.NoError(t, f.RegisterTexture("cube", tex))
	require.ErrorIs(t, f.RegisterTexture("cube", tex), renderer.ErrTextureExists)

	got, ok := f.LookupTexture("cube")
	require.True(t, ok)
	assert.Equal(t, tex, got)

	f.ReleaseTexture("cube")
	f.ReleaseTexture("cube")
	assert.Equal(t, renderer.ResourceStats{Views: 1}, f.Stats())
}

func TestFakeShadowPassNeedsFrameAndAttachmentLayout(t *testing.T) {
	f := NewFakeAllocator()
	img, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)
	face, err := f.CreateView(renderer.ViewDescriptor{
		Image: img,
		Type:  renderer.ViewType2D,
		Range: renderer.SubresourceRange{MipLevelCount: 1, BaseArrayLayer: 3, ArrayLayerCount: 1},
	})
	require.NoError(t, err)
	fb, err := f.CreateFramebuffer(renderer.FramebufferDescriptor{RenderPass: LoadPass, Attachment: face, Width: 64, Height: 64})
	require.NoError(t, err)

	require.ErrorIs(t, f.BeginShadowPass(nil, fb), renderer.ErrNoFrame)

	cmd, err := f.BeginShadowFrame()
	require.NoError(t, err)
	require.ErrorIs(t, f.BeginShadowPass(cmd, fb), renderer.ErrLayoutMismatch)

	require.NoError(t, f.RecordLayoutTransition(cmd, renderer.LayoutBarrier{
		Image:     img,
		NewLayout: renderer.LayoutDepthAttachmentOptimal,
		Range:     allLayers(),
	}))
	require.NoError(t, f.BeginShadowPass(cmd, fb))
	assert.True(t, f.PassOpen())
	f.EndShadowPass(cmd)
	assert.False(t, f.PassOpen())
	require.NoError(t, f.EndShadowFrame(cmd))

	require.Len(t, f.Passes, 1)
	assert.Equal(t, LoadPass, f.Passes[0].RenderPass)
	assert.Equal(t, uint32(3), f.Passes[0].Layer)
}

func TestFakeReleaseIsIdempotent(t *testing.T) {
	f := NewFakeAllocator()
	_, err := f.CreateCubemapImage(cubeDesc())
	require.NoError(t, err)

	f.Release()
	f.Release()
	assert.True(t, f.Released())
	assert.False(t, f.DeviceReady())
	assert.True(t, f.Balanced())
}

func TestFakeUploadLightBuffer(t *testing.T) {
	f := NewFakeAllocator()
	data := []byte{1, 2, 3, 4}

	require.NoError(t, f.UploadLightBuffer(data))
	require.NoError(t, f.UploadLightBuffer(nil))
	data[0] = 9
	require.Len(t, f.Uploads, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, f.Uploads[0])
	assert.Equal(t, 2, f.Calls(OpUploadLights))

	f.SetDeviceReady(false)
	require.ErrorIs(t, f.UploadLightBuffer(data), renderer.ErrDeviceReleased)
	f.ResetLog()
	assert.Empty(t, f.Uploads)
}
