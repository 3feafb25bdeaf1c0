package light

import (
	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"go.trai.ch/zerr"
)

// layoutScope is the pipeline stages and memory accesses that touch an image while it sits in a layout.
type layoutScope struct {
	stage  renderer.PipelineStage
	access renderer.Access
}

// srcScopes holds the work a barrier must wait for when leaving each layout.
var srcScopes = map[renderer.ImageLayout]layoutScope{
	renderer.LayoutUndefined: {
		stage: renderer.StageTopOfPipe,
	},
	renderer.LayoutDepthAttachmentOptimal: {
		stage:  renderer.StageLateFragmentTests,
		access: renderer.AccessDepthStencilWrite,
	},
	renderer.LayoutDepthReadOnlyOptimal: {
		stage:  renderer.StageFragmentShader,
		access: renderer.AccessShaderRead,
	},
	renderer.LayoutTransferSrcOptimal: {
		stage:  renderer.StageTransfer,
		access: renderer.AccessTransferRead,
	},
	renderer.LayoutTransferDstOptimal: {
		stage:  renderer.StageTransfer,
		access: renderer.AccessTransferWrite,
	},
}

// dstScopes holds the work a barrier must block when entering each layout.
var dstScopes = map[renderer.ImageLayout]layoutScope{
	renderer.LayoutUndefined: {
		stage: renderer.StageBottomOfPipe,
	},
	renderer.LayoutDepthAttachmentOptimal: {
		stage:  renderer.StageEarlyFragmentTests | renderer.StageLateFragmentTests,
		access: renderer.AccessDepthStencilRead | renderer.AccessDepthStencilWrite,
	},
	renderer.LayoutDepthReadOnlyOptimal: {
		stage:  renderer.StageFragmentShader,
		access: renderer.AccessShaderRead,
	},
	renderer.LayoutTransferSrcOptimal: {
		stage:  renderer.StageTransfer,
		access: renderer.AccessTransferRead,
	},
	renderer.LayoutTransferDstOptimal: {
		stage:  renderer.StageTransfer,
		access: renderer.AccessTransferWrite,
	},
}

// cubeRange covers every face of a single-mip cubemap.
var cubeRange = renderer.SubresourceRange{
	BaseMipLevel:    0,
	MipLevelCount:   1,
	BaseArrayLayer:  0,
	ArrayLayerCount: common.CubeFaceCount,
}

// barrierFor builds the barrier moving image from oldLayout to newLayout.
// The source scope comes from oldLayout and the destination scope from newLayout.
//
// Parameters:
//   - image: the image being transitioned
//   - oldLayout: the layout the image is in
//   - newLayout: the requested layout
//
// Returns:
//   - renderer.LayoutBarrier: the barrier covering all six faces
//   - bool: false if the layouts are equal and no barrier is needed
//   - error: ErrInvalidLayout if either layout is not one of the tracked states
func barrierFor(image renderer.ImageHandle, oldLayout, newLayout renderer.ImageLayout) (renderer.LayoutBarrier, bool, error) {
	src, ok := srcScopes[oldLayout]
	if !ok {
		return renderer.LayoutBarrier{}, false, zerr.With(zerr.Wrap(ErrInvalidLayout, "unknown source layout"), "layout", oldLayout)
	}
	dst, ok := dstScopes[newLayout]
	if !ok {
		return renderer.LayoutBarrier{}, false, zerr.With(zerr.Wrap(ErrInvalidLayout, "unknown destination layout"), "layout", newLayout)
	}
	if oldLayout == newLayout {
		return renderer.LayoutBarrier{}, false, nil
	}

	return renderer.LayoutBarrier{
		Image:     image,
		OldLayout: oldLayout,
		NewLayout: newLayout,
		SrcStage:  src.stage,
		SrcAccess: src.access,
		DstStage:  dst.stage,
		DstAccess: dst.access,
		Range:     cubeRange,
	}, true, nil
}
