package renderer

import "fmt"

// ImageHandle identifies a GPU image owned by an Allocator. The zero value is the null handle.
type ImageHandle uint64

// ViewHandle identifies an image view owned by an Allocator. The zero value is the null handle.
type ViewHandle uint64

// FramebufferHandle identifies a framebuffer owned by an Allocator. The zero value is the null handle.
type FramebufferHandle uint64

// SamplerHandle identifies a sampler owned by an Allocator. The zero value is the null handle.
type SamplerHandle uint64

// RenderPassHandle identifies a render pass exposed by a PipelineProvider. The zero value is the null handle.
type RenderPassHandle uint64

func (h ImageHandle) IsNull() bool       { return h == 0 }
func (h ViewHandle) IsNull() bool        { return h == 0 }
func (h FramebufferHandle) IsNull() bool { return h == 0 }
func (h SamplerHandle) IsNull() bool     { return h == 0 }
func (h RenderPassHandle) IsNull() bool  { return h == 0 }

// CommandContext is an opaque command-recording context handed out by the backend for a frame.
// A nil CommandContext asks the Allocator to record and submit the work on its own one-shot context.
type CommandContext any

// TextureFormat is the texel format of an image or view.
type TextureFormat int

const (
	// FormatDepth32Float is a 32-bit floating point depth format. Used for every shadow target.
	FormatDepth32Float TextureFormat = iota + 1

	// FormatDepth24Plus is a depth format of at least 24 bits.
	FormatDepth24Plus
)

func (f TextureFormat) String() string {
	switch f {
	case FormatDepth32Float:
		return "Depth32Float"
	case FormatDepth24Plus:
		return "Depth24Plus"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

// ImageUsage is a bit set describing how an image may be used.
type ImageUsage uint32

const (
	// UsageDepthAttachment allows the image to be bound as a depth attachment.
	UsageDepthAttachment ImageUsage = 1 << iota
	// UsageSampled allows the image to be sampled from shaders.
	UsageSampled
	// UsageTransferSrc allows the image to be the source of a copy.
	UsageTransferSrc
	// UsageTransferDst allows the image to be the destination of a copy.
	UsageTransferDst
)

// Has reports whether every bit of flag is set.
func (u ImageUsage) Has(flag ImageUsage) bool { return u&flag == flag }

// ViewType is the dimensionality of an image view.
type ViewType int

const (
	// ViewType2D is a single-layer view, used for rendering into one cube face.
	ViewType2D ViewType = iota
	// ViewTypeCube is a six-layer cube view, used for sampling.
	ViewTypeCube
)

// ImageLayout is the access mode a GPU image is currently in.
// Every image starts in LayoutUndefined and must be transitioned before each differing use.
type ImageLayout int

const (
	LayoutUndefined ImageLayout = iota
	LayoutDepthAttachmentOptimal
	LayoutDepthReadOnlyOptimal
	LayoutTransferSrcOptimal
	LayoutTransferDstOptimal
)

// ImageLayouts lists every ImageLayout in declaration order.
var ImageLayouts = [...]ImageLayout{
	LayoutUndefined,
	LayoutDepthAttachmentOptimal,
	LayoutDepthReadOnlyOptimal,
	LayoutTransferSrcOptimal,
	LayoutTransferDstOptimal,
}

func (l ImageLayout) String() string {
	switch l {
	case LayoutUndefined:
		return "Undefined"
	case LayoutDepthAttachmentOptimal:
		return "DepthAttachmentOptimal"
	case LayoutDepthReadOnlyOptimal:
		return "DepthReadOnlyOptimal"
	case LayoutTransferSrcOptimal:
		return "TransferSrcOptimal"
	case LayoutTransferDstOptimal:
		return "TransferDstOptimal"
	default:
		return fmt.Sprintf("ImageLayout(%d)", int(l))
	}
}

// PipelineStage is a bit set of pipeline stages a barrier waits on or blocks.
type PipelineStage uint32

const (
	StageTopOfPipe PipelineStage = 1 << iota
	StageEarlyFragmentTests
	StageLateFragmentTests
	StageFragmentShader
	StageTransfer
	StageBottomOfPipe
)

// Access is a bit set of memory accesses a barrier makes available or visible.
type Access uint32

const (
	AccessDepthStencilRead Access = 1 << iota
	AccessDepthStencilWrite
	AccessShaderRead
	AccessTransferRead
	AccessTransferWrite
)

// SubresourceRange selects the mip levels and array layers a barrier or view covers.
type SubresourceRange struct {
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// LayoutBarrier describes a single image layout transition together with its
// source and destination synchronization scopes.
type LayoutBarrier struct {
	Image     ImageHandle
	OldLayout ImageLayout
	NewLayout ImageLayout
	SrcStage  PipelineStage
	SrcAccess Access
	DstStage  PipelineStage
	DstAccess Access
	Range     SubresourceRange
}

// ImageDescriptor describes a cubemap image to allocate.
type ImageDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	// Layers is the number of array layers; six for a cubemap.
	Layers uint32
	Format TextureFormat
	Usage  ImageUsage
}

// ViewDescriptor describes a view over a subset of an image's layers.
type ViewDescriptor struct {
	Label  string
	Image  ImageHandle
	Format TextureFormat
	Type   ViewType
	Range  SubresourceRange
}

// FramebufferDescriptor binds a single depth attachment view to a render pass.
type FramebufferDescriptor struct {
	Label      string
	RenderPass RenderPassHandle
	Attachment ViewHandle
	Width      uint32
	Height     uint32
}

// SamplerDescriptor describes a clamp-to-edge sampler, optionally performing depth comparison.
type SamplerDescriptor struct {
	Label         string
	LinearFilter  bool
	CompareDepth  bool
	MaxAnisotropy uint16
}

// Texture is a named, sampleable image registered with an Allocator.
type Texture struct {
	Image   ImageHandle
	View    ViewHandle
	Sampler SamplerHandle
	Format  TextureFormat
	Width   uint32
	Height  uint32
}
