package light

import (
	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	*entity.Node

	radius       float32
	color        mgl32.Vec3
	intensity    float32
	castsShadows bool

	shadowBias     float32
	shadowNear     float32
	shadowFar      float32
	shadowStrength float32
	shadowSlot     uint32

	// derived from the world transform by refresh
	worldPos mgl32.Vec3
	faceVP   [common.CubeFaceCount]mgl32.Mat4

	shadows *ShadowCache

	// construction-time settings consumed by NewLight
	pending lightPending
}

type lightPending struct {
	nodeOpts   []entity.EntityBuilderOption
	resolution uint32
	alloc      renderer.Allocator
	passes     renderer.PipelineProvider
}

// Light is a point light entity that owns a cubemap shadow cache.
//
// Lights are inserted into the registry like any entity; the registry additionally indexes them
// and marks them dirty so their shadow maps are rendered on the next frame. The six face
// view-projection matrices are recomputed whenever the light's transform or shadow planes change
// and on every Update.
type Light interface {
	entity.Entity

	// Radius returns the distance beyond which the light contributes nothing.
	Radius() float32

	// Color returns the RGB color of the light.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// CastsShadows returns whether the light renders shadow maps.
	CastsShadows() bool

	ShadowBias() float32
	ShadowNear() float32
	ShadowFar() float32
	ShadowStrength() float32

	// ShadowMapSlot returns the index of the light's shadow map in the renderer's shadow array.
	ShadowMapSlot() uint32

	// SetRadius sets the light radius. The far plane is raised to the radius when it falls below it.
	//
	// Parameters:
	//   - radius: the new radius
	SetRadius(radius float32)

	SetColor(r, g, b float32)
	SetIntensity(intensity float32)
	SetCastsShadows(castsShadows bool)
	SetShadowBias(bias float32)
	SetShadowStrength(strength float32)
	SetShadowMapSlot(slot uint32)

	// SetShadowNearFar sets the near and far planes of the face projections. The far plane is
	// raised to the radius when it falls below it.
	//
	// Parameters:
	//   - near: the near plane distance
	//   - far: the far plane distance
	SetShadowNearFar(near, far float32)

	// FaceViewProjections returns the view-projection matrix of each cube face in order [+X,-X,+Y,-Y,+Z,-Z].
	//
	// Returns:
	//   - [6]mgl32.Mat4: one matrix per face
	FaceViewProjections() [common.CubeFaceCount]mgl32.Mat4

	// Shadows returns the light's shadow cache.
	Shadows() *ShadowCache

	// SetResources attaches the allocator and pipeline provider shadow targets are created with.
	//
	// Parameters:
	//   - alloc: the resource allocator
	//   - passes: the provider of the clear and load shadow passes
	SetResources(alloc renderer.Allocator, passes renderer.PipelineProvider)

	// EnsureStaticTarget returns the static shadow target, creating it on first use.
	//
	// Returns:
	//   - ShadowTarget: the cached or newly created target
	//   - error: a contract violation or an allocator failure, after full rollback
	EnsureStaticTarget() (ShadowTarget, error)

	// EnsureDynamicTarget returns the dynamic shadow target, creating it on first use.
	//
	// Returns:
	//   - ShadowTarget: the cached or newly created target
	//   - error: a contract violation or an allocator failure, after full rollback
	EnsureDynamicTarget() (ShadowTarget, error)

	// FaceFramebuffer returns the framebuffer for one face of a target.
	//
	// Parameters:
	//   - kind: the target
	//   - face: the cube face index in [0,6)
	//
	// Returns:
	//   - renderer.FramebufferHandle: the framebuffer
	//   - error: ErrFaceOutOfRange for a bad index, or any creation error
	FaceFramebuffer(kind ShadowTargetKind, face int) (renderer.FramebufferHandle, error)

	// TransitionLayout moves a target to a new layout, recording at most one barrier.
	//
	// Parameters:
	//   - cmd: the command context, or nil for an immediate transition
	//   - kind: the target
	//   - layout: the requested layout
	//
	// Returns:
	//   - error: an error if the target does not exist or the barrier could not be recorded
	TransitionLayout(cmd renderer.CommandContext, kind ShadowTargetKind, layout renderer.ImageLayout) error

	// SeedDynamicTarget copies the static target into the dynamic target. Both must exist.
	//
	// Parameters:
	//   - cmd: the command context, or nil for an immediate copy
	//
	// Returns:
	//   - error: an error if a target is missing or the copy could not be recorded
	SeedDynamicTarget(cmd renderer.CommandContext) error

	// Pack returns the light's GPU record. It only reads the light's current state.
	//
	// Returns:
	//   - GPUPointLight: the packed record
	Pack() GPUPointLight
}

var _ Light = &lightImpl{}

// NewLight creates a point light with sensible defaults and any provided options applied.
// The shadow far plane defaults to the radius and is never below it.
//
// Parameters:
//   - name: the light's unique name; shadow targets derive their names from it
//   - radius: the light radius
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(name string, radius float32, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		radius:         radius,
		color:          mgl32.Vec3{1, 1, 1},
		intensity:      1.0,
		castsShadows:   true,
		shadowBias:     DefaultShadowBias,
		shadowNear:     DefaultShadowNear,
		shadowFar:      radius,
		shadowStrength: DefaultShadowStrength,
	}
	for _, opt := range opts {
		opt(l)
	}

	p := l.pending
	l.pending = lightPending{}
	l.Node = entity.NewNode(name, entity.KindLight, l, p.nodeOpts...)
	l.shadows = NewShadowCache(name, p.resolution, p.alloc, p.passes)
	l.shadowFar = max(l.shadowFar, l.radius)
	l.refresh()
	return l
}

func (l *lightImpl) Radius() float32 {
	return l.radius
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) ShadowBias() float32 {
	return l.shadowBias
}

func (l *lightImpl) ShadowNear() float32 {
	return l.shadowNear
}

func (l *lightImpl) ShadowFar() float32 {
	return l.shadowFar
}

func (l *lightImpl) ShadowStrength() float32 {
	return l.shadowStrength
}

func (l *lightImpl) ShadowMapSlot() uint32 {
	return l.shadowSlot
}

func (l *lightImpl) SetRadius(radius float32) {
	l.radius = radius
	if l.shadowFar < radius {
		l.shadowFar = radius
		l.refresh()
	}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

func (l *lightImpl) SetShadowBias(bias float32) {
	l.shadowBias = bias
}

func (l *lightImpl) SetShadowStrength(strength float32) {
	l.shadowStrength = mgl32.Clamp(strength, 0, 1)
}

func (l *lightImpl) SetShadowMapSlot(slot uint32) {
	l.shadowSlot = slot
}

func (l *lightImpl) SetShadowNearFar(near, far float32) {
	l.shadowNear = near
	l.shadowFar = max(far, l.radius)
	l.refresh()
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.Node.SetPosition(p)
	l.refresh()
}

func (l *lightImpl) SetRotation(q mgl32.Quat) {
	l.Node.SetRotation(q)
	l.refresh()
}

func (l *lightImpl) SetScale(s mgl32.Vec3) {
	l.Node.SetScale(s)
	l.refresh()
}

// Update runs the update callback, then recomputes the face matrices so parent motion is picked up.
func (l *lightImpl) Update(dt float32) {
	l.Node.Update(dt)
	l.refresh()
}

// Destroy releases the shadow cache before unlinking the light from the hierarchy.
func (l *lightImpl) Destroy() {
	l.shadows.Destroy()
	l.Node.Destroy()
}

func (l *lightImpl) FaceViewProjections() [common.CubeFaceCount]mgl32.Mat4 {
	return l.faceVP
}

func (l *lightImpl) Shadows() *ShadowCache {
	return l.shadows
}

func (l *lightImpl) SetResources(alloc renderer.Allocator, passes renderer.PipelineProvider) {
	l.shadows.SetResources(alloc, passes)
}

func (l *lightImpl) EnsureStaticTarget() (ShadowTarget, error) {
	return l.shadows.Ensure(ShadowTargetStatic)
}

func (l *lightImpl) EnsureDynamicTarget() (ShadowTarget, error) {
	return l.shadows.Ensure(ShadowTargetDynamic)
}

func (l *lightImpl) FaceFramebuffer(kind ShadowTargetKind, face int) (renderer.FramebufferHandle, error) {
	return l.shadows.FaceFramebuffer(kind, face)
}

func (l *lightImpl) TransitionLayout(cmd renderer.CommandContext, kind ShadowTargetKind, layout renderer.ImageLayout) error {
	return l.shadows.Transition(cmd, kind, layout)
}

func (l *lightImpl) SeedDynamicTarget(cmd renderer.CommandContext) error {
	return l.shadows.SeedDynamic(cmd)
}

func (l *lightImpl) Pack() GPUPointLight {
	var casts uint32
	if l.castsShadows {
		casts = 1
	}
	return GPUPointLight{
		PositionRadius:      l.worldPos.Vec4(l.radius),
		ColorIntensity:      l.color.Vec4(l.intensity),
		FaceViewProjections: l.faceVP,
		Params:              mgl32.Vec4{l.shadowBias, l.shadowNear, l.shadowFar, l.shadowStrength},
		Indices:             [4]uint32{l.shadowSlot, casts, 0, 0},
	}
}

// refresh recomputes the world position and the six face view-projection matrices.
func (l *lightImpl) refresh() {
	if l.Node == nil {
		return
	}
	l.worldPos = l.WorldPosition()
	l.faceVP = faceViewProjections(l.worldPos, l.shadowNear, l.shadowFar)
}

// faceViewProjections builds a 90° perspective view-projection looking down each cube face from eye.
//
// Parameters:
//   - eye: the world-space light position
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - [6]mgl32.Mat4: one matrix per face in order [+X,-X,+Y,-Y,+Z,-Z]
func faceViewProjections(eye mgl32.Vec3, near, far float32) [common.CubeFaceCount]mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(shadowFaceFovDeg), 1, near, far)
	var out [common.CubeFaceCount]mgl32.Mat4
	for _, face := range common.CubeFaces {
		view := mgl32.LookAtV(eye, eye.Add(face.Direction()), face.Up())
		out[face] = proj.Mul4(view)
	}
	return out
}
