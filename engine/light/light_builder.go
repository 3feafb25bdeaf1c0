package light

import (
	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the position of the light relative to its parent.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return WithEntityOptions(entity.WithPosition(x, y, z))
}

// WithMovable is an option builder that marks the light as movable. Movable lights stay dirty
// and have their dynamic shadow target re-rendered every frame.
//
// Parameters:
//   - movable: true if the light or its parent may move between frames
//
// Returns:
//   - LightBuilderOption: a function that applies the mobility option to a lightImpl
func WithMovable(movable bool) LightBuilderOption {
	return WithEntityOptions(entity.WithMovable(movable))
}

// WithUpdateFunc is an option builder that sets the per-frame update callback of the light.
//
// Parameters:
//   - fn: the callback, receiving the light as its entity
//
// Returns:
//   - LightBuilderOption: a function that applies the update option to a lightImpl
func WithUpdateFunc(fn entity.UpdateFunc) LightBuilderOption {
	return WithEntityOptions(entity.WithUpdateFunc(fn))
}

// WithEntityOptions forwards entity options to the light's underlying node.
//
// Parameters:
//   - opts: entity builder options such as entity.WithRotation or entity.WithChildren
//
// Returns:
//   - LightBuilderOption: a function that applies the entity options to a lightImpl
func WithEntityOptions(opts ...entity.EntityBuilderOption) LightBuilderOption {
	return func(l *lightImpl) {
		l.pending.nodeOpts = append(l.pending.nodeOpts, opts...)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithCastsShadows is an option builder that sets whether the light renders shadow maps.
// Lights cast shadows by default.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithShadowBias is an option builder that sets the constant depth bias of shadow comparisons.
//
// Parameters:
//   - bias: the depth bias
//
// Returns:
//   - LightBuilderOption: a function that applies the bias option to a lightImpl
func WithShadowBias(bias float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowBias = bias
	}
}

// WithShadowNearFar is an option builder that sets the near and far planes of the face projections.
// A far plane below the radius is raised to the radius.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - LightBuilderOption: a function that applies the plane option to a lightImpl
func WithShadowNearFar(near, far float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowNear = near
		l.shadowFar = far
	}
}

// WithShadowStrength is an option builder that sets the darkness of fully shadowed fragments, clamped to [0,1].
//
// Parameters:
//   - strength: the shadow strength
//
// Returns:
//   - LightBuilderOption: a function that applies the strength option to a lightImpl
func WithShadowStrength(strength float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowStrength = mgl32.Clamp(strength, 0, 1)
	}
}

// WithShadowMapSlot is an option builder that sets the light's index in the renderer's shadow map array.
//
// Parameters:
//   - slot: the shadow map slot
//
// Returns:
//   - LightBuilderOption: a function that applies the slot option to a lightImpl
func WithShadowMapSlot(slot uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowSlot = slot
	}
}

// WithShadowMapResolution is an option builder that sets the width and height of each cube face in texels.
//
// Parameters:
//   - resolution: texels per face edge, 0 for DefaultShadowMapResolution
//
// Returns:
//   - LightBuilderOption: a function that applies the resolution option to a lightImpl
func WithShadowMapResolution(resolution uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.pending.resolution = resolution
	}
}

// WithResources is an option builder that attaches the allocator and pipeline provider the light's
// shadow targets are created with.
//
// Parameters:
//   - alloc: the resource allocator
//   - passes: the provider of the clear and load shadow passes
//
// Returns:
//   - LightBuilderOption: a function that applies the resources option to a lightImpl
func WithResources(alloc renderer.Allocator, passes renderer.PipelineProvider) LightBuilderOption {
	return func(l *lightImpl) {
		l.pending.alloc = alloc
		l.pending.passes = passes
	}
}
