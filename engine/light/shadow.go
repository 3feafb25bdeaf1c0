package light

import "github.com/Carmen-Shannon/oxy-shadows/engine/renderer"

// DefaultShadowMapResolution is the default width and height in texels of each cube face.
const DefaultShadowMapResolution uint32 = 1024

// DefaultShadowNear is the default near plane of the cube face projections.
const DefaultShadowNear float32 = 0.1

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.005

// DefaultShadowStrength is the default darkness of a fully shadowed fragment, in [0,1].
const DefaultShadowStrength float32 = 1.0

// shadowFaceFovDeg is the field of view of each cube face; four 90° faces tile a full turn.
const shadowFaceFovDeg float32 = 90.0

// shadowMapFormat is the depth format of every cubemap shadow target.
const shadowMapFormat = renderer.FormatDepth32Float

const (
	staticTargetSuffix  = "_shadow_cubemap"
	dynamicTargetSuffix = "_shadow_cubemap_dynamic"
)

// StaticTargetName returns the texture name the static shadow target of the named light is registered under.
func StaticTargetName(lightName string) string {
	return lightName + staticTargetSuffix
}

// DynamicTargetName returns the texture name the dynamic shadow target of the named light is registered under.
func DynamicTargetName(lightName string) string {
	return lightName + dynamicTargetSuffix
}
