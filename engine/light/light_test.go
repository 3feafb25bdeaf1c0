package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight("bulb", 12)

	assert.Equal(t, "bulb", l.Name())
	assert.Equal(t, entity.KindLight, l.Kind())
	assert.Equal(t, float32(12), l.Radius())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.True(t, l.CastsShadows())
	assert.Equal(t, DefaultShadowBias, l.ShadowBias())
	assert.Equal(t, DefaultShadowNear, l.ShadowNear())
	assert.Equal(t, float32(12), l.ShadowFar())
	assert.Equal(t, DefaultShadowStrength, l.ShadowStrength())
	assert.False(t, l.Movable())
	assert.Equal(t, DefaultShadowMapResolution, l.Shadows().Resolution())
}

func TestNewLightOptions(t *testing.T) {
	fake := renderertest.NewFakeAllocator()
	child := entity.NewEntity("glow")
	l := NewLight("torch", 5,
		WithPosition(1, 2, 3),
		WithMovable(true),
		WithColor(1, 0.5, 0),
		WithIntensity(3),
		WithCastsShadows(false),
		WithShadowBias(0.01),
		WithShadowNearFar(0.5, 20),
		WithShadowStrength(2),
		WithShadowMapSlot(4),
		WithShadowMapResolution(256),
		WithResources(fake, fake),
		WithEntityOptions(entity.WithChildren(child)),
	)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	assert.True(t, l.Movable())
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0}, l.Color())
	assert.Equal(t, float32(3), l.Intensity())
	assert.False(t, l.CastsShadows())
	assert.Equal(t, float32(0.01), l.ShadowBias())
	assert.Equal(t, float32(0.5), l.ShadowNear())
	assert.Equal(t, float32(20), l.ShadowFar())
	assert.Equal(t, float32(1), l.ShadowStrength())
	assert.Equal(t, uint32(4), l.ShadowMapSlot())
	assert.Equal(t, uint32(256), l.Shadows().Resolution())

	require.Len(t, l.Children(), 1)
	assert.Same(t, l, child.Parent())

	target, err := l.EnsureStaticTarget()
	require.NoError(t, err)
	assert.Equal(t, uint32(256), target.Width)
}

func TestShadowFarNeverBelowRadius(t *testing.T) {
	l := NewLight("lamp", 10, WithShadowNearFar(0.1, 3))
	assert.Equal(t, float32(10), l.ShadowFar())

	l.SetShadowNearFar(0.2, 4)
	assert.Equal(t, float32(10), l.ShadowFar())

	l.SetRadius(15)
	assert.Equal(t, float32(15), l.ShadowFar())

	l.SetRadius(5)
	assert.Equal(t, float32(15), l.ShadowFar())
}

func project(m mgl32.Mat4, p mgl32.Vec3) (mgl32.Vec3, float32) {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W()), clip.W()
}

func TestFaceViewProjectionsLookDownEachAxis(t *testing.T) {
	eye := mgl32.Vec3{2, -1, 4}
	l := NewLight("probe", 20, WithPosition(eye.X(), eye.Y(), eye.Z()))
	faces := l.FaceViewProjections()

	for _, face := range common.CubeFaces {
		t.Run(face.String(), func(t *testing.T) {
			vp := faces[face]

			ndc, w := project(vp, eye.Add(face.Direction().Mul(5)))
			assert.Greater(t, w, float32(0))
			assert.InDelta(t, 0, ndc.X(), 1e-4)
			assert.InDelta(t, 0, ndc.Y(), 1e-4)
			assert.True(t, ndc.Z() > -1 && ndc.Z() < 1)

			up, _ := project(vp, eye.Add(face.Direction().Mul(5)).Add(face.Up()))
			assert.Greater(t, up.Y(), float32(0))

			_, behind := project(vp, eye.Sub(face.Direction().Mul(5)))
			assert.Less(t, behind, float32(0))
		})
	}
}

func TestFaceViewProjectionsFollowParent(t *testing.T) {
	parent := entity.NewEntity("rig", entity.WithPosition(10, 0, 0))
	l := NewLight("spot", 8, WithPosition(0, 1, 0))
	parent.AddChild(l)
	l.Update(0)

	packed := l.Pack()
	assert.Equal(t, mgl32.Vec4{10, 1, 0, 8}, packed.PositionRadius)

	parent.SetPosition(mgl32.Vec3{0, 0, 0})
	l.Update(0)
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 8}, l.Pack().PositionRadius)
}

func TestSetPositionRefreshesMatrices(t *testing.T) {
	l := NewLight("walker", 8)
	before := l.FaceViewProjections()

	l.SetPosition(mgl32.Vec3{0, 3, 0})
	after := l.FaceViewProjections()

	assert.NotEqual(t, before, after)
	assert.Equal(t, faceViewProjections(mgl32.Vec3{0, 3, 0}, l.ShadowNear(), l.ShadowFar()), after)
}

func TestPack(t *testing.T) {
	l := NewLight("sun", 30,
		WithPosition(1, 2, 3),
		WithColor(0.2, 0.4, 0.6),
		WithIntensity(5),
		WithShadowMapSlot(7),
		WithShadowNearFar(0.25, 40),
		WithShadowBias(0.002),
		WithShadowStrength(0.75),
	)

	g := l.Pack()
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 30}, g.PositionRadius)
	assert.Equal(t, mgl32.Vec4{0.2, 0.4, 0.6, 5}, g.ColorIntensity)
	assert.Equal(t, mgl32.Vec4{0.002, 0.25, 40, 0.75}, g.Params)
	assert.Equal(t, [4]uint32{7, 1, 0, 0}, g.Indices)
	assert.Equal(t, l.FaceViewProjections(), g.FaceViewProjections)

	l.SetCastsShadows(false)
	assert.Equal(t, uint32(0), l.Pack().Indices[1])
}

func TestUpdateCallbackReceivesLight(t *testing.T) {
	var got entity.Entity
	l := NewLight("flicker", 4, WithUpdateFunc(func(e entity.Entity, dt float32) {
		got = e
		e.SetPosition(mgl32.Vec3{0, dt, 0})
	}))

	l.Update(2)
	assert.Same(t, l, got)
	assert.Equal(t, mgl32.Vec4{0, 2, 0, 4}, l.Pack().PositionRadius)
}

func TestDestroyReleasesShadowsAndUnlinks(t *testing.T) {
	fake := renderertest.NewFakeAllocator()
	parent := entity.NewEntity("rig")
	l := NewLight("torch", 6, WithResources(fake, fake))
	parent.AddChild(l)

	_, err := l.EnsureStaticTarget()
	require.NoError(t, err)
	_, err = l.EnsureDynamicTarget()
	require.NoError(t, err)
	_, err = l.FaceFramebuffer(ShadowTargetDynamic, 0)
	require.NoError(t, err)

	l.Destroy()
	l.Destroy()

	assert.True(t, fake.Balanced())
	assert.True(t, l.Destroyed())
	assert.True(t, l.Shadows().Destroyed())
	assert.Nil(t, l.Parent())
	assert.Empty(t, parent.Children())

	_, err = l.EnsureStaticTarget()
	require.ErrorIs(t, err, ErrLightDestroyed)
}

func TestTransitionLayoutDelegates(t *testing.T) {
	fake := renderertest.NewFakeAllocator()
	l := NewLight("torch", 6)
	l.SetResources(fake, fake)

	_, err := l.EnsureStaticTarget()
	require.NoError(t, err)
	require.NoError(t, l.TransitionLayout(nil, ShadowTargetStatic, renderer.LayoutDepthReadOnlyOptimal))
	assert.Equal(t, renderer.LayoutDepthReadOnlyOptimal, l.Shadows().Layout(ShadowTargetStatic))
}
