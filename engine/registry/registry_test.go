package registry

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/light"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names[T entity.Entity](items []T) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.Name())
	}
	return out
}

// assertIndicesConsistent checks every derived index against a filter of the stored entities.
func assertIndicesConsistent(t *testing.T, r *Registry) {
	t.Helper()
	var roots, movables, lights []string
	for _, e := range r.Entities() {
		if e.Parent() == nil {
			roots = append(roots, e.Name())
		}
		if e.Movable() {
			movables = append(movables, e.Name())
		}
		if e.Kind() == entity.KindLight {
			lights = append(lights, e.Name())
		}
	}
	assert.ElementsMatch(t, roots, names(r.Roots()), "roots")
	assert.ElementsMatch(t, movables, names(r.Movables()), "movables")
	assert.ElementsMatch(t, lights, names(r.Lights()), "lights")
	for _, l := range r.DirtyLights() {
		assert.Contains(t, lights, l.Name(), "dirty light outside light index")
	}
	for _, e := range r.Entities() {
		for _, c := range e.Children() {
			assert.True(t, r.Has(c.Name()), "child %s of %s not registered", c.Name(), e.Name())
		}
	}
}

func TestInsertLightEnrollsDirty(t *testing.T) {
	r := New()
	sun := light.NewLight("sun", 50)

	require.NoError(t, r.Insert("sun", sun))

	assert.True(t, r.Has("sun"))
	assert.Equal(t, []string{"sun"}, names(r.Lights()))
	assert.Equal(t, []string{"sun"}, names(r.DirtyLights()))
	assert.True(t, r.IsDirty(sun))
	assert.Equal(t, []string{"sun"}, names(r.Roots()))
	assert.Empty(t, r.Movables())
	assertIndicesConsistent(t, r)
}

func TestStaticLightDrainedOnce(t *testing.T) {
	r := New()
	sun := light.NewLight("sun", 50)
	require.NoError(t, r.Insert("sun", sun))

	assert.Equal(t, []string{"sun"}, names(r.DrainDirtyLights()))
	assert.Empty(t, r.DirtyLights())
	assert.Empty(t, r.DrainDirtyLights())
	assert.Empty(t, r.DrainDirtyLights())
	assert.False(t, r.IsDirty(sun))
}

func TestMovableLightStaysDirty(t *testing.T) {
	r := New()
	torch := light.NewLight("torch", 5, light.WithMovable(true))
	require.NoError(t, r.Insert("torch", torch))

	for range 4 {
		assert.Equal(t, []string{"torch"}, names(r.DrainDirtyLights()))
		assert.Equal(t, []string{"torch"}, names(r.DirtyLights()))
	}
}

func TestDrainReachesMovableFixedPoint(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert("a", light.NewLight("a", 1)))
	require.NoError(t, r.Insert("b", light.NewLight("b", 1, light.WithMovable(true))))
	require.NoError(t, r.Insert("c", light.NewLight("c", 1)))
	require.NoError(t, r.Insert("d", light.NewLight("d", 1, light.WithMovable(true))))

	assert.Equal(t, []string{"a", "b", "c", "d"}, names(r.DrainDirtyLights()))
	assert.Equal(t, []string{"b", "d"}, names(r.DrainDirtyLights()))
	assert.Equal(t, []string{"b", "d"}, names(r.DrainDirtyLights()))
}

func TestMarkLightDirty(t *testing.T) {
	r := New()
	sun := light.NewLight("sun", 50)
	require.NoError(t, r.Insert("sun", sun))
	r.DrainDirtyLights()

	require.NoError(t, r.MarkLightDirty(sun))
	require.NoError(t, r.MarkLightDirty(sun))
	assert.Equal(t, []string{"sun"}, names(r.DrainDirtyLights()))
	assert.Empty(t, r.DrainDirtyLights())

	err := r.MarkLightDirty(light.NewLight("stranger", 1))
	require.ErrorIs(t, err, ErrNotRegistered)
	require.ErrorIs(t, r.MarkLightDirty(nil), ErrNilEntity)
}

func TestInsertTreeRegistersDescendants(t *testing.T) {
	r := New()
	childB := entity.NewEntity("childB")
	childA := entity.NewEntity("childA", entity.WithChildren(childB))
	root := entity.NewEntity("root", entity.WithChildren(childA))

	require.NoError(t, r.Insert("root", root))

	assert.Equal(t, []string{"childA", "childB", "root"}, r.Names())
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, []string{"root"}, names(r.Roots()))
	assert.Equal(t, []string{"root", "childA", "childB"}, names(r.Entities()))
	assertIndicesConsistent(t, r)
}

func TestRemoveSubtreeKeepsRoot(t *testing.T) {
	r := New()
	childB := entity.NewEntity("childB")
	childA := entity.NewEntity("childA", entity.WithChildren(childB))
	root := entity.NewEntity("root", entity.WithChildren(childA))
	require.NoError(t, r.Insert("root", root))

	assert.True(t, r.Remove("childA"))

	assert.Equal(t, []string{"root"}, r.Names())
	assert.Equal(t, []string{"root"}, names(r.Roots()))
	assert.Empty(t, root.Children())
	assert.Nil(t, childA.Parent())
	assert.True(t, childA.Destroyed())
	assert.True(t, childB.Destroyed())
	assert.Nil(t, childB.Parent())
	assertIndicesConsistent(t, r)

	assert.False(t, r.Remove("childA"))
	assert.False(t, r.Remove("nobody"))
}

func TestRemoveLightEveryCombination(t *testing.T) {
	for _, tc := range []struct {
		name    string
		movable bool
		drained bool
	}{
		{"static dirty", false, false},
		{"static clean", false, true},
		{"movable dirty", true, false},
		{"movable drained", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fake := renderertest.NewFakeAllocator()
			r := New()
			l := light.NewLight("lamp", 3, light.WithMovable(tc.movable), light.WithResources(fake, fake))
			require.NoError(t, r.Insert("lamp", l))
			_, err := l.EnsureStaticTarget()
			require.NoError(t, err)
			if tc.drained {
				r.DrainDirtyLights()
			}

			require.True(t, r.Remove("lamp"))

			assert.Empty(t, r.Lights())
			assert.Empty(t, r.Movables())
			assert.Empty(t, r.DirtyLights())
			assert.Empty(t, r.DrainDirtyLights())
			assert.False(t, r.IsDirty(l))
			assert.True(t, l.Destroyed())
			assert.True(t, fake.Balanced())
			assertIndicesConsistent(t, r)
		})
	}
}

func TestRemoveParentOfLight(t *testing.T) {
	r := New()
	torch := light.NewLight("torch", 4, light.WithMovable(true))
	hand := entity.NewEntity("hand", entity.WithMovable(true), entity.WithChildren(torch))
	require.NoError(t, r.Insert("hand", hand))
	assert.Equal(t, []string{"hand", "torch"}, names(r.Movables()))

	r.Remove("hand")

	assert.Zero(t, r.Count())
	assert.Empty(t, r.Lights())
	assert.Empty(t, r.DirtyLights())
	assert.True(t, torch.Destroyed())
}

func TestInsertRejectsDuplicates(t *testing.T) {
	r := New()
	first := entity.NewEntity("crate")
	require.NoError(t, r.Insert("crate", first))

	err := r.Insert("crate", entity.NewEntity("crate"))
	require.ErrorIs(t, err, ErrDuplicateName)
	same, _ := r.Get("crate")
	assert.Same(t, first, same)

	require.ErrorIs(t, r.Insert("other", first), ErrAlreadyRegistered)
	require.ErrorIs(t, r.Insert("", entity.NewEntity("x")), ErrEmptyName)
	require.ErrorIs(t, r.Insert("nil", nil), ErrNilEntity)

	gone := entity.NewEntity("gone")
	gone.Destroy()
	require.ErrorIs(t, r.Insert("gone", gone), ErrEntityDestroyed)
	assert.Equal(t, 1, r.Count())
}

func TestInsertFailureLeavesNoTrace(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert("taken", entity.NewEntity("taken")))

	clash := entity.NewEntity("taken")
	ok := entity.NewEntity("fine")
	lamp := light.NewLight("lamp", 2)
	root := entity.NewEntity("root", entity.WithChildren(ok, lamp, clash))

	err := r.Insert("root", root)
	require.ErrorIs(t, err, ErrDuplicateName)

	assert.Equal(t, []string{"taken"}, r.Names())
	assert.Empty(t, r.Lights())
	assert.Empty(t, r.DirtyLights())
	assertIndicesConsistent(t, r)
}

func TestInsertRejectsDuplicateInsideSubtree(t *testing.T) {
	r := New()
	root := entity.NewEntity("root", entity.WithChildren(entity.NewEntity("twin"), entity.NewEntity("twin")))

	require.ErrorIs(t, r.Insert("root", root), ErrDuplicateName)
	assert.Zero(t, r.Count())
}

func TestInsertSkipsRegisteredChildren(t *testing.T) {
	r := New()
	child := entity.NewEntity("child")
	require.NoError(t, r.Insert("child", child))
	assert.Equal(t, []string{"child"}, names(r.Roots()))

	parent := entity.NewEntity("parent")
	parent.AddChild(child)
	require.NoError(t, r.Insert("parent", parent))

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"parent"}, names(r.Roots()))
	assertIndicesConsistent(t, r)
}

func TestReparent(t *testing.T) {
	r := New()
	a := entity.NewEntity("a")
	b := entity.NewEntity("b")
	require.NoError(t, r.Insert("a", a))
	require.NoError(t, r.Insert("b", b))

	require.NoError(t, r.Reparent("b", "a"))
	assert.Same(t, a, b.Parent())
	assert.Equal(t, []string{"a"}, names(r.Roots()))
	assertIndicesConsistent(t, r)

	require.ErrorIs(t, r.Reparent("a", "b"), ErrCycle)
	require.ErrorIs(t, r.Reparent("a", "a"), ErrCycle)
	require.ErrorIs(t, r.Reparent("a", "ghost"), ErrNotRegistered)
	require.ErrorIs(t, r.Reparent("ghost", "a"), ErrNotRegistered)

	require.NoError(t, r.Reparent("b", ""))
	assert.Nil(t, b.Parent())
	assert.Empty(t, a.Children())
	assertIndicesConsistent(t, r)
}

func TestSlotsAreReused(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert("a", entity.NewEntity("a")))
	require.NoError(t, r.Insert("b", entity.NewEntity("b")))
	r.Remove("a")
	require.NoError(t, r.Insert("c", entity.NewEntity("c")))

	assert.Len(t, r.slots, 2)
	assert.Equal(t, []string{"b", "c"}, r.Names())
	assert.Equal(t, []string{"b", "c"}, names(r.Roots()))
}

func TestUpdateAll(t *testing.T) {
	r := New()
	var updated []string
	track := func(e entity.Entity, dt float32) {
		updated = append(updated, e.Name())
		assert.Equal(t, float32(0.5), dt)
	}
	child := entity.NewEntity("child", entity.WithUpdateFunc(track))
	root := entity.NewEntity("root", entity.WithUpdateFunc(track), entity.WithChildren(child))
	lamp := light.NewLight("lamp", 1, light.WithUpdateFunc(track))
	require.NoError(t, r.Insert("root", root))
	require.NoError(t, r.Insert("lamp", lamp))

	r.UpdateAll(0.5)
	assert.ElementsMatch(t, []string{"root", "child", "lamp"}, updated)
}

func TestUpdateAllSkipsEntitiesRemovedMidFrame(t *testing.T) {
	r := New()
	var updated []string
	victim := entity.NewEntity("victim", entity.WithUpdateFunc(func(e entity.Entity, _ float32) {
		updated = append(updated, e.Name())
	}))
	killer := entity.NewEntity("killer", entity.WithUpdateFunc(func(e entity.Entity, _ float32) {
		updated = append(updated, e.Name())
		r.Remove("victim")
	}))
	require.NoError(t, r.Insert("killer", killer))
	require.NoError(t, r.Insert("victim", victim))

	r.UpdateAll(0.016)
	assert.Equal(t, []string{"killer"}, updated)
	assert.False(t, r.Has("victim"))
}

func TestDrainUnregistersEntitiesDestroyedOutsideRegistry(t *testing.T) {
	r := New()
	spark := entity.NewEntity("spark")
	flare := light.NewLight("flare", 1, light.WithMovable(true), light.WithEntityOptions(entity.WithChildren(spark)))
	beacon := light.NewLight("beacon", 2)
	require.NoError(t, r.Insert("flare", flare))
	require.NoError(t, r.Insert("beacon", beacon))

	flare.Destroy()
	assert.Equal(t, []string{"beacon"}, names(r.DrainDirtyLights()))
	assert.False(t, r.Has("flare"))
	assert.Equal(t, []string{"beacon"}, names(r.Lights()))
	assert.Empty(t, r.Movables())
	assert.ElementsMatch(t, []string{"spark", "beacon"}, names(r.Roots()))
	assertIndicesConsistent(t, r)

	require.NoError(t, r.Insert("flare", light.NewLight("flare", 1)))
	assert.Len(t, r.slots, 3)
}

func TestInsertRejectsNameMismatch(t *testing.T) {
	r := New()
	hall := light.NewLight("lamp", 2)
	kitchen := light.NewLight("lamp", 2)

	require.ErrorIs(t, r.Insert("hall", hall), ErrNameMismatch)
	require.ErrorIs(t, r.Insert("kitchen", kitchen), ErrNameMismatch)
	assert.Zero(t, r.Count())
	assert.Empty(t, r.DirtyLights())

	require.NoError(t, r.Insert("lamp", hall))
	require.ErrorIs(t, r.Insert("lamp", kitchen), ErrDuplicateName)
}

func TestUpdateAllMovesParentsBeforeChildren(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert("a", entity.NewEntity("a")))
	require.NoError(t, r.Insert("b", entity.NewEntity("b")))
	r.Remove("a")
	r.Remove("b")

	lamp := light.NewLight("lamp", 3)
	cart := entity.NewEntity("cart",
		entity.WithMovable(true),
		entity.WithChildren(lamp),
		entity.WithUpdateFunc(func(e entity.Entity, dt float32) {
			e.SetPosition(e.Position().Add(mgl32.Vec3{dt, 0, 0}))
		}),
	)
	require.NoError(t, r.Insert("cart", cart))
	// the child reuses the lower slot
	require.Less(t, r.byName["lamp"], r.byName["cart"])

	r.UpdateAll(1)
	want := light.NewLight("ref", 3, light.WithPosition(1, 0, 0))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, lamp.WorldPosition())
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 3}, lamp.Pack().PositionRadius)
	assert.Equal(t, want.FaceViewProjections(), lamp.FaceViewProjections())

	// a child reparented under a later entity follows it as well
	require.NoError(t, r.Insert("truck", entity.NewEntity("truck",
		entity.WithPosition(0, 5, 0),
		entity.WithMovable(true),
		entity.WithUpdateFunc(func(e entity.Entity, dt float32) {
			e.SetPosition(e.Position().Add(mgl32.Vec3{0, dt, 0}))
		}),
	)))
	require.NoError(t, r.Reparent("lamp", "truck"))
	r.UpdateAll(1)
	assert.Equal(t, mgl32.Vec4{0, 6, 0, 3}, lamp.Pack().PositionRadius)
}

func TestShutdown(t *testing.T) {
	fake := renderertest.NewFakeAllocator()
	r := New()
	torch := light.NewLight("torch", 4, light.WithMovable(true), light.WithResources(fake, fake))
	sun := light.NewLight("sun", 50, light.WithResources(fake, fake))
	room := entity.NewEntity("room", entity.WithChildren(entity.NewEntity("table"), torch))
	require.NoError(t, r.Insert("room", room))
	require.NoError(t, r.Insert("sun", sun))
	_, err := torch.EnsureDynamicTarget()
	require.NoError(t, err)
	_, err = sun.EnsureStaticTarget()
	require.NoError(t, err)

	r.Shutdown()
	r.Shutdown()

	assert.Zero(t, r.Count())
	assert.Empty(t, r.Roots())
	assert.Empty(t, r.Movables())
	assert.Empty(t, r.Lights())
	assert.Empty(t, r.DirtyLights())
	assert.True(t, room.Destroyed())
	assert.True(t, sun.Destroyed())
	assert.True(t, fake.Balanced())

	require.NoError(t, r.Insert("again", entity.NewEntity("again")))
	assert.Equal(t, 1, r.Count())
}
