package config

import (
	"math"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine"
	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/light"
	"github.com/Carmen-Shannon/oxy-shadows/engine/lighting"
	"github.com/Carmen-Shannon/oxy-shadows/engine/registry"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadows/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"go.trai.ch/zerr"
)

const (
	defaultWindowTitle  = "oxy-shadows"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 720
)

// EngineOptions converts the engine block into engine builder options. The window is not included.
//
// Returns:
//   - []engine.EngineBuilderOption: the engine options
func (s *SceneFile) EngineOptions() []engine.EngineBuilderOption {
	opts := []engine.EngineBuilderOption{
		engine.WithMaxFrames(s.Engine.MaxFrames),
		engine.WithTickRate(s.Engine.TickRate),
		engine.WithProfiling(s.Engine.Profiling),
		engine.WithForceSoftwareRenderer(s.Engine.ForceSoftware),
	}
	if s.Engine.PackWorkers > 0 {
		opts = append(opts, engine.WithPreparerOptions(lighting.WithPackWorkers(s.Engine.PackWorkers)))
	}
	return opts
}

// WindowOptions converts the window block into window builder options with defaults applied.
//
// Returns:
//   - []window.WindowBuilderOption: the window options
func (s *SceneFile) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(common.Coalesce(s.Window.Title, defaultWindowTitle)),
		window.WithSize(
			common.Coalesce(s.Window.Width, defaultWindowWidth),
			common.Coalesce(s.Window.Height, defaultWindowHeight),
		),
	}
}

// Build instantiates the entity tree. Lights are attached to alloc and passes.
// Build does not validate; call Validate first.
//
// Parameters:
//   - alloc: the allocator lights create shadow targets with
//   - passes: the pipeline provider lights bind framebuffers to
//
// Returns:
//   - []entity.Entity: the root entities in file order, children attached
func (s *SceneFile) Build(alloc renderer.Allocator, passes renderer.PipelineProvider) []entity.Entity {
	roots := make([]entity.Entity, 0, len(s.Entities))
	for i := range s.Entities {
		roots = append(roots, s.Entities[i].build(s.Engine.ShadowResolution, alloc, passes))
	}
	return roots
}

// Populate validates the scene, builds it and inserts every root into reg.
// On an insert failure the roots inserted so far stay registered.
//
// Parameters:
//   - reg: the registry to insert into
//   - alloc: the allocator lights create shadow targets with
//   - passes: the pipeline provider lights bind framebuffers to
//
// Returns:
//   - int: the number of entities registered
//   - error: a validation or insert error
func (s *SceneFile) Populate(reg *registry.Registry, alloc renderer.Allocator, passes renderer.PipelineProvider) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	before := reg.Count()
	for _, root := range s.Build(alloc, passes) {
		if err := reg.Insert(root.Name(), root); err != nil {
			return reg.Count() - before, zerr.With(zerr.Wrap(err, "populate registry"), "root", root.Name())
		}
	}
	return reg.Count() - before, nil
}

func (c *EntityConfig) build(defaultResolution uint32, alloc renderer.Allocator, passes renderer.PipelineProvider) entity.Entity {
	children := make([]entity.Entity, 0, len(c.Children))
	for i := range c.Children {
		children = append(children, c.Children[i].build(defaultResolution, alloc, passes))
	}

	nodeOpts := []entity.EntityBuilderOption{
		entity.WithPosition(c.Position[0], c.Position[1], c.Position[2]),
		entity.WithMovable(c.Movable || c.Orbit != nil),
		entity.WithChildren(children...),
	}
	if c.Orbit != nil {
		nodeOpts = append(nodeOpts, entity.WithUpdateFunc(orbit(mgl32.Vec3(c.Position), *c.Orbit)))
	}

	if c.Light == nil {
		return entity.NewEntity(c.Name, nodeOpts...)
	}

	l := c.Light
	opts := []light.LightBuilderOption{
		light.WithEntityOptions(nodeOpts...),
		light.WithShadowMapSlot(l.Slot),
		light.WithShadowMapResolution(common.Coalesce(l.Resolution, defaultResolution, light.DefaultShadowMapResolution)),
		light.WithResources(alloc, passes),
	}
	if l.Color != nil {
		opts = append(opts, light.WithColor(l.Color[0], l.Color[1], l.Color[2]))
	}
	if l.Intensity != nil {
		opts = append(opts, light.WithIntensity(*l.Intensity))
	}
	if l.CastsShadows != nil {
		opts = append(opts, light.WithCastsShadows(*l.CastsShadows))
	}
	if l.Bias != 0 {
		opts = append(opts, light.WithShadowBias(l.Bias))
	}
	if l.Near != 0 || l.Far != 0 {
		opts = append(opts, light.WithShadowNearFar(l.Near, l.Far))
	}
	if l.Strength != nil {
		opts = append(opts, light.WithShadowStrength(*l.Strength))
	}
	return light.NewLight(c.Name, l.Radius, opts...)
}

// orbit returns an update func circling center in the XZ plane.
func orbit(center mgl32.Vec3, o OrbitConfig) entity.UpdateFunc {
	var angle float64
	return func(e entity.Entity, dt float32) {
		angle = math.Mod(angle+float64(o.Speed*dt), 2*math.Pi)
		e.SetPosition(center.Add(mgl32.Vec3{
			o.Radius * float32(math.Cos(angle)),
			0,
			o.Radius * float32(math.Sin(angle)),
		}))
	}
}
