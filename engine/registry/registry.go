// Package registry holds every scene entity by name, together with the derived root, movable and light
// indices and the set of lights whose shadow maps are stale.
package registry

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-shadows/engine/entity"
	"github.com/Carmen-Shannon/oxy-shadows/engine/light"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"go.trai.ch/zerr"
)

// slot is one arena cell. A free slot has a nil entity.
type slot struct {
	name   string
	entity entity.Entity
	light  light.Light // resolved once on insert, nil for non-lights
}

// Registry is the name-keyed store of all scene entities.
//
// The root, movable and light indices always equal the filter of the stored entities by
// "has no parent", "is movable" and "is a light". The dirty set is a subset of the light index:
// lights enter it when inserted and leave it when drained (static lights) or removed.
//
// A Registry is not safe for concurrent use; all calls must come from the frame-preparation goroutine.
type Registry struct {
	slots []slot
	free  []int

	byName   map[string]int
	byEntity map[entity.Entity]int

	roots    *indexSet
	movables *indexSet
	lights   *indexSet
	dirty    *indexSet
}

// New creates an empty registry.
//
// Returns:
//   - *Registry: the registry
func New() *Registry {
	return &Registry{
		byName:   make(map[string]int),
		byEntity: make(map[entity.Entity]int),
		roots:    newIndexSet(),
		movables: newIndexSet(),
		lights:   newIndexSet(),
		dirty:    newIndexSet(),
	}
}

// Insert registers e under name, which must equal e.Name(), then every descendant of e not yet registered under its own name,
// depth-first with parents before children. Children that are already registered are skipped together
// with their subtrees. The whole subtree is validated first, so a failed Insert changes nothing.
//
// Parameters:
//   - name: the unique name for e
//   - e: the entity to register
//
// Returns:
//   - error: ErrEmptyName, ErrNilEntity, ErrEntityDestroyed, ErrNameMismatch, ErrAlreadyRegistered or ErrDuplicateName
func (r *Registry) Insert(name string, e entity.Entity) error {
	if e == nil {
		return zerr.With(zerr.Wrap(ErrNilEntity, "insert"), "name", name)
	}
	if _, ok := r.byEntity[e]; ok {
		return zerr.With(zerr.Wrap(ErrAlreadyRegistered, "insert"), "name", name)
	}

	type pending struct {
		name   string
		entity entity.Entity
	}
	var plan []pending
	seen := make(map[string]struct{})

	stack := []pending{{name, e}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := r.validate(p.name, p.entity, seen); err != nil {
			return err
		}
		seen[p.name] = struct{}{}
		plan = append(plan, p)

		children := p.entity.Children()
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if _, ok := r.byEntity[c]; ok {
				continue
			}
			stack = append(stack, pending{c.Name(), c})
		}
	}

	for _, p := range plan {
		r.add(p.name, p.entity)
	}
	return nil
}

func (r *Registry) validate(name string, e entity.Entity, seen map[string]struct{}) error {
	if name == "" {
		return zerr.Wrap(ErrEmptyName, "insert")
	}
	if e.Destroyed() {
		return zerr.With(zerr.Wrap(ErrEntityDestroyed, "insert"), "name", name)
	}
	if name != e.Name() {
		return zerr.With(zerr.With(zerr.Wrap(ErrNameMismatch, "insert"), "name", name), "entity", e.Name())
	}
	if _, ok := r.byName[name]; ok {
		return zerr.With(zerr.Wrap(ErrDuplicateName, "insert"), "name", name)
	}
	if _, ok := seen[name]; ok {
		return zerr.With(zerr.Wrap(ErrDuplicateName, "insert subtree"), "name", name)
	}
	return nil
}

func (r *Registry) add(name string, e entity.Entity) {
	var idx int
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = len(r.slots)
		r.slots = append(r.slots, slot{})
	}

	s := slot{name: name, entity: e}
	if e.Kind() == entity.KindLight {
		s.light, _ = e.(light.Light)
	}
	r.slots[idx] = s
	r.byName[name] = idx
	r.byEntity[e] = idx

	if e.Parent() == nil {
		r.roots.add(idx)
	}
	// registered children attached to e outside the registry stop being roots
	for _, c := range e.Children() {
		if ci, ok := r.byEntity[c]; ok {
			r.roots.remove(ci)
		}
	}
	if e.Movable() {
		r.movables.add(idx)
	}
	if s.light != nil {
		r.lights.add(idx)
		r.dirty.add(idx)
	}
	logger.Logger().Debug("entity registered", "name", name, "kind", e.Kind(), "movable", e.Movable())
}

// Remove unregisters the named entity and its whole subtree, then destroys them.
//
// The subtree is collected before anything changes. The entity is detached from its parent (or the
// root set), every member leaves the name map and all indices, and only then are the members destroyed,
// children before parents. Unknown names are ignored.
//
// Parameters:
//   - name: the entity to remove
//
// Returns:
//   - bool: true if something was removed
func (r *Registry) Remove(name string) bool {
	idx, ok := r.byName[name]
	if !ok {
		return false
	}
	e := r.slots[idx].entity

	subtree := collectSubtree(e)

	if p := e.Parent(); p != nil {
		p.RemoveChild(e)
	}
	r.roots.remove(idx)

	var freed []int
	for _, member := range subtree {
		i, ok := r.byEntity[member]
		if !ok {
			continue
		}
		r.unindex(i)
		freed = append(freed, i)
	}

	for i := len(subtree) - 1; i >= 0; i-- {
		subtree[i].Destroy()
	}
	for _, i := range freed {
		r.slots[i] = slot{}
		r.free = append(r.free, i)
	}
	logger.Logger().Debug("entity removed", "name", name, "subtree", len(subtree))
	return true
}

// unindex drops slot i from the name maps and every index. The slot itself is not freed.
func (r *Registry) unindex(i int) {
	delete(r.byName, r.slots[i].name)
	delete(r.byEntity, r.slots[i].entity)
	r.roots.remove(i)
	r.movables.remove(i)
	r.dirty.remove(i)
	r.lights.remove(i)
}

// pruneDestroyed unregisters entities destroyed outside the registry and frees their slots.
// Registered children that Destroy unlinked become roots.
func (r *Registry) pruneDestroyed() {
	pruned := 0
	for i, s := range r.slots {
		if s.entity == nil || !s.entity.Destroyed() {
			continue
		}
		r.unindex(i)
		r.slots[i] = slot{}
		r.free = append(r.free, i)
		pruned++
	}
	if pruned == 0 {
		return
	}
	for i, s := range r.slots {
		if s.entity != nil && s.entity.Parent() == nil {
			r.roots.add(i)
		}
	}
	logger.Logger().Debug("destroyed entities pruned", "count", pruned)
}

// collectSubtree returns root and all its descendants in depth-first pre-order.
func collectSubtree(root entity.Entity) []entity.Entity {
	var out []entity.Entity
	stack := []entity.Entity{root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, e)
		children := e.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// Reparent moves the named entity under parentName, or makes it a root when parentName is empty.
// The root index follows the change. Once an entity is registered, Reparent is the only supported way
// to change its place in the hierarchy; AddChild or RemoveChild called directly leave the root index stale.
//
// Parameters:
//   - name: the entity to move
//   - parentName: the new parent, or "" to detach
//
// Returns:
//   - error: ErrNotRegistered for unknown names, ErrCycle if parentName lies in the entity's subtree
func (r *Registry) Reparent(name, parentName string) error {
	idx, ok := r.byName[name]
	if !ok {
		return zerr.With(zerr.Wrap(ErrNotRegistered, "reparent"), "name", name)
	}
	e := r.slots[idx].entity

	if parentName == "" {
		if p := e.Parent(); p != nil {
			p.RemoveChild(e)
		}
		r.roots.add(idx)
		return nil
	}

	pidx, ok := r.byName[parentName]
	if !ok {
		return zerr.With(zerr.Wrap(ErrNotRegistered, "reparent"), "parent", parentName)
	}
	parent := r.slots[pidx].entity
	for a := parent; a != nil; a = a.Parent() {
		if a == e {
			return zerr.With(zerr.With(zerr.Wrap(ErrCycle, "reparent"), "name", name), "parent", parentName)
		}
	}
	parent.AddChild(e)
	r.roots.remove(idx)
	return nil
}

// UpdateAll calls Update on every registered entity, walking each root's subtree with parents before
// their children, so a light refreshing its world position sees its ancestors' motion from this frame.
// Entities removed by an earlier update in the same call are skipped.
//
// Parameters:
//   - dt: elapsed time since the previous frame in seconds
func (r *Registry) UpdateAll(dt float32) {
	order := make([]entity.Entity, 0, len(r.byEntity))
	visited := make(map[entity.Entity]struct{}, len(r.byEntity))
	for _, root := range r.Roots() {
		for _, e := range collectSubtree(root) {
			if _, ok := r.byEntity[e]; !ok {
				continue
			}
			visited[e] = struct{}{}
			order = append(order, e)
		}
	}
	// entities unreachable from a root, e.g. under an unregistered parent
	for _, e := range r.Entities() {
		if _, ok := visited[e]; !ok {
			order = append(order, e)
		}
	}

	for _, e := range order {
		if e.Destroyed() {
			continue
		}
		e.Update(dt)
	}
}

// Shutdown removes every root, cascading through their subtrees, and clears all indices.
// Calling Shutdown more than once is safe.
func (r *Registry) Shutdown() {
	roots := make([]string, 0, r.roots.len())
	for _, i := range r.roots.items() {
		roots = append(roots, r.slots[i].name)
	}
	for _, name := range roots {
		r.Remove(name)
	}

	// Anything left was detached from the hierarchy outside the registry.
	for name := range r.byName {
		r.Remove(name)
	}

	r.slots = nil
	r.free = nil
	clear(r.byName)
	clear(r.byEntity)
	r.roots.clear()
	r.movables.clear()
	r.lights.clear()
	r.dirty.clear()
	if len(roots) > 0 {
		logger.Logger().Debug("registry shut down", "roots", len(roots))
	}
}

// DrainDirtyLights returns every dirty light and leaves only the movable ones in the dirty set.
// Static lights are therefore returned once per enrollment, movable lights on every drain.
// Entities destroyed outside the registry are unregistered first, so they leave every index.
//
// Returns:
//   - []light.Light: the dirty lights in enrollment order
func (r *Registry) DrainDirtyLights() []light.Light {
	r.pruneDestroyed()
	out := r.lightsOf(r.dirty)
	r.dirty.retain(func(i int) bool {
		return r.slots[i].entity.Movable()
	})
	return out
}

// MarkLightDirty puts a registered light back into the dirty set, for example after static
// occluders changed. Marking a light that is already dirty is a no-op.
//
// Parameters:
//   - l: the light to mark
//
// Returns:
//   - error: ErrNotRegistered if l is not held by this registry
func (r *Registry) MarkLightDirty(l light.Light) error {
	if l == nil {
		return zerr.Wrap(ErrNilEntity, "mark light dirty")
	}
	idx, ok := r.byEntity[l]
	if !ok || r.slots[idx].light == nil {
		return zerr.With(zerr.Wrap(ErrNotRegistered, "mark light dirty"), "name", l.Name())
	}
	r.dirty.add(idx)
	return nil
}

// IsDirty reports whether l is waiting in the dirty set.
func (r *Registry) IsDirty(l light.Light) bool {
	idx, ok := r.byEntity[l]
	return ok && r.dirty.has(idx)
}

// Get returns the entity registered under name.
func (r *Registry) Get(name string) (entity.Entity, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.slots[idx].entity, true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	return len(r.byName)
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Entities returns every registered entity in arena order.
func (r *Registry) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, len(r.byName))
	for _, s := range r.slots {
		if s.entity != nil {
			out = append(out, s.entity)
		}
	}
	return out
}

// Roots returns the registered entities without a parent, in insertion order.
func (r *Registry) Roots() []entity.Entity {
	return r.entitiesOf(r.roots)
}

// Movables returns the registered movable entities, in insertion order.
func (r *Registry) Movables() []entity.Entity {
	return r.entitiesOf(r.movables)
}

// Lights returns the registered lights, in insertion order.
func (r *Registry) Lights() []light.Light {
	return r.lightsOf(r.lights)
}

// DirtyLights returns the dirty set without draining it.
func (r *Registry) DirtyLights() []light.Light {
	return r.lightsOf(r.dirty)
}

func (r *Registry) entitiesOf(set *indexSet) []entity.Entity {
	out := make([]entity.Entity, 0, set.len())
	for _, i := range set.order {
		out = append(out, r.slots[i].entity)
	}
	return out
}

func (r *Registry) lightsOf(set *indexSet) []light.Light {
	out := make([]light.Light, 0, set.len())
	for _, i := range set.order {
		out = append(out, r.slots[i].light)
	}
	return out
}
