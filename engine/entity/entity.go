package entity

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind tags the concrete variant behind an Entity. The registry resolves it once at insertion.
type Kind int

const (
	// KindNode is a plain transform node.
	KindNode Kind = iota
	// KindLight is a point light; values of this kind implement light.Light.
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// Entity is a named node in the scene hierarchy.
//
// Entities reference their parent weakly and own the order of their children. Mobility is fixed at
// construction. The set of implementations is closed: every Entity is built on Node.
type Entity interface {
	// Name returns the entity's unique name.
	Name() string

	// Kind returns the variant tag of the entity.
	Kind() Kind

	// Parent returns the entity's parent, or nil for a root.
	Parent() Entity

	// Children returns a copy of the entity's children in insertion order.
	Children() []Entity

	// AddChild appends child to this entity's children and makes this entity its parent.
	// A child attached elsewhere is detached from its previous parent first.
	// Adding nil, the entity itself, or an existing child is a no-op.
	// Use it to build a tree before registration; once the entities are registered, move them with
	// registry.Reparent, which keeps the registry's root index in step.
	//
	// Parameters:
	//   - child: the entity to attach
	AddChild(child Entity)

	// RemoveChild detaches child from this entity. Unknown children are ignored.
	// Registered entities are detached with registry.Reparent instead.
	//
	// Parameters:
	//   - child: the entity to detach
	RemoveChild(child Entity)

	// Movable reports whether the entity's transform may change between frames.
	Movable() bool

	Position() mgl32.Vec3
	Rotation() mgl32.Quat
	Scale() mgl32.Vec3
	SetPosition(p mgl32.Vec3)
	SetRotation(q mgl32.Quat)
	SetScale(s mgl32.Vec3)

	// LocalTransform returns the entity's transform relative to its parent.
	LocalTransform() mgl32.Mat4

	// WorldTransform returns the parent's world transform composed with the local transform.
	WorldTransform() mgl32.Mat4

	// WorldPosition returns the translation part of WorldTransform.
	WorldPosition() mgl32.Vec3

	// Update advances the entity by dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time since the previous update in seconds
	Update(dt float32)

	// Destroy releases whatever the entity owns. Calling Destroy more than once is a no-op.
	// A registered entity destroyed directly is unregistered at the registry's next dirty drain;
	// registry.Remove unregisters it at once.
	Destroy()

	// Destroyed reports whether Destroy has run.
	Destroyed() bool

	node() *Node
}

// UpdateFunc is invoked by Update with the entity being updated.
type UpdateFunc func(e Entity, dt float32)

// Node is the embeddable base of every Entity.
//
// Variants embed *Node and pass themselves as self so that parent links and
// update callbacks observe the variant rather than the bare node.
type Node struct {
	name    string
	kind    Kind
	self    Entity
	movable bool

	parent   Entity
	children []Entity

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	onUpdate  UpdateFunc
	destroyed bool
}

var _ Entity = &Node{}

// NewEntity creates a plain transform node.
//
// Parameters:
//   - name: the entity's unique name
//   - options: functional options to configure the node
//
// Returns:
//   - Entity: the new node
func NewEntity(name string, options ...EntityBuilderOption) Entity {
	return NewNode(name, KindNode, nil, options...)
}

// NewNode creates the base node for an Entity variant.
//
// Parameters:
//   - name: the entity's unique name
//   - kind: the variant tag reported by Kind
//   - self: the variant embedding the node, or nil when the node stands alone
//   - options: functional options to configure the node
//
// Returns:
//   - *Node: the configured node
func NewNode(name string, kind Kind, self Entity, options ...EntityBuilderOption) *Node {
	n := &Node{
		name:     name,
		kind:     kind,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	n.self = self
	if n.self == nil {
		n.self = n
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

func (n *Node) node() *Node {
	return n
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Kind() Kind {
	return n.kind
}

func (n *Node) Parent() Entity {
	return n.parent
}

func (n *Node) Children() []Entity {
	return slices.Clone(n.children)
}

func (n *Node) AddChild(child Entity) {
	if child == nil || child.node() == n {
		return
	}
	cn := child.node()
	if cn.parent != nil {
		if cn.parent.node() == n {
			return
		}
		cn.parent.RemoveChild(child)
	}
	cn.parent = n.self
	n.children = append(n.children, child)
}

func (n *Node) RemoveChild(child Entity) {
	if child == nil {
		return
	}
	cn := child.node()
	idx := slices.IndexFunc(n.children, func(c Entity) bool { return c.node() == cn })
	if idx < 0 {
		return
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	cn.parent = nil
}

func (n *Node) Movable() bool {
	return n.movable
}

func (n *Node) Position() mgl32.Vec3 {
	return n.position
}

func (n *Node) Rotation() mgl32.Quat {
	return n.rotation
}

func (n *Node) Scale() mgl32.Vec3 {
	return n.scale
}

func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
}

func (n *Node) SetRotation(q mgl32.Quat) {
	n.rotation = q
}

func (n *Node) SetScale(s mgl32.Vec3) {
	n.scale = s
}

func (n *Node) LocalTransform() mgl32.Mat4 {
	return common.TRS(n.position, n.rotation, n.scale)
}

func (n *Node) WorldTransform() mgl32.Mat4 {
	local := n.LocalTransform()
	if n.parent == nil {
		return local
	}
	return n.parent.WorldTransform().Mul4(local)
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldTransform().Col(3).Vec3()
}

func (n *Node) Update(dt float32) {
	if n.onUpdate != nil && !n.destroyed {
		n.onUpdate(n.self, dt)
	}
}

// Destroy marks the node destroyed and unlinks it from its parent and children.
// Variants that own resources release them before calling the embedded Destroy.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	if n.parent != nil {
		n.parent.RemoveChild(n.self)
	}
	for _, c := range n.children {
		c.node().parent = nil
	}
	n.children = nil
}

func (n *Node) Destroyed() bool {
	return n.destroyed
}
