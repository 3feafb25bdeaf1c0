package entity

import "github.com/go-gl/mathgl/mgl32"

// EntityBuilderOption is a functional option for configuring a Node during construction.
type EntityBuilderOption func(*Node)

// WithPosition sets the local position of the entity.
//
// Parameters:
//   - x, y, z: position components relative to the parent
//
// Returns:
//   - EntityBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) EntityBuilderOption {
	return func(n *Node) {
		n.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the local orientation of the entity from Euler angles in degrees (applied X, then Y, then Z).
//
// Parameters:
//   - rx, ry, rz: rotation about each axis in degrees
//
// Returns:
//   - EntityBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) EntityBuilderOption {
	return func(n *Node) {
		n.rotation = mgl32.AnglesToQuat(
			mgl32.DegToRad(rx), mgl32.DegToRad(ry), mgl32.DegToRad(rz), mgl32.XYZ,
		)
	}
}

// WithScale sets the local scale of the entity.
//
// Parameters:
//   - sx, sy, sz: scale along each axis
//
// Returns:
//   - EntityBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) EntityBuilderOption {
	return func(n *Node) {
		n.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithMovable marks the entity as movable. Movable lights have their shadows re-rendered every frame.
//
// Parameters:
//   - movable: true if the transform may change between frames
//
// Returns:
//   - EntityBuilderOption: functional option to set mobility
func WithMovable(movable bool) EntityBuilderOption {
	return func(n *Node) {
		n.movable = movable
	}
}

// WithUpdateFunc sets the callback invoked by Update.
//
// Parameters:
//   - fn: the update callback
//
// Returns:
//   - EntityBuilderOption: functional option to set the update callback
func WithUpdateFunc(fn UpdateFunc) EntityBuilderOption {
	return func(n *Node) {
		n.onUpdate = fn
	}
}

// WithChildren attaches children to the entity in the given order.
//
// Parameters:
//   - children: the entities to attach
//
// Returns:
//   - EntityBuilderOption: functional option to attach children
func WithChildren(children ...Entity) EntityBuilderOption {
	return func(n *Node) {
		for _, c := range children {
			n.AddChild(c)
		}
	}
}
