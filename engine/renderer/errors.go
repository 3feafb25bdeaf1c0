package renderer

import "go.trai.ch/zerr"

var (
	// ErrDeviceReleased is returned by every allocation once the device is gone.
	ErrDeviceReleased = zerr.New("gpu device released")
	// ErrUnknownHandle is returned when a handle does not name a live object.
	ErrUnknownHandle = zerr.New("unknown gpu handle")
	// ErrLayoutMismatch is returned when a barrier's old layout disagrees with the tracked layout.
	ErrLayoutMismatch = zerr.New("image layout mismatch")
	// ErrTextureExists is returned when a texture name is registered twice.
	ErrTextureExists = zerr.New("texture already registered")
	// ErrNoFrame is returned when pass or copy recording is attempted outside a shadow frame.
	ErrNoFrame = zerr.New("no shadow frame open")
	// ErrInvalidDescriptor is returned for descriptors with zero extents or layer counts.
	ErrInvalidDescriptor = zerr.New("invalid descriptor")
)
