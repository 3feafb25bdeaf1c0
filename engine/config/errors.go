package config

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedVersion is returned for scene files with a version other than "1".
	ErrUnsupportedVersion = zerr.New("unsupported scene file version")
	// ErrMissingName is returned for entities without a name.
	ErrMissingName = zerr.New("entity name is required")
	// ErrDuplicateName is returned when two entities in the file share a name.
	ErrDuplicateName = zerr.New("duplicate entity name")
	// ErrInvalidRadius is returned for lights with a non-positive radius.
	ErrInvalidRadius = zerr.New("light radius must be positive")
	// ErrInvalidShadowPlanes is returned when a light's near plane is not in front of its far plane.
	ErrInvalidShadowPlanes = zerr.New("shadow near plane must be positive and less than far")
	// ErrInvalidResolution is returned for shadow map resolutions that are not a power of two.
	ErrInvalidResolution = zerr.New("shadow map resolution must be a power of two")
	// ErrInvalidEngineSetting is returned for negative frame, tick or worker settings.
	ErrInvalidEngineSetting = zerr.New("invalid engine setting")
)
