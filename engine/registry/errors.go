package registry

import "go.trai.ch/zerr"

var (
	// ErrEmptyName is returned when an entity is inserted under the empty name.
	ErrEmptyName = zerr.New("entity name is empty")
	// ErrNilEntity is returned when a nil entity is inserted.
	ErrNilEntity = zerr.New("entity is nil")
	// ErrDuplicateName is returned when a name is already taken by another entity.
	ErrDuplicateName = zerr.New("entity name already registered")
	// ErrAlreadyRegistered is returned when an entity is inserted a second time.
	ErrAlreadyRegistered = zerr.New("entity already registered")
	// ErrNotRegistered is returned when an operation names an entity the registry does not hold.
	ErrNotRegistered = zerr.New("entity not registered")
	// ErrEntityDestroyed is returned when a destroyed entity is inserted.
	ErrEntityDestroyed = zerr.New("entity destroyed")
	// ErrNameMismatch is returned when an entity is inserted under a name other than its own.
	ErrNameMismatch = zerr.New("registry name differs from entity name")
	// ErrCycle is returned when a reparent would make an entity its own ancestor.
	ErrCycle = zerr.New("entity hierarchy cycle")
)
