package light

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrNotReady is returned when a light has no allocator or pipeline provider attached.
	ErrNotReady = zerr.New("shadow resources not ready")
	// ErrDeviceNotInitialized is returned when the allocator reports no live device.
	ErrDeviceNotInitialized = zerr.New("gpu device not initialized")
	// ErrFaceOutOfRange is returned for cube face indices outside [0,6).
	ErrFaceOutOfRange = zerr.New("cube face index out of range")
	// ErrInvalidTarget is returned for unknown target kinds or targets that do not exist yet.
	ErrInvalidTarget = zerr.New("invalid shadow target")
	// ErrInvalidLayout is returned for layouts outside the five tracked states.
	ErrInvalidLayout = zerr.New("invalid image layout")
	// ErrLightDestroyed is returned when a destroyed light is asked for shadow resources.
	ErrLightDestroyed = zerr.New("light destroyed")
)

// IsContractViolation reports whether err signals misuse of a light rather than an allocation failure.
// Contract violations are programming errors and should not be retried.
//
// Parameters:
//   - err: the error returned by a shadow cache operation
//
// Returns:
//   - bool: true if err wraps one of the contract sentinels
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrNotReady) ||
		errors.Is(err, ErrDeviceNotInitialized) ||
		errors.Is(err, ErrFaceOutOfRange) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInvalidLayout) ||
		errors.Is(err, ErrLightDestroyed)
}

// ErrShaderLayoutMismatch is returned when the embedded PointLight WGSL struct disagrees with GPUPointLight.
var ErrShaderLayoutMismatch = zerr.New("point light shader layout mismatch")
