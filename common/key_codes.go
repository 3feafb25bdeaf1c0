package common

// Key codes the demo reacts to. Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyP     = 80  // P key (ASCII), pauses light motion
	KeyR     = 82  // R key (ASCII), re-bakes static shadow maps
	KeySpace = 32  // Spacebar (ASCII), prints resource stats
	KeyEsc   = 256 // Escape key (GLFW), handled by the window
)
