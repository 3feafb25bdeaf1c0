package window

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.trai.ch/zerr"
)

// glfwWindow is the GLFW state behind an engineWindow.
type glfwWindow struct {
	owner   *engineWindow
	handle  *glfw.Window
	running bool
}

// newPlatformWindow opens a GLFW window without a client API context, since the shadow device
// talks to the surface through wgpu, and wires key and framebuffer-size events to owner.
func newPlatformWindow(owner *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return zerr.Wrap(err, "failed to initialize GLFW")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(owner.width, owner.height, owner.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return zerr.With(zerr.Wrap(err, "failed to create GLFW window"), "title", owner.title)
	}

	gw := &glfwWindow{owner: owner, handle: handle, running: true}
	owner.internalWindow = gw

	handle.SetKeyCallback(gw.onKey)
	handle.SetFramebufferSizeCallback(gw.onFramebufferSize)

	// surface sizes are in pixels, which differ from window units on high-DPI displays
	owner.width, owner.height = handle.GetFramebufferSize()
	logger.Logger().Debug("window opened", "title", owner.title, "width", owner.width, "height", owner.height)
	return nil
}

// onKey forwards presses to the key-down callback. Escape closes the window instead.
func (gw *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		gw.running = false
		gw.handle.SetShouldClose(true)
		return
	}
	if gw.owner.onKeyDown != nil {
		gw.owner.onKeyDown(uint32(key))
	}
}

func (gw *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	gw.owner.width, gw.owner.height = width, height
	if gw.owner.onResize != nil {
		gw.owner.onResize(width, height)
	}
}

func platformWindow(w *engineWindow) (*glfwWindow, bool) {
	gw, ok := w.internalWindow.(*glfwWindow)
	return gw, ok && gw != nil
}

// platformGetSurfaceDescriptor returns the wgpu surface descriptor for the window, or nil before it opens.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := platformWindow(w)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

// platformIsRunningCheck reports false once Escape was pressed, the window was asked to close,
// or it was never opened.
func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := platformWindow(w)
	return ok && gw.running && !gw.handle.ShouldClose()
}

// platformCloseWindow destroys the window and terminates GLFW.
//
// Returns:
//   - error: ErrNotInitialized if the window is not open
func platformCloseWindow(w *engineWindow) error {
	gw, ok := platformWindow(w)
	if !ok {
		return ErrNotInitialized
	}
	w.internalWindow = nil
	gw.running = false
	gw.handle.Destroy()
	glfw.Terminate()
	logger.Logger().Debug("window closed", "title", w.title)
	return nil
}

// platformProcessMessages drains pending events without blocking.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
