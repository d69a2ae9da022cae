// platform/glfw.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"
	"runtime"

	"github.com/neuralstage/globe/log"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwPlatform implements the Platform interface using GLFW.
type glfwPlatform struct {
	window *glfw.Window
	config *Config
	lg     *log.Logger

	anyEvents   bool
	multisample bool
	windowTitle string

	lastSize  [2]float32
	lastScale float32
	onResize  func(size [2]float32, dpiScale float32)
}

// New returns a new Platform with a window of the size and position
// given in config; config is updated if the requested size or position
// is unusable.
func New(config *Config, lg *log.Logger) (Platform, error) {
	lg.Info("Starting GLFW initialization")
	err := glfw.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	vm := glfw.GetPrimaryMonitor().GetVideoMode()
	if config.InitialWindowSize[0] == 0 || config.InitialWindowSize[1] == 0 {
		config.InitialWindowSize = [2]int{min(1280, vm.Width-150), min(800, vm.Height-150)}
	}

	// If window position is out of bounds, create the window at (100, 100)
	if config.InitialWindowPosition[0] < 0 || config.InitialWindowPosition[1] < 0 ||
		config.InitialWindowPosition[0] > vm.Width || config.InitialWindowPosition[1] > vm.Height {
		config.InitialWindowPosition = [2]int{100, 100}
	}
	// Start with an invisible window so that we can position it first
	glfw.WindowHint(glfw.Visible, 0)
	// Disable GLFW_AUTO_ICONIFY to stop the window from automatically minimizing in fullscreen
	glfw.WindowHint(glfw.AutoIconify, 0)
	// Maybe enable multisampling
	if config.EnableMSAA {
		glfw.WindowHint(glfw.Samples, 4)
	}
	var window *glfw.Window
	monitors := glfw.GetMonitors()
	if config.FullScreenMonitor >= len(monitors) {
		// Monitor saved in config not found, fallback to default
		config.FullScreenMonitor = 0
	}
	if config.StartInFullScreen {
		vm := monitors[config.FullScreenMonitor].GetVideoMode()
		window, err = glfw.CreateWindow(vm.Width, vm.Height, "Globe", monitors[config.FullScreenMonitor], nil)
	} else {
		window, err = glfw.CreateWindow(config.InitialWindowSize[0], config.InitialWindowSize[1], "Globe", nil, nil)
	}
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.SetPos(config.InitialWindowPosition[0], config.InitialWindowPosition[1])
	window.Show()
	window.MakeContextCurrent()

	platform := &glfwPlatform{
		config:      config,
		lg:          lg,
		window:      window,
		multisample: config.EnableMSAA,
	}
	platform.installCallbacks()
	platform.EnableVSync(true)

	glfw.SetMonitorCallback(platform.monitorCallback)

	lg.Info("Finished GLFW initialization")
	return platform, nil
}

func (g *glfwPlatform) DPIScale() float32 {
	if runtime.GOOS == "windows" {
		sx, sy := g.window.GetContentScale()
		return max(1, float32(int((sx+sy)/2)))
	}
	if ds := g.DisplaySize(); ds[0] > 0 {
		return g.FramebufferSize()[0] / ds[0]
	}
	return 1
}

func (g *glfwPlatform) EnableVSync(sync bool) {
	if sync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (g *glfwPlatform) IsFullScreen() bool {
	return g.window.GetMonitor() != nil
}

func (g *glfwPlatform) EnableFullScreen(fullscreen bool) {
	monitors := glfw.GetMonitors()
	if g.config.FullScreenMonitor >= len(monitors) {
		// Shouldn't happen, but just to be sure
		g.config.FullScreenMonitor = 0
	}

	monitor := monitors[g.config.FullScreenMonitor]
	vm := monitor.GetVideoMode()
	if fullscreen {
		g.window.SetMonitor(monitor, 0, 0, vm.Width, vm.Height, vm.RefreshRate)
	} else {
		windowSize := g.config.InitialWindowSize
		if windowSize[0] == 0 || windowSize[1] == 0 {
			windowSize = [2]int{vm.Width - 150, vm.Height - 150}
		}
		g.window.SetMonitor(nil, g.config.InitialWindowPosition[0], g.config.InitialWindowPosition[1],
			windowSize[0], windowSize[1], glfw.DontCare)
	}
	g.config.StartInFullScreen = fullscreen
}

func (g *glfwPlatform) monitorCallback(monitor *glfw.Monitor, event glfw.PeripheralEvent) {
	if event == glfw.Disconnected {
		g.lg.Infof("%s: monitor disconnected", monitor.GetName())
		g.config.FullScreenMonitor = 0
		g.config.StartInFullScreen = false
	}
}

func (g *glfwPlatform) Dispose() {
	g.window.Destroy()
	glfw.Terminate()
}

func (g *glfwPlatform) ShouldStop() bool {
	return g.window.ShouldClose()
}

func (g *glfwPlatform) OnResize(cb func(size [2]float32, dpiScale float32)) {
	g.onResize = cb
	g.lastSize, g.lastScale = [2]float32{}, 0
}

func (g *glfwPlatform) ProcessEvents() bool {
	g.anyEvents = false

	glfw.PollEvents()

	if g.multisample {
		gl.Enable(gl.MULTISAMPLE)
	}

	// Resizes are detected by polling rather than through the size
	// callbacks so that moving between displays with different scales
	// is caught as well.
	if size, scale := g.DisplaySize(), g.DPIScale(); size != g.lastSize || scale != g.lastScale {
		g.lastSize, g.lastScale = size, scale
		if !g.IsFullScreen() && size[0] > 0 && size[1] > 0 {
			g.config.InitialWindowSize = g.WindowSize()
			g.config.InitialWindowPosition = g.WindowPosition()
		}
		if g.onResize != nil {
			g.onResize(size, scale)
		}
		g.anyEvents = true
	}

	return g.anyEvents
}

func (g *glfwPlatform) DisplaySize() [2]float32 {
	w, h := g.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) WindowSize() [2]int {
	w, h := g.window.GetSize()
	return [2]int{w, h}
}

func (g *glfwPlatform) WindowPosition() [2]int {
	x, y := g.window.GetPos()
	return [2]int{x, y}
}

func (g *glfwPlatform) FramebufferSize() [2]float32 {
	w, h := g.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) PostRender() {
	g.window.SwapBuffers()
}

func (g *glfwPlatform) installCallbacks() {
	g.window.SetKeyCallback(g.keyChange)
	g.window.SetPosCallback(func(w *glfw.Window, x, y int) {
		g.anyEvents = true
		if !g.IsFullScreen() {
			g.config.InitialWindowPosition = [2]int{x, y}
		}
	})
}

func (g *glfwPlatform) keyChange(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	g.anyEvents = true
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		if g.IsFullScreen() {
			g.EnableFullScreen(false)
		} else {
			g.window.SetShouldClose(true)
		}
	case glfw.KeyF11:
		g.EnableFullScreen(!g.IsFullScreen())
	case glfw.KeyQ:
		if mods&(glfw.ModControl|glfw.ModSuper) != 0 {
			g.window.SetShouldClose(true)
		}
	}
}

func (g *glfwPlatform) SetWindowTitle(text string) {
	if text != g.windowTitle {
		g.window.SetTitle(text)
		g.windowTitle = text
	}
}
