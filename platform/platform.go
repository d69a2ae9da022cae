// platform/platform.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package platform provides the window that the globe is drawn in along
// with the associated OpenGL context.
package platform

// Platform is the interface that abstracts platform-specific features like
// creating windows and handling window events.
type Platform interface {
	// ProcessEvents handles all pending window events. Returns true if
	// there were any events and false otherwise.
	ProcessEvents() bool
	// PostRender performs the buffer swap.
	PostRender()
	// Dispose is called when the application is shutting down and is when
	// resources are be freed.
	Dispose()
	// ShouldStop returns true if the window is to be closed.
	ShouldStop() bool
	// SetWindowTitle sets the title of the application window.
	SetWindowTitle(text string)
	// EnableVSync specifies whether v-sync should be used when rendering;
	// v-sync is on by default and should only be disabled for benchmarking.
	EnableVSync(sync bool)
	// EnableFullScreen switches between the application running in windowed and fullscreen mode.
	EnableFullScreen(fullscreen bool)
	// IsFullScreen() returns true if the application is in full-screen mode.
	IsFullScreen() bool
	// DisplaySize returns the dimension of the display.
	DisplaySize() [2]float32
	// WindowSize returns the size of the window.
	WindowSize() [2]int
	// WindowPosition returns the position of the window on the screen.
	WindowPosition() [2]int
	// FramebufferSize returns the dimension of the framebuffer.
	FramebufferSize() [2]float32
	// DPIScale returns the scaling factor to account for Retina-style
	// displays; it is the device pixel ratio of the drawing surface.
	DPIScale() float32
	// OnResize registers a callback that is called from ProcessEvents
	// when the display size or the DPI scale has changed.
	OnResize(func(size [2]float32, dpiScale float32))
}

type Config struct {
	InitialWindowSize     [2]int
	InitialWindowPosition [2]int

	EnableMSAA bool

	StartInFullScreen bool
	FullScreenMonitor int
}
