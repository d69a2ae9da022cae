// globe/driver.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"log/slog"
	"time"

	"github.com/neuralstage/globe/flight"
	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/renderer"
)

const (
	// RestartDelay is how long the surface size must be stable after a
	// resize before the flight animation restarts.
	RestartDelay = 200 * time.Millisecond
	// MaxFrameTime bounds the time step taken by a single frame.
	MaxFrameTime = 250 * time.Millisecond
)

// Background is the color the surface is cleared to before each frame.
var Background = renderer.RGBFromHex(0xF9FAFB).WithAlpha(1)

// Driver advances the scene once per displayed frame.
type Driver struct {
	Scene  *Scene
	flight *flight.Controller
	icons  Icons
	lg     *log.Logger

	last      time.Time
	restartAt time.Time
}

// NewDriver returns a driver for the scene. The flight controller and the
// icons may be nil, in which case the flight marker and the textured
// parts of the scene are not drawn.
func NewDriver(scene *Scene, fc *flight.Controller, icons Icons, lg *log.Logger) *Driver {
	return &Driver{Scene: scene, flight: fc, icons: icons, lg: lg}
}

// Resize lays out the scene for a new surface. The nodes fade in again
// and the flight restarts after the size has been stable for
// RestartDelay.
func (d *Driver) Resize(now time.Time, s Surface) {
	if s.DPR <= 0 {
		s.DPR = 1
	}
	d.lg.Debug("resize", slog.Any("surface", s))

	d.Scene.Relayout(s)
	if d.icons != nil {
		d.icons.Refresh(s.DPR)
	}
	d.restartAt = now.Add(RestartDelay)
}

// RestartPending reports whether a flight restart is waiting for its
// deadline.
func (d *Driver) RestartPending() bool {
	return !d.restartAt.IsZero()
}

// Step advances the scene's rotation and the flight animation to now.
func (d *Driver) Step(now time.Time) {
	var elapsed time.Duration
	if !d.last.IsZero() {
		elapsed = min(max(now.Sub(d.last), 0), MaxFrameTime)
	}
	d.last = now

	s := d.Scene
	ms := float32(elapsed) / float32(time.Millisecond)
	s.RotY += ms * s.Options.SpinRate * s.Spin

	if !d.restartAt.IsZero() && !now.Before(d.restartAt) {
		d.restartAt = time.Time{}
		d.startFlight(now)
	}

	if d.flight != nil {
		s.Marker = d.flight.Advance(now)
	}
	s.Frame++
}

func (d *Driver) startFlight(now time.Time) {
	if d.flight == nil {
		return
	}
	start := d.Scene.NodePosition(NorthAmerica)
	end := d.Scene.NodePosition(Africa)
	d.flight.Start(now, start, end)
}

// Frame runs one full frame: it advances the scene to now, generates the
// commands to draw it and then updates the node fades.
func (d *Driver) Frame(now time.Time, cb *renderer.CommandBuffer) {
	d.Step(now)
	d.Draw(cb)
	d.Scene.FadeNodes()
}

// Draw generates commands to draw the scene in its current state.
func (d *Driver) Draw(cb *renderer.CommandBuffer) {
	d.Scene.Draw(d.icons, cb)
}
