// flight/controller.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package flight animates a marker that flies back and forth between two
// points on the screen, reversing the globe's spin at each arrival.
package flight

import (
	"log/slog"
	"time"

	"github.com/neuralstage/globe/log"
)

// SpinSetter is implemented by whatever owns the globe's spin direction.
type SpinSetter interface {
	SetSpin(dir float32)
}

// Controller owns the flight timeline; at most one is live at a time.
type Controller struct {
	anim PathAnimator
	spin SpinSetter
	lg   *log.Logger

	live   *Timeline
	marker Marker
}

// NewController returns a controller that moves the marker using anim
// and reports spin changes to spin. If anim is nil, the controller never
// starts a timeline.
func NewController(anim PathAnimator, spin SpinSetter, lg *log.Logger) *Controller {
	return &Controller{anim: anim, spin: spin, lg: lg}
}

// Start cancels the live timeline, if any, and starts a new one that
// flies from start to end and back.
func (c *Controller) Start(now time.Time, start, end [2]float32) {
	if c.anim == nil {
		c.lg.Debug("no path animator; not starting flight")
		return
	}

	c.Cancel()
	c.live = newTimeline(now, start, end)
	c.marker = c.live.marker
	c.lg.Debug("started flight", slog.Any("start", start), slog.Any("end", end))
}

// Cancel kills the live timeline.
func (c *Controller) Cancel() {
	if c.live != nil {
		c.live.Kill()
		c.live = nil
	}
	c.marker = Marker{}
}

// Live returns the number of live timelines, which is either zero or one.
func (c *Controller) Live() int {
	if c.live != nil && !c.live.Killed() {
		return 1
	}
	return 0
}

func (c *Controller) Phase() Phase {
	if c.live == nil {
		return Idle
	}
	return c.live.Phase()
}

// Advance runs the live timeline up to now and returns the marker's
// state; the marker is not visible if there is no live timeline.
func (c *Controller) Advance(now time.Time) Marker {
	if c.live != nil {
		c.marker = c.live.Advance(now, c.anim, c.spin)
	}
	return c.marker
}

func (c *Controller) Marker() Marker {
	return c.marker
}
