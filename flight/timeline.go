// flight/timeline.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	"time"

	"github.com/neuralstage/globe/math"
)

const (
	FadeInDuration  = 800 * time.Millisecond
	LegDuration     = 7 * time.Second
	FadeOutDuration = 350 * time.Millisecond
	RepeatDelay     = 500 * time.Millisecond

	// The outbound leg starts before the fade-in finishes and the fade-out
	// starts before the marker is back home.
	OutboundStart = FadeInDuration - 400*time.Millisecond
	ReturnStart   = OutboundStart + LegDuration
	ReturnEnd     = ReturnStart + LegDuration
	FadeOutStart  = ReturnEnd - 200*time.Millisecond
	IdleStart     = FadeOutStart + FadeOutDuration

	// CyclePeriod is the length of one loop of the timeline, including
	// the delay before the next one.
	CyclePeriod = IdleStart + RepeatDelay

	// AutoRotate is the offset, in degrees, between the path tangent and
	// the marker's rotation.
	AutoRotate = 65
)

const (
	// SpinOutbound is the spin direction while the marker is (or is about
	// to be) heading out; SpinReturn is used on the way back.
	SpinOutbound float32 = -1
	SpinReturn   float32 = 1
)

type Phase int

const (
	Idle Phase = iota
	FadeIn
	Outbound
	Return
	FadeOut
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case FadeIn:
		return "FadeIn"
	case Outbound:
		return "Outbound"
	case Return:
		return "Return"
	case FadeOut:
		return "FadeOut"
	default:
		return "(unknown phase)"
	}
}

// phaseAt returns the most recently started phase at offset t in a cycle.
func phaseAt(t time.Duration) Phase {
	switch {
	case t >= IdleStart:
		return Idle
	case t >= FadeOutStart:
		return FadeOut
	case t >= ReturnStart:
		return Return
	case t >= OutboundStart:
		return Outbound
	default:
		return FadeIn
	}
}

// Marker is the state of the moving flight marker.
type Marker struct {
	Pos      [2]float32
	Rotation float32 // degrees, clockwise
	Opacity  float32
	Scale    float32
	Visible  bool
}

// spinEvent changes the globe's spin direction at an offset into each
// cycle.
type spinEvent struct {
	at  time.Duration
	dir float32
}

// The spin changes of a cycle, in order: reverse on arrival, then back
// again once the marker is home.
var cycleEvents = []spinEvent{
	{at: ReturnStart, dir: SpinReturn},
	{at: ReturnEnd, dir: SpinOutbound},
}

// Timeline is one looping run of the flight animation between two fixed
// points. It is driven by calls to Advance with increasing times.
type Timeline struct {
	Start, End [2]float32
	Outbound   Leg
	Return     Leg

	t0        time.Time
	cycle     int
	nextEvent int
	killed    bool

	phase  Phase
	marker Marker
}

func newTimeline(now time.Time, start, end [2]float32) *Timeline {
	return &Timeline{
		Start:    start,
		End:      end,
		Outbound: MakeLeg(start, end, LegDuration),
		Return:   MakeLeg(end, start, LegDuration),
		t0:       now,
		phase:    FadeIn,
		marker:   Marker{Pos: start, Scale: 0.8, Visible: true},
	}
}

// Kill stops the timeline; it ignores all subsequent calls to Advance.
func (tl *Timeline) Kill() {
	tl.killed = true
	tl.marker.Visible = false
}

func (tl *Timeline) Killed() bool {
	return tl.killed
}

func (tl *Timeline) Phase() Phase {
	return tl.phase
}

func (tl *Timeline) Cycle() int {
	return tl.cycle
}

// Advance moves the timeline forward to now. Events that were passed over
// are fired in order, including those left in a cycle that now ended.
func (tl *Timeline) Advance(now time.Time, anim PathAnimator, spin SpinSetter) Marker {
	if tl.killed {
		return tl.marker
	}

	elapsed := max(now.Sub(tl.t0), 0)
	for {
		cycleStart := time.Duration(tl.cycle) * CyclePeriod
		if tl.nextEvent == len(cycleEvents) {
			if elapsed < cycleStart+CyclePeriod {
				break
			}
			tl.cycle++
			tl.nextEvent = 0
			continue
		}

		ev := cycleEvents[tl.nextEvent]
		if cycleStart+ev.at > elapsed {
			break
		}
		tl.fire(ev, spin)
		tl.nextEvent++
	}

	t := elapsed - time.Duration(tl.cycle)*CyclePeriod
	tl.phase = phaseAt(t)
	tl.marker = tl.markerAt(t, anim)
	return tl.marker
}

func (tl *Timeline) fire(ev spinEvent, spin SpinSetter) {
	if spin != nil {
		spin.SetSpin(ev.dir)
	}
}

// markerAt returns the marker state at offset t into the current cycle.
func (tl *Timeline) markerAt(t time.Duration, anim PathAnimator) Marker {
	m := Marker{Visible: true}

	switch {
	case t < FadeInDuration:
		x := Power2Out(fraction(t, FadeInDuration))
		m.Opacity, m.Scale = x, math.Lerp(x, 0.8, 1)
	case t < FadeOutStart:
		m.Opacity, m.Scale = 1, 1
	default:
		x := Power2Out(fraction(t-FadeOutStart, FadeOutDuration))
		m.Opacity, m.Scale = math.Lerp(x, 1, 0.85), math.Lerp(x, 1, 0.95)
	}

	switch {
	case t < OutboundStart:
		m.Pos = tl.Start
	case t < ReturnStart:
		m.Pos, m.Rotation = anim.Sample(tl.Outbound, t-OutboundStart)
	case t < ReturnEnd:
		m.Pos, m.Rotation = anim.Sample(tl.Return, t-ReturnStart)
	default:
		// Home again, still pointed the way it arrived.
		_, m.Rotation = anim.Sample(tl.Return, LegDuration)
		m.Pos = tl.Start
	}
	return m
}

func fraction(t, d time.Duration) float32 {
	if d <= 0 {
		return 1
	}
	return math.Saturate(float32(t) / float32(d))
}
