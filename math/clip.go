// math/clip.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// ClipSegmentToDisc clips the segment ab to the disc with the given center
// and radius. If no part of the segment is inside the disc, false is
// returned.
func ClipSegmentToDisc(a, b [2]float32, center [2]float32, r float32) ([2]float32, [2]float32, bool) {
	// Solve |a + t (b-a) - center|^2 = r^2 for t and intersect the
	// resulting interval with [0,1].
	d := Sub2f(b, a)
	f := Sub2f(a, center)
	qa := Dot2f(d, d)
	qb := 2 * Dot2f(f, d)
	qc := Dot2f(f, f) - r*r

	if qa == 0 {
		// Degenerate segment
		return a, b, qc <= 0
	}

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return a, b, false
	}
	sd := Sqrt(disc)
	t0, t1 := (-qb-sd)/(2*qa), (-qb+sd)/(2*qa)
	t0, t1 = max(t0, 0), min(t1, 1)
	if t0 >= t1 {
		return a, b, false
	}
	ca, cb := a, b
	if t0 > 0 {
		ca = Add2f(a, Scale2f(d, t0))
	}
	if t1 < 1 {
		cb = Add2f(a, Scale2f(d, t1))
	}
	return ca, cb, true
}

// RadialGradientT returns the parameter t of the two-circle radial
// gradient from (c0, r0) to (c1, r1) at the point p: the largest t for
// which p lies on the circle centered at lerp(c0, c1, t) with radius
// lerp(r0, r1, t). The result is clamped to [0,1].
func RadialGradientT(p, c0 [2]float32, r0 float32, c1 [2]float32, r1 float32) float32 {
	// |p - c0 - t cd|^2 = (r0 + t dr)^2
	cd := Sub2f(c1, c0)
	pd := Sub2f(p, c0)
	dr := r1 - r0

	a := Dot2f(cd, cd) - dr*dr
	b := Dot2f(pd, cd) + r0*dr
	c := Dot2f(pd, pd) - r0*r0

	var t float32
	if Abs(a) < 1e-6 {
		if b == 0 {
			return 0
		}
		t = c / (2 * b)
	} else {
		disc := b*b - a*c
		if disc < 0 {
			return 0
		}
		sd := Sqrt(disc)
		t0, t1 := (b+sd)/a, (b-sd)/a
		t = max(t0, t1)
		if r0+t*dr < 0 {
			t = min(t0, t1)
		}
	}
	return Saturate(t)
}
