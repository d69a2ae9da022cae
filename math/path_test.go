// math/path_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func near2f(a, b [2]float32, eps float32) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps)
}

// projectOntoChord returns the fraction along ab of p's projection.
func projectOntoChord(a, b, p [2]float32) float32 {
	d := Sub2f(b, a)
	return Dot2f(Sub2f(p, a), d) / Dot2f(d, d)
}

func TestControlPoints(t *testing.T) {
	type cpTest struct {
		start, end [2]float32
	}
	for _, tc := range []cpTest{
		{[2]float32{100, 200}, [2]float32{500, 260}},
		{[2]float32{0, 0}, [2]float32{0, 100}},
		{[2]float32{300, 40}, [2]float32{-20, 400}},
	} {
		cp1, cp2 := ControlPoints(tc.start, tc.end)
		if f := projectOntoChord(tc.start, tc.end, cp1); !near(f, 0.33, 1e-4) {
			t.Errorf("%v->%v: cp1 at %f of the chord, expected 0.33", tc.start, tc.end, f)
		}
		if f := projectOntoChord(tc.start, tc.end, cp2); !near(f, 0.67, 1e-4) {
			t.Errorf("%v->%v: cp2 at %f of the chord, expected 0.67", tc.start, tc.end, f)
		}

		l := Distance2f(tc.start, tc.end)
		onChord := Lerp2f(0.33, tc.start, tc.end)
		if d := Distance2f(cp1, onChord); !near(d, 0.025*l, 1e-3*l) {
			t.Errorf("%v->%v: cp1 is %f off the chord, expected %f", tc.start, tc.end, d, 0.025*l)
		}

		// The return leg bows to the other side, so it is not the
		// outbound leg traversed backward.
		b1, b2 := ControlPoints(tc.end, tc.start)
		if near2f(b1, cp2, 1e-3) && near2f(b2, cp1, 1e-3) {
			t.Errorf("%v->%v: return leg mirrors the outbound leg", tc.start, tc.end)
		}
	}
}

func TestControlPointsDegenerate(t *testing.T) {
	p := [2]float32{10, 10}
	cp1, cp2 := ControlPoints(p, p)
	if cp1 != p || cp2 != p {
		t.Errorf("zero-length chord: got %v %v, expected %v", cp1, cp2, p)
	}
}

func TestCubicBezier(t *testing.T) {
	p := [4][2]float32{{0, 0}, {1, 2}, {3, 2}, {4, 0}}
	if v := CubicBezier(p, 0); v != p[0] {
		t.Errorf("t=0: got %v", v)
	}
	if v := CubicBezier(p, 1); !near2f(v, p[3], 1e-6) {
		t.Errorf("t=1: got %v", v)
	}
	if v := CubicBezier(p, 0.5); !near2f(v, [2]float32{2, 1.5}, 1e-6) {
		t.Errorf("t=0.5: got %v", v)
	}

	// Tangent matches a finite difference.
	for _, tt := range []float32{0.1, 0.4, 0.8} {
		const h = 1e-3
		fd := Scale2f(Sub2f(CubicBezier(p, tt+h), CubicBezier(p, tt-h)), 1/(2*h))
		if d := CubicBezierTangent(p, tt); !near2f(d, fd, 2e-2) {
			t.Errorf("t=%f: tangent %v, finite difference %v", tt, d, fd)
		}
	}
	if d := CubicBezierTangent(p, 0); !near2f(d, [2]float32{3, 6}, 1e-6) {
		t.Errorf("t=0: tangent %v", d)
	}
}
