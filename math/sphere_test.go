// math/sphere_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func near(a, b, eps float32) bool {
	return Abs(a-b) <= eps
}

func near3f(a, b [3]float32, eps float32) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps) && near(a[2], b[2], eps)
}

func TestLatLonRoundTrip(t *testing.T) {
	for lat := float32(-80); lat <= 80; lat += 20 {
		for lon := float32(-170); lon <= 170; lon += 34 {
			v := VecFromLatLonDegrees(lat, lon)
			if !near(Length3f(v), 1, 1e-5) {
				t.Errorf("(%f,%f): got length %f, expected 1", lat, lon, Length3f(v))
			}
			la, lo := VecToLatLon(v)
			if !near(Degrees(la), lat, 1e-3) || !near(Degrees(lo), lon, 1e-3) {
				t.Errorf("(%f,%f): round trip gave (%f,%f)", lat, lon, Degrees(la), Degrees(lo))
			}
		}
	}
}

func TestLatLonAxes(t *testing.T) {
	for _, tc := range []struct {
		lat, lon float32
		v        [3]float32
	}{
		{0, 0, [3]float32{1, 0, 0}},
		{90, 0, [3]float32{0, 1, 0}},
		{0, 90, [3]float32{0, 0, 1}},
		{-90, 45, [3]float32{0, -1, 0}},
	} {
		if v := VecFromLatLonDegrees(tc.lat, tc.lon); !near3f(v, tc.v, 1e-6) {
			t.Errorf("(%f,%f): got %v, expected %v", tc.lat, tc.lon, v, tc.v)
		}
	}
}

func TestRotationPreservesNorm(t *testing.T) {
	vs := [][3]float32{{1, 0, 0}, {0, 1, 0}, {0.3, -0.4, 0.5}, {-2, 1, 3}}
	for _, v := range vs {
		l := Length3f(v)
		for a := float32(-7); a < 7; a += 0.37 {
			if rl := Length3f(RotateX(v, a)); !near(rl, l, 1e-4*l) {
				t.Errorf("RotateX(%v, %f): length %f, expected %f", v, a, rl, l)
			}
			if rl := Length3f(RotateY(v, a)); !near(rl, l, 1e-4*l) {
				t.Errorf("RotateY(%v, %f): length %f, expected %f", v, a, rl, l)
			}
		}
	}
}

func TestRotateDirections(t *testing.T) {
	// A quarter turn about y takes +x to -z and +z to +x.
	if v := RotateY([3]float32{1, 0, 0}, PiOver2); !near3f(v, [3]float32{0, 0, -1}, 1e-6) {
		t.Errorf("RotateY(+x): got %v", v)
	}
	if v := RotateY([3]float32{0, 0, 1}, PiOver2); !near3f(v, [3]float32{1, 0, 0}, 1e-6) {
		t.Errorf("RotateY(+z): got %v", v)
	}
	// A quarter turn about x takes +y to +z.
	if v := RotateX([3]float32{0, 1, 0}, PiOver2); !near3f(v, [3]float32{0, 0, 1}, 1e-6) {
		t.Errorf("RotateX(+y): got %v", v)
	}
}

func TestUnrotateSphere(t *testing.T) {
	for _, pitch := range []float32{-0.38, 0, 0.7} {
		for spin := float32(-20); spin < 20; spin += 2.9 {
			for lat := float32(-75); lat <= 75; lat += 25 {
				for lon := float32(-160); lon <= 160; lon += 40 {
					v := VecFromLatLonDegrees(lat, lon)
					r := UnrotateSphere(RotateSphere(v, pitch, spin), pitch, spin)
					if !near3f(r, v, 1e-4) {
						t.Errorf("pitch %f spin %f: %v came back as %v", pitch, spin, v, r)
					}
				}
			}
		}
	}
}

func TestRotateSphereOrder(t *testing.T) {
	// Pitch is applied before spin; the other order gives a different
	// result for a generic point.
	v := VecFromLatLonDegrees(20, 30)
	a := RotateSphere(v, -0.38, 1.1)
	b := RotateX(RotateY(v, 1.1), -0.38)
	if near3f(a, b, 1e-3) {
		t.Errorf("composition order is not observable: %v vs %v", a, b)
	}
	if c := RotateY(RotateX(v, -0.38), 1.1); !near3f(a, c, 1e-6) {
		t.Errorf("RotateSphere: got %v, expected %v", a, c)
	}
}

func TestSlerp(t *testing.T) {
	a := VecFromLatLonDegrees(40, -100)
	b := VecFromLatLonDegrees(7, 0)

	for _, tt := range []float32{0, 0.25, 0.5, 1} {
		if s := Slerp(a, a, tt); s != a {
			t.Errorf("Slerp(a, a, %f) = %v, expected %v", tt, s, a)
		}
	}

	if s := Slerp(a, b, 0); !near3f(s, a, 1e-5) {
		t.Errorf("Slerp(a, b, 0) = %v, expected %v", s, a)
	}
	if s := Slerp(a, b, 1); !near3f(s, b, 1e-5) {
		t.Errorf("Slerp(a, b, 1) = %v, expected %v", s, b)
	}

	omega := SafeACos(Dot3f(a, b))
	for tt := float32(0.1); tt < 1; tt += 0.2 {
		s := Slerp(a, b, tt)
		if !near(Length3f(s), 1, 1e-5) {
			t.Errorf("Slerp(a, b, %f) has length %f", tt, Length3f(s))
		}
		// Constant angular speed
		if ang := SafeACos(Dot3f(a, s)); !near(ang, tt*omega, 1e-4) {
			t.Errorf("Slerp(a, b, %f): angle from a %f, expected %f", tt, ang, tt*omega)
		}
	}
}
