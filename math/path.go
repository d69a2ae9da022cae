// math/path.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Fractions along the chord where the two inner control points are
// placed, and the size of the bow relative to the chord length.
const (
	controlPoint1Fraction = 0.33
	controlPoint2Fraction = 0.67
	controlPointBow       = 0.05
)

// ControlPoints returns the two inner control points of the gently bowed
// cubic path from start to end. The bow is to the right of the direction
// of travel, so the path back from end to start bows to the other side
// and the two legs are not mirror images.
func ControlPoints(start, end [2]float32) (cp1, cp2 [2]float32) {
	d := Sub2f(end, start)
	l := Length2f(d)
	if l == 0 {
		l = 1
	}
	offset := controlPointBow * l
	perp := Scale2f([2]float32{d[1] / l, -d[0] / l}, offset*0.5)

	cp1 = Add2f(Add2f(start, Scale2f(d, controlPoint1Fraction)), perp)
	cp2 = Add2f(Add2f(start, Scale2f(d, controlPoint2Fraction)), perp)
	return
}

// CubicBezier evaluates the cubic Bezier curve with control points p at
// t in [0,1].
func CubicBezier(p [4][2]float32, t float32) [2]float32 {
	u := 1 - t
	b0, b1, b2, b3 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return [2]float32{
		b0*p[0][0] + b1*p[1][0] + b2*p[2][0] + b3*p[3][0],
		b0*p[0][1] + b1*p[1][1] + b2*p[2][1] + b3*p[3][1],
	}
}

// CubicBezierTangent returns the derivative of the curve at t.
func CubicBezierTangent(p [4][2]float32, t float32) [2]float32 {
	u := 1 - t
	d0, d1, d2 := 3*u*u, 6*u*t, 3*t*t
	return [2]float32{
		d0*(p[1][0]-p[0][0]) + d1*(p[2][0]-p[1][0]) + d2*(p[3][0]-p[2][0]),
		d0*(p[1][1]-p[0][1]) + d1*(p[2][1]-p[1][1]) + d2*(p[3][1]-p[2][1]),
	}
}
