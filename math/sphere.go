// math/sphere.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Points on the globe are represented as unit vectors with y pointing
// north and z pointing toward the viewer. Latitudes and longitudes are in
// radians unless a function's name says otherwise.

// VecFromLatLon returns the unit vector for the given latitude and
// longitude.
func VecFromLatLon(lat, lon float32) [3]float32 {
	slat, clat := SinCos(lat)
	slon, clon := SinCos(lon)
	return [3]float32{clat * clon, slat, clat * slon}
}

// VecFromLatLonDegrees is a convenience wrapper around VecFromLatLon for
// angles given in degrees.
func VecFromLatLonDegrees(lat, lon float32) [3]float32 {
	return VecFromLatLon(Radians(lat), Radians(lon))
}

// VecToLatLon is the inverse of VecFromLatLon. v need not be exactly unit
// length; y is clamped to [-1,1] before the arcsine.
func VecToLatLon(v [3]float32) (lat, lon float32) {
	return SafeASin(v[1]), Atan2(v[2], v[0])
}

// RotateX rotates v by a radians about the x axis.
func RotateX(v [3]float32, a float32) [3]float32 {
	s, c := SinCos(a)
	return [3]float32{v[0], v[1]*c - v[2]*s, v[1]*s + v[2]*c}
}

// RotateY rotates v by a radians about the y axis.
func RotateY(v [3]float32, a float32) [3]float32 {
	s, c := SinCos(a)
	return [3]float32{v[0]*c + v[2]*s, v[1], -v[0]*s + v[2]*c}
}

// RotateSphere applies the globe's orientation to v: first the fixed
// pitch about x, then the accumulated spin about y. All forward
// transformations go through here so that the composition order is the
// same everywhere.
func RotateSphere(v [3]float32, pitch, spin float32) [3]float32 {
	return RotateY(RotateX(v, pitch), spin)
}

// UnrotateSphere is the exact inverse of RotateSphere.
func UnrotateSphere(v [3]float32, pitch, spin float32) [3]float32 {
	return RotateX(RotateY(v, -spin), -pitch)
}

// Slerp returns the point t of the way along the great circle from a to
// b. When a and b (nearly) coincide, a is returned unchanged.
// Antipodal points are joined through the north pole unless a is itself a
// pole.
func Slerp(a, b [3]float32, t float32) [3]float32 {
	omega := SafeACos(Dot3f(a, b))
	if omega < 1e-6 {
		return a
	}
	so := Sin(omega)
	if so < 1e-6 {
		// Antipodal; any great circle will do, so go through the pole.
		return Normalize3f([3]float32{a[0] * (1 - 2*t), a[1] + Sin(t*Pi), a[2] * (1 - 2*t)})
	}
	wa, wb := Sin((1-t)*omega)/so, Sin(t*omega)/so
	return [3]float32{
		wa*a[0] + wb*b[0],
		wa*a[1] + wb*b[1],
		wa*a[2] + wb*b[2],
	}
}
