// globe/anchor.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"github.com/neuralstage/globe/math"
)

// ResolveAnchor returns the latitude and longitude, in degrees, of the
// point on the globe under the node with the given label, undoing the
// current rotation so that the result stays fixed as the globe turns.
func (s *Scene) ResolveAnchor(label string) (lat, lon float32, ok bool) {
	n, ok := s.Node(label)
	if !ok || n.Base == ([2]float32{}) {
		return 0, 0, false
	}

	v, ok := math.InverseProjectToSphere(n.Base, s.Layout.Center(), s.Layout.Radius)
	if !ok {
		return 0, 0, false
	}
	lat, lon = math.VecToLatLon(math.UnrotateSphere(v, Pitch, s.RotY))
	return math.Degrees(lat), math.Degrees(lon), true
}
