// outline/path.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package outline turns landmass outlines, stored as SVG-style move/line
// path descriptions, into decimated point sequences that can be draped
// over the globe.
package outline

import (
	"regexp"
	"strconv"
)

// ViewBoxSize is the size of the square coordinate system that outline
// paths are authored in.
const ViewBoxSize = 1024

var pathToken = regexp.MustCompile(`[MLZ]|-?\d+(?:\.\d+)?`)

// ParsePath returns the points of the path description d, mapped from the
// view box to [-0.5,0.5]^2 and decimated so that only every stride-th
// point is kept. The final point of the path is always included so that
// closed outlines stay closed.
//
// Only absolute M and L commands are understood; Z ends a subpath without
// adding a point and anything else is ignored.
func ParsePath(d string, stride int) [][2]float32 {
	if d == "" {
		return nil
	}

	tokens := pathToken.FindAllString(d, -1)
	var pts [][2]float32
	var cmd string
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		i++
		switch tok {
		case "M", "L", "Z":
			cmd = tok
			continue
		}

		if cmd != "M" && cmd != "L" {
			continue
		}

		// Coordinates always come in pairs; the y token is consumed even
		// if it turns out not to be a number.
		x, errx := strconv.ParseFloat(tok, 32)
		var ytok string
		if i < len(tokens) {
			ytok = tokens[i]
		}
		i++
		y, erry := strconv.ParseFloat(ytok, 32)
		if errx != nil || erry != nil {
			continue
		}
		pts = append(pts, [2]float32{float32(x)/ViewBoxSize - 0.5, float32(y)/ViewBoxSize - 0.5})
	}

	return Decimate(pts, stride)
}

// Decimate keeps every stride-th point of pts starting with the first,
// plus the last point. Short sequences and strides of 1 or less are
// returned unchanged.
func Decimate(pts [][2]float32, stride int) [][2]float32 {
	if len(pts) <= 2 || stride <= 1 {
		return pts
	}

	dec := make([][2]float32, 0, len(pts)/stride+2)
	for i := 0; i < len(pts); i += stride {
		dec = append(dec, pts[i])
	}
	if (len(pts)-1)%stride != 0 {
		dec = append(dec, pts[len(pts)-1])
	}
	return dec
}

// Centroid returns the mean of the given points, or the origin if there
// are none.
func Centroid(pts [][2]float32) [2]float32 {
	if len(pts) == 0 {
		return [2]float32{}
	}
	var sx, sy float32
	for _, p := range pts {
		sx += p[0]
		sy += p[1]
	}
	n := float32(len(pts))
	return [2]float32{sx / n, sy / n}
}
