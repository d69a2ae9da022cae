// outline/outline_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package outline

import (
	"bytes"
	"errors"
	"os"
	"slices"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"
)

func TestParsePath(t *testing.T) {
	type parseTest struct {
		name   string
		d      string
		stride int
		pts    [][2]float32
	}
	for _, tc := range []parseTest{
		{name: "Empty", d: "", stride: 6, pts: nil},
		{name: "Diagonal", d: "M 0 0 L 1024 1024", stride: 1,
			pts: [][2]float32{{-0.5, -0.5}, {0.5, 0.5}}},
		{name: "RepeatedPairs", d: "M0 0 L512 512 1024 0Z", stride: 1,
			pts: [][2]float32{{-0.5, -0.5}, {0, 0}, {0.5, -0.5}}},
		{name: "Negative", d: "M -512 256.0", stride: 3,
			pts: [][2]float32{{-1, -0.25}}},
		{name: "AfterClose", d: "M 0 0 L 512 512 Z 1024 1024", stride: 1,
			pts: [][2]float32{{-0.5, -0.5}, {0, 0}}},
		{name: "OddCount", d: "M 0 0 L 512", stride: 1,
			pts: [][2]float32{{-0.5, -0.5}}},
		{name: "ShortIgnoresStride", d: "M 0 0 L 1024 1024", stride: 7,
			pts: [][2]float32{{-0.5, -0.5}, {0.5, 0.5}}},
	} {
		pts := ParsePath(tc.d, tc.stride)
		if !slices.Equal(pts, tc.pts) {
			t.Errorf("%s: got %v, expected %v", tc.name, pts, tc.pts)
		}
	}
}

func TestDecimate(t *testing.T) {
	mk := func(n int) [][2]float32 {
		var p [][2]float32
		for i := range n {
			p = append(p, [2]float32{float32(i), 0})
		}
		return p
	}
	xs := func(p [][2]float32) []float32 {
		var x []float32
		for _, v := range p {
			x = append(x, v[0])
		}
		return x
	}

	for _, tc := range []struct {
		n, stride int
		x         []float32
	}{
		{10, 3, []float32{0, 3, 6, 9}},
		{11, 3, []float32{0, 3, 6, 9, 10}},
		{13, 6, []float32{0, 6, 12}},
		{5, 1, []float32{0, 1, 2, 3, 4}},
		{5, 0, []float32{0, 1, 2, 3, 4}},
		{2, 6, []float32{0, 1}},
	} {
		got := xs(Decimate(mk(tc.n), tc.stride))
		if !slices.Equal(got, tc.x) {
			t.Errorf("n=%d stride=%d: got %v, expected %v", tc.n, tc.stride, got, tc.x)
		}
	}
}

func TestCentroid(t *testing.T) {
	if c := Centroid(nil); c != [2]float32{} {
		t.Errorf("empty: got %v", c)
	}
	if c := Centroid([][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}); c != [2]float32{0.5, 0.5} {
		t.Errorf("square: got %v", c)
	}
}

type countingSource struct {
	MapSource
	mu    sync.Mutex
	calls map[string]int
}

func (s *countingSource) PathData(id string) (string, error) {
	s.mu.Lock()
	s.calls[id]++
	s.mu.Unlock()
	if id == "broken" {
		return "", errors.New("disk on fire")
	}
	return s.MapSource.PathData(id)
}

func TestCache(t *testing.T) {
	src := &countingSource{
		MapSource: MapSource{Africa: "M 0 0 L 100 0 L 200 0 L 300 0 L 400 0"},
		calls:     make(map[string]int),
	}
	c := NewCache(src, nil)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pts := c.Points(Africa, 2); len(pts) != 3 {
				t.Errorf("got %d points, expected 3", len(pts))
			}
		}()
	}
	wg.Wait()

	if src.calls[Africa] != 1 || c.parses != 1 {
		t.Errorf("outline was read %d times and parsed %d times, expected once", src.calls[Africa], c.parses)
	}

	// A different stride is a different key.
	if pts := c.Points(Africa, 1); len(pts) != 5 {
		t.Errorf("stride 1: got %d points, expected 5", len(pts))
	}
	if pts := c.Points(NorthAmerica, 6); len(pts) != 0 {
		t.Errorf("missing outline: got %d points, expected none", len(pts))
	}
	if pts := c.Points("broken", 6); len(pts) != 0 {
		t.Errorf("broken outline: got %d points, expected none", len(pts))
	}
	c.Points("broken", 6)
	if src.calls["broken"] != 1 {
		t.Errorf("failed outline was read %d times, expected once", src.calls["broken"])
	}
	if c.Len() != 4 {
		t.Errorf("cache has %d entries, expected 4", c.Len())
	}
}

func TestFSSource(t *testing.T) {
	const plain = "M 0 0 L 1024 0"
	const packed = "M 512 512 L 1024 1024"

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write([]byte(packed))
	zw.Close()

	fsys := fstest.MapFS{
		"outlines/north-america.path": &fstest.MapFile{Data: []byte(plain)},
		"outlines/africa.path.zst":    &fstest.MapFile{Data: buf.Bytes()},
		// The compressed version takes precedence.
		"outlines/africa.path": &fstest.MapFile{Data: []byte("M 0 0")},
	}
	src := FSSource{FS: fsys, Dir: "outlines"}

	for id, want := range map[string]string{NorthAmerica: plain, Africa: packed, "antarctica": ""} {
		d, err := src.PathData(id)
		if err != nil {
			t.Errorf("%s: %v", id, err)
		} else if d != want {
			t.Errorf("%s: got %q, expected %q", id, d, want)
		}
	}
}

func TestBundledOutlines(t *testing.T) {
	src := FSSource{FS: os.DirFS("../resources"), Dir: "outlines"}
	c := NewCache(src, nil)
	for _, tc := range []struct {
		id     string
		stride int
	}{{NorthAmerica, 6}, {Africa, 7}} {
		pts := c.Points(tc.id, tc.stride)
		if len(pts) < 20 {
			t.Errorf("%s: only %d points", tc.id, len(pts))
		}
		for _, p := range pts {
			if p[0] < -0.5 || p[0] > 0.5 || p[1] < -0.5 || p[1] > 0.5 {
				t.Errorf("%s: point %v outside the view box", tc.id, p)
				break
			}
		}
		if pts[0] != pts[len(pts)-1] {
			t.Errorf("%s: outline is not closed", tc.id)
		}
	}
}
