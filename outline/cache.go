// outline/cache.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package outline

import (
	"log/slog"
	"sync"

	"github.com/neuralstage/globe/log"
)

type Key struct {
	ID     string
	Stride int
}

// Cache memoizes parsed outlines. Entries are never evicted: there are
// only a handful of (outline, stride) pairs and they are needed on every
// frame. It is safe for concurrent use.
type Cache struct {
	src Source
	lg  *log.Logger

	mu      sync.Mutex
	entries map[Key][][2]float32
	// Number of times a path was parsed; used by tests.
	parses int
}

func NewCache(src Source, lg *log.Logger) *Cache {
	return &Cache{
		src:     src,
		lg:      lg,
		entries: make(map[Key][][2]float32),
	}
}

// Points returns the decimated points of the outline id. The returned
// slice is shared and must not be modified. Errors reading the source are
// logged and result in an empty (and cached) outline.
func (c *Cache) Points(id string, stride int) [][2]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := Key{ID: id, Stride: stride}
	if pts, ok := c.entries[k]; ok {
		return pts
	}

	var d string
	if c.src != nil {
		var err error
		if d, err = c.src.PathData(id); err != nil {
			c.lg.Warn("unable to read outline", slog.String("id", id), slog.Any("error", err))
			d = ""
		}
	}
	if d == "" {
		c.lg.Warn("empty outline", slog.String("id", id))
	}

	pts := ParsePath(d, stride)
	c.parses++
	c.entries[k] = pts
	c.lg.Debug("parsed outline", slog.String("id", id), slog.Int("stride", stride),
		slog.Int("points", len(pts)))
	return pts
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
