// outline/source.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package outline

import (
	"errors"
	"io/fs"
	"path"

	"github.com/neuralstage/globe/util"
)

// Outline identifiers for the landmasses drawn on the globe.
const (
	NorthAmerica = "north-america"
	Africa       = "africa"
)

// Source provides path descriptions by id. An unknown id is not an
// error; it yields an empty description.
type Source interface {
	PathData(id string) (string, error)
}

// FSSource reads path descriptions from files named <id>.path.zst or
// <id>.path in the directory Dir of an fs.FS.
type FSSource struct {
	FS  fs.FS
	Dir string
}

func (s FSSource) PathData(id string) (string, error) {
	for _, fn := range []string{id + ".path.zst", id + ".path"} {
		b, err := util.ReadResource(s.FS, path.Join(s.Dir, fn))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", nil
}

// MapSource serves path descriptions from memory.
type MapSource map[string]string

func (m MapSource) PathData(id string) (string, error) {
	return m[id], nil
}
