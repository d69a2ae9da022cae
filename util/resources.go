// util/resources.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ResourcesMarker is the subdirectory whose presence identifies a
// resources directory when searching for one.
const ResourcesMarker = "outlines"

var ErrNoResources = errors.New("unable to find resources directory")

var resourcesFS fs.StatFS

// InitResources sets up the filesystem that LoadResource and friends read
// from. If dir is empty, the current directory and the two directories
// above it are searched for a resources/ directory.
func InitResources(dir string) (fs.StatFS, error) {
	if dir == "" {
		var err error
		if dir, err = FindResourcesDir(); err != nil {
			return nil, err
		}
	} else if fi, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}

	fsys, ok := os.DirFS(dir).(fs.StatFS)
	if !ok {
		panic("FS from DirFS is not a StatFS?")
	}
	resourcesFS = fsys
	return fsys, nil
}

// FindResourcesDir returns the path to the resources directory, searching
// upward from the current working directory.
func FindResourcesDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Try CWD as well as the two directories above it
	for range 3 {
		candidate := filepath.Join(dir, "resources")
		if _, err := os.Stat(filepath.Join(candidate, ResourcesMarker)); err == nil {
			return candidate, nil
		}
		dir = filepath.Dir(dir)
	}
	return "", ErrNoResources
}

// Unfortunately, unlike io.ReadCloser, the zstd Decoder's Close() method
// doesn't return an error, so we need to make our own custom ReadCloser
// interface.
type ResourceReadCloser interface {
	io.Reader
	Close()
}

type bytesReadCloser struct {
	*bytes.Reader
}

func (bytesReadCloser) Close() {}

// OpenResource provides a ResourceReadCloser to access the specified file
// in fsys; if it's zstd compressed, the Reader will handle decompression
// transparently.
func OpenResource(fsys fs.FS, path string) (ResourceReadCloser, error) {
	f, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	br := bytesReadCloser{bytes.NewReader(f)}

	if filepath.Ext(path) == ".zst" {
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return zr, nil
	}

	return br, nil
}

// ReadResource returns the (decompressed) contents of the given file in
// fsys.
func ReadResource(fsys fs.FS, path string) ([]byte, error) {
	r, err := OpenResource(fsys, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadResource is like ReadResource, but reads from the filesystem set up
// by InitResources.
func LoadResource(path string) ([]byte, error) {
	if resourcesFS == nil {
		return nil, ErrNoResources
	}
	return ReadResource(resourcesFS, path)
}

// ResourceExists returns true if the specified file exists in fsys.
func ResourceExists(fsys fs.StatFS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
