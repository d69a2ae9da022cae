// cmd/globe/config_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neuralstage/globe/globe"
)

func TestLoadConfigMissing(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "config.json")
	c, err := LoadConfig(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Scene != globe.DefaultOptions() {
		t.Errorf("scene options %+v, expected defaults", c.Scene)
	}
	if c.InitialWindowPosition != [2]int{100, 100} {
		t.Errorf("window position %v", c.InitialWindowPosition)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "config.json")

	c := getDefaultConfig()
	c.InitialWindowSize = [2]int{1024, 768}
	c.EnableMSAA = true
	c.Scene.StarCount = 300
	c.Scene.ShowLabels = false

	if wrote, err := c.SaveIfChanged(fn, nil); err != nil || !wrote {
		t.Fatalf("first save: wrote %v err %v", wrote, err)
	}
	if wrote, err := c.SaveIfChanged(fn, nil); err != nil || wrote {
		t.Errorf("unchanged config saved again: wrote %v err %v", wrote, err)
	}

	l, err := LoadConfig(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.InitialWindowSize != c.InitialWindowSize || !l.EnableMSAA {
		t.Errorf("platform config %+v, expected %+v", l.Config, c.Config)
	}
	if l.Scene != c.Scene {
		t.Errorf("scene options %+v, expected %+v", l.Scene, c.Scene)
	}
}

func TestConfigEnvironment(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "config.json")
	if err := getDefaultConfig().Save(fn, nil); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GLOBE_SCENE_STARCOUNT", "50")
	t.Setenv("GLOBE_SCENE_SHOWLABELS", "false")

	c, err := LoadConfig(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Scene.StarCount != 50 {
		t.Errorf("star count %d, expected 50", c.Scene.StarCount)
	}
	if c.Scene.ShowLabels {
		t.Errorf("labels not disabled through the environment")
	}
	if c.Scene.SpinRate != globe.DefaultOptions().SpinRate {
		t.Errorf("spin rate %f changed", c.Scene.SpinRate)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		fn := filepath.Join(dir, name)
		if err := os.WriteFile(fn, []byte(contents), 0o600); err != nil {
			t.Fatal(err)
		}
		return fn
	}

	for _, test := range []struct {
		name, contents, err string
	}{
		{name: "corrupt.json", contents: `{"Version": 1, "Scene": {`},
		{name: "stars.json", contents: `{"Version": 1, "Scene": {"StarCount": 1}}`, err: "config / scene: star count 1"},
		{name: "spin.json", contents: `{"Version": 1, "Scene": {"SpinRate": -1}}`, err: "spin rate"},
		{name: "monitor.json", contents: `{"Version": 1, "FullScreenMonitor": -2}`, err: "full screen monitor"},
	} {
		c, err := LoadConfig(write(test.name, test.contents), nil)
		if err == nil {
			t.Errorf("%s: expected an error", test.name)
		} else if test.err != "" && !strings.Contains(err.Error(), test.err) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.err)
		}
		if c == nil || c.Scene != globe.DefaultOptions() {
			t.Errorf("%s: defaults not returned with the error", test.name)
		}
	}

	// Old versions are quietly replaced.
	c, err := LoadConfig(write("old.json", `{"Version": 0, "Scene": {"StarCount": 10}}`), nil)
	if err != nil || c.Scene.StarCount != globe.DefaultOptions().StarCount {
		t.Errorf("old config: %+v, %v", c.Scene, err)
	}
}
