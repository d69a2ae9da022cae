// cmd/globe/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neuralstage/globe/globe"
	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/platform"
	"github.com/neuralstage/globe/util"

	"github.com/spf13/viper"
)

// CurrentConfigVersion is bumped when a change to Config means that old
// saved configurations should be discarded.
const CurrentConfigVersion = 1

type Config struct {
	platform.Config `mapstructure:",squash"`

	Version int
	Scene   globe.Options
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "Globe")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func getDefaultConfig() *Config {
	return &Config{
		Config: platform.Config{
			InitialWindowPosition: [2]int{100, 100},
		},
		Version: CurrentConfigVersion,
		Scene:   globe.DefaultOptions(),
	}
}

// newConfigReader returns a viper instance that knows the defaults for
// every setting, so that GLOBE_-prefixed environment variables (e.g.,
// GLOBE_SCENE_STARCOUNT) can override any of them.
func newConfigReader(fn string) *viper.Viper {
	def := getDefaultConfig()

	v := viper.New()
	v.SetConfigFile(fn)
	v.SetConfigType("json")
	v.SetEnvPrefix("GLOBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("version", def.Version)
	v.SetDefault("initialwindowsize", def.InitialWindowSize)
	v.SetDefault("initialwindowposition", def.InitialWindowPosition)
	v.SetDefault("enablemsaa", def.EnableMSAA)
	v.SetDefault("startinfullscreen", def.StartInFullScreen)
	v.SetDefault("fullscreenmonitor", def.FullScreenMonitor)
	v.SetDefault("scene.spinrate", def.Scene.SpinRate)
	v.SetDefault("scene.starcount", def.Scene.StarCount)
	v.SetDefault("scene.labelbreakpoint", def.Scene.LabelBreakpoint)
	v.SetDefault("scene.showlabels", def.Scene.ShowLabels)

	return v
}

// LoadConfig reads the configuration from fn. A missing file is not an
// error. If the file can't be used, the default configuration is
// returned along with an error describing what went wrong.
func LoadConfig(fn string, lg *log.Logger) (*Config, error) {
	lg.Infof("Loading config from: %s", fn)

	v := newConfigReader(fn)
	if _, err := os.Stat(fn); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return getDefaultConfig(), fmt.Errorf("%s: %w", fn, err)
		}
	} else if !os.IsNotExist(err) {
		return getDefaultConfig(), err
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return getDefaultConfig(), fmt.Errorf("%s: %w", fn, err)
	}

	if config.Version != CurrentConfigVersion {
		lg.Warnf("%s: discarding config with version %d", fn, config.Version)
		return getDefaultConfig(), nil
	}

	var e util.ErrorLogger
	config.Validate(&e)
	if e.HaveErrors() {
		return getDefaultConfig(), e.Err()
	}
	return config, nil
}

func (c *Config) Validate(e *util.ErrorLogger) {
	e.Push("config")
	defer e.Pop()

	if c.InitialWindowSize[0] < 0 || c.InitialWindowSize[1] < 0 {
		e.ErrorString("invalid window size %v", c.InitialWindowSize)
	}
	if c.FullScreenMonitor < 0 {
		e.ErrorString("invalid full screen monitor %d", c.FullScreenMonitor)
	}
	c.Scene.Validate(e)
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(fn string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", fn)
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

// SaveIfChanged writes the configuration to fn if it differs from what is
// there already; it returns true if the file was written.
func (c *Config) SaveIfChanged(fn string, lg *log.Logger) (bool, error) {
	onDisk, err := os.ReadFile(fn)
	if err != nil && !os.IsNotExist(err) {
		lg.Warnf("%s: unable to read config file: %v", fn, err)
	}

	var b strings.Builder
	if err = c.Encode(&b); err != nil {
		return false, fmt.Errorf("%s: unable to encode config: %w", fn, err)
	}

	if b.String() == string(onDisk) {
		return false, nil
	}

	return true, c.Save(fn, lg)
}
