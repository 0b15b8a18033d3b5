// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/warthog618/blink"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/blob/loader/file"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
)

// settings is the resolved configuration for a session.
type settings struct {
	Driver      string
	Pin         int
	LED         string
	ActiveLow   bool
	LogLevel    string
	MetricsAddr string
	Presets     *blink.Presets
}

// flagKeys maps the persistent flags onto config keys.
var flagKeys = map[string]string{
	"config":       "config.file",
	"driver":       "driver",
	"pin":          "pin",
	"led":          "led",
	"active-low":   "active.low",
	"log-level":    "log.level",
	"metrics-addr": "metrics.addr",
}

func defaultConfig() map[string]interface{} {
	presets := map[string]interface{}{}
	def := blink.DefaultPresets()
	for _, name := range def.Names() {
		p, _ := def.Lookup(name)
		presets[name] = map[string]interface{}{
			"interval": p.Interval.String(),
			"on":       p.OnDuration.String(),
		}
	}
	return map[string]interface{}{
		"driver": "rpi",
		"pin":    "J8p7",
		"led":    "ACT",
		"active": map[string]interface{}{
			"low": false,
		},
		"log": map[string]interface{}{
			"level": "info",
		},
		"metrics": map[string]interface{}{
			"addr": "",
		},
		"default": map[string]interface{}{
			"preset": def.Default(),
		},
		"presets": presets,
	}
}

// getter is a configuration source that may hold a tree of values.
type getter interface {
	Get(key string) (interface{}, bool)
}

// loadConfig stacks the configuration sources, highest priority first:
// flags set on the command line, the environment, the config file and
// finally the defaults.
// It also returns the names of the presets defined by any of the sources.
func loadConfig(flags *pflag.FlagSet) (*config.Config, []string, error) {
	def := dict.New(dict.WithMap(defaultConfig()))
	fget := dict.New(dict.WithMap(changedFlags(flags)))
	eget := env.New(env.WithEnvPrefix(envPrefix))
	sources := config.NewStack(fget, eget)
	cfg := config.New(sources, config.WithDefault(def))

	// config file may be specified via flag or env, so check for it
	// and if present add it with lower priority than flag and env.
	jsondec := json.NewDecoder()
	var jget getter
	if configFile, err := cfg.Get("config.file"); err == nil {
		// explicitly specified config file - must be there
		var ferr error
		jget = blob.New(file.New(configFile.String()), jsondec,
			blob.WithErrorHandler(func(err error) {
				ferr = err
			}))
		if ferr != nil {
			return nil, nil, errors.Wrapf(ferr, "config file '%s'", configFile.String())
		}
	} else {
		// implicit and optional default config file
		jget = blob.New(file.New("blinkio.json"), jsondec)
	}
	sources.Append(jget)
	return cfg, presetNames(os.Environ(), jget), nil
}

const envPrefix = "BLINK_"

// presetNames returns the sorted names of the built-in presets and those
// defined in the trees or by BLINK_PRESETS_<NAME>_* variables in the
// environment.
func presetNames(environ []string, trees ...getter) []string {
	names := map[string]bool{}
	for _, name := range blink.DefaultPresets().Names() {
		names[name] = true
	}
	for _, t := range trees {
		v, ok := t.Get("presets")
		if !ok {
			continue
		}
		if m, ok := v.(map[string]interface{}); ok {
			for name := range m {
				names[strings.ToLower(name)] = true
			}
		}
	}
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		rest, ok := strings.CutPrefix(k, envPrefix+"PRESETS_")
		if !ok {
			continue
		}
		if name, _, ok := strings.Cut(rest, "_"); ok && name != "" {
			names[strings.ToLower(name)] = true
		}
	}
	nn := make([]string, 0, len(names))
	for name := range names {
		nn = append(nn, name)
	}
	sort.Strings(nn)
	return nn
}

// changedFlags returns the flags explicitly set on the command line as a
// config tree.
func changedFlags(flags *pflag.FlagSet) map[string]interface{} {
	m := map[string]interface{}{}
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		setPath(m, key, f.Value.String())
	})
	return m
}

func setPath(m map[string]interface{}, key string, v interface{}) {
	path := strings.Split(key, ".")
	for _, p := range path[:len(path)-1] {
		sub, ok := m[p].(map[string]interface{})
		if !ok {
			sub = map[string]interface{}{}
			m[p] = sub
		}
		m = sub
	}
	m[path[len(path)-1]] = v
}

// loadSettings loads and validates the configuration for the flags.
func loadSettings(flags *pflag.FlagSet) (settings, error) {
	cfg, names, err := loadConfig(flags)
	if err != nil {
		return settings{}, err
	}
	get := func(key string) config.Value {
		v, gerr := cfg.Get(key)
		if gerr != nil && err == nil {
			err = errors.Wrapf(gerr, "config %s", key)
		}
		return v
	}
	s := settings{
		Driver:      strings.ToLower(get("driver").String()),
		LED:         get("led").String(),
		ActiveLow:   get("active.low").Bool(),
		LogLevel:    get("log.level").String(),
		MetricsAddr: get("metrics.addr").String(),
	}
	pin := get("pin").String()
	pp := map[string]blink.Pattern{}
	for _, name := range names {
		pp[name] = blink.Pattern{
			Interval:   get("presets." + name + ".interval").Duration(),
			OnDuration: get("presets." + name + ".on").Duration(),
		}
	}
	defPreset := get("default.preset").String()
	if err != nil {
		return s, err
	}
	if s.Pin, err = parsePin(pin); err != nil {
		return s, err
	}
	if s.Presets, err = blink.NewPresets(pp, defPreset); err != nil {
		return s, err
	}
	switch s.Driver {
	case "rpi", "rpio", "sysfs", "mock":
	default:
		return s, errors.Errorf("unknown driver '%s'", s.Driver)
	}
	return s, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
