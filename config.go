// seehuhn.de/go/raincurve - procedural precipitation rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raincurve

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/raincurve/composite"
	"seehuhn.de/go/raincurve/dissipation"
	"seehuhn.de/go/raincurve/geometry"
	"seehuhn.de/go/raincurve/signal"
)

// Profile selects the particle budget.
type Profile = dissipation.Profile

// These are the budget profiles.
const (
	Full  = dissipation.Full
	Tight = dissipation.Tight
)

// ErrUnknownProfile is returned for unknown profile or configuration names.
var ErrUnknownProfile = dissipation.ErrUnknownProfile

// ParseProfile converts a profile name to a Profile. Besides "full" and
// "tight" it accepts the configuration names "app" and "widget".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "app":
		return Full, nil
	case "widget":
		return Tight, nil
	}
	return dissipation.ParseProfile(s)
}

// Config bundles all tunables of a render.
type Config struct {
	Signal      signal.Params      `yaml:"signal"`
	Geometry    geometry.Params    `yaml:"geometry"`
	Dissipation dissipation.Params `yaml:"dissipation"`
	Composite   composite.Params   `yaml:"composite"`
	Palette     composite.Palette  `yaml:"palette"`

	Seed    uint64  `yaml:"seed"`
	Profile Profile `yaml:"profile"`

	// TimeBudget is the wall-clock time a host allows for one render. The
	// renderer does not enforce it; it limits its own cost through the
	// profile, and hosts can use the value to check this.
	TimeBudget time.Duration `yaml:"time_budget"`
}

// AppConfig returns the configuration of the interactive application.
func AppConfig() Config {
	return Config{
		Signal:      signal.DefaultParams(),
		Geometry:    geometry.DefaultParams(),
		Dissipation: dissipation.DefaultParams(),
		Composite:   composite.DefaultParams(),
		Palette:     composite.DefaultPalette(),
		Seed:        0x5eed_ca11,
		Profile:     Full,
		TimeBudget:  250 * time.Millisecond,
	}
}

// WidgetConfig returns the configuration for time-boxed snapshots.
func WidgetConfig() Config {
	cfg := AppConfig()
	cfg.Profile = Tight
	cfg.Signal.MaxSamples = 160
	cfg.Composite.MistBands = 3
	cfg.Composite.MistTexture = false
	cfg.Composite.BloomBlur = 6
	cfg.TimeBudget = 50 * time.Millisecond
	return cfg
}

// ConfigFor returns the configuration with the given name, "app" or
// "widget".
func ConfigFor(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "app":
		return AppConfig(), nil
	case "widget":
		return WidgetConfig(), nil
	}
	return Config{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
}

// LoadConfig reads a YAML document and overlays it on base. Fields which
// are absent from the document keep their value from base. An empty
// document returns base unchanged. The result is sanitized.
func LoadConfig(r io.Reader, base Config) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	cfg := base
	err := dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		cfg = base
	} else if err != nil {
		return base, fmt.Errorf("raincurve: decode config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize clamps every tunable into its valid range.
func (cfg *Config) Sanitize() {
	cfg.Signal.Sanitize()
	cfg.Geometry.Sanitize()
	cfg.Dissipation.Sanitize()
	cfg.Composite.Sanitize()
	if cfg.Profile != Tight {
		cfg.Profile = Full
	}
	cfg.TimeBudget = max(cfg.TimeBudget, 0)
}
