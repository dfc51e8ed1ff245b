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
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/raincurve/surface"
)

func TestCanonicalConfigs(t *testing.T) {
	app, widget := AppConfig(), WidgetConfig()
	assert.Equal(t, Full, app.Profile)
	assert.Equal(t, Tight, widget.Profile)
	assert.Equal(t, app.Seed, widget.Seed, "both contexts must draw the same grain")
	assert.Less(t, int64(widget.TimeBudget), int64(app.TimeBudget))
	assert.LessOrEqual(t, widget.Signal.MaxSamples, app.Signal.MaxSamples)

	// the canonical values are already in range
	sanitized := app
	sanitized.Sanitize()
	assert.Equal(t, app, sanitized)
}

func TestLoadConfigOverlay(t *testing.T) {
	doc := `
seed: 42
profile: tight
time_budget: 80ms
signal:
  gamma: 0.9
dissipation:
  speckle:
    cap_tight: 120
palette:
  core: "#102030"
`
	cfg, err := LoadConfig(strings.NewReader(doc), AppConfig())
	require.NoError(t, err)

	base := AppConfig()
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, Tight, cfg.Profile)
	assert.Equal(t, 80*time.Millisecond, cfg.TimeBudget)
	assert.Equal(t, 0.9, cfg.Signal.Gamma)
	assert.Equal(t, 120, cfg.Dissipation.Speckle.CapTight)
	assert.Equal(t, "#102030", cfg.Palette.Core.String())

	// untouched fields keep their base value
	assert.Equal(t, base.Signal.HeightScale, cfg.Signal.HeightScale)
	assert.Equal(t, base.Dissipation.Speckle.CapFull, cfg.Dissipation.Speckle.CapFull)
	assert.Equal(t, base.Palette.Glint, cfg.Palette.Glint)
	assert.Equal(t, base.Composite, cfg.Composite)
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""), WidgetConfig())
	require.NoError(t, err)
	assert.Equal(t, WidgetConfig(), cfg)
}

func TestLoadConfigSanitizes(t *testing.T) {
	doc := `
signal:
  gamma: 40
  max_height: -3
dissipation:
  density: .inf
  speckle:
    bins: 50
    cap_tight: 99999
composite:
  mist_bands: -2
time_budget: -5s
`
	cfg, err := LoadConfig(strings.NewReader(doc), AppConfig())
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Signal.Gamma)
	assert.Equal(t, 0.0, cfg.Signal.MaxHeight)
	assert.False(t, math.IsInf(cfg.Dissipation.Density, 0))
	assert.Equal(t, 6, cfg.Dissipation.Speckle.Bins)
	assert.LessOrEqual(t, cfg.Dissipation.Speckle.CapTight, cfg.Dissipation.Speckle.CapFull)
	assert.Equal(t, 0, cfg.Composite.MistBands)
	assert.Equal(t, time.Duration(0), cfg.TimeBudget)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"unknown field", "signal:\n  no_such_field: 1\n", nil},
		{"bad colour", "palette:\n  core: blue\n", surface.ErrBadColor},
		{"bad profile", "profile: medium\n", ErrUnknownProfile},
		{"bad type", "seed: [1, 2]\n", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := AppConfig()
			cfg, err := LoadConfig(strings.NewReader(tc.doc), base)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "raincurve: decode config")
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			assert.Equal(t, base, cfg)
		})
	}
}

func TestConfigYAML(t *testing.T) {
	data, err := yaml.Marshal(WidgetConfig())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "profile: tight")
	assert.Contains(t, text, "time_budget: 50ms")
	assert.Contains(t, text, "core: '#2f6fd6'")

	cfg, err := LoadConfig(strings.NewReader(text), AppConfig())
	require.NoError(t, err)
	assert.Equal(t, WidgetConfig(), cfg)
}

func TestParseProfile(t *testing.T) {
	for in, want := range map[string]Profile{
		"full": Full, "tight": Tight, "app": Full, "Widget": Tight,
	} {
		got, err := ParseProfile(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProfile("huge")
	assert.ErrorIs(t, err, ErrUnknownProfile)

	cfg, err := ConfigFor("widget")
	require.NoError(t, err)
	assert.Equal(t, WidgetConfig(), cfg)
	_, err = ConfigFor("tablet")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}
