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

package dissipation

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/raincurve/internal/num"
)

// Profile selects the render budget.
type Profile int

// These are the budget profiles.
const (
	// Full is used by the interactive application.
	Full Profile = iota

	// Tight is used for time-boxed snapshots. It lowers all caps and
	// disables macro grains and haze.
	Tight
)

func (p Profile) String() string {
	switch p {
	case Full:
		return "full"
	case Tight:
		return "tight"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// ErrUnknownProfile is returned by ParseProfile for unknown names.
var ErrUnknownProfile = errors.New("unknown profile")

// ParseProfile converts a profile name to a Profile.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full, nil
	case "tight":
		return Tight, nil
	}
	return Full, fmt.Errorf("%w %q", ErrUnknownProfile, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	v, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Effect holds the tunables of one particle effect. Lengths are in points
// and are multiplied by the device scale.
type Effect struct {
	Base     int `yaml:"base"`      // count at full strength and density
	CapFull  int `yaml:"cap_full"`  // hard cap under the full profile
	CapTight int `yaml:"cap_tight"` // hard cap under the tight profile

	RadiusMin   float64 `yaml:"radius_min"`
	RadiusMax   float64 `yaml:"radius_max"`
	RadiusPower float64 `yaml:"radius_power"` // > 1 favours small radii

	Distance      float64 `yaml:"distance"`       // largest normal offset
	DistancePower float64 `yaml:"distance_power"` // > 1 favours the edge
	Jitter        float64 `yaml:"jitter"`         // tangential jitter

	Alpha         float64 `yaml:"alpha"`
	StrengthPower float64 `yaml:"strength_power"` // exponent of the strength term
	FalloffPower  float64 `yaml:"falloff_power"`  // exponent of the distance falloff

	Bins int `yaml:"bins"` // opacity bins, 4 to 6
}

// Params holds the tunables of the dissipation renderer.
type Params struct {
	Speckle   Effect `yaml:"speckle"`
	Macro     Effect `yaml:"macro"`
	Diffusion Effect `yaml:"diffusion"`
	Erosion   Effect `yaml:"erosion"`
	Haze      Effect `yaml:"haze"`

	// Density multiplies all base counts.
	Density float64 `yaml:"density"`

	// The budget is scaled by clamp(MaxStrength·StrengthWeight,
	// MinStrengthScale, 1).
	StrengthWeight   float64 `yaml:"strength_weight"`
	MinStrengthScale float64 `yaml:"min_strength_scale"`

	// WeightPower shapes the placement weight strength^WeightPower.
	WeightPower float64 `yaml:"weight_power"`

	// Pepper control: placement is damped by up to PepperDamp on segments
	// higher than PepperHeight (fraction of the maximum), flatter than
	// PepperSlope, in runs of at least PepperRun samples.
	PepperHeight float64 `yaml:"pepper_height"`
	PepperSlope  float64 `yaml:"pepper_slope"`
	PepperRun    int     `yaml:"pepper_run"`
	PepperDamp   float64 `yaml:"pepper_damp"`

	// Fraction of speckles welded onto the edge instead of detached.
	WeldFull  float64 `yaml:"weld_full"`
	WeldTight float64 `yaml:"weld_tight"`

	// TightAlpha multiplies all alphas under the tight profile.
	TightAlpha float64 `yaml:"tight_alpha"`

	// Blur radii in points for the layered effects.
	MacroBlur   float64 `yaml:"macro_blur"`
	ErosionBlur float64 `yaml:"erosion_blur"`
	HazeBlur    float64 `yaml:"haze_blur"`
}

// Bounds of the opacity bin count.
const (
	MinBins = 4
	MaxBins = 6
)

// DefaultParams returns the parameters of the interactive application.
func DefaultParams() Params {
	return Params{
		Speckle: Effect{
			Base: 900, CapFull: 1400, CapTight: 280,
			RadiusMin: 0.35, RadiusMax: 1.6, RadiusPower: 2.2,
			Distance: 9, DistancePower: 1.8, Jitter: 1.2,
			Alpha: 0.85, StrengthPower: 0.8, FalloffPower: 1.3,
			Bins: 5,
		},
		Macro: Effect{
			Base: 110, CapFull: 160, CapTight: 0,
			RadiusMin: 1.4, RadiusMax: 3.2, RadiusPower: 1.6,
			Distance: 12, DistancePower: 1.5, Jitter: 2,
			Alpha: 0.45, StrengthPower: 1.1, FalloffPower: 1.6,
			Bins: 4,
		},
		Diffusion: Effect{
			Base: 650, CapFull: 1000, CapTight: 200,
			RadiusMin: 0.8, RadiusMax: 3.5, RadiusPower: 1.7,
			Distance: 14, DistancePower: 1.4, Jitter: 2.5,
			Alpha: 0.32, StrengthPower: 1.0, FalloffPower: 1.2,
			Bins: 4,
		},
		Erosion: Effect{
			Base: 480, CapFull: 800, CapTight: 160,
			RadiusMin: 0.4, RadiusMax: 1.8, RadiusPower: 2.0,
			Distance: 7, DistancePower: 1.6, Jitter: 1,
			Alpha: 0.7, StrengthPower: 1.2, FalloffPower: 1.0,
			Bins: 4,
		},
		Haze: Effect{
			Base: 70, CapFull: 100, CapTight: 0,
			RadiusMin: 4, RadiusMax: 9, RadiusPower: 1.2,
			Distance: 18, DistancePower: 1.1, Jitter: 4,
			Alpha: 0.16, StrengthPower: 1.0, FalloffPower: 1.0,
			Bins: 4,
		},

		Density:          1,
		StrengthWeight:   1.15,
		MinStrengthScale: 0.28,
		WeightPower:      1.4,

		PepperHeight: 0.55,
		PepperSlope:  0.12,
		PepperRun:    24,
		PepperDamp:   0.75,

		WeldFull:  0.18,
		WeldTight: 0.35,

		TightAlpha: 0.92,

		MacroBlur:   0.8,
		ErosionBlur: 0.6,
		HazeBlur:    5,
	}
}

// Sanitize clamps all parameters into their valid ranges. The tight caps
// are limited to the full caps.
func (p *Params) Sanitize() {
	for _, e := range []*Effect{&p.Speckle, &p.Macro, &p.Diffusion, &p.Erosion, &p.Haze} {
		e.sanitize()
	}
	p.Density = num.Clamp(num.Finite(p.Density), 0, 4)
	p.StrengthWeight = num.Clamp(num.Finite(p.StrengthWeight), 0, 4)
	p.MinStrengthScale = num.Clamp01(num.Finite(p.MinStrengthScale))
	p.WeightPower = num.Clamp(num.Finite(p.WeightPower), 0.1, 8)
	p.PepperHeight = num.Clamp01(num.Finite(p.PepperHeight))
	p.PepperSlope = num.Clamp(num.Finite(p.PepperSlope), 0.001, 10)
	p.PepperRun = min(max(p.PepperRun, 1), 1000)
	p.PepperDamp = num.Clamp01(num.Finite(p.PepperDamp))
	p.WeldFull = num.Clamp01(num.Finite(p.WeldFull))
	p.WeldTight = num.Clamp01(num.Finite(p.WeldTight))
	p.TightAlpha = num.Clamp01(num.Finite(p.TightAlpha))
	p.MacroBlur = num.Clamp(num.Finite(p.MacroBlur), 0, 32)
	p.ErosionBlur = num.Clamp(num.Finite(p.ErosionBlur), 0, 32)
	p.HazeBlur = num.Clamp(num.Finite(p.HazeBlur), 0, 64)
}

func (e *Effect) sanitize() {
	const maxCount = 20000
	e.Base = min(max(e.Base, 0), maxCount)
	e.CapFull = min(max(e.CapFull, 0), maxCount)
	e.CapTight = min(max(e.CapTight, 0), e.CapFull)
	e.RadiusMin = num.Clamp(num.Finite(e.RadiusMin), 0, 64)
	e.RadiusMax = num.Clamp(num.Finite(e.RadiusMax), e.RadiusMin, 64)
	e.RadiusPower = num.Clamp(num.Finite(e.RadiusPower), 0.1, 8)
	e.Distance = num.Clamp(num.Finite(e.Distance), 0, 128)
	e.DistancePower = num.Clamp(num.Finite(e.DistancePower), 0.1, 8)
	e.Jitter = num.Clamp(num.Finite(e.Jitter), 0, 64)
	e.Alpha = num.Clamp01(num.Finite(e.Alpha))
	e.StrengthPower = num.Clamp(num.Finite(e.StrengthPower), 0.1, 8)
	e.FalloffPower = num.Clamp(num.Finite(e.FalloffPower), 0.1, 8)
	e.Bins = min(max(e.Bins, MinBins), MaxBins)
}
