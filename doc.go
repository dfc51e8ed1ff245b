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

// Package raincurve renders a short range precipitation forecast as a
// liquid silhouette. The height of the silhouette follows the rain
// intensity, and its edge dissolves into grain where the forecast is
// uncertain.
//
// A render is a pure function of the input series, the configuration and
// the seed: identical calls draw identical pixels. Two configurations are
// provided. [AppConfig] is meant for interactive use and enables every
// layer, [WidgetConfig] is meant for time-boxed snapshots and uses the
// tight particle budget, which drops macro grains and haze.
//
// Rendering never fails. Missing, mismatched or non-finite input values
// degrade to a simpler picture, down to a bare baseline.
//
// The work is split over the sub-packages, in data flow order:
// [seehuhn.de/go/raincurve/signal] prepares the dense height curve,
// [seehuhn.de/go/raincurve/geometry] builds paths, normals and strength,
// [seehuhn.de/go/raincurve/composite] draws the deterministic passes and
// [seehuhn.de/go/raincurve/dissipation] the stochastic ones. All drawing
// goes through a [surface.Surface].
package raincurve
