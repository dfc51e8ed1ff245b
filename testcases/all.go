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

package testcases

import (
	"maps"
	"slices"
	"strings"
)

// All contains all scenarios, grouped by category.
// The category name is used as a prefix in scenario keys and file names.
var All = map[string][]Scenario{
	"dry":         dryCases,
	"steady":      steadyCases,
	"ramp":        rampCases,
	"burst":       burstCases,
	"adversarial": adversarialCases,
	"mismatched":  mismatchedCases,
}

// Keys returns the keys of all scenarios in sorted order. A key is the
// category and the name, joined by an underscore.
func Keys() []string {
	var keys []string
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, sc := range All[category] {
			keys = append(keys, category+"_"+sc.Name)
		}
	}
	return keys
}

// Find returns the scenario with the given key.
func Find(key string) (Scenario, bool) {
	for category, cases := range All {
		name, ok := strings.CutPrefix(key, category+"_")
		if !ok {
			continue
		}
		for _, sc := range cases {
			if sc.Name == name {
				return sc, true
			}
		}
	}
	return Scenario{}, false
}
