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
	"regexp"
	"testing"
)

func TestNames(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z_]+$`)
	seen := map[string]bool{}
	for _, key := range Keys() {
		if !valid.MatchString(key) {
			t.Errorf("invalid key %q", key)
		}
		if seen[key] {
			t.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		sc, ok := Find(key)
		if !ok {
			t.Errorf("Find(%q) failed", key)
		} else if key[len(key)-len(sc.Name):] != sc.Name {
			t.Errorf("Find(%q) returned %q", key, sc.Name)
		}
	}
	if _, ok := Find("ramp_no_such_case"); ok {
		t.Error("found a missing scenario")
	}
}

func TestHelpers(t *testing.T) {
	xs := linear(5, 0, 1)
	if xs[0] != 0 || xs[2] != 0.5 || xs[4] != 1 {
		t.Errorf("linear: %v", xs)
	}
	if got := linear(1, 3, 7); got[0] != 3 {
		t.Errorf("linear(1) = %v", got)
	}
	if got := concat(constant(2, 1), nil, constant(1, 2)); len(got) != 3 || got[2] != 2 {
		t.Errorf("concat: %v", got)
	}
}
