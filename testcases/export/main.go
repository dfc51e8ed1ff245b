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

// Command export writes every scenario as a YAML series file, in the
// format read by "raincurve -input".
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/raincurve"
	"seehuhn.de/go/raincurve/testcases"
)

func main() {
	dir := flag.String("dir", filepath.Join("testdata", "scenarios"), "output directory")
	flag.Parse()

	if err := export(*dir); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}

func export(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, key := range testcases.Keys() {
		sc, _ := testcases.Find(key)
		in := raincurve.Input{
			Intensity:  sc.Intensity,
			Confidence: sc.Confidence,
			Minutes:    sc.Minutes,
		}
		data, err := yaml.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		fname := filepath.Join(dir, key+".yaml")
		if err := os.WriteFile(fname, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
