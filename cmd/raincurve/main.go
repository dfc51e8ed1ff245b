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

// Command raincurve renders precipitation curves to PNG files.
//
// A single curve is read from a YAML series file (-input) or taken from
// the built-in scenarios (-scenario).  With -all, every built-in scenario
// is rendered into a directory, together with a labelled contact sheet.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/raincurve"
	"seehuhn.de/go/raincurve/noise"
	"seehuhn.de/go/raincurve/surface"
	"seehuhn.de/go/raincurve/testcases"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr, clockwork.NewRealClock())
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "raincurve:", err)
		os.Exit(1)
	}
}

type options struct {
	scenario string
	input    string
	config   string
	profile  string
	width    int
	height   int
	scale    float64
	seed     int64
	out      string
	all      string
	list     bool
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("raincurve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opt := &options{}
	fs.StringVar(&opt.scenario, "scenario", "ramp_rising_uncertain", "built-in scenario to render")
	fs.StringVar(&opt.input, "input", "", "YAML series file to render")
	fs.StringVar(&opt.config, "config", "", "YAML configuration overlay")
	fs.StringVar(&opt.profile, "profile", "app", "base configuration (app or widget)")
	fs.IntVar(&opt.width, "width", 360, "canvas width in points")
	fs.IntVar(&opt.height, "height", 120, "canvas height in points")
	fs.Float64Var(&opt.scale, "scale", 2, "device pixels per point")
	fs.Int64Var(&opt.seed, "seed", -1, "noise seed, negative to keep the configured one")
	fs.StringVar(&opt.out, "out", "raincurve.png", "output PNG file")
	fs.StringVar(&opt.all, "all", "", "render every scenario into this directory")
	fs.BoolVar(&opt.list, "list", false, "list the built-in scenarios")
	fs.BoolVar(&opt.verbose, "v", false, "log every render")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opt.width <= 0 || opt.height <= 0 || opt.width > 8192 || opt.height > 8192 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opt.width, opt.height)
	}
	if !(opt.scale > 0 && opt.scale <= 16) {
		return nil, fmt.Errorf("invalid scale %g", opt.scale)
	}
	return opt, nil
}

func run(args []string, stdout, stderr io.Writer, clock clockwork.Clock) error {
	opt, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opt.list {
		for _, key := range testcases.Keys() {
			fmt.Fprintln(stdout, key)
		}
		return nil
	}

	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(opt)
	if err != nil {
		return err
	}

	r := &renderer{
		cfg:    cfg,
		tex:    noise.NewTextures(cfg.Seed),
		width:  opt.width,
		height: opt.height,
		scale:  opt.scale,
		logger: logger,
		timer:  &timer{clock: clock, budget: cfg.TimeBudget, logger: logger},
	}

	if opt.all != "" {
		return r.renderAll(opt.all)
	}

	in, err := loadInput(opt)
	if err != nil {
		return err
	}
	name := opt.scenario
	if opt.input != "" {
		name = filepath.Base(opt.input)
	}
	img := r.render(name, in)
	if err := writePNG(opt.out, img); err != nil {
		return err
	}
	logger.Info("wrote image", "file", opt.out, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

func loadConfig(opt *options) (raincurve.Config, error) {
	cfg, err := raincurve.ConfigFor(opt.profile)
	if err != nil {
		return cfg, err
	}
	if opt.config != "" {
		fd, err := os.Open(opt.config)
		if err != nil {
			return cfg, err
		}
		defer fd.Close()
		cfg, err = raincurve.LoadConfig(fd, cfg)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", opt.config, err)
		}
	}
	if opt.seed >= 0 {
		cfg.Seed = uint64(opt.seed)
	}
	return cfg, nil
}

func loadInput(opt *options) (raincurve.Input, error) {
	if opt.input != "" {
		fd, err := os.Open(opt.input)
		if err != nil {
			return raincurve.Input{}, err
		}
		defer fd.Close()
		in, err := raincurve.LoadInput(fd)
		if err != nil {
			return in, fmt.Errorf("%s: %w", opt.input, err)
		}
		return in, nil
	}

	sc, ok := testcases.Find(opt.scenario)
	if !ok {
		return raincurve.Input{}, fmt.Errorf("unknown scenario %q (try -list)", opt.scenario)
	}
	return raincurve.Input{Intensity: sc.Intensity, Confidence: sc.Confidence, Minutes: sc.Minutes}, nil
}

// renderer holds the settings shared by all renders of one invocation.
type renderer struct {
	cfg    raincurve.Config
	tex    *noise.Textures
	width  int
	height int
	scale  float64
	logger *slog.Logger
	timer  *timer
}

func (r *renderer) render(name string, in raincurve.Input) *image.RGBA {
	w := int(float64(r.width) * r.scale)
	h := int(float64(r.height) * r.scale)
	cv := surface.NewCanvas(w, h)
	r.timer.measure(name, func() {
		raincurve.Render(cv, in, r.cfg, r.tex, raincurve.Options{
			Scale:  r.scale,
			Logger: r.logger.With("scenario", name),
		})
	})
	return cv.Image()
}

func (r *renderer) renderAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	keys := testcases.Keys()
	images := make([]*image.RGBA, len(keys))
	for i, key := range keys {
		sc, _ := testcases.Find(key)
		in := raincurve.Input{Intensity: sc.Intensity, Confidence: sc.Confidence, Minutes: sc.Minutes}
		images[i] = r.render(key, in)
		if err := writePNG(filepath.Join(dir, key+".png"), images[i]); err != nil {
			return err
		}
	}

	sheet := contactSheet(keys, images)
	fname := filepath.Join(dir, "contact.png")
	if err := writePNG(fname, sheet); err != nil {
		return err
	}
	r.logger.Info("rendered scenarios", "count", len(keys), "dir", dir)
	return nil
}

// timer checks renders against the configured time budget.
type timer struct {
	clock  clockwork.Clock
	budget time.Duration
	logger *slog.Logger
}

func (t *timer) measure(name string, fn func()) time.Duration {
	start := t.clock.Now()
	fn()
	elapsed := t.clock.Since(start)
	if t.budget > 0 && elapsed > t.budget {
		t.logger.Warn("render exceeded time budget",
			"scenario", name, "elapsed", elapsed, "budget", t.budget)
	}
	return elapsed
}

const (
	sheetColumns = 3
	labelHeight  = 18
	sheetPadding = 6
)

// contactSheet arranges the images in a grid on a white background,
// each with its name written above it.
func contactSheet(names []string, images []*image.RGBA) *image.RGBA {
	if len(images) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	cw := images[0].Bounds().Dx() + 2*sheetPadding
	ch := images[0].Bounds().Dy() + labelHeight + sheetPadding
	rows := (len(images) + sheetColumns - 1) / sheetColumns

	sheet := image.NewRGBA(image.Rect(0, 0, sheetColumns*cw, rows*ch+sheetPadding))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  sheet,
		Src:  image.NewUniform(color.Gray{Y: 0x40}),
		Face: basicfont.Face7x13,
	}
	for i, img := range images {
		x0 := (i % sheetColumns) * cw
		y0 := (i / sheetColumns) * ch

		d.Dot = fixed.P(x0+sheetPadding, y0+labelHeight-5)
		d.DrawString(names[i])

		at := image.Pt(x0+sheetPadding, y0+labelHeight)
		draw.Draw(sheet, img.Bounds().Add(at), img, image.Point{}, draw.Over)
	}
	return sheet
}

func writePNG(fname string, img image.Image) error {
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(fd, img); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
