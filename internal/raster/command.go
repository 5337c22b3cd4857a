package raster

import (
	"bytes"
	"fmt"
	"image/png"
	"os/exec"
	"strconv"
)

// installHints tell the user how to get an external engine.
var installHints = map[string]string{
	EngineInkscape: "install Inkscape 1.x (https://inkscape.org) or use --engine oksvg",
	EngineRsvg:     "install librsvg (apt install librsvg2-bin, brew install librsvg) or use --engine oksvg",
}

// CommandEngine pipes SVG text through an external converter binary and
// reads the PNG from its stdout.
type CommandEngine struct {
	name string
	path string
	args func(size int) []string
}

// lookupCommand locates bin on PATH. A missing binary is reported as
// ErrUnavailable together with an install hint.
func lookupCommand(bin string, args func(int) []string) (*CommandEngine, error) {
	p, err := exec.LookPath(bin)
	if err != nil {
		hint := installHints[bin]
		if hint == "" {
			hint = "install " + bin
		}
		return nil, fmt.Errorf("%s not found on PATH (%s): %w", bin, hint, ErrUnavailable)
	}
	return &CommandEngine{name: bin, path: p, args: args}, nil
}

func inkscapeArgs(size int) []string {
	s := strconv.Itoa(size)
	return []string{
		"--pipe",
		"--export-type=png",
		"--export-filename=-",
		"--export-width=" + s,
		"--export-height=" + s,
		"--export-background-opacity=0",
	}
}

func rsvgArgs(size int) []string {
	s := strconv.Itoa(size)
	return []string{"--format=png", "--width=" + s, "--height=" + s}
}

func (e *CommandEngine) Name() string { return e.name }

func (e *CommandEngine) Render(svg []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%s: invalid size %d", e.name, size)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.path, e.args(size)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w\n%s", e.name, err, stderr.Bytes())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s: no output", e.name)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%s: output is not a PNG: %w", e.name, err)
	}
	if cfg.Width != size || cfg.Height != size {
		return nil, fmt.Errorf("%s: got %dx%d, want %dx%d", e.name, cfg.Width, cfg.Height, size, size)
	}
	return stdout.Bytes(), nil
}
