package raster

import (
	"fmt"
	"path/filepath"

	"github.com/Mavwarf/chaticon/internal/paths"
)

// Sizes are the fixed icon resolutions, in pixels.
var Sizes = []int{16, 48, 128}

// Target is one square PNG to produce.
type Target struct {
	Size int
	Path string
}

// Targets returns one Target per entry in Sizes, placed in dir.
func Targets(dir string) []Target {
	out := make([]Target, len(Sizes))
	for i, s := range Sizes {
		out[i] = Target{Size: s, Path: filepath.Join(dir, paths.RasterFileName(s))}
	}
	return out
}

// Result records the outcome of exporting one target.
type Result struct {
	Target Target
	Err    error
}

// OK reports whether the target was written.
func (r Result) OK() bool { return r.Err == nil }

// Exporter writes PNG targets using a capability resolved at startup.
type Exporter struct {
	capability Capability
}

// NewExporter returns an Exporter bound to c.
func NewExporter(c Capability) *Exporter {
	return &Exporter{capability: c}
}

// Engine returns the bound engine name.
func (e *Exporter) Engine() string { return e.capability.Name() }

// Export renders svg at t.Size and writes it to t.Path. Without an
// available engine it returns an error wrapping ErrUnavailable and writes
// nothing.
func (e *Exporter) Export(svg []byte, t Target) Result {
	if !e.capability.Available() {
		err := e.capability.Err
		if err == nil {
			err = ErrUnavailable
		}
		return Result{Target: t, Err: fmt.Errorf("cannot create %s: %w", t.Path, err)}
	}
	data, err := e.capability.Engine.Render(svg, t.Size)
	if err != nil {
		return Result{Target: t, Err: fmt.Errorf("render %dx%d: %w", t.Size, t.Size, err)}
	}
	if err := paths.AtomicWrite(t.Path, data); err != nil {
		return Result{Target: t, Err: fmt.Errorf("write %s: %w", t.Path, err)}
	}
	return Result{Target: t}
}

// ExportAll exports every target independently; a failed target does not
// stop the others. onResult, if non-nil, is called after each target.
func (e *Exporter) ExportAll(svg []byte, targets []Target, onResult func(Result)) []Result {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		r := e.Export(svg, t)
		if onResult != nil {
			onResult(r)
		}
		results = append(results, r)
	}
	return results
}
