// Package raster renders SVG text into square PNG icons.
//
// The rendering capability is resolved once with Detect and handed to an
// Exporter. When no engine is available every export fails with
// ErrUnavailable and nothing is written.
package raster

import (
	"errors"
	"fmt"
)

// Engine names accepted by Detect.
const (
	EngineOksvg    = "oksvg"
	EngineInkscape = "inkscape"
	EngineRsvg     = "rsvg-convert"
	EngineNone     = "none"
)

// ErrUnavailable reports that no vector-to-raster engine can be used.
var ErrUnavailable = errors.New("rasterizer unavailable")

// Engine converts SVG text into PNG bytes of exactly size×size pixels with a
// transparent background.
type Engine interface {
	Name() string
	Render(svg []byte, size int) ([]byte, error)
}

// Capability is the result of engine detection. Engine is nil when Err is
// set.
type Capability struct {
	Engine Engine
	Err    error
}

// Available reports whether rasterization can run.
func (c Capability) Available() bool {
	return c.Engine != nil
}

// Name returns the engine name, or "none" when unavailable.
func (c Capability) Name() string {
	if c.Engine == nil {
		return EngineNone
	}
	return c.Engine.Name()
}

// Engines lists the names Detect understands.
func Engines() []string {
	return []string{EngineOksvg, EngineInkscape, EngineRsvg, EngineNone}
}

// Detect resolves the named engine. An empty name selects oksvg, which is
// linked into the binary and always available. External engines that are
// not installed yield a Capability whose Err wraps ErrUnavailable. Only an
// unknown name returns an error.
func Detect(name string, supersample int) (Capability, error) {
	switch name {
	case "", EngineOksvg:
		return Capability{Engine: &OksvgEngine{Supersample: supersample}}, nil
	case EngineInkscape:
		e, err := lookupCommand(EngineInkscape, inkscapeArgs)
		return capabilityOf(e, err), nil
	case EngineRsvg:
		e, err := lookupCommand(EngineRsvg, rsvgArgs)
		return capabilityOf(e, err), nil
	case EngineNone:
		return Capability{Err: fmt.Errorf("raster output disabled: %w", ErrUnavailable)}, nil
	default:
		return Capability{}, fmt.Errorf("unknown engine %q (want one of %v)", name, Engines())
	}
}

func capabilityOf(e *CommandEngine, err error) Capability {
	if err != nil {
		return Capability{Err: err}
	}
	return Capability{Engine: e}
}
