package runner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Mavwarf/chaticon/internal/eventlog"
	"github.com/Mavwarf/chaticon/internal/icon"
	"github.com/Mavwarf/chaticon/internal/paths"
	"github.com/Mavwarf/chaticon/internal/raster"
)

// Markers prefix progress lines.
type Markers struct {
	OK   string
	Fail string
}

var (
	PlainMarkers = Markers{OK: "ok  ", Fail: "FAIL"}
	GlyphMarkers = Markers{OK: "✅", Fail: "❌"}
)

// Options configures a generation run.
type Options struct {
	OutputDir  string
	Capability raster.Capability
	Markers    Markers
}

// Report summarizes a run.
type Report struct {
	Time       time.Time
	VectorPath string
	Engine     string
	Results    []raster.Result
}

// Failed returns the number of raster targets that were not written.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// History converts the report into an event log record.
func (r Report) History() eventlog.Run {
	run := eventlog.Run{Time: r.Time, Engine: r.Engine, Vector: r.VectorPath}
	for _, res := range r.Results {
		t := eventlog.Target{Size: res.Target.Size, Path: res.Target.Path}
		if res.Err != nil {
			t.Error = res.Err.Error()
		}
		run.Targets = append(run.Targets, t)
	}
	return run
}

// Run builds the chat-window icon, writes the SVG into opts.OutputDir and
// exports every raster target. Failing to create the directory or write the
// SVG is fatal and returned. Raster failures are recorded per target in the
// report; one failed target never stops the others.
func Run(opts Options, out io.Writer) (Report, error) {
	if opts.Markers == (Markers{}) {
		opts.Markers = PlainMarkers
	}
	report := Report{Time: time.Now(), Engine: opts.Capability.Name()}

	if err := os.MkdirAll(opts.OutputDir, paths.DirPerm); err != nil {
		return report, fmt.Errorf("creating output directory: %w", err)
	}

	svg, err := icon.ChatWindow().Marshal()
	if err != nil {
		return report, fmt.Errorf("serializing icon: %w", err)
	}
	vectorPath := filepath.Join(opts.OutputDir, paths.VectorFileName)
	if err := paths.AtomicWrite(vectorPath, svg); err != nil {
		return report, fmt.Errorf("writing %s: %w", vectorPath, err)
	}
	report.VectorPath = vectorPath
	fmt.Fprintf(out, "  %s  %s\n", opts.Markers.OK, vectorPath)

	exp := raster.NewExporter(opts.Capability)
	report.Results = exp.ExportAll(svg, raster.Targets(opts.OutputDir), func(r raster.Result) {
		if r.OK() {
			fmt.Fprintf(out, "  %s  %s (%d×%d)\n", opts.Markers.OK, r.Target.Path, r.Target.Size, r.Target.Size)
			return
		}
		fmt.Fprintf(out, "  %s  %s: %v\n", opts.Markers.Fail, r.Target.Path, r.Err)
	})
	return report, nil
}
