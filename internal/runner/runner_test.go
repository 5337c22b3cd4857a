package runner

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/Mavwarf/chaticon/internal/raster"
)

func detect(t *testing.T, name string) raster.Capability {
	t.Helper()
	c, err := raster.Detect(name, 1)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunEndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "icons")
	var out bytes.Buffer

	report, err := Run(Options{OutputDir: dir, Capability: detect(t, raster.EngineOksvg)}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0: %+v", report.Failed(), report.Results)
	}

	want := []string{"icon.svg", "icon128.png", "icon16.png", "icon48.png"}
	got := listDir(t, dir)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", got, want)
	}

	for _, size := range []int{16, 48, 128} {
		p := filepath.Join(dir, "icon"+strconv.Itoa(size)+".png")
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if cfg.Width != size || cfg.Height != size {
			t.Errorf("%s: %dx%d, want %dx%d", p, cfg.Width, cfg.Height, size, size)
		}
	}

	if !strings.Contains(out.String(), "icon48.png (48×48)") {
		t.Errorf("progress output missing 48px line:\n%s", out.String())
	}
	if report.Engine != raster.EngineOksvg {
		t.Errorf("Engine = %q", report.Engine)
	}
}

func TestRunVectorOnly(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	report, err := Run(Options{OutputDir: dir, Capability: detect(t, raster.EngineNone)}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed() != 3 {
		t.Errorf("Failed() = %d, want 3", report.Failed())
	}
	for _, r := range report.Results {
		if !errors.Is(r.Err, raster.ErrUnavailable) {
			t.Errorf("%s: err = %v, want ErrUnavailable", r.Target.Path, r.Err)
		}
	}

	got := listDir(t, dir)
	if len(got) != 1 || got[0] != "icon.svg" {
		t.Errorf("files = %v, want only icon.svg", got)
	}
	if strings.Count(out.String(), "FAIL") != 3 {
		t.Errorf("expected 3 FAIL lines:\n%s", out.String())
	}
}

func TestRunIdempotentDirectory(t *testing.T) {
	dir := t.TempDir()
	opts := Options{OutputDir: dir, Capability: detect(t, raster.EngineNone)}
	if _, err := Run(opts, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(filepath.Join(dir, "icon.svg"))
	if _, err := Run(opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, _ := os.ReadFile(filepath.Join(dir, "icon.svg"))
	if !bytes.Equal(first, second) {
		t.Error("vector output differs between runs")
	}
}

func TestRunUnwritableOutputIsFatal(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(Options{OutputDir: blocker, Capability: detect(t, raster.EngineNone)}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error when output dir is a file")
	}
	if !strings.Contains(err.Error(), "output directory") {
		t.Errorf("err = %v", err)
	}
}

func TestRunGlyphMarkers(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(Options{
		OutputDir:  t.TempDir(),
		Capability: detect(t, raster.EngineNone),
		Markers:    GlyphMarkers,
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✅") || !strings.Contains(out.String(), "❌") {
		t.Errorf("expected glyph markers:\n%s", out.String())
	}
}

func TestReportHistory(t *testing.T) {
	report := Report{
		Engine:     "none",
		VectorPath: "icons/icon.svg",
		Results: []raster.Result{
			{Target: raster.Target{Size: 16, Path: "icons/icon16.png"}},
			{Target: raster.Target{Size: 48, Path: "icons/icon48.png"}, Err: errors.New("boom")},
		},
	}
	run := report.History()
	if run.Engine != "none" || run.Vector != "icons/icon.svg" {
		t.Errorf("run = %+v", run)
	}
	if len(run.Targets) != 2 {
		t.Fatalf("len(Targets) = %d", len(run.Targets))
	}
	if !run.Targets[0].OK() || run.Targets[1].Error != "boom" {
		t.Errorf("targets = %+v", run.Targets)
	}
	if run.Succeeded() != 1 {
		t.Errorf("Succeeded() = %d, want 1", run.Succeeded())
	}
}
