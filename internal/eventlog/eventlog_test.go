package eventlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

func sampleRun(ts time.Time) Run {
	return Run{
		Time:   ts,
		Engine: "oksvg",
		Vector: "out dir/icon.svg",
		Targets: []Target{
			{Size: 16, Path: "out dir/icon16.png"},
			{Size: 48, Path: "out dir/icon48.png", Error: "render 48x48: inkscape: exit status 1\nbad input"},
			{Size: 128, Path: "out dir/icon128.png"},
		},
	}
}

func tempSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "history.log")),
		"sqlite": tempSQLiteStore(t),
	}
}

func assertRun(t *testing.T, got, want Run) {
	t.Helper()
	if !got.Time.Equal(want.Time) {
		t.Errorf("Time = %v, want %v", got.Time, want.Time)
	}
	if got.Engine != want.Engine || got.Vector != want.Vector {
		t.Errorf("run = %+v, want %+v", got, want)
	}
	if len(got.Targets) != len(want.Targets) {
		t.Fatalf("len(Targets) = %d, want %d", len(got.Targets), len(want.Targets))
	}
	for i := range want.Targets {
		if got.Targets[i] != want.Targets[i] {
			t.Errorf("Targets[%d] = %+v, want %+v", i, got.Targets[i], want.Targets[i])
		}
	}
}

func TestStoreLogAndRuns(t *testing.T) {
	ts := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleRun(ts)
			if err := s.LogRun(want); err != nil {
				t.Fatal(err)
			}
			runs, err := s.Runs(0)
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 1 {
				t.Fatalf("len(runs) = %d, want 1", len(runs))
			}
			assertRun(t, runs[0], want)
			if got := runs[0].Succeeded(); got != 2 {
				t.Errorf("Succeeded() = %d, want 2", got)
			}
		})
	}
}

func TestStoreRunsNewestFirstWithLimit(t *testing.T) {
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				r := sampleRun(base.Add(time.Duration(i) * time.Minute))
				r.Engine = []string{"a", "b", "c"}[i]
				if err := s.LogRun(r); err != nil {
					t.Fatal(err)
				}
			}
			runs, err := s.Runs(2)
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 2 {
				t.Fatalf("len(runs) = %d, want 2", len(runs))
			}
			if runs[0].Engine != "c" || runs[1].Engine != "b" {
				t.Errorf("order = %s, %s; want c, b", runs[0].Engine, runs[1].Engine)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.LogRun(sampleRun(time.Now())); err != nil {
				t.Fatal(err)
			}
			if err := s.Clear(); err != nil {
				t.Fatal(err)
			}
			runs, err := s.Runs(0)
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 0 {
				t.Errorf("len(runs) = %d after Clear, want 0", len(runs))
			}
			// Clearing twice is fine.
			if err := s.Clear(); err != nil {
				t.Errorf("second Clear: %v", err)
			}
		})
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.log"))
	runs, err := s.Runs(0)
	if err != nil || runs != nil {
		t.Errorf("Runs = %v, %v; want nil, nil", runs, err)
	}
}

func TestFileStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.log")
	s := NewFileStore(path)
	ts := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	if err := s.LogRun(sampleRun(ts)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if lines[0] != `2026-10-19T09:30:00Z  engine=oksvg  vector="out dir/icon.svg"` {
		t.Errorf("summary line = %q", lines[0])
	}
	if lines[1] != `2026-10-19T09:30:00Z    target size=16  path="out dir/icon16.png"  status=ok` {
		t.Errorf("target line = %q", lines[1])
	}
	if !strings.HasSuffix(string(data), "\n\n") {
		t.Error("run block should end with a blank line")
	}
}

func TestParseRunsSkipsMalformed(t *testing.T) {
	content := "garbage line\n\n" +
		"2026-10-19T09:30:00Z  engine=none  vector=\"icons/icon.svg\"\n" +
		"2026-10-19T09:30:00Z    target size=x  path=\"bad\"  status=ok\n" +
		"2026-10-19T09:30:00Z    target size=16  path=\"icons/icon16.png\"  status=failed\n\n"
	runs := ParseRuns(content)
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Engine != "none" {
		t.Errorf("Engine = %q", runs[0].Engine)
	}
	if len(runs[0].Targets) != 1 {
		t.Fatalf("len(Targets) = %d, want 1", len(runs[0].Targets))
	}
	if runs[0].Targets[0].OK() {
		t.Error("failed target without error text should not be OK")
	}
}

func TestParseFields(t *testing.T) {
	got := parseFields(`2026-10-19T09:30:00Z    target size=48  path="a b.png"  status=failed  error="x=\"1\""`)
	want := map[string]string{
		"size":   "48",
		"path":   "a b.png",
		"status": "failed",
		"error":  `x="1"`,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestSQLiteMigratesFileLog(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	fs := NewFileStore(filepath.Join(dir, "history.log"))
	if err := fs.LogRun(sampleRun(ts)); err != nil {
		t.Fatal(err)
	}

	s, err := NewSQLiteStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	runs, err := s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	assertRun(t, runs[0], sampleRun(ts))

	if _, err := os.Stat(filepath.Join(dir, "history.log.migrated")); err != nil {
		t.Errorf("log not renamed after migration: %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(\"\") = %T, want *FileStore", s)
	}

	s, err = Open(StorageSQLite, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if filepath.Base(s.Path()) != "history.db" {
		t.Errorf("Path() = %q", s.Path())
	}

	if _, err := Open("postgres", dir); err == nil {
		t.Error("expected error for unknown storage")
	}
}
