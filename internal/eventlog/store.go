package eventlog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Mavwarf/chaticon/internal/paths"
)

// Storage backends accepted by Open.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Target records the outcome of one raster target.
type Target struct {
	Size  int
	Path  string
	Error string // empty on success
}

// OK reports whether the target was written.
func (t Target) OK() bool { return t.Error == "" }

// Run is one generation run.
type Run struct {
	Time    time.Time
	Engine  string
	Vector  string // path of the written SVG
	Targets []Target
}

// Succeeded returns the number of targets that were written.
func (r Run) Succeeded() int {
	n := 0
	for _, t := range r.Targets {
		if t.OK() {
			n++
		}
	}
	return n
}

// Store abstracts run history storage.
type Store interface {
	LogRun(r Run) error
	Runs(limit int) ([]Run, error) // newest first, 0 = all
	Clear() error
	Path() string
	Close() error
}

// Open returns the store for the given backend inside dir. An empty
// backend selects the flat file.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", StorageFile:
		return NewFileStore(filepath.Join(dir, paths.HistoryFileName)), nil
	case StorageSQLite:
		return NewSQLiteStore(filepath.Join(dir, paths.HistoryDBName))
	default:
		return nil, fmt.Errorf("unknown storage %q (want %q or %q)", backend, StorageFile, StorageSQLite)
	}
}
