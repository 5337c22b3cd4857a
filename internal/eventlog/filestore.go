package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Mavwarf/chaticon/internal/paths"
)

// FileStore implements Store using a flat log file. Each run is a block of
// lines separated from the next by a blank line:
//
//	2026-10-19T10:00:00Z  engine=oksvg  vector="icons/icon.svg"
//	2026-10-19T10:00:00Z    target size=16  path="icons/icon16.png"  status=ok
//	2026-10-19T10:00:00Z    target size=48  path="icons/icon48.png"  status=failed  error="..."
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// openLog opens (or creates) the log file for appending, creating the
// parent directory if needed.
func (f *FileStore) openLog() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
}

func (f *FileStore) LogRun(r Run) error {
	file, err := f.openLog()
	if err != nil {
		return err
	}
	defer file.Close()

	ts := r.Time.Format(time.RFC3339)
	fmt.Fprintf(file, "%s  engine=%s  vector=%s\n", ts, r.Engine, strconv.Quote(r.Vector))
	for _, t := range r.Targets {
		line := fmt.Sprintf("%s    target size=%d  path=%s", ts, t.Size, strconv.Quote(t.Path))
		if t.OK() {
			line += "  status=ok"
		} else {
			line += "  status=failed  error=" + strconv.Quote(t.Error)
		}
		fmt.Fprintln(file, line)
	}
	_, err = fmt.Fprintln(file)
	return err
}

func (f *FileStore) Runs(limit int) ([]Run, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	runs := ParseRuns(string(data))

	// Newest first.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Close() error { return nil }

// ParseRuns parses log content into runs, oldest first. Blocks without a
// valid summary line are skipped, as are malformed target lines.
func ParseRuns(content string) []Run {
	var runs []Run
	for _, block := range SplitBlocks(content) {
		lines := strings.Split(block, "\n")
		ts, ok := ExtractTimestamp(lines[0])
		if !ok {
			continue
		}
		fields := parseFields(lines[0])
		run := Run{Time: ts, Engine: fields["engine"], Vector: fields["vector"]}
		for _, line := range lines[1:] {
			if !strings.Contains(line, "target ") {
				continue
			}
			tf := parseFields(line)
			size, err := strconv.Atoi(tf["size"])
			if err != nil {
				continue
			}
			t := Target{Size: size, Path: tf["path"]}
			if tf["status"] != "ok" {
				t.Error = tf["error"]
				if t.Error == "" {
					t.Error = "unknown error"
				}
			}
			run.Targets = append(run.Targets, t)
		}
		runs = append(runs, run)
	}
	return runs
}

// SplitBlocks splits log content on blank lines and drops empty blocks.
func SplitBlocks(content string) []string {
	content = strings.TrimRight(content, "\n\r ")
	if content == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(content, "\n\n") {
		b = strings.Trim(b, "\n\r")
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return out
}

// ExtractTimestamp parses the RFC 3339 timestamp that starts a log line.
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// parseFields returns the key=value pairs of a log line. Values are either
// bare words or Go-quoted strings.
func parseFields(line string) map[string]string {
	out := make(map[string]string)
	rest := line
	for {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return out
		}
		key := rest[:eq]
		if sp := strings.LastIndexByte(key, ' '); sp >= 0 {
			key = key[sp+1:]
		}
		rest = rest[eq+1:]

		if strings.HasPrefix(rest, `"`) {
			q, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return out
			}
			v, _ := strconv.Unquote(q)
			out[key] = v
			rest = rest[len(q):]
			continue
		}
		end := strings.IndexByte(rest, ' ')
		if end < 0 {
			out[key] = rest
			return out
		}
		out[key] = rest[:end]
		rest = rest[end:]
	}
}
