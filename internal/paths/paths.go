package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppDirName      = "chaticon"
	ConfigFileName  = "chaticon-config.json"
	HistoryFileName = "history.log"
	HistoryDBName   = "history.db"
	DefaultOutDir   = "icons"
	VectorFileName  = "icon.svg"
	RasterPrefix    = "icon"
	DirPerm         = 0755
	FilePerm        = 0644
)

// RasterFileName returns the PNG file name for a square icon of the given
// pixel size, e.g. "icon48.png".
func RasterFileName(size int) string {
	return fmt.Sprintf("%s%d.png", RasterPrefix, size)
}

// AtomicWrite writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DataDir returns the platform-specific data directory for chaticon:
//   - Windows: %APPDATA%\chaticon
//   - Unix:    ~/.config/chaticon
//
// Falls back to os.TempDir()/chaticon if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}
