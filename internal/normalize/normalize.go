package normalize

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Stats counts what Run saw. Every entry adds to Count. Directories add to
// both Directory and Skipped, binary files to both Binary and Skipped.
type Stats struct {
	Count     int
	Binary    int
	Skipped   int
	Fixed     int
	Directory int
}

// Run walks every entry below root (not root itself) and rewrites text
// files containing CRLF or bare CR with LF endings. Rewritten files keep
// their permission bits. Symlinks are neither followed nor rewritten.
// The first read or write error stops the walk and names the file.
func Run(root string, logger *log.Logger) (Stats, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var stats Stats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if path == root {
			return nil
		}
		stats.Count++

		switch {
		case d.IsDir():
			stats.Directory++
			stats.Skipped++
			return nil
		case !d.Type().IsRegular():
			stats.Skipped++
			return nil
		}

		changed, binary, err := normalizeFile(path)
		if err != nil {
			return err
		}
		switch {
		case binary:
			stats.Binary++
			stats.Skipped++
		case changed:
			logger.Debug("Fixed line endings", "path", path)
			stats.Fixed++
		default:
			stats.Skipped++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	logger.Info("Normalized line endings",
		"count", stats.Count,
		"fixed", stats.Fixed,
		"skipped", stats.Skipped,
		"binary", stats.Binary,
		"directory", stats.Directory,
	)
	return stats, nil
}

func normalizeFile(path string) (changed, binary bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, false, fmt.Errorf("read %s: %w", path, err)
	}
	if !IsText(data) {
		return false, true, nil
	}

	out, changed := Bytes(data)
	if !changed {
		return false, false, nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		return false, false, fmt.Errorf("stat %s: %w", path, err)
	}
	perm := info.Mode().Perm()

	if err := os.Remove(path); err != nil {
		return false, false, fmt.Errorf("remove %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, perm); err != nil {
		return false, false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return false, false, fmt.Errorf("chmod %s: %w", path, err)
	}
	return true, false, nil
}

// Bytes converts CRLF and bare CR to LF. It reports whether anything
// changed; when nothing did, data is returned as is.
func Bytes(data []byte) ([]byte, bool) {
	if bytes.IndexByte(data, '\r') < 0 {
		return data, false
	}
	out := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
	return out, true
}
