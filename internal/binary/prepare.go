package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PrepareDestination removes dir recursively if it exists and recreates it
// (with parents). On success dir exists and is empty.
func PrepareDestination(dir string) error {
	if dir == "" {
		return errors.New("destination directory is empty")
	}
	clean := filepath.Clean(dir)
	if !filepath.IsAbs(clean) {
		return fmt.Errorf("destination directory %s is not absolute", dir)
	}
	if filepath.Dir(clean) == clean {
		return fmt.Errorf("refusing to use filesystem root %s as destination", dir)
	}

	if _, err := os.Lstat(clean); err == nil {
		if err := os.RemoveAll(clean); err != nil {
			return fmt.Errorf("delete destination %s: %w", clean, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("inspect destination %s: %w", clean, err)
	}

	if err := os.MkdirAll(clean, 0o755); err != nil {
		return fmt.Errorf("create destination %s: %w", clean, err)
	}

	return nil
}
