//go:build !windows

package report

import (
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// writeAtomic replaces path with data. The temp file lives next to path
// so nothing is written outside its directory.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	defer f.Cleanup()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Chmod(perm); err != nil {
		return err
	}
	return f.CloseAtomicallyReplace()
}
