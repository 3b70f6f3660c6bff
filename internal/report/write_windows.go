//go:build windows

package report

import "os"

// writeAtomic replaces path with data. renameio does not support Windows,
// where os.Rename over an existing file is not atomic anyway.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
