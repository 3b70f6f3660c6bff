// Package testutil provides helpers for testing the installer in isolation:
// a sandboxed FLEXSDK_* environment, in-memory archive builders, and a
// logger that writes through testing.T.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated paths created by SetupTestEnv.
type Env struct {
	Root    string // temp root, removed by the testing framework
	DestDir string // FLEXSDK_DEST_DIR
	LogFile string // FLEXSDK_LOG_FILE
}

// SetupTestEnv points every FLEXSDK_* setting at a fresh temp directory so a
// test never touches a real SDK install or error log. Variables that would
// change behavior (manifest, verbosity, timeout) are cleared.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	root := t.TempDir()
	env := Env{
		Root:    root,
		DestDir: filepath.Join(root, "lib", "flex_sdk"),
		LogFile: filepath.Join(root, "flexsdk-install.log"),
	}

	t.Setenv("FLEXSDK_DEST_DIR", env.DestDir)
	t.Setenv("FLEXSDK_LOG_FILE", env.LogFile)
	t.Setenv("FLEXSDK_MANIFEST", "")
	t.Setenv("FLEXSDK_VERBOSE", "")
	t.Setenv("FLEXSDK_TIMEOUT", "")

	return env
}

// WriteFile writes content to root/rel with mode, creating parents.
func WriteFile(t *testing.T, root, rel string, content []byte, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	// WriteFile honours umask; tests rely on the exact mode.
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
	return path
}
