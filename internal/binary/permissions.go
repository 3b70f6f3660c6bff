package binary

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"
)

// ExecutableMode is applied to launchers missing the owner-execute bit.
const ExecutableMode os.FileMode = 0o755

// FixPermissions chmods every launcher in bins whose owner-execute bit is
// unset to ExecutableMode. Launchers are visited in role order. It returns
// the paths it changed.
func FixPermissions(bins map[string]string, logger *log.Logger) ([]string, error) {
	logger = orDiscard(logger)

	var fixed []string
	for _, role := range slices.Sorted(maps.Keys(bins)) {
		path := bins[role]
		info, err := os.Stat(path)
		if err != nil {
			return fixed, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Mode().Perm()&ownerExec != 0 {
			continue
		}
		if err := SetExecutable(path); err != nil {
			return fixed, err
		}
		logger.Debug("Set executable", "role", role, "path", path)
		fixed = append(fixed, path)
	}

	logger.Info("Permissions checked", "launchers", len(bins), "fixed", len(fixed))
	return fixed, nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, ExecutableMode); err != nil {
		return fmt.Errorf("set executable %s: %w", path, err)
	}
	return nil
}
