package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/platform"
)

// Catalog maps SDK launcher roles (mxmlc, compc, ...) to their absolute
// paths under the install. It is empty until Refresh is called, and stale
// again whenever the tree under BinDir changes.
type Catalog struct {
	root   string
	binDir string
	roles  []string
	info   *platform.Info
	bin    map[string]string
}

// NewCatalog creates a catalog over root/binDir. info selects the launcher
// naming convention; nil means the host running this process.
func NewCatalog(root, binDir string, roles []string, info *platform.Info) *Catalog {
	if info == nil {
		info = platform.Host()
	}
	return &Catalog{
		root:   root,
		binDir: binDir,
		roles:  slices.Clone(roles),
		info:   info,
		bin:    map[string]string{},
	}
}

// Refresh rescans BinDir and rebuilds the role map. Roles without a
// launcher are left out. A missing BinDir yields an empty catalog.
func (c *Catalog) Refresh() error {
	bin := make(map[string]string, len(c.roles))
	dir := c.BinDir()

	for _, role := range c.roles {
		for _, ext := range c.info.LauncherExtensions() {
			candidate := filepath.Join(dir, role+ext)
			info, err := os.Stat(candidate)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("stat %s: %w", candidate, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}
			bin[role] = candidate
			break
		}
	}

	c.bin = bin
	return nil
}

// Bin returns a copy of the role -> path map.
func (c *Catalog) Bin() map[string]string {
	return maps.Clone(c.bin)
}

// Path returns the launcher for role, if catalogued.
func (c *Catalog) Path(role string) (string, bool) {
	p, ok := c.bin[role]
	return p, ok
}

// BinDir returns the absolute directory holding the launchers.
func (c *Catalog) BinDir() string {
	return filepath.Join(c.root, c.binDir)
}

// Root returns the install root.
func (c *Catalog) Root() string {
	return c.root
}

// Roles returns the catalogued role names in sorted order.
func (c *Catalog) Roles() []string {
	return slices.Sorted(maps.Keys(c.bin))
}
