package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultRoles are the launcher names the binary catalog looks for when the
// manifest does not list its own.
var DefaultRoles = []string{
	"aasdoc",
	"acompc",
	"adl",
	"adt",
	"amxmlc",
	"asdoc",
	"compc",
	"copylocale",
	"digest",
	"fcsh",
	"fdb",
	"fontswf",
	"mxmlc",
	"optimizer",
	"swcdepends",
	"swfdump",
}

// DefaultBinDir is the launcher directory relative to the SDK root.
const DefaultBinDir = "bin"

// Manifest describes the SDK archive to install.
type Manifest struct {
	// Version is informational; it is logged and printed by `flexsdk version`.
	Version string `json:"version,omitempty"`

	// URL is the archive source. Immutable for a run.
	URL string `json:"url"`

	// BinDir is the launcher directory relative to the destination root.
	BinDir string `json:"bin_dir"`

	// Binaries lists the launcher roles to catalogue.
	Binaries []string `json:"binaries"`
}

// Validate checks the manifest for obvious mistakes.
func (m *Manifest) Validate() error {
	var errs []error

	if m.URL == "" {
		errs = append(errs, errors.New("url is required"))
	} else if u, err := url.Parse(m.URL); err != nil {
		errs = append(errs, fmt.Errorf("url %q: %w", m.URL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("url %q: scheme must be http or https", m.URL))
	} else if u.Host == "" {
		errs = append(errs, fmt.Errorf("url %q: missing host", m.URL))
	}

	if filepath.IsAbs(m.BinDir) {
		errs = append(errs, fmt.Errorf("bin_dir %q must be relative", m.BinDir))
	} else if escapesRoot(m.BinDir) {
		errs = append(errs, fmt.Errorf("bin_dir %q escapes the SDK root", m.BinDir))
	}

	for i, role := range m.Binaries {
		if role == "" {
			errs = append(errs, fmt.Errorf("binaries[%d] is empty", i+1))
			continue
		}
		if strings.ContainsAny(role, `/\`) {
			errs = append(errs, fmt.Errorf("binaries[%d] %q must be a bare name", i+1, role))
		}
	}

	return errors.Join(errs...)
}

func escapesRoot(rel string) bool {
	clean := filepath.Clean(filepath.FromSlash(rel))
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
