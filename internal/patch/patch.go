// Package patch rewrites Flex SDK launcher scripts so they keep working on
// 64-bit macOS with a Java 6 runtime, where the SDK's compilers need to be
// forced into the 32-bit VM.
package patch

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// Shim is inserted before every java invocation that passes $VMARGS. It
// appends -d32 to VMARGS on 64-bit OS X running a 64-bit Java 1.6.
const Shim = "D32=\"\"\n" +
	"D32_OVERRIDE=\"\"\n" +
	"IS_OSX=\"`uname | grep -i Darwin`\"\n" +
	"IS_JAVA64=\"`java -version 2>&1 | grep -i 64-Bit`\"\n" +
	"JAVA_VERSION=\"`java -version 2>&1 | awk -F '[ \".]+' 'NR==1 {print $3 \".\" $4}'`\"\n" +
	"if [ \"$IS_OSX\" != \"\" -a \"$HOSTTYPE\" = \"x86_64\" -a \"$IS_JAVA64\" != \"\" -a \"$JAVA_VERSION\" = \"1.6\" ]; then\n" +
	"  D32_OVERRIDE=\"-d32\"\n" +
	"fi\n" +
	"VMARGS=\"$VMARGS $D32_OVERRIDE\"\n" +
	"\n"

// ExecutableMode is the mode patched scripts are written with.
const ExecutableMode os.FileMode = 0o755

var invocation = regexp.MustCompile(`(?m)^java .*\$VMARGS`)

// windowsLaunchers are never shell scripts.
var windowsLaunchers = []string{".bat", ".exe"}

// Patcher applies Shim to launcher scripts.
type Patcher struct {
	logger *log.Logger
	parser *syntax.Parser
}

// New creates a patcher. A nil logger discards output.
func New(logger *log.Logger) *Patcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Patcher{logger: logger, parser: syntax.NewParser()}
}

// Patch rewrites every launcher in bins that invokes java with $VMARGS,
// visiting roles in sorted order. Windows launchers and scripts without a
// matching line are left untouched. It returns the paths it rewrote.
func (p *Patcher) Patch(bins map[string]string) ([]string, error) {
	var patched []string
	for _, role := range slices.Sorted(maps.Keys(bins)) {
		path := bins[role]
		if IsWindowsLauncher(path) {
			p.logger.Debug("Skipping windows launcher", "path", path)
			continue
		}

		ok, err := p.patchFile(path)
		if err != nil {
			return patched, err
		}
		if ok {
			p.logger.Debug("Patched launcher", "role", role, "path", path)
			patched = append(patched, path)
		}
	}

	p.logger.Info("Patched launchers", "count", len(patched))
	return patched, nil
}

func (p *Patcher) patchFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	out, ok := Apply(data)
	if !ok {
		return false, nil
	}

	if _, err := p.parser.Parse(bytes.NewReader(out), path); err != nil {
		p.logger.Warn("Patched script does not parse", "path", path, "err", err)
	}

	if err := os.WriteFile(path, out, ExecutableMode); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, ExecutableMode); err != nil {
		return false, fmt.Errorf("chmod %s: %w", path, err)
	}
	return true, nil
}

// Apply inserts Shim before every matching java invocation in script. It
// reports whether anything matched.
func Apply(script []byte) ([]byte, bool) {
	if !invocation.Match(script) {
		return script, false
	}
	out := invocation.ReplaceAllFunc(script, func(line []byte) []byte {
		block := make([]byte, 0, len(Shim)+len(line))
		block = append(block, Shim...)
		return append(block, line...)
	})
	return out, true
}

// IsWindowsLauncher reports whether path ends in .bat or .exe, ignoring case.
func IsWindowsLauncher(path string) bool {
	return slices.Contains(windowsLaunchers, strings.ToLower(filepath.Ext(path)))
}
