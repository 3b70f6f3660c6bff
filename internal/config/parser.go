package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/platform"
)

const (
	luaGlobalManifest = "flexsdk"
	luaFieldVersion   = "version"
	luaFieldURL       = "url"
	luaFieldBinDir    = "bin_dir"
	luaFieldBinaries  = "binaries"
)

//go:embed manifest.lua
var defaultManifest string

// DefaultManifestSource returns the Lua source of the embedded manifest.
func DefaultManifestSource() string {
	return defaultManifest
}

// Parser evaluates Lua manifests with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a manifest parser. A nil detector leaves the platform
// table undefined, which only suits manifests that never reference it.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and parses the manifest at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{
			Message: "cannot read manifest",
			Detail:  err.Error(),
		}
	}
	return p.ParseString(ctx, string(data))
}

// Load parses the manifest at path, or the embedded one when path is empty.
func (p *Parser) Load(ctx context.Context, path string) (*Manifest, error) {
	if path == "" {
		return p.ParseDefault(ctx)
	}
	return p.ParseFile(ctx, path)
}

// ParseDefault parses the embedded manifest.
func (p *Parser) ParseDefault(ctx context.Context) (*Manifest, error) {
	return p.ParseString(ctx, defaultManifest)
}

// ParseString parses a Lua manifest from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Manifest, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua error in manifest",
			Detail:  err.Error(),
		}
	}

	return extractManifest(L)
}

// ParseError represents a manifest error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractManifest reads the global "flexsdk" table.
func extractManifest(L *lua.LState) (*Manifest, error) {
	global := L.GetGlobal(luaGlobalManifest)
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("missing or invalid '%s' table", luaGlobalManifest),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	m := &Manifest{BinDir: DefaultBinDir}

	var err error
	if m.Version, err = optionalString(table, luaFieldVersion); err != nil {
		return nil, err
	}
	if m.URL, err = optionalString(table, luaFieldURL); err != nil {
		return nil, err
	}
	if binDir, err := optionalString(table, luaFieldBinDir); err != nil {
		return nil, err
	} else if binDir != "" {
		m.BinDir = binDir
	}

	switch v := table.RawGetString(luaFieldBinaries).(type) {
	case *lua.LNilType:
		m.Binaries = append([]string(nil), DefaultRoles...)
	case *lua.LTable:
		m.Binaries = extractStrings(v)
	default:
		return nil, &ParseError{
			Message: "invalid manifest field",
			Detail:  fmt.Sprintf("%s: expected table, got %s", luaFieldBinaries, v.Type()),
		}
	}

	if err := m.Validate(); err != nil {
		return nil, &ParseError{
			Message: "manifest validation failed",
			Detail:  err.Error(),
		}
	}

	return m, nil
}

func optionalString(table *lua.LTable, field string) (string, error) {
	switch v := table.RawGetString(field).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return strings.TrimSpace(string(v)), nil
	default:
		return "", &ParseError{
			Message: "invalid manifest field",
			Detail:  fmt.Sprintf("%s: expected string, got %s", field, v.Type()),
		}
	}
}

// extractStrings collects the array part of a Lua table, skipping nil holes
// left by platform conditionals and non-string values.
func extractStrings(table *lua.LTable) []string {
	var out []string
	n := table.MaxN()
	for i := 1; i <= n; i++ {
		if s, ok := table.RawGetInt(i).(lua.LString); ok {
			out = append(out, strings.TrimSpace(string(s)))
		}
	}
	return out
}

// FormatError formats an error for display. In verbose mode the raw Lua
// error is shown; otherwise the stack traceback is trimmed.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
