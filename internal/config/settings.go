package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix for settings overrides.
const EnvPrefix = "FLEXSDK"

// Setting keys, shared by viper, the environment and flag binding.
const (
	KeyDestDir  = "dest_dir"
	KeyLogFile  = "log_file"
	KeyManifest = "manifest"
	KeyVerbose  = "verbose"
	KeyTimeout  = "timeout"
)

const (
	defaultSDKSubdir = "lib/flex_sdk"
	defaultLogName   = "flexsdk-install.log"
)

//nolint:gochecknoglobals // Test seam for os.Executable().
var osExecutable = os.Executable

// Settings are the per-run knobs of the installer.
type Settings struct {
	// DestDir is the absolute destination directory. It is wiped on every run.
	DestDir string
	// LogFile is where the JSON error record is written on failure.
	LogFile string
	// Manifest is an optional path to a Lua manifest replacing the embedded one.
	Manifest string
	// Verbose enables debug logging.
	Verbose bool
	// Timeout bounds the archive fetch. Zero means no timeout.
	Timeout time.Duration
}

// NewViper returns a viper instance with defaults set and FLEXSDK_*
// environment lookup enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	base := toolDir()
	v.SetDefault(KeyDestDir, filepath.Join(base, filepath.FromSlash(defaultSDKSubdir)))
	v.SetDefault(KeyLogFile, filepath.Join(base, defaultLogName))
	v.SetDefault(KeyManifest, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyTimeout, time.Duration(0))

	return v
}

// LoadSettings resolves Settings from v, making paths absolute.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DestDir:  strings.TrimSpace(v.GetString(KeyDestDir)),
		LogFile:  strings.TrimSpace(v.GetString(KeyLogFile)),
		Manifest: strings.TrimSpace(v.GetString(KeyManifest)),
		Verbose:  v.GetBool(KeyVerbose),
		Timeout:  v.GetDuration(KeyTimeout),
	}

	if s.DestDir == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyDestDir)
	}
	if s.LogFile == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyLogFile)
	}
	if s.Timeout < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", KeyTimeout, s.Timeout)
	}

	var err error
	if s.DestDir, err = filepath.Abs(s.DestDir); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", KeyDestDir, err)
	}
	if s.LogFile, err = filepath.Abs(s.LogFile); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", KeyLogFile, err)
	}
	if s.Manifest != "" {
		if s.Manifest, err = filepath.Abs(s.Manifest); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", KeyManifest, err)
		}
	}

	// A log file inside the destination would be wiped by the next run.
	if rel, err := filepath.Rel(s.DestDir, s.LogFile); err == nil && !escapesRoot(rel) {
		return nil, fmt.Errorf("%s %s must not live inside %s %s", KeyLogFile, s.LogFile, KeyDestDir, s.DestDir)
	}

	return s, nil
}

// toolDir is the directory holding the running executable, or the working
// directory when it cannot be resolved.
func toolDir() string {
	exe, err := osExecutable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
