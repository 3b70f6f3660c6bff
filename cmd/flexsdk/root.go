package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/config"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/platform"
)

// Flag names. Each maps onto a config.Key* setting.
const (
	flagDest     = "dest"
	flagManifest = "manifest"
	flagLogFile  = "log-file"
	flagTimeout  = "timeout"
	flagVerbose  = "verbose"
)

var flagKeys = map[string]string{
	flagDest:     config.KeyDestDir,
	flagManifest: config.KeyManifest,
	flagLogFile:  config.KeyLogFile,
	flagTimeout:  config.KeyTimeout,
	flagVerbose:  config.KeyVerbose,
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "flexsdk",
		Short: "Download and prepare the Flex SDK",
		Long: `flexsdk installs the Flex SDK next to this tool.

It wipes the destination directory, downloads the SDK archive named by the
manifest, converts text files to LF line endings, patches the launcher
scripts for 64-bit macOS, and makes them executable. On failure it writes a
JSON error record to the log file and exits with status 1.

Settings can also be given through FLEXSDK_DEST_DIR, FLEXSDK_LOG_FILE,
FLEXSDK_MANIFEST, FLEXSDK_VERBOSE and FLEXSDK_TIMEOUT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String(flagDest, "", "destination directory (default <tool dir>/lib/flex_sdk)")
	pf.String(flagManifest, "", "Lua manifest replacing the built-in one")
	pf.BoolP(flagVerbose, "v", false, "enable debug logging")

	root.AddCommand(
		newInstallCmd(stdout, stderr),
		newBinCmd(stdout, stderr),
		newVersionCmd(stdout),
	)
	return root
}

// loadSettings resolves settings from the command's flags, the environment
// and the defaults, in that order of precedence.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := config.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	return config.LoadSettings(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flag(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "flexsdk",
		Level:  level,
	})
}

// loadManifest detects the platform once and parses the manifest against it.
func loadManifest(ctx context.Context, path string) (*config.Manifest, *platform.Info, error) {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, nil, err
	}
	m, err := config.NewParser(platform.Static{Info: info}).Load(ctx, path)
	if err != nil {
		return nil, info, err
	}
	return m, info, nil
}
