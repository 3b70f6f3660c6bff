package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/binary"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/config"
)

func newBinCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "bin",
		Short: "List the launchers of an existing install",
		Long: `Scan the installed SDK and print one "role<TAB>path" line per launcher,
sorted by role. Nothing is downloaded or modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBin(cmd, stdout, stderr)
		},
	}
}

func runBin(cmd *cobra.Command, stdout, stderr io.Writer) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	manifest, info, err := loadManifest(cmd.Context(), settings.Manifest)
	if err != nil {
		return &ExitError{Code: 1, Err: errors.New(config.FormatError(err, settings.Verbose))}
	}

	catalog := binary.NewCatalog(settings.DestDir, manifest.BinDir, manifest.Binaries, info)
	if err := catalog.Refresh(); err != nil {
		return err
	}

	roles := catalog.Roles()
	if len(roles) == 0 {
		return fmt.Errorf("no launchers found in %s; run 'flexsdk install' first", catalog.BinDir())
	}
	for _, role := range roles {
		path, _ := catalog.Path(role)
		fmt.Fprintf(stdout, "%s\t%s\n", role, path)
	}
	return nil
}
