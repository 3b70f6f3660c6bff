package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/config"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/pipeline"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/report"
)

const manifestPhase = "manifest"

func newInstallCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download and prepare the Flex SDK",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, stdout, stderr)
		},
	}
	cmd.Flags().String(flagLogFile, "", "error log written on failure (default <tool dir>/flexsdk-install.log)")
	cmd.Flags().Duration(flagTimeout, 0, "limit for the whole download, e.g. 10m (default none)")
	return cmd
}

func runInstall(cmd *cobra.Command, stdout, stderr io.Writer) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, settings.Verbose)
	sink := report.NewSink(logger, stdout, settings.LogFile)
	ctx := cmd.Context()

	manifest, info, err := loadManifest(ctx, settings.Manifest)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", config.FormatError(err, settings.Verbose))
		if werr := sink.Failure(manifestPhase, err); werr != nil {
			logger.Error("Could not write error log", "err", werr)
		}
		return &ExitError{Code: pipeline.ExitFailure}
	}
	logger.Debug("Platform detected", "platform", info.String())

	inst, err := pipeline.NewInstaller(pipeline.Options{
		DestDir:  settings.DestDir,
		Manifest: manifest,
		Platform: info,
		Timeout:  settings.Timeout,
		Logger:   logger,
		Sink:     sink,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if werr := sink.Failure(manifestPhase, err); werr != nil {
			logger.Error("Could not write error log", "err", werr)
		}
		return &ExitError{Code: pipeline.ExitFailure}
	}
	if code := inst.Run(ctx); code != pipeline.ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}
