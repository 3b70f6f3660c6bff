package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "flexsdk %s\n", Version)

			manifest, info, err := loadManifest(cmd.Context(), settings.Manifest)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Flex SDK %s\n", manifest.Version)
			fmt.Fprintf(stdout, "Platform %s\n", info)
			return nil
		},
	}
}
