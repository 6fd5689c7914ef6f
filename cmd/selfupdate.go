package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// updateRepository is the GitHub repository releases are fetched from.
const updateRepository = "kube-assistant/kube-assistant"

// newSelfUpdateCmd creates the command that replaces the running binary
// with the latest published release.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update kube-assistant to the latest release",
		Long:  `Download and install the latest released version of kube-assistant.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := rootCmd.Version
			if version == "" || version == "dev" {
				return fmt.Errorf("cannot self-update a development version")
			}

			release, err := selfupdate.UpdateSelf(cmd.Context(), version, selfupdate.ParseSlug(updateRepository))
			if err != nil {
				return fmt.Errorf("self-update failed: %w", err)
			}

			if release.Equal(version) {
				fmt.Fprintf(cmd.OutOrStdout(), "already at the latest version %s\n", version)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "updated to version %s\n", release.Version())
			}
			return nil
		},
	}
}
