// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the starship CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "starship",
		Short:         "Generate Kubernetes manifests for multi-chain devnets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Generate())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
