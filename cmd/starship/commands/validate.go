package commands

import (
	"github.com/spf13/cobra"

	"github.com/starship-devnet/starship/cmd/starship/handlers"
)

// Validate returns the command that checks a devnet config without writing
// any files.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a devnet config",
		Long: `Validate parses the devnet configuration, applies defaults and renders
every chain in memory. Cross-chain references such as ICS providers and
script files are checked the same way generate checks them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the devnet config file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
