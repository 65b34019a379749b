package commands

import (
	"github.com/spf13/cobra"

	"github.com/starship-devnet/starship/cmd/starship/handlers"
)

// Generate returns the command that renders manifests for a devnet config.
func Generate() *cobra.Command {
	var opts handlers.GenerateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Kubernetes manifests from a devnet config",
		Long: `Generate reads a devnet configuration and writes one directory per
chain into the output directory:

  <output>/keys.yaml
  <output>/<chain>/configmap.yaml
  <output>/<chain>/service.yaml
  <output>/<chain>/genesis.yaml
  <output>/<chain>/validator.yaml

Scripts referenced by file are resolved next to the config file unless
--scripts-dir is set. Nothing is written when any chain fails to render.`,
		Example: `  # Render manifests into ./out
  starship generate -c config.yaml

  # Render into a custom directory with debug logs
  starship generate -c config.yaml -o manifests -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Generate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the devnet config file")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", handlers.DefaultOutputDir, "Directory to write manifests into")
	cmd.Flags().StringVar(&opts.ScriptsDir, "scripts-dir", "", "Directory to resolve script files from (default: config file directory)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
