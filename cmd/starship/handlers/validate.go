package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/starship-devnet/starship/internal/manifests"
)

// Validate loads the config at configPath and renders every chain in memory
// without writing anything.
func Validate(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := manifests.NewBuilder(cfg, newResolver(filepath.Dir(configPath))).BuildAll()
	if err != nil {
		return fmt.Errorf("failed to render manifests: %w", err)
	}

	fmt.Fprintf(stdout, "%s is valid: %d chain(s) rendered", configPath, len(res.Chains))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(stdout, ", %d skipped", len(res.Skipped))
	}
	fmt.Fprintln(stdout)
	return nil
}
