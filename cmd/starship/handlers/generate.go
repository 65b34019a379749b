// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by command definitions in the commands package and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/manifests"
	"github.com/starship-devnet/starship/internal/observability"
	"github.com/starship-devnet/starship/internal/scripts"
)

// DefaultOutputDir is where generate writes when --output is not set.
const DefaultOutputDir = "out"

// GenerateOptions holds the flags of the generate command.
type GenerateOptions struct {
	ConfigPath string
	OutputDir  string
	ScriptsDir string
	Verbose    bool
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadConfigFile = config.LoadFile

	newResolver = scripts.Default

	generateAllFiles = manifests.GenerateAllFiles

	newLogger = newZapLogger

	isInteractive = isInteractiveTTY

	stdout io.Writer = os.Stdout
)

// Generate loads the config at opts.ConfigPath and writes the manifests of
// every chain into opts.OutputDir.
func Generate(ctx context.Context, opts GenerateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, flush, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer flush()

	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}

	observer := observability.NewLogrObserver(log).WithFields(map[string]string{"network": cfg.Name})
	res, paths, err := generateAllFiles(cfg, newResolver(scriptsDir(opts)), outDir, observer)
	if err != nil {
		return fmt.Errorf("failed to generate manifests: %w", err)
	}

	fmt.Fprint(stdout, renderSummary(cfg.Name, res, paths, outDir, isInteractive()))
	return nil
}

// scriptsDir returns the directory script files are resolved from.
func scriptsDir(opts GenerateOptions) string {
	if opts.ScriptsDir != "" {
		return opts.ScriptsDir
	}
	if opts.ConfigPath == "" {
		return ""
	}
	return filepath.Dir(opts.ConfigPath)
}
