// Package main is the entry point for the starship CLI.
//
// starship turns a single devnet definition into the Kubernetes manifests
// that run every chain of the network: per-chain ConfigMaps, headless
// Services, a genesis StatefulSet and a validator StatefulSet.
//
// Commands: generate, validate, version, completion.
//
// For detailed usage information, run:
//
//	starship --help
package main

import (
	"fmt"
	"os"

	"github.com/starship-devnet/starship/cmd/starship/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
