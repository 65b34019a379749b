package manifests

import (
	"github.com/starship-devnet/starship/internal/config"
)

// FaucetVariant selects the faucet implementation of a chain, or none.
type FaucetVariant string

const (
	FaucetNone     FaucetVariant = "none"
	FaucetStarship FaucetVariant = FaucetVariant(config.FaucetStarship)
	FaucetCosmjs   FaucetVariant = FaucetVariant(config.FaucetCosmjs)
)

// Features is the set of optional behaviours of one chain. It is computed
// once and every generator branches on it instead of on the raw fields.
type Features struct {
	// NeedsBuild compiles binaries in an init container and runs the node under cosmovisor
	NeedsBuild bool
	// Upgrade carries binaries for later software upgrades
	Upgrade bool
	Faucet  FaucetVariant
	// ICS marks an inter-chain-security consumer of ICSProvider
	ICS         bool
	ICSProvider string
	CometMock   bool
	Metrics     bool
	// GenesisPatch is set when the chain carries a non-empty genesis fragment
	GenesisPatch bool
	// HasValidators is set when validators beyond the genesis node exist
	HasValidators bool
	Validators    int32
}

// FeaturesOf derives the feature set of a processed chain.
func FeaturesOf(c config.ProcessedChain) Features {
	f := Features{
		NeedsBuild:   c.NeedsBuild(),
		Upgrade:      c.Upgrade.Enabled,
		Faucet:       FaucetNone,
		ICS:          c.ICS.Enabled,
		CometMock:    c.Cometmock.Enabled,
		Metrics:      c.Metrics,
		GenesisPatch: len(c.Genesis) > 0,
	}
	if c.Faucet.IsEnabled() {
		f.Faucet = FaucetVariant(c.Faucet.Type)
	}
	if f.ICS {
		f.ICSProvider = c.ICS.Provider
	}
	if c.NumValidators > 1 {
		f.HasValidators = true
		f.Validators = int32(c.NumValidators - 1) // #nosec G115 -- bounded by config
	}
	return f
}

// buildVersion is one binary compiled by the build init container.
type buildVersion struct {
	name string // "genesis" or the upgrade name
	tag  string
}

// buildVersions lists the binaries to compile, genesis first.
func buildVersions(c config.ProcessedChain) []buildVersion {
	if c.Upgrade.Enabled {
		out := []buildVersion{{name: "genesis", tag: c.Upgrade.Genesis}}
		for _, u := range c.Upgrade.Upgrades {
			out = append(out, buildVersion{name: u.Name, tag: u.Version})
		}
		return out
	}
	if c.Build.Enabled {
		return []buildVersion{{name: "genesis", tag: c.Build.Source}}
	}
	return nil
}
