package config

import "sort"

// chainType holds the per-family defaults applied before the generic ones.
type chainType struct {
	image    string
	binary   string
	home     string
	prefix   string
	denom    string
	hdPath   string
	coinType int
	repo     string
	// genesis is a JSON merge patch applied under the user's own patch.
	genesis string
}

var chainTypes = map[string]chainType{
	"osmosis": {
		image:  "ghcr.io/cosmology-tech/starship/osmosis:v25.0.0",
		binary: "osmosisd",
		home:   "/root/.osmosisd",
		prefix: "osmo",
		denom:  "uosmo",
		repo:   "https://github.com/osmosis-labs/osmosis",
	},
	"cosmoshub": {
		image:  "ghcr.io/cosmology-tech/starship/gaia:v18.0.0",
		binary: "gaiad",
		home:   "/root/.gaia",
		prefix: "cosmos",
		denom:  "uatom",
		repo:   "https://github.com/cosmos/gaia",
	},
	"juno": {
		image:  "ghcr.io/cosmology-tech/starship/juno:v21.0.0",
		binary: "junod",
		home:   "/root/.juno",
		prefix: "juno",
		denom:  "ujuno",
		repo:   "https://github.com/CosmosContracts/juno",
	},
	"simapp": {
		image:   "ghcr.io/cosmology-tech/starship/simapp:v0.47.3",
		binary:  "simd",
		home:    "/root/.simapp",
		prefix:  "cosmos",
		denom:   "stake",
		repo:    "https://github.com/cosmos/cosmos-sdk",
		genesis: `{"app_state":{"staking":{"params":{"bond_denom":"stake"}}}}`,
	},
	"neutron": {
		image:   "ghcr.io/cosmology-tech/starship/neutron:v3.0.2",
		binary:  "neutrond",
		home:    "/root/.neutrond",
		prefix:  "neutron",
		denom:   "untrn",
		repo:    "https://github.com/neutron-org/neutron",
		genesis: `{"app_state":{"feeburner":{"params":{"treasury_address":""}}}}`,
	},
	"stride": {
		image:  "ghcr.io/cosmology-tech/starship/stride:v22.0.0",
		binary: "strided",
		home:   "/root/.stride",
		prefix: "stride",
		denom:  "ustrd",
		repo:   "https://github.com/Stride-Labs/stride",
	},
	"celestia": {
		image:  "ghcr.io/cosmology-tech/starship/celestia:v1.11.0",
		binary: "celestia-appd",
		home:   "/root/.celestia-app",
		prefix: "celestia",
		denom:  "utia",
		repo:   "https://github.com/celestiaorg/celestia-app",
	},
	"evmos": {
		image:    "ghcr.io/cosmology-tech/starship/evmos:v18.0.0",
		binary:   "evmosd",
		home:     "/root/.evmosd",
		prefix:   "evmos",
		denom:    "aevmos",
		hdPath:   "m/44'/60'/0'/0/0",
		coinType: 60,
		repo:     "https://github.com/evmos/evmos",
	},
}

// typeDefaults returns a fresh ChainSpec holding the defaults of a known
// chain family and the family's genesis patch, if any.
func typeDefaults(name string) (ChainSpec, string) {
	t, ok := chainTypes[name]
	if !ok {
		return ChainSpec{}, ""
	}
	return ChainSpec{
		Image:    t.image,
		Binary:   t.binary,
		Home:     t.home,
		Prefix:   t.prefix,
		Denom:    t.denom,
		HDPath:   t.hdPath,
		CoinType: t.coinType,
		Repo:     t.repo,
	}, t.genesis
}

// KnownChainTypes returns the chain families with built-in defaults, sorted.
func KnownChainTypes() []string {
	names := make([]string, 0, len(chainTypes))
	for name := range chainTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
