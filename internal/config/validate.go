package config

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"

	"github.com/starship-devnet/starship/internal/scripts"
)

// ValidPullPolicies contains the image pull policies accepted by Kubernetes.
var ValidPullPolicies = map[string]bool{
	"Always":       true,
	"IfNotPresent": true,
	"Never":        true,
}

// ValidFaucetTypes contains the supported faucet implementations.
var ValidFaucetTypes = map[FaucetType]bool{
	FaucetStarship: true,
	FaucetCosmjs:   true,
}

// Validate checks the configuration for structural errors. Every problem
// found is reported, not only the first one.
//
// Cross-chain references (ics.provider) are resolved by the generators at
// build time and are not checked here.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Name == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if c.ImagePullPolicy != "" && !ValidPullPolicies[c.ImagePullPolicy] {
		result = multierror.Append(result, fmt.Errorf("invalid imagePullPolicy %q: must be one of %v",
			c.ImagePullPolicy, getMapKeys(ValidPullPolicies)))
	}
	if len(c.Chains) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one chain is required"))
	}

	seen := make(map[string]bool, len(c.Chains))
	for i, chain := range c.Chains {
		if chain.ID != "" {
			if seen[chain.ID] {
				result = multierror.Append(result, fmt.Errorf("chains[%d]: duplicate chain id %q", i, chain.ID))
			}
			seen[chain.ID] = true
		}
		if err := chain.validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("chains[%d] (%s): %w", i, chain.ID, err))
		}
	}

	return result.ErrorOrNil()
}

// validate checks a single chain entry.
func (c ChainSpec) validate() error {
	var result *multierror.Error

	if c.ID == "" {
		result = multierror.Append(result, fmt.Errorf("id is required"))
	}
	if c.Name == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if !c.IsCosmos() {
		// Non-cosmos chains are owned by a different generator set.
		return result.ErrorOrNil()
	}

	if _, known := chainTypes[c.Name]; !known {
		missing := false
		for _, f := range []struct{ name, val string }{
			{"image", c.Image},
			{"binary", c.Binary},
			{"home", c.Home},
			{"denom", c.Denom},
			{"prefix", c.Prefix},
		} {
			if f.val == "" {
				missing = true
				result = multierror.Append(result, fmt.Errorf("%s is required for chain type %q", f.name, c.Name))
			}
		}
		if missing {
			result = multierror.Append(result, fmt.Errorf("chain type %q has no built-in defaults; known types: %s",
				c.Name, strings.Join(KnownChainTypes(), ", ")))
		}
	}

	if c.Home != "" && !path.IsAbs(c.Home) {
		result = multierror.Append(result, fmt.Errorf("home must be an absolute path, got %q", c.Home))
	}
	if c.NumValidators < 0 {
		result = multierror.Append(result, fmt.Errorf("numValidators must not be negative, got %d", c.NumValidators))
	}
	if c.ImagePullPolicy != "" && !ValidPullPolicies[c.ImagePullPolicy] {
		result = multierror.Append(result, fmt.Errorf("invalid imagePullPolicy %q", c.ImagePullPolicy))
	}
	if c.Faucet.Type != "" && !ValidFaucetTypes[c.Faucet.Type] {
		result = multierror.Append(result, fmt.Errorf("invalid faucet type %q: must be %q or %q",
			c.Faucet.Type, FaucetStarship, FaucetCosmjs))
	}
	if c.ICS.Enabled && c.ICS.Provider == "" {
		result = multierror.Append(result, fmt.Errorf("ics.provider is required when ics is enabled"))
	}
	if c.ICS.Enabled && c.ICS.Provider == c.ID {
		result = multierror.Append(result, fmt.Errorf("ics.provider must reference another chain"))
	}
	if c.Cometmock.Enabled && c.NumValidators > 1 {
		result = multierror.Append(result, fmt.Errorf("cometmock drives a single node: numValidators must be 1, got %d", c.NumValidators))
	}
	if c.Build.Enabled && c.Build.Source == "" {
		result = multierror.Append(result, fmt.Errorf("build.source is required when build is enabled"))
	}
	if err := c.Upgrade.validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Ports.validate(); err != nil {
		result = multierror.Append(result, err)
	}

	for _, name := range sortedKeys(c.Scripts) {
		if _, ok := scripts.FileName(name); !ok {
			result = multierror.Append(result, fmt.Errorf("unknown script %q: must be one of %v", name, scripts.Names()))
		}
	}
	for i, env := range c.Env {
		if env.Name == "" {
			result = multierror.Append(result, fmt.Errorf("env[%d]: name is required", i))
		}
	}
	for i, b := range c.Balances {
		if b.Address == "" || b.Amount == "" {
			result = multierror.Append(result, fmt.Errorf("balances[%d]: address and amount are required", i))
		}
	}

	return result.ErrorOrNil()
}

// validate checks that an enabled upgrade has a genesis version and that
// steps are named. When every version parses as semver they must be
// strictly increasing, starting above the genesis version.
func (u Upgrade) validate() error {
	if !u.Enabled {
		return nil
	}

	var result *multierror.Error
	if u.Genesis == "" {
		result = multierror.Append(result, fmt.Errorf("upgrade.genesis is required when upgrade is enabled"))
	}
	if u.Type != "" && u.Type != "build" {
		result = multierror.Append(result, fmt.Errorf("unsupported upgrade type %q", u.Type))
	}

	versions := make([]*semver.Version, 0, len(u.Upgrades)+1)
	allSemver := true
	if v, err := semver.NewVersion(u.Genesis); err == nil {
		versions = append(versions, v)
	} else {
		allSemver = false
	}

	for i, step := range u.Upgrades {
		if step.Name == "" || step.Version == "" {
			result = multierror.Append(result, fmt.Errorf("upgrade.upgrades[%d]: name and version are required", i))
			continue
		}
		v, err := semver.NewVersion(step.Version)
		if err != nil {
			allSemver = false
			continue
		}
		versions = append(versions, v)
	}

	if allSemver {
		for i := 1; i < len(versions); i++ {
			if !versions[i].GreaterThan(versions[i-1]) {
				result = multierror.Append(result, fmt.Errorf("upgrade versions must be increasing: %s is not after %s",
					versions[i].Original(), versions[i-1].Original()))
			}
		}
	}

	return result.ErrorOrNil()
}

func (p Ports) validate() error {
	var result *multierror.Error
	for _, port := range []struct {
		name  string
		value int
	}{
		{"rest", p.Rest},
		{"rpc", p.RPC},
		{"grpc", p.GRPC},
		{"exposer", p.Exposer},
		{"faucet", p.Faucet},
	} {
		if port.value < 0 || port.value > 65535 {
			result = multierror.Append(result, fmt.Errorf("ports.%s out of range: %d", port.name, port.value))
		}
	}
	return result.ErrorOrNil()
}

func sortedKeys(m map[string]scripts.Ref) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// getMapKeys returns the sorted keys of a set.
func getMapKeys[K ~string](m map[K]bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
