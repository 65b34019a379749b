package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/naming"
	"github.com/starship-devnet/starship/internal/util/ptr"
)

// Default quotas of the helper containers.
var (
	defaultWaitResources   = Resources{CPU: "0.1", Memory: "128M"}
	defaultFaucetResources = Resources{CPU: "0.2", Memory: "200M"}
	defaultExposerResource = Resources{CPU: "0.1", Memory: "100M"}
)

// ApplyDefaults fills the global sections. It is safe to call more than once.
func (c *Config) ApplyDefaults() {
	if c.ImagePullPolicy == "" {
		c.ImagePullPolicy = DefaultImagePullPolicy
	}
	c.Timeouts = c.Timeouts.WithDefaults()

	fill(&c.Resources.Wait, defaultWaitResources)
	fill(&c.Exposer, ExposerConfig{
		Image:     DefaultExposerImage,
		GRPCPort:  DefaultExposerGRPCPort,
		Resources: defaultExposerResource,
	})
	fill(&c.Builder, BuilderConfig{Image: DefaultBuilderImage})
	fill(&c.Faucet, FaucetDefaults{
		Image:       DefaultFaucetImage,
		CosmjsImage: DefaultCosmjsFaucetImage,
	})
	if c.Keys.IsZero() {
		c.Keys = scripts.Ref{File: scripts.KeysFile}
	}
}

// Normalize returns chain with every optional field filled. Values come
// from, in order: the chain itself, the chain-type table, the global
// config, and built-in defaults. Normalize is pure and idempotent:
// normalizing an already processed chain returns it unchanged.
func Normalize(cfg *Config, chain ChainSpec) ProcessedChain {
	out := chain.clone()

	typed, typeGenesis := typeDefaults(out.Name)
	fill(&out, typed)

	pullPolicy := DefaultImagePullPolicy
	if cfg != nil && cfg.ImagePullPolicy != "" {
		pullPolicy = cfg.ImagePullPolicy
	}
	nodeResources := Resources{}
	faucetImage, cosmjsImage := DefaultFaucetImage, DefaultCosmjsFaucetImage
	if cfg != nil {
		nodeResources = cfg.Resources.Node
		if cfg.Faucet.Image != "" {
			faucetImage = cfg.Faucet.Image
		}
		if cfg.Faucet.CosmjsImage != "" {
			cosmjsImage = cfg.Faucet.CosmjsImage
		}
	}

	fill(&out.Resources, nodeResources)
	fill(&out, ChainSpec{
		HDPath:          DefaultHDPath,
		CoinType:        DefaultCoinType,
		NumValidators:   DefaultNumValidators,
		ImagePullPolicy: pullPolicy,
		Resources:       Resources{CPU: DefaultCPU, Memory: DefaultMemory},
		Cometmock:       Cometmock{Image: DefaultCometmockImage},
		Scripts:         defaultScripts(),
		Ports: Ports{
			Rest:    DefaultRestPort,
			RPC:     DefaultRPCPort,
			GRPC:    DefaultGRPCPort,
			Exposer: DefaultExposerPort,
		},
	})

	if out.Coins == "" && out.Denom != "" {
		out.Coins = fmt.Sprintf("100000000000000%s", out.Denom)
	}
	if out.Upgrade.Enabled && out.Upgrade.Type == "" {
		out.Upgrade.Type = "build"
	}

	if out.Faucet.Enabled == nil {
		out.Faucet.Enabled = ptr.Bool(true)
	}
	if out.Faucet.Type == "" {
		out.Faucet.Type = FaucetStarship
	}
	fill(&out.Faucet, Faucet{
		Concurrency: DefaultFaucetConcurrency,
		Resources:   defaultFaucetResources,
	})
	if out.Faucet.Image == "" {
		out.Faucet.Image = faucetImage
		if out.Faucet.Type == FaucetCosmjs {
			out.Faucet.Image = cosmjsImage
		}
	}
	if out.Ports.Faucet == 0 {
		out.Ports.Faucet = DefaultStarshipFaucetPort
		if out.Faucet.Type == FaucetCosmjs {
			out.Ports.Faucet = DefaultCosmjsFaucetPort
		}
	}

	out.Genesis = mergeGenesis(typeGenesis, out.Genesis)

	return ProcessedChain{
		ChainSpec: out,
		Host:      naming.Host(out.ID),
	}
}

// ProcessedChains normalizes every chain of the config in declaration order.
func (c *Config) ProcessedChains() []ProcessedChain {
	out := make([]ProcessedChain, 0, len(c.Chains))
	for _, ch := range c.Chains {
		out = append(out, Normalize(c, ch))
	}
	return out
}

// fill copies every non-empty field of src into the empty fields of dst.
// dst and src always share a type, the only case in which mergo fails.
func fill[T any](dst *T, src T) {
	_ = mergo.Merge(dst, src)
}

func defaultScripts() map[string]scripts.Ref {
	out := make(map[string]scripts.Ref)
	for _, name := range scripts.Names() {
		out[name] = scripts.DefaultRef(name)
	}
	return out
}

// mergeGenesis lays the user's patch over the chain-type patch. Both are
// JSON merge patches, so the result is itself a merge patch. If either side
// cannot be encoded the user's patch is used as-is.
func mergeGenesis(base string, user map[string]interface{}) map[string]interface{} {
	if base == "" {
		return user
	}

	userJSON := []byte("{}")
	if len(user) > 0 {
		b, err := json.Marshal(user)
		if err != nil {
			return user
		}
		userJSON = b
	}

	merged, err := jsonpatch.MergeMergePatches([]byte(base), userJSON)
	if err != nil {
		return user
	}

	var out map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return user
	}
	return out
}

// clone returns a copy of c that shares no maps or slices with it.
func (c ChainSpec) clone() ChainSpec {
	out := c
	if c.Scripts != nil {
		out.Scripts = make(map[string]scripts.Ref, len(c.Scripts))
		for k, v := range c.Scripts {
			out.Scripts[k] = v
		}
	}
	if c.Genesis != nil {
		out.Genesis = make(map[string]interface{}, len(c.Genesis))
		for k, v := range c.Genesis {
			out.Genesis[k] = v
		}
	}
	if c.Faucet.Enabled != nil {
		out.Faucet.Enabled = ptr.Bool(*c.Faucet.Enabled)
	}
	out.Env = append([]EnvVar(nil), c.Env...)
	out.Balances = append([]Balance(nil), c.Balances...)
	out.Upgrade.Upgrades = append([]UpgradeStep(nil), c.Upgrade.Upgrades...)
	return out
}
