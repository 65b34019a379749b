package config

import (
	"github.com/starship-devnet/starship/internal/scripts"
)

// Config is the root of a starship devnet definition.
type Config struct {
	Name            string          `mapstructure:"name" yaml:"name"`
	Version         string          `mapstructure:"version" yaml:"version,omitempty"`
	ImagePullPolicy string          `mapstructure:"imagePullPolicy" yaml:"imagePullPolicy,omitempty"`
	Chains          []ChainSpec     `mapstructure:"chains" yaml:"chains"`
	Relayers        []Relayer       `mapstructure:"relayers" yaml:"relayers,omitempty"`
	Explorer        Component       `mapstructure:"explorer" yaml:"explorer,omitempty"`
	Registry        Component       `mapstructure:"registry" yaml:"registry,omitempty"`
	Monitoring      Component       `mapstructure:"monitoring" yaml:"monitoring,omitempty"`
	Frontends       []Component     `mapstructure:"frontends" yaml:"frontends,omitempty"`
	Timeouts        Timeouts        `mapstructure:"timeouts" yaml:"timeouts,omitempty"`
	Resources       GlobalResources `mapstructure:"resources" yaml:"resources,omitempty"`
	Exposer         ExposerConfig   `mapstructure:"exposer" yaml:"exposer,omitempty"`
	Builder         BuilderConfig   `mapstructure:"builder" yaml:"builder,omitempty"`
	Faucet          FaucetDefaults  `mapstructure:"faucet" yaml:"faucet,omitempty"`
	Keys            scripts.Ref     `mapstructure:"keys" yaml:"keys,omitempty"`
}

// ChainSpec is a chain entry as written by the user. Most fields are
// optional; see Normalize.
type ChainSpec struct {
	ID              string                 `mapstructure:"id" yaml:"id"`
	Name            string                 `mapstructure:"name" yaml:"name"`
	Image           string                 `mapstructure:"image" yaml:"image,omitempty"`
	Binary          string                 `mapstructure:"binary" yaml:"binary,omitempty"`
	Home            string                 `mapstructure:"home" yaml:"home,omitempty"`
	Denom           string                 `mapstructure:"denom" yaml:"denom,omitempty"`
	Prefix          string                 `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Coins           string                 `mapstructure:"coins" yaml:"coins,omitempty"`
	HDPath          string                 `mapstructure:"hdPath" yaml:"hdPath,omitempty"`
	CoinType        int                    `mapstructure:"coinType" yaml:"coinType,omitempty"`
	Repo            string                 `mapstructure:"repo" yaml:"repo,omitempty"`
	NumValidators   int                    `mapstructure:"numValidators" yaml:"numValidators,omitempty"`
	ImagePullPolicy string                 `mapstructure:"imagePullPolicy" yaml:"imagePullPolicy,omitempty"`
	Build           Build                  `mapstructure:"build" yaml:"build,omitempty"`
	Upgrade         Upgrade                `mapstructure:"upgrade" yaml:"upgrade,omitempty"`
	Faucet          Faucet                 `mapstructure:"faucet" yaml:"faucet,omitempty"`
	ICS             ICS                    `mapstructure:"ics" yaml:"ics,omitempty"`
	Cometmock       Cometmock              `mapstructure:"cometmock" yaml:"cometmock,omitempty"`
	Genesis         map[string]interface{} `mapstructure:"genesis" yaml:"genesis,omitempty"`
	Metrics         bool                   `mapstructure:"metrics" yaml:"metrics,omitempty"`
	Ports           Ports                  `mapstructure:"ports" yaml:"ports,omitempty"`
	Env             []EnvVar               `mapstructure:"env" yaml:"env,omitempty"`
	Scripts         map[string]scripts.Ref `mapstructure:"scripts" yaml:"scripts,omitempty"`
	Balances        []Balance              `mapstructure:"balances" yaml:"balances,omitempty"`
	Resources       Resources              `mapstructure:"resources" yaml:"resources,omitempty"`
}

// Build enables compiling the chain binary from source instead of using
// the prebuilt image binary.
type Build struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Source  string `mapstructure:"source" yaml:"source,omitempty"` // tag, branch or commit of Repo
}

// Upgrade describes a chain that starts on a genesis version and carries
// binaries for later software upgrades (run through cosmovisor).
type Upgrade struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Type     string        `mapstructure:"type" yaml:"type,omitempty"`
	Genesis  string        `mapstructure:"genesis" yaml:"genesis,omitempty"`
	Upgrades []UpgradeStep `mapstructure:"upgrades" yaml:"upgrades,omitempty"`
}

// UpgradeStep is one named on-chain upgrade and the code version it installs.
type UpgradeStep struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Version string `mapstructure:"version" yaml:"version"`
}

// FaucetType selects the faucet implementation.
type FaucetType string

const (
	FaucetStarship FaucetType = "starship"
	FaucetCosmjs   FaucetType = "cosmjs"
)

// Faucet configures the faucet container of the genesis workload.
type Faucet struct {
	Enabled     *bool      `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Type        FaucetType `mapstructure:"type" yaml:"type,omitempty"`
	Image       string     `mapstructure:"image" yaml:"image,omitempty"`
	Concurrency int        `mapstructure:"concurrency" yaml:"concurrency,omitempty"`
	Resources   Resources  `mapstructure:"resources" yaml:"resources,omitempty"`
}

// IsEnabled reports whether the faucet is on. Unset means enabled.
func (f Faucet) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// ICS marks a chain as an inter-chain-security consumer of Provider.
type ICS struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Provider string `mapstructure:"provider" yaml:"provider,omitempty"` // chain id of the provider
}

// Cometmock replaces real consensus with a mocked engine.
type Cometmock struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Image   string `mapstructure:"image" yaml:"image,omitempty"`
}

// Ports are the node ports published by the chain services.
type Ports struct {
	Rest    int `mapstructure:"rest" yaml:"rest,omitempty"`
	RPC     int `mapstructure:"rpc" yaml:"rpc,omitempty"`
	GRPC    int `mapstructure:"grpc" yaml:"grpc,omitempty"`
	Exposer int `mapstructure:"exposer" yaml:"exposer,omitempty"`
	Faucet  int `mapstructure:"faucet" yaml:"faucet,omitempty"`
}

// EnvVar is an extra environment variable passed to chain containers.
type EnvVar struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Value string `mapstructure:"value" yaml:"value"`
}

// Balance is a pre-funded genesis account.
type Balance struct {
	Address string `mapstructure:"address" yaml:"address"`
	Amount  string `mapstructure:"amount" yaml:"amount"`
}

// Resources is a cpu/memory quota. Requests and limits are set to the same value.
type Resources struct {
	CPU    string `mapstructure:"cpu" yaml:"cpu,omitempty"`
	Memory string `mapstructure:"memory" yaml:"memory,omitempty"`
}

// GlobalResources holds the default quotas for chain nodes and for the
// short-lived helper containers (init steps, exposer).
type GlobalResources struct {
	Node Resources `mapstructure:"node" yaml:"node,omitempty"`
	Wait Resources `mapstructure:"wait" yaml:"wait,omitempty"`
}

// ExposerConfig configures the exposer side-car.
type ExposerConfig struct {
	Image     string    `mapstructure:"image" yaml:"image,omitempty"`
	GRPCPort  int       `mapstructure:"grpcPort" yaml:"grpcPort,omitempty"`
	Resources Resources `mapstructure:"resources" yaml:"resources,omitempty"`
}

// BuilderConfig configures the image used to compile chain binaries.
type BuilderConfig struct {
	Image string `mapstructure:"image" yaml:"image,omitempty"`
}

// FaucetDefaults holds network-wide faucet images.
type FaucetDefaults struct {
	Image       string `mapstructure:"image" yaml:"image,omitempty"`
	CosmjsImage string `mapstructure:"cosmjsImage" yaml:"cosmjsImage,omitempty"`
}

// Relayer is a relayer section. Relayer manifests are produced by a
// separate generator set; the core only carries the parsed section.
type Relayer struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Type     string   `mapstructure:"type" yaml:"type"`
	Image    string   `mapstructure:"image" yaml:"image,omitempty"`
	Replicas int      `mapstructure:"replicas" yaml:"replicas,omitempty"`
	Chains   []string `mapstructure:"chains" yaml:"chains"`
}

// Component is an optional auxiliary service (explorer, registry, ...).
type Component struct {
	Name    string         `mapstructure:"name" yaml:"name,omitempty"`
	Enabled bool           `mapstructure:"enabled" yaml:"enabled"`
	Type    string         `mapstructure:"type" yaml:"type,omitempty"`
	Image   string         `mapstructure:"image" yaml:"image,omitempty"`
	Ports   map[string]int `mapstructure:"ports" yaml:"ports,omitempty"`
}

// ProcessedChain is a ChainSpec with every optional field filled in.
type ProcessedChain struct {
	ChainSpec `yaml:",inline"`

	// Host is the DNS-safe form of the chain id used in object names.
	Host string `yaml:"-"`
}

// NeedsBuild reports whether binaries are compiled in an init container.
func (c ChainSpec) NeedsBuild() bool {
	return c.Build.Enabled || c.Upgrade.Enabled
}

// nonCosmosChains are chain families handled by a different generator set.
var nonCosmosChains = map[string]bool{
	"ethereum": true,
	"eth":      true,
}

// IsCosmos reports whether the chain belongs to the Cosmos SDK family.
func (c ChainSpec) IsCosmos() bool {
	return !nonCosmosChains[c.Name]
}

// FindChain returns the chain with the given id. The lookup is done on
// every call; callers must not cache the result across generations.
func (c *Config) FindChain(id string) (ChainSpec, bool) {
	for _, ch := range c.Chains {
		if ch.ID == id {
			return ch, true
		}
	}
	return ChainSpec{}, false
}
