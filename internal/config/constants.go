package config

// Default node ports. These match the ports the chain binaries listen on
// and are part of the contract between generated workloads.
const (
	DefaultRestPort           = 1317
	DefaultRPCPort            = 26657
	DefaultGRPCPort           = 9090
	DefaultGRPCWebPort        = 9091
	DefaultP2PPort            = 26656
	DefaultAddressPort        = 26658
	DefaultExposerPort        = 8081
	DefaultExposerGRPCPort    = 9099
	DefaultStarshipFaucetPort = 8000
	DefaultCosmjsFaucetPort   = 8010
	MetricsPort               = 26660
)

// Default resource quotas.
const (
	DefaultCPU    = "0.2"
	DefaultMemory = "400M"
)

// Default images for the auxiliary containers.
const (
	DefaultBuilderImage      = "ghcr.io/cosmology-tech/starship/builder:latest"
	DefaultExposerImage      = "ghcr.io/cosmology-tech/starship/exposer:20250205-544757d"
	DefaultFaucetImage       = "ghcr.io/cosmology-tech/starship/faucet:20250214-8d7cd4d"
	DefaultCosmjsFaucetImage = "ghcr.io/cosmology-tech/starship/cosmjs-faucet:v0.31.1"
	DefaultCometmockImage    = "ghcr.io/informalsystems/cometmock:v0.38.x"
)

// Defaults for chain fields not covered by the chain-type table.
const (
	DefaultHDPath            = "m/44'/118'/0'/0/0"
	DefaultCoinType          = 118
	DefaultNumValidators     = 1
	DefaultFaucetConcurrency = 5
	DefaultImagePullPolicy   = "IfNotPresent"
)
