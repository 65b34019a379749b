// Package config defines the starship devnet configuration model.
//
// [Config] is the root of a parsed starship YAML file: global settings plus
// one [ChainSpec] per chain. [Normalize] turns a partially specified
// ChainSpec into a [ProcessedChain] with every optional field filled, which
// is the only chain shape the manifest generators read.
package config
