package manifests

import (
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/labels"
	"github.com/starship-devnet/starship/internal/util/naming"
)

var configMapType = metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"}

// Consumer chain proposal defaults.
const (
	proposalSpawnTime              = "2023-02-28T20:40:00.000000Z"
	proposalGenesisHash            = "Z2VuX2hhc2g="
	proposalBinaryHash             = "YmluX2hhc2g="
	proposalUnbondingPeriod        = int64(294000000000)
	proposalCCVTimeoutPeriod       = int64(259920000000)
	proposalTransferTimeoutPeriod  = int64(18000000000)
	proposalRedistributionFraction = "0.75"
	proposalBlocksPerDistribution  = 10
	proposalHistoricalEntries      = 10000
	proposalDepositAmount          = "10000"
)

type initialHeight struct {
	RevisionNumber int `json:"revision_number"`
	RevisionHeight int `json:"revision_height"`
}

// consumerProposal is the consumer-addition governance proposal submitted to
// the provider chain.
type consumerProposal struct {
	Title                             string        `json:"title"`
	Summary                           string        `json:"summary"`
	ChainID                           string        `json:"chain_id"`
	InitialHeight                     initialHeight `json:"initial_height"`
	GenesisHash                       string        `json:"genesis_hash"`
	BinaryHash                        string        `json:"binary_hash"`
	SpawnTime                         string        `json:"spawn_time"`
	UnbondingPeriod                   int64         `json:"unbonding_period"`
	CCVTimeoutPeriod                  int64         `json:"ccv_timeout_period"`
	TransferTimeoutPeriod             int64         `json:"transfer_timeout_period"`
	ConsumerRedistributionFraction    string        `json:"consumer_redistribution_fraction"`
	BlocksPerDistributionTransmission int           `json:"blocks_per_distribution_transmission"`
	HistoricalEntries                 int           `json:"historical_entries"`
	Deposit                           string        `json:"deposit"`
}

// ScriptsConfigMap bundles every setup script of the chain, keyed by the
// file name containers run it under.
func (g *Generator) ScriptsConfigMap() (*corev1.ConfigMap, error) {
	data := make(map[string]string, len(scripts.Names()))
	for _, name := range scripts.Names() {
		ref, ok := g.chain.Scripts[name]
		if !ok || ref.IsZero() {
			ref = scripts.DefaultRef(name)
		}
		body, err := g.resolver.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve script %s for chain %s: %w", name, g.chain.ID, err)
		}
		file, _ := scripts.FileName(name)
		data[file] = body
	}

	return &corev1.ConfigMap{
		TypeMeta:   configMapType,
		ObjectMeta: g.objectMeta(naming.ScriptsConfigMap(g.chain.Host), labels.RoleSetup),
		Data:       data,
	}, nil
}

// GenesisPatchConfigMap carries the chain's genesis fragment. It returns
// nil when the chain has no fragment.
func (g *Generator) GenesisPatchConfigMap() (*corev1.ConfigMap, error) {
	if !g.features.GenesisPatch {
		return nil, nil
	}

	patch, err := json.MarshalIndent(g.chain.Genesis, "", "  ")
	if err != nil {
		return nil, &ConfigurationError{
			Chain: g.chain.ID, Field: "genesis",
			Message: "fragment is not valid JSON", Err: err,
		}
	}

	return &corev1.ConfigMap{
		TypeMeta:   configMapType,
		ObjectMeta: g.objectMeta(naming.GenesisPatchConfigMap(g.chain.Host), labels.RoleSetup),
		Data:       map[string]string{genesisPatchKey: string(patch)},
	}, nil
}

// ConsumerProposalConfigMap carries the consumer-addition proposal of an ICS
// consumer chain. It returns nil when ICS is off, and a *ConfigurationError
// when the provider chain is not defined.
func (g *Generator) ConsumerProposalConfigMap() (*corev1.ConfigMap, error) {
	if !g.features.ICS {
		return nil, nil
	}

	provider, err := g.provider()
	if err != nil {
		return nil, err
	}

	proposal := consumerProposal{
		Title:                             fmt.Sprintf("Add %s consumer chain", g.chain.Name),
		Summary:                           fmt.Sprintf("Add %s consumer chain with id %s to %s", g.chain.Name, g.chain.ID, provider.ID),
		ChainID:                           g.chain.ID,
		InitialHeight:                     initialHeight{RevisionNumber: 1, RevisionHeight: 1},
		GenesisHash:                       proposalGenesisHash,
		BinaryHash:                        proposalBinaryHash,
		SpawnTime:                         proposalSpawnTime,
		UnbondingPeriod:                   proposalUnbondingPeriod,
		CCVTimeoutPeriod:                  proposalCCVTimeoutPeriod,
		TransferTimeoutPeriod:             proposalTransferTimeoutPeriod,
		ConsumerRedistributionFraction:    proposalRedistributionFraction,
		BlocksPerDistributionTransmission: proposalBlocksPerDistribution,
		HistoricalEntries:                 proposalHistoricalEntries,
		Deposit:                           proposalDepositAmount + provider.Denom,
	}
	body, err := json.MarshalIndent(proposal, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal consumer proposal: %w", err)
	}

	return &corev1.ConfigMap{
		TypeMeta:   configMapType,
		ObjectMeta: g.objectMeta(naming.ConsumerProposalConfigMap(g.chain.Host), labels.RoleSetup),
		Data:       map[string]string{proposalKey: string(body)},
	}, nil
}

// KeysConfigMap holds the mnemonic set shared by every chain of the network.
func KeysConfigMap(cfg *config.Config, resolver scripts.Resolver) (*corev1.ConfigMap, error) {
	ref := scripts.Ref{File: scripts.KeysFile}
	network := ""
	if cfg != nil {
		network = cfg.Name
		if !cfg.Keys.IsZero() {
			ref = cfg.Keys
		}
	}

	body, err := resolver.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve keys: %w", err)
	}
	if !json.Valid([]byte(body)) {
		return nil, &ConfigurationError{Chain: "*", Field: "keys", Message: ref.String() + " is not valid JSON"}
	}

	return &corev1.ConfigMap{
		TypeMeta: configMapType,
		ObjectMeta: metav1.ObjectMeta{
			Name:   naming.KeysConfigMap,
			Labels: labels.NewLabelBuilder(network).Build(),
		},
		Data: map[string]string{scripts.KeysFile: body},
	}, nil
}
