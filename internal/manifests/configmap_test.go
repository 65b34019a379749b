package manifests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/labels"
)

func TestScriptsConfigMap(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ChainSpec{
		ID: "osmosis-1", Name: "osmosis",
		Scripts: map[string]scripts.Ref{
			scripts.CreateGenesis: {Data: "#!/bin/bash\necho custom"},
		},
	})
	g := newTestGenerator(t, cfg, "osmosis-1")

	cm, err := g.ScriptsConfigMap()
	require.NoError(t, err)

	assert.Equal(t, "setup-scripts-osmosis-1", cm.Name)
	assert.Equal(t, "ConfigMap", cm.Kind)
	assert.Len(t, cm.Data, len(scripts.Names()))
	assert.Equal(t, "#!/bin/bash\necho custom", cm.Data["create-genesis.sh"])
	assert.Contains(t, cm.Data["update-config.sh"], "#!/bin/bash")
	assert.Equal(t, "devnet", cm.Labels[labels.KeyNetwork])
	assert.Equal(t, "osmosis-1", cm.Labels[labels.KeyChainID])
}

func TestScriptsConfigMap_ResolverFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ChainSpec{ID: "osmosis-1", Name: "osmosis"})
	raw, _ := cfg.FindChain("osmosis-1")
	g := NewGenerator(cfg, config.Normalize(cfg, raw), mapResolver{missing: map[string]bool{"build-chain.sh": true}})

	_, err := g.ScriptsConfigMap()
	require.Error(t, err)
	assert.ErrorIs(t, err, scripts.ErrScriptNotFound)
	assert.Contains(t, err.Error(), "buildChain")
}

func TestGenesisPatchConfigMap(t *testing.T) {
	t.Parallel()

	fragment := map[string]interface{}{
		"app_state": map[string]interface{}{
			"gov": map[string]interface{}{"voting_period": "30s"},
		},
		"initial_height": "1",
	}
	cfg := testConfig(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", Genesis: fragment})
	g := newTestGenerator(t, cfg, "osmosis-1")

	cm, err := g.GenesisPatchConfigMap()
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, "patch-osmosis-1", cm.Name)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cm.Data["genesis.json"]), &got))
	assert.Equal(t, fragment, got)
}

func TestGenesisPatchConfigMap_Absent(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", Genesis: map[string]interface{}{}})
	g := newTestGenerator(t, cfg, "osmosis-1")

	cm, err := g.GenesisPatchConfigMap()
	require.NoError(t, err)
	assert.Nil(t, cm)
}

func TestConsumerProposalConfigMap(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		config.ChainSpec{ID: "cosmoshub-4", Name: "cosmoshub"},
		config.ChainSpec{ID: "neutron-1", Name: "neutron", ICS: config.ICS{Enabled: true, Provider: "cosmoshub-4"}},
	)
	g := newTestGenerator(t, cfg, "neutron-1")

	cm, err := g.ConsumerProposalConfigMap()
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, "consumer-proposal-neutron-1", cm.Name)

	var proposal map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cm.Data["proposal.json"]), &proposal))
	assert.Equal(t, "neutron-1", proposal["chain_id"])
	assert.Equal(t, "10000uatom", proposal["deposit"])
	assert.Equal(t, "0.75", proposal["consumer_redistribution_fraction"])
	assert.EqualValues(t, 294000000000, proposal["unbonding_period"])
	assert.EqualValues(t, 259920000000, proposal["ccv_timeout_period"])
	assert.EqualValues(t, 18000000000, proposal["transfer_timeout_period"])
	assert.Equal(t, "2023-02-28T20:40:00.000000Z", proposal["spawn_time"])
}

func TestConsumerProposalConfigMap_UnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ChainSpec{
		ID: "neutron-1", Name: "neutron", ICS: config.ICS{Enabled: true, Provider: "missing-1"},
	})
	g := newTestGenerator(t, cfg, "neutron-1")

	_, err := g.ConsumerProposalConfigMap()
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "neutron-1", cfgErr.Chain)
	assert.Equal(t, "ics.provider", cfgErr.Field)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestConsumerProposalConfigMap_LookupIsNotCached(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		config.ChainSpec{ID: "cosmoshub-4", Name: "cosmoshub"},
		config.ChainSpec{ID: "neutron-1", Name: "neutron", ICS: config.ICS{Enabled: true, Provider: "cosmoshub-4"}},
	)
	g := newTestGenerator(t, cfg, "neutron-1")

	_, err := g.ConsumerProposalConfigMap()
	require.NoError(t, err)

	cfg.Chains = cfg.Chains[1:]
	_, err = g.ConsumerProposalConfigMap()
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestKeysConfigMap(t *testing.T) {
	t.Parallel()

	cm, err := KeysConfigMap(testConfig(), scripts.Embedded())
	require.NoError(t, err)
	assert.Equal(t, "keys", cm.Name)
	assert.True(t, json.Valid([]byte(cm.Data["keys.json"])))

	cfg := testConfig()
	cfg.Keys = scripts.Ref{Data: "not json"}
	_, err = KeysConfigMap(cfg, scripts.Embedded())
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
