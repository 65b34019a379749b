package manifests

import (
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/labels"
	"github.com/starship-devnet/starship/internal/util/naming"
	"github.com/starship-devnet/starship/internal/util/ptr"
)

var statefulSetType = metav1.TypeMeta{APIVersion: "apps/v1", Kind: "StatefulSet"}

// nodeIdentity writes the node id and consensus key next to the genesis
// file where the exposer serves them from.
const nodeIdentity = `echo "Create node id json file"
NODE_ID=$($CHAIN_BIN tendermint show-node-id)
echo '{"node_id":"'$NODE_ID'"}' > $CHAIN_DIR/config/node_id.json
`

const genesisSubcommand = `CHAIN_GENESIS_CMD=$($CHAIN_BIN 2>&1 | grep -q "genesis-wasm" && echo "genesis-wasm" || ($CHAIN_BIN 2>&1 | grep -q "genesis" && echo "genesis" || echo ""))
`

// GenesisStatefulSet is the single-replica workload that creates the chain.
//
// Init containers run in this order, each relying on the files left by the
// previous ones: init-build-images (build or upgrade), init-genesis,
// init-config, init-faucet (starship faucet), init-ics (ICS consumer).
func (g *Generator) GenesisStatefulSet() (*appsv1.StatefulSet, error) {
	var initContainers []corev1.Container

	if g.features.NeedsBuild {
		c, err := g.buildImagesContainer()
		if err != nil {
			return nil, err
		}
		initContainers = append(initContainers, c)
	}

	initGenesis, err := g.initGenesisContainer()
	if err != nil {
		return nil, err
	}
	initConfig, err := g.configContainer(true, "")
	if err != nil {
		return nil, err
	}
	initContainers = append(initContainers, initGenesis, initConfig)

	stage, err := g.faucetStage()
	if err != nil {
		return nil, err
	}
	if stage != nil {
		initContainers = append(initContainers, *stage)
	}

	if g.features.ICS {
		c, err := g.initICSContainer()
		if err != nil {
			return nil, err
		}
		initContainers = append(initContainers, c)
	}

	containers, err := g.genesisContainers()
	if err != nil {
		return nil, err
	}

	name := naming.Genesis(g.chain.Host)
	return &appsv1.StatefulSet{
		TypeMeta:   statefulSetType,
		ObjectMeta: g.objectMeta(name, labels.RoleGenesis),
		Spec: appsv1.StatefulSetSpec{
			ServiceName:          name,
			Replicas:             ptr.Int32(1),
			RevisionHistoryLimit: ptr.Int32(3),
			Selector: &metav1.LabelSelector{
				MatchLabels: labels.Selector(g.chain.Host, labels.RoleGenesis),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: g.labels(labels.RoleGenesis)},
				Spec: corev1.PodSpec{
					InitContainers: initContainers,
					Containers:     containers,
					Volumes:        g.volumes(),
				},
			},
		},
	}, nil
}

func (g *Generator) genesisContainers() ([]corev1.Container, error) {
	node, err := g.nodeContainer()
	if err != nil {
		return nil, err
	}
	exposer, err := g.exposerContainer()
	if err != nil {
		return nil, err
	}
	containers := []corev1.Container{node, exposer}

	if g.features.CometMock {
		c, err := g.cometmockContainer()
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}

	faucet, err := g.faucetContainer()
	if err != nil {
		return nil, err
	}
	if faucet != nil {
		containers = append(containers, *faucet)
	}
	return containers, nil
}

// initGenesisContainer creates the genesis document. It exits early when a
// genesis file already exists so pod restarts keep the chain's state.
func (g *Generator) initGenesisContainer() (corev1.Container, error) {
	var script strings.Builder
	script.WriteString(podOrdinal)
	script.WriteString(g.installBinary())
	fmt.Fprintf(&script, `if [ -f $CHAIN_DIR/config/genesis.json ]; then
  echo "Genesis file exists, exiting init container"
  exit 0
fi

echo "Running setup genesis script..."
bash -e %s
bash -e %s

%s
echo "Create consensus key json file"
$CHAIN_BIN tendermint show-validator > $CHAIN_DIR/config/consensus_key.json
cat $CHAIN_DIR/config/consensus_key.json
`, scriptPath(scripts.CreateGenesis), scriptPath(scripts.UpdateGenesis), nodeIdentity)

	if len(g.chain.Balances) > 0 {
		script.WriteString("\necho \"Add custom accounts and balances\"\n")
		script.WriteString(genesisSubcommand)
		for _, b := range g.chain.Balances {
			fmt.Fprintf(&script, "$CHAIN_BIN $CHAIN_GENESIS_CMD add-genesis-account %s %s --keyring-backend=\"test\"\n",
				shellQuote(b.Address), shellQuote(b.Amount))
		}
	}

	res, err := g.nodeResources()
	if err != nil {
		return corev1.Container{}, err
	}

	return corev1.Container{
		Name:            containerInitGenesis,
		Image:           g.chain.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(script.String()),
		Env:             concatEnv(g.defaultEnv(), g.chainEnv(), g.bootstrapEnv(), g.timeoutEnv()),
		Resources:       res,
		VolumeMounts:    g.volumeMounts(false),
	}, nil
}

// initICSContainer turns the chain into a consumer of its provider: it
// waits for the provider's exposer, takes over the provider's validator key,
// gets the consumer-addition proposal passed and folds the resulting
// consumer genesis state into this chain's genesis. It runs in the provider
// image because every step talks to the provider with its binary.
func (g *Generator) initICSContainer() (corev1.Container, error) {
	provider, err := g.provider()
	if err != nil {
		return corev1.Container{}, err
	}

	providerExposer := exposerURL(provider)
	providerRPC := rpcURL(provider)

	var script strings.Builder
	script.WriteString(podOrdinal)
	script.WriteString(`if [ -f $CHAIN_DIR/config/ics.done ]; then
  echo "Consumer chain already set up, exiting init container"
  exit 0
fi

`)
	fmt.Fprintf(&script, "echo \"Wait for provider chain %s to be ready\"\n", provider.ID)
	script.WriteString(waitLoop(providerExposer+"/node_id", "Provider chain "+provider.ID))
	fmt.Fprintf(&script, `
echo "Replace the validator key with the provider's"
curl -s %[1]s/priv_keys | jq > /tmp/provider_priv_validator_key.json
mv $CHAIN_DIR/config/priv_validator_key.json $CHAIN_DIR/config/previous_priv_validator_key.json
mv /tmp/provider_priv_validator_key.json $CHAIN_DIR/config/priv_validator_key.json

echo "Submit consumer addition proposal to %[2]s"
DENOM=%[3]s CHAIN_BIN=%[4]s NODE_URL=%[5]s PROVIDER_CHAIN_ID=%[2]s PROPOSAL_FILE=%[6]s/%[7]s bash -e %[8]s

echo "Fetch the consumer genesis state"
%[4]s q provider consumer-genesis $CHAIN_ID --node %[5]s -o json > /tmp/consumer-genesis.json
jq -s '.[0].app_state.ccvconsumer = .[1] | .[0]' $CHAIN_DIR/config/genesis.json /tmp/consumer-genesis.json > /tmp/genesis.json
mv /tmp/genesis.json $CHAIN_DIR/config/genesis.json
touch $CHAIN_DIR/config/ics.done
`, providerExposer, provider.ID, provider.Denom, provider.Binary, providerRPC,
		proposalDir, proposalKey, scriptPath(scripts.CreateICS))

	res, err := g.waitResources()
	if err != nil {
		return corev1.Container{}, err
	}

	return corev1.Container{
		Name:            containerInitICS,
		Image:           provider.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(script.String()),
		Env: concatEnv(g.defaultEnv(), g.chainEnv(), g.bootstrapEnv(), []corev1.EnvVar{
			env("PROVIDER_HOST", naming.Genesis(provider.Host)),
			env("PROVIDER_PORT", fmt.Sprint(provider.Ports.Exposer)),
		}, g.namespaceEnv()),
		Resources:    res,
		VolumeMounts: g.volumeMounts(false),
	}, nil
}
