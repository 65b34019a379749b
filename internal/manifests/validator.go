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

// validatorOrdinal maps the pod ordinal to the validator key index. Index 0
// belongs to the genesis node, so validator pods start at 1.
const validatorOrdinal = `VAL_INDEX=$(( ${HOSTNAME##*-} + 1 ))
echo "Validator Index: $VAL_INDEX"
VAL_NAME=$(jq -r ".validators[0].name" $KEYS_CONFIG)-$VAL_INDEX
echo "Validator Name: $VAL_NAME"
`

// ValidatorStatefulSet is the workload of the numValidators-1 nodes that
// join the chain after genesis. It returns nil for single-node chains.
//
// Pods start in parallel; each one waits for the genesis exposer, derives
// its key from its ordinal, fetches genesis and peers with the genesis node.
func (g *Generator) ValidatorStatefulSet() (*appsv1.StatefulSet, error) {
	if !g.features.HasValidators {
		return nil, nil
	}
	if g.features.CometMock {
		return nil, &ConfigurationError{
			Chain: g.chain.ID, Field: "cometmock.enabled",
			Message: fmt.Sprintf("cometmock drives only the genesis node, got %d validators", g.chain.NumValidators),
		}
	}

	var initContainers []corev1.Container
	if g.features.NeedsBuild {
		c, err := g.buildImagesContainer()
		if err != nil {
			return nil, err
		}
		initContainers = append(initContainers, c)
	}

	wait, err := g.waitForGenesisContainer()
	if err != nil {
		return nil, err
	}
	initValidator, err := g.initValidatorContainer()
	if err != nil {
		return nil, err
	}
	initConfig, err := g.configContainer(false, g.peersScript())
	if err != nil {
		return nil, err
	}
	initContainers = append(initContainers, wait, initValidator, initConfig)

	node, err := g.nodeContainer()
	if err != nil {
		return nil, err
	}
	node.Lifecycle = &corev1.Lifecycle{
		PostStart: &corev1.LifecycleHandler{
			Exec: &corev1.ExecAction{Command: shell(g.joinScript())},
		},
	}
	exposer, err := g.exposerContainer()
	if err != nil {
		return nil, err
	}

	name := naming.Validator(g.chain.Host)
	return &appsv1.StatefulSet{
		TypeMeta:   statefulSetType,
		ObjectMeta: g.objectMeta(name, labels.RoleValidator),
		Spec: appsv1.StatefulSetSpec{
			ServiceName:         name,
			Replicas:            ptr.Int32(g.features.Validators),
			PodManagementPolicy: appsv1.ParallelPodManagement,
			Selector: &metav1.LabelSelector{
				MatchLabels: labels.Selector(g.chain.Host, labels.RoleValidator),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: g.labels(labels.RoleValidator)},
				Spec: corev1.PodSpec{
					InitContainers: initContainers,
					Containers:     []corev1.Container{node, exposer},
					Volumes:        g.volumes(),
				},
			},
		},
	}, nil
}

// waitForGenesisContainer blocks until the genesis exposer answers.
func (g *Generator) waitForGenesisContainer() (corev1.Container, error) {
	res, err := g.waitResources()
	if err != nil {
		return corev1.Container{}, err
	}
	return corev1.Container{
		Name:            containerWaitForGenesis,
		Image:           g.chain.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(waitLoop(exposerURL(g.chain)+"/node_id", "Genesis validator of "+g.chain.ID)),
		Env:             concatEnv(g.defaultEnv(), g.chainEnv(), g.genesisEnv()),
		Resources:       res,
	}, nil
}

// initValidatorContainer creates the node home with a key derived from the
// pod ordinal and the genesis document served by the genesis node.
func (g *Generator) initValidatorContainer() (corev1.Container, error) {
	var script strings.Builder
	script.WriteString(validatorOrdinal)
	script.WriteString(g.installBinary())
	fmt.Fprintf(&script, `if [ -f $CHAIN_DIR/config/genesis.json ]; then
  echo "Validator already initialized, exiting init container"
  exit 0
fi

$CHAIN_BIN init $VAL_NAME --chain-id $CHAIN_ID
echo "Recover validator key $VAL_NAME"
jq -r ".validators[0].mnemonic" $KEYS_CONFIG | $CHAIN_BIN keys add $VAL_NAME --index $VAL_INDEX --recover --keyring-backend="test"

echo "Fetch genesis from the genesis node"
curl -s %s/genesis -o $CHAIN_DIR/config/genesis.json
echo "Genesis file that we got....."
cat $CHAIN_DIR/config/genesis.json

%s`, exposerURL(g.chain), nodeIdentity)

	res, err := g.nodeResources()
	if err != nil {
		return corev1.Container{}, err
	}

	return corev1.Container{
		Name:            containerInitValidator,
		Image:           g.chain.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(script.String()),
		Env:             concatEnv(g.defaultEnv(), g.chainEnv(), g.bootstrapEnv(), g.genesisEnv()),
		Resources:       res,
		VolumeMounts:    g.volumeMounts(false),
	}, nil
}

// peersScript adds the genesis node as persistent peer.
func (g *Generator) peersScript() string {
	return fmt.Sprintf(`
echo "Setup persistent peers"
GENESIS_NODE_P2P=$(curl -s %s/node_id | jq -r ".node_id")@%s
echo "Node P2P: $GENESIS_NODE_P2P"
sed -i "s/persistent_peers = \"\"/persistent_peers = \"$GENESIS_NODE_P2P\"/g" $CHAIN_DIR/config/config.toml
`, exposerURL(g.chain), g.genesisP2P())
}

// joinScript funds the validator from the faucet and registers it. Both
// steps are best effort: a failure is logged and the node keeps running.
func (g *Generator) joinScript() string {
	faucetURL := fmt.Sprintf("http://%s:%d/credit", naming.GenesisDNS(g.chain.Host), g.chain.Ports.Faucet)
	return fmt.Sprintf(`%s
echo "Transfer tokens to $VAL_NAME"
VAL_ADDR=$($CHAIN_BIN keys show $VAL_NAME -a --keyring-backend="test")
bash -e %s $VAL_ADDR $DENOM %s "$FAUCET_ENABLED" || echo "Token transfer failed, continuing"

echo "Create validator $VAL_NAME"
VAL_NAME=$VAL_NAME NODE_URL=%s bash -e %s || echo "Create validator failed, continuing"
`, validatorOrdinal, scriptPath(scripts.TransferTokens), faucetURL, g.localRPC(), scriptPath(scripts.CreateValidator))
}
