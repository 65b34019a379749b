package manifests

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/naming"
)

// Container names.
const (
	containerBuildImages    = "init-build-images"
	containerInitGenesis    = "init-genesis"
	containerInitConfig     = "init-config"
	containerInitFaucet     = "init-faucet"
	containerInitICS        = "init-ics"
	containerWaitForGenesis = "wait-for-genesis"
	containerInitValidator  = "init-validator"
	containerValidator      = "validator"
	containerExposer        = "exposer"
	containerFaucet         = "faucet"
	containerCometmock      = "cometmock"
)

// podOrdinal extracts the StatefulSet ordinal from the pod hostname.
const podOrdinal = `VAL_INDEX=${HOSTNAME##*-}
echo "Validator Index: $VAL_INDEX"
`

func (g *Generator) pullPolicy() corev1.PullPolicy {
	return corev1.PullPolicy(g.chain.ImagePullPolicy)
}

func (g *Generator) nodeResources() (corev1.ResourceRequirements, error) {
	return resources(g.chain.ID, "resources", g.chain.Resources)
}

func (g *Generator) waitResources() (corev1.ResourceRequirements, error) {
	var r config.Resources
	if g.cfg != nil {
		r = g.cfg.Resources.Wait
	}
	return resources(g.chain.ID, "resources.wait", r)
}

// installBinary copies the compiled genesis binary over the image's one so
// setup steps run the version the chain starts on.
func (g *Generator) installBinary() string {
	if !g.features.NeedsBuild {
		return ""
	}
	return fmt.Sprintf("cp %s/genesis/bin/$CHAIN_BIN /usr/bin\n", g.upgradeDir())
}

// waitLoop polls url until it answers 200. It retries forever at a fixed
// interval; an operator-level timeout is the only way out.
func waitLoop(url, target string) string {
	return fmt.Sprintf(`while [ $(curl -sw '%%{http_code}' %s -o /dev/null) -ne 200 ]; do
  echo "%s does not seem to be ready. Waiting for it to start..."
  echo "Checking: %s"
  sleep 10;
done
`, url, target, url)
}

// buildImagesContainer compiles the genesis binary and every upgrade binary
// into the cosmovisor layout on the node volume.
func (g *Generator) buildImagesContainer() (corev1.Container, error) {
	var script strings.Builder
	for _, v := range buildVersions(g.chain) {
		fmt.Fprintf(&script, "UPGRADE_NAME=%s CODE_TAG=%s bash -e %s\n",
			shellQuote(v.name), shellQuote(v.tag), scriptPath(scripts.BuildChain))
	}

	res, err := g.nodeResources()
	if err != nil {
		return corev1.Container{}, err
	}

	image := config.DefaultBuilderImage
	if g.cfg != nil && g.cfg.Builder.Image != "" {
		image = g.cfg.Builder.Image
	}

	return corev1.Container{
		Name:            containerBuildImages,
		Image:           image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(script.String()),
		Env: concatEnv(g.defaultEnv(), []corev1.EnvVar{
			env("GOBIN", goBin),
			env("CHAIN_NAME", g.chain.ID),
			env("UPGRADE_DIR", g.upgradeDir()),
		}),
		Resources:    res,
		VolumeMounts: g.volumeMounts(false),
	}, nil
}

// configContainer patches the genesis document when applyPatch is set and
// then runs the generic config script followed by after. The patch must come
// first because the config script reads values derived from genesis.
func (g *Generator) configContainer(applyPatch bool, after string) (corev1.Container, error) {
	var script strings.Builder
	script.WriteString(podOrdinal)
	script.WriteString(g.installBinary())
	if applyPatch && g.features.GenesisPatch {
		fmt.Fprintf(&script, `echo "Running setup genesis patch..."
jq -s '.[0] * .[1]' $CHAIN_DIR/config/genesis.json %s/%s > /tmp/genesis.json
mv /tmp/genesis.json $CHAIN_DIR/config/genesis.json
`, patchDir, genesisPatchKey)
	}
	fmt.Fprintf(&script, "echo \"Running setup config script...\"\nbash -e %s\n", scriptPath(scripts.UpdateConfig))
	script.WriteString(after)

	res, err := g.waitResources()
	if err != nil {
		return corev1.Container{}, err
	}

	return corev1.Container{
		Name:            containerInitConfig,
		Image:           g.chain.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(script.String()),
		Env:             concatEnv(g.defaultEnv(), g.chainEnv(), g.bootstrapEnv(), g.timeoutEnv(), g.genesisEnv()),
		Resources:       res,
		VolumeMounts:    g.volumeMounts(false),
	}, nil
}

// nodeContainer runs the chain node. Under cosmovisor when binaries are
// built, directly otherwise.
func (g *Generator) nodeContainer() (corev1.Container, error) {
	var startArgs string
	if g.features.CometMock {
		startArgs = fmt.Sprintf(" --with-comet=false --transport=grpc --address tcp://0.0.0.0:%d", config.DefaultAddressPort)
	}

	start := "$CHAIN_BIN start" + startArgs
	var extra []corev1.EnvVar
	if g.features.NeedsBuild {
		start = "cosmovisor run start" + startArgs
		extra = []corev1.EnvVar{
			env("DAEMON_ALLOW_DOWNLOAD_BINARIES", "false"),
			env("UNSAFE_SKIP_BACKUP", "true"),
		}
	}

	res, err := g.nodeResources()
	if err != nil {
		return corev1.Container{}, err
	}

	// The faucet port belongs to the faucet container.
	var ports []corev1.ContainerPort
	for _, p := range portMap(g.chain, g.features) {
		if p.Name != containerFaucet {
			ports = append(ports, p)
		}
	}
	if g.features.Metrics {
		ports = append(ports, corev1.ContainerPort{
			Name:          metricsPortName,
			ContainerPort: config.MetricsPort,
			Protocol:      corev1.ProtocolTCP,
		})
	}

	c := corev1.Container{
		Name:            containerValidator,
		Image:           g.chain.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell("set -eux\n" + start + "\n"),
		Env:             concatEnv(g.defaultEnv(), g.chainEnv(), g.bootstrapEnv(), g.genesisEnv(), extra),
		Ports:           ports,
		Resources:       res,
		VolumeMounts:    g.volumeMounts(false),
	}

	// A mocked node never reports a synced RPC, so no probe is attached.
	if !g.features.CometMock {
		c.ReadinessProbe = &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				Exec: &corev1.ExecAction{
					Command: []string{"bash", "-e", scriptPath(scripts.ChainRPCReady), g.localRPC()},
				},
			},
			InitialDelaySeconds: 10,
			PeriodSeconds:       10,
			TimeoutSeconds:      5,
		}
	}
	return c, nil
}

// cometmockContainer drives the node's ABCI application in place of
// consensus, serving RPC on the node's rpc port.
func (g *Generator) cometmockContainer() (corev1.Container, error) {
	res, err := g.waitResources()
	if err != nil {
		return corev1.Container{}, err
	}
	return corev1.Container{
		Name:            containerCometmock,
		Image:           g.chain.Cometmock.Image,
		ImagePullPolicy: g.pullPolicy(),
		Command: shell(fmt.Sprintf(
			"cometmock localhost:%d $CHAIN_DIR/config/genesis.json tcp://0.0.0.0:%d $CHAIN_DIR grpc\n",
			config.DefaultAddressPort, g.chain.Ports.RPC)),
		Env:          concatEnv(g.defaultEnv(), g.chainEnv()),
		Resources:    res,
		VolumeMounts: g.volumeMounts(false),
	}, nil
}

// exposerContainer serves the node's identity, keys and genesis to sibling
// workloads.
func (g *Generator) exposerContainer() (corev1.Container, error) {
	image := config.DefaultExposerImage
	grpcPort := config.DefaultExposerGRPCPort
	var r config.Resources
	if g.cfg != nil {
		if g.cfg.Exposer.Image != "" {
			image = g.cfg.Exposer.Image
		}
		if g.cfg.Exposer.GRPCPort != 0 {
			grpcPort = g.cfg.Exposer.GRPCPort
		}
		r = g.cfg.Exposer.Resources
	}
	res, err := resources(g.chain.ID, "exposer.resources", r)
	if err != nil {
		return corev1.Container{}, err
	}

	home := g.chain.Home
	return corev1.Container{
		Name:            containerExposer,
		Image:           image,
		ImagePullPolicy: g.pullPolicy(),
		Command:         []string{"exposer"},
		Env: concatEnv(g.defaultEnv(), g.chainEnv(), []corev1.EnvVar{
			env("EXPOSER_HTTP_PORT", fmt.Sprint(g.chain.Ports.Exposer)),
			env("EXPOSER_GRPC_PORT", fmt.Sprint(grpcPort)),
			env("EXPOSER_GENESIS_FILE", home+"/config/genesis.json"),
			env("EXPOSER_MNEMONIC_FILE", keysConfigPath),
			env("EXPOSER_PRIV_VAL_FILE", home+"/config/priv_validator_key.json"),
			env("EXPOSER_NODE_KEY_FILE", home+"/config/node_key.json"),
			env("EXPOSER_NODE_ID_FILE", home+"/config/node_id.json"),
			env("EXPOSER_PRIV_VAL_STATE_FILE", home+"/data/priv_validator_state.json"),
		}),
		Resources:    res,
		VolumeMounts: g.volumeMounts(false),
	}, nil
}

func (g *Generator) localRPC() string {
	return fmt.Sprintf("http://localhost:%d", g.chain.Ports.RPC)
}

// genesisP2P is the persistent peer address of the chain's genesis node.
func (g *Generator) genesisP2P() string {
	return fmt.Sprintf("%s:%d", naming.GenesisDNS(g.chain.Host), config.DefaultP2PPort)
}
