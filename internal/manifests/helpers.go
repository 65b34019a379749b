package manifests

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/naming"
)

// Mount paths shared by every container of a chain.
const (
	scriptsDir  = "/scripts"
	configsDir  = "/configs"
	patchDir    = "/patch"
	proposalDir = "/proposal"
	faucetDir   = "/faucet"

	keysConfigPath   = configsDir + "/" + scripts.KeysFile
	genesisPatchKey  = "genesis.json"
	proposalKey      = "proposal.json"
	cosmovisorSubdir = "cosmovisor"
	goBin            = "/go/bin"
)

// Volume names.
const (
	volumeNode      = "node"
	volumeAddresses = "addresses"
	volumeScripts   = "scripts"
	volumePatch     = "patch"
	volumeProposal  = "proposal"
	volumeFaucet    = "faucet"
)

const metricsPortName = "metrics"

// portMap returns the canonical named ports of a chain node, sorted by name.
func portMap(c config.ProcessedChain, f Features) []corev1.ContainerPort {
	ports := map[string]int{
		"p2p":      config.DefaultP2PPort,
		"address":  config.DefaultAddressPort,
		"grpc":     c.Ports.GRPC,
		"grpc-web": config.DefaultGRPCWebPort,
		"rest":     c.Ports.Rest,
		"rpc":      c.Ports.RPC,
		"exposer":  c.Ports.Exposer,
	}
	if f.Faucet != FaucetNone {
		ports["faucet"] = c.Ports.Faucet
	}

	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]corev1.ContainerPort, 0, len(names))
	for _, name := range names {
		out = append(out, corev1.ContainerPort{
			Name:          name,
			ContainerPort: int32(ports[name]), // #nosec G115 -- validated port range
			Protocol:      corev1.ProtocolTCP,
		})
	}
	return out
}

// servicePorts publishes the port map, plus the metrics port when enabled.
func servicePorts(c config.ProcessedChain, f Features) []corev1.ServicePort {
	var out []corev1.ServicePort
	for _, p := range portMap(c, f) {
		out = append(out, corev1.ServicePort{
			Name:       p.Name,
			Port:       p.ContainerPort,
			TargetPort: intstr.FromInt32(p.ContainerPort),
			Protocol:   corev1.ProtocolTCP,
		})
	}
	if f.Metrics {
		out = append(out, corev1.ServicePort{
			Name:       metricsPortName,
			Port:       config.MetricsPort,
			TargetPort: intstr.FromInt32(config.MetricsPort),
			Protocol:   corev1.ProtocolTCP,
		})
	}
	return out
}

// resources builds a quota with identical requests and limits.
func resources(chainID, field string, r config.Resources) (corev1.ResourceRequirements, error) {
	list := corev1.ResourceList{}
	for _, q := range []struct {
		name  corev1.ResourceName
		value string
		field string
	}{
		{corev1.ResourceCPU, r.CPU, field + ".cpu"},
		{corev1.ResourceMemory, r.Memory, field + ".memory"},
	} {
		if q.value == "" {
			continue
		}
		qty, err := resource.ParseQuantity(q.value)
		if err != nil {
			return corev1.ResourceRequirements{}, &ConfigurationError{
				Chain: chainID, Field: q.field,
				Message: fmt.Sprintf("invalid quantity %q", q.value), Err: err,
			}
		}
		list[q.name] = qty
	}
	return corev1.ResourceRequirements{Requests: list, Limits: list.DeepCopy()}, nil
}

// volumes returns the pod volumes of a chain workload.
func (g *Generator) volumes() []corev1.Volume {
	host := g.chain.Host
	vols := []corev1.Volume{
		{Name: volumeNode, VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}}},
		configMapVolume(volumeAddresses, naming.KeysConfigMap),
		configMapVolume(volumeScripts, naming.ScriptsConfigMap(host)),
	}
	if g.features.GenesisPatch {
		vols = append(vols, configMapVolume(volumePatch, naming.GenesisPatchConfigMap(host)))
	}
	if g.features.ICS {
		vols = append(vols, configMapVolume(volumeProposal, naming.ConsumerProposalConfigMap(host)))
	}
	if g.features.Faucet == FaucetStarship {
		vols = append(vols, corev1.Volume{
			Name:         volumeFaucet,
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		})
	}
	return vols
}

func configMapVolume(name, configMap string) corev1.Volume {
	return corev1.Volume{
		Name: name,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: configMap},
			},
		},
	}
}

// volumeMounts mounts every volume of volumes() that a chain container uses.
// The faucet volume is only mounted where it is asked for.
func (g *Generator) volumeMounts(withFaucet bool) []corev1.VolumeMount {
	mounts := []corev1.VolumeMount{
		{Name: volumeNode, MountPath: g.chain.Home},
		{Name: volumeAddresses, MountPath: configsDir},
		{Name: volumeScripts, MountPath: scriptsDir},
	}
	if g.features.GenesisPatch {
		mounts = append(mounts, corev1.VolumeMount{Name: volumePatch, MountPath: patchDir})
	}
	if g.features.ICS {
		mounts = append(mounts, corev1.VolumeMount{Name: volumeProposal, MountPath: proposalDir})
	}
	if withFaucet && g.features.Faucet == FaucetStarship {
		mounts = append(mounts, corev1.VolumeMount{Name: volumeFaucet, MountPath: faucetDir})
	}
	return mounts
}

func env(name, value string) corev1.EnvVar {
	return corev1.EnvVar{Name: name, Value: value}
}

// defaultEnv describes the chain binary and its home.
func (g *Generator) defaultEnv() []corev1.EnvVar {
	c := g.chain
	return []corev1.EnvVar{
		env("DENOM", c.Denom),
		env("COINS", c.Coins),
		env("CHAIN_BIN", c.Binary),
		env("CHAIN_DIR", c.Home),
		env("CODE_REPO", c.Repo),
		env("DAEMON_HOME", c.Home),
		env("DAEMON_NAME", c.Binary),
	}
}

// chainEnv carries the chain id followed by the user's extra variables.
func (g *Generator) chainEnv() []corev1.EnvVar {
	out := []corev1.EnvVar{env("CHAIN_ID", g.chain.ID)}
	for _, e := range g.chain.Env {
		out = append(out, env(e.Name, e.Value))
	}
	return out
}

// genesisEnv points at the chain's genesis node.
func (g *Generator) genesisEnv() []corev1.EnvVar {
	return concatEnv([]corev1.EnvVar{
		env("GENESIS_HOST", naming.Genesis(g.chain.Host)),
		env("GENESIS_PORT", strconv.Itoa(g.chain.Ports.Exposer)),
	}, g.namespaceEnv())
}

// namespaceEnv reads the pod namespace from the downward API so service
// hostnames resolve in whatever namespace the network is deployed to.
func (g *Generator) namespaceEnv() []corev1.EnvVar {
	return []corev1.EnvVar{{
		Name: "NAMESPACE",
		ValueFrom: &corev1.EnvVarSource{
			FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.namespace"},
		},
	}}
}

// timeoutEnv exports the consensus timeouts read by the setup scripts.
func (g *Generator) timeoutEnv() []corev1.EnvVar {
	t := config.DefaultTimeouts()
	if g.cfg != nil {
		t = g.cfg.Timeouts.WithDefaults()
	}
	var out []corev1.EnvVar
	for _, kv := range t.EnvPairs() {
		out = append(out, env(kv[0], kv[1]))
	}
	return out
}

// bootstrapEnv is the contract between setup scripts and the node.
func (g *Generator) bootstrapEnv() []corev1.EnvVar {
	return []corev1.EnvVar{
		env("KEYS_CONFIG", keysConfigPath),
		env("FAUCET_ENABLED", strconv.FormatBool(g.features.Faucet != FaucetNone)),
		env("NUM_VALIDATORS", strconv.Itoa(g.chain.NumValidators)),
		env("METRICS", strconv.FormatBool(g.features.Metrics)),
	}
}

func concatEnv(groups ...[]corev1.EnvVar) []corev1.EnvVar {
	var out []corev1.EnvVar
	for _, grp := range groups {
		out = append(out, grp...)
	}
	return out
}

// upgradeDir is where cosmovisor expects the compiled binaries.
func (g *Generator) upgradeDir() string {
	return path.Join(g.chain.Home, cosmovisorSubdir)
}

// exposerURL is the base URL of a chain's genesis exposer.
func exposerURL(c config.ProcessedChain) string {
	return fmt.Sprintf("http://%s:%d", naming.GenesisDNS(c.Host), c.Ports.Exposer)
}

// rpcURL is the base URL of a chain's genesis RPC endpoint.
func rpcURL(c config.ProcessedChain) string {
	return fmt.Sprintf("http://%s:%d", naming.GenesisDNS(c.Host), c.Ports.RPC)
}

func scriptPath(logical string) string {
	file, _ := scripts.FileName(logical)
	return path.Join(scriptsDir, file)
}

// shell wraps a script body into a container command.
func shell(body string) []string {
	return []string{"bash", "-c", body}
}

// shellQuote quotes s for safe use as a single shell word.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
