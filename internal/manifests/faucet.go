package manifests

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"

	"github.com/starship-devnet/starship/internal/scripts"
)

// cosmjs faucet credit policy.
const (
	cosmjsCreditAmount    = "10000000"
	cosmjsMaxCredit       = "99999999"
	cosmjsRefillFactor    = "8"
	cosmjsRefillThreshold = "20"
	cosmjsCooldownTime    = "0"
	cosmjsFaucetBin       = "/app/packages/faucet/bin/cosmos-faucet-dist"
)

// faucetBuilder is the part of the faucet container that depends on the
// variant. stage, when set, adds an init container preparing the faucet.
type faucetBuilder struct {
	image   func(g *Generator) string
	env     func(g *Generator) []corev1.EnvVar
	command func(g *Generator) string
	stage   func(g *Generator) (corev1.Container, error)
}

var faucetBuilders = map[FaucetVariant]faucetBuilder{
	FaucetStarship: {
		// The starship faucet shells out to the chain binary, so it runs in
		// the chain image with the binary staged by init-faucet.
		image: func(g *Generator) string { return g.chain.Image },
		env: func(g *Generator) []corev1.EnvVar {
			c := g.chain
			return []corev1.EnvVar{
				env("FAUCET_CHAIN_ID", c.ID),
				env("FAUCET_CHAIN_BINARY", c.Binary),
				env("FAUCET_CHAIN_DENOM", c.Denom),
				env("FAUCET_CHAIN_PREFIX", c.Prefix),
				env("FAUCET_HTTP_PORT", strconv.Itoa(c.Ports.Faucet)),
				env("FAUCET_CONCURRENCY", strconv.Itoa(c.Faucet.Concurrency)),
				env("FAUCET_CHAIN_COIN_TYPE", strconv.Itoa(c.CoinType)),
			}
		},
		command: func(*Generator) string {
			return faucetDir + "/faucet"
		},
		stage: func(g *Generator) (corev1.Container, error) {
			res, err := g.waitResources()
			if err != nil {
				return corev1.Container{}, err
			}
			return corev1.Container{
				Name:            containerInitFaucet,
				Image:           g.chain.Faucet.Image,
				ImagePullPolicy: g.pullPolicy(),
				Command:         shell(fmt.Sprintf("cp /bin/faucet %[1]s/faucet\nchmod +x %[1]s/faucet\n", faucetDir)),
				Resources:       res,
				VolumeMounts:    g.volumeMounts(true),
			}, nil
		},
	},
	FaucetCosmjs: {
		image: func(g *Generator) string { return g.chain.Faucet.Image },
		env: func(g *Generator) []corev1.EnvVar {
			c := g.chain
			return []corev1.EnvVar{
				env("FAUCET_CHAIN_ID", c.ID),
				env("FAUCET_PORT", strconv.Itoa(c.Ports.Faucet)),
				env("FAUCET_CONCURRENCY", strconv.Itoa(c.Faucet.Concurrency)),
				env("FAUCET_GAS_PRICE", "1.25"+c.Denom),
				env("FAUCET_PATH_PATTERN", c.HDPath),
				env("FAUCET_ADDRESS_PREFIX", c.Prefix),
				env("FAUCET_TOKENS", c.Denom),
				env("FAUCET_CREDIT_AMOUNT_SEND", cosmjsCreditAmount),
				env("FAUCET_MAX_CREDIT", cosmjsMaxCredit),
				env("FAUCET_REFILL_FACTOR", cosmjsRefillFactor),
				env("FAUCET_REFILL_THRESHOLD", cosmjsRefillThreshold),
				env("FAUCET_COOLDOWN_TIME", cosmjsCooldownTime),
				env("COINTYPE", strconv.Itoa(c.CoinType)),
			}
		},
		command: func(g *Generator) string {
			return fmt.Sprintf("%s start %q", cosmjsFaucetBin, g.localRPC())
		},
	},
}

// faucetContainer returns the steady-state faucet, or nil when the chain
// has none. Both variants wait for the local node to serve RPC first.
func (g *Generator) faucetContainer() (*corev1.Container, error) {
	b, ok := faucetBuilders[g.features.Faucet]
	if !ok {
		return nil, nil
	}

	res, err := resources(g.chain.ID, "faucet.resources", g.chain.Faucet.Resources)
	if err != nil {
		return nil, err
	}

	script := fmt.Sprintf(`export FAUCET_MNEMONIC=$(jq -r ".faucet[0].mnemonic" $KEYS_CONFIG)
echo "Waiting for the node to be ready..."
until bash -e %s %s; do sleep 10; done
%s
`, scriptPath(scripts.ChainRPCReady), g.localRPC(), b.command(g))

	return &corev1.Container{
		Name:            containerFaucet,
		Image:           b.image(g),
		ImagePullPolicy: g.pullPolicy(),
		Command:         shell(script),
		Env:             concatEnv(g.defaultEnv(), b.env(g), []corev1.EnvVar{env("KEYS_CONFIG", keysConfigPath)}),
		Ports: []corev1.ContainerPort{{
			Name:          containerFaucet,
			ContainerPort: int32(g.chain.Ports.Faucet), // #nosec G115 -- validated port range
			Protocol:      corev1.ProtocolTCP,
		}},
		Resources:    res,
		VolumeMounts: g.volumeMounts(true),
	}, nil
}

// faucetStage returns the init container preparing the faucet, if the
// variant needs one.
func (g *Generator) faucetStage() (*corev1.Container, error) {
	b, ok := faucetBuilders[g.features.Faucet]
	if !ok || b.stage == nil {
		return nil, nil
	}
	c, err := b.stage(g)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
