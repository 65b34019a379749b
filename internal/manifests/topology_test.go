package manifests_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/manifests"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/ptr"
)

func network(chains ...config.ChainSpec) *config.Config {
	cfg := &config.Config{Name: "devnet", Chains: chains}
	cfg.ApplyDefaults()
	return cfg
}

func generator(cfg *config.Config, id string) *manifests.Generator {
	raw, ok := cfg.FindChain(id)
	Expect(ok).To(BeTrue(), "chain %s", id)
	return manifests.NewGenerator(cfg, config.Normalize(cfg, raw), scripts.Embedded())
}

func container(cs []corev1.Container, name string) *corev1.Container {
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i]
		}
	}
	return nil
}

func envOf(c *corev1.Container) map[string]string {
	out := map[string]string{}
	for _, e := range c.Env {
		out[e.Name] = e.Value
	}
	return out
}

func metricsPorts(svc *corev1.Service) []corev1.ServicePort {
	var out []corev1.ServicePort
	for _, p := range svc.Spec.Ports {
		if p.Name == "metrics" {
			out = append(out, p)
		}
	}
	return out
}

var _ = Describe("Bootstrap topologies", func() {
	Describe("validator set", func() {
		It("omits the validator workload and service for a single node", func() {
			g := generator(network(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", NumValidators: 1}), "osmosis-1")

			sts, err := g.ValidatorStatefulSet()
			Expect(err).NotTo(HaveOccurred())
			Expect(sts).To(BeNil())
			Expect(g.ValidatorService()).To(BeNil())
		})

		DescribeTable("runs numValidators-1 replicas",
			func(n int) {
				g := generator(network(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", NumValidators: n}), "osmosis-1")

				sts, err := g.ValidatorStatefulSet()
				Expect(err).NotTo(HaveOccurred())
				Expect(*sts.Spec.Replicas).To(Equal(int32(n - 1)))
				Expect(sts.Spec.PodManagementPolicy).To(Equal(appsv1.ParallelPodManagement))
			},
			Entry("two validators", 2),
			Entry("four validators", 4),
			Entry("ten validators", 10),
		)
	})

	Describe("cometmock", func() {
		It("runs beside the genesis node of a single-node chain", func() {
			cfg := network(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", Cometmock: config.Cometmock{Enabled: true}})
			g := generator(cfg, "osmosis-1")

			sts, err := g.GenesisStatefulSet()
			Expect(err).NotTo(HaveOccurred())
			containers := sts.Spec.Template.Spec.Containers
			Expect(container(containers, "cometmock")).NotTo(BeNil())
			Expect(container(containers, "cometmock").Command[2]).To(ContainSubstring("cometmock localhost:26658"))

			validators, err := g.ValidatorStatefulSet()
			Expect(err).NotTo(HaveOccurred())
			Expect(validators).To(BeNil())
		})

		It("refuses a validator set it cannot drive and writes nothing", func() {
			dir := GinkgoT().TempDir()
			cfg := network(config.ChainSpec{
				ID: "osmosis-1", Name: "osmosis", NumValidators: 3,
				Cometmock: config.Cometmock{Enabled: true},
			})

			_, _, err := manifests.GenerateAllFiles(cfg, nil, dir, nil)
			var cfgErr *manifests.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Chain).To(Equal("osmosis-1"))
			Expect(cfgErr.Field).To(Equal("cometmock.enabled"))

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})

	Describe("genesis patch", func() {
		It("round-trips the fragment", func() {
			fragment := map[string]interface{}{
				"app_state": map[string]interface{}{
					"crisis": map[string]interface{}{"constant_fee": map[string]interface{}{"denom": "uosmo"}},
				},
				"consensus": map[string]interface{}{"enabled": true},
			}
			g := generator(network(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", Genesis: fragment}), "osmosis-1")

			cm, err := g.GenesisPatchConfigMap()
			Expect(err).NotTo(HaveOccurred())
			var got map[string]interface{}
			Expect(json.Unmarshal([]byte(cm.Data["genesis.json"]), &got)).To(Succeed())
			Expect(got).To(Equal(fragment))
		})

		It("is absent without a fragment", func() {
			g := generator(network(config.ChainSpec{ID: "osmosis-1", Name: "osmosis"}), "osmosis-1")

			cm, err := g.GenesisPatchConfigMap()
			Expect(err).NotTo(HaveOccurred())
			Expect(cm).To(BeNil())
		})
	})

	Describe("metrics", func() {
		It("adds exactly one metrics port to both services", func() {
			g := generator(network(config.ChainSpec{ID: "osmosis-1", Name: "osmosis", NumValidators: 3, Metrics: true}), "osmosis-1")

			for _, svc := range []*corev1.Service{g.GenesisService(), g.ValidatorService()} {
				ports := metricsPorts(svc)
				Expect(ports).To(HaveLen(1))
				Expect(ports[0].Port).To(Equal(int32(26660)))
			}
		})
	})

	Describe("faucet variants", func() {
		faucetOf := func(t config.FaucetType) *corev1.Container {
			g := generator(network(config.ChainSpec{
				ID: "osmosis-1", Name: "osmosis",
				Faucet: config.Faucet{Enabled: ptr.Bool(true), Type: t},
			}), "osmosis-1")
			sts, err := g.GenesisStatefulSet()
			Expect(err).NotTo(HaveOccurred())
			c := container(sts.Spec.Template.Spec.Containers, "faucet")
			Expect(c).NotTo(BeNil())
			return c
		}

		It("differs between starship and cosmjs but pins the chain id in both", func() {
			starship := faucetOf(config.FaucetStarship)
			cosmjs := faucetOf(config.FaucetCosmjs)

			Expect(starship.Command).NotTo(Equal(cosmjs.Command))
			Expect(envOf(starship)).NotTo(Equal(envOf(cosmjs)))
			Expect(envOf(starship)).To(HaveKeyWithValue("FAUCET_CHAIN_ID", "osmosis-1"))
			Expect(envOf(cosmjs)).To(HaveKeyWithValue("FAUCET_CHAIN_ID", "osmosis-1"))
		})

		It("waits for the local RPC in both variants", func() {
			for _, t := range []config.FaucetType{config.FaucetStarship, config.FaucetCosmjs} {
				Expect(faucetOf(t).Command[2]).To(ContainSubstring("/scripts/chain-rpc-ready.sh http://localhost:26657"))
			}
		})

		It("publishes the variant's port", func() {
			Expect(faucetOf(config.FaucetStarship).Ports[0].ContainerPort).To(Equal(int32(8000)))
			Expect(faucetOf(config.FaucetCosmjs).Ports[0].ContainerPort).To(Equal(int32(8010)))
		})

		It("is absent when disabled", func() {
			g := generator(network(config.ChainSpec{
				ID: "osmosis-1", Name: "osmosis", Faucet: config.Faucet{Enabled: ptr.Bool(false)},
			}), "osmosis-1")
			sts, err := g.GenesisStatefulSet()
			Expect(err).NotTo(HaveOccurred())
			Expect(container(sts.Spec.Template.Spec.Containers, "faucet")).To(BeNil())
			Expect(envOf(container(sts.Spec.Template.Spec.InitContainers, "init-genesis"))).
				To(HaveKeyWithValue("FAUCET_ENABLED", "false"))
		})
	})

	Describe("inter-chain security", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("fails with a configuration error and writes nothing for an unknown provider", func() {
			cfg := network(
				config.ChainSpec{ID: "osmosis-1", Name: "osmosis"},
				config.ChainSpec{ID: "neutron-1", Name: "neutron", ICS: config.ICS{Enabled: true, Provider: "cosmoshub-4"}},
			)

			_, _, err := manifests.GenerateAllFiles(cfg, nil, dir, nil)
			var cfgErr *manifests.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("ics.provider"))
			Expect(err).To(MatchError(manifests.ErrReferenceNotFound))

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("waits on the provider's genesis exposer", func() {
			cfg := network(
				config.ChainSpec{ID: "cosmoshub-4", Name: "cosmoshub", Ports: config.Ports{Exposer: 8181}},
				config.ChainSpec{ID: "neutron-1", Name: "neutron", ICS: config.ICS{Enabled: true, Provider: "cosmoshub-4"}},
			)
			sts, err := generator(cfg, "neutron-1").GenesisStatefulSet()
			Expect(err).NotTo(HaveOccurred())

			ics := container(sts.Spec.Template.Spec.InitContainers, "init-ics")
			Expect(ics).NotTo(BeNil())
			Expect(ics.Command[2]).To(ContainSubstring("http://cosmoshub-4-genesis.$NAMESPACE.svc.cluster.local:8181/node_id"))
		})
	})

	Describe("determinism", func() {
		It("produces identical files on every run", func() {
			cfg := network(
				config.ChainSpec{ID: "cosmoshub-4", Name: "cosmoshub", NumValidators: 2},
				config.ChainSpec{
					ID: "neutron-1", Name: "neutron", NumValidators: 3, Metrics: true,
					ICS:     config.ICS{Enabled: true, Provider: "cosmoshub-4"},
					Upgrade: config.Upgrade{Enabled: true, Genesis: "v2.0.0", Upgrades: []config.UpgradeStep{{Name: "v3", Version: "v3.0.0"}}},
				},
				config.ChainSpec{ID: "osmosis-1", Name: "osmosis", Cometmock: config.Cometmock{Enabled: true}},
			)

			first, second := GinkgoT().TempDir(), GinkgoT().TempDir()
			_, a, err := manifests.GenerateAllFiles(cfg, nil, first, nil)
			Expect(err).NotTo(HaveOccurred())
			_, b, err := manifests.GenerateAllFiles(cfg, nil, second, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(HaveLen(len(b)))

			for i := range a {
				rel, err := filepath.Rel(first, a[i])
				Expect(err).NotTo(HaveOccurred())
				Expect(filepath.Join(second, rel)).To(Equal(b[i]))

				left, err := os.ReadFile(a[i])
				Expect(err).NotTo(HaveOccurred())
				right, err := os.ReadFile(b[i])
				Expect(err).NotTo(HaveOccurred())
				Expect(left).To(Equal(right), rel)
			}
		})
	})
})
