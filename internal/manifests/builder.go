package manifests

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	corev1 "k8s.io/api/core/v1"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/observability"
	"github.com/starship-devnet/starship/internal/scripts"
)

// ChainManifests is the output of one chain, in emission order.
type ChainManifests struct {
	Chain     config.ProcessedChain
	Manifests []Manifest
}

// Result is the output of a whole network.
type Result struct {
	// Keys is the mnemonic ConfigMap shared by all chains
	Keys   *corev1.ConfigMap
	Chains []ChainManifests
	// Skipped lists the ids of chains left to other generator sets
	Skipped []string
}

// Builder assembles the manifests of every chain in a config.
type Builder struct {
	cfg      *config.Config
	resolver scripts.Resolver
	observer observability.Observer
}

// Option configures a Builder.
type Option func(*Builder)

// WithObserver sets the observer receiving generation events.
func WithObserver(o observability.Observer) Option {
	return func(b *Builder) {
		if o != nil {
			b.observer = o
		}
	}
}

// NewBuilder creates a builder for cfg. Scripts are resolved with resolver,
// or with the embedded defaults when resolver is nil.
func NewBuilder(cfg *config.Config, resolver scripts.Resolver, opts ...Option) *Builder {
	if resolver == nil {
		resolver = scripts.Embedded()
	}
	b := &Builder{
		cfg:      cfg,
		resolver: resolver,
		observer: observability.NopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildManifests generates the manifests of one chain: ConfigMaps, then
// Services, then the genesis workload, then the validator workload.
func (b *Builder) BuildManifests(chain config.ProcessedChain) ([]Manifest, error) {
	g := NewGenerator(b.cfg, chain, b.resolver)
	obs := b.observer.WithFields(map[string]string{"chain": chain.ID})

	var out []Manifest
	emit := func(phase string, m Manifest) {
		observability.ManifestEmitted(obs, phase, m.GetObjectKind().GroupVersionKind().Kind, m.GetName())
		out = append(out, m)
	}

	steps := []struct {
		phase string
		run   func() ([]Manifest, error)
	}{
		{"configmaps", g.configMaps},
		{"services", g.services},
		{"genesis", func() ([]Manifest, error) {
			sts, err := g.GenesisStatefulSet()
			if err != nil {
				return nil, err
			}
			return []Manifest{sts}, nil
		}},
		{"validator", func() ([]Manifest, error) {
			sts, err := g.ValidatorStatefulSet()
			if err != nil || sts == nil {
				return nil, err
			}
			return []Manifest{sts}, nil
		}},
	}

	for _, step := range steps {
		start := time.Now()
		observability.PhaseStarted(obs, step.phase)
		ms, err := step.run()
		if err != nil {
			observability.PhaseFailed(obs, step.phase, err)
			return nil, fmt.Errorf("failed to build %s for chain %s: %w", step.phase, chain.ID, err)
		}
		for _, m := range ms {
			emit(step.phase, m)
		}
		observability.PhaseCompleted(obs, step.phase, time.Since(start))
	}

	return out, nil
}

// BuildAll generates the manifests of every chain in config order. A chain
// that fails does not stop the others from being tried, so every broken
// chain is reported at once. Nothing is returned unless all succeed.
func (b *Builder) BuildAll() (*Result, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("no configuration given")
	}

	keys, err := KeysConfigMap(b.cfg, b.resolver)
	if err != nil {
		return nil, err
	}
	observability.ManifestEmitted(b.observer, "keys", "ConfigMap", keys.Name)

	res := &Result{Keys: keys}
	var errs *multierror.Error
	for _, chain := range b.cfg.ProcessedChains() {
		if !chain.IsCosmos() {
			observability.ChainSkipped(b.observer, chain.ID, fmt.Sprintf("%s is not a cosmos chain", chain.Name))
			res.Skipped = append(res.Skipped, chain.ID)
			continue
		}
		ms, err := b.BuildManifests(chain)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		res.Chains = append(res.Chains, ChainManifests{Chain: chain, Manifests: ms})
	}

	switch {
	case errs == nil:
		return res, nil
	case len(errs.Errors) == 1:
		return nil, errs.Errors[0]
	default:
		return nil, errs
	}
}

func (g *Generator) configMaps() ([]Manifest, error) {
	var out []Manifest

	scriptsCM, err := g.ScriptsConfigMap()
	if err != nil {
		return nil, err
	}
	out = append(out, scriptsCM)

	patch, err := g.GenesisPatchConfigMap()
	if err != nil {
		return nil, err
	}
	if patch != nil {
		out = append(out, patch)
	}

	proposal, err := g.ConsumerProposalConfigMap()
	if err != nil {
		return nil, err
	}
	if proposal != nil {
		out = append(out, proposal)
	}
	return out, nil
}

func (g *Generator) services() ([]Manifest, error) {
	out := []Manifest{g.GenesisService()}
	if svc := g.ValidatorService(); svc != nil {
		out = append(out, svc)
	}
	return out, nil
}
