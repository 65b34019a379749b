package manifests

import (
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/labels"
)

// Manifest is one generated Kubernetes object.
type Manifest interface {
	runtime.Object
	metav1.Object
}

// Generator produces the manifests of a single chain. It only reads the
// global config, so several generators may share one.
type Generator struct {
	cfg      *config.Config
	chain    config.ProcessedChain
	features Features
	resolver scripts.Resolver
}

// NewGenerator creates a generator for chain. chain must come from
// config.Normalize.
func NewGenerator(cfg *config.Config, chain config.ProcessedChain, resolver scripts.Resolver) *Generator {
	return &Generator{
		cfg:      cfg,
		chain:    chain,
		features: FeaturesOf(chain),
		resolver: resolver,
	}
}

func (g *Generator) network() string {
	if g.cfg == nil {
		return ""
	}
	return g.cfg.Name
}

func (g *Generator) labels(role string) map[string]string {
	return labels.NewLabelBuilder(g.network()).
		WithChain(g.chain.Host, g.chain.ID, g.chain.Name).
		WithRole(g.chain.Host, role).
		WithVersion(g.version()).
		Build()
}

// version is the code version the chain starts on, if known.
func (g *Generator) version() string {
	switch {
	case g.chain.Upgrade.Enabled:
		return labelSafe(g.chain.Upgrade.Genesis)
	case g.chain.Build.Enabled:
		return labelSafe(g.chain.Build.Source)
	}
	return ""
}

func (g *Generator) objectMeta(name, role string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:   name,
		Labels: g.labels(role),
	}
}

// provider resolves the ICS provider of the chain. The lookup is repeated on
// every call so edits to the chain list are always seen.
func (g *Generator) provider() (config.ProcessedChain, error) {
	id := g.features.ICSProvider
	if g.cfg == nil {
		return config.ProcessedChain{}, &ConfigurationError{
			Chain: g.chain.ID, Field: "ics.provider",
			Message: "no chain list to resolve " + id, Err: ErrReferenceNotFound,
		}
	}
	raw, ok := g.cfg.FindChain(id)
	if !ok {
		return config.ProcessedChain{}, &ConfigurationError{
			Chain: g.chain.ID, Field: "ics.provider",
			Message: "provider chain " + id + " is not defined", Err: ErrReferenceNotFound,
		}
	}
	return config.Normalize(g.cfg, raw), nil
}

// labelSafe cuts a value to the 63 characters allowed in label values and
// replaces characters labels cannot carry.
func labelSafe(v string) string {
	out := make([]byte, 0, len(v))
	for i := 0; i < len(v) && len(out) < 63; i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			out = append(out, c)
		default:
			out = append(out, '-')
		}
	}
	return strings.Trim(string(out), "-_.")
}
