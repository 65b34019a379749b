package manifests

import (
	"testing"

	corev1 "k8s.io/api/core/v1"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/scripts"
)

func testConfig(chains ...config.ChainSpec) *config.Config {
	cfg := &config.Config{Name: "devnet", Chains: chains}
	cfg.ApplyDefaults()
	return cfg
}

func newTestGenerator(t *testing.T, cfg *config.Config, id string) *Generator {
	t.Helper()
	raw, ok := cfg.FindChain(id)
	if !ok {
		t.Fatalf("chain %s not in config", id)
	}
	return NewGenerator(cfg, config.Normalize(cfg, raw), scripts.Embedded())
}

func containerNames(cs []corev1.Container) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names
}

func findContainer(cs []corev1.Container, name string) *corev1.Container {
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i]
		}
	}
	return nil
}

func envValue(c *corev1.Container, name string) (string, bool) {
	for _, e := range c.Env {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

func envNames(c *corev1.Container) []string {
	names := make([]string, 0, len(c.Env))
	for _, e := range c.Env {
		names = append(names, e.Name)
	}
	return names
}

func script(c *corev1.Container) string {
	if len(c.Command) == 3 {
		return c.Command[2]
	}
	return ""
}

// mapResolver resolves every reference to a fixed body, failing for the
// names in missing.
type mapResolver struct {
	missing map[string]bool
}

func (r mapResolver) Resolve(ref scripts.Ref) (string, error) {
	if r.missing[ref.File] {
		return "", &scripts.ResolutionError{Ref: ref, Err: scripts.ErrScriptNotFound}
	}
	if ref.Data != "" {
		return ref.Data, nil
	}
	if ref.File == scripts.KeysFile {
		return `{"genesis":[]}`, nil
	}
	return "#!/bin/bash\necho " + ref.File, nil
}
