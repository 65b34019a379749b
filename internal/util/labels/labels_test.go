package labels

import "testing"

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		network string
		wantKey bool
	}{
		{"simple network name", "devnet", true},
		{"with numbers", "devnet-01", true},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := NewLabelBuilder(tt.network).Build()

			_, ok := labels[KeyNetwork]
			if ok != tt.wantKey {
				t.Errorf("expected %s present=%v, got %v", KeyNetwork, tt.wantKey, ok)
			}
			if ok && labels[KeyNetwork] != tt.network {
				t.Errorf("expected %s=%q, got %q", KeyNetwork, tt.network, labels[KeyNetwork])
			}
			if labels[KeyManagedBy] != ManagedByStarship {
				t.Errorf("expected %s=%q, got %q", KeyManagedBy, ManagedByStarship, labels[KeyManagedBy])
			}
		})
	}
}

func TestWithChainAndRole(t *testing.T) {
	t.Parallel()
	labels := NewLabelBuilder("devnet").
		WithChain("osmosis-1", "osmosis-1", "osmosis").
		WithRole("osmosis-1", RoleGenesis).
		Build()

	expected := map[string]string{
		KeyInstance: "osmosis-1",
		KeyType:     "osmosis",
		KeyRawName:  "osmosis-1",
		KeyChainID:  "osmosis-1",
		KeyRole:     RoleGenesis,
		KeyName:     "osmosis-1-genesis",
	}
	for k, v := range expected {
		if labels[k] != v {
			t.Errorf("expected %s=%q, got %q", k, v, labels[k])
		}
	}
}

func TestSelectorIsSubsetOfLabels(t *testing.T) {
	t.Parallel()
	for _, role := range []string{RoleGenesis, RoleValidator} {
		labels := NewLabelBuilder("devnet").
			WithChain("juno-1", "juno-1", "juno").
			WithRole("juno-1", role).
			Build()

		for k, v := range Selector("juno-1", role) {
			if labels[k] != v {
				t.Errorf("role %s: selector %s=%q not matched by labels (%q)", role, k, v, labels[k])
			}
		}
	}
}

func TestWithVersion(t *testing.T) {
	t.Parallel()
	if _, ok := NewLabelBuilder("n").WithVersion("").Build()[KeyVersion]; ok {
		t.Error("empty version should not set label")
	}
	if got := NewLabelBuilder("n").WithVersion("v1.2.0").Build()[KeyVersion]; got != "v1.2.0" {
		t.Errorf("expected version v1.2.0, got %q", got)
	}
}

func TestBuildReturnsCopy(t *testing.T) {
	t.Parallel()
	lb := NewLabelBuilder("devnet")
	first := lb.Build()
	first["mutated"] = "yes"

	if _, ok := lb.Build()["mutated"]; ok {
		t.Error("Build should return a copy of the labels")
	}
}

func TestSelectorForNetwork(t *testing.T) {
	t.Parallel()
	if got := SelectorForNetwork("devnet"); got != "starship.io/network=devnet" {
		t.Errorf("unexpected selector %q", got)
	}
}
