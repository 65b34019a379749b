package config

import (
	"os"
	"strings"
)

// Timeouts holds the consensus timeouts written into every node's
// config.toml and genesis. Values are passed through verbatim.
type Timeouts struct {
	TimeIotaMs            string `mapstructure:"time_iota_ms" yaml:"time_iota_ms,omitempty"`
	TimeoutPropose        string `mapstructure:"timeout_propose" yaml:"timeout_propose,omitempty"`
	TimeoutProposeDelta   string `mapstructure:"timeout_propose_delta" yaml:"timeout_propose_delta,omitempty"`
	TimeoutPrevote        string `mapstructure:"timeout_prevote" yaml:"timeout_prevote,omitempty"`
	TimeoutPrevoteDelta   string `mapstructure:"timeout_prevote_delta" yaml:"timeout_prevote_delta,omitempty"`
	TimeoutPrecommit      string `mapstructure:"timeout_precommit" yaml:"timeout_precommit,omitempty"`
	TimeoutPrecommitDelta string `mapstructure:"timeout_precommit_delta" yaml:"timeout_precommit_delta,omitempty"`
	TimeoutCommit         string `mapstructure:"timeout_commit" yaml:"timeout_commit,omitempty"`
}

// DefaultTimeouts returns fast block times suitable for a local devnet.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		TimeIotaMs:            "10",
		TimeoutPropose:        "400ms",
		TimeoutProposeDelta:   "400ms",
		TimeoutPrevote:        "400ms",
		TimeoutPrevoteDelta:   "400ms",
		TimeoutPrecommit:      "400ms",
		TimeoutPrecommitDelta: "400ms",
		TimeoutCommit:         "800ms",
	}
}

// WithDefaults fills every unset timeout.
//
// Each value can also be overridden via environment variable, which takes
// precedence over the config file:
//   - STARSHIP_TIMEOUT_PROPOSE, STARSHIP_TIMEOUT_COMMIT, ... (upper-cased key)
func (t Timeouts) WithDefaults() Timeouts {
	d := DefaultTimeouts()
	fields := []struct {
		key string
		val *string
		def string
	}{
		{"time_iota_ms", &t.TimeIotaMs, d.TimeIotaMs},
		{"timeout_propose", &t.TimeoutPropose, d.TimeoutPropose},
		{"timeout_propose_delta", &t.TimeoutProposeDelta, d.TimeoutProposeDelta},
		{"timeout_prevote", &t.TimeoutPrevote, d.TimeoutPrevote},
		{"timeout_prevote_delta", &t.TimeoutPrevoteDelta, d.TimeoutPrevoteDelta},
		{"timeout_precommit", &t.TimeoutPrecommit, d.TimeoutPrecommit},
		{"timeout_precommit_delta", &t.TimeoutPrecommitDelta, d.TimeoutPrecommitDelta},
		{"timeout_commit", &t.TimeoutCommit, d.TimeoutCommit},
	}
	for _, f := range fields {
		*f.val = parseString("STARSHIP_"+strings.ToUpper(f.key), *f.val, f.def)
	}
	return t
}

// EnvPairs returns the timeouts as environment variable name/value pairs in
// a fixed order. The names are read by the update-genesis and update-config
// scripts.
func (t Timeouts) EnvPairs() [][2]string {
	return [][2]string{
		{"TIME_IOTA_MS", t.TimeIotaMs},
		{"TIMEOUT_PROPOSE", t.TimeoutPropose},
		{"TIMEOUT_PROPOSE_DELTA", t.TimeoutProposeDelta},
		{"TIMEOUT_PREVOTE", t.TimeoutPrevote},
		{"TIMEOUT_PREVOTE_DELTA", t.TimeoutPrevoteDelta},
		{"TIMEOUT_PRECOMMIT", t.TimeoutPrecommit},
		{"TIMEOUT_PRECOMMIT_DELTA", t.TimeoutPrecommitDelta},
		{"TIMEOUT_COMMIT", t.TimeoutCommit},
	}
}

// parseString returns the environment value if set, else the configured
// value, else the default.
func parseString(envVar, configured, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	if configured != "" {
		return configured
	}
	return defaultVal
}
