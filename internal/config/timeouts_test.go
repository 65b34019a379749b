package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutsWithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		in       Timeouts
		envVars  map[string]string
		expected func(Timeouts) Timeouts
	}{
		{
			name:     "all defaults",
			in:       Timeouts{},
			expected: func(d Timeouts) Timeouts { return d },
		},
		{
			name: "configured value kept",
			in:   Timeouts{TimeoutCommit: "5s"},
			expected: func(d Timeouts) Timeouts {
				d.TimeoutCommit = "5s"
				return d
			},
		},
		{
			name:    "env overrides config",
			in:      Timeouts{TimeoutPropose: "1s"},
			envVars: map[string]string{"STARSHIP_TIMEOUT_PROPOSE": "3s"},
			expected: func(d Timeouts) Timeouts {
				d.TimeoutPropose = "3s"
				return d
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			got := tt.in.WithDefaults()
			assert.Equal(t, tt.expected(DefaultTimeouts()), got)
		})
	}
}

func TestTimeoutsEnvPairs(t *testing.T) {
	pairs := DefaultTimeouts().EnvPairs()
	assert.Len(t, pairs, 8)
	assert.Equal(t, [2]string{"TIME_IOTA_MS", "10"}, pairs[0])
	assert.Equal(t, [2]string{"TIMEOUT_COMMIT", "800ms"}, pairs[7])
}

func TestTimeoutsWithDefaultsIdempotent(t *testing.T) {
	once := Timeouts{TimeoutPrevote: "1s"}.WithDefaults()
	assert.Equal(t, once, once.WithDefaults())
}
