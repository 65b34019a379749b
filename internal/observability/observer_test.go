package observability

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapture(verbosity int) (*LogrObserver, *[]string) {
	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: verbosity})
	return NewLogrObserver(log), &lines
}

func TestLogrObserver_Event(t *testing.T) {
	obs, lines := newCapture(1)

	obs.WithFields(map[string]string{"chain": "osmosis-1"}).Event(Event{
		Type:     EventManifestEmitted,
		Phase:    "configmaps",
		Resource: "setup-scripts-osmosis-1",
		Message:  "emitted ConfigMap",
	})

	require.Len(t, *lines, 1)
	line := (*lines)[0]
	assert.Contains(t, line, `"event"="manifest.emitted"`)
	assert.Contains(t, line, `"phase"="configmaps"`)
	assert.Contains(t, line, `"resource"="setup-scripts-osmosis-1"`)
	assert.Contains(t, line, `"chain"="osmosis-1"`)
}

func TestLogrObserver_VerboseEventsHidden(t *testing.T) {
	obs, lines := newCapture(0)

	PhaseStarted(obs, "genesis")
	ManifestEmitted(obs, "genesis", "StatefulSet", "osmosis-1-genesis")
	ChainSkipped(obs, "eth-1", "not a cosmos chain")

	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "chain.skipped")
}

func TestLogrObserver_Failure(t *testing.T) {
	obs, lines := newCapture(0)

	PhaseFailed(obs, "configmaps", errors.New("boom"))

	require.Len(t, *lines, 1)
	assert.True(t, strings.Contains((*lines)[0], "failed: boom"))
}

func TestLogrObserver_WithFieldsDoesNotLeak(t *testing.T) {
	obs, lines := newCapture(0)

	_ = obs.WithFields(map[string]string{"chain": "a"})
	obs.Event(Event{Type: EventPhaseCompleted, Message: "done"})

	require.Len(t, *lines, 1)
	assert.NotContains(t, (*lines)[0], `"chain"`)
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	child := rec.WithFields(map[string]string{"chain": "juno-1"})

	PhaseStarted(child, "services")
	PhaseCompleted(child, "services", 1500*time.Microsecond)
	ManifestEmitted(rec, "services", "Service", "juno-1-genesis")

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "juno-1", events[0].Fields["chain"])
	assert.Equal(t, "completed in 2ms", events[1].Message)
	assert.Len(t, rec.OfType(EventManifestEmitted), 1)
	assert.Equal(t, "Service", rec.OfType(EventManifestEmitted)[0].Fields["kind"])
}

func TestNopObserver(t *testing.T) {
	var o Observer = NopObserver{}
	o.Event(Event{Type: EventPhaseStarted})
	assert.Equal(t, o, o.WithFields(map[string]string{"a": "b"}))
}
