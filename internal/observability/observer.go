// Package observability provides structured events for manifest generation.
package observability

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives structured events emitted while generating manifests.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured generation event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "configmaps", "genesis")
	Message   string            // Human-readable message
	Resource  string            // Object name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of generation event.
type EventType string

const (
	// EventPhaseStarted indicates a generation phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a generation phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a generation phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventManifestEmitted indicates a manifest object was produced.
	EventManifestEmitted EventType = "manifest.emitted"
	// EventChainSkipped indicates a chain was not handled by this generator set.
	EventChainSkipped EventType = "chain.skipped"
	// EventFileWritten indicates an output file was written.
	EventFileWritten EventType = "file.written"
	// EventFileRemoved indicates a stale output file from an earlier run was deleted.
	EventFileRemoved EventType = "file.removed"
)

// LogrObserver implements Observer on top of a logr.Logger.
type LogrObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogrObserver creates an observer writing to log.
func NewLogrObserver(log logr.Logger) *LogrObserver {
	return &LogrObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	fields := mergeFields(o.contextFields, event.Fields)
	for _, k := range sortedKeys(fields) {
		kv = append(kv, k, fields[k])
	}

	switch event.Type {
	case EventPhaseFailed:
		o.log.Error(nil, event.Message, kv...)
	case EventPhaseStarted, EventManifestEmitted, EventFileWritten:
		// Per-object chatter only shows with verbose logging
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	return &LogrObserver{
		log:           o.log,
		contextFields: mergeFields(o.contextFields, fields),
	}
}

// NopObserver discards every event.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// WithFields implements Observer.
func (n NopObserver) WithFields(map[string]string) Observer { return n }

// Recorder collects events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events *[]Event
	fields map[string]string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{events: &[]Event{}}
}

// Event implements Observer.
func (r *Recorder) Event(event Event) {
	event.Fields = mergeFields(r.fields, event.Fields)
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, event)
}

// WithFields implements Observer. The returned observer records into the
// same event list.
func (r *Recorder) WithFields(fields map[string]string) Observer {
	return &Recorder{events: r.events, fields: mergeFields(r.fields, fields)}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), *r.events...)
}

// OfType returns the recorded events of type t.
func (r *Recorder) OfType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Helper functions for common events

// PhaseStarted emits a phase start event.
func PhaseStarted(o Observer, phase string) {
	o.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: "starting"})
}

// PhaseCompleted emits a phase completion event.
func PhaseCompleted(o Observer, phase string, duration time.Duration) {
	o.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// PhaseFailed emits a phase failure event.
func PhaseFailed(o Observer, phase string, err error) {
	o.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// ManifestEmitted emits an event for one generated object.
func ManifestEmitted(o Observer, phase, kind, name string) {
	o.Event(Event{
		Type:     EventManifestEmitted,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("emitted %s", kind),
		Fields:   map[string]string{"kind": kind},
	})
}

// ChainSkipped emits an event for a chain left to another generator set.
func ChainSkipped(o Observer, chainID, reason string) {
	o.Event(Event{
		Type:     EventChainSkipped,
		Resource: chainID,
		Message:  fmt.Sprintf("skipped: %s", reason),
	})
}

// FileWritten emits an event for one output file.
func FileWritten(o Observer, path string, documents int) {
	o.Event(Event{
		Type:     EventFileWritten,
		Resource: path,
		Message:  "wrote file",
		Fields:   map[string]string{"documents": fmt.Sprint(documents)},
	})
}

// FileRemoved emits an event for one deleted stale output file.
func FileRemoved(o Observer, path string) {
	o.Event(Event{
		Type:     EventFileRemoved,
		Resource: path,
		Message:  "removed stale file",
	})
}

func mergeFields(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
