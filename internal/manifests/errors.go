package manifests

import (
	"errors"
	"fmt"
)

// ErrReferenceNotFound is returned when a cross-chain reference does not
// resolve within the configured chain list.
var ErrReferenceNotFound = errors.New("reference not found")

// ConfigurationError reports a chain whose configuration cannot be turned
// into manifests. It aborts generation.
type ConfigurationError struct {
	Chain   string // chain id
	Field   string // offending field, e.g. "ics.provider"
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("chain %q: %s: %s", e.Chain, e.Field, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
