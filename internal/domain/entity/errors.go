package entity

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced to the transport layer. Every error the usecases
// return wraps one of these, so handlers can map them with errors.Is.
var (
	ErrNotFound            = errors.New("container not found")
	ErrNoTimestamp         = errors.New("no timestamp in tracking event")
	ErrExtraction          = errors.New("no container trail in provider response")
	ErrProviderAuth        = errors.New("tracking provider authentication failed")
	ErrProviderUnavailable = errors.New("tracking provider unavailable")
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
