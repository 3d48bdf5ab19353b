package engine

import (
	"errors"
	"fmt"
)

// EngineError represents a failure detected while handling a runtime
// notification. These errors never propagate to the host; they are
// logged, optionally journaled, and the affected unit (module or call
// site) is left uninstrumented.
type EngineError struct {
	// Code identifies the error category.
	Code EngineErrorCode

	// Message is a human-readable description.
	Message string

	// Module identifies the affected module, when known.
	Module ModuleID

	// Assembly is the module's assembly name, when known.
	Assembly string

	// Err is the underlying host-facility error, if any.
	Err error
}

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodePrepareFailed indicates wrapper reference emission failed
	// during module preparation; the whole module is left unregistered.
	ErrCodePrepareFailed EngineErrorCode = "PREPARE_FAILED"

	// ErrCodeDuplicateModule indicates Insert was called for a module
	// id that already has a record. Module ids are unique per load, so
	// this is a logic error in the caller.
	ErrCodeDuplicateModule EngineErrorCode = "DUPLICATE_MODULE"

	// ErrCodeWrapperMissing indicates a matched rule's wrapper reference
	// was absent from the module record. Preparation caches every
	// applicable rule's wrapper, so this is an internal inconsistency.
	ErrCodeWrapperMissing EngineErrorCode = "WRAPPER_MISSING"

	// ErrCodeMetadataUnavailable indicates the module's metadata scope
	// could not be opened or is not writable.
	ErrCodeMetadataUnavailable EngineErrorCode = "METADATA_UNAVAILABLE"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Assembly != "" {
		msg += fmt.Sprintf(" (module=%d, assembly=%s)", e.Module, e.Assembly)
	} else if e.Module != 0 {
		msg += fmt.Sprintf(" (module=%d)", e.Module)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying host-facility error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsPrepareFailure reports whether err is a module preparation failure.
// Uses errors.As to handle wrapped errors.
func IsPrepareFailure(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodePrepareFailed
	}
	return false
}

func newPrepareError(module ModuleID, assembly string, err error) *EngineError {
	return &EngineError{
		Code:     ErrCodePrepareFailed,
		Message:  "failed to emit wrapper references",
		Module:   module,
		Assembly: assembly,
		Err:      err,
	}
}
