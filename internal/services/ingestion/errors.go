package ingestion

import (
	"errors"
	"fmt"
)

// ValidationError rejects a single file (bad metadata, unknown crop, invalid
// crop year). The batch keeps going with the remaining files.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps a database failure. No retry; the file's transaction rolls
// back and the operator re-runs the batch.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
