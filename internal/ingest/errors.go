package ingest

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a drive or round that
// does not exist. Nothing is created or mutated in that case.
var ErrNotFound = errors.New("ingest: drive not found")

// ErrCredentialMissing means no API key is configured. The raw message is
// still persisted and the drive stays queued; only extraction is skipped.
var ErrCredentialMissing = errors.New("ingest: gemini api key not configured")

// ValidationError rejects bad input before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "ingest: invalid input: " + e.Reason
}

// ExtractionError wraps a classified extraction failure. The drive's raw
// text survives and queued_for_retry is set before this is returned.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "ingest: extraction failed: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// StorageError means the local store itself failed to write. Unlike
// extraction failures there is nothing durable to retry later, so the
// whole operation is reported failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ingest: storage failure (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
