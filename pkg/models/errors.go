package models

import "errors"

// Sentinel errors shared across packages. Wrap with fmt.Errorf("...: %w", err)
// and test with errors.Is.
var (
	// ErrFileProcessing marks a per-file read or analysis failure.
	ErrFileProcessing = errors.New("file processing failed")
	// ErrInvalidConfig marks rejected configuration or arguments.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrSerialization marks a failure encoding or decoding results.
	ErrSerialization = errors.New("serialization failed")
)
