package model

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers. Structural failures abort a request;
// data-acquisition failures are absorbed at claim granularity and never
// reach this taxonomy.
const (
	CodeInputError      = "input_error"
	CodeExtractionError = "extraction_error"
	CodeInternalError   = "internal_error"
)

// InputError reports an unusable article before any pipeline stage runs
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "input: " + e.Reason
}

// ExtractionError reports that a language-model stage failed schema
// validation after its bounded retry. Claims and the argument graph are
// structural prerequisites, so this aborts the whole analysis.
type ExtractionError struct {
	Stage    string // "extraction" or "argument_mapping"
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Stage, e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AdapterError reports a single data-source failure. It is absorbed at
// claim granularity: the claim gets an insufficient_data verdict and the
// analysis carries on.
type AdapterError struct {
	Source string
	Err    error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// CacheError reports a cache read or write failure. Caching is best-effort,
// so these are logged and never fail an analysis.
type CacheError struct {
	Op  string // "get" or "set"
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error to its taxonomy code for structured responses
func ErrorCode(err error) string {
	var in *InputError
	if errors.As(err, &in) {
		return CodeInputError
	}
	var ex *ExtractionError
	if errors.As(err, &ex) {
		return CodeExtractionError
	}
	return CodeInternalError
}
