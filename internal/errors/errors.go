package errors

import (
	stderrors "errors"
	"fmt"
)

// Error code constants for the pipeline's failure kinds. Every failure is
// fatal: the run halts and the error is surfaced with its code.
const (
	CodeConnection   = "CONNECTION_ERROR"
	CodeCrsMismatch  = "CRS_MISMATCH"
	CodeTypeCoercion = "TYPE_COERCION_ERROR"
	CodeSchema       = "SCHEMA_ERROR"
)

// Process exit codes, mapped from error kinds by ExitCode.
const (
	ExitSuccess       = 0
	ExitGeneral       = 1
	ExitPanic         = 3
	ExitInvalidConfig = 10
	ExitConnection    = 11
	ExitCrsMismatch   = 12
	ExitTypeCoercion  = 13
	ExitSchema        = 14
)

// ErrInvalidConfig marks configuration loading/validation failures so the
// CLI can exit with a distinct code. Wrap it with fmt.Errorf("%w: ...").
var ErrInvalidConfig = stderrors.New("invalid configuration")

// PipelineError is a fatal pipeline failure tagged with a machine-readable
// code. It wraps the underlying cause when one exists.
type PipelineError struct {
	Code    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Connection reports that the database cannot be reached.
func Connection(message string, err error) error {
	return &PipelineError{Code: CodeConnection, Message: message, Err: err}
}

// CrsMismatchf reports that two spatial reference systems differ where
// equality is required. Raised before any state is mutated.
func CrsMismatchf(format string, args ...interface{}) error {
	return &PipelineError{Code: CodeCrsMismatch, Message: fmt.Sprintf(format, args...)}
}

// TypeCoercionf reports that a source attribute cannot be coerced to its
// required type. Aborts the load of that dataset.
func TypeCoercionf(format string, args ...interface{}) error {
	return &PipelineError{Code: CodeTypeCoercion, Message: fmt.Sprintf(format, args...)}
}

// Schema reports a table create/drop/index failure.
func Schema(message string, err error) error {
	return &PipelineError{Code: CodeSchema, Message: message, Err: err}
}

// Is reports whether err carries the given pipeline error code.
func Is(err error, code string) bool {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// ExitCode maps an error to the process exit code documented in the CLI
// help. nil maps to ExitSuccess, unknown errors to ExitGeneral.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if stderrors.Is(err, ErrInvalidConfig) {
		return ExitInvalidConfig
	}
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		switch pe.Code {
		case CodeConnection:
			return ExitConnection
		case CodeCrsMismatch:
			return ExitCrsMismatch
		case CodeTypeCoercion:
			return ExitTypeCoercion
		case CodeSchema:
			return ExitSchema
		}
	}
	return ExitGeneral
}
