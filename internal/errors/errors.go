// Package errors provides sentinel errors and custom error types for the graft application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrBackendUnavailable indicates that the version-control backend could
	// not service a request. Always fatal for the current run.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrParse indicates that recorded history does not satisfy a structural
	// precondition, such as a non-linear changeset chain.
	ErrParse = errors.New("history parse error")

	// ErrApplyConflict indicates that applying or merging changesets produced
	// a conflict the backend could not resolve on its own.
	ErrApplyConflict = errors.New("apply conflict")

	// ErrUnknownRef indicates that a ref could not be resolved to a changeset
	ErrUnknownRef = errors.New("unknown ref")
)

// ParseError represents a structural defect in the recorded history
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("history parse error: %s", e.Reason)
}

// Is returns true if the target error is ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(format string, args ...any) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// ApplyConflictError represents a conflict while porting a changeset onto a
// new base. Op names the backend operation that conflicted.
type ApplyConflictError struct {
	Op        string
	Changeset string
	Onto      string
}

func (e *ApplyConflictError) Error() string {
	if e.Onto != "" {
		return fmt.Sprintf("%s conflict: %s onto %s", e.Op, e.Changeset, e.Onto)
	}
	return fmt.Sprintf("%s conflict: %s", e.Op, e.Changeset)
}

// Is returns true if the target error is ErrApplyConflict
func (e *ApplyConflictError) Is(target error) bool {
	return target == ErrApplyConflict
}

// NewApplyConflictError creates a new ApplyConflictError
func NewApplyConflictError(op, changeset, onto string) *ApplyConflictError {
	return &ApplyConflictError{
		Op:        op,
		Changeset: changeset,
		Onto:      onto,
	}
}

// UnknownRefError represents a ref that the backend could not resolve
type UnknownRefError struct {
	Ref string
}

func (e *UnknownRefError) Error() string {
	return fmt.Sprintf("unknown ref %q", e.Ref)
}

// Is returns true if the target error is ErrUnknownRef
func (e *UnknownRefError) Is(target error) bool {
	return target == ErrUnknownRef
}

// NewUnknownRefError creates a new UnknownRefError
func NewUnknownRefError(ref string) *UnknownRefError {
	return &UnknownRefError{Ref: ref}
}

// BackendError represents a failure of the version-control backend itself,
// typically a git subprocess that could not run or exited unexpectedly.
type BackendError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("backend command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += " " + strings.Join(e.Args, " ")
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrBackendUnavailable
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError creates a new BackendError
func NewBackendError(command string, args []string, stdout, stderr string, err error) *BackendError {
	return &BackendError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
