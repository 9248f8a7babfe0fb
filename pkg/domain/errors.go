package domain

import (
	"fmt"
	"strings"
)

// InvalidParameterError indicates caller input that fails validation before
// any mutation is attempted: an unknown disk, a bind target outside the
// allow list, an empty effective disk set.
type InvalidParameterError struct {
	Parameter string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Parameter, e.Reason)
}

// NewInvalidParameterError creates a new invalid-parameter error.
func NewInvalidParameterError(parameter, reason string) *InvalidParameterError {
	return &InvalidParameterError{Parameter: parameter, Reason: reason}
}

// CommandError indicates that one of the fixed external tools could not be
// spawned or exited non-zero. Stderr carries the tool's diagnostic output
// verbatim.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	switch {
	case msg != "" && e.Err != nil:
		return fmt.Sprintf("%s failed: %v: %s", e.Command, e.Err, msg)
	case msg != "":
		return fmt.Sprintf("%s failed: %s", e.Command, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s failed", e.Command)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new external-tool error.
func NewCommandError(command, stderr string, err error) *CommandError {
	return &CommandError{Command: command, Stderr: stderr, Err: err}
}

// PathError indicates a filesystem operation failure (directory creation,
// discovery-directory read) with the underlying OS error and path attached.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
