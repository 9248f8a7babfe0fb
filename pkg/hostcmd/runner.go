// Package hostcmd wraps invocation of the fixed external tools the storage
// manager depends on, so components stay testable without spawning real
// processes.
package hostcmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/lethe-storage/lethe/pkg/domain"
)

// Output captures one completed tool invocation.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the tool exited zero.
func (o Output) Success() bool { return o.ExitCode == 0 }

// Runner executes an external tool and waits for it to exit. The returned
// error is non-nil only when the process could not be run at all; a non-zero
// exit is reported through Output so callers that treat it as a probe result
// (blkid, findmnt) can do so without unwrapping errors.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) (Output, error)
}

// ExecRunner runs tools on the host via os/exec. Calls block until the tool
// exits; there is no timeout or cancellation, a hung tool hangs the caller.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run never kills the tool on context cancellation: mdadm --create and mkfs
// are destructive and must run to completion even if the caller goes away,
// or a half-written array/filesystem would pass the next idempotency probe.
func (r *ExecRunner) Run(_ context.Context, path string, args ...string) (Output, error) {
	cmd := exec.Command(path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, domain.NewCommandError(path, stderr.String(), err)
	}
	return out, nil
}
