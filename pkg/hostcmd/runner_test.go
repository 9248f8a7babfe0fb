package hostcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethe-storage/lethe/pkg/domain"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	r := NewExecRunner()

	out, err := r.Run(context.Background(), "/bin/sh", "-c", "echo hello; echo oops >&2")
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Equal(t, "hello\n", string(out.Stdout))
	assert.Equal(t, "oops\n", string(out.Stderr))
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	r := NewExecRunner()

	out, err := r.Run(context.Background(), "/bin/sh", "-c", "echo broken >&2; exit 3")
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "broken\n", string(out.Stderr))
}

func TestExecRunnerToolOutlivesCancelledContext(t *testing.T) {
	r := NewExecRunner()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// The tool must run to completion even after the caller's context is
	// cancelled; an interrupted mkfs would leave a half-written filesystem.
	out, err := r.Run(ctx, "/bin/sh", "-c", "sleep 0.3; echo survived")
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Equal(t, "survived\n", string(out.Stdout))
}

func TestExecRunnerSpawnFailure(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), "/nonexistent/tool")
	require.Error(t, err)

	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "/nonexistent/tool", cmdErr.Command)
}

func TestFakeRunnerScriptsAndRecords(t *testing.T) {
	f := NewFakeRunner()
	f.Script("/usr/sbin/mdadm", Output{Stdout: []byte("ARRAY /dev/md/ephemeral\n")}, nil)
	f.Script("/usr/sbin/mdadm", Output{ExitCode: 1, Stderr: []byte("busy")}, nil)

	out, err := f.Run(context.Background(), "/usr/sbin/mdadm", "--detail", "--scan")
	require.NoError(t, err)
	assert.True(t, out.Success())

	out, err = f.Run(context.Background(), "/usr/sbin/mdadm", "--create")
	require.NoError(t, err)
	assert.Equal(t, 1, out.ExitCode)

	// Unscripted calls succeed with empty output.
	out, err = f.Run(context.Background(), "/usr/bin/mount", "--rbind", "a", "b")
	require.NoError(t, err)
	assert.True(t, out.Success())

	require.Len(t, f.Calls(), 3)
	assert.Equal(t, [][]string{{"--detail", "--scan"}, {"--create"}}, f.CallsTo("/usr/sbin/mdadm"))
}

func TestToolchainRooted(t *testing.T) {
	tools := DefaultToolchain().Rooted("/tmp/faketools")
	assert.Equal(t, "/tmp/faketools/mdadm", tools.Mdadm)
	assert.Equal(t, "/tmp/faketools/mkfs.xfs", tools.MkfsXfs)
	assert.Equal(t, "/tmp/faketools/mount", tools.Mount)
}
