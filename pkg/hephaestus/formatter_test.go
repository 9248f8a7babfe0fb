package hephaestus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

func newTestFormatter() (*Formatter, *hostcmd.FakeRunner) {
	runner := hostcmd.NewFakeRunner()
	return NewFormatter(runner, hostcmd.DefaultToolchain()), runner
}

func TestIsFormattedMatchesSignature(t *testing.T) {
	f, runner := newTestFormatter()
	runner.Script(f.Tools.Blkid, hostcmd.Output{Stdout: []byte("/dev/md/ephemeral: TYPE=\"xfs\"\n")}, nil)

	formatted, err := f.IsFormatted(context.Background(), "/dev/md/ephemeral", domain.FilesystemXfs)
	require.NoError(t, err)
	assert.True(t, formatted)

	calls := runner.CallsTo(f.Tools.Blkid)
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"--match-token", "TYPE=xfs", "/dev/md/ephemeral"}, calls[0])
}

func TestIsFormattedSignatureAbsentIsFalseNotError(t *testing.T) {
	f, runner := newTestFormatter()
	runner.Script(f.Tools.Blkid, hostcmd.Output{ExitCode: 2}, nil)

	formatted, err := f.IsFormatted(context.Background(), "/dev/nvme1n1", domain.FilesystemExt4)
	require.NoError(t, err)
	assert.False(t, formatted)
}

func TestFormatPicksToolPerFilesystem(t *testing.T) {
	f, runner := newTestFormatter()

	require.NoError(t, f.Format(context.Background(), "/dev/nvme1n1", domain.FilesystemXfs))
	require.NoError(t, f.Format(context.Background(), "/dev/nvme1n1", domain.FilesystemExt4))

	xfsCalls := runner.CallsTo(f.Tools.MkfsXfs)
	require.Len(t, xfsCalls, 1)
	assert.Equal(t, []string{"/dev/nvme1n1", "-L", VolumeLabel}, xfsCalls[0])

	ext4Calls := runner.CallsTo(f.Tools.MkfsExt4)
	require.Len(t, ext4Calls, 1)
	assert.Equal(t, []string{"/dev/nvme1n1", "-L", VolumeLabel}, ext4Calls[0])
}

func TestFormatFailureCarriesStderr(t *testing.T) {
	f, runner := newTestFormatter()
	runner.Script(f.Tools.MkfsXfs, hostcmd.Output{ExitCode: 1, Stderr: []byte("mkfs.xfs: cannot open /dev/nvme1n1")}, nil)

	err := f.Format(context.Background(), "/dev/nvme1n1", domain.FilesystemXfs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot open")
}
