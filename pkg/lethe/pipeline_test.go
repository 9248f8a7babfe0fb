package lethe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethe-storage/lethe/pkg/argus"
	"github.com/lethe-storage/lethe/pkg/atlas"
	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hephaestus"
	"github.com/lethe-storage/lethe/pkg/hermes"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
	"github.com/lethe-storage/lethe/pkg/hydra"
)

// pipeline wires real components over a scripted runner, the way the
// daemon does, with discovery and the mount root pointed at temp dirs.
func pipeline(t *testing.T, diskNames ...string) (*Manager, *hostcmd.FakeRunner, hostcmd.Toolchain) {
	t.Helper()

	diskDir := filepath.Join(t.TempDir(), "ephemeral")
	if len(diskNames) > 0 {
		require.NoError(t, os.MkdirAll(diskDir, 0o755))
		for _, name := range diskNames {
			require.NoError(t, os.WriteFile(filepath.Join(diskDir, name), nil, 0o600))
		}
	}

	runner := hostcmd.NewFakeRunner()
	tools := hostcmd.DefaultToolchain()
	logger := hermes.NewNoopLogger()

	m := &Manager{
		Disks:       argus.NewDiscoverer(diskDir),
		Arrays:      hydra.NewAssembler(runner, tools),
		Filesystems: hephaestus.NewFormatter(runner, tools),
		Binder:      atlas.NewBinder(runner, tools, t.TempDir(), logger),
		Logger:      logger,
		Metrics:     hermes.NewNoopMetrics(),
	}
	return m, runner, tools
}

func TestPipelineSingleDiskInit(t *testing.T) {
	m, runner, tools := pipeline(t, "a")
	runner.Script(tools.Blkid, hostcmd.Output{ExitCode: 2}, nil) // unformatted

	fs := domain.FilesystemXfs
	require.NoError(t, m.Initialize(context.Background(), domain.InitRequest{Filesystem: &fs}))

	// No array work for a single disk; one probe, one format.
	assert.Empty(t, runner.CallsTo(tools.Mdadm))
	assert.Len(t, runner.CallsTo(tools.Blkid), 1)

	xfsCalls := runner.CallsTo(tools.MkfsXfs)
	require.Len(t, xfsCalls, 1)
	assert.Equal(t, "-L", xfsCalls[0][1])
}

func TestPipelineTwoDiskInitCreatesArray(t *testing.T) {
	m, runner, tools := pipeline(t, "a", "b")
	runner.Script(tools.Mdadm, hostcmd.Output{}, nil)            // empty scan
	runner.Script(tools.Mdadm, hostcmd.Output{}, nil)            // create
	runner.Script(tools.Blkid, hostcmd.Output{ExitCode: 2}, nil) // unformatted

	require.NoError(t, m.Initialize(context.Background(), domain.InitRequest{}))

	mdadmCalls := runner.CallsTo(tools.Mdadm)
	require.Len(t, mdadmCalls, 2)
	assert.Contains(t, mdadmCalls[1], "--chunk=256")
	assert.Contains(t, mdadmCalls[1], "--raid-devices")

	// Probe and format both run against the array device.
	blkidCalls := runner.CallsTo(tools.Blkid)
	require.Len(t, blkidCalls, 1)
	assert.Equal(t, hydra.ArrayDevice, blkidCalls[0][2])

	xfsCalls := runner.CallsTo(tools.MkfsXfs)
	require.Len(t, xfsCalls, 1)
	assert.Equal(t, hydra.ArrayDevice, xfsCalls[0][0])
}

func TestPipelineSecondInitIsIdempotent(t *testing.T) {
	m, runner, tools := pipeline(t, "a", "b")
	runner.Script(tools.Mdadm, hostcmd.Output{}, nil)
	runner.Script(tools.Mdadm, hostcmd.Output{}, nil)
	runner.Script(tools.Blkid, hostcmd.Output{ExitCode: 2}, nil)
	require.NoError(t, m.Initialize(context.Background(), domain.InitRequest{}))

	// Second run: the scan finds the array, the probe finds the signature.
	runner.Script(tools.Mdadm, hostcmd.Output{Stdout: []byte("ARRAY /dev/md/ephemeral\n")}, nil)
	runner.Script(tools.Blkid, hostcmd.Output{Stdout: []byte("TYPE=\"xfs\"\n")}, nil)
	require.NoError(t, m.Initialize(context.Background(), domain.InitRequest{}))

	// Zero create/format calls on the second pass.
	assert.Len(t, runner.CallsTo(tools.Mdadm), 3) // scan, create, scan
	assert.Len(t, runner.CallsTo(tools.MkfsXfs), 1)
}

func TestPipelineBindWithoutDisksIsNoOp(t *testing.T) {
	m, runner, _ := pipeline(t)

	require.NoError(t, m.Bind(context.Background(), domain.BindRequest{
		Variant: "aws-k8s-1.30",
		Targets: []string{"/var/lib/kubelet"},
	}))
	assert.Empty(t, runner.Calls())
}

func TestPipelineStatusWithoutDisks(t *testing.T) {
	m, _, _ := pipeline(t)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status.Disks)
	assert.False(t, status.ArrayPresent)
	assert.False(t, status.Mounted)
	assert.NotEmpty(t, status.MountPoint)
}

func TestPipelineStatusReportsArray(t *testing.T) {
	m, runner, tools := pipeline(t, "a", "b")
	runner.Script(tools.Mdadm, hostcmd.Output{Stdout: []byte("ARRAY /dev/md/ephemeral\n")}, nil)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Len(t, status.Disks, 2)
	assert.Equal(t, hydra.ArrayDevice, status.Device)
	assert.True(t, status.ArrayPresent)
}
