// Package hydra assembles multiple ephemeral disks into a single striped
// md array.
package hydra

import (
	"bytes"
	"context"
	"strconv"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

const (
	// ArrayName doubles as the md array name and the mdadm --name value.
	ArrayName = "ephemeral"
	// DeviceDir is where the md driver publishes named arrays.
	DeviceDir = "/dev/md/"
	// ArrayDevice is the well-known path of the assembled array.
	ArrayDevice = DeviceDir + ArrayName

	// chunkKiB limits the stripe chunk below mdadm's 512K default. mkfs.xfs
	// matches its log stripe to the chunk size but caps at 256K; a larger
	// chunk would push xfs down to a 32K log stripe instead.
	chunkKiB = 256
)

// Assembler creates or reuses the striped array over the given disks.
type Assembler struct {
	Runner hostcmd.Runner
	Tools  hostcmd.Toolchain
}

func NewAssembler(runner hostcmd.Runner, tools hostcmd.Toolchain) *Assembler {
	return &Assembler{Runner: runner, Tools: tools}
}

// Resolve returns the block device to format and mount for the given disk
// set. A single disk is used directly. For two or more disks an existing
// array is detected via scan and reused; otherwise a new RAID-0 array is
// created from exactly the given disks.
func (a *Assembler) Resolve(ctx context.Context, disks []string) (string, error) {
	if len(disks) == 1 {
		return disks[0], nil
	}

	scan, err := a.scan(ctx)
	if err != nil {
		return "", err
	}
	if len(scan) == 0 {
		if err := a.create(ctx, disks); err != nil {
			return "", err
		}
	}
	// Once built, the array is available under /dev/md/.
	return ArrayDevice, nil
}

// Exists reports whether an array is already assembled, per mdadm's scan.
func (a *Assembler) Exists(ctx context.Context) (bool, error) {
	scan, err := a.scan(ctx)
	if err != nil {
		return false, err
	}
	return len(scan) > 0, nil
}

// scan reports existing arrays; empty output means none are assembled.
func (a *Assembler) scan(ctx context.Context) ([]byte, error) {
	out, err := a.Runner.Run(ctx, a.Tools.Mdadm, "--detail", "--scan")
	if err != nil {
		return nil, err
	}
	if !out.Success() {
		return nil, domain.NewCommandError(a.Tools.Mdadm, string(out.Stderr), nil)
	}
	return bytes.TrimSpace(out.Stdout), nil
}

func (a *Assembler) create(ctx context.Context, disks []string) error {
	args := []string{
		"--create",
		"--force",
		"--verbose",
		"--homehost=any",
		ArrayDevice,
		"--level=0",
		"--chunk=" + strconv.Itoa(chunkKiB),
		"--name", ArrayName,
		"--raid-devices", strconv.Itoa(len(disks)),
	}
	args = append(args, disks...)

	out, err := a.Runner.Run(ctx, a.Tools.Mdadm, args...)
	if err != nil {
		return err
	}
	if !out.Success() {
		return domain.NewCommandError(a.Tools.Mdadm, string(out.Stderr), nil)
	}
	return nil
}
