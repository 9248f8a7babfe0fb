// Package hephaestus probes and formats block devices for ephemeral storage.
package hephaestus

import (
	"context"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

// VolumeLabel is applied to every formatted volume. Short enough to fit
// both the xfs (12 char) and ext4 (16 char) label limits.
const VolumeLabel = "ephemeral"

// Formatter shells out to blkid and the per-filesystem mkfs tools.
type Formatter struct {
	Runner hostcmd.Runner
	Tools  hostcmd.Toolchain
}

func NewFormatter(runner hostcmd.Runner, tools hostcmd.Toolchain) *Formatter {
	return &Formatter{Runner: runner, Tools: tools}
}

// IsFormatted probes the device for an existing signature of the given
// filesystem. A probe that runs but finds no matching signature is a normal
// false; only a probe that cannot be spawned is an error.
func (f *Formatter) IsFormatted(ctx context.Context, device string, fs domain.Filesystem) (bool, error) {
	out, err := f.Runner.Run(ctx, f.Tools.Blkid, "--match-token", "TYPE="+fs.String(), device)
	if err != nil {
		return false, err
	}
	return out.Success(), nil
}

// Format writes a fresh filesystem onto the device. Destructive and not
// re-entrant safe: callers must gate on IsFormatted first.
func (f *Formatter) Format(ctx context.Context, device string, fs domain.Filesystem) error {
	var tool string
	switch fs {
	case domain.FilesystemExt4:
		tool = f.Tools.MkfsExt4
	default:
		tool = f.Tools.MkfsXfs
	}

	out, err := f.Runner.Run(ctx, tool, device, "-L", VolumeLabel)
	if err != nil {
		return err
	}
	if !out.Success() {
		return domain.NewCommandError(tool, string(out.Stderr), nil)
	}
	return nil
}
