// Package atlas mounts the prepared ephemeral volume and bind-mounts
// per-target subdirectories of it onto host directories.
package atlas

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hermes"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

// MountName is the fixed directory name of the canonical mount point.
const MountName = ".ephemeral"

// DefaultMountRoot is the parent of the canonical mount point.
const DefaultMountRoot = "/mnt"

// Mount options for the volume mount: writable, but nothing inside it may
// carry suid/dev/exec semantics, and atime upkeep is skipped.
const volumeMountOpts = "rw,nosuid,nodev,noexec,noatime"

// Binder performs the mount and bind-mount pipeline. Each step re-checks
// live system state so a retried call skips work already done; no state is
// kept between calls.
type Binder struct {
	Runner    hostcmd.Runner
	Tools     hostcmd.Toolchain
	MountRoot string
	Logger    hermes.Logger
}

func NewBinder(runner hostcmd.Runner, tools hostcmd.Toolchain, mountRoot string, logger hermes.Logger) *Binder {
	if mountRoot == "" {
		mountRoot = DefaultMountRoot
	}
	if logger == nil {
		logger = hermes.NewNoopLogger()
	}
	return &Binder{Runner: runner, Tools: tools, MountRoot: mountRoot, Logger: logger}
}

// MountPoint returns the canonical mount point path.
func (b *Binder) MountPoint() string {
	return filepath.Join(b.MountRoot, MountName)
}

// Bind mounts the device at the canonical mount point and binds a
// per-target subdirectory onto each dir, in order. Targets already mounted
// are skipped; a failed bind aborts immediately, leaving earlier targets in
// place (a retry is safe). Freshly bound targets are then marked rshared so
// the mounts propagate into other mount namespaces.
func (b *Binder) Bind(ctx context.Context, device string, dirs []string) error {
	mountPoint := b.MountPoint()
	if err := os.MkdirAll(mountPoint, 0o755); err != nil {
		return &domain.PathError{Op: "create mount point", Path: mountPoint, Err: err}
	}

	b.Logger.Info(ctx, "mounting ephemeral volume", map[string]any{
		"device": device, "mount_point": mountPoint,
	})
	out, err := b.Runner.Run(ctx, b.Tools.Mount, "-o", volumeMountOpts, device, mountPoint)
	if err != nil {
		return err
	}
	if !out.Success() {
		return domain.NewCommandError(b.Tools.Mount, string(out.Stderr), nil)
	}

	bound := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		sub := filepath.Join(mountPoint, SubdirName(dir))

		// The targets may not exist yet this early in boot.
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.PathError{Op: "create bind target", Path: dir, Err: err}
		}
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return &domain.PathError{Op: "create storage subdirectory", Path: sub, Err: err}
		}

		mounted, err := b.isMounted(ctx, dir)
		if err != nil {
			return err
		}
		if mounted {
			b.Logger.Info(ctx, "skipping bind, target already mounted", map[string]any{"dir": dir})
			continue
		}

		b.Logger.Info(ctx, "binding directory", map[string]any{"dir": dir, "source": sub})
		out, err := b.Runner.Run(ctx, b.Tools.Mount, "--rbind", sub, dir)
		if err != nil {
			return err
		}
		if !out.Success() {
			return domain.NewCommandError(b.Tools.Mount+" --rbind "+dir, string(out.Stderr), nil)
		}
		bound = append(bound, dir)
	}

	for _, dir := range bound {
		b.Logger.Info(ctx, "sharing mounts", map[string]any{"dir": dir})
		out, err := b.Runner.Run(ctx, b.Tools.Mount, "--make-rshared", dir)
		if err != nil {
			return err
		}
		if !out.Success() {
			return domain.NewCommandError(b.Tools.Mount+" --make-rshared "+dir, string(out.Stderr), nil)
		}
	}
	return nil
}

// isMounted asks findmnt whether path is currently a mount point. A
// non-zero exit is the normal "not mounted" answer.
func (b *Binder) isMounted(ctx context.Context, path string) (bool, error) {
	out, err := b.Runner.Run(ctx, b.Tools.Findmnt, path)
	if err != nil {
		return false, err
	}
	return out.Success(), nil
}

// SubdirName derives the storage subdirectory for a bind target, e.g.
// /var/lib/kubelet -> ._var_lib_kubelet. Distinct targets never collide:
// the transform replaces every separator and keeps everything else.
func SubdirName(dir string) string {
	return "." + strings.ReplaceAll(dir, "/", "_")
}
