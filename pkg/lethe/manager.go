// Package lethe is the ephemeral storage manager: it turns the host's
// instance-store disks into a single labeled filesystem and exposes it to
// allow-listed host directories. Every operation re-derives "already done"
// from live system state, so repeated invocations are safe.
package lethe

import (
	"context"
	"fmt"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hermes"
	"github.com/lethe-storage/lethe/pkg/hydra"
	"github.com/lethe-storage/lethe/pkg/themis"
)

// DiskLister enumerates ephemeral disk candidates.
type DiskLister interface {
	List() ([]string, error)
}

// ArrayAssembler resolves the target block device for a disk set.
type ArrayAssembler interface {
	Resolve(ctx context.Context, disks []string) (string, error)
	Exists(ctx context.Context) (bool, error)
}

// Formatter probes and writes filesystem signatures.
type Formatter interface {
	IsFormatted(ctx context.Context, device string, fs domain.Filesystem) (bool, error)
	Format(ctx context.Context, device string, fs domain.Filesystem) error
}

// DirBinder mounts the volume and bind-mounts target directories into it.
type DirBinder interface {
	Bind(ctx context.Context, device string, dirs []string) error
	MountPoint() string
}

// Manager wires the storage pipeline together. Operations are sequential
// and blocking; callers are expected to serialize concurrent requests.
type Manager struct {
	Disks       DiskLister
	Arrays      ArrayAssembler
	Filesystems Formatter
	Binder      DirBinder
	Logger      hermes.Logger
	Metrics     hermes.Metrics
}

// Initialize prepares ephemeral storage and formats it. Multiple disks are
// striped into one array first; a single disk is used directly. Formatting
// is skipped when the device already carries the requested filesystem.
func (m *Manager) Initialize(ctx context.Context, req domain.InitRequest) error {
	known, err := m.Disks.List()
	if err != nil {
		return err
	}

	disks := req.Disks
	if disks != nil {
		knownSet := make(map[string]struct{}, len(known))
		for _, d := range known {
			knownSet[d] = struct{}{}
		}
		for _, d := range disks {
			if _, ok := knownSet[d]; !ok {
				return domain.NewInvalidParameterError("disks", fmt.Sprintf("unknown disk %q", d))
			}
		}
	} else {
		// With no disks specified and none available, init is a no-op so
		// hosts without instance storage can run the same boot sequence.
		if len(known) == 0 {
			m.Logger.Info(ctx, "no ephemeral disks found, skipping initialization", nil)
			return nil
		}
		disks = known
	}

	if len(disks) == 0 {
		return domain.NewInvalidParameterError("disks", "no local ephemeral disks specified")
	}

	m.Logger.Info(ctx, "initializing ephemeral storage", map[string]any{"disks": disks})
	m.Metrics.IncCounter("lethe_initialize_total", 1)

	device, err := m.Arrays.Resolve(ctx, disks)
	if err != nil {
		m.Metrics.IncCounter("lethe_tool_failures_total", 1, hermes.Label{Key: "step", Value: "assemble"})
		return err
	}

	fs := domain.DefaultFilesystem
	if req.Filesystem != nil {
		fs = *req.Filesystem
	}

	formatted, err := m.Filesystems.IsFormatted(ctx, device, fs)
	if err != nil {
		m.Metrics.IncCounter("lethe_tool_failures_total", 1, hermes.Label{Key: "step", Value: "probe"})
		return err
	}
	if formatted {
		m.Logger.Info(ctx, "device already formatted, skipping format", map[string]any{
			"device": device, "filesystem": fs.String(),
		})
		return nil
	}

	m.Logger.Info(ctx, "formatting device", map[string]any{
		"device": device, "filesystem": fs.String(),
	})
	if err := m.Filesystems.Format(ctx, device, fs); err != nil {
		m.Metrics.IncCounter("lethe_tool_failures_total", 1, hermes.Label{Key: "step", Value: "format"})
		return err
	}
	return nil
}

// Bind exposes the prepared storage to the requested host directories.
// Every target is validated against the variant's allow list before any
// mutation happens.
func (m *Manager) Bind(ctx context.Context, req domain.BindRequest) error {
	known, err := m.Disks.List()
	if err != nil {
		return err
	}
	if len(known) == 0 {
		m.Logger.Info(ctx, "no ephemeral disks found, skipping binding", nil)
		return nil
	}

	device := hydra.ArrayDevice
	if len(known) == 1 {
		device = known[0]
	}

	allowed := themis.AllowedDirs(req.Variant)
	for _, dir := range req.Targets {
		if _, ok := allowed[dir]; !ok {
			return domain.NewInvalidParameterError(dir, "specified bind directory not in allow list")
		}
	}

	m.Metrics.IncCounter("lethe_bind_total", 1)
	if err := m.Binder.Bind(ctx, device, req.Targets); err != nil {
		m.Metrics.IncCounter("lethe_tool_failures_total", 1, hermes.Label{Key: "step", Value: "bind"})
		return err
	}
	return nil
}

// ListDisks projects the currently discovered ephemeral disks.
func (m *Manager) ListDisks(ctx context.Context) ([]domain.DiskInfo, error) {
	disks, err := m.Disks.List()
	if err != nil {
		return nil, err
	}
	infos := make([]domain.DiskInfo, 0, len(disks))
	for _, d := range disks {
		infos = append(infos, domain.DiskInfo{Path: d})
	}
	return infos, nil
}

// ListDirs projects the allow list for the given variant.
func (m *Manager) ListDirs(variant string) []string {
	return themis.SortedDirs(variant)
}
