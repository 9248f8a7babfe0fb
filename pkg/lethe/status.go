package lethe

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hydra"
)

// Status reports the live state of ephemeral storage: discovered disks, the
// effective device, array presence, and whether (and how full) the canonical
// mount point is mounted.
func (m *Manager) Status(ctx context.Context) (domain.StorageStatus, error) {
	status := domain.StorageStatus{MountPoint: m.Binder.MountPoint()}

	disks, err := m.Disks.List()
	if err != nil {
		return status, err
	}
	status.Disks = disks

	switch len(disks) {
	case 0:
		return status, nil
	case 1:
		status.Device = disks[0]
	default:
		status.Device = hydra.ArrayDevice
		exists, err := m.Arrays.Exists(ctx)
		if err != nil {
			return status, err
		}
		status.ArrayPresent = exists
	}

	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		// Status stays best-effort: report what discovery gave us.
		m.Logger.Error(ctx, "failed to read mount table", map[string]any{"error": err.Error()})
		return status, nil
	}
	for _, p := range parts {
		if p.Mountpoint != status.MountPoint {
			continue
		}
		status.Mounted = true
		if usage, err := disk.UsageWithContext(ctx, status.MountPoint); err == nil {
			status.Usage = &domain.UsageInfo{
				TotalBytes:  usage.Total,
				FreeBytes:   usage.Free,
				UsedPercent: usage.UsedPercent,
			}
		}
		break
	}
	return status, nil
}
