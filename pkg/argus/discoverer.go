// Package argus finds and identifies the host's ephemeral (instance-store)
// block devices.
package argus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lethe-storage/lethe/pkg/domain"
)

// DefaultDiskDir is where udev publishes symlinks to ephemeral disks.
const DefaultDiskDir = "/dev/disk/ephemeral"

// Discoverer enumerates ephemeral disk candidates. Discovery is re-run on
// every call; nothing is cached.
type Discoverer struct {
	DiskDir string
}

func NewDiscoverer(diskDir string) *Discoverer {
	if diskDir == "" {
		diskDir = DefaultDiskDir
	}
	return &Discoverer{DiskDir: diskDir}
}

// List returns the full paths of the discovered ephemeral disks. A missing
// discovery directory is the normal state on hosts without instance storage
// and yields an empty list, not an error.
func (d *Discoverer) List() ([]string, error) {
	entries, err := os.ReadDir(d.DiskDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.PathError{Op: "read ephemeral disk directory", Path: d.DiskDir, Err: err}
	}

	disks := make([]string, 0, len(entries))
	for _, entry := range entries {
		disks = append(disks, filepath.Join(d.DiskDir, entry.Name()))
	}
	return disks, nil
}
