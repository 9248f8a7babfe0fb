package domain

import (
	"encoding/json"
	"fmt"
)

// Filesystem is one of the two supported on-disk formats for ephemeral storage.
type Filesystem string

const (
	FilesystemXfs  Filesystem = "xfs"
	FilesystemExt4 Filesystem = "ext4"

	// DefaultFilesystem is used when an init request does not name one.
	DefaultFilesystem = FilesystemXfs
)

// ParseFilesystem validates a caller-supplied filesystem name.
func ParseFilesystem(s string) (Filesystem, error) {
	switch Filesystem(s) {
	case FilesystemXfs, FilesystemExt4:
		return Filesystem(s), nil
	}
	return "", &InvalidParameterError{
		Parameter: "filesystem",
		Reason:    fmt.Sprintf("unsupported filesystem %q (want xfs or ext4)", s),
	}
}

func (f Filesystem) String() string { return string(f) }

func (f *Filesystem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFilesystem(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// InitRequest asks the manager to prepare and format ephemeral storage.
// A nil Filesystem means the default (xfs); nil Disks means every
// discovered ephemeral disk.
type InitRequest struct {
	Filesystem *Filesystem `json:"filesystem,omitempty"`
	Disks      []string    `json:"disks,omitempty"`
}

// BindRequest asks the manager to expose ephemeral storage under the given
// host directories. Variant selects the allow list; when empty the server's
// configured variant is used.
type BindRequest struct {
	Variant string   `json:"variant,omitempty"`
	Targets []string `json:"targets"`
}

// DiskInfo describes one discovered ephemeral disk.
type DiskInfo struct {
	Path string `json:"path"`
}

// UsageInfo is a point-in-time snapshot of the mounted volume.
type UsageInfo struct {
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// StorageStatus reports the live state of ephemeral storage on the host.
// Every field is re-derived from the system on each call; nothing here is
// remembered between invocations.
type StorageStatus struct {
	Disks        []string   `json:"disks"`
	Device       string     `json:"device,omitempty"`
	ArrayPresent bool       `json:"array_present"`
	Mounted      bool       `json:"mounted"`
	MountPoint   string     `json:"mount_point,omitempty"`
	Usage        *UsageInfo `json:"usage,omitempty"`
}
