package hostcmd

import "path/filepath"

// Toolchain holds the paths of the external executables the manager shells
// out to. Paths are protocol constants on a real host; tests point the whole
// table at a fake root instead of stubbing call sites one by one.
type Toolchain struct {
	Mount    string
	Mdadm    string
	Blkid    string
	MkfsXfs  string
	MkfsExt4 string
	Findmnt  string
	Nvme     string
}

// DefaultToolchain returns the fixed host paths.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Mount:    "/usr/bin/mount",
		Mdadm:    "/usr/sbin/mdadm",
		Blkid:    "/usr/sbin/blkid",
		MkfsXfs:  "/usr/sbin/mkfs.xfs",
		MkfsExt4: "/usr/sbin/mkfs.ext4",
		Findmnt:  "/usr/bin/findmnt",
		Nvme:     "/sbin/nvme",
	}
}

// Rooted returns a copy of the toolchain with every path re-rooted under
// dir, for tests that exercise the real ExecRunner against fake scripts.
func (t Toolchain) Rooted(dir string) Toolchain {
	re := func(p string) string { return filepath.Join(dir, filepath.Base(p)) }
	return Toolchain{
		Mount:    re(t.Mount),
		Mdadm:    re(t.Mdadm),
		Blkid:    re(t.Blkid),
		MkfsXfs:  re(t.MkfsXfs),
		MkfsExt4: re(t.MkfsExt4),
		Findmnt:  re(t.Findmnt),
		Nvme:     re(t.Nvme),
	}
}
