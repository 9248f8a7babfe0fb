package argus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

// Device classifications emitted for udev.
const (
	DeviceTypeEphemeral = "ephemeral"
	DeviceTypeSystem    = "system"
)

const (
	gptSignature    = "EFI PART"
	gptHeaderLen    = 92
	systemNameMark  = "LETHE"
	nvmeIdentifyLen = 4096
	nvmeVendorLen   = 1024
	nvmeNameLen     = 32
)

// Partition type GUIDs that mark a disk as a system disk rather than an
// unformatted ephemeral one: the EFI system partition plus the OS image
// partitions (boot, root, verity hash, private data).
var systemPartitionTypes = [][16]byte{
	guidBytes("c12a7328-f81f-11d2-ba4b-00a0c93ec93b"), // EFI system
	guidBytes("a0e5fd46-1b67-4a5e-8f2b-247b38bb25a1"), // boot
	guidBytes("5a1c7e2b-9f34-4d7b-a3c1-8be2fd90c144"), // root
	guidBytes("7d94f3ce-52a0-40c8-b1aa-66fd173ab2d6"), // hash
	guidBytes("e6f2c88a-3d19-4b37-9c5e-01e84a2b7f90"), // private
}

// DeviceType classifies a raw block device by examining its partition table.
// Disks with no readable GPT are assumed to be unformatted ephemeral disks;
// a GPT carrying a known system partition type, or a partition named with
// the OS prefix, marks the disk as a system disk.
func DeviceType(r io.ReadSeeker) (string, error) {
	parts, err := readGPT(r)
	if err != nil {
		// Not an error for classification purposes: udev only hands us
		// whole block disks, so no GPT means an unformatted disk.
		return DeviceTypeEphemeral, nil
	}
	for _, p := range parts {
		if !p.used() {
			continue
		}
		if strings.HasPrefix(p.name, systemNameMark) {
			return DeviceTypeSystem, nil
		}
		for _, t := range systemPartitionTypes {
			if p.typeGUID == t {
				return DeviceTypeSystem, nil
			}
		}
	}
	return DeviceTypeEphemeral, nil
}

// DeviceName asks the NVMe controller for the cloud-assigned device name,
// stored in the first 32 bytes of the vendor-specific section of the
// identify page.
func DeviceName(ctx context.Context, runner hostcmd.Runner, tools hostcmd.Toolchain, devPath string) (string, error) {
	out, err := runner.Run(ctx, tools.Nvme, "id-ctrl", devPath, "-b")
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", domain.NewCommandError(tools.Nvme, string(out.Stderr), nil)
	}
	return parseDeviceName(out.Stdout, devPath)
}

func parseDeviceName(identify []byte, devPath string) (string, error) {
	if len(identify) != nvmeIdentifyLen {
		return "", domain.NewInvalidParameterError("device",
			fmt.Sprintf("invalid NVMe identify data for %s", devPath))
	}
	vendor := identify[nvmeIdentifyLen-nvmeVendorLen:]
	name := strings.TrimRight(string(vendor[:nvmeNameLen]), " \x00")
	// Some controllers return the name with the /dev prefix already applied.
	return strings.TrimPrefix(name, "/dev/"), nil
}

type gptPartition struct {
	typeGUID [16]byte
	name     string
}

func (p gptPartition) used() bool {
	return p.typeGUID != [16]byte{}
}

// readGPT parses the primary GPT header and its partition entries. Both
// common logical sector sizes are tried, as the header lives at LBA 1.
func readGPT(r io.ReadSeeker) ([]gptPartition, error) {
	for _, sectorSize := range []int64{512, 4096} {
		parts, err := readGPTAt(r, sectorSize)
		if err == nil {
			return parts, nil
		}
	}
	return nil, fmt.Errorf("no GPT found")
}

func readGPTAt(r io.ReadSeeker, sectorSize int64) ([]gptPartition, error) {
	header := make([]byte, gptHeaderLen)
	if _, err := r.Seek(sectorSize, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if string(header[0:8]) != gptSignature {
		return nil, fmt.Errorf("bad GPT signature")
	}

	entriesLBA := binary.LittleEndian.Uint64(header[72:80])
	numEntries := binary.LittleEndian.Uint32(header[80:84])
	entrySize := binary.LittleEndian.Uint32(header[84:88])
	if entrySize < 128 || numEntries > 512 {
		return nil, fmt.Errorf("implausible GPT entry layout")
	}

	if _, err := r.Seek(int64(entriesLBA)*sectorSize, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, int(numEntries)*int(entrySize))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	parts := make([]gptPartition, 0, numEntries)
	for i := 0; i < int(numEntries); i++ {
		entry := buf[i*int(entrySize) : (i+1)*int(entrySize)]
		var p gptPartition
		copy(p.typeGUID[:], entry[0:16])
		p.name = decodeUTF16(entry[56:128])
		parts = append(parts, p)
	}
	return parts, nil
}

func decodeUTF16(b []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(b); i += 2 {
		c := binary.LittleEndian.Uint16(b[i : i+2])
		if c == 0 {
			break
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// guidBytes converts a textual UUID into its on-disk GPT representation,
// where the first three groups are stored little-endian.
func guidBytes(s string) [16]byte {
	raw := uuid.MustParse(s)
	var g [16]byte
	g[0], g[1], g[2], g[3] = raw[3], raw[2], raw[1], raw[0]
	g[4], g[5] = raw[5], raw[4]
	g[6], g[7] = raw[7], raw[6]
	copy(g[8:], raw[8:])
	return g
}
