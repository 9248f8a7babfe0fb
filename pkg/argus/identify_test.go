package argus

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

// gptImage builds a minimal primary GPT with a single used partition.
func gptImage(t *testing.T, typeGUID [16]byte, name string) []byte {
	t.Helper()
	img := make([]byte, 512*8)

	header := img[512 : 512+gptHeaderLen]
	copy(header[0:8], gptSignature)
	binary.LittleEndian.PutUint64(header[72:80], 2)   // entries at LBA 2
	binary.LittleEndian.PutUint32(header[80:84], 1)   // one entry
	binary.LittleEndian.PutUint32(header[84:88], 128) // standard entry size

	entry := img[1024 : 1024+128]
	copy(entry[0:16], typeGUID[:])
	for i, r := range name {
		binary.LittleEndian.PutUint16(entry[56+i*2:], uint16(r))
	}
	return img
}

func TestDeviceTypeEmptyDisk(t *testing.T) {
	data := make([]byte, 512*8)
	got, err := DeviceType(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DeviceTypeEphemeral, got)
}

func TestDeviceTypeUnknownPartitionType(t *testing.T) {
	img := gptImage(t, guidBytes("11111111-1111-1111-1111-111111111111"), "")
	got, err := DeviceType(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, DeviceTypeEphemeral, got)
}

func TestDeviceTypeSystemPartitionType(t *testing.T) {
	img := gptImage(t, guidBytes("c12a7328-f81f-11d2-ba4b-00a0c93ec93b"), "")
	got, err := DeviceType(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, DeviceTypeSystem, got)
}

func TestDeviceTypeSystemPartitionName(t *testing.T) {
	img := gptImage(t, guidBytes("11111111-1111-1111-1111-111111111111"), "LETHE-DATA")
	got, err := DeviceType(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, DeviceTypeSystem, got)
}

func identifyPage(name string) []byte {
	page := make([]byte, nvmeIdentifyLen)
	vendor := page[nvmeIdentifyLen-nvmeVendorLen:]
	copy(vendor, name)
	for i := len(name); i < nvmeNameLen; i++ {
		vendor[i] = ' '
	}
	return page
}

func TestParseDeviceName(t *testing.T) {
	for _, name := range []string{"xvdcz", "/dev/xvdcz"} {
		got, err := parseDeviceName(identifyPage(name), "/dev/nvme1n1")
		require.NoError(t, err)
		assert.Equal(t, "xvdcz", got)
	}
}

func TestParseDeviceNameShortData(t *testing.T) {
	_, err := parseDeviceName(make([]byte, 100), "/dev/nvme1n1")
	assert.Error(t, err)
}

func TestDeviceName(t *testing.T) {
	runner := hostcmd.NewFakeRunner()
	tools := hostcmd.DefaultToolchain()
	runner.Script(tools.Nvme, hostcmd.Output{Stdout: identifyPage("xvdcz")}, nil)

	got, err := DeviceName(context.Background(), runner, tools, "/dev/nvme1n1")
	require.NoError(t, err)
	assert.Equal(t, "xvdcz", got)

	calls := runner.CallsTo(tools.Nvme)
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"id-ctrl", "/dev/nvme1n1", "-b"}, calls[0])
}
