package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethe-storage/lethe/pkg/domain"
)

func TestRenderDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []domain.DiskInfo{{Path: "/dev/nvme1n1"}}, ""))
	assert.Contains(t, buf.String(), `"path": "/dev/nvme1n1"`)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, map[string]string{"device": "/dev/md/ephemeral"}, FormatYAML))
	assert.Contains(t, buf.String(), "device: /dev/md/ephemeral")
}

func TestRenderTextDiskList(t *testing.T) {
	var buf bytes.Buffer
	disks := []domain.DiskInfo{{Path: "/dev/nvme1n1"}, {Path: "/dev/nvme2n1"}}
	require.NoError(t, Render(&buf, disks, FormatText))
	assert.Equal(t, []string{"/dev/nvme1n1", "/dev/nvme2n1"},
		strings.Fields(buf.String()))
}

func TestRenderTextStringList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []string{"/var/lib/kubelet"}, FormatText))
	assert.Equal(t, "/var/lib/kubelet\n", buf.String())
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, nil, "xml")
	var invalid *domain.InvalidParameterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "format", invalid.Parameter)
}
