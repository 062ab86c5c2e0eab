package template

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveWriter(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{SystemID: 0x0009, Capacity: 200}

	require.NoError(t, SaveWriter(&buf, meta, []byte{0x01, 0x02, 0x03, 0x04}))
	require.Equal(t,
		"ZFM1:000900C80004\n"+
			":00000004010203040E\n",
		buf.String())
}

func TestSaveWriterEmptyData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, SaveWriter(&buf, Meta{SystemID: 0x0009, Capacity: 200}, nil))
	require.Equal(t, "ZFM1:000900C80000\n", buf.String())
}

func TestSaveWriterChunking(t *testing.T) {
	data := make([]byte, 70)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, SaveWriter(&buf, Meta{SystemID: 0x0009, Capacity: 200}, data))

	// 70 bytes at 32 per line: header plus three data lines.
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], Magic))
	require.True(t, strings.HasPrefix(lines[3], ":0002"))

	// The last line carries the 6 remaining bytes.
	require.Len(t, lines[3], 1+2*(LineHeaderSize+6+LineChecksumSize))
}

func TestSaveWriterTooLarge(t *testing.T) {
	data := make([]byte, MaxDumpSize+1)

	err := SaveWriter(&bytes.Buffer{}, Meta{}, data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dump too large")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	data := make([]byte, 1536)
	for i := range data {
		data[i] = byte(i * 7)
	}
	meta := Meta{SystemID: 0x0009, Capacity: 1500}
	path := filepath.Join(t.TempDir(), "finger-12.zfm")

	require.NoError(t, Save(path, meta, data))

	dump, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, meta.SystemID, dump.SystemID)
	require.Equal(t, meta.Capacity, dump.Capacity)
	require.Equal(t, data, dump.Data)
}
