package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, name, contents string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	entries := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		contents, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(contents)
	}
	return entries
}

func TestWriter_RoundTrip(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	require.NoError(t, w.AddFile("perf.data", tempFile(t, "perf.data", "abc")))
	require.NoError(t, w.AddFile("perf2.data", tempFile(t, "perf2.data", "second file")))
	require.NoError(t, w.Close())

	entries := readArchive(t, out.Bytes())
	assert.Equal(t, map[string]string{
		"perf.data":  "abc",
		"perf2.data": "second file",
	}, entries)
}

func TestWriter_LargeFileCrossesBufferBoundary(t *testing.T) {
	contents := strings.Repeat("simpleperf sample record ", 10000) // ~250 KiB
	var out bytes.Buffer
	w := NewWriter(&out)

	require.NoError(t, w.AddFile("perf.data", tempFile(t, "perf.data", contents)))
	require.NoError(t, w.Close())

	entries := readArchive(t, out.Bytes())
	assert.Equal(t, contents, entries["perf.data"])
	assert.Less(t, out.Len(), len(contents), "repetitive data should compress")
}

func TestWriter_EmptyFile(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	require.NoError(t, w.AddFile("empty", tempFile(t, "empty", "")))
	require.NoError(t, w.Close())

	entries := readArchive(t, out.Bytes())
	assert.Equal(t, map[string]string{"empty": ""}, entries)
}

func TestWriter_EmptyArchive(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, w.Close())

	entries := readArchive(t, out.Bytes())
	assert.Empty(t, entries)
}
