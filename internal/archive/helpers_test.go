package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	Name     string
	Content  string
	Mode     int64
	Type     byte
	Linkname string
}

// createTestTarGz builds an in-memory archive the way providers lay it out
func createTestTarGz(t *testing.T, entries []testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	for _, e := range entries {
		typ := e.Type
		if typ == 0 {
			typ = tar.TypeReg
		}
		mode := e.Mode
		if mode == 0 {
			mode = 0644
			if typ == tar.TypeDir {
				mode = 0755
			}
		}

		header := &tar.Header{
			Name:     e.Name,
			Mode:     mode,
			Typeflag: typ,
			Linkname: e.Linkname,
		}
		if typ == tar.TypeReg {
			header.Size = int64(len(e.Content))
		}

		require.NoError(t, tw.WriteHeader(header))
		if typ == tar.TypeReg {
			_, err := tw.Write([]byte(e.Content))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())

	return buf.Bytes()
}

// standardArchive mimics a GitHub tarball with a wrapper directory
func standardArchive(t *testing.T) []byte {
	return createTestTarGz(t, []testEntry{
		{Name: "pax_global_header", Type: tar.TypeXGlobalHeader},
		{Name: "repo-main/", Type: tar.TypeDir},
		{Name: "repo-main/README.md", Content: "# Template\n"},
		{Name: "repo-main/src/", Type: tar.TypeDir},
		{Name: "repo-main/src/lib.txt", Content: "library"},
		{Name: "repo-main/bin/run.sh", Content: "#!/bin/sh\n", Mode: 0755},
	})
}

// recordingObserver captures progress callbacks
type recordingObserver struct {
	mu      sync.Mutex
	total   int64
	wrapped bool
	entries []string
	done    int
}

func (o *recordingObserver) Wrap(r io.Reader, total int64) io.Reader {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total = total
	o.wrapped = true
	return r
}

func (o *recordingObserver) Entry(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, path)
}

func (o *recordingObserver) Done() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done++
}
