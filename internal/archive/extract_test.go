package archive

import (
	"archive/tar"
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/see/internal/domain"
)

func TestStripFirstComponent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "wrapper directory", input: "repo-main/", want: ""},
		{name: "wrapper without slash", input: "repo-main", want: ""},
		{name: "global header", input: "pax_global_header", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "top level file", input: "repo-main/README.md", want: "README.md"},
		{name: "nested file", input: "repo-main/src/lib.txt", want: "src/lib.txt"},
		{name: "nested directory", input: "repo-main/src/", want: "src"},
		{name: "dot segments collapse", input: "repo-main/./a/../b.txt", want: "b.txt"},
		{name: "name with dot com", input: "site.com-abc/index.html", want: "index.html"},
		{name: "absolute", input: "/etc/passwd", wantErr: true},
		{name: "escapes after clean", input: "repo/../../evil", wantErr: true},
		{name: "parent first", input: "../evil/file", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripFirstComponent(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsafePath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_StripsWrapper(t *testing.T) {
	dest := t.TempDir()
	obs := &recordingObserver{}

	result, err := Extract(bytes.NewReader(standardArchive(t)), dest, ExtractOptions{Observer: obs})
	require.NoError(t, err)

	assert.Equal(t, dest, result.Dest)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, []string{"README.md", "src", "src/lib.txt", "bin/run.sh"}, result.Files)
	assert.Equal(t, result.Files, obs.entries)
	assert.Equal(t, 1, obs.done)

	content, err := os.ReadFile(filepath.Join(dest, "src", "lib.txt"))
	require.NoError(t, err)
	assert.Equal(t, "library", string(content))

	_, err = os.Stat(filepath.Join(dest, "repo-main"))
	assert.True(t, os.IsNotExist(err), "wrapper directory must not be created")
	_, err = os.Stat(filepath.Join(dest, "pax_global_header"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtract_KeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on windows")
	}
	dest := t.TempDir()

	_, err := Extract(bytes.NewReader(standardArchive(t)), dest, ExtractOptions{})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dest, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestExtract_LeavesUnrelatedFiles(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.txt"), []byte("mine"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("old"), 0644))

	_, err := Extract(bytes.NewReader(standardArchive(t)), dest, ExtractOptions{})
	require.NoError(t, err)

	kept, err := os.ReadFile(filepath.Join(dest, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(kept))

	replaced, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Template\n", string(replaced))
}

func TestExtract_CreatesMissingDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b")

	result, err := Extract(bytes.NewReader(standardArchive(t)), dest, ExtractOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Files, 4)
	assert.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestExtract_SkipsUnsafeEntries(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dest")
	data := createTestTarGz(t, []testEntry{
		{Name: "repo/ok.txt", Content: "ok"},
		{Name: "/abs/file.txt", Content: "abs"},
		{Name: "repo/../../escape.txt", Content: "escape"},
		{Name: "repo/link-out", Type: tar.TypeSymlink, Linkname: "../../outside"},
		{Name: "repo/link-in", Type: tar.TypeSymlink, Linkname: "ok.txt"},
		{Name: "repo/device", Type: tar.TypeFifo},
	})

	result, err := Extract(bytes.NewReader(data), dest, ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, []string{"ok.txt", "link-in"}, result.Files)

	target, err := os.Readlink(filepath.Join(dest, "link-in"))
	require.NoError(t, err)
	assert.Equal(t, "ok.txt", target)

	_, err = os.Lstat(filepath.Join(dest, "link-out"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtract_SkipsSymlinkChainEscape(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dest")
	outside := filepath.Dir(dest)
	data := createTestTarGz(t, []testEntry{
		{Name: "repo-main/x", Type: tar.TypeSymlink, Linkname: "."},
		{Name: "repo-main/x/y", Type: tar.TypeSymlink, Linkname: ".."},
		{Name: "repo-main/y/evil.txt", Content: "pwned"},
	})

	result, err := Extract(bytes.NewReader(data), dest, ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"x", "y/evil.txt"}, result.Files)

	_, err = os.Lstat(filepath.Join(dest, "y", "evil.txt"))
	require.NoError(t, err)
	info, err := os.Lstat(filepath.Join(dest, "y"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "y must be a real directory, not a link")

	_, err = os.Stat(filepath.Join(outside, "evil.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtract_SkipsEntriesThroughEscapingLinks(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dest")
	outside := filepath.Dir(dest)
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0644))

	// a resolves to the parent of dest only once sub exists
	data := createTestTarGz(t, []testEntry{
		{Name: "repo/a", Type: tar.TypeSymlink, Linkname: "sub/.."},
		{Name: "repo/sub", Type: tar.TypeSymlink, Linkname: "."},
		{Name: "repo/stolen", Type: tar.TypeLink, Linkname: "repo/a/secret.txt"},
		{Name: "repo/a/evil.txt", Content: "pwned"},
		{Name: "repo/a/nested/", Type: tar.TypeDir},
		{Name: "repo/ok.txt", Content: "ok"},
	})

	result, err := Extract(bytes.NewReader(data), dest, ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, []string{"a", "sub", "ok.txt"}, result.Files)

	_, err = os.Lstat(filepath.Join(dest, "stolen"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outside, "evil.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outside, "nested"))
	assert.True(t, os.IsNotExist(err))

	content, err := os.ReadFile(secret)
	require.NoError(t, err)
	assert.Equal(t, "secret", string(content))
}

func TestExtract_HardLink(t *testing.T) {
	dest := t.TempDir()
	data := createTestTarGz(t, []testEntry{
		{Name: "repo/a.txt", Content: "shared"},
		{Name: "repo/b.txt", Type: tar.TypeLink, Linkname: "repo/a.txt"},
	})

	result, err := Extract(bytes.NewReader(data), dest, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, result.Files)

	content, err := os.ReadFile(filepath.Join(dest, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "shared", string(content))
}

func TestExtract_WriteFailureIsCounted(t *testing.T) {
	dest := t.TempDir()
	conflict := filepath.Join(dest, "conflict")
	require.NoError(t, os.MkdirAll(conflict, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(conflict, "inner"), []byte("x"), 0644))

	data := createTestTarGz(t, []testEntry{
		{Name: "repo/conflict", Content: "file where a directory is"},
		{Name: "repo/after.txt", Content: "still written"},
	})

	result, err := Extract(bytes.NewReader(data), dest, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"after.txt"}, result.Files)
	assert.FileExists(t, filepath.Join(dest, "after.txt"))
}

func TestExtract_InvalidGzip(t *testing.T) {
	obs := &recordingObserver{}

	result, err := Extract(bytes.NewReader([]byte("definitely not gzip")), t.TempDir(), ExtractOptions{Observer: obs})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 0, obs.done)
}

func TestExtract_TruncatedStream(t *testing.T) {
	payload := make([]byte, 256<<10)
	rand.New(rand.NewSource(1)).Read(payload)

	data := createTestTarGz(t, []testEntry{
		{Name: "repo/first.txt", Content: "before the cut"},
		{Name: "repo/big.bin", Content: string(payload)},
	})
	dest := t.TempDir()
	obs := &recordingObserver{}

	result, err := Extract(bytes.NewReader(data[:len(data)/2]), dest, ExtractOptions{Observer: obs})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 0, obs.done)

	// partial output stays on disk
	assert.FileExists(t, filepath.Join(dest, "first.txt"))
}

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(8)

	n, err := b.Write([]byte("1234"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, b.Overflowed())
	assert.Equal(t, 4, b.Len())

	n, err = b.Write([]byte("56789"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, b.Overflowed())
	assert.Equal(t, 0, b.Len())

	_, _ = b.Write([]byte("x"))
	assert.True(t, b.Overflowed())
	assert.Empty(t, b.Bytes())
}
