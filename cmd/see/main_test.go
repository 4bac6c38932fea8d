package main

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/see/internal/app"
	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/store"
	"github.com/quantmind-br/see/internal/tui"
)

// isolate points every default location into a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("SEE_TOKEN", "")
	t.Chdir(root)
	return root
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func testArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "cat-HEAD/", Typeflag: tar.TypeDir, Mode: 0755}))
	body := "hello\n"
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "cat-HEAD/hello.txt", Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(body))}))
	_, err := tw.Write([]byte(body))
	require.NoError(t, err)

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	return buf.Bytes()
}

type redirectTransport struct {
	target *url.URL
	paths  []string
}

func (rt *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.paths = append(rt.paths, req.URL.Path)
	clone := req.Clone(req.Context())
	clone.URL.Scheme = rt.target.Scheme
	clone.URL.Host = rt.target.Host
	clone.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(clone)
}

// serveArchives routes runner downloads to a local server
func serveArchives(t *testing.T, status int) *redirectTransport {
	t.Helper()
	data := testArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)
	rt := &redirectTransport{target: target}

	orig := newRunner
	newRunner = func(opts app.Options) (*app.Runner, error) {
		opts.HTTPClient = &http.Client{Transport: rt}
		return orig(opts)
	}
	t.Cleanup(func() { newRunner = orig })
	return rt
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "see ")
}

func TestRoot_TooManyArgs(t *testing.T) {
	isolate(t)

	_, _, err := executeCommand(t, "a/b", "dest", "extra")
	assert.Error(t, err)
}

func TestRoot_PullThenList(t *testing.T) {
	root := isolate(t)
	rt := serveArchives(t, http.StatusOK)
	storeFile := filepath.Join(root, "store.json")

	out, _, err := executeCommand(t, "octo/cat", "out", "-q", "--store", storeFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"/octo/cat/archive/HEAD.tar.gz"}, rt.paths)
	assert.Contains(t, out, "Downloading https://github.com/octo/cat to out")
	assert.Contains(t, out, "Download succeeded")
	content, err := os.ReadFile(filepath.Join(root, "out", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))

	out, _, err = executeCommand(t, "list", "--store", storeFile)
	require.NoError(t, err)
	assert.Contains(t, out, "cat")
	assert.Contains(t, out, "https://github.com/octo/cat")
}

func TestPull_OccupiedWithForce(t *testing.T) {
	root := isolate(t)
	serveArchives(t, http.StatusOK)
	dest := filepath.Join(root, "busy")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.txt"), []byte("x"), 0644))

	_, _, err := executeCommand(t, "pull", "octo/cat", dest, "-f", "-q", "--store", filepath.Join(root, "s"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "hello.txt"))
	assert.FileExists(t, filepath.Join(dest, "keep.txt"))
}

func TestPull_NotFound(t *testing.T) {
	root := isolate(t)
	serveArchives(t, http.StatusUnauthorized)
	storeFile := filepath.Join(root, "s")

	_, _, err := executeCommand(t, "pull", "octo/secret", "out", "-q", "--store", storeFile)

	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
	assert.Equal(t, 1, domain.ExitCode(err))

	templates, err := store.New(store.Options{Path: storeFile}).Templates()
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestPull_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
		code int
	}{
		{"unsupported provider", []string{"pull", "bitbucket:u/r"}, domain.ErrUnsupportedProvider, 2},
		{"not enough arguments", []string{"justaname"}, domain.ErrNotEnoughArguments, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := isolate(t)
			args := append(tt.args, "--store", filepath.Join(root, "s"))

			_, _, err := executeCommand(t, args...)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.code, domain.ExitCode(err))
		})
	}
}

func TestPull_InvalidMode(t *testing.T) {
	isolate(t)

	_, _, err := executeCommand(t, "pull", "octo/cat", "--mode", "svn")
	assert.ErrorContains(t, err, "unknown transport mode")
}

func TestSelect_EmptyStore(t *testing.T) {
	root := isolate(t)

	_, _, err := executeCommand(t, "--store", filepath.Join(root, "s"))

	assert.ErrorIs(t, err, domain.ErrNoTemplates)
}

func TestSetTokenAndRemove(t *testing.T) {
	root := isolate(t)
	storeFile := filepath.Join(root, "s")

	out, _, err := executeCommand(t, "set-token", "abc", "--store", storeFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Token saved")

	token, err := store.New(store.Options{Path: storeFile}).Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, _, err = executeCommand(t, "remove", "ghost", "--store", storeFile)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	out, _, err = executeCommand(t, "list", "--store", storeFile)
	require.NoError(t, err)
	assert.Contains(t, out, "No templates stored.")
}

func TestImportExport(t *testing.T) {
	root := isolate(t)
	storeFile := filepath.Join(root, "s")
	manifestFile := filepath.Join(root, "templates.yaml")
	require.NoError(t, os.WriteFile(manifestFile, []byte("templates:\n  - url: octo/cat\n  - name: p\n    url: gitlab:grp/proj\n"), 0644))

	out, _, err := executeCommand(t, "import", manifestFile, "--store", storeFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 templates (2 added, 0 updated, 0 unchanged)")

	exportFile := filepath.Join(root, "out.json")
	out, _, err = executeCommand(t, "export", exportFile, "--store", storeFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 templates")

	data, err := os.ReadFile(exportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "cat"`)
	assert.Contains(t, string(data), `"url": "gitlab:grp/proj"`)
}

func TestConfigCommands(t *testing.T) {
	root := isolate(t)
	cfgPath := filepath.Join(root, "see.yaml")

	out, _, err := executeCommand(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)
	assert.FileExists(t, cfgPath)

	_, _, err = executeCommand(t, "config", "init", "--config", cfgPath)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = executeCommand(t, "config", "init", "--config", cfgPath, "--overwrite")
	require.NoError(t, err)

	t.Setenv("SEE_TOKEN", "topsecret")
	out, _, err = executeCommand(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "token: REDACTED")
	assert.NotContains(t, out, "topsecret")
	assert.Contains(t, out, "max_size: 64MB")

	out, _, err = executeCommand(t, "config", "path", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)
}

func TestConfigEdit_UsesEditor(t *testing.T) {
	root := isolate(t)
	cfgPath := filepath.Join(root, "see.yaml")

	var got tui.Options
	orig := runEditor
	runEditor = func(opts tui.Options) error {
		got = opts
		opts.Config.Logging.Level = "info"
		return opts.SaveFunc(opts.Config)
	}
	t.Cleanup(func() { runEditor = orig })

	_, _, err := executeCommand(t, "config", "edit", "--config", cfgPath)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, got.SavedPath)
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: info")
}

func TestCacheCommands(t *testing.T) {
	root := isolate(t)
	cfgPath := filepath.Join(root, "see.yaml")
	cacheDir := filepath.Join(root, "archives")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cache:\n  directory: "+cacheDir+"\n"), 0644))

	out, _, err := executeCommand(t, "cache", "info", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "directory: "+cacheDir)
	assert.Contains(t, out, "entries: 0")

	out, _, err = executeCommand(t, "cache", "clear", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared.")
}

func TestDoctor(t *testing.T) {
	root := isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	orig := providerURLs
	providerURLs = []string{server.URL}
	t.Cleanup(func() { providerURLs = orig })

	out, _, err := executeCommand(t, "doctor", "--store", filepath.Join(root, "s"))
	require.NoError(t, err)

	assert.Contains(t, out, "Write permissions: OK")
	assert.Contains(t, out, "Template store: OK")
	assert.Contains(t, out, "All critical checks passed!")
}

func TestCheckReachable(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	forbidden := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer forbidden.Close()

	assert.True(t, checkReachable(context.Background(), ok.URL))
	assert.False(t, checkReachable(context.Background(), forbidden.URL))
	assert.False(t, checkReachable(context.Background(), "http://127.0.0.1:0"))
}

func TestPrintError(t *testing.T) {
	t.Run("with remediation", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, domain.NewFetchError("https://gitlab.com/g/p", 200, domain.ErrUnauthorized))

		assert.Contains(t, buf.String(), "unauthorized")
		assert.Contains(t, buf.String(), "see set-token")
	})

	t.Run("cancellation", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, domain.ErrAborted)

		assert.Contains(t, buf.String(), "aborted by user")
		assert.NotContains(t, buf.String(), "Error:")
	})
}
