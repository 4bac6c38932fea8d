package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/see/internal/archive"
	"github.com/quantmind-br/see/internal/cache"
	"github.com/quantmind-br/see/internal/domain"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.TransportMode
		wantErr bool
	}{
		{"", "", false},
		{"tar", domain.ModeTar, false},
		{" GIT ", domain.ModeGit, false},
		{"svn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tarRef := &domain.RepositoryRef{Mode: domain.ModeTar}
	bareRef := &domain.RepositoryRef{}

	assert.Equal(t, domain.ModeTar, EffectiveMode(tarRef, domain.FetchOptions{}))
	assert.Equal(t, domain.ModeTar, EffectiveMode(bareRef, domain.FetchOptions{}))
	assert.Equal(t, domain.ModeGit, EffectiveMode(tarRef, domain.FetchOptions{Mode: domain.ModeGit}))
	assert.Equal(t, domain.ModeTar, EffectiveMode(tarRef, domain.FetchOptions{Mode: domain.ModeGit, Offline: true}))
}

func TestRunner_TransportFor(t *testing.T) {
	r := newTestRunner(t, Options{})

	tr, err := r.transportFor(domain.ModeTar)
	require.NoError(t, err)
	assert.Equal(t, "tar", tr.Name())

	tr, err = r.transportFor(domain.ModeGit)
	require.NoError(t, err)
	assert.Equal(t, "git", tr.Name())

	_, err = r.transportFor("ftp")
	assert.Error(t, err)
}

func TestRunner_OfflineAfterCachedPull(t *testing.T) {
	data := buildArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer server.Close()

	c, err := cache.NewBadgerCache(cache.Options{InMemory: true})
	require.NoError(t, err)

	var hits []string
	r := newTestRunner(t, Options{Cache: c, HTTPClient: redirectClient(t, server, &hits)})
	ctx := context.Background()

	_, err = r.Pull(ctx, "octo/cat", filepath.Join(t.TempDir(), "first"), domain.FetchOptions{})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "second")
	result, err := r.Pull(ctx, "octo/cat", dest, domain.FetchOptions{Offline: true})
	require.NoError(t, err)

	assert.Len(t, hits, 1)
	assert.Equal(t, archive.SourceCache, result.Source)
	assert.FileExists(t, filepath.Join(dest, "README.md"))
}
