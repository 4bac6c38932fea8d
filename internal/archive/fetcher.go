// Package archive downloads provider tarballs and unpacks them into a destination.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/quantmind-br/see/internal/cache"
	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/utils"
)

// SignInMarker appears in the final URL when a provider redirects an anonymous
// request for a private archive to its login page
const SignInMarker = "sign_in"

// Source values reported in domain.Unpacked
const (
	SourceNetwork = "network"
	SourceCache   = "cache"
	SourceGit     = "git"
)

// DefaultCacheMaxSize bounds the in-memory tee used to populate the cache
const DefaultCacheMaxSize int64 = 64 << 20

// Fetcher retrieves tar.gz archives over HTTP
type Fetcher struct {
	httpClient   *http.Client
	logger       *utils.Logger
	observer     domain.ProgressObserver
	cache        domain.Cache
	cacheTTL     time.Duration
	cacheMaxSize int64
	userAgent    string
}

// FetcherOptions contains options for creating a Fetcher
type FetcherOptions struct {
	HTTPClient   *http.Client
	Logger       *utils.Logger
	Observer     domain.ProgressObserver
	Cache        domain.Cache // nil disables caching
	CacheTTL     time.Duration
	CacheMaxSize int64
	UserAgent    string
}

// NewFetcher creates a new archive fetcher
func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}
	observer := opts.Observer
	if observer == nil {
		observer = utils.NopObserver{}
	}
	maxSize := opts.CacheMaxSize
	if maxSize <= 0 {
		maxSize = DefaultCacheMaxSize
	}

	return &Fetcher{
		httpClient:   client,
		logger:       logger.WithComponent("archive"),
		observer:     observer,
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		cacheMaxSize: maxSize,
		userAgent:    opts.UserAgent,
	}
}

// Name returns the transport name
func (f *Fetcher) Name() string {
	return "tar"
}

// ArchiveURL builds the provider-specific tarball URL for ref
func ArchiveURL(ref *domain.RepositoryRef, token string) (string, error) {
	rev := ref.Ref
	if rev == "" {
		rev = domain.DefaultRef
	}

	switch ref.Provider {
	case domain.ProviderGitHub:
		return fmt.Sprintf("%s/archive/%s.tar.gz", ref.URL, rev), nil
	case domain.ProviderGitLab:
		return fmt.Sprintf("%s/-/archive/%s/%s.tar.gz?private_token=%s",
			ref.URL, rev, path.Base(ref.Name), url.QueryEscape(token)), nil
	default:
		return "", domain.NewFetchError(ref.URL, 0, domain.ErrUnsupportedProvider)
	}
}

// Fetch downloads the archive of ref and unpacks it into dest
func (f *Fetcher) Fetch(ctx context.Context, ref *domain.RepositoryRef, dest, token string) (*domain.Unpacked, error) {
	archiveURL, err := ArchiveURL(ref, token)
	if err != nil {
		return nil, err
	}

	f.logger.Debug().
		Str("ref", ref.String()).
		Str("archive_url", RedactURL(archiveURL)).
		Msg("Downloading archive")

	return f.DownloadAndExtract(ctx, archiveURL, dest)
}

// FetchCached unpacks a previously cached archive of ref without touching the network
func (f *Fetcher) FetchCached(ctx context.Context, ref *domain.RepositoryRef, dest, token string) (*domain.Unpacked, error) {
	archiveURL, err := ArchiveURL(ref, token)
	if err != nil {
		return nil, err
	}
	if f.cache == nil {
		return nil, domain.NewFetchError(RedactURL(archiveURL), 0, domain.ErrCacheMiss)
	}

	data, err := f.cache.Get(ctx, cache.ArchiveKey(archiveURL))
	if err != nil {
		return nil, domain.NewFetchError(RedactURL(archiveURL), 0, err)
	}

	f.logger.Debug().Int("bytes", len(data)).Msg("Extracting cached archive")

	reader := f.observer.Wrap(bytes.NewReader(data), int64(len(data)))
	result, err := Extract(reader, dest, ExtractOptions{Logger: f.logger, Observer: f.observer})
	if err != nil {
		return nil, domain.NewFetchError(RedactURL(archiveURL), 0, err)
	}
	result.Source = SourceCache
	return result, nil
}

// DownloadAndExtract performs one GET and streams the response into dest
func (f *Fetcher) DownloadAndExtract(ctx context.Context, archiveURL, dest string) (*domain.Unpacked, error) {
	safeURL := RedactURL(archiveURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, domain.NewFetchError(safeURL, 0, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(safeURL, 0, fmt.Errorf("%w: %s", domain.ErrNetwork, redactError(err)))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.NewFetchError(safeURL, resp.StatusCode, domain.ErrRepositoryNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewFetchError(safeURL, resp.StatusCode, domain.ErrUnexpectedStatus)
	case resp.Request != nil && strings.Contains(resp.Request.URL.String(), SignInMarker):
		return nil, domain.NewFetchError(safeURL, resp.StatusCode, domain.ErrUnauthorized)
	}

	var body io.Reader = f.observer.Wrap(resp.Body, resp.ContentLength)

	var tee *cappedBuffer
	if f.cache != nil {
		tee = newCappedBuffer(f.cacheMaxSize)
		body = io.TeeReader(body, tee)
	}

	result, err := Extract(body, dest, ExtractOptions{Logger: f.logger, Observer: f.observer})
	if err != nil {
		return nil, domain.NewFetchError(safeURL, resp.StatusCode, err)
	}
	result.Source = SourceNetwork

	if tee != nil {
		f.store(ctx, archiveURL, body, tee)
	}

	return result, nil
}

// store saves the tee'd archive when the whole stream fit under the cap
func (f *Fetcher) store(ctx context.Context, archiveURL string, body io.Reader, tee *cappedBuffer) {
	// tar stops at the end-of-archive marker; drain gzip padding so the cached copy is complete
	if _, err := io.Copy(io.Discard, body); err != nil {
		f.logger.Debug().Err(err).Msg("Not caching archive: trailing read failed")
		return
	}
	if tee.Overflowed() {
		f.logger.Debug().Int64("max_size", f.cacheMaxSize).Msg("Not caching archive: too large")
		return
	}
	if err := f.cache.Set(ctx, cache.ArchiveKey(archiveURL), tee.Bytes(), f.cacheTTL); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to cache archive")
		return
	}
	f.logger.Debug().Int("bytes", tee.Len()).Msg("Archive cached")
}

// RedactURL hides the value of the private_token query parameter
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if !q.Has("private_token") {
		return rawURL
	}
	q.Set("private_token", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

// redactError strips tokens from transport error messages, which embed the request URL
func redactError(err error) string {
	msg := err.Error()
	var uerr *url.Error
	if errors.As(err, &uerr) {
		msg = strings.ReplaceAll(msg, uerr.URL, RedactURL(uerr.URL))
	}
	return msg
}

// cappedBuffer accumulates up to max bytes, then drops everything and reports overflow
type cappedBuffer struct {
	buf      bytes.Buffer
	max      int64
	overflow bool
}

func newCappedBuffer(max int64) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if c.overflow {
		return len(p), nil
	}
	if int64(c.buf.Len()+len(p)) > c.max {
		c.overflow = true
		c.buf = bytes.Buffer{}
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) Overflowed() bool { return c.overflow }

func (c *cappedBuffer) Bytes() []byte { return c.buf.Bytes() }

func (c *cappedBuffer) Len() int { return c.buf.Len() }
