// Package app wires the resolver, guard, transports and store into the
// operations exposed by the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/quantmind-br/see/internal/archive"
	"github.com/quantmind-br/see/internal/cache"
	"github.com/quantmind-br/see/internal/config"
	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/git"
	"github.com/quantmind-br/see/internal/guard"
	"github.com/quantmind-br/see/internal/resolver"
	"github.com/quantmind-br/see/internal/store"
	"github.com/quantmind-br/see/internal/tui"
	"github.com/quantmind-br/see/internal/utils"
)

// DefaultDest is used when no destination is given
const DefaultDest = "."

// SelectPrompt is shown above the stored template names
const SelectPrompt = "Select a template"

// Runner executes see commands
type Runner struct {
	config   *config.Config
	resolver *resolver.Resolver
	tar      ArchiveTransport
	git      Transport
	store    domain.Store
	prompter domain.Prompter
	cache    domain.Cache
	logger   *utils.Logger
}

// Options contains options for creating a Runner. Nil collaborators are
// built from Config.
type Options struct {
	Config   *config.Config
	Verbose  bool
	Logger   *utils.Logger
	Observer domain.ProgressObserver // nil disables progress output
	Progress io.Writer               // git sideband output for --mode git

	Resolver   *resolver.Resolver
	Tar        ArchiveTransport
	Git        Transport
	GitClient  git.Client
	HTTPClient *http.Client
	Store      domain.Store
	Prompter   domain.Prompter
	Cache      domain.Cache
}

// NewRunner creates a Runner
func NewRunner(opts Options) (*Runner, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	r := &Runner{
		config:   cfg,
		resolver: opts.Resolver,
		tar:      opts.Tar,
		git:      opts.Git,
		store:    opts.Store,
		prompter: opts.Prompter,
		cache:    opts.Cache,
		logger:   logger.WithComponent("app"),
	}

	if r.resolver == nil {
		r.resolver = resolver.New()
	}
	if r.store == nil {
		r.store = store.New(store.Options{Path: cfg.Store.Path, Logger: logger})
	}
	if r.prompter == nil {
		r.prompter = tui.NewPrompter(tui.PrompterOptions{Accessible: cfg.Prompt.Accessible})
	}

	if r.cache == nil && cfg.Cache.Enabled {
		c, err := cache.NewBadgerCache(cache.Options{
			Directory:  cfg.Cache.Directory,
			GCInterval: cache.DefaultOptions().GCInterval,
		})
		if err != nil {
			// The cache only saves bandwidth; pulls still work without it
			r.logger.Warn().Err(err).Str("dir", cfg.Cache.Directory).Msg("Archive cache unavailable")
		} else {
			r.cache = c
		}
	}

	if r.tar == nil {
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: cfg.HTTP.Timeout}
		}
		r.tar = archive.NewFetcher(archive.FetcherOptions{
			HTTPClient:   client,
			Logger:       logger,
			Observer:     opts.Observer,
			Cache:        r.cache,
			CacheTTL:     cfg.Cache.TTL,
			CacheMaxSize: cfg.CacheMaxSizeBytes(),
			UserAgent:    cfg.HTTP.UserAgent,
		})
	}
	if r.git == nil {
		r.git = archive.NewCloneFetcher(archive.CloneFetcherOptions{
			Client:   opts.GitClient,
			Logger:   logger,
			Observer: opts.Observer,
			Progress: opts.Progress,
		})
	}

	return r, nil
}

// Close releases the archive cache
func (r *Runner) Close() error {
	if r.cache != nil {
		return r.cache.Close()
	}
	return nil
}

// Resolve parses a reference without any side effects
func (r *Runner) Resolve(query string) (*domain.RepositoryRef, error) {
	return r.resolver.Resolve(query)
}

// Pull resolves query, fetches it into dest and remembers it as a template.
// The template is only recorded after a successful fetch.
func (r *Runner) Pull(ctx context.Context, query, dest string, opts domain.FetchOptions) (*domain.Unpacked, error) {
	ref, err := r.resolver.Resolve(query)
	if err != nil {
		return nil, err
	}

	result, err := r.fetch(ctx, ref, dest, opts)
	if err != nil {
		return nil, err
	}

	tpl := domain.Template{Name: ref.Name, URL: ref.URL}
	if err := r.store.AddTemplate(tpl); err != nil {
		// Files are already on disk; report the store problem without failing the pull
		r.logger.Warn().Err(err).Str("name", tpl.Name).Msg("Failed to remember template")
	}

	return result, nil
}

// Select prompts for one of the stored templates and fetches it into dest
func (r *Runner) Select(ctx context.Context, dest string, opts domain.FetchOptions) (*domain.Unpacked, error) {
	templates, err := r.store.Templates()
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, domain.ErrNoTemplates
	}

	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}

	choice, err := r.prompter.Choose(ctx, SelectPrompt, names)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil, domain.ErrCancelled
		}
		return nil, err
	}

	idx := slices.IndexFunc(templates, func(t domain.Template) bool { return t.Name == choice })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, choice)
	}

	ref, err := r.resolver.Resolve(templates[idx].URL)
	if err != nil {
		return nil, err
	}

	return r.fetch(ctx, ref, dest, opts)
}

// fetch runs guard then transport for an already resolved reference
func (r *Runner) fetch(ctx context.Context, ref *domain.RepositoryRef, dest string, opts domain.FetchOptions) (*domain.Unpacked, error) {
	if dest == "" {
		dest = DefaultDest
	}
	logger := r.logger.WithRef(ref.String())

	if err := guard.Confirm(ctx, dest, r.prompter, opts.Force); err != nil {
		return nil, err
	}

	token, err := r.Token()
	if err != nil {
		return nil, err
	}

	mode := EffectiveMode(ref, opts)
	transport, err := r.transportFor(mode)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Info().
		Str("url", ref.URL).
		Str("dest", dest).
		Str("transport", transport.Name()).
		Bool("offline", opts.Offline).
		Msg("Fetching repository")

	var result *domain.Unpacked
	if opts.Offline {
		result, err = r.tar.FetchCached(ctx, ref, dest, token)
	} else {
		result, err = transport.Fetch(ctx, ref, dest, token)
	}
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("Fetch cancelled")
		}
		return nil, err
	}

	if ref.HasSubdirectory() {
		logger.Debug().Str("subdir", ref.Subdirectory).Msg("Subdirectory ignored, whole repository extracted")
	}

	logger.Info().
		Int("files", len(result.Files)).
		Int("skipped", result.Skipped).
		Str("source", result.Source).
		Dur("duration", time.Since(start)).
		Msg("Fetch completed")

	return result, nil
}

// Token returns the token attached to downloads. A configured token
// (SEE_TOKEN or the config file) wins over the stored one.
func (r *Runner) Token() (string, error) {
	if r.config.Token != "" {
		return r.config.Token, nil
	}
	return r.store.Token()
}

// SetToken overwrites the stored token
func (r *Runner) SetToken(_ context.Context, token string) error {
	if err := r.store.Put(domain.KeyToken, token); err != nil {
		return err
	}
	r.logger.Debug().Bool("empty", token == "").Msg("Token updated")
	return nil
}

// Templates returns the stored templates in insertion order
func (r *Runner) Templates() ([]domain.Template, error) {
	return r.store.Templates()
}

// RemoveTemplate forgets the named template
func (r *Runner) RemoveTemplate(name string) error {
	return r.store.RemoveTemplate(name)
}
