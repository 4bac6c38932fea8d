package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/git"
	"github.com/quantmind-br/see/internal/utils"
)

// CloneFetcher retrieves a repository with a shallow git clone instead of an archive
type CloneFetcher struct {
	client   git.Client
	logger   *utils.Logger
	observer domain.ProgressObserver
	progress io.Writer
	tempDir  string
}

// CloneFetcherOptions contains options for creating a CloneFetcher
type CloneFetcherOptions struct {
	Client   git.Client
	Logger   *utils.Logger
	Observer domain.ProgressObserver
	Progress io.Writer // git sideband output, discarded when nil
	TempDir  string    // parent of the scratch clone, os.TempDir() when empty
}

// NewCloneFetcher creates a new clone fetcher
func NewCloneFetcher(opts CloneFetcherOptions) *CloneFetcher {
	client := opts.Client
	if client == nil {
		client = git.NewClient()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}
	observer := opts.Observer
	if observer == nil {
		observer = utils.NopObserver{}
	}

	return &CloneFetcher{
		client:   client,
		logger:   logger.WithComponent("clone"),
		observer: observer,
		progress: opts.Progress,
		tempDir:  opts.TempDir,
	}
}

// Name returns the transport name
func (f *CloneFetcher) Name() string {
	return "git"
}

// Fetch clones ref at depth 1 and copies its work tree, minus .git, into dest
func (f *CloneFetcher) Fetch(ctx context.Context, ref *domain.RepositoryRef, dest, token string) (*domain.Unpacked, error) {
	scratch, err := os.MkdirTemp(f.tempDir, "see-clone-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	f.logger.Info().Str("url", ref.URL).Str("ref", ref.Ref).Msg("Cloning repository")

	err = f.client.Clone(ctx, git.CloneRequest{
		URL:      ref.URL,
		Ref:      ref.Ref,
		Token:    token,
		Dir:      scratch,
		Depth:    1,
		Progress: f.progress,
	})
	if err != nil {
		return nil, domain.NewFetchError(ref.URL, 0, fmt.Errorf("%w: %w", domain.ErrNetwork, err))
	}

	result, err := f.copyTree(scratch, dest)
	if err != nil {
		return nil, err
	}
	result.Source = SourceGit
	f.observer.Done()

	return result, nil
}

// copyTree mirrors src into dest, skipping .git and counting per-file failures
func (f *CloneFetcher) copyTree(src, dest string) (*domain.Unpacked, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	result := &domain.Unpacked{Dest: dest}

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil || rel == "." {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		target := filepath.Join(dest, rel)
		relSlash := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
				result.Skipped++
				f.logger.Warn().Err(err).Str("entry", relSlash).Msg("Failed to create directory")
				return filepath.SkipDir
			}
			return nil
		case info.Mode()&os.ModeSymlink != 0:
			err = copySymlink(p, target, dest)
		case info.Mode().IsRegular():
			err = copyFile(p, target, info.Mode().Perm())
		default:
			return nil
		}

		if err != nil {
			result.Skipped++
			f.logger.Warn().Err(err).Str("entry", relSlash).Msg("Failed to copy entry")
			return nil
		}

		result.Files = append(result.Files, relSlash)
		f.observer.Entry(relSlash)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copy work tree: %w", err)
	}

	return result, nil
}

func copyFile(src, target string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if info, err := os.Lstat(target); err == nil && !info.IsDir() {
		if err := os.Remove(target); err != nil {
			return err
		}
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(target, perm)
}

func copySymlink(src, target, dest string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return err
	}
	resolved := link
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), link)
	}
	if !utils.IsWithin(dest, resolved) {
		return fmt.Errorf("%w: symlink -> %s", ErrUnsafePath, link)
	}
	_ = os.Remove(target)
	return os.Symlink(link, target)
}
