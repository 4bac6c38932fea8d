package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/utils"
)

// ErrUnsafePath is returned by StripFirstComponent for absolute or escaping entries
var ErrUnsafePath = errors.New("unsafe archive path")

// ExtractOptions configures Extract
type ExtractOptions struct {
	Logger   *utils.Logger
	Observer domain.ProgressObserver
}

// StripFirstComponent removes the wrapper directory from an archive entry name.
// It returns "" for the wrapper itself and for single-component entries such as
// pax_global_header.
func StripFirstComponent(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}

	cleaned := path.Clean(name)
	parts := strings.SplitN(cleaned, "/", 2)
	if parts[0] == ".." {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	if len(parts) < 2 || parts[1] == "" {
		return "", nil
	}

	rel := parts[1]
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return rel, nil
}

// Extract gunzips and untars r into dest, stripping the first path component
// of every entry. Per-entry failures are counted in Unpacked.Skipped; a broken
// stream is fatal and leaves whatever was written on disk.
func Extract(r io.Reader, dest string, opts ExtractOptions) (*domain.Unpacked, error) {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}
	observer := opts.Observer
	if observer == nil {
		observer = utils.NopObserver{}
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", domain.ErrNetwork, err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	result := &domain.Unpacked{Dest: dest}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !(errors.Is(err, tar.ErrInsecurePath) && header != nil) {
			logger.Debug().Int("written", len(result.Files)).Msg("Archive stream ended early")
			return nil, fmt.Errorf("%w: tar: %w", domain.ErrNetwork, err)
		}

		rel, err := StripFirstComponent(header.Name)
		if err != nil {
			result.Skipped++
			logger.Debug().Err(err).Str("entry", header.Name).Msg("Skipping entry")
			continue
		}
		if rel == "" {
			continue
		}

		target := filepath.Join(root, filepath.FromSlash(rel))

		written, err := writeEntry(tr, header, root, target)
		if err != nil {
			var rerr *readError
			if errors.As(err, &rerr) {
				return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, rerr.err)
			}
			result.Skipped++
			logger.Warn().Err(err).Str("entry", rel).Msg("Failed to write entry")
			continue
		}
		if !written {
			continue
		}

		result.Files = append(result.Files, rel)
		observer.Entry(rel)
	}

	if result.Skipped > 0 {
		logger.Warn().Int("skipped", result.Skipped).Msg("Some archive entries were skipped")
	}
	observer.Done()

	return result, nil
}

// readError marks a failure reading the archive stream, as opposed to writing to disk
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }

// trackingWriter remembers whether a failed io.Copy was caused by the destination
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

// writeEntry materializes one header. It reports false for entry types that are ignored.
// Every entry is checked against what is already on disk, so symlinks written
// by earlier entries cannot redirect later ones outside root.
func writeEntry(tr *tar.Reader, header *tar.Header, root, target string) (bool, error) {
	switch header.Typeflag {
	case tar.TypeDir:
		if _, err := resolveWithin(root, target); err != nil {
			return false, err
		}
		mode := os.FileMode(header.Mode).Perm() | 0700
		if err := os.MkdirAll(target, mode); err != nil {
			return false, err
		}
		return true, nil

	case tar.TypeReg:
		if _, err := resolveWithin(root, filepath.Dir(target)); err != nil {
			return false, err
		}
		return true, writeFile(tr, header, target)

	case tar.TypeSymlink:
		parent, err := resolveWithin(root, filepath.Dir(target))
		if err != nil {
			return false, err
		}
		linkTarget := header.Linkname
		resolved := linkTarget
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(parent, filepath.FromSlash(linkTarget))
		}
		if _, err := resolveWithin(root, resolved); err != nil {
			return false, fmt.Errorf("%w: symlink %s -> %s", ErrUnsafePath, header.Name, linkTarget)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return false, err
		}
		_ = os.Remove(target)
		return true, os.Symlink(linkTarget, target)

	case tar.TypeLink:
		linkRel, err := StripFirstComponent(header.Linkname)
		if err != nil || linkRel == "" {
			return false, fmt.Errorf("%w: hard link %s -> %s", ErrUnsafePath, header.Name, header.Linkname)
		}
		source, err := resolveWithin(root, filepath.Join(root, filepath.FromSlash(linkRel)))
		if err != nil {
			return false, fmt.Errorf("%w: hard link %s -> %s", ErrUnsafePath, header.Name, header.Linkname)
		}
		if _, err := resolveWithin(root, filepath.Dir(target)); err != nil {
			return false, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return false, err
		}
		_ = os.Remove(target)
		return true, os.Link(source, target)

	default:
		return false, nil
	}
}

// resolveWithin follows the longest existing prefix of p through symlinks and
// returns where p lands on disk. It fails when that is outside root.
func resolveWithin(root, p string) (string, error) {
	existing := p
	for {
		if _, err := os.Stat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}

	physical, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	rest, err := filepath.Rel(existing, p)
	if err != nil {
		return "", err
	}

	resolved := filepath.Join(physical, rest)
	if !utils.IsWithin(root, resolved) {
		return "", fmt.Errorf("%w: %s resolves outside the destination", ErrUnsafePath, p)
	}
	return resolved, nil
}

func writeFile(r io.Reader, header *tar.Header, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	if info, err := os.Lstat(target); err == nil && !info.IsDir() {
		if err := os.Remove(target); err != nil {
			return err
		}
	}

	perm := os.FileMode(header.Mode).Perm()
	if perm == 0 {
		perm = 0644
	}

	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	tw := &trackingWriter{w: file}
	if _, err := io.Copy(tw, r); err != nil {
		file.Close()
		if tw.err == nil {
			return &readError{err: err}
		}
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Chmod(target, perm)
}
