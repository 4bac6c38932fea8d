// Package store persists the access token and named templates in a small JSON file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/utils"
)

// DefaultFileName is created in the home directory
const DefaultFileName = ".see"

// Ensure FileStore implements domain.Store
var _ domain.Store = (*FileStore)(nil)

// FileStore is a domain.Store backed by one JSON file
type FileStore struct {
	path   string
	logger *utils.Logger
	mu     sync.Mutex
}

// Options contains options for creating a FileStore
type Options struct {
	Path   string // DefaultPath() when empty
	Logger *utils.Logger
}

// DefaultPath returns ~/.see
func DefaultPath() string {
	return utils.ExpandPath(filepath.Join("~", DefaultFileName))
}

// New creates a FileStore. The file is not touched until first use.
func New(opts Options) *FileStore {
	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}

	return &FileStore{
		path:   utils.ExpandPath(path),
		logger: logger.WithComponent("store"),
	}
}

// Path returns the store file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the store. A missing file yields empty data; a corrupt file is an error.
func (s *FileStore) Load() (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewData(), nil
	}
	if err != nil {
		return nil, err
	}

	data := NewData()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupted, s.path, err)
	}
	data.normalize()

	return data, nil
}

// Update applies fn to the stored data and writes the result back through the
// same file handle. A corrupt file is replaced by empty data with a warning.
// Nothing is written when fn fails.
func (s *FileStore) Update(fn func(*Data) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := utils.EnsureDir(s.path); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	raw, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	data := NewData()
	if len(strings.TrimSpace(string(raw))) > 0 {
		if uerr := json.Unmarshal(raw, data); uerr != nil {
			s.logger.Warn().Err(uerr).Str("path", s.path).Msg("Store file is corrupted, starting from empty data")
			data = NewData()
		}
	}
	data.normalize()

	if err := fn(data); err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := file.Write(append(encoded, '\n')); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return err
	}

	s.logger.Debug().
		Int("templates", len(data.List)).
		Str("path", s.path).
		Msg("Store saved")
	return nil
}

// Get returns the token (string) or the template list ([]domain.Template)
func (s *FileStore) Get(key string) (any, error) {
	if key != domain.KeyToken && key != domain.KeyList {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
	}

	data, err := s.Load()
	if err != nil {
		return nil, err
	}

	if key == domain.KeyToken {
		return data.Token, nil
	}
	return slices.Clone(data.List), nil
}

// Put overwrites the token or merges templates into the list by name
func (s *FileStore) Put(key string, value any) error {
	switch key {
	case domain.KeyToken:
		token, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s wants a string, got %T", ErrInvalidValue, key, value)
		}
		return s.Update(func(d *Data) error {
			d.Token = token
			return nil
		})

	case domain.KeyList:
		var items []domain.Template
		switch v := value.(type) {
		case []domain.Template:
			items = v
		case domain.Template:
			items = []domain.Template{v}
		default:
			return fmt.Errorf("%w: %s wants templates, got %T", ErrInvalidValue, key, value)
		}
		return s.Update(func(d *Data) error {
			d.Merge(items...)
			return nil
		})

	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
	}
}

// Token returns the stored token or ""
func (s *FileStore) Token() (string, error) {
	data, err := s.Load()
	if err != nil {
		return "", err
	}
	return data.Token, nil
}

// SetToken overwrites the stored token
func (s *FileStore) SetToken(token string) error {
	return s.Put(domain.KeyToken, token)
}

// Templates returns the stored templates in insertion order
func (s *FileStore) Templates() ([]domain.Template, error) {
	data, err := s.Load()
	if err != nil {
		return nil, err
	}
	return data.List, nil
}

// AddTemplate inserts a template or replaces the URL of one with the same name
func (s *FileStore) AddTemplate(t domain.Template) error {
	return s.Put(domain.KeyList, t)
}

// Lookup returns the named template or domain.ErrTemplateNotFound
func (s *FileStore) Lookup(name string) (domain.Template, error) {
	data, err := s.Load()
	if err != nil {
		return domain.Template{}, err
	}
	t, ok := data.Lookup(name)
	if !ok {
		return domain.Template{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	return t, nil
}

// RemoveTemplate deletes the named template or returns domain.ErrTemplateNotFound
func (s *FileStore) RemoveTemplate(name string) error {
	return s.Update(func(d *Data) error {
		if !d.Remove(name) {
			return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
		}
		return nil
	})
}
