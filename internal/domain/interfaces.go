package domain

//go:generate mockgen -destination=../mocks/domain_mock.go -package=mocks github.com/quantmind-br/see/internal/domain Prompter,Store

import (
	"context"
	"io"
	"time"
)

// Prompter asks the user to pick one of several options
type Prompter interface {
	// Choose returns the selected option or ErrCancelled
	Choose(ctx context.Context, prompt string, options []string) (string, error)
}

// Store persists the access token and the named template list
type Store interface {
	// Get returns the value stored under key (KeyToken or KeyList)
	Get(key string) (any, error)
	// Put writes value under key; KeyList values are merged by name
	Put(key string, value any) error
	// Token returns the stored token or ""
	Token() (string, error)
	// Templates returns the stored templates in insertion order
	Templates() ([]Template, error)
	// AddTemplate inserts or replaces a template by name
	AddTemplate(t Template) error
	// RemoveTemplate deletes a template by name
	RemoveTemplate(name string) error
}

// Cache defines the interface for archive caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// ProgressObserver is notified while an archive streams to disk.
// It observes only; it must not influence extraction.
type ProgressObserver interface {
	// Wrap returns a reader reporting bytes read from r; total is -1 when unknown
	Wrap(r io.Reader, total int64) io.Reader
	// Entry reports the relative path of the entry just written
	Entry(path string)
	// Done is called once when extraction finished successfully
	Done()
}
