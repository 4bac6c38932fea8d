package cache

import (
	"time"

	"github.com/quantmind-br/see/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Options contains cache configuration options
type Options struct {
	Directory  string
	InMemory   bool
	Logger     bool
	GCInterval time.Duration
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		GCInterval: 5 * time.Minute,
	}
}
