package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/see/internal/domain"
)

// Transport retrieves a resolved repository into a destination directory
type Transport interface {
	Name() string
	Fetch(ctx context.Context, ref *domain.RepositoryRef, dest, token string) (*domain.Unpacked, error)
}

// ArchiveTransport is a Transport that can also unpack from the archive cache
type ArchiveTransport interface {
	Transport
	FetchCached(ctx context.Context, ref *domain.RepositoryRef, dest, token string) (*domain.Unpacked, error)
}

// ParseMode converts a --mode value. An empty string keeps the resolver's choice.
func ParseMode(s string) (domain.TransportMode, error) {
	mode := domain.TransportMode(strings.ToLower(strings.TrimSpace(s)))
	if mode == "" || IsValidMode(mode) {
		return mode, nil
	}
	return "", fmt.Errorf("unknown transport mode %q (use tar or git)", s)
}

// IsValidMode reports whether mode names a known transport
func IsValidMode(mode domain.TransportMode) bool {
	switch mode {
	case domain.ModeTar, domain.ModeGit:
		return true
	default:
		return false
	}
}

// EffectiveMode returns the transport a pull will use
func EffectiveMode(ref *domain.RepositoryRef, opts domain.FetchOptions) domain.TransportMode {
	if opts.Offline {
		return domain.ModeTar
	}
	if opts.Mode != "" {
		return opts.Mode
	}
	if ref.Mode != "" {
		return ref.Mode
	}
	return domain.ModeTar
}

// transportFor picks the transport for mode
func (r *Runner) transportFor(mode domain.TransportMode) (Transport, error) {
	switch mode {
	case domain.ModeTar:
		return r.tar, nil
	case domain.ModeGit:
		if r.git == nil {
			return nil, fmt.Errorf("git transport is not configured")
		}
		return r.git, nil
	default:
		return nil, fmt.Errorf("unknown transport mode %q", mode)
	}
}
