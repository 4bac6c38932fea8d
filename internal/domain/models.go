package domain

import "strings"

// Provider is a supported git hosting provider
type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderGitLab Provider = "gitlab"
)

// KnownProviders lists providers in the order they are matched against a site
var KnownProviders = []Provider{ProviderGitHub, ProviderGitLab}

// TransportMode is the retrieval strategy used for a repository
type TransportMode string

const (
	ModeTar TransportMode = "tar"
	ModeGit TransportMode = "git"
)

// DefaultRef is used when a reference carries no #ref fragment
const DefaultRef = "HEAD"

// WholeRepository is the Subdirectory value meaning no sub-path was requested
const WholeRepository = ""

// RepositoryRef is the resolved form of a reference string.
// It is built once by the resolver and never modified afterwards.
type RepositoryRef struct {
	Input        string        // Original reference string
	Site         string        // Normalized site token (github, gitlab, gitlab.example)
	Provider     Provider      // Provider matched from Site
	User         string        // Account or namespace
	Name         string        // Repository name without .git
	Ref          string        // Branch, tag or commit, HEAD when absent
	Subdirectory string        // e.g. "/docs/api", WholeRepository when absent
	Domain       string        // Host used for URL and SSH
	URL          string        // https://{Domain}/{User}/{Name}
	SSH          string        // git@{Domain}:{User}/{Name}
	Mode         TransportMode // Archive transport for the provider
}

// HasSubdirectory reports whether a sub-path was requested
func (r *RepositoryRef) HasSubdirectory() bool {
	return r.Subdirectory != WholeRepository
}

// String returns the short user/name[:subdir][#ref] form
func (r *RepositoryRef) String() string {
	var sb strings.Builder
	if r.Provider != ProviderGitHub {
		sb.WriteString(r.Site)
		sb.WriteString(":")
	}
	sb.WriteString(r.User)
	sb.WriteString("/")
	sb.WriteString(r.Name)
	if r.HasSubdirectory() {
		sb.WriteString(":")
		sb.WriteString(r.Subdirectory)
	}
	if r.Ref != DefaultRef {
		sb.WriteString("#")
		sb.WriteString(r.Ref)
	}
	return sb.String()
}

// Occupancy describes the state of a destination directory
type Occupancy int

const (
	// OccupancyEmpty covers a missing path and an existing empty directory
	OccupancyEmpty Occupancy = iota
	// OccupancyOccupied is a directory holding at least one entry
	OccupancyOccupied
)

func (o Occupancy) String() string {
	switch o {
	case OccupancyEmpty:
		return "empty"
	case OccupancyOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// Unpacked is the outcome of a successful fetch
type Unpacked struct {
	Dest    string   // Destination root
	Files   []string // Relative paths written, in archive order
	Skipped int      // Entries dropped because of a bad path or a write failure
	Source  string   // "network", "cache" or "git"
}

// Template is a named reference remembered by the store
type Template struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// FetchOptions controls a single pull
type FetchOptions struct {
	Force   bool          // Overwrite an occupied destination without asking
	Mode    TransportMode // Empty means the mode chosen by the resolver
	Offline bool          // Extract from the archive cache only
}
