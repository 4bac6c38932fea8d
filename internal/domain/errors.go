package domain

import (
	"errors"
	"fmt"
)

// Resolution errors
var (
	// ErrNotEnoughArguments indicates the reference has no user/name separator
	ErrNotEnoughArguments = errors.New("not enough arguments")

	// ErrMalformedReference indicates the reference does not match the expected grammar
	ErrMalformedReference = errors.New("malformed reference")

	// ErrMissingSegment indicates an empty user or repository name
	ErrMissingSegment = errors.New("missing user or repository name")

	// ErrUnsupportedProvider indicates a site that is neither GitHub nor GitLab
	ErrUnsupportedProvider = errors.New("unsupported provider, supported: github, gitlab")
)

// Fetch errors
var (
	// ErrUnauthorized indicates the provider redirected to its sign-in page
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRepositoryNotFound indicates a 401, which providers use to hide private repositories
	ErrRepositoryNotFound = errors.New("could not find repository")

	// ErrUnexpectedStatus indicates any other non-success HTTP status
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrNetwork indicates a transport failure during the request or while streaming
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss indicates the archive is not in the local cache
	ErrCacheMiss = errors.New("cache miss")
)

// Command errors
var (
	// ErrCancelled indicates the user dismissed a prompt
	ErrCancelled = errors.New("cancelled by user")

	// ErrAborted indicates the user chose to quit instead of overwriting
	ErrAborted = errors.New("aborted by user")

	// ErrInvalidKey indicates an unknown store key
	ErrInvalidKey = errors.New("invalid key")

	// ErrTemplateNotFound indicates a template name absent from the store
	ErrTemplateNotFound = errors.New("template not found")

	// ErrNoTemplates indicates the store holds no templates to select from
	ErrNoTemplates = errors.New("no templates stored")
)

// ResolveError reports why a reference string could not be resolved
type ResolveError struct {
	Input string
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %v", e.Input, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError creates a new ResolveError
func NewResolveError(input string, err error) *ResolveError {
	return &ResolveError{
		Input: input,
		Err:   err,
	}
}

// FetchError represents an error during archive retrieval
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsUserCancellation reports whether err comes from a prompt dismissal or a quit choice
func IsUserCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, ErrAborted)
}

// ExitCode maps an error to the process exit status.
// Cancellation and credential problems exit with 1; everything else that is
// fatal exits with 2.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsUserCancellation(err),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrRepositoryNotFound):
		return 1
	default:
		return 2
	}
}

// Remediation returns a follow-up instruction for errors the user can fix, or ""
func Remediation(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "set a private token with: see set-token <your access-token>"
	case errors.Is(err, ErrNoTemplates):
		return "pull a repository first, e.g.: see pull user/name"
	case errors.Is(err, ErrCacheMiss):
		return "run the same pull once with --cache while online"
	default:
		return ""
	}
}
