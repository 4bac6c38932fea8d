package git

//go:generate mockgen -destination=../mocks/git_mock.go -package=mocks -mock_names=Client=MockGitClient github.com/quantmind-br/see/internal/git Client

import (
	"context"
	"io"
)

// Client clones a repository work tree into a local directory
type Client interface {
	Clone(ctx context.Context, req CloneRequest) error
}

// CloneRequest describes a single clone
type CloneRequest struct {
	URL      string
	Ref      string // branch name; "" or HEAD clones the default branch
	Token    string // sent as basic auth password when set
	Dir      string
	Depth    int // 0 clones full history
	Progress io.Writer
}
