package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/quantmind-br/see/internal/domain"
)

// RealClient implements Client using go-git
type RealClient struct{}

// NewClient creates a new RealClient
func NewClient() *RealClient {
	return &RealClient{}
}

// CloneOptions translates a request into go-git clone options
func CloneOptions(req CloneRequest) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:          req.URL,
		Depth:        req.Depth,
		SingleBranch: true,
		Progress:     req.Progress,
	}

	if req.Ref != "" && req.Ref != domain.DefaultRef {
		opts.ReferenceName = plumbing.NewBranchReferenceName(req.Ref)
	}

	if req.Token != "" {
		opts.Auth = &githttp.BasicAuth{
			Username: "oauth2",
			Password: req.Token,
		}
	}

	return opts
}

// Clone calls git.PlainCloneContext
func (c *RealClient) Clone(ctx context.Context, req CloneRequest) error {
	if _, err := git.PlainCloneContext(ctx, req.Dir, false, CloneOptions(req)); err != nil {
		return fmt.Errorf("clone %s: %w", req.URL, err)
	}
	return nil
}
