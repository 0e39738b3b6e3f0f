package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CosmoTheDev/repolens/models"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// CloneRetriever builds the file tree from a git clone of a single branch
// instead of a zip archive. The clone lives in a private temporary directory
// that is removed before FetchTree returns.
type CloneRetriever struct {
	// BaseURL is the git host root, e.g. https://github.com.
	BaseURL string
	// TempRoot is the parent of the per-call directory. Empty means os.TempDir().
	TempRoot string
	// Token authenticates HTTPS clones of private repositories.
	Token string
	// Depth limits fetched history. Zero fetches the full history.
	Depth   int
	Timeout time.Duration
}

// CloneURL returns <base>/<owner>/<name>.git.
func (c *CloneRetriever) CloneURL(ref models.RepoRef) string {
	return fmt.Sprintf("%s/%s/%s.git", strings.TrimSuffix(c.BaseURL, "/"), ref.Owner, ref.Name)
}

// FetchTree clones branch and returns the tree of its working copy. The .git
// directory is not part of the tree.
func (c *CloneRetriever) FetchTree(ctx context.Context, ref models.RepoRef, branch string) (tree models.Dir, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("repository: clone panicked", "repo", ref.FullName(), "panic", r)
			tree, err = nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", r)
		}
	}()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp(c.TempRoot, "repolens-clone-*")
	if err != nil {
		return nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			slog.Warn("repository: failed to clean up clone directory", "path", workDir, "error", rmErr)
		}
	}()

	opts := &gogit.CloneOptions{
		URL:           c.CloneURL(ref),
		Depth:         c.Depth,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Tags:          gogit.NoTags,
	}
	if c.Token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "repolens", Password: c.Token}
	}

	slog.Debug("repository: cloning",
		"url", opts.URL,
		"branch", branch,
		"depth", c.Depth,
		"dest", workDir,
	)

	dest := filepath.Join(workDir, ref.Name)
	if _, err := gogit.PlainCloneContext(ctx, dest, false, opts); err != nil {
		return nil, models.Failf(models.KindUpstreamUnavailable, "Failed to clone %s: %v", opts.URL, err).WithCause(err)
	}

	tree, err = BuildFileTree(dest)
	if err != nil {
		return nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}
	delete(tree, gogit.GitDirName)
	return tree, nil
}
