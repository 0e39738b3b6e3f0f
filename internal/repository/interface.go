package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
)

// MetadataFetcher returns the descriptive metadata of a repository.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ref models.RepoRef) (*models.RepoMetadata, error)
}

// ContentFetcher returns the decoded content of a single file.
type ContentFetcher interface {
	// FetchFile reads path from the repository's default branch.
	FetchFile(ctx context.Context, ref models.RepoRef, path string) (*models.FileContent, error)
	// FetchFileAt reads path from an already-known branch.
	FetchFileAt(ctx context.Context, ref models.RepoRef, branch, path string) (*models.FileContent, error)
}

// TreeSource produces the file tree of a branch. Implementations never leave
// files behind on disk.
type TreeSource interface {
	FetchTree(ctx context.Context, ref models.RepoRef, branch string) (models.Dir, error)
}

// Tree sources selectable via repository.source.
const (
	SourceArchive = "archive"
	SourceClone   = "clone"
)

// NewTreeSource returns the tree source named by cfg.Repository.Source.
func NewTreeSource(cfg *config.Config) (TreeSource, error) {
	switch cfg.Repository.Source {
	case SourceArchive, "":
		return &ArchiveRetriever{
			BaseURL:    cfg.GitHub.ArchiveBaseURL,
			TempRoot:   cfg.Repository.TempDir,
			HTTPClient: http.DefaultClient,
			Timeout:    cfg.Repository.DownloadTimeout,
		}, nil
	case SourceClone:
		return &CloneRetriever{
			BaseURL:  cfg.GitHub.ArchiveBaseURL,
			TempRoot: cfg.Repository.TempDir,
			Token:    cfg.GitHub.Token,
			Depth:    cfg.Repository.CloneDepth,
			Timeout:  cfg.Repository.DownloadTimeout,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported repository source %q (want %q or %q)",
			cfg.Repository.Source, SourceArchive, SourceClone)
	}
}
