package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
	"github.com/go-enry/go-enry/v2"
	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// GitHubProvider reads repository metadata and file contents from the GitHub
// REST API.
type GitHubProvider struct {
	client *gogithub.Client
	token  string
}

// NewGitHub creates a GitHubProvider from the given configuration. The token
// is optional; without it requests are anonymous.
func NewGitHub(cfg config.GitHubConfig) (*GitHubProvider, error) {
	httpClient := http.DefaultClient
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	client := gogithub.NewClient(httpClient)

	if cfg.APIURL != "" && cfg.APIURL != config.DefaultGitHubAPIURL {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}

	return &GitHubProvider{client: client, token: cfg.Token}, nil
}

// Client exposes the underlying go-github client.
func (g *GitHubProvider) Client() *gogithub.Client { return g.client }

// AuthToken returns the configured token, if any.
func (g *GitHubProvider) AuthToken() string { return g.token }

// FetchMetadata retrieves name, description, star count, primary language and
// default branch. Missing optional fields fall back to their documented
// defaults; a missing name is a decode failure.
func (g *GitHubProvider) FetchMetadata(ctx context.Context, ref models.RepoRef) (*models.RepoMetadata, error) {
	r, resp, err := g.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		if status, ok := responseStatus(resp, err); ok {
			return nil, models.Failf(statusKind(status),
				"GitHub repo not found or rate limited (HTTP %d)", status).
				WithStatus(status).WithCause(err)
		}
		return nil, models.Failf(models.KindTransportFailure,
			"fetching repo info for %s: %v", ref.FullName(), err).WithCause(err)
	}

	meta := metadataFrom(r)
	if meta.Name == "" {
		return nil, models.Fail(models.KindDecodeFailure, "GitHub repo metadata has no name")
	}
	slog.Debug("repository: fetched metadata",
		"repo", ref.FullName(),
		"default_branch", meta.DefaultBranch,
		"language", meta.Language,
	)
	return meta, nil
}

// FetchFile resolves the default branch, then fetches path from it.
func (g *GitHubProvider) FetchFile(ctx context.Context, ref models.RepoRef, path string) (*models.FileContent, error) {
	meta, err := g.FetchMetadata(ctx, ref)
	if err != nil {
		return nil, RepoInfoFailure(err)
	}
	return g.FetchFileAt(ctx, ref, meta.DefaultBranch, path)
}

// RepoInfoFailure rewords a FetchMetadata failure for the file-fetch path:
// an HTTP failure becomes "Cannot fetch repo info (HTTP n)" and a transport
// failure "Failed to fetch file: ...". Kind and status are kept.
func RepoInfoFailure(err error) error {
	er := models.AsErrorResult(err)
	switch {
	case er == nil:
		return nil
	case er.Status > 0:
		return models.Failf(er.Kind, "Cannot fetch repo info (HTTP %d)", er.Status).
			WithStatus(er.Status).WithCause(er.Err)
	case er.Kind == models.KindTransportFailure && er.Err != nil:
		return models.Failf(er.Kind, "Failed to fetch file: %v", er.Err).WithCause(er.Err)
	default:
		return er
	}
}

// FetchFileAt fetches path from branch and decodes its base64 content as UTF-8.
func (g *GitHubProvider) FetchFileAt(ctx context.Context, ref models.RepoRef, branch, path string) (*models.FileContent, error) {
	path = strings.TrimPrefix(path, "/")
	opts := &gogithub.RepositoryContentGetOptions{Ref: branch}
	file, _, resp, err := g.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, opts)
	if err != nil {
		if status, ok := responseStatus(resp, err); ok {
			return nil, models.Failf(statusKind(status), "File not found (HTTP %d)", status).
				WithStatus(status).WithCause(err)
		}
		return nil, models.Failf(models.KindTransportFailure, "Failed to fetch file: %v", err).WithCause(err)
	}
	if file == nil || strings.TrimSpace(derefString(file.Content)) == "" {
		return nil, models.Fail(models.KindDecodeFailure, "No content available")
	}

	// StdEncoding skips the line breaks GitHub inserts into long content.
	raw, err := base64.StdEncoding.DecodeString(*file.Content)
	if err != nil {
		return nil, models.Failf(models.KindDecodeFailure, "Failed to fetch file: %v", err).WithCause(err)
	}
	if !utf8.Valid(raw) {
		return nil, models.Fail(models.KindDecodeFailure, "Failed to fetch file: content is not valid UTF-8")
	}

	return &models.FileContent{
		Text:        string(raw),
		LanguageTag: models.LanguageTagFor(path),
		Language:    enry.GetLanguage(path, raw),
	}, nil
}

// RateLimit reports the remaining core API quota.
func (g *GitHubProvider) RateLimit(ctx context.Context) (remaining, limit int, err error) {
	limits, _, err := g.client.RateLimit.Get(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("querying GitHub rate limit: %w", err)
	}
	core := limits.GetCore()
	return core.Remaining, core.Limit, nil
}

func metadataFrom(r *gogithub.Repository) *models.RepoMetadata {
	meta := &models.RepoMetadata{
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		Stars:         r.GetStargazersCount(),
		Language:      r.GetLanguage(),
		DefaultBranch: r.GetDefaultBranch(),
	}
	if meta.Description == "" {
		meta.Description = models.DefaultDescription
	}
	if meta.Language == "" {
		meta.Language = models.DefaultLanguage
	}
	if meta.DefaultBranch == "" {
		meta.DefaultBranch = models.DefaultBranch
	}
	return meta
}

// responseStatus returns the HTTP status of a failed go-github call when the
// server answered at all.
func responseStatus(resp *gogithub.Response, err error) (int, bool) {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode, true
	}
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode, true
	}
	return 0, false
}

func statusKind(status int) models.ErrorKind {
	switch status {
	case http.StatusNotFound:
		return models.KindUpstreamNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		return models.KindUpstreamRateLimited
	default:
		return models.KindUpstreamUnavailable
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
