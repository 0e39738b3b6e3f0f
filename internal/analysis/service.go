// Package analysis runs the repository analysis pipeline: URL parsing,
// metadata lookup, file-tree retrieval, optional file fetch, prompt
// construction, model call and reply parsing.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CosmoTheDev/repolens/internal/ai"
	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/internal/repository"
	"github.com/CosmoTheDev/repolens/models"
)

// Analyzer is the model call used by the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, mode models.AnalysisMode) (string, error)
}

// Service wires the pipeline steps together. All fields are required.
type Service struct {
	Parser   *repository.URLParser
	Metadata repository.MetadataFetcher
	Contents repository.ContentFetcher
	Trees    repository.TreeSource
	LLM      Analyzer
}

// New builds a Service from cfg using the GitHub provider, the configured
// tree source and AI provider.
func New(cfg *config.Config) (*Service, error) {
	gh, err := repository.NewGitHub(cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub client: %w", err)
	}
	trees, err := repository.NewTreeSource(cfg)
	if err != nil {
		return nil, err
	}
	provider, err := ai.New(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("creating AI provider: %w", err)
	}
	return &Service{
		Parser:   repository.NewURLParser(cfg.GitHub.Host),
		Metadata: gh,
		Contents: gh,
		Trees:    trees,
		LLM:      ai.NewClient(provider, cfg.AI),
	}, nil
}

// Snapshot parses rawURL and returns the repository's metadata and file tree.
func (s *Service) Snapshot(ctx context.Context, rawURL string) (models.RepoRef, *models.RepoSnapshot, error) {
	ref, err := s.Parser.Parse(rawURL)
	if err != nil {
		return models.RepoRef{}, nil, err
	}
	meta, err := s.Metadata.FetchMetadata(ctx, ref)
	if err != nil {
		return ref, nil, err
	}
	tree, err := s.Trees.FetchTree(ctx, ref, meta.DefaultBranch)
	if err != nil {
		return ref, nil, err
	}
	return ref, &models.RepoSnapshot{Metadata: *meta, FileTree: tree}, nil
}

// Analyze returns the snapshot of rawURL without calling the model.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*models.RepoSnapshot, error) {
	start := time.Now()
	ref, snap, err := s.Snapshot(ctx, rawURL)
	logOutcome("analyze", ref, start, err)
	return snap, err
}

// AnalyzeRepository produces a repository-level analysis of rawURL.
func (s *Service) AnalyzeRepository(ctx context.Context, rawURL string) (*models.AnalysisResult, error) {
	start := time.Now()
	ref, snap, err := s.Snapshot(ctx, rawURL)
	if err != nil {
		logOutcome("analyze repository", ref, start, err)
		return nil, err
	}
	reply, err := s.LLM.Analyze(ctx, ai.BuildRepoPrompt(snap), models.ModeRepository)
	logOutcome("analyze repository", ref, start, err)
	if err != nil {
		return nil, err
	}
	return ai.ParseRepoAnalysis(reply), nil
}

// AnalyzeCode produces an analysis of the file at path in rawURL. The default
// branch resolved from the metadata is used for both the file and the tree.
func (s *Service) AnalyzeCode(ctx context.Context, rawURL, path string) (*models.CodeAnalysisResult, error) {
	start := time.Now()
	result, ref, err := s.analyzeCode(ctx, rawURL, path)
	logOutcome("analyze code", ref, start, err, "path", path)
	return result, err
}

func (s *Service) analyzeCode(ctx context.Context, rawURL, path string) (*models.CodeAnalysisResult, models.RepoRef, error) {
	if path == "" {
		return nil, models.RepoRef{}, models.Fail(models.KindInvalidInput, "File path is required.")
	}
	ref, err := s.Parser.Parse(rawURL)
	if err != nil {
		return nil, ref, err
	}
	meta, err := s.Metadata.FetchMetadata(ctx, ref)
	if err != nil {
		return nil, ref, repository.RepoInfoFailure(err)
	}
	file, err := s.Contents.FetchFileAt(ctx, ref, meta.DefaultBranch, path)
	if err != nil {
		return nil, ref, err
	}
	tree, err := s.Trees.FetchTree(ctx, ref, meta.DefaultBranch)
	if err != nil {
		return nil, ref, err
	}

	snap := &models.RepoSnapshot{Metadata: *meta, FileTree: tree}
	reply, err := s.LLM.Analyze(ctx, ai.BuildCodePrompt(snap, path, file), models.ModeCode)
	if err != nil {
		return nil, ref, err
	}
	return ai.ParseCodeAnalysis(reply), ref, nil
}

func logOutcome(op string, ref models.RepoRef, start time.Time, err error, extra ...any) {
	attrs := append([]any{
		"repo", ref.FullName(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	}, extra...)
	if err != nil {
		er := models.AsErrorResult(err)
		slog.Warn("analysis: "+op+" failed", append(attrs, "kind", er.Kind, "error", er.Message)...)
		return
	}
	slog.Info("analysis: "+op+" finished", attrs...)
}
