package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CosmoTheDev/repolens/models"
	"github.com/klauspost/compress/zip"
)

const archiveFileName = "repo.zip"

// ArchiveRetriever downloads a branch snapshot as a zip archive, extracts it
// into a private temporary directory and builds the file tree from it. The
// directory is removed before FetchTree returns, whatever the outcome.
type ArchiveRetriever struct {
	// BaseURL is the archive host root, e.g. https://github.com.
	BaseURL string
	// TempRoot is the parent of the per-call directory. Empty means os.TempDir().
	TempRoot   string
	HTTPClient *http.Client
	// Timeout bounds the download. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// ArchiveURL returns <base>/<owner>/<name>/archive/refs/heads/<branch>.zip.
func (a *ArchiveRetriever) ArchiveURL(ref models.RepoRef, branch string) string {
	base := strings.TrimSuffix(a.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", base, ref.Owner, ref.Name, branch)
}

// FetchTree downloads and extracts the archive of branch and returns its tree,
// rooted at the single top-level folder GitHub places in every archive.
func (a *ArchiveRetriever) FetchTree(ctx context.Context, ref models.RepoRef, branch string) (tree models.Dir, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("repository: archive extraction panicked", "repo", ref.FullName(), "panic", r)
			tree, err = nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", r)
		}
	}()

	workDir, err := os.MkdirTemp(a.TempRoot, "repolens-*")
	if err != nil {
		return nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			slog.Warn("repository: failed to clean up archive directory", "path", workDir, "error", rmErr)
		}
	}()

	archiveURL := a.ArchiveURL(ref, branch)
	archivePath := filepath.Join(workDir, archiveFileName)
	if err := a.download(ctx, archiveURL, archivePath); err != nil {
		return nil, err
	}

	extractDir := filepath.Join(workDir, "src")
	if err := extractZip(archivePath, extractDir); err != nil {
		return nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}

	// GitHub names the folder <repo>-<branch> with "/" in branch names replaced.
	root := filepath.Join(extractDir, ref.Name+"-"+strings.ReplaceAll(branch, "/", "-"))
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return nil, models.Fail(models.KindExtractionFailure, "Unzipped repo folder not found.")
	}

	tree, err = BuildFileTree(root)
	if err != nil {
		return nil, models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}

	files, dirs := tree.Counts()
	slog.Debug("repository: built file tree from archive",
		"repo", ref.FullName(),
		"branch", branch,
		"files", files,
		"dirs", dirs,
	)
	return tree, nil
}

// download fetches url into dest. A non-200 answer is an unavailable
// upstream; a failed round trip is a transport failure.
func (a *ArchiveRetriever) download(ctx context.Context, url, dest string) error {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Failf(models.KindUpstreamUnavailable, "Failed to download ZIP from %s", url).WithCause(err)
	}
	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Failf(models.KindTransportFailure, "Failed to download ZIP from %s", url).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("repository: archive download rejected", "url", url, "status", resp.StatusCode)
		return models.Failf(models.KindUpstreamUnavailable, "Failed to download ZIP from %s", url).
			WithStatus(resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return models.Failf(models.KindTransportFailure, "Failed to download ZIP from %s", url).WithCause(err)
	}
	if err := out.Close(); err != nil {
		return models.Failf(models.KindExtractionFailure, "Processing failed: %v", err).WithCause(err)
	}
	return nil
}

// extractZip unpacks archivePath into destDir. Entries that would land outside
// destDir are rejected.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if !isPathWithinDirectory(target, destDir) {
			return fmt.Errorf("zip entry escapes destination directory: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating parent directory: %w", err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s in zip: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}

// isPathWithinDirectory reports whether target is basePath or lies below it.
func isPathWithinDirectory(target, basePath string) bool {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return false
	}
	return absTarget == absBase || strings.HasPrefix(absTarget, absBase+string(os.PathSeparator))
}
