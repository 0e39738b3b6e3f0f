package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/CosmoTheDev/repolens/models"
)

// maxRequestBody bounds request bodies; requests only carry a URL and a path.
const maxRequestBody = 64 << 10

func buildHandler(gw *Gateway) http.Handler {
	mux := http.NewServeMux()

	// Root/help
	mux.HandleFunc("GET /{$}", gw.handleRoot)

	// Health
	mux.HandleFunc("GET /health", gw.handleHealth)

	// Analysis
	mux.HandleFunc("POST /analyze", gw.handleAnalyze)
	mux.HandleFunc("POST /analyze/repo", gw.handleAnalyzeRepo)
	mux.HandleFunc("POST /analyze/code", gw.handleAnalyzeCode)

	return mux
}

// repoRequest is the body of /analyze and /analyze/repo.
type repoRequest struct {
	RepoURL string `json:"repo_url"`
}

// codeRequest is the body of /analyze/code.
type codeRequest struct {
	RepoURL  string `json:"repo_url"`
	FilePath string `json:"file_path"`
}

// snapshotResponse is the flat body returned by /analyze.
type snapshotResponse struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Stars         int        `json:"stars"`
	Language      string     `json:"language"`
	DefaultBranch string     `json:"default_branch"`
	FileTree      models.Dir `json:"file_tree"`
}

// codeResponse wraps the single-file analysis under "analysis".
type codeResponse struct {
	Analysis *models.CodeAnalysisResult `json:"analysis"`
}

func (gw *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (gw *Gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":           "repolens gateway",
		"status":         "running",
		"uptime_seconds": int64(time.Since(gw.startedAt).Seconds()),
		"endpoints": []string{
			"GET /health",
			"POST /analyze",
			"POST /analyze/repo",
			"POST /analyze/code",
		},
	})
}

func (gw *Gateway) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req repoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	snap, err := gw.pipeline.Analyze(r.Context(), req.RepoURL)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{
		Name:          snap.Metadata.Name,
		Description:   snap.Metadata.Description,
		Stars:         snap.Metadata.Stars,
		Language:      snap.Metadata.Language,
		DefaultBranch: snap.Metadata.DefaultBranch,
		FileTree:      snap.FileTree,
	})
}

func (gw *Gateway) handleAnalyzeRepo(w http.ResponseWriter, r *http.Request) {
	var req repoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := gw.pipeline.AnalyzeRepository(r.Context(), req.RepoURL)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (gw *Gateway) handleAnalyzeCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		writeError(w, http.StatusBadRequest, "file_path is required")
		return
	}
	res, err := gw.pipeline.AnalyzeCode(r.Context(), req.RepoURL, req.FilePath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codeResponse{Analysis: res})
}

// decodeBody reads a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
