package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePipeline returns canned results and records the arguments it saw.
type fakePipeline struct {
	err      error
	gotURL   string
	gotPath  string
	analyzed int
}

func (f *fakePipeline) Analyze(_ context.Context, rawURL string) (*models.RepoSnapshot, error) {
	f.analyzed++
	f.gotURL = rawURL
	if f.err != nil {
		return nil, f.err
	}
	return &models.RepoSnapshot{
		Metadata: models.RepoMetadata{Name: "hello", Description: "No description.", Stars: 2, Language: "Go", DefaultBranch: "main"},
		FileTree: models.Dir{"src": models.Dir{"main.go": models.File{}}, "README.md": models.File{}},
	}, nil
}

func (f *fakePipeline) AnalyzeRepository(_ context.Context, rawURL string) (*models.AnalysisResult, error) {
	f.analyzed++
	f.gotURL = rawURL
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalysisResult{Overview: "Project purpose: x", Detailed: "all", Architecture: ""}, nil
}

func (f *fakePipeline) AnalyzeCode(_ context.Context, rawURL, path string) (*models.CodeAnalysisResult, error) {
	f.analyzed++
	f.gotURL, f.gotPath = rawURL, path
	if f.err != nil {
		return nil, f.err
	}
	return &models.CodeAnalysisResult{Purpose: "Purpose", Components: []string{"main"}, CodeInsights: "raw"}, nil
}

func newTestGateway(p Pipeline) http.Handler {
	return New(config.Default(), p).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleAnalyzeReturnsFlatSnapshot(t *testing.T) {
	p := &fakePipeline{}
	rr := do(t, newTestGateway(p), http.MethodPost, "/analyze", `{"repo_url":"https://github.com/octocat/hello"}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "https://github.com/octocat/hello", p.gotURL)
	assert.JSONEq(t, `{
		"name": "hello",
		"description": "No description.",
		"stars": 2,
		"language": "Go",
		"default_branch": "main",
		"file_tree": {"src": {"main.go": null}, "README.md": null}
	}`, rr.Body.String())
}

func TestHandleAnalyzeRepo(t *testing.T) {
	rr := do(t, newTestGateway(&fakePipeline{}), http.MethodPost, "/analyze/repo", `{"repo_url":"https://github.com/a/b"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"overview":"Project purpose: x","detailed":"all","architecture":""}`, rr.Body.String())
}

func TestHandleAnalyzeCodeWrapsResult(t *testing.T) {
	p := &fakePipeline{}
	rr := do(t, newTestGateway(p), http.MethodPost, "/analyze/code",
		`{"repo_url":"https://github.com/a/b","file_path":"cmd/main.go"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "cmd/main.go", p.gotPath)
	assert.JSONEq(t, `{"analysis":{"purpose":"Purpose","components":["main"],"code_insights":"raw"}}`, rr.Body.String())
}

func TestHandleAnalyzeCodeRequiresPath(t *testing.T) {
	p := &fakePipeline{}
	rr := do(t, newTestGateway(p), http.MethodPost, "/analyze/code", `{"repo_url":"https://github.com/a/b"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, p.analyzed)
}

func TestHandlersRejectMalformedJSON(t *testing.T) {
	h := newTestGateway(&fakePipeline{})
	for _, path := range []string{"/analyze", "/analyze/repo", "/analyze/code"} {
		rr := do(t, h, http.MethodPost, path, `{"repo_url":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "invalid JSON body")
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	cases := map[models.ErrorKind]int{
		models.KindInvalidInput:        http.StatusBadRequest,
		models.KindUpstreamNotFound:    http.StatusNotFound,
		models.KindUpstreamRateLimited: http.StatusTooManyRequests,
		models.KindUpstreamUnavailable: http.StatusBadGateway,
		models.KindDecodeFailure:       http.StatusUnprocessableEntity,
		models.KindExtractionFailure:   http.StatusBadGateway,
		models.KindTransportFailure:    http.StatusGatewayTimeout,
		models.KindModelFailure:        http.StatusBadGateway,
	}
	for kind, status := range cases {
		p := &fakePipeline{err: models.Fail(kind, "boom "+string(kind))}
		rr := do(t, newTestGateway(p), http.MethodPost, "/analyze/repo", `{"repo_url":"x"}`)
		assert.Equal(t, status, rr.Code, kind)
		assert.JSONEq(t, `{"error":"boom `+string(kind)+`"}`, rr.Body.String())
	}
}

func TestHealthAndRoot(t *testing.T) {
	h := newTestGateway(&fakePipeline{})

	rr := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var root struct {
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))
	assert.Contains(t, root.Endpoints, "POST /analyze/code")

	rr = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestGateway(&fakePipeline{})

	rr := do(t, h, http.MethodGet, "/health", "")
	assert.Len(t, rr.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	h := newTestGateway(&fakePipeline{})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", rr.Header().Get("Access-Control-Allow-Headers"))

	cfg := config.Default()
	cfg.Gateway.AllowedOrigins = []string{"https://app.example.com"}
	restricted := New(cfg, &fakePipeline{}).Handler()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	restricted.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestGatewayAddr(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "127.0.0.1:8000", New(cfg, &fakePipeline{}).Addr())

	cfg.Gateway.Host = "0.0.0.0"
	cfg.Gateway.Port = 9090
	assert.Equal(t, "0.0.0.0:9090", New(cfg, &fakePipeline{}).Addr())
}
