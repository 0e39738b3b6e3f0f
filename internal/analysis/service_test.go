package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoReply = "1. Project purpose (1 sentence): Greets people.\n\n" +
	"2. Key components: main.go\n\n" +
	"3. Architectural patterns: single binary\n\n" +
	"4. Getting started guide: go run ."

const codeReply = "1. Purpose of this file: entry point\n\n" +
	"2. Key functions/classes:\n- main\n\n" +
	"3. Dependencies: fmt"

// fakeUpstream serves the GitHub API, the archive host and the LLM endpoint
// from one httptest server.
type fakeUpstream struct {
	srv         *httptest.Server
	tmp         string
	metaStatus  int
	archiveHits atomic.Int32
	contentHits atomic.Int32
	llmHits     atomic.Int32
	llmReply    string
	llmBlock    bool

	mu           sync.Mutex
	tmpDuringLLM []os.DirEntry
	lastPrompt   string
}

// observed returns what the LLM handler saw on its last call.
func (f *fakeUpstream) observed() (tmpEntries []os.DirEntry, prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tmpDuringLLM, f.lastPrompt
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{tmp: t.TempDir(), metaStatus: http.StatusOK, llmReply: repoReply}

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	for _, name := range []string{"hello-trunk/main.go", "hello-trunk/docs/README.md"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, _ = w.Write([]byte("x"))
	}
	require.NoError(t, zw.Close())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/repos/octocat/hello", func(w http.ResponseWriter, r *http.Request) {
		if f.metaStatus != http.StatusOK {
			w.WriteHeader(f.metaStatus)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"hello","description":"Greeter","stargazers_count":7,"language":"Go","default_branch":"trunk"}`))
	})
	mux.HandleFunc("GET /api/repos/octocat/hello/contents/main.go", func(w http.ResponseWriter, r *http.Request) {
		f.contentHits.Add(1)
		assert.Equal(t, "trunk", r.URL.Query().Get("ref"))
		// "package main\n"
		_, _ = w.Write([]byte(`{"type":"file","encoding":"base64","path":"main.go","content":"cGFja2FnZSBtYWluCg=="}`))
	})
	mux.HandleFunc("GET /octocat/hello/archive/refs/heads/trunk.zip", func(w http.ResponseWriter, r *http.Request) {
		f.archiveHits.Add(1)
		_, _ = w.Write(zipBuf.Bytes())
	})
	mux.HandleFunc("POST /llm/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		f.llmHits.Add(1)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		f.tmpDuringLLM, _ = os.ReadDir(f.tmp)
		if len(req.Messages) == 2 {
			f.lastPrompt = req.Messages[1].Content
		}
		f.mu.Unlock()
		if f.llmBlock {
			<-r.Context().Done()
			return
		}
		reply, _ := json.Marshal(f.llmReply)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + string(reply) + `}}]}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) config() *config.Config {
	cfg := config.Default()
	cfg.GitHub.APIURL = f.srv.URL + "/api/"
	cfg.GitHub.ArchiveBaseURL = f.srv.URL
	cfg.Repository.TempDir = f.tmp
	cfg.AI.APIKey = "test-key"
	cfg.AI.BaseURL = f.srv.URL + "/llm"
	cfg.AI.Timeout = 5 * time.Second
	return cfg
}

func newService(t *testing.T, f *fakeUpstream) *Service {
	t.Helper()
	svc, err := New(f.config())
	require.NoError(t, err)
	return svc
}

const repoURL = "https://github.com/octocat/hello"

func TestAnalyzeReturnsSnapshot(t *testing.T) {
	f := newFakeUpstream(t)
	snap, err := newService(t, f).Analyze(context.Background(), repoURL)
	require.NoError(t, err)

	assert.Equal(t, models.RepoMetadata{
		Name: "hello", Description: "Greeter", Stars: 7, Language: "Go", DefaultBranch: "trunk",
	}, snap.Metadata)
	assert.Equal(t, models.Dir{
		"main.go": models.File{},
		"docs":    models.Dir{"README.md": models.File{}},
	}, snap.FileTree)
	assert.Zero(t, f.llmHits.Load())

	entries, err := os.ReadDir(f.tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzeRepositoryEndToEnd(t *testing.T) {
	f := newFakeUpstream(t)
	res, err := newService(t, f).AnalyzeRepository(context.Background(), repoURL)
	require.NoError(t, err)

	assert.Equal(t, "Project purpose (1 sentence): Greets people.", res.Overview)
	assert.Equal(t, "Architectural patterns: single binary", res.Architecture)
	assert.Equal(t, repoReply, res.Detailed)

	tmpEntries, prompt := f.observed()
	assert.Contains(t, prompt, "Repository: hello")
	assert.Contains(t, prompt, "docs/\n  README.md\nmain.go")
	assert.Empty(t, tmpEntries, "archive directory must be gone before the model is called")
}

func TestAnalyzeRepositoryInvalidURLMakesNoRequests(t *testing.T) {
	f := newFakeUpstream(t)
	_, err := newService(t, f).AnalyzeRepository(context.Background(), "https://gitlab.com/octocat/hello")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindInvalidInput))
	assert.Zero(t, f.archiveHits.Load())
	assert.Zero(t, f.llmHits.Load())
}

func TestAnalyzeRepositoryMetadataNotFoundStopsPipeline(t *testing.T) {
	f := newFakeUpstream(t)
	f.metaStatus = http.StatusNotFound

	_, err := newService(t, f).AnalyzeRepository(context.Background(), repoURL)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindUpstreamNotFound))
	assert.Equal(t, "GitHub repo not found or rate limited (HTTP 404)", err.Error())
	assert.Zero(t, f.archiveHits.Load())
	assert.Zero(t, f.llmHits.Load())
}

func TestAnalyzeRepositoryModelTimeout(t *testing.T) {
	f := newFakeUpstream(t)
	f.llmBlock = true
	cfg := f.config()
	cfg.AI.Timeout = 100 * time.Millisecond
	svc, err := New(cfg)
	require.NoError(t, err)

	_, err = svc.AnalyzeRepository(context.Background(), repoURL)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindTransportFailure))
	tmpEntries, _ := f.observed()
	assert.Empty(t, tmpEntries)
	assert.EqualValues(t, 1, f.llmHits.Load())
}

func TestAnalyzeCodeUsesOneBranchLookup(t *testing.T) {
	f := newFakeUpstream(t)
	f.llmReply = codeReply

	res, err := newService(t, f).AnalyzeCode(context.Background(), repoURL, "main.go")
	require.NoError(t, err)

	assert.Equal(t, "Purpose of this file: entry point", res.Purpose)
	assert.Equal(t, []string{"Key functions/classes:", "main"}, res.Components)
	assert.Equal(t, codeReply, res.CodeInsights)
	_, prompt := f.observed()
	assert.Contains(t, prompt, "Analyze THIS CODE from main.go:\n```go\npackage main\n```")
	assert.EqualValues(t, 1, f.contentHits.Load())
	assert.EqualValues(t, 1, f.archiveHits.Load())
}

func TestAnalyzeCodeMetadataFailureReportsRepoInfo(t *testing.T) {
	f := newFakeUpstream(t)
	f.metaStatus = http.StatusNotFound

	_, err := newService(t, f).AnalyzeCode(context.Background(), repoURL, "main.go")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindUpstreamNotFound))
	assert.Equal(t, "Cannot fetch repo info (HTTP 404)", err.Error())
	assert.Equal(t, http.StatusNotFound, models.AsErrorResult(err).Status)
	assert.Zero(t, f.contentHits.Load())
	assert.Zero(t, f.archiveHits.Load())
	assert.Zero(t, f.llmHits.Load())
}

func TestAnalyzeCodeRequiresPath(t *testing.T) {
	f := newFakeUpstream(t)
	_, err := newService(t, f).AnalyzeCode(context.Background(), repoURL, "")
	assert.True(t, models.IsKind(err, models.KindInvalidInput))
}
