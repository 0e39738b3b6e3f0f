package ai

import (
	"strings"
	"testing"

	"github.com/CosmoTheDev/repolens/models"
	"github.com/stretchr/testify/assert"
)

func testSnapshot() *models.RepoSnapshot {
	return &models.RepoSnapshot{
		Metadata: models.RepoMetadata{
			Name:          "hello",
			Description:   "Says hi",
			Stars:         3,
			Language:      "Go",
			DefaultBranch: "main",
		},
		FileTree: models.Dir{
			"main.go": models.File{},
			"internal": models.Dir{
				"greet": models.Dir{"greet.go": models.File{}},
			},
			"README.md": models.File{},
		},
	}
}

func TestRenderTreeSortsAndIndents(t *testing.T) {
	want := strings.Join([]string{
		"README.md",
		"internal/",
		"  greet/",
		"    greet.go",
		"main.go",
	}, "\n")
	assert.Equal(t, want, RenderTree(testSnapshot().FileTree))
	assert.Equal(t, "", RenderTree(models.Dir{}))
}

func TestBuildRepoPromptOrder(t *testing.T) {
	p := BuildRepoPrompt(testSnapshot())

	order := []string{
		"Repository: hello",
		"Description: Says hi",
		"Language: Go",
		"File Structure:",
		"    greet.go",
		"1. Project purpose (1 sentence)",
		"2. Key components",
		"3. Architectural patterns",
		"4. Getting started guide",
		"5. Code quality assessment",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(p, s)
		if assert.GreaterOrEqual(t, idx, 0, "missing %q", s) {
			assert.Greater(t, idx, last, "%q out of order", s)
			last = idx
		}
	}
	assert.NotContains(t, p, "Analyze THIS CODE")
}

func TestBuildCodePromptEmbedsFencedFile(t *testing.T) {
	file := &models.FileContent{Text: "package main\n\nfunc main() {}", LanguageTag: "go"}
	p := BuildCodePrompt(testSnapshot(), "cmd/main.go", file)

	assert.Contains(t, p, "Repository: hello\n")
	assert.Contains(t, p, "Analyze THIS CODE from cmd/main.go:\n```go\npackage main\n\nfunc main() {}\n```\n")
	assert.Contains(t, p, "1. Purpose of this file")
	assert.Contains(t, p, "2. Key functions/classes")
	assert.Contains(t, p, "3. Dependencies")
	assert.Contains(t, p, "4. Any security/performance concerns")
	assert.NotContains(t, p, "Project purpose")
}

func TestBuildCodePromptWithoutExtension(t *testing.T) {
	file := &models.FileContent{Text: "all:\n\tgo build\n"}
	p := BuildCodePrompt(testSnapshot(), "Makefile", file)
	assert.Contains(t, p, "```\nall:\n\tgo build\n```\n")
}
