package ai

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/repolens/models"
)

// SystemPrompt is sent as the system message of every analysis request.
const SystemPrompt = "You are a senior engineer analyzing GitHub repositories."

// BuildRepoPrompt returns the user prompt for a repository-level analysis.
func BuildRepoPrompt(snap *models.RepoSnapshot) string {
	var b strings.Builder
	writeRepoContext(&b, snap)
	b.WriteString("\nProvide repository-level analysis:\n")
	b.WriteString("1. Project purpose (1 sentence)\n")
	b.WriteString("2. Key components\n")
	b.WriteString("3. Architectural patterns\n")
	b.WriteString("4. Getting started guide\n")
	b.WriteString("5. Code quality assessment\n")
	return b.String()
}

// BuildCodePrompt returns the user prompt for analysing a single file of the
// repository. The file is embedded in a fenced block tagged with its
// extension.
func BuildCodePrompt(snap *models.RepoSnapshot, path string, file *models.FileContent) string {
	var b strings.Builder
	writeRepoContext(&b, snap)
	fmt.Fprintf(&b, "\nAnalyze THIS CODE from %s:\n", path)
	fmt.Fprintf(&b, "```%s\n", file.LanguageTag)
	b.WriteString(file.Text)
	if !strings.HasSuffix(file.Text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("```\n")
	b.WriteString("\nProvide:\n")
	b.WriteString("1. Purpose of this file\n")
	b.WriteString("2. Key functions/classes\n")
	b.WriteString("3. Dependencies\n")
	b.WriteString("4. Any security/performance concerns\n")
	return b.String()
}

func writeRepoContext(b *strings.Builder, snap *models.RepoSnapshot) {
	meta := snap.Metadata
	fmt.Fprintf(b, "Repository: %s\n", meta.Name)
	fmt.Fprintf(b, "Description: %s\n", meta.Description)
	fmt.Fprintf(b, "Language: %s\n", meta.Language)
	b.WriteString("File Structure:\n")
	if tree := RenderTree(snap.FileTree); tree != "" {
		b.WriteString(tree)
		b.WriteByte('\n')
	}
}

// RenderTree renders dir as an indented listing, two spaces per level.
// Entries are sorted by name and directories carry a trailing "/".
func RenderTree(dir models.Dir) string {
	var lines []string
	renderTree(dir, 0, &lines)
	return strings.Join(lines, "\n")
}

func renderTree(dir models.Dir, depth int, lines *[]string) {
	indent := strings.Repeat("  ", depth)
	for _, name := range dir.Names() {
		if child, ok := dir[name].(models.Dir); ok {
			*lines = append(*lines, fmt.Sprintf("%s%s/", indent, name))
			renderTree(child, depth+1, lines)
			continue
		}
		*lines = append(*lines, indent+name)
	}
}
