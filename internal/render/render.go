// Package render prints pipeline results as styled text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CosmoTheDev/repolens/models"
	"go.yaml.in/yaml/v3"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Write renders v to w in the given format. v must be a *models.RepoSnapshot,
// *models.AnalysisResult or *models.CodeAnalysisResult for text output; JSON
// and YAML accept any value.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, Text(v))
		return err
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Text returns the styled terminal rendering of a pipeline result.
func Text(v any) string {
	switch r := v.(type) {
	case *models.RepoSnapshot:
		return snapshotText(r)
	case *models.AnalysisResult:
		return analysisText(r)
	case *models.CodeAnalysisResult:
		return codeText(r)
	default:
		return fmt.Sprintf("%v\n", v)
	}
}

func snapshotText(s *models.RepoSnapshot) string {
	var b strings.Builder
	m := s.Metadata
	b.WriteString(titleStyle.Render(m.Name) + "\n")
	b.WriteString(field("About", m.Description))
	b.WriteString(field("Language", m.Language))
	b.WriteString(field("Branch", m.DefaultBranch))
	b.WriteString(labelStyle.Render("Stars") + starStyle.Render("★ "+strconv.Itoa(m.Stars)) + "\n")

	files, dirs := s.FileTree.Counts()
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Files (%d files, %d directories)", files, dirs)) + "\n")
	writeTree(&b, s.FileTree, 0)
	return b.String()
}

func analysisText(a *models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Repository analysis") + "\n")
	writeSection(&b, "Overview", a.Overview)
	writeSection(&b, "Architecture", a.Architecture)
	b.WriteString(sectionStyle.Render("Full reply") + "\n")
	b.WriteString(boxStyle.Render(a.Detailed) + "\n")
	return b.String()
}

func codeText(c *models.CodeAnalysisResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("File analysis") + "\n")
	writeSection(&b, "Purpose", c.Purpose)
	b.WriteString(sectionStyle.Render("Components") + "\n")
	if len(c.Components) == 0 {
		b.WriteString(dimStyle.Render("(none found)") + "\n")
	}
	for _, comp := range c.Components {
		b.WriteString("  • " + valueStyle.Render(comp) + "\n")
	}
	b.WriteString(sectionStyle.Render("Full reply") + "\n")
	b.WriteString(boxStyle.Render(c.CodeInsights) + "\n")
	return b.String()
}

func field(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString(sectionStyle.Render(title) + "\n")
	if body == "" {
		b.WriteString(dimStyle.Render("(not found in reply)") + "\n")
		return
	}
	b.WriteString(valueStyle.Render(body) + "\n")
}

func writeTree(b *strings.Builder, dir models.Dir, depth int) {
	indent := strings.Repeat("  ", depth+1)
	for _, name := range dir.Names() {
		if child, ok := dir[name].(models.Dir); ok {
			b.WriteString(indent + dirStyle.Render(name+"/") + "\n")
			writeTree(b, child, depth+1)
			continue
		}
		b.WriteString(indent + valueStyle.Render(name) + "\n")
	}
}
