package ai

import (
	"strings"

	"github.com/CosmoTheDev/repolens/models"
)

// ExtractSection returns the text starting at the first occurrence of title
// and ending before the next blank line, or at the end of text. It returns ""
// when title does not occur.
func ExtractSection(text, title string) string {
	start := strings.Index(text, title)
	if start == -1 {
		return ""
	}
	end := strings.Index(text[start:], "\n\n")
	if end == -1 {
		return text[start:]
	}
	return text[start : start+end]
}

// ParseListItems turns each non-blank line of section into an item, with
// leading and trailing dashes and spaces removed.
func ParseListItems(section string) []string {
	items := []string{}
	for _, line := range strings.Split(section, "\n") {
		item := strings.TrimSpace(strings.Trim(line, "- "))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ExtractListItems is ParseListItems applied to ExtractSection(text, title).
func ExtractListItems(text, title string) []string {
	return ParseListItems(ExtractSection(text, title))
}

// ParseRepoAnalysis structures a repository-level reply.
func ParseRepoAnalysis(reply string) *models.AnalysisResult {
	return &models.AnalysisResult{
		Overview:     ExtractSection(reply, "Project purpose"),
		Detailed:     reply,
		Architecture: ExtractSection(reply, "Architectural patterns"),
	}
}

// ParseCodeAnalysis structures a single-file reply.
func ParseCodeAnalysis(reply string) *models.CodeAnalysisResult {
	return &models.CodeAnalysisResult{
		Purpose:      ExtractSection(reply, "Purpose"),
		Components:   ExtractListItems(reply, "Key functions/classes"),
		CodeInsights: reply,
	}
}
