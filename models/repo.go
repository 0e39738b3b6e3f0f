package models

import (
	"path"
	"strings"
)

// Defaults applied when the hosting API omits a metadata field.
const (
	DefaultDescription = "No description."
	DefaultLanguage    = "Unknown"
	DefaultBranch      = "main"
)

// RepoRef identifies a repository on the hosting platform.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns "owner/name".
func (r RepoRef) FullName() string { return r.Owner + "/" + r.Name }

// RepoMetadata is the subset of repository information used for analysis.
type RepoMetadata struct {
	Name          string `json:"name"           yaml:"name"`
	Description   string `json:"description"    yaml:"description"`
	Stars         int    `json:"stars"          yaml:"stars"`
	Language      string `json:"language"       yaml:"language"`
	DefaultBranch string `json:"default_branch" yaml:"default_branch"`
}

// RepoSnapshot is the metadata and file tree of one repository, built fresh
// for every analysis request.
type RepoSnapshot struct {
	Metadata RepoMetadata `json:"metadata"  yaml:"metadata"`
	FileTree Dir          `json:"file_tree" yaml:"file_tree"`
}

// FileContent is a single decoded file fetched from the hosting API.
type FileContent struct {
	Text string `json:"content"  yaml:"content"`
	// LanguageTag is the lowercased extension of the file name ("md", "go").
	// It is a naive hint, not validated against any list.
	LanguageTag string `json:"language_tag" yaml:"language_tag"`
	// Language is the linguist-style name detected from path and content, if any.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// LanguageTagFor returns the lowercase suffix after the last "." of the
// file's base name, or "" when the name has no extension.
func LanguageTagFor(filePath string) string {
	ext := path.Ext(path.Base(filePath))
	if len(ext) <= 1 {
		return ""
	}
	return strings.ToLower(ext[1:])
}
