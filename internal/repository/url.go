package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CosmoTheDev/repolens/models"
)

// ErrInvalidURLMessage is returned for any URL that is not https://<host>/<owner>/<repo>.
const ErrInvalidURLMessage = "Invalid GitHub repo URL."

// URLParser validates repository URLs for a single hosting domain.
type URLParser struct {
	host    string
	pattern *regexp.Regexp
}

var defaultParser = NewURLParser("github.com")

// NewURLParser returns a parser accepting https://<host>/<owner>/<repo>,
// where owner and repo consist of word characters, "." and "-".
func NewURLParser(host string) *URLParser {
	if host == "" {
		host = "github.com"
	}
	expr := fmt.Sprintf(`^https://%s/([\w.-]+)/([\w.-]+)/?$`, regexp.QuoteMeta(host))
	return &URLParser{host: host, pattern: regexp.MustCompile(expr)}
}

// Host returns the accepted hosting domain.
func (p *URLParser) Host() string { return p.host }

// Parse extracts owner and repository name, preserving case.
func (p *URLParser) Parse(raw string) (models.RepoRef, error) {
	m := p.pattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return models.RepoRef{}, models.Fail(models.KindInvalidInput, ErrInvalidURLMessage)
	}
	return models.RepoRef{Owner: m[1], Name: m[2]}, nil
}

// ParseRepoURL parses a github.com repository URL.
func ParseRepoURL(raw string) (models.RepoRef, error) {
	return defaultParser.Parse(raw)
}
