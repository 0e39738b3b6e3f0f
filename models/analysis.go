package models

// AnalysisMode selects which prompt and response shape an analysis uses.
type AnalysisMode string

const (
	ModeRepository AnalysisMode = "repository"
	ModeCode       AnalysisMode = "code"
)

// AnalysisResult is the structured repository-level reply.
type AnalysisResult struct {
	Overview     string `json:"overview"     yaml:"overview"`
	Detailed     string `json:"detailed"     yaml:"detailed"`
	Architecture string `json:"architecture" yaml:"architecture"`
}

// CodeAnalysisResult is the structured single-file reply.
type CodeAnalysisResult struct {
	Purpose      string   `json:"purpose"       yaml:"purpose"`
	Components   []string `json:"components"    yaml:"components"`
	CodeInsights string   `json:"code_insights" yaml:"code_insights"`
}
