package config

import "time"

// Config is the root configuration structure for repolens.
// Serialised to ~/.repolens/config.json.
type Config struct {
	GitHub     GitHubConfig     `mapstructure:"github"     json:"github"`
	Repository RepositoryConfig `mapstructure:"repository" json:"repository"`
	AI         AIConfig         `mapstructure:"ai"         json:"ai"`
	Gateway    GatewayConfig    `mapstructure:"gateway"    json:"gateway"`
}

// GitHubConfig controls how repositories are looked up and downloaded.
type GitHubConfig struct {
	// Host is the hosting domain accepted in repository URLs.
	Host string `mapstructure:"host" json:"host"`
	// APIURL is the REST API base (https://api.github.com/).
	APIURL string `mapstructure:"api_url" json:"api_url"`
	// ArchiveBaseURL prefixes archive downloads and clone URLs (https://github.com).
	ArchiveBaseURL string `mapstructure:"archive_base_url" json:"archive_base_url"`
	// Token is optional; public repositories work without it at a lower rate limit.
	Token string `mapstructure:"token" json:"token"`
}

// RepositoryConfig controls how the file tree of a repository is obtained.
type RepositoryConfig struct {
	// Source is "archive" (default) or "clone".
	Source string `mapstructure:"source" json:"source"`
	// TempDir is the parent of per-request extraction directories.
	// Empty means os.TempDir().
	TempDir string `mapstructure:"temp_dir" json:"temp_dir"`
	// DownloadTimeout bounds archive downloads and clones. Zero disables it.
	DownloadTimeout time.Duration `mapstructure:"download_timeout" json:"download_timeout"`
	// CloneDepth is the history depth for the clone source. Zero fetches everything.
	CloneDepth int `mapstructure:"clone_depth" json:"clone_depth"`
}

// AIConfig controls the language model used for analysis.
type AIConfig struct {
	// Provider is "openai" (default, any OpenAI-compatible endpoint),
	// "anthropic" or "gemini".
	Provider string `mapstructure:"provider" json:"provider"`
	// APIKey authenticates against the OpenAI-compatible endpoint.
	APIKey string `mapstructure:"api_key" json:"api_key"`
	// BaseURL is the OpenAI-compatible endpoint root.
	BaseURL         string `mapstructure:"base_url"          json:"base_url"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" json:"anthropic_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"    json:"gemini_api_key"`
	// Model overrides the provider's default model.
	Model       string        `mapstructure:"model"       json:"model"`
	Temperature float64       `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"  json:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"     json:"timeout"`
}

// GatewayConfig controls the HTTP front end.
type GatewayConfig struct {
	Host string `mapstructure:"host" json:"host"`
	// Port is the HTTP port the gateway listens on (default: 8000).
	Port           int      `mapstructure:"port"            json:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins"`
}
