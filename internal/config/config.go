package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".repolens"
	DefaultConfigFile = "config.json"

	DefaultGitHubHost     = "github.com"
	DefaultGitHubAPIURL   = "https://api.github.com/"
	DefaultArchiveBaseURL = "https://github.com"

	DefaultAIBaseURL   = "https://api.together.xyz/v1"
	DefaultAIModel     = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1500
	DefaultAITimeout   = 15 * time.Second

	DefaultGatewayPort = 8000
)

// envBindings maps config keys to the environment variables that may set them,
// in priority order.
var envBindings = map[string][]string{
	"github.token":         {"GITHUB_TOKEN"},
	"ai.api_key":           {"REPOLENS_AI_API_KEY", "TOGETHER_API_KEY"},
	"ai.anthropic_api_key": {"ANTHROPIC_API_KEY"},
	"ai.gemini_api_key":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// Load reads .env (if present), then the config file, then the environment,
// and returns a populated Config. The configPath flag may override the
// default location. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("config: ignoring unreadable .env", "error", err)
	}
	return load(configPath, true)
}

// LoadFile reads only the config file over the defaults. Environment
// variables and .env are ignored, so the result is safe to Save back.
func LoadFile(configPath string) (*Config, error) {
	return load(configPath, false)
}

func load(configPath string, withEnv bool) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		for key, envs := range envBindings {
			if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
				return nil, fmt.Errorf("binding env for %s: %w", key, err)
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(home, DefaultConfigDir))
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Repository.TempDir = expandHome(cfg.Repository.TempDir, home)
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Save writes the config to disk as JSON.
func Save(cfg *Config, configPath string) error {
	if configPath == "" {
		p, err := ConfigPath("")
		if err != nil {
			return err
		}
		configPath = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialising config: %w", err)
	}

	return os.WriteFile(configPath, data, 0o600)
}

// ConfigPath returns the effective config file path.
func ConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Redacted returns a copy of cfg with secrets masked, for display.
func (c Config) Redacted() Config {
	mask := func(s, prefix string) string {
		if s == "" {
			return ""
		}
		return prefix + "***"
	}
	c.GitHub.Token = mask(c.GitHub.Token, "ghp-")
	c.AI.APIKey = mask(c.AI.APIKey, "")
	c.AI.AnthropicAPIKey = mask(c.AI.AnthropicAPIKey, "sk-ant-")
	c.AI.GeminiAPIKey = mask(c.AI.GeminiAPIKey, "")
	return c
}

// setDefaults populates viper with sensible out-of-the-box values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.host", DefaultGitHubHost)
	v.SetDefault("github.api_url", DefaultGitHubAPIURL)
	v.SetDefault("github.archive_base_url", DefaultArchiveBaseURL)
	v.SetDefault("github.token", "")

	v.SetDefault("repository.source", "archive")
	v.SetDefault("repository.temp_dir", "")
	v.SetDefault("repository.download_timeout", 2*time.Minute)
	v.SetDefault("repository.clone_depth", 1)

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", DefaultAIBaseURL)
	v.SetDefault("ai.anthropic_api_key", "")
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.temperature", DefaultTemperature)
	v.SetDefault("ai.max_tokens", DefaultMaxTokens)
	v.SetDefault("ai.timeout", DefaultAITimeout)

	v.SetDefault("gateway.host", "127.0.0.1")
	v.SetDefault("gateway.port", DefaultGatewayPort)
	v.SetDefault("gateway.allowed_origins", []string{"*"})
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file")
}
