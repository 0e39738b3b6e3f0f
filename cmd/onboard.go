package cmd

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/repolens/internal/ai"
	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/internal/repository"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Interactive setup wizard for repolens",
	Long: `Walks you through configuring repolens:
  - GitHub token (optional, raises the API rate limit)
  - AI provider and API key
  - How file trees are fetched (zip archive or shallow git clone)

Settings are saved to ~/.repolens/config.json. Environment variables
(GITHUB_TOKEN, TOGETHER_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY) still
take precedence at runtime.`,
	RunE: runOnboard,
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#14B8A6")).
	MarginBottom(1)

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#10B981"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

func runOnboard(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println(headerStyle.Render("  repolens · explain a GitHub repository with an LLM"))

	// Env-supplied secrets stay out of the saved file.
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		cfg = config.Default()
	}

	fmt.Println(headerStyle.Render("  Step 1/3 · GitHub"))
	fmt.Println(dimStyle.Render("  Public repositories work anonymously at 60 requests per hour.\n"))

	ghToken := cfg.GitHub.Token
	ghForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub token (leave blank to skip)").
				Description("A fine-grained token with read-only public access is enough.").
				Placeholder("ghp_...  (optional)").
				EchoMode(huh.EchoModePassword).
				Value(&ghToken),
		),
	)
	if err := ghForm.Run(); err != nil {
		return err
	}
	cfg.GitHub.Token = strings.TrimSpace(ghToken)

	fmt.Println(headerStyle.Render("  Step 2/3 · AI provider"))
	provider := cfg.AI.Provider
	if provider == "" {
		provider = ai.ProviderOpenAI
	}
	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(
					huh.NewOption("OpenAI-compatible (Together AI by default)", ai.ProviderOpenAI),
					huh.NewOption("Anthropic Claude", ai.ProviderAnthropic),
					huh.NewOption("Google Gemini", ai.ProviderGemini),
				).
				Value(&provider),
		),
	)
	if err := providerForm.Run(); err != nil {
		return err
	}
	cfg.AI.Provider = provider

	key := providerKey(&cfg.AI)
	model := cfg.AI.Model
	baseURL := cfg.AI.BaseURL
	fields := []huh.Field{
		huh.NewInput().
			Title("API key").
			EchoMode(huh.EchoModePassword).
			Value(key),
		huh.NewInput().
			Title("Model (leave blank for the provider default)").
			Value(&model),
	}
	if provider == ai.ProviderOpenAI {
		fields = append(fields, huh.NewInput().
			Title("Endpoint base URL").
			Description("Any OpenAI-compatible chat completions endpoint.").
			Placeholder(config.DefaultAIBaseURL).
			Value(&baseURL))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}
	*key = strings.TrimSpace(*key)
	cfg.AI.Model = strings.TrimSpace(model)
	if b := strings.TrimSpace(baseURL); b != "" {
		cfg.AI.BaseURL = b
	}

	fmt.Println(headerStyle.Render("  Step 3/3 · File trees"))
	source := cfg.Repository.Source
	if source == "" {
		source = repository.SourceArchive
	}
	sourceForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How should file trees be fetched?").
				Options(
					huh.NewOption("Download the branch zip archive", repository.SourceArchive),
					huh.NewOption("Shallow git clone", repository.SourceClone),
				).
				Value(&source),
		),
	)
	if err := sourceForm.Run(); err != nil {
		return err
	}
	cfg.Repository.Source = source

	configPath, err := config.ConfigPath(cfgFile)
	if err != nil {
		return fmt.Errorf("getting config path: %w", err)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println(successStyle.Render("  ✓ Configuration saved to " + configPath))
	fmt.Println(dimStyle.Render("  Next: repolens doctor, then repolens analyze --repo <url>"))
	return nil
}

// providerKey returns the config field holding the selected provider's key.
func providerKey(cfg *config.AIConfig) *string {
	switch cfg.Provider {
	case ai.ProviderAnthropic:
		return &cfg.AnthropicAPIKey
	case ai.ProviderGemini:
		return &cfg.GeminiAPIKey
	default:
		return &cfg.APIKey
	}
}
