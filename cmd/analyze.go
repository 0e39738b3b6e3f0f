package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/CosmoTheDev/repolens/internal/analysis"
	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/internal/render"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	analyzeRepoURL   string
	analyzeOutputFmt string
	analyzeFilePath  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show a repository's metadata and file tree",
	Long: `Fetches the metadata and full file tree of a GitHub repository.
The model is not called; use the repo or code subcommands for that.

Examples:
  repolens analyze --repo https://github.com/octocat/Hello-World
  repolens analyze repo --repo https://github.com/octocat/Hello-World
  repolens analyze code --repo https://github.com/octocat/Hello-World --file README
  repolens analyze --repo https://github.com/octocat/Hello-World --output yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, func(ctx context.Context, svc *analysis.Service, url string) (any, error) {
			return svc.Analyze(ctx, url)
		})
	},
}

var analyzeRepoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Ask the model for a repository-level analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, func(ctx context.Context, svc *analysis.Service, url string) (any, error) {
			return svc.AnalyzeRepository(ctx, url)
		})
	},
}

var analyzeCodeCmd = &cobra.Command{
	Use:   "code",
	Short: "Ask the model to explain one file of a repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, func(ctx context.Context, svc *analysis.Service, url string) (any, error) {
			return svc.AnalyzeCode(ctx, url, analyzeFilePath)
		})
	},
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeRepoURL, "repo", "",
		"GitHub repository URL, e.g. https://github.com/owner/name (prompted when empty)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeOutputFmt, "output", render.FormatText,
		"Output format: "+strings.Join(render.Formats, "|"))
	analyzeCodeCmd.Flags().StringVar(&analyzeFilePath, "file", "", "Path of the file inside the repository (required)")
	_ = analyzeCodeCmd.MarkFlagRequired("file")

	analyzeCmd.AddCommand(analyzeRepoCmd, analyzeCodeCmd)
}

type analyzeFunc func(ctx context.Context, svc *analysis.Service, url string) (any, error)

func runAnalyze(cmd *cobra.Command, run analyzeFunc) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !slices.Contains(render.Formats, analyzeOutputFmt) {
		return fmt.Errorf("invalid --output %q (valid: %s)", analyzeOutputFmt, strings.Join(render.Formats, ", "))
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := strings.TrimSpace(analyzeRepoURL)
	if url == "" {
		if url, err = promptRepoURL(cfg.GitHub.Host); err != nil {
			return err
		}
	}

	svc, err := analysis.New(cfg)
	if err != nil {
		return err
	}
	result, err := run(ctx, svc, url)
	if err != nil {
		return err
	}
	return render.Write(cmd.OutOrStdout(), analyzeOutputFmt, result)
}

func promptRepoURL(host string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("--repo is required when stdin is not a terminal")
	}
	if host == "" {
		host = config.DefaultGitHubHost
	}
	var url string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository URL").
				Description("Public repositories work without a token.").
				Placeholder("https://"+host+"/owner/name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a repository URL is required")
					}
					return nil
				}).
				Value(&url),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(url), nil
}
