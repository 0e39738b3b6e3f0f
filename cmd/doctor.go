package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/CosmoTheDev/repolens/internal/ai"
	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/internal/repository"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify credentials, connectivity and the temp directory",
	Long: `Checks that the GitHub API is reachable (and how much rate limit is left),
that the configured AI provider has a key, and that the temporary directory
used for archive extraction is writable.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	allOK := true

	fmt.Println("=== repolens doctor ===")
	fmt.Println()

	fmt.Print("GitHub API ............... ")
	gh, err := repository.NewGitHub(cfg.GitHub)
	if err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else if remaining, limit, err := gh.RateLimit(ctx); err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		auth := "anonymous"
		if gh.AuthToken() != "" {
			auth = "token"
		}
		fmt.Printf("OK (%s, %d/%d requests left)\n", auth, remaining, limit)
		if remaining == 0 {
			fmt.Println(warnStyle.Render("  rate limit exhausted; set GITHUB_TOKEN for a higher quota"))
			allOK = false
		}
	}

	fmt.Print("Tree source .............. ")
	if _, err := repository.NewTreeSource(cfg); err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		fmt.Printf("OK (%s)\n", cfg.Repository.Source)
	}

	fmt.Print("AI provider .............. ")
	provider, err := ai.New(cfg.AI)
	switch {
	case err != nil:
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	case provider.Name() == "none":
		fmt.Printf("WARN (%s has no API key; run 'repolens onboard')\n", cfg.AI.Provider)
		allOK = false
	default:
		fmt.Printf("OK (%s / %s)\n", provider.Name(), provider.Model())
	}

	fmt.Print("Temp directory ........... ")
	if dir, err := checkTempDir(cfg.Repository.TempDir); err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		fmt.Printf("OK (%s)\n", dir)
	}

	fmt.Println()
	if allOK {
		fmt.Println(successStyle.Render("All checks passed. repolens is ready!"))
	} else {
		fmt.Println(warnStyle.Render("Some checks failed. Run 'repolens onboard' to fix."))
	}
	return nil
}

// checkTempDir creates and removes a scratch directory under root.
func checkTempDir(root string) (string, error) {
	dir, err := os.MkdirTemp(root, "repolens-doctor-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	if root == "" {
		root = os.TempDir()
	}
	return root, nil
}
