package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/pipeline"
)

var (
	outJSON     string
	headline    string
	articleSrc  string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	llmProvider string
	llmModel    string
)

// analyseCmd represents the analyse command
var analyseCmd = &cobra.Command{
	Use:   "analyse <file|url>",
	Short: "Analyse a single article and report its argument structure",
	Long: `Analyse reads an article from a text file or fetches it from a URL,
then:
- Extracts the thesis and individual claims
- Maps how the claims support the conclusion
- Surfaces implicit assumptions and logical flags
- Checks quantitative claims against public economic data

Example:
  clearview analyse article.txt
  clearview analyse article.txt --headline "Fed Holds Rates" --json report.json
  clearview analyse https://example.com/news/economy --provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyse,
}

func init() {
	rootCmd.AddCommand(analyseCmd)

	// Output flags
	analyseCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	analyseCmd.Flags().StringVar(&headline, "headline", "", "article headline (file input only)")
	analyseCmd.Flags().StringVar(&articleSrc, "source", "", "article source name (file input only)")

	// HTTP flags
	analyseCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyseCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	analyseCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read when fetching by URL")
	analyseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh analysis)")

	// LLM flags
	analyseCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	analyseCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := analysisConfig()
	if err := requireLLMKey(cfg); err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analysing: %s\n", input)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	var result *model.AnalysisResult
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		result, err = p.AnalyseURL(ctx, input)
	} else {
		var data []byte
		data, err = os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("read article: %w", err)
		}
		result, err = p.Analyse(ctx, model.Article{
			Text:     string(data),
			Headline: headline,
			Source:   articleSrc,
		})
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims (%d checkable)\n", result.Summary.TotalClaims, result.Summary.CheckableClaims)
		fmt.Fprintf(os.Stderr, "✓ Validated %d claims against data sources\n", len(result.ValidationResults))
		if result.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Served from cache (%s)\n", result.Fingerprint)
		}
		fmt.Fprintln(os.Stderr)
	}

	return writeResult(result, outJSON)
}

// analysisConfig applies analyse/batch flag overrides on top of loadConfig
func analysisConfig() *model.Config {
	cfg := loadConfig()
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		// Re-resolve the key for the overridden provider
		switch strings.ToLower(llmProvider) {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			cfg.LLM.APIKey = ""
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg
}

func writeResult(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
