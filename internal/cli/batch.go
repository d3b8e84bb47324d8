package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/pipeline"
	"github.com/ppiankov/clearview/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyse every article file in a directory in parallel",
	Long: `Batch processes a directory of article text files concurrently:
- Each .txt file is one article (first line is taken as the headline)
- Articles are analysed in parallel with a configurable worker count
- Identical articles are deduplicated through the cache
- One JSON report is written per article

Example:
  clearview batch ./articles
  clearview batch ./articles --concurrency 8 --output-dir ./reports
  clearview batch ./articles --timeout 15m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./clearview-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&timeout, "article-timeout", 2*time.Minute, "timeout for individual articles")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh analysis)")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
}

// analyseJob runs one article through the pipeline
type analyseJob struct {
	pipeline *pipeline.Pipeline
	path     string
	timeout  time.Duration
}

// analyseResult carries the outcome of one job
type analyseResult struct {
	path   string
	result *model.AnalysisResult
	err    error
}

func (r *analyseResult) GetError() error { return r.err }

func (j *analyseJob) Execute(ctx context.Context) worker.Result {
	jobCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	data, err := os.ReadFile(j.path)
	if err != nil {
		return &analyseResult{path: j.path, err: fmt.Errorf("read article: %w", err)}
	}

	article := model.Article{Text: string(data)}
	// The first line doubles as the headline when it looks like one
	if head, rest, found := strings.Cut(article.Text, "\n"); found && len(strings.TrimSpace(head)) < 200 {
		article.Headline = strings.TrimSpace(head)
		article.Text = rest
	}

	result, err := j.pipeline.Analyse(jobCtx, article)
	return &analyseResult{path: j.path, result: result, err: err}
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := analysisConfig()
	cfg.Concurrency.Workers = concurrency
	if err := requireLLMKey(cfg); err != nil {
		return err
	}

	files, err := articleFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .txt article files found in %s", dir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processing %d articles with %d workers...\n", len(files), concurrency)

	pool := worker.NewPool(concurrency)
	pool.Start()
	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			pool.Shutdown()
		}
	}()
	for _, path := range files {
		pool.Submit(&analyseJob{pipeline: p, path: path, timeout: timeout})
	}
	results := pool.Wait()

	successCount := 0
	failureCount := 0
	for _, raw := range results {
		res := raw.(*analyseResult)
		if res.err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.path, res.err)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(res.path), filepath.Ext(res.path))
		jsonPath := filepath.Join(outputDir, name+".json")
		if err := writeResult(res.result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d claims, %d checked)\n",
			filepath.Base(res.path), res.result.Summary.TotalClaims, len(res.result.ValidationResults))
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed, reports in %s\n", successCount, failureCount, outputDir)
	if failureCount > 0 {
		return fmt.Errorf("%d of %d articles failed", failureCount, len(results))
	}
	return nil
}

// articleFiles lists the .txt files in a directory, sorted for stable output
func articleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read article directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
