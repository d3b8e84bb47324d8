package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/clearview/internal/pipeline"
	"github.com/ppiankov/clearview/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the analysis pipeline over HTTP:
- POST /api/analyse accepts an article and returns the full analysis
- GET  /api/health reports configuration state

Example:
  clearview serve
  clearview serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	// The server starts without a key so /api/health can report the gap;
	// analysis requests return 503 until one is configured.
	var analyser server.Analyser
	if err := requireLLMKey(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		analyser = p
	}

	return server.New(analyser, cfg).ListenAndServe()
}
