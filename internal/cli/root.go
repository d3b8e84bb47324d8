// Package cli implements the clearview command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/server"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clearview",
	Short: "ClearView - argument structure and fact-check analysis for news articles",
	Long: `ClearView dissects news articles into their argument structure.

It extracts the thesis and individual claims, maps how the claims
support the conclusion, surfaces implicit assumptions and logical
flags, and checks quantitative claims against public economic data
(FRED, World Bank, UN Comtrade, EIA, Eurostat, REST Countries).

ClearView reports how well claims line up with the data. It does not
decide what is true.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clearview v%s\n", server.Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.clearview/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// A .env file in the working directory is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.clearview")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLEARVIEW_*
	viper.SetEnvPrefix("CLEARVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then config
// file and CLEARVIEW_* env overrides, then API keys from the environment.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.synthesis_model"); v != "" {
		cfg.LLM.SynthesisModel = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if viper.IsSet("cache.ttl") {
		cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if viper.IsSet("concurrency.validation_workers") {
		cfg.Concurrency.ValidationWorkers = viper.GetInt("concurrency.validation_workers")
	}

	// API keys never come from the config file
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	cfg.Validation.FREDAPIKey = os.Getenv("FRED_API_KEY")
	cfg.Validation.EIAAPIKey = os.Getenv("EIA_API_KEY")

	return cfg
}

// requireLLMKey fails early with a useful message instead of a mid-run error
func requireLLMKey(cfg *model.Config) error {
	if strings.EqualFold(cfg.LLM.Provider, "ollama") || cfg.LLM.APIKey != "" {
		return nil
	}
	envVar := "ANTHROPIC_API_KEY"
	if strings.EqualFold(cfg.LLM.Provider, "openai") {
		envVar = "OPENAI_API_KEY"
	}
	return fmt.Errorf("%s environment variable not set (provider %q)", envVar, cfg.LLM.Provider)
}
