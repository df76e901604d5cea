package cmd

import (
	"fmt"
	"os"

	"github.com/casectl/casectl/internal/config"
	"github.com/casectl/casectl/internal/provider"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile      string
	apiKeyFlag   string
	baseURLFlag  string
	modelFlag    string
	providerFlag string
	outDirFlag   string
	useTUI       bool

	// Package-level version info, set by Execute().
	appVersion string
	appCommit  string
	appDate    string
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date

	rootCmd := &cobra.Command{
		Use:   "casectl",
		Short: "Legal LLM benchmark dataset workbench",
		Long: "casectl takes a legal case text through a three-stage pipeline\n" +
			"(analyze, generate question, generate answer) with edit/lock\n" +
			"checkpoints, and saves each completed record as a JSON file.",
		// Running casectl with no subcommand starts the workbench.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Default TUI on when stdout is a terminal and --tui was not explicitly set.
			if !cmd.Root().PersistentFlags().Changed("tui") && term.IsTerminal(int(os.Stdout.Fd())) {
				useTUI = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkbench()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/casectl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&apiKeyFlag, "api-key", "k", "", "API key override (takes precedence over env/config)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API base URL override")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "override model")
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "override provider")
	rootCmd.PersistentFlags().StringVarP(&outDirFlag, "out", "o", "", "output directory for saved records")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", false, "use bubbletea TUI mode (default: auto-detect terminal)")

	// Subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newRecordsCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config values
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if outDirFlag != "" {
		cfg.OutputDir = outDirFlag
	}
	if apiKeyFlag != "" || baseURLFlag != "" {
		pc := cfg.GetProviderConfig(cfg.Provider)
		merged := *pc
		if apiKeyFlag != "" {
			merged.APIKey = apiKeyFlag
		}
		if baseURLFlag != "" {
			merged.BaseURL = baseURLFlag
		}
		if cfg.Providers == nil {
			cfg.Providers = map[string]*config.ProviderConfig{}
		}
		cfg.Providers[cfg.Provider] = &merged
	}

	return cfg
}

// providerBaseURLs maps OpenAI-compatible provider names to their base URLs.
var providerBaseURLs = map[string]string{
	"deepseek": "https://api.deepseek.com",
	"openai":   "https://api.openai.com/v1",
	"kimi":     "https://api.moonshot.cn/v1",
	"qwen":     "https://dashscope.aliyuncs.com/compatible-mode/v1",
}

// buildClient creates a chat-completion client based on configuration.
// A missing API key is not fatal here: the client reports it as an
// AuthError when the first transition fires, leaving the session state
// untouched.
func buildClient(cfg *config.Config) (provider.Client, error) {
	name := cfg.Provider
	pc := cfg.GetProviderConfig(name)

	// Model: CLI flag / config > per-provider config > client default
	model := cfg.Model
	if model == "" {
		model = pc.Model
	}

	switch name {
	case "anthropic":
		return provider.NewAnthropicClient(pc.APIKey, model), nil
	default:
		// All other providers use the OpenAI-compatible API
		baseURL := pc.BaseURL
		if baseURL == "" {
			if u, ok := providerBaseURLs[name]; ok {
				baseURL = u
			} else {
				return nil, fmt.Errorf("unknown provider %q; set providers.%s.base_url in config", name, name)
			}
		}
		return provider.NewOpenAIClient(pc.APIKey, baseURL, model), nil
	}
}
