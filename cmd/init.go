package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/casectl/casectl/internal/config"
	"github.com/spf13/cobra"
)

const configTemplate = `# casectl configuration
provider: deepseek
# model: deepseek-chat

providers:
  deepseek:
    api_key: ""            # or set DEEPSEEK_API_KEY
    base_url: ""           # or set DEEPSEEK_API_BASE (default https://api.deepseek.com)
  anthropic:
    api_key: ""            # or set ANTHROPIC_API_KEY

output_dir: data
field: 法律/金融/资本市场/证券与上市(IPO)
chinese_characteristics: 是
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			if path == "" {
				return fmt.Errorf("cannot determine config path; pass --config")
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists: %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
}
