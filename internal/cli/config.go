package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/ui"
)

var configShowPath bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Display current configuration settings and config file locations.

Examples:
  # Show current configuration
  barnsbot config

  # Show config file paths
  barnsbot config --path`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowPath, "path", false, "show config file paths")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	if configShowPath {
		fmt.Println(ui.SectionTitle.Render("Configuration Paths"))
		fmt.Println()
		fmt.Printf("Global config: %s\n", config.GlobalConfigPath())
		fmt.Printf("Local config:  .barnsbotrc.yaml (searched from cwd upward)\n")
		fmt.Printf("Active config: %s\n", config.ConfigFilePath())
		fmt.Printf("State file:    %s\n", cfg.Store.IDFile)
		return nil
	}

	fmt.Println(ui.SectionTitle.Render("Current Configuration"))
	fmt.Println()

	fmt.Println(ui.Bold.Render("Server:"))
	fmt.Printf("  Port: %d\n", cfg.Server.Port)
	fmt.Printf("  Body Limit: %s\n", cfg.Server.BodyLimit)
	fmt.Printf("  Max Files: %d\n", cfg.Server.MaxFiles)
	fmt.Printf("  Upload Dir: %s\n", cfg.Server.UploadDir)
	fmt.Println()

	fmt.Println(ui.Bold.Render("OpenAI:"))
	fmt.Printf("  API Key: %s\n", maskKey(cfg.OpenAI.APIKey))
	fmt.Printf("  Model: %s\n", cfg.OpenAI.Model)
	if cfg.OpenAI.BaseURL != "" {
		fmt.Printf("  Base URL: %s\n", cfg.OpenAI.BaseURL)
	}
	if cfg.LLM.MaxResults > 0 {
		fmt.Printf("  Max Search Results: %d\n", cfg.LLM.MaxResults)
	}
	fmt.Println()

	fmt.Println(ui.Bold.Render("Vector Store:"))
	if cfg.Store.ID != "" {
		fmt.Printf("  Override ID: %s\n", cfg.Store.ID)
	}
	fmt.Printf("  State File: %s\n", cfg.Store.IDFile)
	fmt.Printf("  New Store Name: %s\n", cfg.Store.Name)
	fmt.Println()

	fmt.Println(ui.Bold.Render("Ingest:"))
	fmt.Printf("  Max File Size: %s\n", ui.FormatBytes(cfg.Ingest.MaxFileSize))
	fmt.Printf("  Ignore Patterns: %d configured\n", len(cfg.Ingest.Ignore))

	return nil
}

// maskKey shows only the last four characters of a secret.
func maskKey(key string) string {
	if key == "" {
		return ui.Warning.Render("(not set)")
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
