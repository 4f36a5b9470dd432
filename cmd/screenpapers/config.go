package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"screenpapers/pkg/auth"
	"screenpapers/pkg/config"
	"screenpapers/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ScreenPapers configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (UNSPLASH_ACCESS_KEY, SCREENPAPERS_*)
  - .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is written to .screenpapers.yaml in the current directory unless a
path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source. The access key is
masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# ScreenPapers configuration
#
# Environment variables override this file:
#   UNSPLASH_ACCESS_KEY, SCREENPAPERS_OUTPUT_DIR, SCREENPAPERS_LOG_LEVEL, ...

unsplash:
  # Access key from https://unsplash.com/developers
  # Prefer 'screenpapers auth set-key' over storing it here
  access_key: ""
  base_url: "https://api.unsplash.com"
  # Fixed page size
  per_page: 20
  timeout: 15s
  user_agent: "screenpapers/1.0"

download:
  # Photos are saved as <id>.jpg
  directory: "./downloads"
  # Range: 1-10
  concurrent: 3
  timeout: 60s
  retry_attempts: 3
  # Download all skips photos already saved unless this is true
  overwrite: false
  # Save photographer credit as <id>.jpg.json next to each photo
  metadata: true

notifications:
  enabled: false
  on_download: true
  on_error: true

logging:
  # debug, info, warn, error, disabled
  level: "info"
  # Empty logs to stderr; the browser always logs to a file
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".screenpapers.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Configuration file already exists", path)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", path)
		return errors.New("refusing to overwrite " + path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your access key with 'screenpapers auth set-key'")
	fmt.Println("2. Run 'screenpapers config validate' to check the configuration")
	fmt.Println("3. Start browsing with 'screenpapers'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	display := *cfg
	if display.Unsplash.AccessKey != "" {
		display.Unsplash.AccessKey = auth.MaskKey(display.Unsplash.AccessKey)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (UNSPLASH_ACCESS_KEY, SCREENPAPERS_*)")
	fmt.Println("3. .env files")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in default locations)")
	}
	fmt.Println("5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		ui.PrintError("Configuration is invalid")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Println("  - " + line)
		}
		return errors.New("validation failed")
	}

	ui.PrintSuccess("✓ Configuration is valid")
	if !cfg.HasAccessKey() {
		ui.PrintWarning("No access key in flags, environment or config file. A stored key will be used if present")
	}
	return nil
}
