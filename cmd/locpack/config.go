package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"locpack/pkg/config"
	"locpack/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage locpack configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables and .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.locpack.yaml' in the current directory unless a
different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the configuration that a run would use, resolved from all
sources: environment variables, .env files, configuration file, and
default values.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the resolved configuration: YAML syntax, required paths,
and value ranges.`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path := configFile
	if path == "" {
		path = ".locpack.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Config file already exists", path)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		ui.PrintError("Failed to write config file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Created %s", path))
}

// resolveConfig loads configuration without prompting or validating
func resolveConfig() (*config.Config, error) {
	return config.Resolve(configFile)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := resolveConfig()
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to render configuration", err.Error())
		os.Exit(1)
	}

	fmt.Print(string(data))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := resolveConfig()
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration is invalid", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid.")
}
