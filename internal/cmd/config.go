package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
	"github.com/felixgeelhaar/ticketforge/internal/log"
	"github.com/felixgeelhaar/ticketforge/internal/planner"
	"github.com/felixgeelhaar/ticketforge/internal/provider"
	"github.com/felixgeelhaar/ticketforge/internal/router"
	"github.com/felixgeelhaar/ticketforge/internal/ux"
	"github.com/felixgeelhaar/ticketforge/internal/version"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit ticketforge configuration",
	Long: `Manage the ticketforge configuration stored at .ticketforge/ticketforge.yaml

Configuration covers:
  • Provider endpoint, model, and timeout
  • Retry and model routing behavior
  • Pipeline knobs (batch size, epic size, schedule tracks)
  • Logging level and format

The API key is never stored in the file; it is read from the environment
or the encrypted credential store (see 'ticketforge auth').

Examples:
  # Create a default configuration file
  ticketforge config init

  # Check the configuration for problems
  ticketforge config validate

  # Show the configuration file that would be used
  ticketforge config path

  # Display the effective configuration
  ticketforge config view
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Write a configuration file with default settings to .ticketforge/ticketforge.yaml,
creating the directory if needed. Refuses to overwrite an existing file
unless --force is given.`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file and check every section for problems.

Reports the first invalid setting with the section it belongs to. A missing
file is not an error; defaults are valid.`,
	RunE: runConfigValidate,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Long: `Display the effective configuration after merging the file over the
defaults, in the requested output format.`,
	RunE: runConfigView,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	Long:  `Display the path of the configuration file commands would load.`,
	RunE:  runConfigPath,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// configFileName is the file commands look for inside .ticketforge
const configFileName = "ticketforge.yaml"

// FileConfig is the on-disk configuration: one YAML document combining the
// provider, router, planner, and logging settings. Sections absent from the
// file keep their defaults.
type FileConfig struct {
	Provider *provider.Config `yaml:"provider"`
	Router   *router.Config   `yaml:"router"`
	Planner  *planner.Config  `yaml:"planner"`
	Log      LogSettings      `yaml:"log"`
}

// LogSettings is the logging section of the configuration file
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// defaultFileConfig returns the configuration used when no file exists
func defaultFileConfig() *FileConfig {
	return &FileConfig{
		Provider: provider.DefaultConfig(),
		Router:   router.DefaultConfig(),
		Planner:  planner.DefaultConfig(),
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks every section and names the section in the error
func (c *FileConfig) Validate() error {
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Router.Validate(); err != nil {
		return fmt.Errorf("router: %w", err)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log: %w", errors.NewConfigInvalidError("unknown level: "+c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log: %w", errors.NewConfigInvalidError("unknown format: "+c.Log.Format))
	}
	return nil
}

// LoggerConfig converts the file settings into a logger configuration.
// Verbose forces debug level regardless of the file.
func (c *FileConfig) LoggerConfig(verbose bool) log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(c.Log.Level)
	cfg.Format = log.ParseFormat(c.Log.Format)
	cfg.ServiceVersion = version.GetInfo().Version
	if verbose {
		cfg.Level = log.LevelDebug
	}
	return cfg
}

// resolveConfigPath returns the config file to load. An explicit path wins;
// otherwise the file is discovered the usual way.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return ux.DiscoverConfigFile(configFileName)
}

// loadFileConfig loads the configuration at path, merging the file over the
// defaults. Environment references like $HOME in values are expanded. A
// missing file yields the defaults; an explicit path must exist.
func loadFileConfig(path string, required bool) (*FileConfig, error) {
	config := defaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), config); err != nil {
		return nil, errors.NewConfigInvalidError(fmt.Sprintf("parse %s: %v", path, err))
	}

	return config, nil
}

// loadCommandConfig resolves and loads the configuration for a command,
// honoring the --config flag
func loadCommandConfig(cmdCtx *CommandContext) (*FileConfig, string, error) {
	path, err := resolveConfigPath(cmdCtx.ConfigPath)
	if err != nil {
		return nil, "", err
	}

	config, err := loadFileConfig(path, cmdCtx.ConfigPath != "")
	if err != nil {
		return nil, "", err
	}
	return config, path, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force := cmd.Flags().Lookup("force").Value.String() == "true"

	configDir, err := ux.EnsureConfigDir()
	if err != nil {
		return ux.FormatError(err, "creating config directory")
	}

	configPath := filepath.Join(configDir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(defaultFileConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ux.FormatError(err, "writing config file")
	}

	fmt.Printf("✓ Created configuration at %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Store your API key: ticketforge auth set anthropic")
	fmt.Println("  2. Plan a specification: ticketforge plan run --spec <file>")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	config, path, err := loadCommandConfig(cmdCtx)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("❌ Configuration invalid (%s): %w", path, err)
	}

	fmt.Printf("✓ Configuration valid: %s\n\n", path)
	fmt.Printf("  Provider: %s (model %s, timeout %ds)\n",
		config.Provider.Name, config.Provider.DefaultModel, config.Provider.TimeoutSeconds)
	fmt.Printf("  Router:   %d retries, models %s / %s\n",
		config.Router.MaxRetries, config.Router.Models.HighCapability, config.Router.Models.Standard)
	fmt.Printf("  Planner:  batch %d, %d tracks, documents in %s\n",
		config.Planner.TicketBatchSize, config.Planner.Tracks, config.Planner.DocumentRoot)
	fmt.Printf("  Log:      %s / %s\n", config.Log.Level, config.Log.Format)
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	config, path, err := loadCommandConfig(cmdCtx)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	if cmdCtx.Format == "json" || cmdCtx.Format == "yaml" {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{
			NoColor: cmdCtx.NoColor,
		})
		if err != nil {
			return err
		}
		return formatter.Format(config)
	}

	fmt.Printf("Configuration file: %s\n\n", path)

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	path, err := resolveConfigPath(cmdCtx.ConfigPath)
	if err != nil {
		return ux.FormatError(err, "resolving config path")
	}

	fmt.Println(path)
	return nil
}
