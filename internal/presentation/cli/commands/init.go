package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/infrastructure/config"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
	"github.com/ventasync/ventasync/internal/infrastructure/storage"
	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// InitResult holds the result of the init command for JSON output.
type InitResult struct {
	ConfigDir    string `json:"config_dir"`
	ConfigFile   string `json:"config_file"`
	DatabasePath string `json:"database_path"`
	Initialized  bool   `json:"initialized"`
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize ventasync configuration and database",
		Long: `Initialize ventasync configuration interactively.

This command creates the ~/.ventasync/ directory, generates a
config.yaml file and prepares the local database.

The initialization process will:
  • Create ~/.ventasync/ directory
  • Generate ~/.ventasync/config.yaml
  • Prompt for the sync endpoint and interval
  • Create the SQLite database and apply the schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration")

	return cmd
}

// prompter handles interactive user input.
type prompter struct {
	reader    *bufio.Reader
	formatter *output.Formatter
}

func newPrompter(formatter *output.Formatter) *prompter {
	return &prompter{
		reader:    bufio.NewReader(os.Stdin),
		formatter: formatter,
	}
}

// prompt asks a question and returns the answer (or default if empty).
func (p *prompter) prompt(question, defaultValue string) (string, error) {
	if defaultValue != "" {
		p.formatter.Print("%s [%s]: ", question, defaultValue)
	} else {
		p.formatter.Print("%s: ", question)
	}

	answer, err := p.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// promptYesNo asks a yes/no question and returns true for yes.
func (p *prompter) promptYesNo(question string, defaultYes bool) (bool, error) {
	defaultStr := "[y/N]"
	if defaultYes {
		defaultStr = "[Y/n]"
	}

	p.formatter.Print("%s %s: ", question, defaultStr)

	answer, err := p.reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return defaultYes, nil
	}

	return answer == "y" || answer == "yes", nil
}

func runInit(ctx context.Context, force bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := newOutputFormatter()

	loader, err := config.NewLoader("")
	if err != nil {
		return fmt.Errorf("failed to create config loader: %w", err)
	}

	configDir := loader.ConfigDir()
	configFile := loader.DefaultConfigPath()
	if globalFlags.ConfigFile != "" {
		configFile = globalFlags.ConfigFile
	}

	// Check if already initialized
	if _, err := os.Stat(configFile); err == nil && !force {
		if formatter.Format() == output.FormatJSON {
			return formatter.JSON(InitResult{
				ConfigDir:   configDir,
				ConfigFile:  configFile,
				Initialized: false,
			})
		}
		formatter.Warning("Configuration already exists at %s", configFile)
		formatter.Info("Use --force to overwrite existing configuration")
		return nil
	}

	cfg := config.NewDefaultConfig()
	if globalFlags.DatabasePath != "" {
		cfg.Database.Path = globalFlags.DatabasePath
	}

	// For JSON output, skip interactive prompts and use defaults
	if formatter.Format() != output.FormatJSON {
		formatter.Header("Ventasync Configuration")
		formatter.Println("")
		formatter.Info("This wizard will help you set up ventasync.")
		formatter.Println("")

		p := newPrompter(formatter)

		formatter.SubHeader("Synchronization")
		formatter.Println("")
		formatter.Println("%s", formatter.Dim("Leave the endpoint empty to work fully offline."))
		formatter.Println("")

		endpoint, err := p.prompt("Sync endpoint URL", "")
		if err != nil {
			return err
		}
		cfg.Sync.Endpoint = endpoint

		if endpoint != "" {
			interval, err := p.prompt("Sync interval", cfg.Sync.Interval.String())
			if err != nil {
				return err
			}
			parsed, err := time.ParseDuration(interval)
			if err != nil {
				return fmt.Errorf("invalid sync interval %q: %w", interval, err)
			}
			cfg.Sync.Interval = parsed
		}

		formatter.Println("")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := loader.Save(cfg, configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Create the database and apply the schema up front so the first
	// data command does not pay the migration cost.
	dbPath, err := config.ExpandPath(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("could not resolve database path: %w", err)
	}
	engine := storage.NewEngine(dbPath, logging.Default())
	if err := engine.Initialize(ctx); err != nil {
		return err
	}
	defer engine.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(InitResult{
			ConfigDir:    configDir,
			ConfigFile:   configFile,
			DatabasePath: engine.Path(),
			Initialized:  true,
		})
	}

	formatter.Success("Ventasync initialized successfully!")
	formatter.Println("")
	formatter.Item("Config directory", configDir)
	formatter.Item("Config file", configFile)
	formatter.Item("Database", engine.Path())
	formatter.Println("")
	formatter.Info("Run 'ventasync product add' to register a product")
	formatter.Info("Run 'ventasync sync' to push pending changes")

	return nil
}
