// Package commands implements the CLI commands for ventasync.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/application"
	"github.com/ventasync/ventasync/internal/infrastructure/config"
	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// Version information - set at build time via ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GlobalFlags holds the global CLI flags.
type GlobalFlags struct {
	ConfigFile   string
	DatabasePath string
	Output       string
	Verbose      bool
}

// AppContext holds the application runtime context.
type AppContext struct {
	Config     *config.Config
	Formatter  *output.Formatter
	Flags      *GlobalFlags
	Container  *application.Container
	cancelFunc context.CancelFunc
}

var (
	globalFlags GlobalFlags
	appCtx      *AppContext
	appCtxMu    sync.RWMutex // Protects appCtx for thread-safe access
)

// NewRootCmd creates the root command for the ventasync CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ventasync",
		Short: "Ventasync - Offline-first product and sale tracking",
		Long: `Ventasync is an offline-first product and sale tracker.

Products and sales live in an embedded SQLite database and keep working
without a network. Every local change is tracked as pending and pushed
to a remote endpoint by the sync engine; conflicts are resolved by the
most recent write.

Key features:
  • Product catalog and sale recording, fully offline
  • Soft deletes that survive until the remote side has acknowledged them
  • Last-writer-wins synchronization with per-record conflict resolution
  • One-shot or periodic background sync`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help, version, init, and completion commands
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "init" {
				return nil
			}
			return initializeApp(cmd.Context())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "config file path (default: ~/.ventasync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.DatabasePath, "db", "", "database file path (default: ~/.ventasync/ventasync.db)")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.Output, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewProductCmd())
	rootCmd.AddCommand(NewSaleCmd())
	rootCmd.AddCommand(NewSyncCmd())

	return rootCmd
}

// initializeApp initializes the application context.
func initializeApp(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := newOutputFormatter()

	cfg, err := loadConfig(globalFlags.ConfigFile)
	if err != nil {
		if globalFlags.Verbose {
			formatter.Warning("Could not load config: %v, using defaults", err)
		}
		cfg = config.NewDefaultConfig()
	}
	if globalFlags.DatabasePath != "" {
		cfg.Database.Path = globalFlags.DatabasePath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	container, err := application.NewContainer(runCtx, cfg, globalFlags.Verbose)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	appCtxMu.Lock()
	if appCtx != nil && appCtx.Container != nil {
		_ = appCtx.Container.Close()
	}
	appCtx = &AppContext{
		Config:     cfg,
		Formatter:  formatter,
		Flags:      &globalFlags,
		Container:  container,
		cancelFunc: cancel,
	}
	appCtxMu.Unlock()

	return nil
}

// loadConfig loads configuration from the specified file or default location.
func loadConfig(configPath string) (*config.Config, error) {
	loader, err := config.NewLoader("")
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}

	return loader.Load(configPath)
}

// GetAppContext returns the current application context.
// Returns nil if the app hasn't been initialized.
func GetAppContext() *AppContext {
	appCtxMu.RLock()
	defer appCtxMu.RUnlock()
	return appCtx
}

// newOutputFormatter builds a formatter from the global output flag.
// JSON output is never styled; text output is styled when the
// terminal supports it.
func newOutputFormatter() *output.Formatter {
	format := output.FormatText
	if globalFlags.Output == "json" {
		format = output.FormatJSON
	}
	return output.NewFormatter(
		output.WithFormat(format),
		output.WithColor(format != output.FormatJSON && output.DetectColor()),
	)
}

// GetFormatter returns the output formatter.
// Creates a default formatter if app context is not initialized.
func GetFormatter() *output.Formatter {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil {
		return ctx.Formatter
	}
	return output.NewFormatter()
}

// GetContainer returns the application container.
// Returns nil if the app hasn't been initialized.
func GetContainer() *application.Container {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil {
		return ctx.Container
	}
	return nil
}

// requireStorage returns the container with the database opened and
// migrated. Every data command goes through here.
func requireStorage(ctx context.Context) (*application.Container, error) {
	container := GetContainer()
	if container == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	if err := container.InitStorage(ctx); err != nil {
		return nil, err
	}
	return container, nil
}

// Shutdown performs graceful shutdown of the application.
func Shutdown() {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()

	if appCtx != nil {
		if appCtx.Container != nil {
			_ = appCtx.Container.Close()
		}
		if appCtx.cancelFunc != nil {
			appCtx.cancelFunc()
		}
	}
}

// Execute runs the root command with graceful shutdown support.
func Execute() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		rootCmd := NewRootCmd()
		errChan <- rootCmd.Execute()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			formatter := GetFormatter()
			formatter.Error("%s", err.Error())
			Shutdown()
			os.Exit(1)
		}
	case sig := <-sigChan:
		formatter := GetFormatter()
		formatter.Warning("Received signal %v, shutting down...", sig)
		Shutdown()
		os.Exit(130) // Standard exit code for SIGINT
	}

	Shutdown()
}
