package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/application"
	"github.com/ventasync/ventasync/internal/application/ports"
	appSync "github.com/ventasync/ventasync/internal/application/sync"
	"github.com/ventasync/ventasync/internal/infrastructure/config"
	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	var (
		entity string
		daemon bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize local changes with the remote endpoint",
		Long: `Synchronize local changes with the remote endpoint.

By default one sync cycle runs per entity type and the command exits.
With --daemon the scheduler keeps running cycles at the configured
interval until interrupted; edits to the config file are picked up
without a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}
			if daemon {
				return runSyncDaemon(cmd.Context(), container)
			}
			return runSyncOnce(cmd.Context(), container, entity)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "sync only one entity type: products, sales")
	cmd.Flags().BoolVarP(&daemon, "daemon", "d", false, "keep syncing at the configured interval")

	return cmd
}

func runSyncOnce(ctx context.Context, container *application.Container, entity string) error {
	var (
		reports []appSync.CycleReport
		err     error
	)

	formatter := GetFormatter()

	var spinner *output.Spinner
	if formatter.Format() == output.FormatText {
		spinner = output.NewSpinner("Syncing...")
		spinner.Start()
	}

	if entity == "" {
		reports, err = container.SyncEngine().SyncAll(ctx)
	} else {
		var report appSync.CycleReport
		report, err = container.SyncEngine().SyncEntity(ctx, ports.EntityType(entity))
		if report.Entity != "" {
			reports = append(reports, report)
		}
	}

	if spinner != nil {
		spinner.Stop()
	}

	if err != nil {
		// Completed cycles preceding the failure are still reported.
		printReports(formatter, reports)
		return err
	}

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(reports)
	}
	printReports(formatter, reports)
	formatter.Success("Sync complete")
	return nil
}

// printReports renders per-entity cycle outcomes in text format.
func printReports(formatter *output.Formatter, reports []appSync.CycleReport) {
	if formatter.Format() == output.FormatJSON || len(reports) == 0 {
		return
	}

	table := output.TableData{
		Columns: []output.TableColumn{
			{Header: "ENTITY"},
			{Header: "OUTCOME"},
			{Header: "PUSHED", Align: output.AlignRight},
			{Header: "ACCEPTED", Align: output.AlignRight},
			{Header: "CONFLICTED", Align: output.AlignRight},
			{Header: "PURGED", Align: output.AlignRight},
		},
	}
	for _, r := range reports {
		table.Rows = append(table.Rows, []string{
			string(r.Entity),
			string(r.Outcome),
			strconv.Itoa(r.Pushed),
			strconv.Itoa(r.Accepted),
			strconv.Itoa(r.Conflicted),
			strconv.Itoa(r.Purged),
		})
	}
	formatter.Table(table)
}

// runSyncDaemon runs the periodic scheduler until the context is
// cancelled. Config file edits adjust the sync interval on the fly.
func runSyncDaemon(ctx context.Context, container *application.Container) error {
	formatter := GetFormatter()
	scheduler := container.SyncScheduler()
	logger := container.Logger()

	watchPath, err := daemonConfigPath()
	if err == nil {
		watcher, werr := config.NewWatcher(watchPath, config.WatcherConfig{})
		if werr != nil {
			logger.Warn("config watching disabled", "path", watchPath, "error", werr.Error())
		} else {
			defer watcher.Close()
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case event, ok := <-watcher.Events():
						if !ok {
							return
						}
						reloadSyncConfig(event.Path, scheduler, container)
					case werr, ok := <-watcher.Errors():
						if !ok {
							return
						}
						logger.Warn("config watcher error", "error", werr.Error())
					}
				}
			}()
		}
	}

	formatter.Info("Sync daemon started (interval %s), press Ctrl+C to stop", scheduler.Interval())
	err = scheduler.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// daemonConfigPath resolves the config file the daemon should watch.
func daemonConfigPath() (string, error) {
	if globalFlags.ConfigFile != "" {
		return globalFlags.ConfigFile, nil
	}
	loader, err := config.NewLoader("")
	if err != nil {
		return "", err
	}
	return loader.DefaultConfigPath(), nil
}

// reloadSyncConfig re-reads the config file and applies the settings
// the daemon can honor without a restart.
func reloadSyncConfig(path string, scheduler *appSync.Scheduler, container *application.Container) {
	logger := container.Logger()

	loader, err := config.NewLoader("")
	if err != nil {
		logger.Warn("config reload failed", "error", err.Error())
		return
	}
	cfg, err := loader.LoadFromFile(path)
	if err != nil {
		logger.Warn("config reload failed", "path", path, "error", err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("config reload rejected", "path", path, "error", err.Error())
		return
	}

	if cfg.Sync.Interval != scheduler.Interval() {
		scheduler.UpdateInterval(cfg.Sync.Interval)
		logger.Info("config reloaded", "path", path, "sync_interval", cfg.Sync.Interval.String())
	}
}
