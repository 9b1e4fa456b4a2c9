package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// StatusInfo holds the status report for JSON output.
type StatusInfo struct {
	DatabasePath    string   `json:"database_path"`
	StorageState    string   `json:"storage_state"`
	Products        int      `json:"products"`
	Sales           int      `json:"sales"`
	PendingProducts int      `json:"pending_products"`
	PendingSales    int      `json:"pending_sales"`
	SyncEndpoint    string   `json:"sync_endpoint,omitempty"`
	SyncInterval    string   `json:"sync_interval"`
	Endpoints       []string `json:"endpoints"`
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local data and sync status",
		Long: `Display the state of the local database: how many products and
sales exist, how many of them still wait to be synchronized, and how
synchronization is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := GetFormatter()

	container, err := requireStorage(ctx)
	if err != nil {
		return err
	}

	products, err := container.CatalogService().ListProducts(ctx)
	if err != nil {
		return err
	}
	sales, err := container.SalesService().ListSales(ctx)
	if err != nil {
		return err
	}
	pendingProducts, err := container.CatalogService().PendingCount(ctx)
	if err != nil {
		return err
	}
	pendingSales, err := container.SalesService().PendingCount(ctx)
	if err != nil {
		return err
	}

	cfg := container.Config()
	info := StatusInfo{
		DatabasePath:    container.StorageEngine().Path(),
		StorageState:    string(container.StorageEngine().State()),
		Products:        len(products),
		Sales:           len(sales),
		PendingProducts: pendingProducts,
		PendingSales:    pendingSales,
		SyncEndpoint:    cfg.Sync.Endpoint,
		SyncInterval:    cfg.Sync.Interval.String(),
		Endpoints:       container.EndpointRegistry().List(),
	}

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(info)
	}

	formatter.Header("Ventasync Status")
	formatter.Println("")
	formatter.SubHeader("Storage")
	formatter.Item("Database", info.DatabasePath)
	formatter.Item("State", info.StorageState)
	formatter.Println("")
	formatter.SubHeader("Data")
	formatter.Item("Products", strconv.Itoa(info.Products))
	formatter.Item("Sales", strconv.Itoa(info.Sales))
	formatter.Println("")
	formatter.SubHeader("Synchronization")
	endpoint := info.SyncEndpoint
	if endpoint == "" {
		endpoint = formatter.Dim("(not configured)")
	}
	formatter.Item("Endpoint", endpoint)
	formatter.Item("Interval", info.SyncInterval)
	formatter.Item("Pending products", strconv.Itoa(info.PendingProducts))
	formatter.Item("Pending sales", strconv.Itoa(info.PendingSales))

	if info.PendingProducts+info.PendingSales > 0 {
		formatter.Println("")
		formatter.Info("Run 'ventasync sync' to push pending changes")
	}

	return nil
}
