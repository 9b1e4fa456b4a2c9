package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/application/ports"
	"github.com/ventasync/ventasync/internal/domain/catalog"
	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// NewProductCmd creates the product command group.
func NewProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
		Long: `Manage the product catalog.

Products are stored locally and marked pending until the next sync
cycle pushes them to the remote endpoint.`,
	}

	cmd.AddCommand(newProductAddCmd())
	cmd.AddCommand(newProductListCmd())
	cmd.AddCommand(newProductUpdateCmd())
	cmd.AddCommand(newProductRemoveCmd())

	return cmd
}

// newProductAddCmd creates the 'product add' command.
func newProductAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <price>",
		Short: "Register a new product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[1], err)
			}

			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			product, err := container.CatalogService().CreateProduct(cmd.Context(), args[0], price)
			if err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(product)
			}
			formatter.Success("Product created: %s", product.ID)
			formatter.Item("Name", product.Name)
			formatter.Item("Price", formatPrice(product.Price))
			return nil
		},
	}
}

// newProductListCmd creates the 'product list' command.
func newProductListCmd() *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			var products []*catalog.Product
			if pendingOnly {
				products, err = container.CatalogService().ListPendingProducts(cmd.Context())
			} else {
				products, err = container.CatalogService().ListProducts(cmd.Context())
			}
			if err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(products)
			}

			if len(products) == 0 {
				formatter.Info("No products found")
				return nil
			}

			table := output.TableData{
				Columns: []output.TableColumn{
					{Header: "ID"},
					{Header: "NAME"},
					{Header: "PRICE", Align: output.AlignRight},
					{Header: "SYNC"},
				},
			}
			for _, p := range products {
				status := string(p.SyncStatus)
				if p.IsDeleted() {
					status += " (deleted)"
				}
				table.Rows = append(table.Rows, []string{
					p.ID,
					p.Name,
					formatPrice(p.Price),
					status,
				})
			}
			return formatter.Table(table)
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "show only records waiting to be synced")

	return cmd
}

// newProductUpdateCmd creates the 'product update' command.
func newProductUpdateCmd() *cobra.Command {
	var (
		name  string
		price float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product's name or price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := ports.ProductPatch{}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}
			if patch.Name == nil && patch.Price == nil {
				return fmt.Errorf("nothing to update: pass --name or --price")
			}

			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			product, err := container.CatalogService().UpdateProduct(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(product)
			}
			formatter.Success("Product updated: %s", product.ID)
			formatter.Item("Name", product.Name)
			formatter.Item("Price", formatPrice(product.Price))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new product name")
	cmd.Flags().Float64Var(&price, "price", 0, "new unit price")

	return cmd
}

// newProductRemoveCmd creates the 'product rm' command.
func newProductRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a product",
		Long: `Delete a product.

The product is soft-deleted locally and disappears from listings right
away; the record itself is removed only after the remote endpoint has
acknowledged the deletion during a sync cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			if err := container.CatalogService().DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(map[string]any{"id": args[0], "deleted": true})
			}
			formatter.Success("Product deleted: %s", args[0])
			return nil
		},
	}
}

// formatPrice renders a monetary amount for display.
func formatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
