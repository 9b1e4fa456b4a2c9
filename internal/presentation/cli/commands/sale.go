package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ventasync/ventasync/internal/presentation/cli/output"
)

// NewSaleCmd creates the sale command group.
func NewSaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and list sales",
		Long: `Record and list sales.

A sale references a product by id; its total is derived from the
product's unit price at recording time and never recomputed when the
price later changes.`,
	}

	cmd.AddCommand(newSaleAddCmd())
	cmd.AddCommand(newSaleListCmd())
	cmd.AddCommand(newSaleUpdateCmd())
	cmd.AddCommand(newSaleRemoveCmd())

	return cmd
}

// newSaleAddCmd creates the 'sale add' command.
func newSaleAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> <quantity>",
		Short: "Record a sale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}

			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			sale, err := container.SalesService().CreateSale(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(sale)
			}
			formatter.Success("Sale recorded: %s", sale.ID)
			formatter.Item("Product", sale.ProductID)
			formatter.Item("Quantity", strconv.Itoa(sale.Quantity))
			formatter.Item("Total", formatPrice(sale.Total))
			return nil
		},
	}
}

// newSaleListCmd creates the 'sale list' command.
func newSaleListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			sales, err := container.SalesService().ListSalesWithProduct(cmd.Context())
			if err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(sales)
			}

			if len(sales) == 0 {
				formatter.Info("No sales found")
				return nil
			}

			table := output.TableData{
				Columns: []output.TableColumn{
					{Header: "ID"},
					{Header: "PRODUCT"},
					{Header: "QTY", Align: output.AlignRight},
					{Header: "TOTAL", Align: output.AlignRight},
					{Header: "SYNC"},
				},
			}
			for _, s := range sales {
				productName := formatter.Dim("(deleted product)")
				if s.ProductName != nil {
					productName = *s.ProductName
				}
				table.Rows = append(table.Rows, []string{
					s.ID,
					productName,
					strconv.Itoa(s.Quantity),
					formatPrice(s.Total),
					string(s.SyncStatus),
				})
			}
			return formatter.Table(table)
		},
	}

	return cmd
}

// newSaleUpdateCmd creates the 'sale update' command.
func newSaleUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <quantity>",
		Short: "Change a sale's quantity",
		Long: `Change a sale's quantity.

The total is re-derived from the referenced product's current unit
price.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}

			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			sale, err := container.SalesService().UpdateSaleQuantity(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(sale)
			}
			formatter.Success("Sale updated: %s", sale.ID)
			formatter.Item("Quantity", strconv.Itoa(sale.Quantity))
			formatter.Item("Total", formatPrice(sale.Total))
			return nil
		},
	}
}

// newSaleRemoveCmd creates the 'sale rm' command.
func newSaleRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a sale",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := requireStorage(cmd.Context())
			if err != nil {
				return err
			}

			if err := container.SalesService().DeleteSale(cmd.Context(), args[0]); err != nil {
				return err
			}

			formatter := GetFormatter()
			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(map[string]any{"id": args[0], "deleted": true})
			}
			formatter.Success("Sale deleted: %s", args[0])
			return nil
		},
	}
}
