package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kodomoshop/storefront/internal/cart"
	"github.com/kodomoshop/storefront/internal/catalog"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and manage the persistent cart from the command line",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart contents and totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, cleanup, err := loadCartStore()
		if err != nil {
			return err
		}
		defer cleanup()

		v := cart.Project(store.Lines(), cfg.WhatsAppNumber)
		if v.Empty {
			fmt.Println("Cart is empty.")
			return nil
		}

		for _, l := range v.Lines {
			limit := ""
			if l.AtStockLimit {
				limit = " (at stock limit)"
			}
			fmt.Printf("%d. %s [%s] x%d @ %g = %g%s\n",
				l.Index, l.Name, l.Category, l.Qty, l.UnitPrice, l.LineTotal, limit)
		}
		fmt.Printf("\nItems: %d  Total: %g%s\n", v.Badge, v.Total, cfg.Currency)
		if v.HandoffEnabled {
			fmt.Printf("Handoff: %s\n", v.HandoffURL)
		}
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [qty]",
	Short: "Add a catalog product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("qty must be a positive integer, got %q", args[1])
			}
			qty = n
		}

		store, cfg, cleanup, err := loadCartStore()
		if err != nil {
			return err
		}
		defer cleanup()

		cat, err := catalog.Load(cfg.CatalogDir)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		p, ok := cat.ByID(args[0])
		if !ok {
			return fmt.Errorf("no product %q in the catalog", args[0])
		}

		err = store.Add(cart.AddRequest{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Stock:    p.Stock,
			Price:    p.Price,
			Qty:      qty,
		})
		if errors.Is(err, cart.ErrOutOfStock) || errors.Is(err, cart.ErrStockLimitExceeded) {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Added %s x%d.\n", p.Name, qty)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := loadCartStore()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s.\n", args[0])
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := loadCartStore()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Cart cleared.")
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
