package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kodomoshop/storefront/internal/cart"
	"github.com/kodomoshop/storefront/internal/catalog"
	"github.com/kodomoshop/storefront/internal/config"
	"github.com/kodomoshop/storefront/internal/handoff"
	"github.com/kodomoshop/storefront/internal/server"
	"github.com/kodomoshop/storefront/internal/storefront"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront server",
	Long:  `Starts the storefront HTTP server: shop page, catalog and cart API, and the WhatsApp order handoff.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Load the product catalog once; it is static for the process.
		cat, err := catalog.Load(cfg.CatalogDir)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		// Open database (handoff history, and the cart mirror when selected).
		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		cartStore, err := cart.NewStore(newMirror(cfg, database))
		if err != nil {
			return fmt.Errorf("initializing cart: %w", err)
		}
		renderer := cart.NewRenderer(cfg.Currency)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAll,
		}, database)

		registerAllRoutes(srv, cfg, cat, cartStore, renderer)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "storefront v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Shop: %s\n", cfg.ShopName)
		fmt.Fprintf(os.Stderr, "  Catalog: %s (%d products)\n", cfg.CatalogDir, cat.Len())
		fmt.Fprintf(os.Stderr, "  Cart: %d line(s), %s mirror\n", len(cartStore.Lines()), cfg.Mirror)

		return srv.Start()
	},
}

// registerAllRoutes wires up all feature routes.
func registerAllRoutes(srv *server.Server, cfg *config.Config, cat *catalog.Catalog, cartStore *cart.Store, renderer *cart.Renderer) {
	r := srv.Router()

	// Catalog
	catalog.RegisterRoutes(r, cat)

	// Cart: the catalog captures stock and price at add time.
	lookup := func(id string) (cart.AddRequest, bool) {
		p, ok := cat.ByID(id)
		if !ok {
			return cart.AddRequest{}, false
		}
		return cart.AddRequest{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Stock:    p.Stock,
			Price:    p.Price,
		}, true
	}
	cart.RegisterRoutes(r, cartStore, renderer, lookup, cfg.WhatsAppNumber)

	// Handoff history
	handoffStore := handoff.NewStore(srv.Database())
	handoff.RegisterRoutes(r, handoffStore, cartStore)

	// Shop page + cart change stream
	front := storefront.New(cat, cartStore, renderer, cfg.WhatsAppNumber, cfg.ShopName)
	front.RegisterRoutes(r)
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured HTTP port")
	rootCmd.AddCommand(serveCmd)
}
