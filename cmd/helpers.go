package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/kodomoshop/storefront/internal/cart"
	"github.com/kodomoshop/storefront/internal/config"
	"github.com/kodomoshop/storefront/internal/db"
)

// openDatabase opens the shop database under the configured data dir.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.DataDir, "storefront.db"))
}

// newMirror builds the cart mirror selected by the configuration.
func newMirror(cfg *config.Config, database *db.DB) cart.Mirror {
	if cfg.Mirror == config.MirrorSQLite {
		return cart.NewSQLiteMirror(database)
	}
	return cart.NewFileMirror(cfg.MirrorPath)
}

// loadCartStore loads config, opens the backing store, and returns the cart
// plus a cleanup func. Used by the offline cart management commands.
func loadCartStore() (*cart.Store, *config.Config, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := cart.NewStore(newMirror(cfg, database))
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	return store, cfg, func() { database.Close() }, nil
}
