package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ShopName:   "Storefront",
		Currency:   "৳",
		Port:       8420,
		DataDir:    "data",
		CatalogDir: "data/catalog",
		Mirror:     MirrorFile,
		MirrorPath: "data/cart.json",
		AllowAll:   false,
	}
}
