package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .storefront.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to storefront! Let's configure your shop.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Shop name.
	namePrompt := promptui.Prompt{
		Label:   "Shop name",
		Default: cfg.ShopName,
	}
	shopName, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("shop name: %w", err)
	}
	cfg.ShopName = shopName

	// 2. WhatsApp number for order handoff.
	waPrompt := promptui.Prompt{
		Label: "WhatsApp number for order confirmation (digits only, with country code)",
		Validate: func(s string) error {
			for _, r := range s {
				if r < '0' || r > '9' {
					return fmt.Errorf("digits only")
				}
			}
			return nil
		},
	}
	waNumber, err := waPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("whatsapp number: %w", err)
	}
	cfg.WhatsAppNumber = waNumber

	// 3. Currency symbol.
	currencyPrompt := promptui.Prompt{
		Label:   "Currency symbol",
		Default: cfg.Currency,
	}
	currency, err := currencyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("currency: %w", err)
	}
	cfg.Currency = currency

	// 4. Catalog directory.
	catalogPrompt := promptui.Prompt{
		Label:   "Catalog directory (product JSON files)",
		Default: cfg.CatalogDir,
	}
	catalogDir, err := catalogPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	cfg.CatalogDir = catalogDir

	// 5. Cart mirror backend.
	mirrorPrompt := promptui.Select{
		Label: "Cart persistence backend",
		Items: []string{
			"file   — plain JSON file, easy to inspect",
			"sqlite — SQLite database, shared with handoff history",
		},
	}
	mirrorIdx, _, err := mirrorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mirror selection: %w", err)
	}
	backends := []MirrorBackend{MirrorFile, MirrorSQLite}
	cfg.Mirror = backends[mirrorIdx]

	// 6. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := cfg.Save(".storefront.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .storefront.yml")
	fmt.Printf("Put product JSON files in %s and run `storefront serve`.\n", cfg.CatalogDir)

	return cfg, nil
}
