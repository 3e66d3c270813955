package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kodomoshop/storefront/internal/catalog"
	"github.com/kodomoshop/storefront/internal/config"
	"github.com/kodomoshop/storefront/internal/progress"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with the product catalog files",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every catalog file",
	Long:  `Parses every product JSON file under the catalog directory and reports entries that would be skipped or mis-served.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		files, err := catalog.ListFiles(cfg.CatalogDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no catalog files under %s", cfg.CatalogDir)
		}

		reporter := progress.NewReporter()
		reporter.Start(len(files))

		seen := make(map[string]string) // product id -> file
		var problems []string
		total := 0

		for i, path := range files {
			reporter.Update(i+1, path)

			products, err := catalog.LoadFile(path)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", path, err))
				continue
			}

			for _, p := range products {
				total++
				switch {
				case p.ID == "":
					problems = append(problems, fmt.Sprintf("%s: product %q has no id", path, p.Name))
				case seen[p.ID] != "":
					problems = append(problems, fmt.Sprintf("%s: duplicate id %q (first seen in %s)", path, p.ID, seen[p.ID]))
				default:
					seen[p.ID] = path
				}
				if p.Name == "" {
					problems = append(problems, fmt.Sprintf("%s: product %q has no name", path, p.ID))
				}
				if p.Price < 0 {
					problems = append(problems, fmt.Sprintf("%s: product %q has negative price", path, p.ID))
				}
				if p.Stock < -1 {
					problems = append(problems, fmt.Sprintf("%s: product %q has invalid stock %d", path, p.ID, p.Stock))
				}
			}
		}
		reporter.Finish()

		fmt.Printf("Checked %d file(s), %d product(s).\n", len(files), total)
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "  %s\n", p)
			}
			return fmt.Errorf("%d problem(s) found", len(problems))
		}
		fmt.Println("Catalog is valid.")
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
	rootCmd.AddCommand(catalogCmd)
}
