package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kodomoshop/storefront/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize storefront configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure your shop and generates a .storefront.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
