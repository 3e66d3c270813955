package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Self-hosted single-shopper storefront with a WhatsApp order handoff",
	Long: `Storefront serves a small product catalog from static JSON files and
keeps one persistent shopping cart. Orders are handed off through a
pre-filled WhatsApp link; there is no payment processing and no
accounts, just a catalog, a cart, and a confirmation message.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".storefront.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
