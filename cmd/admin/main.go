package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wichananm65/craft-catalog/internal/catalog"
)

var (
	baseURL   string
	orderPh   string
	imageBase string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "catalog-admin",
	Short: "Manage the craft catalog from a terminal",
	Long: `catalog-admin talks to a running catalog server.

Available subcommands:
  shell    - interactive session: log in, list, add, update and delete products
  classify - show how a product name would be categorised and badged`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("CATALOG_URL", "http://localhost:8080"), "catalog server origin")
	rootCmd.PersistentFlags().StringVar(&orderPh, "phone", os.Getenv("ORDER_PHONE"), "seller phone number for order links")
	rootCmd.PersistentFlags().StringVar(&imageBase, "image-base", "", "base URL for store-relative image paths (defaults to --base-url)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(shellCmd, classifyCmd)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func classifier() *catalog.Classifier {
	base := imageBase
	if base == "" {
		base = baseURL
	}
	return catalog.New(catalog.Config{ImageBaseURL: base, OrderPhone: orderPh})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
