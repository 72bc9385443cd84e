package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wichananm65/craft-catalog/internal/catalog"
)

var classifyCategory string

var classifyCmd = &cobra.Command{
	Use:   "classify <name> [description]",
	Short: "Show the category, badge and order link for a product",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := catalog.Product{Name: args[0]}
		if len(args) > 1 {
			p.Description = args[1]
		}
		if strings.TrimSpace(classifyCategory) != "" {
			p.Category = &classifyCategory
		}

		l := classifier().Listing(p)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "category: %s (%s)\n", l.CategoryID, l.CategoryLabel)
		if l.Badge != nil {
			fmt.Fprintf(out, "badge:    %s\n", *l.Badge)
		} else {
			fmt.Fprintln(out, "badge:    none")
		}
		if l.OrderLink != nil {
			fmt.Fprintf(out, "order:    %s\n", *l.OrderLink)
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyCategory, "category", "", "explicit category hint")
}
