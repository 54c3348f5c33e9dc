package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glucolog/insights/usage"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show the model price table",
	Long:  "The pricing command prints the USD price per million tokens for every known model",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(printPricing) },
}

func init() {
	rootCmd.AddCommand(pricingCmd)
}

func printPricing(table usage.PriceTable) error {
	for _, price := range table.Models() {
		fmt.Printf("%-24s input $%s  output $%s\n", price.Model, price.InputPerMillion.StringFixed(2), price.OutputPerMillion.StringFixed(2))
	}

	return nil
}
