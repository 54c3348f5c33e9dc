package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucolog/insights/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "AI usage and cost",
	Long:  "The usage command is used to report AI token usage and estimated cost",
}

var usageReportParams = struct {
	Days int
}{}

var usageReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate usage over the last N days",
	Long:  "The report command aggregates token usage and estimated cost over the last N days",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(reportUsage) },
}

func init() {
	usageReportCmd.Flags().IntVar(&usageReportParams.Days, "days", 30, "Number of days to include")

	usageCmd.AddCommand(usageReportCmd)
	rootCmd.AddCommand(usageCmd)
}

func reportUsage(service usage.Service) error {
	end := time.Now()
	start := end.AddDate(0, 0, -usageReportParams.Days)

	report, err := service.Report(context.TODO(), start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Usage %s to %s (%s)\n", report.Start.Format(time.DateOnly), report.End.Format(time.DateOnly), report.TimeZone)
	fmt.Printf("Calls: %v  Input: %v  Output: %v  Cost: $%.4f\n", report.Totals.Calls, report.Totals.InputTokens, report.Totals.OutputTokens, report.Totals.CostUSD)

	for _, model := range report.Models {
		fmt.Printf("  %-24s calls %-5v tokens %-8v $%.4f\n", model.Model, model.Calls, model.TotalTokens, model.CostUSD)
	}
	for _, day := range report.Days {
		fmt.Printf("  %s calls %-5v tokens %-8v $%.4f\n", day.Day, day.Calls, day.TotalTokens, day.CostUSD)
	}

	return nil
}
