package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glucolog/insights/analysis"
)

var eventsAnalyzeParams = struct {
	EventId string
	Reason  string
	Model   string
}{}

var eventsAnalyzeCmd = &cobra.Command{
	Use:   "analyze {eventId}",
	Args:  cobra.ExactArgs(1),
	Short: "Run AI analysis for an event",
	Long:  "The analyze command runs the AI analysis pipeline for a single event",
	RunE: func(cmd *cobra.Command, args []string) error {
		eventsAnalyzeParams.EventId = args[0]
		return Run(analyzeEvent)
	},
}

func init() {
	eventsAnalyzeCmd.Flags().StringVar(&eventsAnalyzeParams.Reason, "reason", "manual", "Reason recorded with the analysis run")
	eventsAnalyzeCmd.Flags().StringVar(&eventsAnalyzeParams.Model, "model", "", "Override the configured model for this run")

	eventsCmd.AddCommand(eventsAnalyzeCmd)
}

func analyzeEvent(service analysis.Service) error {
	result, err := service.AnalyzeEvent(context.TODO(), eventsAnalyzeParams.EventId, eventsAnalyzeParams.Reason, eventsAnalyzeParams.Model)
	if err != nil {
		return err
	}

	fmt.Printf("Outcome: %s\n", result.Outcome)
	if result.Classification != nil {
		fmt.Printf("Classification: %s\n", *result.Classification)
	}
	if result.Outcome == analysis.OutcomeAnalyzed {
		fmt.Println(result.Text)
	}

	return nil
}
