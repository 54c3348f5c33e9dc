package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glucolog/insights/events"
)

var eventsRefreshStatsParams = struct {
	EventId string
	All     bool
}{}

var eventsRefreshStatsCmd = &cobra.Command{
	Use:   "refresh-stats [eventId]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Recompute event statistics from stored readings",
	Long:  "The refresh-stats command recomputes statistics for one event, or for every event with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			eventsRefreshStatsParams.EventId = args[0]
		}
		if eventsRefreshStatsParams.EventId == "" && !eventsRefreshStatsParams.All {
			return fmt.Errorf("an event id or --all is required")
		}
		return Run(refreshStats)
	},
}

func init() {
	eventsRefreshStatsCmd.Flags().BoolVar(&eventsRefreshStatsParams.All, "all", false, "Refresh statistics of all events")

	eventsCmd.AddCommand(eventsRefreshStatsCmd)
}

func refreshStats(service events.Service) error {
	if eventsRefreshStatsParams.All {
		updated, err := service.RefreshAllStats(context.TODO())
		if err != nil {
			return err
		}
		fmt.Printf("%v events were updated\n", updated)
		return nil
	}

	event, err := service.RefreshStats(context.TODO(), eventsRefreshStatsParams.EventId)
	if err != nil {
		return err
	}

	fmt.Printf("Readings: %v\n", event.Stats.ReadingCount)
	if event.Stats.Avg != nil {
		fmt.Printf("Average: %.1f mg/dL\n", *event.Stats.Avg)
	}

	return nil
}
