package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/store"
)

var eventsListParams = struct {
	Type      string
	Processed bool
	Limit     int
}{}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Long:  "The list command is used to retrieve recent events, most recent first",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listEvents) },
}

func init() {
	eventsListCmd.Flags().StringVar(&eventsListParams.Type, "type", "", "Only list events of this type (meal, activity, note)")
	eventsListCmd.Flags().BoolVar(&eventsListParams.Processed, "processed", false, "Only list events that have an analysis")
	eventsListCmd.Flags().IntVar(&eventsListParams.Limit, "limit", 100, "Maximum number of events to list")

	eventsCmd.AddCommand(eventsListCmd)
}

func listEvents(service events.Service) error {
	filter := events.Filter{}
	if eventsListParams.Type != "" {
		eventType := events.Type(eventsListParams.Type)
		filter.Type = &eventType
	}
	if eventsListParams.Processed {
		filter.Processed = &eventsListParams.Processed
	}

	page := store.DefaultPagination().WithLimit(eventsListParams.Limit)
	list, err := service.List(context.TODO(), &filter, page)
	if err != nil {
		return err
	}

	for _, event := range list {
		classification := "-"
		if event.AIClassification != nil {
			classification = *event.AIClassification
		}

		fmt.Printf("%s %s %-8s %-6s %s\n", event.Id.Hex(), event.EventTime.Format("2006-01-02 15:04"), event.Type, classification, event.Description)
	}
	fmt.Printf("Found %v events\n", len(list))

	return nil
}
