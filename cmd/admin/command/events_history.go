package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/store"
)

var eventsHistoryParams = struct {
	Limit int
}{}

var eventsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analysis runs",
	Long:  "The history command lists the most recent analysis runs across all events",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listHistory) },
}

func init() {
	eventsHistoryCmd.Flags().IntVar(&eventsHistoryParams.Limit, "limit", 20, "Maximum number of runs to list")

	eventsCmd.AddCommand(eventsHistoryCmd)
}

func listHistory(repo events.HistoryRepository) error {
	page := store.DefaultPagination().WithLimit(eventsHistoryParams.Limit)
	records, err := repo.ListRecent(context.TODO(), page)
	if err != nil {
		return err
	}

	for _, record := range records {
		classification := "-"
		if record.Classification != nil {
			classification = *record.Classification
		}

		fmt.Printf("%s %s %-6s %-10s %s\n", record.EventId.Hex(), record.CreatedTime.Format("2006-01-02 15:04"), classification, record.Reason, record.RunId)
	}
	fmt.Printf("Found %v runs\n", len(records))

	return nil
}
