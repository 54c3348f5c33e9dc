package command

import (
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Glucose events",
	Long:  "The events command is used to inspect and reprocess glucose events",
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
