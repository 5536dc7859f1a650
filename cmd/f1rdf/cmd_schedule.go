package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scheduleFlags struct {
	season int
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the event calendar of a season",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVarP(&scheduleFlags.season, "season", "s", 0, "Season year (default from config)")
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	season := scheduleFlags.season
	if season == 0 {
		season = settings.DefaultSeason
	}

	events, err := newProvider(settings).Schedule(cmd.Context(), season)
	if err != nil {
		return fmt.Errorf("load %d calendar: %w", season, err)
	}
	if len(events) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No events found for %d\n", season)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROUND\tEVENT\tLOCATION\tCOUNTRY\tDATE\tFORMAT")
	for _, e := range events {
		format := "conventional"
		if e.IsSprint() {
			format = "sprint"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.Round, e.Name, e.Locality, e.Country, e.Date.Format("2006-01-02"), format)
	}
	return w.Flush()
}
