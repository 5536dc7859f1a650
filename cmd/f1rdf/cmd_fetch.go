package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/f1rdf/internal/ergast"
	"github.com/handiism/f1rdf/internal/export"
	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/session"
)

var fetchFlags struct {
	season   int
	round    int
	event    string
	sections string
	all      bool
	output   string
	files    bool
	workbook bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch sections for one event and write the export archive",
	Example: `  f1rdf fetch --season 2024 --event Monaco --sections race_results,circuit_info
  f1rdf fetch -s 2023 -r 22 --all --workbook -o ./exports`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.IntVarP(&fetchFlags.season, "season", "s", 0, "Season year (default from config)")
	f.IntVarP(&fetchFlags.round, "round", "r", 0, "Round number of the event")
	f.StringVarP(&fetchFlags.event, "event", "e", "", "Event name, e.g. \"Monaco\" (alternative to --round)")
	f.StringVar(&fetchFlags.sections, "sections", "", "Comma-separated section IDs (see 'f1rdf sections')")
	f.BoolVar(&fetchFlags.all, "all", false, "Fetch every section")
	f.StringVarP(&fetchFlags.output, "output", "o", "", "Output directory (overrides config)")
	f.BoolVar(&fetchFlags.files, "files", false, "Also write each section as its own file")
	f.BoolVar(&fetchFlags.workbook, "workbook", false, "Also write tabular sections as an .xlsx workbook")

	fetchCmd.MarkFlagsMutuallyExclusive("round", "event")
	fetchCmd.MarkFlagsMutuallyExclusive("sections", "all")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	season := fetchFlags.season
	if season == 0 {
		season = settings.DefaultSeason
	}
	provider := newProvider(settings)

	event, err := resolveEvent(ctx, provider, season)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	orchestrator := newOrchestrator(settings, provider, fetch.WithEvents(func(e fetch.ProgressEvent) {
		printEvent(out, e)
	}))

	sess := session.New(orchestrator.Registry())
	sess.SetScope(event.Key())
	if fetchFlags.all {
		sess.SelectAll()
	} else if err := sess.Select(orchestrator.Registry().ParseList(fetchFlags.sections)...); err != nil {
		return err
	}

	cache, err := fetch.Run(ctx, orchestrator, sess, nil)
	if errors.Is(err, fetch.ErrNothingSelected) {
		return errors.New("no data sections selected: use --sections or --all")
	}
	if err != nil {
		return err
	}

	dir := settings.OutputDir
	if fetchFlags.output != "" {
		dir = fetchFlags.output
	}
	saved, err := export.Save(ctx, dir, export.ArchiveName(event.Season, event.Name), cache, orchestrator.Registry(), export.SaveOptions{
		SectionFiles: fetchFlags.files || settings.WriteSectionFiles,
		Workbook:     fetchFlags.workbook || settings.WriteWorkbook,
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	printSummary(out, event, cache, saved)
	return nil
}

// resolveEvent finds the event addressed by --round or --event.
func resolveEvent(ctx context.Context, provider *ergast.Provider, season int) (model.Event, error) {
	switch {
	case fetchFlags.event != "":
		return provider.EventByName(ctx, season, fetchFlags.event)
	case fetchFlags.round > 0:
		key := model.SelectionKey{Season: season, Round: fetchFlags.round}
		if !key.Valid() {
			return model.Event{}, fmt.Errorf("invalid event %s", key)
		}
		return provider.EventByRound(ctx, key)
	default:
		return model.Event{}, errors.New("choose an event with --round or --event")
	}
}

func printEvent(w io.Writer, e fetch.ProgressEvent) {
	prefix := "›"
	switch e.Level {
	case fetch.LevelError:
		prefix = "✗"
	case fetch.LevelWarning:
		prefix = "!"
	case fetch.LevelSuccess:
		prefix = "✓"
	case fetch.LevelVerbose:
		return
	}
	fmt.Fprintf(w, "%s %s\n", prefix, e.Message)
}

func printSummary(w io.Writer, event model.Event, cache *session.Cache, saved *export.Saved) {
	fmt.Fprintf(w, "\n%s (%s)\n", event.Name, event.Key())
	fmt.Fprintf(w, "  fetched: %d  empty: %d  failed: %d\n",
		cache.Count(model.StatusSuccess), cache.Count(model.StatusEmpty), cache.Count(model.StatusFailure))
	for _, f := range saved.Report.Failed {
		fmt.Fprintf(w, "  ✗ %s: %s\n", f.ID, f.Message)
	}
	fmt.Fprintf(w, "  archive: %s\n", saved.Archive)
	for _, path := range saved.Sections {
		fmt.Fprintf(w, "  file:    %s\n", path)
	}
	if saved.Workbook != "" {
		fmt.Fprintf(w, "  workbook: %s\n", saved.Workbook)
	}
}
