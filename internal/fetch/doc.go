// Package fetch provides the batch orchestration logic for fetching race
// data sections from a data provider.
//
// # Orchestrator
//
// The Orchestrator drives one batch:
//
//  1. Validate the selection (at least one registered section)
//  2. Visit the selected sections in registry order
//  3. Call the Provider once per section
//  4. Turn errors into Failure outcomes and missing data into Empty outcomes
//  5. Report progress after every section
//
// A failing section never stops its siblings: a batch of N sections with K
// failures still yields N-K usable results.
//
// # Basic Usage
//
//	orch := fetch.NewOrchestrator(section.Default(), provider)
//
//	cache, err := orch.RunBatch(ctx, []string{"race_results", "lap_times"}, key,
//	    func(p fetch.Progress) {
//	        fmt.Printf("%d/%d %s\n", p.Completed, p.Total, p.SectionID)
//	    })
//	if errors.Is(err, fetch.ErrNothingSelected) {
//	    // nothing to do
//	}
//
// # Concurrency
//
// Sections are fetched sequentially unless WithConcurrency is given a limit
// above one. Parallel batches produce the same cache as sequential ones;
// only the order of progress callbacks may differ.
//
// # Progress Tracking
//
// Besides the per-batch Progress callback, an optional event sink receives
// human-readable ProgressEvent lines:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package fetch
