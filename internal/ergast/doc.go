// Package ergast fetches race data sections from an Ergast-compatible F1
// API such as Jolpica (https://api.jolpi.ca/ergast/f1).
//
// Provider implements fetch.Provider: every section of the catalog maps to
// one API endpoint whose reply is converted into a table or record by the
// dto package. Listings are paged with limit/offset until the reported
// total is reached.
//
// # Basic Usage
//
//	client := http.NewClient(http.WithUserAgent("f1rdf"))
//	provider := ergast.NewProvider(client, ergast.Config{BaseURL: ergast.DefaultBaseURL})
//
//	events, err := provider.Schedule(ctx, 2024)
//	payload, err := provider.Fetch(ctx, section.RaceResults, events[7].Key())
//
// Sections that legitimately have nothing for an event (sprint results on
// a conventional weekend, pit stops for seasons without pit data, results
// of a race not yet run) return fetch.ErrNoData.
package ergast
