// Package model defines the core data structures used throughout
// the f1rdf application.
//
// # Selection Key
//
// SelectionKey scopes every fetch and export to one (season, round) pair:
//
//	key := model.SelectionKey{Season: 2024, Round: 8}
//	fmt.Println(key) // "2024 round 8"
//
// # Payloads
//
// A section fetch yields one of two payload shapes:
//
//	table := model.NewTable("Driver", "Position")
//	table.Append("VER", 1)
//	payload := model.TablePayload(table)
//
//	record := model.NewRecord().Set("country", "Monaco")
//	payload = model.RecordPayload(record)
//
// # Outcomes
//
// Outcome is the tagged result of fetching one section: Success with a
// payload, Empty when the section has no data for the scope, or Failure
// with a human-readable message. Callers branch on Outcome.Status and never
// need to inspect error strings.
package model
