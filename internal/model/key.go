package model

import "fmt"

// SelectionKey identifies the season and event a set of sections is fetched for.
//
// Two keys are equal iff both fields are equal, so SelectionKey can be
// compared with == and used as a map key.
type SelectionKey struct {
	// Season is the championship year, e.g. 2024.
	Season int

	// Round is the event's round number within the season (1-indexed).
	Round int
}

// IsZero reports whether no scope has been chosen yet.
func (k SelectionKey) IsZero() bool {
	return k.Season == 0 && k.Round == 0
}

// Valid reports whether the key names a plausible championship event.
// The first world championship season was 1950.
func (k SelectionKey) Valid() bool {
	return k.Season >= 1950 && k.Round >= 1
}

func (k SelectionKey) String() string {
	return fmt.Sprintf("%d round %d", k.Season, k.Round)
}
