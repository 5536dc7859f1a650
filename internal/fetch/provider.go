package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/f1rdf/internal/model"
)

// ErrNoData may be returned by a Provider to signal that a section
// legitimately has no data for the scope. It yields an Empty outcome, not a
// Failure.
var ErrNoData = errors.New("no data")

// Provider retrieves one section's payload for a scope.
//
// A nil or empty payload means "no data". Any other error is a provider
// failure. The orchestrator calls Fetch exactly once per section per batch
// and never retries.
type Provider interface {
	Fetch(ctx context.Context, sectionID string, key model.SelectionKey) (model.Payload, error)
}

// SectionFunc fetches a single section for a scope.
type SectionFunc func(ctx context.Context, key model.SelectionKey) (model.Payload, error)

// Dispatch is a Provider built from a section ID to SectionFunc table.
//
//	provider := fetch.Dispatch{
//	    "race_results": fetchResults,
//	    "circuit_info": fetchCircuit,
//	}
type Dispatch map[string]SectionFunc

// Fetch calls the function registered for sectionID.
func (d Dispatch) Fetch(ctx context.Context, sectionID string, key model.SelectionKey) (model.Payload, error) {
	fn, ok := d[sectionID]
	if !ok {
		return model.Payload{}, fmt.Errorf("no fetcher registered for section %q", sectionID)
	}
	return fn(ctx, key)
}
