package section

import (
	"fmt"
	"strings"

	"github.com/handiism/f1rdf/internal/model"
)

// Section identifiers of the default catalog.
const (
	RaceResults          = "race_results"
	DriverStandings      = "driver_standings"
	CircuitInfo          = "circuit_info"
	ConstructorResults   = "constructor_results"
	ConstructorStandings = "constructor_standings"
	ConstructorsData     = "constructors_data"
	DriversData          = "drivers_data"
	LapTimes             = "lap_times"
	PitStops             = "pit_stops"
	QualifyingResults    = "qualifying_results"
	RacesData            = "races_data"
	SeasonData           = "season_data"
	SprintResults        = "sprint_results"
	StatusData           = "status_data"
)

// Descriptor describes one fetchable section.
type Descriptor struct {
	// ID is the stable unique key, also used as the export file stem.
	ID string

	// Label is the human-readable name.
	Label string

	// Icon is a cosmetic tag for display layers.
	Icon string

	// Shape tells the exporter how to serialize the section.
	Shape model.Shape
}

// Registry is an ordered, immutable set of Descriptors with unique IDs.
type Registry struct {
	descriptors []Descriptor
	index       map[string]int
}

// New builds a Registry from descriptors, keeping their order.
// It returns an error if an ID is empty or appears twice.
func New(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make([]Descriptor, 0, len(descriptors)),
		index:       make(map[string]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("section with label %q has no id", d.Label)
		}
		if _, dup := r.index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate section id %q", d.ID)
		}
		r.index[d.ID] = len(r.descriptors)
		r.descriptors = append(r.descriptors, d)
	}
	return r, nil
}

// MustNew is like New but panics on an invalid catalog.
func MustNew(descriptors ...Descriptor) *Registry {
	r, err := New(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = MustNew(
	Descriptor{RaceResults, "Race Results", "🏁", model.Tabular},
	Descriptor{DriverStandings, "Driver Standings", "🎖", model.Tabular},
	Descriptor{CircuitInfo, "Circuits Data", "🏁", model.Structured},
	Descriptor{ConstructorResults, "Constructor Results", "🏆", model.Tabular},
	Descriptor{ConstructorStandings, "Constructor Standings", "📊", model.Tabular},
	Descriptor{ConstructorsData, "Constructors Data", "🏗", model.Tabular},
	Descriptor{DriversData, "Drivers Data", "👨‍✈️", model.Tabular},
	Descriptor{LapTimes, "Lap Times", "⏱", model.Tabular},
	Descriptor{PitStops, "Pit Stops Data", "🔧", model.Tabular},
	Descriptor{QualifyingResults, "Qualifying Results", "⏳", model.Tabular},
	Descriptor{RacesData, "Races Data", "🚥", model.Tabular},
	Descriptor{SeasonData, "Season Data", "📅", model.Tabular},
	Descriptor{SprintResults, "Sprint Race Results", "⚡", model.Tabular},
	Descriptor{StatusData, "Status Data (Race Completion Status)", "✅", model.Tabular},
)

// Default returns the built-in catalog of race data sections.
func Default() *Registry {
	return defaultRegistry
}

// All returns the descriptors in registry order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// IDs returns the section IDs in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		ids[i] = d.ID
	}
	return ids
}

// Get looks up a descriptor by ID.
func (r *Registry) Get(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Len returns the number of sections.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Ordered returns the registered members of ids in registry order, and
// any ids that are not registered, in the order given.
func (r *Registry) Ordered(ids []string) (known, unknown []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if r.Contains(id) {
			want[id] = true
		} else {
			unknown = append(unknown, id)
		}
	}
	for _, d := range r.descriptors {
		if want[d.ID] {
			known = append(known, d.ID)
		}
	}
	return known, unknown
}

// ParseList splits a comma-separated list of section IDs. The word "all"
// selects every section in registry order. Blank entries are skipped;
// unregistered IDs are kept so callers can report them.
func (r *Registry) ParseList(list string) []string {
	var ids []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.EqualFold(part, "all"):
			return r.IDs()
		default:
			ids = append(ids, part)
		}
	}
	return ids
}
