package ergast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/f1rdf/internal/ergast/dto"
	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/http"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
)

// DefaultBaseURL is the public Jolpica mirror of the Ergast API.
const DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"

// MaxPageSize is the largest limit the API accepts.
const MaxPageSize = 100

// ErrEventNotFound is returned when a season calendar has no such round.
var ErrEventNotFound = errors.New("event not found")

// Config configures a Provider.
type Config struct {
	// BaseURL is the API root without a trailing slash.
	BaseURL string

	// PageSize is the limit used for paged listings, capped at MaxPageSize.
	PageSize int
}

// Provider fetches catalog sections from the API.
type Provider struct {
	client   *http.Client
	baseURL  string
	pageSize int
	dispatch fetch.Dispatch
}

// NewProvider creates a Provider. Zero Config fields take their defaults.
func NewProvider(client *http.Client, cfg Config) *Provider {
	if client == nil {
		client = http.NewClient()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	size := cfg.PageSize
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}

	p := &Provider{client: client, baseURL: base, pageSize: size}
	p.dispatch = fetch.Dispatch{
		section.RaceResults:          p.raceResults,
		section.DriverStandings:      p.driverStandings,
		section.CircuitInfo:          p.circuitInfo,
		section.ConstructorResults:   p.fromResults(dto.ConstructorResultsTable),
		section.ConstructorStandings: p.constructorStandings,
		section.ConstructorsData:     p.fromResults(dto.ConstructorsTable),
		section.DriversData:          p.fromResults(dto.DriversTable),
		section.LapTimes:             p.lapTimes,
		section.PitStops:             p.pitStops,
		section.QualifyingResults:    p.qualifying,
		section.RacesData:            p.fromSchedule(dto.RacesTable),
		section.SeasonData:           p.fromSchedule(dto.SeasonTable),
		section.SprintResults:        p.sprintResults,
		section.StatusData:           p.fromResults(dto.StatusTable),
	}
	return p
}

// Fetch implements fetch.Provider.
func (p *Provider) Fetch(ctx context.Context, sectionID string, key model.SelectionKey) (model.Payload, error) {
	return p.dispatch.Fetch(ctx, sectionID, key)
}

// Sections returns the IDs this provider can fetch.
func (p *Provider) Sections() []string {
	ids := make([]string, 0, len(p.dispatch))
	for id := range p.dispatch {
		ids = append(ids, id)
	}
	return ids
}

// Schedule returns the calendar of a season in round order.
func (p *Provider) Schedule(ctx context.Context, season int) ([]model.Event, error) {
	races, err := p.races(ctx, fmt.Sprintf("%d", season))
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, 0, len(races))
	for i := range races {
		events = append(events, races[i].ToEvent())
	}
	return events, nil
}

// EventByRound returns the calendar entry addressed by key.
func (p *Provider) EventByRound(ctx context.Context, key model.SelectionKey) (model.Event, error) {
	race, err := p.scheduleEntry(ctx, key)
	if err != nil {
		return model.Event{}, err
	}
	return race.ToEvent(), nil
}

// EventByName finds a season's event whose name contains name, ignoring
// case. "Monaco" matches "Monaco Grand Prix".
func (p *Provider) EventByName(ctx context.Context, season int, name string) (model.Event, error) {
	events, err := p.Schedule(ctx, season)
	if err != nil {
		return model.Event{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, e := range events {
		if strings.EqualFold(e.Name, needle) {
			return e, nil
		}
	}
	for _, e := range events {
		if needle != "" && strings.Contains(strings.ToLower(e.Name), needle) {
			return e, nil
		}
	}
	return model.Event{}, fmt.Errorf("%d %q: %w", season, name, ErrEventNotFound)
}

func (p *Provider) scheduleEntry(ctx context.Context, key model.SelectionKey) (*dto.Race, error) {
	races, err := p.races(ctx, eventPath(key, ""))
	if err != nil {
		return nil, err
	}
	if len(races) == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrEventNotFound)
	}
	return &races[0], nil
}

func (p *Provider) raceResults(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	race, err := p.eventRace(ctx, key, "results")
	if err != nil {
		return model.Payload{}, err
	}
	return model.TablePayload(dto.ResultsTable(race.Results)), nil
}

func (p *Provider) sprintResults(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	race, err := p.eventRace(ctx, key, "sprint")
	if err != nil {
		return model.Payload{}, err
	}
	if len(race.SprintResults) == 0 {
		return model.Payload{}, fetch.ErrNoData
	}
	return model.TablePayload(dto.ResultsTable(race.SprintResults)), nil
}

func (p *Provider) fromResults(convert func([]dto.Result) *model.Table) fetch.SectionFunc {
	return func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
		race, err := p.eventRace(ctx, key, "results")
		if err != nil {
			return model.Payload{}, err
		}
		return model.TablePayload(convert(race.Results)), nil
	}
}

func (p *Provider) fromSchedule(convert func([]dto.Race) *model.Table) fetch.SectionFunc {
	return func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
		races, err := p.races(ctx, fmt.Sprintf("%d", key.Season))
		if err != nil {
			return model.Payload{}, err
		}
		return model.TablePayload(convert(races)), nil
	}
}

func (p *Provider) circuitInfo(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	race, err := p.scheduleEntry(ctx, key)
	if err != nil {
		return model.Payload{}, err
	}
	return model.RecordPayload(race.CircuitRecord()), nil
}

func (p *Provider) qualifying(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	race, err := p.eventRace(ctx, key, "qualifying")
	if err != nil {
		return model.Payload{}, err
	}
	return model.TablePayload(dto.QualifyingTable(race.QualifyingResults)), nil
}

func (p *Provider) lapTimes(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	races, err := p.races(ctx, eventPath(key, "laps"))
	if err != nil {
		return model.Payload{}, err
	}
	return model.TablePayload(dto.LapTimesTable(races)), nil
}

func (p *Provider) pitStops(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	race, err := p.eventRace(ctx, key, "pitstops")
	if err != nil {
		return model.Payload{}, err
	}
	if len(race.PitStops) == 0 {
		return model.Payload{}, fetch.ErrNoData
	}
	return model.TablePayload(dto.PitStopsTable(race.PitStops)), nil
}

func (p *Provider) driverStandings(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	lists, err := p.standings(ctx, eventPath(key, "driverStandings"))
	if err != nil {
		return model.Payload{}, err
	}
	var rows []dto.DriverStanding
	for _, l := range lists {
		rows = append(rows, l.DriverStandings...)
	}
	return model.TablePayload(dto.DriverStandingsTable(rows)), nil
}

func (p *Provider) constructorStandings(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
	lists, err := p.standings(ctx, eventPath(key, "constructorStandings"))
	if err != nil {
		return model.Payload{}, err
	}
	var rows []dto.ConstructorStanding
	for _, l := range lists {
		rows = append(rows, l.ConstructorStandings...)
	}
	return model.TablePayload(dto.ConstructorStandingsTable(rows)), nil
}

// eventRace fetches a per-race listing and returns its single race. A
// listing with no race means the event has no such data yet.
func (p *Provider) eventRace(ctx context.Context, key model.SelectionKey, resource string) (*dto.Race, error) {
	races, err := p.races(ctx, eventPath(key, resource))
	if err != nil {
		return nil, err
	}
	if len(races) == 0 {
		return nil, fetch.ErrNoData
	}
	return &races[0], nil
}

func eventPath(key model.SelectionKey, resource string) string {
	path := fmt.Sprintf("%d/%d", key.Season, key.Round)
	if resource != "" {
		path += "/" + resource
	}
	return path
}
