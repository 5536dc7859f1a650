package ergast

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/http"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
)

var monaco = model.SelectionKey{Season: 2024, Round: 8}

const monacoRace = `{
  "season": "2024", "round": "8", "raceName": "Monaco Grand Prix",
  "Circuit": {"circuitId": "monaco", "circuitName": "Circuit de Monaco",
    "Location": {"lat": "43.7347", "long": "7.42056", "locality": "Monte-Carlo", "country": "Monaco"}},
  "date": "2024-05-26", "time": "13:00:00Z",
  "FirstPractice": {"date": "2024-05-24", "time": "11:30:00Z"},
  "SecondPractice": {"date": "2024-05-24", "time": "15:00:00Z"},
  "ThirdPractice": {"date": "2024-05-25", "time": "10:30:00Z"},
  "Qualifying": {"date": "2024-05-25", "time": "14:00:00Z"}
  %s
}`

func envelope(total int, body string) string {
	return fmt.Sprintf(`{"MRData": {"limit": "100", "offset": "0", "total": "%d", %s}}`, total, body)
}

func raceTable(races ...string) string {
	return `"RaceTable": {"season": "2024", "Races": [` + strings.Join(races, ",") + `]}`
}

const results = `, "Results": [
  {"number": "16", "position": "1", "positionText": "1", "points": "25",
   "Driver": {"driverId": "leclerc", "code": "LEC", "givenName": "Charles", "familyName": "Leclerc", "nationality": "Monegasque"},
   "Constructor": {"constructorId": "ferrari", "name": "Ferrari", "nationality": "Italian"},
   "grid": "1", "laps": "78", "status": "Finished", "Time": {"millis": "8415554", "time": "2:23:15.554"},
   "FastestLap": {"rank": "9", "lap": "52", "Time": {"time": "1:15.919"}}},
  {"number": "81", "position": "2", "positionText": "2", "points": "18",
   "Driver": {"driverId": "piastri", "code": "PIA", "givenName": "Oscar", "familyName": "Piastri"},
   "Constructor": {"constructorId": "mclaren", "name": "McLaren"},
   "grid": "2", "laps": "78", "status": "Finished", "Time": {"time": "+7.152"}},
  {"number": "4", "position": "3", "positionText": "R", "points": "0",
   "Driver": {"driverId": "norris", "code": "NOR", "givenName": "Lando", "familyName": "Norris"},
   "Constructor": {"constructorId": "mclaren", "name": "McLaren"},
   "grid": "4", "laps": "10", "status": "Accident"}
]`

// fakeAPI serves canned replies keyed by request path and records every
// requested URL.
type fakeAPI struct {
	replies  map[string]string
	requests []string
}

func (f *fakeAPI) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	f.requests = append(f.requests, r.URL.RequestURI())
	body, ok := f.replies[r.URL.Path]
	if !ok {
		nethttp.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func newProvider(t *testing.T, replies map[string]string) (*Provider, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{replies: replies}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewProvider(http.NewClient(), Config{BaseURL: srv.URL}), api
}

func TestProvider_CoversCatalog(t *testing.T) {
	p := NewProvider(nil, Config{})
	got := p.Sections()
	sort.Strings(got)
	want := section.Default().IDs()
	sort.Strings(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sections() mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_RaceResults(t *testing.T) {
	p, api := newProvider(t, map[string]string{
		"/2024/8/results.json": envelope(3, raceTable(fmt.Sprintf(monacoRace, results))),
	})

	payload, err := p.Fetch(context.Background(), section.RaceResults, monaco)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if payload.Shape != model.Tabular || payload.Table.Len() != 3 {
		t.Fatalf("Fetch() = %v with %d rows, want 3 tabular rows", payload.Shape, payload.Table.Len())
	}

	first := payload.Table.Record(0)
	if first["Driver ID"] != "leclerc" || first["Full Name"] != "Charles Leclerc" || first["Points"] != 25.0 {
		t.Errorf("first row = %v", first)
	}
	if first["Fastest Lap Time"] != "1:15.919" {
		t.Errorf("Fastest Lap Time = %v", first["Fastest Lap Time"])
	}
	if last := payload.Table.Record(2); last["Time"] != nil || last["Status"] != "Accident" {
		t.Errorf("retired row = %v", last)
	}
	if want := "/2024/8/results.json?limit=100&offset=0"; api.requests[0] != want {
		t.Errorf("request = %q, want %q", api.requests[0], want)
	}
}

func TestProvider_DerivedFromResults(t *testing.T) {
	p, _ := newProvider(t, map[string]string{
		"/2024/8/results.json": envelope(3, raceTable(fmt.Sprintf(monacoRace, results))),
	})
	ctx := context.Background()

	tests := []struct {
		id      string
		rows    int
		columns []string
	}{
		{section.ConstructorResults, 3, []string{"Driver ID", "Team", "Full Name", "Position", "Points", "Status", "Time"}},
		{section.ConstructorsData, 2, []string{"Team Name", "Constructor ID", "Nationality"}},
		{section.DriversData, 3, []string{"Number", "Driver ID", "Abbreviation", "First Name", "Last Name", "Full Name", "Team"}},
		{section.StatusData, 3, []string{"Abbreviation", "Full Name", "Status"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			payload, err := p.Fetch(ctx, tt.id, monaco)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if payload.Table.Len() != tt.rows {
				t.Errorf("rows = %d, want %d", payload.Table.Len(), tt.rows)
			}
			if diff := cmp.Diff(tt.columns, payload.Table.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProvider_SprintOnConventionalWeekend(t *testing.T) {
	p, _ := newProvider(t, map[string]string{
		"/2024/8/sprint.json": envelope(0, raceTable()),
	})

	_, err := p.Fetch(context.Background(), section.SprintResults, monaco)
	if !errors.Is(err, fetch.ErrNoData) {
		t.Errorf("Fetch() error = %v, want ErrNoData", err)
	}
}

func TestProvider_PitStopsMissing(t *testing.T) {
	race := fmt.Sprintf(monacoRace, `, "PitStops": []`)
	p, _ := newProvider(t, map[string]string{
		"/2024/8/pitstops.json": envelope(0, raceTable(race)),
	})

	_, err := p.Fetch(context.Background(), section.PitStops, monaco)
	if !errors.Is(err, fetch.ErrNoData) {
		t.Errorf("Fetch() error = %v, want ErrNoData", err)
	}
}

func TestProvider_LapTimesPaging(t *testing.T) {
	// Three timings split over two pages of size 2, lap 2 straddling them.
	page1 := fmt.Sprintf(monacoRace, `, "Laps": [
	  {"number": "1", "Timings": [{"driverId": "leclerc", "position": "1", "time": "1:56.440"}]},
	  {"number": "2", "Timings": [{"driverId": "leclerc", "position": "1", "time": "1:34.109"}]}]`)
	page2 := fmt.Sprintf(monacoRace, `, "Laps": [
	  {"number": "2", "Timings": [{"driverId": "piastri", "position": "2", "time": "1:34.550"}]}]`)

	api := &fakeAPI{}
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		api.requests = append(api.requests, r.URL.RequestURI())
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		race := page1
		if offset >= 2 {
			race = page2
		}
		w.Write([]byte(envelope(3, raceTable(race))))
	}))
	defer srv.Close()

	p := NewProvider(http.NewClient(), Config{BaseURL: srv.URL, PageSize: 2})
	payload, err := p.Fetch(context.Background(), section.LapTimes, monaco)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := [][]any{
		{"leclerc", 1, "1:56.440", 1},
		{"leclerc", 2, "1:34.109", 1},
		{"piastri", 2, "1:34.550", 2},
	}
	if diff := cmp.Diff(want, payload.Table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	wantReqs := []string{
		"/2024/8/laps.json?limit=2&offset=0",
		"/2024/8/laps.json?limit=2&offset=2",
	}
	if diff := cmp.Diff(wantReqs, api.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_CircuitInfo(t *testing.T) {
	p, _ := newProvider(t, map[string]string{
		"/2024/8.json": envelope(1, raceTable(fmt.Sprintf(monacoRace, ""))),
	})

	payload, err := p.Fetch(context.Background(), section.CircuitInfo, monaco)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if payload.Shape != model.Structured {
		t.Fatalf("Shape = %v, want structured", payload.Shape)
	}

	r := payload.Record
	wantKeys := []string{"name", "circuit", "country", "event", "format", "event_date", "location", "sessions"}
	if diff := cmp.Diff(wantKeys, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := r.Get("format"); v != "conventional" {
		t.Errorf("format = %v", v)
	}
	if v, _ := r.Get("event_date"); !v.(time.Time).Equal(time.Date(2024, 5, 26, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("event_date = %v", v)
	}

	v, _ := r.Get("sessions")
	sessions := v.(*model.Record)
	if diff := cmp.Diff([]string{"Session1", "Session2", "Session3", "Session4", "Session5"}, sessions.Keys()); diff != "" {
		t.Errorf("session keys mismatch (-want +got):\n%s", diff)
	}
	last, _ := sessions.Get("Session5")
	if name, _ := last.(*model.Record).Get("name"); name != "Race" {
		t.Errorf("Session5 name = %v, want Race", name)
	}

	loc, _ := r.Get("location")
	if lat, _ := loc.(*model.Record).Get("lat"); lat != 43.7347 {
		t.Errorf("lat = %v", lat)
	}
}

func TestProvider_Schedule(t *testing.T) {
	sprint := `{"season": "2024", "round": "6", "raceName": "Miami Grand Prix",
	  "Circuit": {"circuitName": "Miami International Autodrome", "Location": {"locality": "Miami", "country": "USA"}},
	  "date": "2024-05-05", "time": "20:00:00Z",
	  "FirstPractice": {"date": "2024-05-03", "time": "16:30:00Z"},
	  "SprintQualifying": {"date": "2024-05-03", "time": "20:30:00Z"},
	  "Sprint": {"date": "2024-05-04", "time": "16:00:00Z"},
	  "Qualifying": {"date": "2024-05-04", "time": "20:00:00Z"}}`
	p, _ := newProvider(t, map[string]string{
		"/2024.json": envelope(2, raceTable(sprint, fmt.Sprintf(monacoRace, ""))),
	})

	events, err := p.Schedule(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Schedule() returned %d events, want 2", len(events))
	}

	miami := events[0]
	if !miami.IsSprint() || events[1].IsSprint() {
		t.Errorf("IsSprint() = %v/%v, want true/false", miami.IsSprint(), events[1].IsSprint())
	}
	var names []string
	for _, s := range miami.Sessions {
		names = append(names, s.Name)
	}
	want := []string{"Practice 1", "Sprint Qualifying", "Sprint", "Qualifying", "Race"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}

	payload, err := p.Fetch(context.Background(), section.SeasonData, monaco)
	if err != nil {
		t.Fatalf("Fetch(season_data) error = %v", err)
	}
	if payload.Table.Len() != 2 {
		t.Errorf("season_data rows = %d, want 2", payload.Table.Len())
	}
}

func TestProvider_EventLookup(t *testing.T) {
	p, _ := newProvider(t, map[string]string{
		"/2024.json":    envelope(1, raceTable(fmt.Sprintf(monacoRace, ""))),
		"/2024/8.json":  envelope(1, raceTable(fmt.Sprintf(monacoRace, ""))),
		"/2024/30.json": envelope(0, raceTable()),
	})
	ctx := context.Background()

	e, err := p.EventByName(ctx, 2024, "monaco")
	if err != nil || e.Round != 8 {
		t.Errorf("EventByName() = %d, %v", e.Round, err)
	}
	if _, err := p.EventByName(ctx, 2024, "Las Vegas"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("EventByName() error = %v, want ErrEventNotFound", err)
	}

	e, err = p.EventByRound(ctx, monaco)
	if err != nil || e.Name != "Monaco Grand Prix" {
		t.Errorf("EventByRound() = %q, %v", e.Name, err)
	}
	if _, err := p.EventByRound(ctx, model.SelectionKey{Season: 2024, Round: 30}); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("EventByRound() error = %v, want ErrEventNotFound", err)
	}
}

func TestProvider_UpstreamError(t *testing.T) {
	p, _ := newProvider(t, map[string]string{})

	_, err := p.Fetch(context.Background(), section.QualifyingResults, monaco)
	var statusErr *http.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != nethttp.StatusNotFound {
		t.Errorf("Fetch() error = %v, want 404 StatusError", err)
	}
}
