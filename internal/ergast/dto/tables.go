package dto

import (
	"fmt"
	"time"

	"github.com/handiism/f1rdf/internal/model"
)

// Column sets of the tabular sections.
var (
	ResultColumns = []string{
		"Position", "Position Text", "Number", "Driver ID", "Abbreviation",
		"First Name", "Last Name", "Full Name", "Nationality", "Team",
		"Grid", "Laps", "Status", "Time", "Points", "Fastest Lap", "Fastest Lap Time",
	}
	DriverStandingColumns      = []string{"Driver ID", "Abbreviation", "Full Name", "Team", "Points", "Position", "Wins"}
	ConstructorResultColumns   = []string{"Driver ID", "Team", "Full Name", "Position", "Points", "Status", "Time"}
	ConstructorStandingColumns = []string{"Position", "Constructor ID", "Team", "Nationality", "Points", "Wins"}
	ConstructorColumns         = []string{"Team Name", "Constructor ID", "Nationality"}
	DriverColumns              = []string{"Number", "Driver ID", "Abbreviation", "First Name", "Last Name", "Full Name", "Team"}
	LapTimeColumns             = []string{"Driver", "Lap Number", "Lap Time", "Position"}
	PitStopColumns             = []string{"Driver", "Lap Number", "Stop", "Time Of Day", "Duration"}
	QualifyingColumns          = []string{"Abbreviation", "Driver ID", "Full Name", "Team", "Q1 Time", "Q2 Time", "Q3 Time", "Position"}
	RaceColumns                = []string{"Round", "Event Name", "Circuit", "Location", "Country", "Format", "First Session", "Last Session"}
	SeasonColumns              = []string{"Round", "Event Name", "Location", "Country", "First Session", "Last Session"}
	StatusColumns              = []string{"Abbreviation", "Full Name", "Status"}
)

// ResultsTable converts a race or sprint classification.
func ResultsTable(results []Result) *model.Table {
	t := model.NewTable(ResultColumns...)
	for _, r := range results {
		var fastestLap, fastestTime any
		if r.FastestLap != nil {
			fastestLap = Int(r.FastestLap.Lap)
			if r.FastestLap.Time != nil {
				fastestTime = Text(r.FastestLap.Time.Time)
			}
		}
		t.Append(
			Int(r.Position), Text(r.PositionText), Int(r.Number), r.Driver.DriverID, Text(r.Driver.Code),
			Text(r.Driver.GivenName), Text(r.Driver.FamilyName), r.Driver.FullName(), Text(r.Driver.Nationality), r.Constructor.Name,
			Int(r.Grid), Int(r.Laps), Text(r.Status), r.finishTime(), Float(r.Points), fastestLap, fastestTime,
		)
	}
	return t
}

func (r Result) finishTime() any {
	if r.Time == nil {
		return nil
	}
	return Text(r.Time.Time)
}

// ConstructorResultsTable lists each entry's team result.
func ConstructorResultsTable(results []Result) *model.Table {
	t := model.NewTable(ConstructorResultColumns...)
	for _, r := range results {
		t.Append(r.Driver.DriverID, r.Constructor.Name, r.Driver.FullName(), Int(r.Position), Float(r.Points), Text(r.Status), r.finishTime())
	}
	return t
}

// ConstructorsTable lists the distinct teams of a classification in order of
// first appearance.
func ConstructorsTable(results []Result) *model.Table {
	t := model.NewTable(ConstructorColumns...)
	seen := make(map[string]bool)
	for _, r := range results {
		id := r.Constructor.ConstructorID
		if id == "" {
			id = r.Constructor.Name
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		t.Append(r.Constructor.Name, Text(r.Constructor.ConstructorID), Text(r.Constructor.Nationality))
	}
	return t
}

// DriversTable lists the distinct drivers of a classification.
func DriversTable(results []Result) *model.Table {
	t := model.NewTable(DriverColumns...)
	seen := make(map[string]bool)
	for _, r := range results {
		if seen[r.Driver.DriverID] {
			continue
		}
		seen[r.Driver.DriverID] = true
		t.Append(Int(r.Number), r.Driver.DriverID, Text(r.Driver.Code), Text(r.Driver.GivenName), Text(r.Driver.FamilyName), r.Driver.FullName(), r.Constructor.Name)
	}
	return t
}

// StatusTable lists each driver's completion status.
func StatusTable(results []Result) *model.Table {
	t := model.NewTable(StatusColumns...)
	for _, r := range results {
		t.Append(Text(r.Driver.Code), r.Driver.FullName(), Text(r.Status))
	}
	return t
}

// QualifyingTable converts a qualifying classification.
func QualifyingTable(results []QualifyingResult) *model.Table {
	t := model.NewTable(QualifyingColumns...)
	for _, q := range results {
		t.Append(Text(q.Driver.Code), q.Driver.DriverID, q.Driver.FullName(), q.Constructor.Name, Text(q.Q1), Text(q.Q2), Text(q.Q3), Int(q.Position))
	}
	return t
}

// LapTimesTable flattens the lap-by-lap timings of one or more pages of the
// same race, one row per driver per lap.
func LapTimesTable(races []Race) *model.Table {
	t := model.NewTable(LapTimeColumns...)
	for _, race := range races {
		for _, lap := range race.Laps {
			n := Int(lap.Number)
			for _, timing := range lap.Timings {
				t.Append(timing.DriverID, n, Text(timing.Time), Int(timing.Position))
			}
		}
	}
	return t
}

// PitStopsTable converts the pit stops of a race.
func PitStopsTable(stops []PitStop) *model.Table {
	t := model.NewTable(PitStopColumns...)
	for _, p := range stops {
		t.Append(p.DriverID, Int(p.Lap), Int(p.Stop), Text(p.Time), Text(p.Duration))
	}
	return t
}

// DriverStandingsTable converts the drivers' championship after a round.
func DriverStandingsTable(standings []DriverStanding) *model.Table {
	t := model.NewTable(DriverStandingColumns...)
	for _, s := range standings {
		var team any
		if len(s.Constructors) > 0 {
			team = s.Constructors[len(s.Constructors)-1].Name
		}
		t.Append(s.Driver.DriverID, Text(s.Driver.Code), s.Driver.FullName(), team, Float(s.Points), Int(s.Position), Int(s.Wins))
	}
	return t
}

// ConstructorStandingsTable converts the constructors' championship after a
// round.
func ConstructorStandingsTable(standings []ConstructorStanding) *model.Table {
	t := model.NewTable(ConstructorStandingColumns...)
	for _, s := range standings {
		t.Append(Int(s.Position), s.Constructor.ConstructorID, s.Constructor.Name, Text(s.Constructor.Nationality), Float(s.Points), Int(s.Wins))
	}
	return t
}

// RacesTable lists every event of a season calendar.
func RacesTable(races []Race) *model.Table {
	t := model.NewTable(RaceColumns...)
	for i := range races {
		e := races[i].ToEvent()
		t.Append(e.Round, e.Name, e.Circuit, e.Locality, e.Country, eventFormat(e), sessionTime(e.FirstSession()), sessionTime(e.Date))
	}
	return t
}

// SeasonTable is the condensed season calendar.
func SeasonTable(races []Race) *model.Table {
	t := model.NewTable(SeasonColumns...)
	for i := range races {
		e := races[i].ToEvent()
		t.Append(e.Round, e.Name, e.Locality, e.Country, sessionTime(e.FirstSession()), sessionTime(e.Date))
	}
	return t
}

// CircuitRecord describes an event's venue and weekend schedule.
//
// The record keys are name, circuit, country, event, format, event_date,
// location{lat,long} and sessions{Session1..SessionN{name,date,utc}}.
func (r *Race) CircuitRecord() *model.Record {
	e := r.ToEvent()

	sessions := model.NewRecord()
	for i, s := range e.Sessions {
		entry := model.NewRecord().
			Set("name", s.Name).
			Set("date", s.Start.Format(time.DateOnly))
		if s.HasTime {
			entry.Set("utc", s.Start)
		} else {
			entry.Set("utc", nil)
		}
		sessions.Set(fmt.Sprintf("Session%d", i+1), entry)
	}

	return model.NewRecord().
		Set("name", r.Circuit.Location.Locality).
		Set("circuit", r.Circuit.CircuitName).
		Set("country", r.Circuit.Location.Country).
		Set("event", r.RaceName).
		Set("format", eventFormat(e)).
		Set("event_date", sessionTime(e.Date)).
		Set("location", model.NewRecord().
			Set("lat", Float(r.Circuit.Location.Lat)).
			Set("long", Float(r.Circuit.Location.Long))).
		Set("sessions", sessions)
}

func eventFormat(e model.Event) string {
	if e.IsSprint() {
		return "sprint"
	}
	return "conventional"
}

func sessionTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
