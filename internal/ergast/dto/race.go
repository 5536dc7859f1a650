package dto

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/f1rdf/internal/model"
)

// Race is one calendar entry, optionally carrying per-race results.
type Race struct {
	Season   string  `json:"season"`
	Round    string  `json:"round"`
	RaceName string  `json:"raceName"`
	Circuit  Circuit `json:"Circuit"`
	Date     string  `json:"date"`
	Time     string  `json:"time,omitempty"`

	FirstPractice    *SessionTime `json:"FirstPractice,omitempty"`
	SecondPractice   *SessionTime `json:"SecondPractice,omitempty"`
	ThirdPractice    *SessionTime `json:"ThirdPractice,omitempty"`
	Qualifying       *SessionTime `json:"Qualifying,omitempty"`
	SprintQualifying *SessionTime `json:"SprintQualifying,omitempty"`
	SprintShootout   *SessionTime `json:"SprintShootout,omitempty"`
	Sprint           *SessionTime `json:"Sprint,omitempty"`

	Results           []Result           `json:"Results,omitempty"`
	SprintResults     []Result           `json:"SprintResults,omitempty"`
	QualifyingResults []QualifyingResult `json:"QualifyingResults,omitempty"`
	Laps              []Lap              `json:"Laps,omitempty"`
	PitStops          []PitStop          `json:"PitStops,omitempty"`
}

// Circuit describes the track an event is held at.
type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// Location is the geographic position of a circuit.
type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

// SessionTime is the scheduled start of a session. Time may be absent for
// historic seasons.
type SessionTime struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// Result is one classified entry of a race or sprint.
type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid"`
	Laps         string      `json:"laps"`
	Status       string      `json:"status"`
	Time         *RaceTime   `json:"Time,omitempty"`
	FastestLap   *FastestLap `json:"FastestLap,omitempty"`
}

// RaceTime is the finishing time, or the gap to the winner.
type RaceTime struct {
	Millis string `json:"millis,omitempty"`
	Time   string `json:"time"`
}

// FastestLap is a driver's fastest lap of a race.
type FastestLap struct {
	Rank string    `json:"rank,omitempty"`
	Lap  string    `json:"lap"`
	Time *RaceTime `json:"Time,omitempty"`
}

// QualifyingResult is one entry of the qualifying classification.
type QualifyingResult struct {
	Number      string      `json:"number"`
	Position    string      `json:"position"`
	Driver      Driver      `json:"Driver"`
	Constructor Constructor `json:"Constructor"`
	Q1          string      `json:"Q1,omitempty"`
	Q2          string      `json:"Q2,omitempty"`
	Q3          string      `json:"Q3,omitempty"`
}

// Lap holds every driver's timing for one lap.
type Lap struct {
	Number  string   `json:"number"`
	Timings []Timing `json:"Timings"`
}

// Timing is a single driver's lap.
type Timing struct {
	DriverID string `json:"driverId"`
	Position string `json:"position"`
	Time     string `json:"time"`
}

// PitStop is one stop in the pit lane.
type PitStop struct {
	DriverID string `json:"driverId"`
	Lap      string `json:"lap"`
	Stop     string `json:"stop"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

// Start returns the parsed session start. ok is false when the date is
// missing or malformed; hasTime is false when only the day is known, in
// which case the start is midnight UTC.
func (s *SessionTime) Start() (start time.Time, hasTime, ok bool) {
	if s == nil {
		return time.Time{}, false, false
	}
	return parseDateTime(s.Date, s.Time)
}

// Start returns the race start, see SessionTime.Start.
func (r *Race) Start() (start time.Time, hasTime, ok bool) {
	return parseDateTime(r.Date, r.Time)
}

func parseDateTime(date, clock string) (time.Time, bool, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false, false
	}
	clock = strings.TrimSpace(clock)
	if clock != "" {
		if t, err := time.Parse(time.RFC3339, date+"T"+clock); err == nil {
			return t.UTC(), true, true
		}
		if t, err := time.Parse("2006-01-02T15:04:05", date+"T"+clock); err == nil {
			return t.UTC(), true, true
		}
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, false, false
	}
	return t, false, true
}

// sessionSlots lists the optional weekend sessions by display name.
func (r *Race) sessionSlots() []struct {
	name string
	when *SessionTime
} {
	shootout := r.SprintQualifying
	shootoutName := "Sprint Qualifying"
	if shootout == nil && r.SprintShootout != nil {
		shootout = r.SprintShootout
		shootoutName = "Sprint Shootout"
	}
	return []struct {
		name string
		when *SessionTime
	}{
		{"Practice 1", r.FirstPractice},
		{"Practice 2", r.SecondPractice},
		{"Practice 3", r.ThirdPractice},
		{shootoutName, shootout},
		{"Sprint", r.Sprint},
		{"Qualifying", r.Qualifying},
	}
}

// ToEvent converts a calendar entry into a model.Event. Sessions are
// ordered chronologically with the race last.
func (r *Race) ToEvent() model.Event {
	season, _ := strconv.Atoi(r.Season)
	round, _ := strconv.Atoi(r.Round)

	e := model.Event{
		Season:   season,
		Round:    round,
		Name:     r.RaceName,
		Circuit:  r.Circuit.CircuitName,
		Locality: r.Circuit.Location.Locality,
		Country:  r.Circuit.Location.Country,
	}

	for _, slot := range r.sessionSlots() {
		start, hasTime, ok := slot.when.Start()
		if !ok {
			continue
		}
		e.Sessions = append(e.Sessions, model.Session{Name: slot.name, Start: start, HasTime: hasTime})
	}
	sortSessions(e.Sessions)

	if start, hasTime, ok := r.Start(); ok {
		e.Date = start
		e.Sessions = append(e.Sessions, model.Session{Name: "Race", Start: start, HasTime: hasTime})
	}
	return e
}

// sortSessions orders sessions by start time, keeping slot order on ties.
func sortSessions(s []model.Session) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Start.Before(s[j].Start) })
}
