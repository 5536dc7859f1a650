// Package dto holds the wire types of the Ergast-compatible F1 API together
// with converters into model types.
//
// Every numeric field is transmitted as a JSON string; the Int and Float
// helpers parse them, yielding nil for blank or malformed values so that
// missing data becomes an empty cell rather than a zero.
package dto

import (
	"strconv"
	"strings"
)

// Response is the top-level envelope of every API reply.
type Response struct {
	MRData MRData `json:"MRData"`
}

// MRData carries paging metadata and one of the result tables.
type MRData struct {
	Limit  string `json:"limit"`
	Offset string `json:"offset"`
	Total  string `json:"total"`

	RaceTable      *RaceTable      `json:"RaceTable,omitempty"`
	StandingsTable *StandingsTable `json:"StandingsTable,omitempty"`
}

// Paging returns the parsed limit, offset and total of the page.
func (m MRData) Paging() (limit, offset, total int) {
	limit, _ = strconv.Atoi(m.Limit)
	offset, _ = strconv.Atoi(m.Offset)
	total, _ = strconv.Atoi(m.Total)
	return limit, offset, total
}

// Races returns the races of the page, or nil.
func (m MRData) Races() []Race {
	if m.RaceTable == nil {
		return nil
	}
	return m.RaceTable.Races
}

// Standings returns the standings lists of the page, or nil.
func (m MRData) Standings() []StandingsList {
	if m.StandingsTable == nil {
		return nil
	}
	return m.StandingsTable.StandingsLists
}

// RaceTable lists races and their per-race results.
type RaceTable struct {
	Season string `json:"season"`
	Round  string `json:"round,omitempty"`
	Races  []Race `json:"Races"`
}

// StandingsTable lists championship standings after a round.
type StandingsTable struct {
	Season         string          `json:"season"`
	Round          string          `json:"round,omitempty"`
	StandingsLists []StandingsList `json:"StandingsLists"`
}

// StandingsList holds either driver or constructor standings.
type StandingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []DriverStanding      `json:"DriverStandings,omitempty"`
	ConstructorStandings []ConstructorStanding `json:"ConstructorStandings,omitempty"`
}

// DriverStanding is one row of the drivers' championship.
type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

// ConstructorStanding is one row of the constructors' championship.
type ConstructorStanding struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

// Driver identifies a driver.
type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber,omitempty"`
	Code            string `json:"code,omitempty"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
}

// FullName returns "Given Family".
func (d Driver) FullName() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

// Constructor identifies a team.
type Constructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality,omitempty"`
}

// Int parses an integer field. Blank or malformed values yield nil.
func Int(s string) any {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return n
}

// Float parses a decimal field. Blank or malformed values yield nil.
func Float(s string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return f
}

// Text returns s, or nil when s is blank.
func Text(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
