package model

import "time"

// Event is one entry of a season calendar.
type Event struct {
	Season   int
	Round    int
	Name     string
	Circuit  string
	Locality string
	Country  string

	// Date is the race start; when the calendar has no start time it is
	// midnight UTC of the race day.
	Date time.Time

	// Sessions lists the weekend sessions in chronological order, the race
	// being last.
	Sessions []Session
}

// Session is one on-track session of an event weekend.
type Session struct {
	Name  string
	Start time.Time

	// HasTime is false when only the day of the session is known.
	HasTime bool
}

// Key returns the SelectionKey addressing this event.
func (e Event) Key() SelectionKey {
	return SelectionKey{Season: e.Season, Round: e.Round}
}

// IsSprint reports whether the weekend includes a sprint race.
func (e Event) IsSprint() bool {
	for _, s := range e.Sessions {
		if s.Name == "Sprint" {
			return true
		}
	}
	return false
}

// FirstSession returns the start of the earliest session, or the race date.
func (e Event) FirstSession() time.Time {
	if len(e.Sessions) == 0 {
		return e.Date
	}
	return e.Sessions[0].Start
}
