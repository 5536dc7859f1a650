package model

// Shape is the form a section's payload takes.
type Shape int

const (
	// Tabular payloads are row-sets exported as delimited text.
	Tabular Shape = iota

	// Structured payloads are nested records exported as JSON.
	Structured
)

func (s Shape) String() string {
	switch s {
	case Tabular:
		return "tabular"
	case Structured:
		return "structured"
	default:
		return "unknown"
	}
}

// Payload is the data returned for a section. Exactly one of Table or
// Record is set, matching Shape.
type Payload struct {
	Shape  Shape
	Table  *Table
	Record *Record
}

// TablePayload wraps a row-set.
func TablePayload(t *Table) Payload {
	return Payload{Shape: Tabular, Table: t}
}

// RecordPayload wraps a structured record.
func RecordPayload(r *Record) Payload {
	return Payload{Shape: Structured, Record: r}
}

// IsEmpty reports whether the payload carries no rows or no fields.
func (p Payload) IsEmpty() bool {
	switch p.Shape {
	case Tabular:
		return p.Table.Len() == 0
	case Structured:
		return p.Record.Len() == 0
	default:
		return true
	}
}

// Status tags an Outcome.
type Status int

const (
	// StatusUnset is the zero value: the section was never fetched.
	StatusUnset Status = iota
	StatusSuccess
	StatusEmpty
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailure:
		return "failure"
	default:
		return "unset"
	}
}

// Outcome is the result of fetching one section.
type Outcome struct {
	Status  Status
	Payload Payload

	// Message is the provider error text for StatusFailure.
	Message string
}

// Success returns a successful outcome carrying p.
func Success(p Payload) Outcome {
	return Outcome{Status: StatusSuccess, Payload: p}
}

// Empty returns the outcome for a section with no applicable data.
func Empty() Outcome {
	return Outcome{Status: StatusEmpty}
}

// Failure returns the outcome for a section whose fetch failed.
func Failure(message string) Outcome {
	return Outcome{Status: StatusFailure, Message: message}
}

// Exportable reports whether the outcome produces an export file.
func (o Outcome) Exportable() bool {
	return o.Status == StatusSuccess
}
