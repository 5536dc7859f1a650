package export

import (
	"errors"
	"fmt"

	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
)

// Content types of exported files.
const (
	MIMECSV  = "text/csv"
	MIMEJSON = "application/json"
	MIMEZIP  = "application/zip"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrShapeMismatch is returned when a payload's shape disagrees with the
// section descriptor.
var ErrShapeMismatch = errors.New("payload shape does not match section")

// File is one exported artifact.
type File struct {
	// Name is the suggested file name, e.g. "race_results.csv".
	Name string

	// Data holds the encoded file content.
	Data []byte

	// MIMEType is the content type tag for downloads.
	MIMEType string
}

// Extension returns the file extension used for a shape, including the dot.
func Extension(shape model.Shape) string {
	if shape == model.Structured {
		return ".json"
	}
	return ".csv"
}

// FileName returns the export file name for a section.
func FileName(d section.Descriptor) string {
	return d.ID + Extension(d.Shape)
}

// SerializeOne encodes a single section outcome.
//
// It returns a nil File and no error when the outcome produces nothing to
// write: Failure, Empty and unset outcomes are never exported. The format
// is chosen by the descriptor's Shape.
func SerializeOne(id string, o model.Outcome, d section.Descriptor) (*File, error) {
	if !o.Exportable() {
		return nil, nil
	}
	if o.Payload.Shape != d.Shape {
		return nil, shapeMismatch(id, o, d)
	}
	if o.Payload.IsEmpty() {
		return nil, nil
	}

	switch d.Shape {
	case model.Tabular:
		data, err := EncodeCSV(o.Payload.Table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		return &File{Name: id + Extension(model.Tabular), Data: data, MIMEType: MIMECSV}, nil

	case model.Structured:
		data, err := EncodeJSON(o.Payload.Record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		return &File{Name: id + Extension(model.Structured), Data: data, MIMEType: MIMEJSON}, nil

	default:
		return nil, fmt.Errorf("%s: unsupported shape %v", id, d.Shape)
	}
}

func shapeMismatch(id string, o model.Outcome, d section.Descriptor) error {
	return fmt.Errorf("%s: %w (%s payload, %s section)", id, ErrShapeMismatch, o.Payload.Shape, d.Shape)
}

// Failed names a section whose fetch or encoding failed and its message.
type Failed struct {
	ID      string
	Message string
}

// Report lists what happened to each cached section during an export, in
// registry order.
type Report struct {
	Exported []string
	Empty    []string
	Failed   []Failed
}

// add files an outcome under Failed or Empty. It reports true when the
// outcome carries a non-empty payload matching the descriptor's shape,
// leaving the caller to encode it and record the result.
func (r *Report) add(id string, o model.Outcome, d section.Descriptor) bool {
	switch o.Status {
	case model.StatusFailure:
		r.Failed = append(r.Failed, Failed{ID: id, Message: o.Message})
		return false
	case model.StatusEmpty:
		r.Empty = append(r.Empty, id)
		return false
	case model.StatusUnset:
		return false
	}
	if o.Payload.Shape != d.Shape {
		r.Failed = append(r.Failed, Failed{ID: id, Message: shapeMismatch(id, o, d).Error()})
		return false
	}
	if o.Payload.IsEmpty() {
		r.Empty = append(r.Empty, id)
		return false
	}
	return true
}
