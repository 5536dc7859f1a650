package export

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
	"github.com/handiism/f1rdf/internal/session"
)

// WorkbookExtension is the file extension of workbook exports.
const WorkbookExtension = ".xlsx"

// SerializeWorkbook writes every successful tabular section in cache as a
// worksheet named after the section ID, in registry order. Each sheet has a
// header row followed by the data rows.
//
// Structured sections have no worksheet form and are skipped; they appear
// in no list of the returned Report. When no tabular section succeeded,
// SerializeWorkbook returns a nil File.
func SerializeWorkbook(cache *session.Cache, reg *section.Registry) (*File, Report, error) {
	ids, _ := reg.Ordered(cache.IDs())

	var (
		sheets []string
		report Report
	)
	for _, id := range ids {
		o, _ := cache.Get(id)
		desc, _ := reg.Get(id)
		if !report.add(id, o, desc) || desc.Shape != model.Tabular {
			continue
		}
		sheets = append(sheets, id)
	}
	if len(sheets) == 0 {
		return nil, report, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, id := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", id); err != nil {
				return nil, Report{}, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(id); err != nil {
			return nil, Report{}, fmt.Errorf("create sheet %s: %w", id, err)
		}

		o, _ := cache.Get(id)
		if err := writeSheet(f, id, o.Payload.Table); err != nil {
			return nil, Report{}, fmt.Errorf("sheet %s: %w", id, err)
		}
	}
	report.Exported = sheets
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, Report{}, fmt.Errorf("encode workbook: %w", err)
	}
	return &File{Name: "sections" + WorkbookExtension, Data: buf.Bytes(), MIMEType: MIMEXLSX}, report, nil
}

func writeSheet(f *excelize.File, sheet string, t *model.Table) error {
	for c, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			v = cellValue(v)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValue maps a table value to what the worksheet stores. Missing values
// leave the cell blank; timestamps are stored as text in TimeLayout so the
// workbook matches the CSV export.
func cellValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(TimeLayout)
	case time.Duration:
		return x.String()
	default:
		return v
	}
}
