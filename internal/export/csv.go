package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/handiism/f1rdf/internal/model"
)

// TimeLayout is the textual form of timestamps in every export format.
const TimeLayout = time.RFC3339Nano

// EncodeCSV writes a table as CSV: a header row of column names in table
// order followed by one line per row. There is no index column.
func EncodeCSV(t *model.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range record {
			var v any
			if j < len(row) {
				v = row[j]
			}
			record[j] = FormatValue(v)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatValue renders a cell value as CSV text.
//
// Missing values (nil, NaN, ±Inf, zero timestamps) become empty cells and
// timestamps use TimeLayout.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return FormatValue(float64(x))
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return FormatValue(*x)
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
