package model

// Table is an ordered row-set: a sequence of uniformly-shaped records.
//
// Columns defines both the record fields and their order; every row holds
// exactly len(Columns) values, positionally matching Columns. Values are
// scalars (string, bool, ints, floats), time.Time, time.Duration or nil for
// a missing value.
//
// Example:
//
//	t := NewTable("Driver", "Lap Number", "Lap Time")
//	t.Append("VER", 1, "1:32.608")
//	t.Append("NOR", 1, "1:33.012")
//	fmt.Println(t.Len()) // 2
type Table struct {
	// Columns are the column names in output order.
	Columns []string

	// Rows holds one slice of values per record.
	Rows [][]any
}

// NewTable creates an empty Table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row. Missing trailing values are filled with nil and extra
// values are dropped, so every row always matches the column count.
func (t *Table) Append(values ...any) {
	row := make([]any, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows. A nil Table has no rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Record returns row i as a column name to value mapping.
func (t *Table) Record(i int) map[string]any {
	rec := make(map[string]any, len(t.Columns))
	for j, c := range t.Columns {
		rec[c] = t.Rows[i][j]
	}
	return rec
}
