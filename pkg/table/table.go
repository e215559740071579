// Package table provides the canonical in-memory representation all
// readers produce and all writers consume: an ordered header plus ordered
// rows of tagged scalar cells.
package table

// Row maps column names to cell values
type Row map[string]Value

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is the canonical tabular representation. Columns are unique and
// ordered by first appearance; every row's key set is a subset of Columns,
// with absent cells stored as the explicit Null marker.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given header
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// HasColumn reports whether name is in the header
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to the header if not already present,
// backfilling existing rows with explicit nulls
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		if _, ok := row[name]; !ok {
			row[name] = Null
		}
	}
}

// Append adds a row whose keys are already covered by the header. Cells
// for header columns missing from the row are filled with Null.
func (t *Table) Append(row Row) {
	for _, c := range t.Columns {
		if _, ok := row[c]; !ok {
			row[c] = Null
		}
	}
	t.Rows = append(t.Rows, row)
}

// AppendOrdered adds a row, extending the header with any unseen columns
// in the order given by keys. Readers use this to keep header order equal
// to first-seen order across all rows.
func (t *Table) AppendOrdered(keys []string, row Row) {
	for _, k := range keys {
		t.AddColumn(k)
	}
	t.Append(row)
}

// Get returns the cell at (row, column); Null when the column is absent
func (t *Table) Get(row int, column string) Value {
	v, ok := t.Rows[row][column]
	if !ok {
		return Null
	}
	return v
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}
