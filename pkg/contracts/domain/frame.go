package domain

// Frame is a column-named table of cell text. An empty cell is a missing value.
// Frames are the contract between the cleaner and the loader: cleaned artifacts
// are frames written as CSV with canonical column names.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// NewFrame builds a frame, padding or truncating every row to the column count.
func NewFrame(columns []string, rows [][]string) *Frame {
	f := &Frame{Columns: append([]string(nil), columns...)}
	f.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		f.Rows = append(f.Rows, fitRow(row, len(columns)))
	}
	return f
}

func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.Rows), len(f.Columns)
}

// Index returns the position of the first column named col, or -1.
func (f *Frame) Index(col string) int {
	for i, c := range f.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether the frame has a column named col.
func (f *Frame) Has(col string) bool {
	return f.Index(col) >= 0
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	return NewFrame(f.Columns, f.Rows)
}

// Column returns a copy of the values of col, or nil if absent.
func (f *Frame) Column(col string) []string {
	idx := f.Index(col)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = row[idx]
	}
	return values
}

// Rename renames the first column named from. It reports whether a rename happened.
func (f *Frame) Rename(from, to string) bool {
	idx := f.Index(from)
	if idx < 0 {
		return false
	}
	f.Columns[idx] = to
	return true
}

// SetColumn replaces col with values, appending it when absent.
// values must have one entry per row.
func (f *Frame) SetColumn(col string, values []string) {
	idx := f.Index(col)
	if idx < 0 {
		f.Columns = append(f.Columns, col)
		for i := range f.Rows {
			f.Rows[i] = append(f.Rows[i], values[i])
		}
		return
	}
	for i := range f.Rows {
		f.Rows[i][idx] = values[i]
	}
}

// Drop removes every column with one of the given names.
func (f *Frame) Drop(cols ...string) {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	keep := make([]int, 0, len(f.Columns))
	for i, c := range f.Columns {
		if !drop[c] {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(f.Columns) {
		return
	}
	f.Columns = pick(f.Columns, keep)
	for i, row := range f.Rows {
		f.Rows[i] = pick(row, keep)
	}
}

func pick(values []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

// Select returns a new frame holding exactly cols in that order.
// Columns missing from f come back as all-missing columns.
func (f *Frame) Select(cols []string) *Frame {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = f.Index(c)
	}
	out := &Frame{Columns: append([]string(nil), cols...), Rows: make([][]string, len(f.Rows))}
	for r, row := range f.Rows {
		values := make([]string, len(cols))
		for i, j := range idx {
			if j >= 0 {
				values[i] = row[j]
			}
		}
		out.Rows[r] = values
	}
	return out
}
