package gsheets

// Row is one row of a value range.
type Row struct {
	Index int // zero-based offset inside the requested range
	Cells []string
}

// Cell returns the i-th cell, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}
