package record

import (
	"fmt"
	"strings"
)

// Header is the ordered set of column names of a tabular source.
type Header struct {
	columns []string
	index   map[string]int
}

// NewHeader builds a header. Blank column names are named "Column N" and
// repeated names get a numeric suffix ("Name", "Name 2"), so every column
// stays addressable.
func NewHeader(columns []string) *Header {
	h := &Header{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}

		if _, taken := h.index[name]; taken {
			base := name
			for n := 2; ; n++ {
				name = fmt.Sprintf("%s %d", base, n)
				if _, taken := h.index[name]; !taken {
					break
				}
			}
		}

		h.columns[i] = name
		h.index[name] = i
	}

	return h
}

// Columns returns the column names in source order.
func (h *Header) Columns() []string {
	return append([]string(nil), h.columns...)
}

// Has reports whether column is part of the header.
func (h *Header) Has(column string) bool {
	_, ok := h.index[column]
	return ok
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.columns)
}

// Record binds a row of cells to the header. Short rows leave the trailing
// columns empty and extra cells are dropped.
func (h *Header) Record(index int, row []string) Record {
	values := make(map[string]string, len(h.columns))

	for i, c := range h.columns {
		if i < len(row) {
			values[c] = row[i]
		}
	}

	return Record{Index: index, values: values, header: h}
}
