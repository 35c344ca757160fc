package drivers

import (
	"fmt"
	"strings"

	"github.com/aarondl/opt/omit"
)

// Index represents an index in a table
type Index struct {
	// Unset when the declaration had no name
	Declared omit.Val[string]
	Table    *Table
	Columns  []*Column
	Unique   bool
}

func NewIndex(name omit.Val[string], unique bool, cols ...*Column) (*Index, error) {
	table, err := sameTable(cols)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	return &Index{
		Declared: name,
		Table:    table,
		Columns:  cols,
		Unique:   unique,
	}, nil
}

// Name is the declared name, or the concatenated column names
func (i *Index) Name() string {
	return i.Declared.GetOr(strings.Join(ColumnNames(i.Columns), ""))
}

// Covers reports whether the index is made up of exactly the given columns
func (i *Index) Covers(cols ...*Column) bool {
	if len(i.Columns) != len(cols) {
		return false
	}
	for n, c := range i.Columns {
		if cols[n] != c {
			return false
		}
	}
	return true
}
