package drivers

import (
	"fmt"
	"strings"

	"github.com/aarondl/opt/omit"
)

// Column holds information about a table column.
type Column struct {
	Name string
	Type Type
	// TypeExtra is the raw text inside the type parentheses,
	// e.g. "50" for VARCHAR(50) or "'a','b'" for an ENUM
	TypeExtra     omit.Val[string]
	Nullable      bool
	AutoIncrement bool

	// Table is set once, when the column is added to a table
	Table      *Table
	PrimaryKey *PrimaryKey
	ForeignKey *ForeignKey
	// ReferencedBy lists the foreign keys of other columns that point here
	ReferencedBy []*ForeignKey
}

// FKAwareName is the name used for the stored value of the column.
// A column that owns a foreign key leaves its plain name to the
// resolved remote record, so the stored value is suffixed with the
// referenced column name.
func (c *Column) FKAwareName() string {
	if c.ForeignKey == nil {
		return c.Name
	}
	return c.Name + c.ForeignKey.Remote.Name
}

// FullName is table.column, used in error messages
func (c *Column) FullName() string {
	if c.Table == nil {
		return c.Name
	}
	return c.Table.Name + "." + c.Name
}

// ColumnNames of the columns.
func ColumnNames(cols []*Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	return names
}

func sameTable(cols []*Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no columns given", ErrInvariant)
	}

	table := cols[0].Table
	for _, c := range cols[1:] {
		if c.Table != table {
			return nil, fmt.Errorf("%w: columns %s must be in the same table",
				ErrInvariant, strings.Join(fullNames(cols), ", "))
		}
	}

	return table, nil
}

func fullNames(cols []*Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.FullName()
	}
	return names
}
