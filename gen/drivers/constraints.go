package drivers

import (
	"fmt"
	"strings"
)

// PrimaryKey is an ordered set of non-nullable columns of one table
type PrimaryKey struct {
	Table   *Table
	Columns []*Column
}

// NewPrimaryKey validates the columns and builds the key.
// The key is not attached until Table.AddPrimaryKey is called.
func NewPrimaryKey(cols ...*Column) (*PrimaryKey, error) {
	table, err := sameTable(cols)
	if err != nil {
		return nil, fmt.Errorf("primary key: %w", err)
	}

	for _, c := range cols {
		if c.Nullable {
			return nil, fmt.Errorf("%w: column %s in PRIMARY KEY must be NOT NULL",
				ErrInvariant, c.FullName())
		}
	}

	return &PrimaryKey{Table: table, Columns: cols}, nil
}

// IsSimple is true for single column keys
func (p *PrimaryKey) IsSimple() bool {
	return len(p.Columns) == 1
}

// Name is the concatenation of the column names
func (p *PrimaryKey) Name() string {
	return strings.Join(ColumnNames(p.Columns), "")
}

// ForeignKey links a local column to a column of another (or the same) table
type ForeignKey struct {
	Local  *Column
	Remote *Column
}

// NewForeignKey builds the key and registers it on both sides:
// the local column owns it, the remote column and table list it
// as a back-reference.
func NewForeignKey(local, remote *Column) (*ForeignKey, error) {
	if local.Type != remote.Type {
		return nil, fmt.Errorf("%w: foreign key %s -> %s: column types differ (%s, %s)",
			ErrInvariant, local.FullName(), remote.FullName(), local.Type, remote.Type)
	}
	if local.ForeignKey != nil {
		return nil, fmt.Errorf("%w: column %s cannot have more than one foreign key",
			ErrInvariant, local.FullName())
	}

	fk := &ForeignKey{Local: local, Remote: remote}
	local.ForeignKey = fk
	remote.ReferencedBy = append(remote.ReferencedBy, fk)
	if remote.Table != nil {
		remote.Table.ReferencedBy = append(remote.Table.ReferencedBy, fk)
	}

	return fk, nil
}

// Table is the table owning the key, that of the local column
func (f *ForeignKey) Table() *Table {
	return f.Local.Table
}

// RemoteTable is the referenced table
func (f *ForeignKey) RemoteTable() *Table {
	return f.Remote.Table
}

func (f *ForeignKey) String() string {
	return fmt.Sprintf("%s -> %s", f.Local.FullName(), f.Remote.FullName())
}
