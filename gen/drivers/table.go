package drivers

import (
	"fmt"
)

// Table metadata from the schema definition.
type Table struct {
	Name    string
	Columns []*Column

	PrimaryKey  *PrimaryKey
	ForeignKeys []*ForeignKey
	Indexes     []*Index

	// ReferencedBy lists foreign keys of any table that point at this one
	ReferencedBy []*ForeignKey

	// Database is set once, when the table is added to a database
	Database *Database
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// Column by name, nil if the table has no such column
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// AddColumn appends the column in declaration order
func (t *Table) AddColumn(c *Column) error {
	if c.Table != nil {
		return fmt.Errorf("%w: column %s already belongs to a table", ErrInvariant, c.FullName())
	}
	if t.Column(c.Name) != nil {
		return fmt.Errorf("%w: column %q declared twice in table %q", ErrInvariant, c.Name, t.Name)
	}

	c.Table = t
	t.Columns = append(t.Columns, c)
	return nil
}

func (t *Table) AddPrimaryKey(pk *PrimaryKey) error {
	if pk.Table != t {
		return fmt.Errorf("%w: primary key columns are not from table %q", ErrInvariant, t.Name)
	}
	if t.PrimaryKey != nil {
		return fmt.Errorf("%w: table %q cannot have more than one primary key", ErrInvariant, t.Name)
	}
	for _, c := range pk.Columns {
		if c.PrimaryKey != nil {
			return fmt.Errorf("%w: column %s cannot have more than one primary key", ErrInvariant, c.FullName())
		}
	}

	for _, c := range pk.Columns {
		c.PrimaryKey = pk
	}
	t.PrimaryKey = pk
	return nil
}

func (t *Table) AddForeignKey(fk *ForeignKey) error {
	if fk.Local.Table != t {
		return fmt.Errorf("%w: foreign key %s does not have its local column in table %q",
			ErrInvariant, fk, t.Name)
	}

	t.ForeignKeys = append(t.ForeignKeys, fk)
	return nil
}

func (t *Table) AddIndex(idx *Index) error {
	if idx.Table != t {
		return fmt.Errorf("%w: index %q columns are not from table %q", ErrInvariant, idx.Name(), t.Name)
	}

	t.Indexes = append(t.Indexes, idx)
	return nil
}

// IsJoinTable is true for a table made of exactly two columns and
// two foreign keys, modelling a many-to-many relationship
func (t *Table) IsJoinTable() bool {
	return len(t.Columns) == 2 && len(t.ForeignKeys) == 2
}

// InsertColumns are the columns given a value on insert,
// auto incremented columns are left to the database
func (t *Table) InsertColumns() []*Column {
	cols := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.AutoIncrement {
			cols = append(cols, c)
		}
	}

	return cols
}

// OtherForeignKey returns the join table key that is not fk
func (t *Table) OtherForeignKey(fk *ForeignKey) *ForeignKey {
	for _, k := range t.ForeignKeys {
		if k != fk {
			return k
		}
	}

	return nil
}

// UniqueIndexOn finds a unique index made of exactly the given columns
func (t *Table) UniqueIndexOn(cols ...*Column) *Index {
	for _, idx := range t.Indexes {
		if idx.Unique && idx.Covers(cols...) {
			return idx
		}
	}

	return nil
}
