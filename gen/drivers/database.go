// Package drivers holds the schema graph built from a DDL script:
// databases, tables, columns, keys and indexes, along with the
// invariants checked as the graph is assembled
package drivers

import "fmt"

// Database is a named, ordered collection of tables.
// Table order is declaration order and drives output order.
type Database struct {
	Name   string
	Tables []*Table
}

func NewDatabase(name string) *Database {
	return &Database{Name: name}
}

// Table by name, nil if there is no such table
func (d *Database) Table(name string) *Table {
	for _, t := range d.Tables {
		if t.Name == name {
			return t
		}
	}

	return nil
}

func (d *Database) AddTable(t *Table) error {
	if t.Database != nil {
		return fmt.Errorf("%w: table %q already belongs to database %q",
			ErrInvariant, t.Name, t.Database.Name)
	}
	if d.Table(t.Name) != nil {
		return fmt.Errorf("%w: table %q declared twice in database %q",
			ErrInvariant, t.Name, d.Name)
	}

	t.Database = d
	d.Tables = append(d.Tables, t)
	return nil
}

// Schema is every database seen in a run, in order of first reference
type Schema struct {
	Databases []*Database
}

// Database by name, nil if it was never referenced
func (s *Schema) Database(name string) *Database {
	for _, d := range s.Databases {
		if d.Name == name {
			return d
		}
	}

	return nil
}

// AddDatabase registers a database. Databases are never merged,
// a second database with a known name is an error.
func (s *Schema) AddDatabase(d *Database) error {
	if s.Database(d.Name) != nil {
		return fmt.Errorf("%w: database %q already exists", ErrInvariant, d.Name)
	}

	s.Databases = append(s.Databases, d)
	return nil
}

// Tables across every database
func (s *Schema) Tables() []*Table {
	var tables []*Table
	for _, d := range s.Databases {
		tables = append(tables, d.Tables...)
	}
	return tables
}
