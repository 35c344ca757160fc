// Package parser reads schema definition scripts into a drivers.Schema
package parser

import (
	"fmt"

	"github.com/aarondl/opt/omit"
	"github.com/ddlgen/ddlgen/gen/drivers"
)

// DefaultDatabase receives the tables declared before any database switch
const DefaultDatabase = "UNDEFINED_DATABASE"

type Config struct {
	// DefaultDatabase is used when no switch has happened yet
	DefaultDatabase string
	// CreateDatabaseSwitches makes CREATE DATABASE act like USE
	CreateDatabaseSwitches bool
	// StrictSyntax checks each CREATE TABLE against the MySQL grammar
	StrictSyntax bool
	// Types resolves base type keywords, the zero value knows the built-ins
	Types drivers.Types
}

// Parser is the state of one parse: the databases seen so far
// and the one tables are currently added to
type Parser struct {
	config  Config
	grammar grammar

	schema  *drivers.Schema
	current *drivers.Database
}

func New(config Config) *Parser {
	if config.DefaultDatabase == "" {
		config.DefaultDatabase = DefaultDatabase
	}

	p := &Parser{
		config:  config,
		grammar: newGrammar(config.CreateDatabaseSwitches),
		schema:  &drivers.Schema{},
	}
	p.current = p.database(config.DefaultDatabase)

	return p
}

// Parse builds the schema for the whole script.
// Parsing stops at the first error and no schema is returned.
func Parse(input string, config Config) (*drivers.Schema, error) {
	p := New(config)
	if err := p.Parse(input); err != nil {
		return nil, err
	}

	return p.Schema(), nil
}

// Parse adds the statements of the script to the schema
func (p *Parser) Parse(input string) error {
	statements, err := Split(input, StatementSplit)
	if err != nil {
		return fmt.Errorf("split statements: %w", err)
	}

	for _, stmt := range statements {
		if err := p.statement(stmt); err != nil {
			return stmtErr(stmt, err)
		}
	}

	return nil
}

func (p *Parser) Schema() *drivers.Schema {
	return p.schema
}

// database returns the named database, creating it on first reference
func (p *Parser) database(name string) *drivers.Database {
	if db := p.schema.Database(name); db != nil {
		return db
	}

	db := drivers.NewDatabase(name)
	// cannot fail, the name was just looked up
	_ = p.schema.AddDatabase(db)
	return db
}

func (p *Parser) statement(stmt string) error {
	tokens, err := lex(stmt)
	if err != nil {
		return err
	}

	classified, err := p.grammar.statement(tokens)
	if err != nil {
		return err
	}

	switch s := classified.(type) {
	case ignoredStmt:
		return nil

	case useStmt:
		p.current = p.database(s.Database)
		return nil

	case tableStmt:
		if p.config.StrictSyntax {
			if err := lint(stmt); err != nil {
				return err
			}
		}
		return p.table(s)

	default:
		return ErrUnknownStatement
	}
}

func (p *Parser) table(stmt tableStmt) error {
	db := p.current
	if name, ok := stmt.Database.Get(); ok {
		db = p.database(name)
	}

	table := drivers.NewTable(stmt.Name)
	// added first so that self references resolve
	if err := db.AddTable(table); err != nil {
		return err
	}

	definitions, err := Split(stmt.Body, DefinitionSplit)
	if err != nil {
		return fmt.Errorf("table %q: %w", stmt.Name, err)
	}

	for _, text := range definitions {
		if err := p.definition(table, text); err != nil {
			return stmtErr(text, err)
		}
	}

	return nil
}

func (p *Parser) definition(table *drivers.Table, text string) error {
	tokens, err := lex(text)
	if err != nil {
		return err
	}

	def, err := p.grammar.definition(tokens)
	if err != nil {
		return err
	}

	switch d := def.(type) {
	case ignoredDef:
		return nil
	case columnDef:
		return p.column(table, d)
	case primaryKeyDef:
		return p.primaryKey(table, d.Columns)
	case foreignKeyDef:
		return p.foreignKey(table, d)
	case indexDef:
		return p.index(table, d)
	default:
		return fmt.Errorf("%w: unhandled definition %T", ErrSyntax, def)
	}
}

func (p *Parser) column(table *drivers.Table, def columnDef) error {
	typ, err := p.config.Types.Resolve(def.Type, def.TypeExtra)
	if err != nil {
		return fmt.Errorf("column %q: %w", def.Name, err)
	}

	col := &drivers.Column{
		Name:          def.Name,
		Type:          typ,
		TypeExtra:     def.TypeExtra,
		Nullable:      def.Nullable,
		AutoIncrement: def.AutoIncrement,
	}
	if err := table.AddColumn(col); err != nil {
		return err
	}

	if def.PrimaryKey {
		if err := p.primaryKey(table, []string{col.Name}); err != nil {
			return err
		}
	}

	if def.Unique {
		return p.index(table, indexDef{Unique: true, Columns: []string{col.Name}})
	}

	return nil
}

func (p *Parser) primaryKey(table *drivers.Table, names []string) error {
	cols, err := columns(table, names)
	if err != nil {
		return fmt.Errorf("primary key: %w", err)
	}

	pk, err := drivers.NewPrimaryKey(cols...)
	if err != nil {
		return err
	}

	return table.AddPrimaryKey(pk)
}

func (p *Parser) foreignKey(table *drivers.Table, def foreignKeyDef) error {
	local := table.Column(def.Column)
	if local == nil {
		return fmt.Errorf("%w: foreign key column %q not found in table %q",
			ErrUnresolved, def.Column, table.Name)
	}

	remoteTable, err := p.resolveTable(def.Database, def.Table)
	if err != nil {
		return err
	}

	remote := remoteTable.Column(def.RemoteColumn)
	if remote == nil {
		return fmt.Errorf("%w: column %q not found in table %q",
			ErrUnresolved, def.RemoteColumn, remoteTable.Name)
	}

	fk, err := drivers.NewForeignKey(local, remote)
	if err != nil {
		return err
	}

	return table.AddForeignKey(fk)
}

func (p *Parser) index(table *drivers.Table, def indexDef) error {
	cols, err := columns(table, def.Columns)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	idx, err := drivers.NewIndex(def.Name, def.Unique, cols...)
	if err != nil {
		return err
	}

	return table.AddIndex(idx)
}

// resolveTable finds a referenced table. An explicit database must
// already exist, unqualified names are looked up in the current one.
func (p *Parser) resolveTable(database omit.Val[string], name string) (*drivers.Table, error) {
	db := p.current
	if dbName, ok := database.Get(); ok {
		db = p.schema.Database(dbName)
		if db == nil {
			return nil, fmt.Errorf("%w: database %q not found when resolving table %q",
				ErrUnresolved, dbName, name)
		}
	}

	table := db.Table(name)
	if table == nil {
		return nil, fmt.Errorf("%w: table %q not found in database %q",
			ErrUnresolved, name, db.Name)
	}

	return table, nil
}

func columns(table *drivers.Table, names []string) ([]*drivers.Column, error) {
	cols := make([]*drivers.Column, len(names))
	for i, name := range names {
		cols[i] = table.Column(name)
		if cols[i] == nil {
			return nil, fmt.Errorf("%w: column %q not found in table %q",
				ErrUnresolved, name, table.Name)
		}
	}

	return cols, nil
}
