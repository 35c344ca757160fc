// Package gen turns a schema into a PHP data-access layer
package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ddlgen/ddlgen/gen/drivers"
	"github.com/ddlgen/ddlgen/gen/language"
	"github.com/ddlgen/ddlgen/gen/parser"
	"golang.org/x/text/unicode/norm"
)

// ObjectsFile holds the record classes of every database
const ObjectsFile = "Objects.php"

var ErrNoInput = errors.New("no input")

// Generate parses the script and generates the files for its schema.
// Nothing is returned on error.
func Generate(input string, config Config) (Files, error) {
	schema, err := ParseSchema(input, config)
	if err != nil {
		return nil, err
	}

	return Run(schema, config)
}

// ParseSchema builds the schema graph with the parser options of the config.
// The input is normalized to NFC first.
func ParseSchema(input string, config Config) (*drivers.Schema, error) {
	input = norm.NFC.String(input)
	if strings.TrimSpace(input) == "" {
		return nil, ErrNoInput
	}

	types, err := drivers.TypesFromConfig(config.Types)
	if err != nil {
		return nil, fmt.Errorf("loading types: %w", err)
	}

	schema, err := parser.Parse(input, parser.Config{
		DefaultDatabase:        config.DefaultDatabase,
		CreateDatabaseSwitches: config.CreateDatabaseSwitches,
		StrictSyntax:           config.StrictSyntax,
		Types:                  types,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	return schema, nil
}

// Run generates the files for an assembled schema. The schema is only read.
// Files come in a fixed order: Objects.php, one file per database that
// has tables, in order of first reference, then Database.php.
func Run(schema *drivers.Schema, config Config) (Files, error) {
	variant, err := language.ParseVariant(config.LanguageVariant)
	if err != nil {
		return nil, err
	}

	g := generator{
		php:    language.PHP{Variant: variant, Generator: config.Generator},
		indent: config.indent(),
	}

	objects := g.newFile(ObjectsFile)
	files := Files{objects}

	for _, db := range schema.Databases {
		if len(db.Tables) == 0 {
			continue
		}

		f := g.newFile(databaseFile(db))
		g.writeDatabase(f, db)
		files = append(files, f)

		for _, t := range db.Tables {
			g.writeRecord(objects, t)
			objects.Blank()
		}
	}
	objects.Line("?>")

	if !config.NoConnectionFile {
		files = append(files, connectionFile())
	}

	return files, nil
}

// DuplicateTableNames lists table names declared in more than one
// database. Their record classes collide in Objects.php.
func DuplicateTableNames(schema *drivers.Schema) []string {
	seen := make(map[string]int)
	var dups []string
	for _, t := range schema.Tables() {
		seen[t.Name]++
		if seen[t.Name] == 2 {
			dups = append(dups, t.Name)
		}
	}
	return dups
}

// UnresolvedForeignKeys lists the foreign keys whose remote record
// cannot be loaded by any generated accessor: the referenced column is
// neither the whole primary key nor covered by a unique index of a
// table with a primary key. Their record fields stay null.
func UnresolvedForeignKeys(schema *drivers.Schema) []*drivers.ForeignKey {
	var fks []*drivers.ForeignKey
	for _, t := range schema.Tables() {
		for _, fk := range t.ForeignKeys {
			if _, ok := remoteAccessor(fk); !ok {
				fks = append(fks, fk)
			}
		}
	}
	return fks
}

type generator struct {
	php    language.PHP
	indent string
}

func (g generator) newFile(name string) *OutputFile {
	f := NewOutputFile(name, g.indent)
	f.Line("<?php")
	f.Line("%s", g.php.Disclaimer())
	return f
}

// resolveParam is the trailing resolve parameter of accessors for tables
// with foreign keys, empty otherwise
func resolveParam(t *drivers.Table, def bool) string {
	if len(t.ForeignKeys) == 0 {
		return ""
	}
	return fmt.Sprintf(", bool $resolve = %t", def)
}

func resolveArg(t *drivers.Table) string {
	if len(t.ForeignKeys) == 0 {
		return ""
	}
	return ", $resolve"
}
