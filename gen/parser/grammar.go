package parser

import (
	"fmt"
	"strings"

	"github.com/aarondl/opt/omit"
)

// statement is a classified top level statement
type statement interface {
	isStatement()
}

type (
	ignoredStmt struct{}
	unknownStmt struct{}

	tableStmt struct {
		Database omit.Val[string]
		Name     string
		Body     string
	}

	useStmt struct {
		Database string
	}
)

func (ignoredStmt) isStatement() {}
func (unknownStmt) isStatement() {}
func (tableStmt) isStatement()   {}
func (useStmt) isStatement()     {}

// definition is a classified entry of a table body
type definition interface {
	isDefinition()
}

type (
	ignoredDef struct{}

	primaryKeyDef struct {
		Columns []string
	}

	foreignKeyDef struct {
		Column       string
		Database     omit.Val[string]
		Table        string
		RemoteColumn string
	}

	indexDef struct {
		Name    omit.Val[string]
		Unique  bool
		Columns []string
	}

	columnDef struct {
		Name          string
		Type          string
		TypeExtra     omit.Val[string]
		Nullable      bool
		AutoIncrement bool
		PrimaryKey    bool
		Unique        bool
	}
)

func (ignoredDef) isDefinition()    {}
func (primaryKeyDef) isDefinition() {}
func (foreignKeyDef) isDefinition() {}
func (indexDef) isDefinition()      {}
func (columnDef) isDefinition()     {}

// A matcher returns nil when the tokens are not its kind.
// An error means the tokens are its kind but malformed.
type (
	stmtMatcher func(*tokenStream) (statement, error)
	defMatcher  func(*tokenStream) (definition, error)
)

// grammar is the ordered list of matchers, first match wins
type grammar struct {
	statements  []stmtMatcher
	definitions []defMatcher
}

func newGrammar(createDatabaseSwitches bool) grammar {
	g := grammar{
		statements: []stmtMatcher{ignoredStatement(createDatabaseSwitches), matchTable, matchUse},
		definitions: []defMatcher{
			matchIgnoredDef,
			matchPrimaryKey,
			matchForeignKey,
			matchIndex,
			matchColumn,
		},
	}

	if createDatabaseSwitches {
		g.statements = append(g.statements, matchCreateDatabase)
	}
	g.statements = append(g.statements, func(*tokenStream) (statement, error) {
		return unknownStmt{}, nil
	})

	return g
}

func (g grammar) statement(tokens []token) (statement, error) {
	for _, m := range g.statements {
		stmt, err := m(newStream(tokens))
		if err != nil || stmt != nil {
			return stmt, err
		}
	}
	return unknownStmt{}, nil
}

func (g grammar) definition(tokens []token) (definition, error) {
	for _, m := range g.definitions {
		def, err := m(newStream(tokens))
		if err != nil || def != nil {
			return def, err
		}
	}
	return nil, fmt.Errorf("%w: unrecognised definition", ErrSyntax)
}

//nolint:gochecknoglobals
var ignoredPrefixes = [][]string{
	{"FLUSH"}, {"GRANT"}, {"DROP"}, {"SELECT"}, {"INSERT"},
	{"CREATE", "USER"},
	// dump noise
	{"SET"}, {"LOCK"}, {"UNLOCK"}, {"COMMIT"}, {"START", "TRANSACTION"},
}

func ignoredStatement(createDatabaseSwitches bool) stmtMatcher {
	return func(s *tokenStream) (statement, error) {
		if s.done() {
			return ignoredStmt{}, nil
		}

		for _, prefix := range ignoredPrefixes {
			if s.peekWords(prefix...) {
				return ignoredStmt{}, nil
			}
		}

		if !createDatabaseSwitches && (s.peekWords("CREATE", "DATABASE") || s.peekWords("CREATE", "SCHEMA")) {
			return ignoredStmt{}, nil
		}

		return nil, nil
	}
}

// CREATE [TEMPORARY] TABLE [IF NOT EXISTS] [db.]name (body) [options]
func matchTable(s *tokenStream) (statement, error) {
	if !s.accept("CREATE") {
		return nil, nil
	}
	s.accept("TEMPORARY")
	if !s.accept("TABLE") {
		return nil, nil
	}
	s.accept("IF", "NOT", "EXISTS")

	db, name, ok := s.qualifiedName()
	if !ok {
		return nil, fmt.Errorf("%w: missing table name", ErrSyntax)
	}

	body, ok := s.group()
	if !ok {
		return nil, fmt.Errorf("%w: missing body of table %q", ErrSyntax, name)
	}

	stmt := tableStmt{Name: name, Body: body}
	if db != "" {
		stmt.Database = omit.From(db)
	}

	return stmt, nil
}

// USE name
func matchUse(s *tokenStream) (statement, error) {
	if !s.accept("USE") {
		return nil, nil
	}

	name, ok := s.ident()
	if !ok || !s.done() {
		return nil, fmt.Errorf("%w: USE takes exactly one database name", ErrSyntax)
	}

	return useStmt{Database: name}, nil
}

// CREATE DATABASE|SCHEMA [IF NOT EXISTS] name [options]
func matchCreateDatabase(s *tokenStream) (statement, error) {
	if !s.accept("CREATE", "DATABASE") && !s.accept("CREATE", "SCHEMA") {
		return nil, nil
	}
	s.accept("IF", "NOT", "EXISTS")

	name, ok := s.ident()
	if !ok {
		return nil, fmt.Errorf("%w: missing database name", ErrSyntax)
	}

	return useStmt{Database: name}, nil
}

//nolint:gochecknoglobals
var ignoredDefPrefixes = []string{"INDEX", "FULLTEXT", "SPATIAL", "CHECK"}

func matchIgnoredDef(s *tokenStream) (definition, error) {
	if s.done() {
		return ignoredDef{}, nil
	}
	for _, p := range ignoredDefPrefixes {
		if s.peekWords(p) {
			return ignoredDef{}, nil
		}
	}

	acceptConstraint(s)
	if s.peekWords("CHECK") {
		return ignoredDef{}, nil
	}

	return nil, nil
}

// acceptConstraint skips a leading CONSTRAINT [name]
func acceptConstraint(s *tokenStream) {
	if !s.accept("CONSTRAINT") {
		return
	}
	for _, kw := range []string{"PRIMARY", "FOREIGN", "UNIQUE", "CHECK"} {
		if s.peekWords(kw) {
			return
		}
	}
	s.ident()
}

// acceptUsing skips an index type such as USING BTREE
func acceptUsing(s *tokenStream) {
	if s.accept("USING") {
		s.next()
	}
}

// [CONSTRAINT [name]] PRIMARY KEY [USING type] (col, ...)
func matchPrimaryKey(s *tokenStream) (definition, error) {
	acceptConstraint(s)
	if !s.accept("PRIMARY", "KEY") {
		return nil, nil
	}
	acceptUsing(s)

	group, ok := s.group()
	if !ok {
		return nil, fmt.Errorf("%w: PRIMARY KEY without a column list", ErrSyntax)
	}

	cols, err := columnList(group)
	if err != nil {
		return nil, err
	}

	return primaryKeyDef{Columns: cols}, nil
}

// [CONSTRAINT [name]] FOREIGN KEY [name] (col) REFERENCES [db.]table (col) [actions]
func matchForeignKey(s *tokenStream) (definition, error) {
	acceptConstraint(s)
	if !s.accept("FOREIGN", "KEY") {
		return nil, nil
	}
	s.ident()

	local, err := singleColumn(s, "FOREIGN KEY")
	if err != nil {
		return nil, err
	}

	if !s.accept("REFERENCES") {
		return nil, fmt.Errorf("%w: FOREIGN KEY without REFERENCES", ErrSyntax)
	}

	db, table, ok := s.qualifiedName()
	if !ok {
		return nil, fmt.Errorf("%w: REFERENCES without a table", ErrSyntax)
	}

	remote, err := singleColumn(s, "REFERENCES")
	if err != nil {
		return nil, err
	}

	def := foreignKeyDef{Column: local, Table: table, RemoteColumn: remote}
	if db != "" {
		def.Database = omit.From(db)
	}

	return def, nil
}

func singleColumn(s *tokenStream, clause string) (string, error) {
	group, ok := s.group()
	if !ok {
		return "", fmt.Errorf("%w: %s without a column list", ErrSyntax, clause)
	}

	cols, err := columnList(group)
	if err != nil {
		return "", err
	}
	if len(cols) != 1 {
		return "", fmt.Errorf("%w: %s must name exactly one column, got %d", ErrSyntax, clause, len(cols))
	}

	return cols[0], nil
}

// [CONSTRAINT [name]] UNIQUE [KEY|INDEX] [name] [USING type] (col, ...)
// KEY [name] [USING type] (col, ...)
func matchIndex(s *tokenStream) (definition, error) {
	acceptConstraint(s)
	unique := s.accept("UNIQUE")
	keyword := s.accept("KEY") || s.accept("INDEX")
	if !unique && !keyword {
		return nil, nil
	}

	var def indexDef
	def.Unique = unique
	if name, ok := s.ident(); ok {
		def.Name = omit.From(name)
	}
	acceptUsing(s)

	group, ok := s.group()
	if !ok {
		return nil, fmt.Errorf("%w: index without a column list", ErrSyntax)
	}

	cols, err := columnList(group)
	if err != nil {
		return nil, err
	}
	def.Columns = cols

	return def, nil
}

// name type[(extra)] [attributes]
//
// Attributes are read token by token, quoted text is never taken for
// a keyword and the values of DEFAULT and COMMENT are skipped whole.
func matchColumn(s *tokenStream) (definition, error) {
	name, ok := s.ident()
	if !ok {
		return nil, fmt.Errorf("%w: missing column name", ErrSyntax)
	}

	typ, ok := s.next()
	if !ok || typ.kind != tokenWord {
		return nil, fmt.Errorf("%w: missing type of column %q", ErrSyntax, name)
	}

	def := columnDef{Name: name, Type: typ.text, Nullable: true}
	if extra, ok := s.group(); ok {
		def.TypeExtra = omit.From(strings.TrimSpace(extra))
	}

	for !s.done() {
		switch {
		case s.accept("NOT", "NULL"):
			def.Nullable = false
		case s.accept("NULL"):
			def.Nullable = true
		case s.accept("AUTO_INCREMENT"):
			def.AutoIncrement = true
		case s.accept("PRIMARY", "KEY"), s.accept("PRIMARY"), s.accept("KEY"):
			def.PrimaryKey = true
		case s.accept("UNIQUE", "KEY"), s.accept("UNIQUE"):
			def.Unique = true
		case s.accept("DEFAULT"), s.accept("ON", "UPDATE"):
			skipValue(s)
		case s.accept("COMMENT"):
			s.next()
		default:
			s.next()
		}
	}

	return def, nil
}

// skipValue consumes one value: a literal, a word, or a function call
func skipValue(s *tokenStream) {
	t, ok := s.next()
	if ok && t.kind == tokenWord {
		s.group()
	}
}

// columnList reads the column names of a key or index column list.
// Length and order suffixes such as "name(10) DESC" are dropped.
func columnList(group string) ([]string, error) {
	entries, err := Split(group, DefinitionSplit)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(entries))
	for _, entry := range entries {
		tokens, err := lex(entry)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 || !tokens[0].isIdent() {
			return nil, fmt.Errorf("%w: bad column list entry %q", ErrSyntax, entry)
		}
		cols = append(cols, tokens[0].text)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty column list", ErrSyntax)
	}

	return cols, nil
}
