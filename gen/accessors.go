package gen

import (
	"fmt"
	"strings"

	"github.com/ddlgen/ddlgen/gen/drivers"
	"github.com/ddlgen/ddlgen/gen/language"
	"github.com/volatiletech/strmangle"
)

// writeDatabase emits the static accessor class of a database
func (g generator) writeDatabase(f *OutputFile, db *drivers.Database) {
	f.Open("class %s {", db.Name)

	for _, t := range db.Tables {
		// every query accessor is keyed, nothing to do without a key
		if t.PrimaryKey == nil {
			continue
		}
		g.writeQueries(f, t)
		f.Blank()
	}

	f.TrimEnd()
	f.Write("\n\n", 0, 0)

	f.Line("/* DB MANAGEMENT METHODS */")
	for _, t := range db.Tables {
		g.writeMutations(f, t)
		f.Blank()
	}

	f.TrimEnd()
	f.Write("\n", 0, 0)
	f.Close("}")
	f.Line("?>")
}

func (g generator) writeQueries(f *OutputFile, t *drivers.Table) {
	pk := t.PrimaryKey

	f.Line("/** @return %s[] */", t.Name)
	f.Open("public static function %s(%s) : array {", getAllName(t), strings.TrimPrefix(resolveParam(t, false), ", "))
	f.Line("$output = [];")
	f.Line(`$result = Database::Execute("SELECT * FROM %s");`, t.Name)
	g.fetchRows(f, t)
	f.Close("}")

	g.writeFetchOne(f, t, getName(t), pk.Columns)
	g.writePack(f, t)

	if !pk.IsSimple() {
		for _, c := range pk.Columns {
			g.writeFetchAll(f, t, packByName(t, c), []*drivers.Column{c}, true)
		}
	}

	seen := make(map[string]struct{})
	for _, idx := range t.Indexes {
		name := indexName(t, idx)
		if idx.Unique {
			name = uniqueIndexName(t, idx)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		if idx.Unique {
			g.writeFetchOne(f, t, name, idx.Columns)
		} else {
			g.writeFetchAll(f, t, name, idx.Columns, false)
		}
	}
}

// writeFetchOne emits an accessor returning the single row matching
// the columns, null when there is none
func (g generator) writeFetchOne(f *OutputFile, t *drivers.Table, name string, cols []*drivers.Column) {
	f.Open("public static function %s(%s%s) : ?%s {",
		name, language.Definitions(cols), resolveParam(t, true), t.Name)
	f.Line(`$result = Database::ExecuteAsPrepared("SELECT * FROM %s WHERE %s LIMIT 1", "%s", [%s]);`,
		t.Name, whereClause(cols), language.BindingCodes(cols), language.Variables(cols))
	f.Line("$row = $result->fetch_assoc();")
	f.Line("$result->free();")
	f.Line("if ($row == null) return null;")
	f.Line("return %s::ParseAssoc($row%s);", t.Name, resolveArg(t))
	f.Close("}")
}

// writeFetchAll emits an accessor returning every row matching the columns
func (g generator) writeFetchAll(f *OutputFile, t *drivers.Table, name string, cols []*drivers.Column, resolve bool) {
	f.Line("/** @return %s[] */", t.Name)
	f.Open("public static function %s(%s%s) : array {",
		name, language.Definitions(cols), resolveParam(t, resolve))
	f.Line("$output = [];")
	f.Line(`$result = Database::ExecuteAsPrepared("SELECT * FROM %s WHERE %s", "%s", [%s]);`,
		t.Name, whereClause(cols), language.BindingCodes(cols), language.Variables(cols))
	g.fetchRows(f, t)
	f.Close("}")
}

// writePack emits the batch accessor taking a list of keys
func (g generator) writePack(f *OutputFile, t *drivers.Table) {
	pk := t.PrimaryKey

	f.Line("/**")
	if pk.IsSimple() {
		f.Line(" * @param %s[] $identifiers", language.PrimitiveType(pk.Columns[0].Type))
	} else {
		f.Line(" * @param (%s)[][] $identifiers [ ..., [%s], ...]", keyTypes(pk.Columns), language.Variables(pk.Columns))
	}
	f.Line(" * @return %s[]", t.Name)
	f.Line(" */")

	f.Open("public static function %s(array $identifiers%s) : array {", packName(t), resolveParam(t, true))
	f.Line("$count = count($identifiers);")
	f.Line("if ($count == 0) return [];")
	f.Line("$output = [];")
	if pk.IsSimple() {
		f.Line(`$result = Database::ExecuteAsPrepared("SELECT * FROM %s WHERE %s IN (".implode(",", array_fill(0, $count, "?")).")", str_repeat("%s", $count), $identifiers);`,
			t.Name, pk.Columns[0].Name, language.BindingCodes(pk.Columns))
	} else {
		f.Line(`$result = Database::ExecuteAsPrepared("SELECT * FROM %s WHERE ".implode(" OR ", array_fill(0, $count, "(%s)")), str_repeat("%s", $count), array_merge(...$identifiers));`,
			t.Name, whereClause(pk.Columns), language.BindingCodes(pk.Columns))
	}
	g.fetchRows(f, t)
	f.Close("}")
}

func (g generator) fetchRows(f *OutputFile, t *drivers.Table) {
	f.Line("while ($row = $result->fetch_assoc())")
	f.Body("$output[] = %s::ParseAssoc($row%s);", t.Name, resolveArg(t))
	f.Line("$result->free();")
	f.Line("return $output;")
}

func (g generator) writeMutations(f *OutputFile, t *drivers.Table) {
	cols := t.InsertColumns()

	f.Line("/** @return int|string ID of new entry in DB (if the number is greater than maximal int value, it is returned as a string) */")
	f.Open("public static function %s(%s)%s {", createName(t), language.Definitions(cols), g.php.ReturnType("int|string"))
	if len(cols) == 0 {
		f.Line(`Database::Execute("INSERT INTO %s () VALUES()");`, t.Name)
	} else {
		f.Line(`Database::ExecuteAsPrepared("INSERT INTO %s (%s) VALUES(%s)", "%s", [%s]);`,
			t.Name, columnList(cols), strmangle.Placeholders(false, len(cols), 1, 1),
			language.BindingCodes(cols), language.Variables(cols))
	}
	f.Line("return Database::$Connection->insert_id;")
	f.Close("}")

	pk := t.PrimaryKey
	if pk == nil {
		return
	}

	f.Open("public static function %s(%s) {", deleteName(t), language.Definitions(pk.Columns))
	f.Line(`Database::ExecuteAsPrepared("DELETE FROM %s WHERE %s", "%s", [%s]);`,
		t.Name, whereClause(pk.Columns), language.BindingCodes(pk.Columns), language.Variables(pk.Columns))
	f.Close("}")

	// join rows are identified by their keys alone, there is nothing to modify
	if t.IsJoinTable() {
		return
	}

	f.Open("public static function %s(%s) {", modifyName(t), language.Definitions(t.Columns))
	f.Line(`Database::ExecuteAsPrepared("UPDATE %s SET %s WHERE %s", "%s%s", [%s, %s]);`,
		t.Name, setClause(t.Columns), whereClause(pk.Columns),
		language.BindingCodes(t.Columns), language.BindingCodes(pk.Columns),
		language.Variables(t.Columns), language.Variables(pk.Columns))
	f.Close("}")
}

// whereClause is "a = ? AND b = ?"
func whereClause(cols []*drivers.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + " = ?"
	}
	return strings.Join(parts, " AND ")
}

// setClause is "a = ?, b = ?"
func setClause(cols []*drivers.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + " = ?"
	}
	return strings.Join(parts, ", ")
}

func columnList(cols []*drivers.Column) string {
	return strings.Join(drivers.ColumnNames(cols), ", ")
}

// keyTypes lists the distinct PHP types of the columns, "int|string"
func keyTypes(cols []*drivers.Column) string {
	var types []string
	for _, c := range cols {
		types = append(types, language.PrimitiveType(c.Type))
	}
	return strings.Join(strmangle.RemoveDuplicates(types), "|")
}

func qualified(db, name string) string {
	return fmt.Sprintf("%s::%s", db, name)
}
