package gen

import (
	"github.com/ddlgen/ddlgen/gen/drivers"
	"github.com/ddlgen/ddlgen/gen/language"
)

// manyToMany is a collection reached through a join table
type manyToMany struct {
	// via points from the join table at the record's table
	via *drivers.ForeignKey
	// other points from the join table at the collected table
	other    *drivers.ForeignKey
	property string
}

// writeRecord emits the record class of a table into Objects.php
func (g generator) writeRecord(f *OutputFile, t *drivers.Table) {
	links := manyToManyLinks(t)

	f.Open("class %s {", t.Name)

	if !g.php.PromotedConstructor() {
		for _, c := range t.Columns {
			f.Line("public %s;", language.FieldDefinition(c))
		}
	}
	for _, fk := range t.ForeignKeys {
		f.Line("public ?%s %s = null;", fk.RemoteTable().Name, language.Variable(fk.Local.Name))
	}
	for _, link := range links {
		f.Line("public ?array %s = null;", language.Variable(link.property))
	}
	if !g.php.PromotedConstructor() || len(t.ForeignKeys) > 0 || len(links) > 0 {
		f.Blank()
	}

	g.writeConstructor(f, t)
	f.Blank()
	g.writeParseAssoc(f, t)

	if len(t.ForeignKeys) > 0 {
		f.Blank()
		g.writeResolve(f, t)
	}

	for _, fk := range t.ReferencedBy {
		f.Blank()
		g.writeBackReference(f, fk)

		for _, link := range links {
			if link.via == fk {
				f.Blank()
				g.writeManyToMany(f, link)
			}
		}
	}

	f.Close("}")
}

func (g generator) writeConstructor(f *OutputFile, t *drivers.Table) {
	params := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		if g.php.PromotedConstructor() {
			params = append(params, "public "+language.FieldDefinition(c))
		} else {
			params = append(params, language.FieldDefinition(c))
		}
	}
	if len(t.ForeignKeys) > 0 {
		params = append(params, "bool $resolve = true")
	}

	f.Open("public function __construct(")
	g.writeList(f, params)

	if g.php.PromotedConstructor() {
		if len(t.ForeignKeys) > 0 {
			f.Close(") { $resolve ? $this->Resolve() : null; }")
		} else {
			f.Close(") { }")
		}
		return
	}

	f.WriteLine(") {", -1, 1)
	for _, c := range t.Columns {
		name := c.FKAwareName()
		f.Line("%s = %s;", language.Property(name), language.Variable(name))
	}
	if len(t.ForeignKeys) > 0 {
		f.Line("$resolve ? $this->Resolve() : null;")
	}
	f.Close("}")
}

// writeParseAssoc emits the factory building a record from a fetched row
func (g generator) writeParseAssoc(f *OutputFile, t *drivers.Table) {
	args := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		args = append(args, language.ParserExpression(c))
	}
	if len(t.ForeignKeys) > 0 {
		args = append(args, "$resolve")
	}

	f.Open("public static function ParseAssoc(array $assoc%s) {", resolveParam(t, true))
	f.Open("return new %s(", t.Name)
	g.writeList(f, args)
	f.Close(");")
	f.Close("}")
}

// writeResolve emits the method loading the records the foreign keys
// point at. Remote records are loaded without resolving their own keys.
func (g generator) writeResolve(f *OutputFile, t *drivers.Table) {
	f.Open("public function Resolve() {")
	for _, fk := range t.ForeignKeys {
		accessor, ok := remoteAccessor(fk)
		if !ok {
			continue
		}

		remote := fk.RemoteTable()
		arg := language.Property(fk.Local.FKAwareName())
		if len(remote.ForeignKeys) > 0 {
			arg += ", false"
		}

		f.Line("if (%s !== null) %s = %s(%s);",
			language.Property(fk.Local.FKAwareName()),
			language.Property(fk.Local.Name),
			qualified(remote.Database.Name, accessor),
			arg,
		)
	}
	f.Close("}")
}

// remoteAccessor finds the generated accessor fetching one remote record
// by the referenced column: the key accessor when the column is the whole
// primary key, else the accessor of a unique index on it
func remoteAccessor(fk *drivers.ForeignKey) (string, bool) {
	remote := fk.RemoteTable()
	if remote.PrimaryKey == nil {
		return "", false
	}

	if remote.PrimaryKey.IsSimple() && remote.PrimaryKey.Columns[0] == fk.Remote {
		return getName(remote), true
	}

	if idx := remote.UniqueIndexOn(fk.Remote); idx != nil {
		return uniqueIndexName(remote, idx), true
	}

	return "", false
}

// writeBackReference emits the method fetching the rows of the key's
// table that point at this record
func (g generator) writeBackReference(f *OutputFile, fk *drivers.ForeignKey) {
	from := fk.Table()

	f.Line("/** @return %s[] */", from.Name)
	f.Open("public function %s(bool $resolve = false) : array {", backReferenceName(fk))
	f.Line("$output = [];")
	f.Line(`$result = Database::ExecuteAsPrepared("SELECT * FROM %s WHERE %s = ?", "%s", [%s]);`,
		from.Name, fk.Local.Name,
		language.BindingCodes([]*drivers.Column{fk.Local}),
		language.Property(fk.Remote.FKAwareName()),
	)
	f.Line("while ($row = $result->fetch_assoc())")
	f.Body("$output[] = %s::ParseAssoc($row, $resolve);", from.Name)
	f.Line("$result->free();")
	f.Line("return $output;")
	f.Close("}")
}

// writeManyToMany emits the method collecting the records on the far side
// of a join table, loaded in one batch by their keys
func (g generator) writeManyToMany(f *OutputFile, link manyToMany) {
	other := link.other.RemoteTable()

	f.Open("public function Resolve%s() {", link.property)
	f.Line("%s = %s(array_map(function($x) { return %s; }, %s(false)));",
		language.Property(link.property),
		qualified(other.Database.Name, packName(other)),
		"$x->"+link.other.Local.FKAwareName(),
		language.Property(backReferenceName(link.via)),
	)
	f.Close("}")
}

// manyToManyLinks lists the join tables leading away from t whose far
// side can be batch loaded, that is whose key points at the far table's
// single column primary key
func manyToManyLinks(t *drivers.Table) []manyToMany {
	used := make(map[string]struct{})
	for _, c := range t.Columns {
		used[c.FKAwareName()] = struct{}{}
	}
	for _, fk := range t.ForeignKeys {
		used[fk.Local.Name] = struct{}{}
	}

	var links []manyToMany
	for _, via := range t.ReferencedBy {
		join := via.Table()
		if !join.IsJoinTable() {
			continue
		}

		other := join.OtherForeignKey(via)
		if other == nil {
			continue
		}

		far := other.RemoteTable()
		if far.PrimaryKey == nil || !far.PrimaryKey.IsSimple() || far.PrimaryKey.Columns[0] != other.Remote {
			continue
		}

		property := manyToManyProperty(far)
		if _, ok := used[property]; ok {
			property = manyToManyFallback(far, via)
		}
		used[property] = struct{}{}

		links = append(links, manyToMany{via: via, other: other, property: property})
	}

	return links
}

// writeList writes one entry per line, separated by commas
func (g generator) writeList(f *OutputFile, entries []string) {
	for i, e := range entries {
		end := ","
		if i == len(entries)-1 {
			end = g.php.ListEnd()
		}
		f.Line("%s%s", e, end)
	}
}
