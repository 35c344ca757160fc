package gen

import (
	"github.com/ddlgen/ddlgen/gen/drivers"
	"github.com/volatiletech/strmangle"
)

// Generated names are plain concatenations of fixed affixes with
// table, column and index names, identical schemas give identical names.

func getAllName(t *drivers.Table) string { return "GetAll" + t.Name }

func getName(t *drivers.Table) string { return "Get" + t.Name }

func packName(t *drivers.Table) string { return "Get" + t.Name + "Pack" }

func packByName(t *drivers.Table, c *drivers.Column) string {
	return "Get" + t.Name + "PackBy" + c.Name
}

func uniqueIndexName(t *drivers.Table, idx *drivers.Index) string {
	return "Get" + t.Name + "By" + idx.Name()
}

func indexName(t *drivers.Table, idx *drivers.Index) string {
	return "GetAll" + t.Name + "By" + idx.Name()
}

func createName(t *drivers.Table) string { return "Create" + t.Name }

func deleteName(t *drivers.Table) string { return "Delete" + t.Name }

func modifyName(t *drivers.Table) string { return "Modify" + t.Name }

// backReferenceName fetches the rows of the key's table that point at a record
func backReferenceName(fk *drivers.ForeignKey) string {
	return "GetReferencesFrom" + fk.Table().Name + "By" + fk.Local.FKAwareName()
}

// manyToManyProperty holds the records reached through a join table
func manyToManyProperty(other *drivers.Table) string {
	return strmangle.Plural(other.Name)
}

// manyToManyFallback is used when the plain property name is taken,
// e.g. two join tables leading to the same table
func manyToManyFallback(other *drivers.Table, fk *drivers.ForeignKey) string {
	return manyToManyProperty(other) + "Via" + fk.Table().Name + "By" + fk.Local.Name
}

func databaseFile(db *drivers.Database) string {
	return db.Name + ".php"
}
