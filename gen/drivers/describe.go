package drivers

// SchemaInfo is an acyclic view of the schema graph,
// suitable for JSON output and templates
type SchemaInfo struct {
	Databases []DatabaseInfo `json:"databases"`
}

type DatabaseInfo struct {
	Name   string      `json:"name"`
	Tables []TableInfo `json:"tables"`
}

type TableInfo struct {
	Name         string           `json:"name"`
	Columns      []ColumnInfo     `json:"columns"`
	PrimaryKey   []string         `json:"primary_key,omitempty"`
	ForeignKeys  []ForeignKeyInfo `json:"foreign_keys,omitempty"`
	Indexes      []IndexInfo      `json:"indexes,omitempty"`
	ReferencedBy []string         `json:"referenced_by,omitempty"`
	IsJoinTable  bool             `json:"is_join_table"`
}

type ColumnInfo struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	TypeExtra     string `json:"type_extra,omitempty"`
	Nullable      bool   `json:"nullable"`
	AutoIncrement bool   `json:"autoincr"`
}

type ForeignKeyInfo struct {
	Column          string `json:"column"`
	ForeignDatabase string `json:"foreign_database"`
	ForeignTable    string `json:"foreign_table"`
	ForeignColumn   string `json:"foreign_column"`
}

type IndexInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// Describe flattens the graph. Back-references are rendered as
// "table.column" of the referencing side.
func (s *Schema) Describe() SchemaInfo {
	info := SchemaInfo{Databases: make([]DatabaseInfo, len(s.Databases))}

	for i, d := range s.Databases {
		dbInfo := DatabaseInfo{Name: d.Name, Tables: make([]TableInfo, len(d.Tables))}
		for j, t := range d.Tables {
			dbInfo.Tables[j] = describeTable(t)
		}
		info.Databases[i] = dbInfo
	}

	return info
}

func describeTable(t *Table) TableInfo {
	info := TableInfo{
		Name:        t.Name,
		Columns:     make([]ColumnInfo, len(t.Columns)),
		IsJoinTable: t.IsJoinTable(),
	}

	for i, c := range t.Columns {
		info.Columns[i] = ColumnInfo{
			Name:          c.Name,
			Type:          c.Type.String(),
			TypeExtra:     c.TypeExtra.GetOr(""),
			Nullable:      c.Nullable,
			AutoIncrement: c.AutoIncrement,
		}
	}

	if t.PrimaryKey != nil {
		info.PrimaryKey = ColumnNames(t.PrimaryKey.Columns)
	}

	for _, fk := range t.ForeignKeys {
		remote := fk.RemoteTable()
		fkInfo := ForeignKeyInfo{
			Column:        fk.Local.Name,
			ForeignTable:  remote.Name,
			ForeignColumn: fk.Remote.Name,
		}
		if remote.Database != nil {
			fkInfo.ForeignDatabase = remote.Database.Name
		}
		info.ForeignKeys = append(info.ForeignKeys, fkInfo)
	}

	for _, idx := range t.Indexes {
		info.Indexes = append(info.Indexes, IndexInfo{
			Name:    idx.Name(),
			Columns: ColumnNames(idx.Columns),
			Unique:  idx.Unique,
		})
	}

	for _, fk := range t.ReferencedBy {
		info.ReferencedBy = append(info.ReferencedBy, fk.Local.FullName())
	}

	return info
}
