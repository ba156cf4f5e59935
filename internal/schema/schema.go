// Package schema declares the store's table shapes as data.
//
// The same declarations drive both directions of shape handling: the
// creation script executed when a fresh store is initialized, and the
// expected table/column sets an existing store is validated against on
// open. Keeping one source of truth prevents drift between what we create
// and what we require.
package schema

import "strings"

// Column is a single column declaration: name plus its SQL definition text.
type Column struct {
	Name string
	Def  string
}

// Constraint is a table-level constraint: the constraint clause head
// (e.g. "FOREIGN KEY(tag_group)") plus its definition text.
type Constraint struct {
	Clause string
	Def    string
}

// Table declares one entity table. Column order is significant: it is the
// order columns appear in the creation script.
type Table struct {
	Name        string
	Columns     []Column
	Constraints []Constraint
}

// Entity table names.
const (
	TableFiles       = "files"
	TableTagGroups   = "tag_groups"
	TableTags        = "tags"
	TableTaggedFiles = "tagged_files"
)

// tables lists every entity table in creation order. Referenced tables
// come before their referrers so the creation script is valid as written.
var tables = []Table{
	{
		Name: TableFiles,
		Columns: []Column{
			{Name: "file_id", Def: "INTEGER PRIMARY KEY"},
			{Name: "file_path", Def: "TEXT UNIQUE NOT NULL"},
			{Name: "file_digest", Def: "TEXT UNIQUE NOT NULL"},
		},
	},
	{
		Name: TableTagGroups,
		Columns: []Column{
			{Name: "group_id", Def: "INTEGER PRIMARY KEY"},
			{Name: "group_name", Def: "TEXT UNIQUE NOT NULL"},
		},
	},
	{
		Name: TableTags,
		Columns: []Column{
			{Name: "tag_id", Def: "INTEGER PRIMARY KEY"},
			{Name: "tag_name", Def: "TEXT NOT NULL"},
			{Name: "tag_group", Def: "INTEGER NOT NULL"},
		},
		Constraints: []Constraint{
			{Clause: "FOREIGN KEY(tag_group)", Def: "REFERENCES tag_groups(group_id) ON DELETE RESTRICT ON UPDATE CASCADE"},
			{Clause: "UNIQUE(tag_name, tag_group)", Def: ""},
		},
	},
	{
		Name: TableTaggedFiles,
		Columns: []Column{
			{Name: "tag", Def: "INTEGER NOT NULL"},
			{Name: "file", Def: "INTEGER NOT NULL"},
		},
		Constraints: []Constraint{
			{Clause: "FOREIGN KEY(tag)", Def: "REFERENCES tags(tag_id) ON DELETE RESTRICT ON UPDATE CASCADE"},
			{Clause: "FOREIGN KEY(file)", Def: "REFERENCES files(file_id) ON DELETE RESTRICT ON UPDATE CASCADE"},
			{Clause: "UNIQUE(tag, file)", Def: ""},
		},
	},
}

// Tables returns the table declarations in creation order.
func Tables() []Table {
	return tables
}

// TableNames returns the set of entity table names.
func TableNames() map[string]struct{} {
	names := make(map[string]struct{}, len(tables))
	for _, tbl := range tables {
		names[tbl.Name] = struct{}{}
	}
	return names
}

// ExpectedColumns returns the column-name set for a table, excluding
// constraint entries. Returns nil for an unknown table name.
func ExpectedColumns(table string) map[string]struct{} {
	for _, tbl := range tables {
		if tbl.Name != table {
			continue
		}
		cols := make(map[string]struct{}, len(tbl.Columns))
		for _, col := range tbl.Columns {
			cols[col.Name] = struct{}{}
		}
		return cols
	}
	return nil
}

// CreationScript returns a single SQL script that creates every entity
// table. The caller must execute it inside one transaction so a fresh
// store gets all tables or none.
func CreationScript() string {
	var b strings.Builder
	for _, tbl := range tables {
		b.WriteString("CREATE TABLE ")
		b.WriteString(tbl.Name)
		b.WriteString(" (\n")
		parts := make([]string, 0, len(tbl.Columns)+len(tbl.Constraints))
		for _, col := range tbl.Columns {
			parts = append(parts, "    "+col.Name+" "+col.Def)
		}
		for _, con := range tbl.Constraints {
			if con.Def == "" {
				parts = append(parts, "    "+con.Clause)
			} else {
				parts = append(parts, "    "+con.Clause+" "+con.Def)
			}
		}
		b.WriteString(strings.Join(parts, ",\n"))
		b.WriteString("\n);\n")
	}
	return b.String()
}
