// Package catalog models the schema the analyzer validates SQL
// against — tables, views and enum types, built once by the Catalog
// Builder and thereafter treated as read-only.
package catalog

import (
	"strings"

	"sqlsift/internal/dialect"
	"sqlsift/internal/types"
)

// QualifiedName is a (schema?, name) pair. Equality is case-insensitive
// on both parts; an absent schema resolves against the dialect's
// default schema at lookup time rather than being stored eagerly, so
// that the same catalog stays meaningful if asked about under a
// different profile.
type QualifiedName struct {
	Schema string
	Name   string
}

// Resolve returns the QualifiedName with its schema filled in from the
// dialect's default schema when none was given explicitly.
func (q QualifiedName) Resolve(d dialect.Profile) QualifiedName {
	if q.Schema != "" {
		return q
	}
	return QualifiedName{Schema: d.DefaultSchema(), Name: q.Name}
}

// Equal compares two qualified names case-insensitively on both parts.
func (q QualifiedName) Equal(other QualifiedName) bool {
	return strings.EqualFold(q.Schema, other.Schema) && strings.EqualFold(q.Name, other.Name)
}

func (q QualifiedName) String() string {
	if q.Schema == "" {
		return q.Name
	}
	return q.Schema + "." + q.Name
}

// Identity classifies how a column's value is generated, mirroring
// the SQL standard's GENERATED ... AS IDENTITY distinction.
type Identity int

const (
	IdentityNone Identity = iota
	IdentityAlways
	IdentityByDefault
)

// Column is one column of a Table.
type Column struct {
	Name        string
	DataType    types.Type
	RawType     string
	Nullable    bool
	PrimaryKey  bool
	Identity    Identity
	DefaultExpr string
}

// CheckConstraint is a named or anonymous CHECK expression attached to
// a table.
type CheckConstraint struct {
	Name       string
	Expression string
}

// ForeignKey links columns in the owning table to columns of another
// table. Catalog stores the referenced table by name, not by pointer,
// so that tables referencing each other cyclically never create a
// cycle in the owned object graph.
type ForeignKey struct {
	Name               string
	LocalColumns       []string
	ReferencedTable    QualifiedName
	ReferencedColumns  []string
}

// Table is an ordered collection of columns plus its constraints. The
// column order is insertion order; columnIndex gives O(1) case
// insensitive lookup without disturbing that order.
type Table struct {
	Name        QualifiedName
	Columns     []*Column
	columnIndex map[string]int
	Checks      []CheckConstraint
	ForeignKeys []ForeignKey
}

func newTable(name QualifiedName) *Table {
	return &Table{Name: name, columnIndex: make(map[string]int)}
}

// FindColumn looks up a column case-insensitively, returning nil if
// absent.
func (t *Table) FindColumn(name string) *Column {
	if t == nil {
		return nil
	}
	if i, ok := t.columnIndex[strings.ToLower(name)]; ok {
		return t.Columns[i]
	}
	return nil
}

func (t *Table) addColumn(c *Column) {
	key := strings.ToLower(c.Name)
	if i, ok := t.columnIndex[key]; ok {
		t.Columns[i] = c
		return
	}
	t.columnIndex[key] = len(t.Columns)
	t.Columns = append(t.Columns, c)
}

func (t *Table) dropColumn(name string) bool {
	key := strings.ToLower(name)
	i, ok := t.columnIndex[key]
	if !ok {
		return false
	}
	t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
	delete(t.columnIndex, key)
	for k, idx := range t.columnIndex {
		if idx > i {
			t.columnIndex[k] = idx - 1
		}
	}
	return true
}

func (t *Table) renameColumn(from, to string) bool {
	c := t.FindColumn(from)
	if c == nil {
		return false
	}
	i := t.columnIndex[strings.ToLower(from)]
	delete(t.columnIndex, strings.ToLower(from))
	c.Name = to
	t.columnIndex[strings.ToLower(to)] = i
	return true
}

// ColumnNames returns the table's column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// View is a named, queryable projection. Columns is the view's
// exposed column list — either the explicit `(cols...)` list or the
// names inferred from the body's projection (§4.2 view-body column
// inference). The body itself is not retained: once exposed columns
// are computed, a reference to the view never re-enters its body.
type View struct {
	Name         QualifiedName
	Materialized bool
	Columns      []string
}

// EnumType is a user-defined enumeration: an ordered list of labels.
type EnumType struct {
	Name   string
	Labels []string
}

type schemaEntry struct {
	tables map[string]*Table
	views  map[string]*View
}

// Catalog is the immutable schema built by the Catalog Builder. Once
// constructed it is safe to share across readers; rebuilds replace it
// atomically rather than mutating it in place (see config.Store).
type Catalog struct {
	schemas map[string]*schemaEntry
	enums   map[string]*EnumType
}

func newCatalog() *Catalog {
	return &Catalog{
		schemas: make(map[string]*schemaEntry),
		enums:   make(map[string]*EnumType),
	}
}

func (c *Catalog) schema(name string) *schemaEntry {
	key := strings.ToLower(name)
	s, ok := c.schemas[key]
	if !ok {
		s = &schemaEntry{tables: make(map[string]*Table), views: make(map[string]*View)}
		c.schemas[key] = s
	}
	return s
}

// Table looks up a table by qualified name, resolving an absent
// schema against d's default schema.
func (c *Catalog) Table(name QualifiedName, d dialect.Profile) *Table {
	resolved := name.Resolve(d)
	s, ok := c.schemas[strings.ToLower(resolved.Schema)]
	if !ok {
		return nil
	}
	return s.tables[strings.ToLower(resolved.Name)]
}

// View looks up a view by qualified name, resolving an absent schema
// against d's default schema.
func (c *Catalog) View(name QualifiedName, d dialect.Profile) *View {
	resolved := name.Resolve(d)
	s, ok := c.schemas[strings.ToLower(resolved.Schema)]
	if !ok {
		return nil
	}
	return s.views[strings.ToLower(resolved.Name)]
}

// Enum looks up an enum type by its bare name (enums are not
// schema-qualified in this model, matching the spec's flat enum map).
func (c *Catalog) Enum(name string) *EnumType {
	return c.enums[strings.ToLower(name)]
}

// TableNames returns every table's qualified name across all schemas,
// used by the analyzer's nearest-name suggestion heuristic.
func (c *Catalog) TableNames() []QualifiedName {
	var names []QualifiedName
	for _, s := range c.schemas {
		for _, t := range s.tables {
			names = append(names, t.Name)
		}
	}
	return names
}
