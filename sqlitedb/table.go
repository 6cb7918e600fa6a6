package sqlitedb

import (
	"fmt"
	"strings"
)

// ColumnType is a declared SQLite column type from a closed set.
type ColumnType string

// Supported column types.
const (
	TypeText    ColumnType = "TEXT"
	TypeAny     ColumnType = "ANY"
	TypeBlob    ColumnType = "BLOB"
	TypeInt     ColumnType = "INT"
	TypeInteger ColumnType = "INTEGER"
	TypeReal    ColumnType = "REAL"
)

// IDColumn is the implicit primary key present on every table.
const IDColumn = "id"

// idColumnDefinition is the first column of every table created by this package.
var idColumnDefinition = quoteIdent(IDColumn) + " INTEGER PRIMARY KEY AUTOINCREMENT"

// Valid reports whether t belongs to the supported set.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeText, TypeAny, TypeBlob, TypeInt, TypeInteger, TypeReal:
		return true
	default:
		return false
	}
}

// ParseColumnType converts a type tag such as "integer" to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w %q", ErrInvalidColumnType, s)
	}
	return t, nil
}

// Column is one caller-declared column of a Table.
type Column struct {
	Name string
	Type ColumnType
}

// Table describes a table to provision: a name and ordered columns.
// The id column is implicit and always comes first.
type Table struct {
	name    string
	columns []Column
}

// NewTable returns an empty definition for the named table.
func NewTable(name string) (*Table, error) {
	if err := ValidateIdentifier(name); err != nil {
		return nil, err
	}
	return &Table{name: name}, nil
}

// DefineTable builds a definition from columns in order.
// It fails on the first invalid column and returns no definition.
func DefineTable(name string, columns ...Column) (*Table, error) {
	t, err := NewTable(name)
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if err := t.AddColumn(c.Name, c.Type); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column.
//
// Declaring id as INT or INTEGER is accepted and has no effect since id is
// always present; any other type for id fails with ErrIDRedeclared.
func (t *Table) AddColumn(name string, typ ColumnType) error {
	if !typ.Valid() {
		return fmt.Errorf("%w %q for column %q", ErrInvalidColumnType, string(typ), name)
	}
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if strings.EqualFold(name, IDColumn) {
		if typ == TypeInt || typ == TypeInteger {
			return nil
		}
		return fmt.Errorf("%w: id must be INTEGER, got %s", ErrIDRedeclared, typ)
	}
	for _, c := range t.columns {
		if strings.EqualFold(c.Name, name) {
			return fmt.Errorf("%w %q in table %q", ErrDuplicateColumn, name, t.name)
		}
	}
	t.columns = append(t.columns, Column{Name: name, Type: typ})
	return nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns a copy of the declared columns, without id.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) String() string {
	parts := make([]string, len(t.columns))
	for i, c := range t.columns {
		parts[i] = c.Name + " " + string(c.Type)
	}
	return fmt.Sprintf("Table: %s, Columns: [%s]", t.name, strings.Join(parts, ", "))
}

// createSQL renders the CREATE TABLE statement for the definition.
func (t *Table) createSQL() string {
	defs := make([]string, 0, len(t.columns)+1)
	defs = append(defs, idColumnDefinition)
	for _, c := range t.columns {
		defs = append(defs, quoteIdent(c.Name)+" "+string(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(t.name), strings.Join(defs, ", "))
}
