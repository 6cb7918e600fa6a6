package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ColumnInfo describes a column of a live table.
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

const (
	tableExistsQuery = `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`

	listTablesQuery = `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`

	tableInfoQuery = `SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`
)

// TableExists reports whether a table with the given name exists.
// The lookup is case-insensitive, as SQLite table names are.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	const op = "table exists"
	db, err := s.conn(op, name)
	if err != nil {
		return false, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var found int
	err = db.QueryRowContext(ctx, tableExistsQuery, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, engineError(op, name, err)
	}
	return true, nil
}

// CreateTable creates the table described by t, with id as its first column.
//
// If the table already exists nothing is changed, even when its columns
// differ from t: the condition is logged and reported by returning false.
func (s *Store) CreateTable(ctx context.Context, t *Table) (bool, error) {
	const op = "create table"
	if t == nil {
		return false, opError(op, "", fmt.Errorf("%w: nil table definition", ErrConfig))
	}

	exists, err := s.TableExists(ctx, t.name)
	if err != nil {
		return false, err
	}
	if exists {
		s.log.Info("table already exists", "table", t.name)
		return false, nil
	}

	if _, err := s.exec(ctx, op, t.name, t.createSQL()); err != nil {
		return false, err
	}
	s.log.Info("table created", "table", t.name, "columns", len(t.columns))
	return true, nil
}

// EnsureTable creates the named table from a sample row when it does not
// exist yet. Column types are inferred from the sample's Go values; id is
// always the INTEGER primary key.
//
// EnsureTable is not a migration: an existing table is left untouched, so a
// sample with columns the live table lacks adds nothing, and later writes
// referencing those columns fail with ErrEngine. Use MigrateTable to add
// columns.
func (s *Store) EnsureTable(ctx context.Context, name string, sample Row) error {
	const op = "ensure table"
	if err := ValidateIdentifier(name); err != nil {
		return opError(op, name, err)
	}
	if err := sample.validate(); err != nil {
		return opError(op, name, err)
	}

	defs := make([]string, 0, len(sample)+1)
	defs = append(defs, idColumnDefinition)
	for _, f := range sample {
		if strings.EqualFold(f.Column, IDColumn) {
			continue
		}
		def := quoteIdent(f.Column)
		if typ := inferType(f.Value); typ != "" {
			def += " " + typ
		}
		defs = append(defs, def)
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	_, err := s.exec(ctx, op, name, query)
	return err
}

// Tables lists user tables by name, excluding SQLite's internal tables.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	const op = "list tables"
	db, err := s.conn(op, "")
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, engineError(op, "", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, engineError(op, "", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, engineError(op, "", err)
	}
	return names, nil
}

// Columns describes the live columns of a table in declaration order.
// A table that does not exist has no columns.
func (s *Store) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	const op = "list columns"
	if err := ValidateIdentifier(table); err != nil {
		return nil, opError(op, table, err)
	}
	db, err := s.conn(op, table)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := db.QueryContext(ctx, tableInfoQuery, table)
	if err != nil {
		return nil, engineError(op, table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		var notNull, pk int
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &pk); err != nil {
			return nil, engineError(op, table, err)
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, engineError(op, table, err)
	}
	return cols, nil
}

// MigrateTable brings a table up to definition t, additively.
//
// A missing table is created. Otherwise each column of t the live table
// lacks is added as a nullable column, all in one transaction. Columns are
// never dropped, renamed or retyped. The names of added columns are returned.
func (s *Store) MigrateTable(ctx context.Context, t *Table) ([]string, error) {
	const op = "migrate table"
	if t == nil {
		return nil, opError(op, "", fmt.Errorf("%w: nil table definition", ErrConfig))
	}

	created, err := s.CreateTable(ctx, t)
	if err != nil {
		return nil, err
	}
	if created {
		added := make([]string, len(t.columns))
		for i, c := range t.columns {
			added[i] = c.Name
		}
		return added, nil
	}

	live, err := s.Columns(ctx, t.name)
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(live))
	for _, c := range live {
		present[strings.ToLower(c.Name)] = struct{}{}
	}

	var missing []Column
	for _, c := range t.columns {
		if _, ok := present[strings.ToLower(c.Name)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	if err := s.addColumns(ctx, op, t.name, missing); err != nil {
		return nil, err
	}

	added := make([]string, len(missing))
	for i, c := range missing {
		added[i] = c.Name
	}
	s.log.Info("table migrated", "table", t.name, "added", added)
	return added, nil
}

// addColumns issues one ALTER TABLE per column inside a transaction.
func (s *Store) addColumns(ctx context.Context, op, table string, columns []Column) error {
	db, err := s.conn(op, table)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return engineError(op, table, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	for _, c := range columns {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quoteIdent(table), quoteIdent(c.Name), c.Type)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return engineError(op, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return engineError(op, table, err)
	}
	return nil
}
