package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// AddRow inserts row into table and returns the row's id.
//
// An id that is missing, nil, empty or zero is dropped so the engine assigns
// the next one; an explicit id is inserted as given and fails with
// ErrConstraint if it is taken. The table is created from row via EnsureTable
// when it does not exist. Values are always bound as parameters.
func (s *Store) AddRow(ctx context.Context, table string, row Row) (int64, error) {
	const op = "add row"
	if err := ValidateIdentifier(table); err != nil {
		return 0, opError(op, table, err)
	}

	row = row.withoutEmptyID()
	if err := row.validate(); err != nil {
		return 0, opError(op, table, err)
	}

	if err := s.EnsureTable(ctx, table, row); err != nil {
		return 0, err
	}

	var query string
	args := make([]any, len(row))
	if len(row) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quoteIdent(table))
	} else {
		cols := make([]string, len(row))
		marks := make([]string, len(row))
		for i, f := range row {
			cols[i] = quoteIdent(f.Column)
			marks[i] = "?"
			args[i] = f.Value
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	}

	res, err := s.exec(ctx, op, table, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, engineError(op, table, err)
	}
	return id, nil
}

// UpdateValue sets one column of the row with the given id and returns the
// number of rows changed. No matching row is not an error: it returns 0.
func (s *Store) UpdateValue(ctx context.Context, table, column string, id int64, value any) (int64, error) {
	const op = "update value"
	if err := ValidateIdentifier(table); err != nil {
		return 0, opError(op, table, err)
	}
	if err := ValidateIdentifier(column); err != nil {
		return 0, opError(op, table, err)
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		quoteIdent(table), quoteIdent(column), quoteIdent(IDColumn))
	return s.update(ctx, op, table, query, value, id)
}

// UpdateRow sets every column of row on the row with the given id, in one
// statement, and returns the number of rows changed. An id field in row is
// ignored. No matching row is not an error: it returns 0.
func (s *Store) UpdateRow(ctx context.Context, table string, id int64, row Row) (int64, error) {
	const op = "update row"
	if err := ValidateIdentifier(table); err != nil {
		return 0, opError(op, table, err)
	}

	row = row.Without(IDColumn)
	if len(row) == 0 {
		return 0, opError(op, table, fmt.Errorf("%w: no columns to update", ErrConfig))
	}
	if err := row.validate(); err != nil {
		return 0, opError(op, table, err)
	}

	sets := make([]string, len(row))
	args := make([]any, 0, len(row)+1)
	for i, f := range row {
		sets[i] = quoteIdent(f.Column) + " = ?"
		args = append(args, f.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdent(table), strings.Join(sets, ", "), quoteIdent(IDColumn))
	return s.update(ctx, op, table, query, args...)
}

func (s *Store) update(ctx context.Context, op, table, query string, args ...any) (int64, error) {
	res, err := s.exec(ctx, op, table, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, engineError(op, table, err)
	}
	if n == 0 {
		s.log.Debug("update matched no rows", "op", op, "table", table)
	}
	return n, nil
}

// GetRow returns the row with the given id, in table column order.
// It fails with ErrNotFound when no row matches.
func (s *Store) GetRow(ctx context.Context, table string, id int64) (Row, error) {
	const op = "get row"
	if err := ValidateIdentifier(table); err != nil {
		return nil, opError(op, table, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", quoteIdent(table), quoteIdent(IDColumn))
	rows, err := s.query(ctx, op, table, query, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, opError(op, table, fmt.Errorf("%w: id %d", ErrNotFound, id))
	}
	return rows[0], nil
}

// GetAllRows returns every row of table ordered by id. The result is fully
// read before returning; an empty table yields an empty, non-nil slice.
// A missing table fails with ErrEngine.
func (s *Store) GetAllRows(ctx context.Context, table string) ([]Row, error) {
	const op = "get all rows"
	if err := ValidateIdentifier(table); err != nil {
		return nil, opError(op, table, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quoteIdent(table), quoteIdent(IDColumn))
	return s.query(ctx, op, table, query)
}

// scanRows maps every result row to a Row in result column order.
// Values keep the storage class they were read with: TEXT as string,
// BLOB as []byte, whatever the column's declared type.
func scanRows(rows *sql.Rows) ([]Row, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []Row{}
	for rows.Next() {
		raw := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(names))
		for i, name := range names {
			row[i] = Field{Column: name, Value: raw[i]}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
