package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitfam/internal/apperror"
	"fitfam/internal/database"
	"fitfam/internal/querybuilder"
)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// queryList runs query and scans every row with scan
func queryList[T any](ctx context.Context, q database.DBTX, scan func(scanner) (*T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// exists reports whether table has a row with the given id
func exists(ctx context.Context, q database.DBTX, table string, id any) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return count > 0, nil
}

// updateStatement renders an UPDATE that also stamps modify_date.
// The where clause's placeholders follow the SET placeholders.
func updateStatement(table string, data querybuilder.Values, fields querybuilder.FieldMap, where string, whereArgs ...any) (string, []any, error) {
	fragment, err := querybuilder.BuildUpdate(data, fields)
	if err != nil {
		return "", nil, err
	}
	query := "UPDATE " + table + " " + fragment.SQL + ", modify_date = CURRENT_TIMESTAMP WHERE " + where
	return query, append(fragment.Args, whereArgs...), nil
}

// affected returns notFound when result touched no rows
func affected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// requireExists returns a not-found error naming entity when table has no row with id
func requireExists(ctx context.Context, q database.DBTX, table, entity string, id any) error {
	ok, err := exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound(entity, id)
	}
	return nil
}
