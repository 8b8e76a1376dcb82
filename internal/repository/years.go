package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// distinctYears returns the distinct year values of a table. Callers pass a
// fixed table name, never user input.
func distinctYears(ctx context.Context, db *pgxpool.Pool, table string) ([]int, error) {
	rows, err := db.Query(ctx, "SELECT DISTINCT year FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}

	return years, rows.Err()
}
