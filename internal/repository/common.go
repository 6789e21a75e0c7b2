package repository

import (
	"context"
	"fmt"

	"job-portal/internal/database"
)

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// jsonArg keeps empty documents as SQL NULL.
func jsonArg(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// createdPerDay counts rows of table created on each of the last days days,
// oldest first, including days with no rows.
func createdPerDay(ctx context.Context, q database.Querier, table string, days int) ([]int, error) {
	if days <= 0 {
		return []int{}, nil
	}
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT count(t.created_at)
		 FROM generate_series(current_date - ($1::int - 1), current_date, interval '1 day') AS d(day)
		 LEFT JOIN %s t ON t.created_at::date = d.day::date
		 GROUP BY d.day
		 ORDER BY d.day`, table),
		days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, 0, days)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
