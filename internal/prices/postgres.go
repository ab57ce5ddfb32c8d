package prices

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresQuery = `
	SELECT coalesce(address, ''), retail_price
	FROM fuel_prices
	WHERE retail_price IS NOT NULL
`

// LoadPostgres reads the price table from the fuel_prices(address,
// retail_price) table of a Postgres database. The connection is closed
// once the table is loaded.
func LoadPostgres(ctx context.Context, dsn string) (*Table, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, postgresQuery)
	if err != nil {
		return nil, fmt.Errorf("error querying fuel prices: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Address, &r.RetailPrice); err != nil {
			return nil, fmt.Errorf("error scanning fuel price: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fuel prices: %w", err)
	}

	return NewTable(out)
}
