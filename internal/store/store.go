// Package store keeps the imported fuel price table and the persistent
// reverse-geocoding cache in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/patrickmn/go-cache"

	"github.com/rubiojr/fuelstops/internal/prices"
)

const (
	defaultCacheExpiration = 10 * time.Minute
	defaultCacheCleanup    = 30 * time.Minute
	defaultCacheSize       = -1024 * 1024 // negative value for pages
	defaultPageSize        = 4096
	deleteBatchSize        = 1000
	deleteRecordsPause     = 50 * time.Millisecond
)

const priceTableKey = "price_table"

// ErrNoPrices is returned when no price import has been stored yet.
var ErrNoPrices = errors.New("no fuel prices imported")

type Storage struct {
	db    *sql.DB
	cache *cache.Cache
	log   *slog.Logger
}

// Import describes one price import.
type Import struct {
	Source     string
	Rows       int
	ImportedAt time.Time
}

func NewStorage(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := configureSQLitePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Storage{
		db:    db,
		cache: cache.New(defaultCacheExpiration, defaultCacheCleanup),
		log:   logger,
	}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fuel_prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		truckstop_id TEXT,
		name TEXT,
		address TEXT NOT NULL,
		city TEXT,
		state TEXT,
		rack_id TEXT,
		retail_price REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fuel_prices_state ON fuel_prices(state);

	CREATE TABLE IF NOT EXISTS price_imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		rows INTEGER NOT NULL,
		imported_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS geocode_cache (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_created_at ON geocode_cache(created_at);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}
	return nil
}

func configureSQLitePragmas(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000;"); err != nil {
		return fmt.Errorf("error setting busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("error setting journal mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA auto_vacuum = INCREMENTAL;"); err != nil {
		return fmt.Errorf("error setting auto vacuum: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA temp_store = FILE;"); err != nil {
		return fmt.Errorf("error setting temp store: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA mmap_size = 0;"); err != nil {
		return fmt.Errorf("error disabling mmap: %w", err)
	}

	// 64MB
	if _, err := db.ExecContext(ctx, "PRAGMA soft_heap_limit = 67108864;"); err != nil {
		return fmt.Errorf("error setting soft heap limit: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		return fmt.Errorf("error setting synchronous: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize)); err != nil {
		return fmt.Errorf("error setting cache size: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize)); err != nil {
		return fmt.Errorf("error setting page size: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.cache != nil {
		s.cache.Flush()
	}
	return s.db.Close()
}

// SavePrices replaces the stored price table with rows and records the
// import. The replacement is atomic.
func (s *Storage) SavePrices(ctx context.Context, source string, rows []prices.Row) error {
	if len(rows) == 0 {
		return prices.ErrEmptyTable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Error("rollback error", "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fuel_prices"); err != nil {
		return fmt.Errorf("error clearing fuel prices: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fuel_prices (truckstop_id, name, address, city, state, rack_id, retail_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx, r.TruckstopID, r.Name, r.Address, r.City, r.State, r.RackID, r.RetailPrice)
		if err != nil {
			return fmt.Errorf("error inserting price for %q: %w", r.Address, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO price_imports (source, rows, imported_at) VALUES (?, ?, ?)",
		source, len(rows), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("error recording import: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	s.cache.Delete(priceTableKey)
	s.log.Info("Fuel prices imported", "source", source, "rows", len(rows))

	return nil
}

// LoadPrices returns the stored price table. The table is kept in memory
// until the next import or for defaultCacheExpiration.
func (s *Storage) LoadPrices(ctx context.Context) (*prices.Table, error) {
	if cached, found := s.cache.Get(priceTableKey); found {
		s.log.Debug("Using cached data", "key", priceTableKey)
		return cached.(*prices.Table), nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT coalesce(truckstop_id, ''), coalesce(name, ''), address,
		       coalesce(city, ''), coalesce(state, ''), coalesce(rack_id, ''), retail_price
		FROM fuel_prices ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying fuel prices: %w", err)
	}
	defer rows.Close()

	var out []prices.Row
	for rows.Next() {
		var r prices.Row
		if err := rows.Scan(&r.TruckstopID, &r.Name, &r.Address, &r.City, &r.State, &r.RackID, &r.RetailPrice); err != nil {
			return nil, fmt.Errorf("error scanning fuel price: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoPrices
	}

	table, err := prices.NewTable(out)
	if err != nil {
		return nil, err
	}

	s.cache.Set(priceTableKey, table, cache.DefaultExpiration)
	return table, nil
}

// PriceCount returns the number of stored price rows.
func (s *Storage) PriceCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fuel_prices").Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting fuel prices: %w", err)
	}
	return count, nil
}

// LastImport returns the most recent price import, or nil if there is none.
func (s *Storage) LastImport(ctx context.Context) (*Import, error) {
	var imp Import
	var importedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT source, rows, imported_at FROM price_imports ORDER BY id DESC LIMIT 1",
	).Scan(&imp.Source, &imp.Rows, &importedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying last import: %w", err)
	}
	imp.ImportedAt = time.Unix(importedAt, 0)
	return &imp, nil
}

// VacuumDatabase reclaims pages freed by deletes.
func (s *Storage) VacuumDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "PRAGMA incremental_vacuum(1000)")
	if err != nil {
		return fmt.Errorf("error performing incremental vacuum: %w", err)
	}

	return nil
}
