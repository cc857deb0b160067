package backends

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/olapbench/olapbench/internal/registry"
)

// sqliteEngine loads the dataset into an in-memory SQLite table and
// runs each operation as SQL. The load is part of the measured work, the
// same way the SQL engines in the reference comparisons re-read the CSV
// on every query.
type sqliteEngine struct {
	datasetPath string
	out         io.Writer
}

func (e *sqliteEngine) register(reg *registry.Registry) error {
	ops := map[registry.Operation]registry.OpFunc{
		registry.OpFilterCount:           e.filterCount,
		registry.OpFilterGroupSum:        e.filterGroupSum,
		registry.OpGroupConditionalCount: e.groupConditionalCount,
	}
	for op, fn := range ops {
		if err := reg.Register(registry.BackendSQLite, op, fn); err != nil {
			return err
		}
	}
	return nil
}

// withDataset opens a fresh in-memory database, loads the CSV dataset
// into it, runs fn, and closes the database. Every invocation starts
// from an empty engine so no state leaks between iterations.
func (e *sqliteEngine) withDataset(fn func(db *sql.DB) error) error {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database: %w", err)
	}
	defer db.Close()

	// A single connection keeps every statement on the same in-memory
	// database instance.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE ecommerce (
		event_time    TEXT,
		event_type    TEXT,
		product_id    INTEGER,
		category_id   INTEGER,
		category_code TEXT,
		brand         TEXT,
		price         REAL,
		user_id       INTEGER,
		user_session  TEXT
	)`); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if err := e.loadCSV(db); err != nil {
		return err
	}
	return fn(db)
}

func (e *sqliteEngine) loadCSV(db *sql.DB) error {
	f, err := os.Open(e.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columnCount
	if _, err := r.Read(); err != nil { // header
		return fmt.Errorf("failed to read dataset header: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO ecommerce
		(event_time, event_type, product_id, category_id, category_code, brand, price, user_id, user_session)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read dataset row: %w", err)
		}
		if _, err := stmt.Exec(
			row[colEventTime], row[colEventType], row[colProductID],
			row[colCategoryID], row[colCategoryCode], row[colBrand],
			row[colPrice], row[colUserID], row[colUserSession],
		); err != nil {
			return fmt.Errorf("failed to insert dataset row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset load: %w", err)
	}
	return nil
}

func (e *sqliteEngine) filterCount() error {
	return e.withDataset(func(db *sql.DB) error {
		var count int
		row := db.QueryRow(`SELECT COUNT(*) FROM ecommerce WHERE event_type = 'purchase'`)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("filter-count query failed: %w", err)
		}
		fmt.Fprintf(e.out, "purchase_count: %d\n", count)
		return nil
	})
}

func (e *sqliteEngine) filterGroupSum() error {
	return e.withDataset(func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT category_code, SUM(price) AS total_sales
			FROM ecommerce
			WHERE event_type = 'purchase'
			GROUP BY category_code
			ORDER BY total_sales DESC`)
		if err != nil {
			return fmt.Errorf("filter-group-sum query failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var category string
			var total float64
			if err := rows.Scan(&category, &total); err != nil {
				return fmt.Errorf("filter-group-sum scan failed: %w", err)
			}
			fmt.Fprintf(e.out, "%s: total_sales=%.2f\n", category, total)
		}
		return rows.Err()
	})
}

func (e *sqliteEngine) groupConditionalCount() error {
	return e.withDataset(func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT
				category_code,
				SUM(CASE WHEN event_type = 'view' THEN 1 ELSE 0 END) AS views,
				SUM(CASE WHEN event_type = 'cart' THEN 1 ELSE 0 END) AS carts,
				SUM(CASE WHEN event_type = 'purchase' THEN 1 ELSE 0 END) AS purchases
			FROM ecommerce
			GROUP BY category_code
			ORDER BY purchases DESC`)
		if err != nil {
			return fmt.Errorf("group-conditional-count query failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var category string
			var views, carts, purchases int
			if err := rows.Scan(&category, &views, &carts, &purchases); err != nil {
				return fmt.Errorf("group-conditional-count scan failed: %w", err)
			}
			fmt.Fprintf(e.out, "%s: views=%d carts=%d purchases=%d\n", category, views, carts, purchases)
		}
		return rows.Err()
	})
}
