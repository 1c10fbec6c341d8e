package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"marketing-intel/models"
)

// PostgresWriter persists reconciled price rows to PostgreSQL. The table
// is an optional secondary sink; the CSV stays the artifact of record.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection, runs schema migrations, and
// returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_rows (
			id                 SERIAL PRIMARY KEY,
			code               VARCHAR(32) NOT NULL,
			name_en            TEXT        NOT NULL DEFAULT '',
			name_ko            TEXT        NOT NULL DEFAULT '',
			official_price     INTEGER,
			lowest_price       INTEGER     NOT NULL,
			price_diff         INTEGER,
			mall_name          TEXT        NOT NULL DEFAULT '',
			link               TEXT        NOT NULL DEFAULT '',
			image_url          TEXT        NOT NULL DEFAULT '',
			official_image_url TEXT        NOT NULL DEFAULT '',
			market_image_url   TEXT        NOT NULL DEFAULT '',
			match_title        TEXT        NOT NULL DEFAULT '',
			confidence         SMALLINT    NOT NULL DEFAULT 0,
			prev_price         INTEGER,
			price_delta        INTEGER,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_price_rows_code ON price_rows(code);
		CREATE INDEX IF NOT EXISTS idx_price_rows_diff ON price_rows(price_diff);
	`)
	return err
}

// Clear deletes all rows; each run fully replaces the snapshot.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM price_rows")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all reconciled rows, clearing old data first.
func (pw *PostgresWriter) Write(rows []models.PriceRow) error {
	if len(rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.PriceRow) error {
	const cols = 15
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.Code, r.NameEN, r.NameKO,
			nullableInt(r.OfficialPrice), r.LowestPrice, nullableInt(r.Diff),
			r.MallName, r.Link,
			r.FinalImage, r.OfficialImage, r.MarketImage,
			r.MatchTitle, r.Confidence,
			nullableInt(r.PrevPrice), nullableInt(r.Delta))
	}

	query := fmt.Sprintf(`
		INSERT INTO price_rows (
			code, name_en, name_ko,
			official_price, lowest_price, price_diff,
			mall_name, link,
			image_url, official_image_url, market_image_url,
			match_title, confidence,
			prev_price, price_delta
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
