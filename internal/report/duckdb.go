package report

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/IvanShishkin/fdigest/pkg/models"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const createDigestTablesSQL = `
CREATE TABLE digests (
	row_index BIGINT PRIMARY KEY,
	path VARCHAR NOT NULL,
	name VARCHAR NOT NULL,
	dir VARCHAR NOT NULL,
	extension VARCHAR NOT NULL,
	file_size BIGINT NOT NULL,
	creation_time VARCHAR NOT NULL,
	modification_time VARCHAR NOT NULL,
	digest_hex VARCHAR NOT NULL
);

CREATE TABLE report_metadata (
	key VARCHAR PRIMARY KEY,
	value VARCHAR
);
`

// writeDuckDB stores the report in a new DuckDB database at path
func writeDuckDB(path string, report *models.Report) error {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err := fillDuckDB(db, report); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

func fillDuckDB(db *sql.DB, report *models.Report) error {
	if _, err := db.Exec(createDigestTablesSQL); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	metadata := [][2]string{
		{"run_id", report.RunID},
		{"root", report.Root},
		{"generated_at", report.GeneratedAt.Format(time.RFC3339Nano)},
	}
	for _, kv := range metadata {
		if _, err := tx.Exec("INSERT INTO report_metadata (key, value) VALUES (?, ?)", kv[0], kv[1]); err != nil {
			return fmt.Errorf("error setting %s: %w", kv[0], err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO digests (row_index, path, name, dir, extension, file_size, creation_time, modification_time, digest_hex)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range report.Records {
		if _, err := stmt.Exec(i, r.Path, r.Name, r.Dir, r.Extension, r.Size, r.CreationTime, r.ModificationTime, r.Digest); err != nil {
			return fmt.Errorf("error inserting file %s: %w", r.Path, err)
		}
	}

	return tx.Commit()
}

// readDuckDB loads a report previously written by writeDuckDB
func readDuckDB(path string) (*models.Report, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	report := &models.Report{Records: []models.DigestRecord{}}

	rows, err := db.Query("SELECT key, value FROM report_metadata")
	if err != nil {
		return nil, fmt.Errorf("error reading metadata: %w", err)
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return nil, err
		}
		switch key {
		case "run_id":
			report.RunID = value
		case "root":
			report.Root = value
		case "generated_at":
			report.GeneratedAt, _ = time.Parse(time.RFC3339Nano, value)
		}
	}
	rows.Close()

	rows, err = db.Query(`
		SELECT path, name, dir, extension, file_size, creation_time, modification_time, digest_hex
		FROM digests
		ORDER BY row_index
	`)
	if err != nil {
		return nil, fmt.Errorf("error reading digests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.DigestRecord
		if err := rows.Scan(&r.Path, &r.Name, &r.Dir, &r.Extension, &r.Size, &r.CreationTime, &r.ModificationTime, &r.Digest); err != nil {
			return nil, err
		}
		report.Records = append(report.Records, r)
	}
	return report, rows.Err()
}
