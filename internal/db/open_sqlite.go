package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed suggestion list.
type Store struct{ db *sql.DB }

// Open connects to the database at path, creating it and the schema when
// missing.
func Open(ctx context.Context, path string) (*Store, error) {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &Store{db: dbh}, nil
}

// OpenExisting connects to a database that must already exist. The schema is
// left untouched.
func OpenExisting(ctx context.Context, path string) (*Store, error) {
	path = expandHome(path)
	// sqlite would otherwise create an empty database at path
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &Store{db: dbh}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Things returns every markdown row ordered by position.
func (s *Store) Things(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT markdown FROM things ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var md sql.NullString
		if err := rows.Scan(&md); err != nil {
			return nil, err
		}
		if !md.Valid {
			return nil, fmt.Errorf("row %d: %w", len(out), ErrNullMarkdown)
		}
		out = append(out, md.String)
	}
	return out, rows.Err()
}

// Append adds things after the current last position, in order.
func (s *Store) Append(ctx context.Context, things ...string) error {
	return inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var last sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(position) FROM things`).Scan(&last); err != nil {
			return err
		}
		next := int64(0)
		if last.Valid {
			next = last.Int64 + 1
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO things(position, markdown) VALUES(?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, md := range things {
			if _, err := stmt.ExecContext(ctx, next+int64(i), md); err != nil {
				return err
			}
		}
		return nil
	})
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS things (
  position INTEGER PRIMARY KEY,
  markdown TEXT NOT NULL
);`)
	return err
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
