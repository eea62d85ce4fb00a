package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

func NewSQLite(ctx context.Context, path string) (Backend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &sqlBackend{
		name:    "sqlite",
		db:      db,
		selectQ: `SELECT data FROM timetable WHERE id = 1`,
		upsertQ: `INSERT OR REPLACE INTO timetable (id, data, updated_at) VALUES (1, ?, ?)`,
		deleteQ: `DELETE FROM timetable WHERE id = 1`,
	}, nil
}
