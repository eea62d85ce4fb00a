package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// sqlBackend stores the record as the single row id=1 of the timetable table.
type sqlBackend struct {
	name    string
	db      *sql.DB
	selectQ string
	upsertQ string
	deleteQ string
}

func (s *sqlBackend) Name() string { return s.name }

func (s *sqlBackend) Read(ctx context.Context) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.selectQ).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (s *sqlBackend) Write(ctx context.Context, b []byte) error {
	_, err := s.db.ExecContext(ctx, s.upsertQ, string(b), time.Now().UTC())
	return err
}

func (s *sqlBackend) Remove(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.deleteQ)
	return err
}

func (s *sqlBackend) Close() error { return s.db.Close() }
