package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ai-timetable/api/internal/config"
	"ai-timetable/api/internal/timetable"
)

// ErrNotFound is returned by a Backend when no record has been written yet.
var ErrNotFound = errors.New("store: no timetable saved")

// Backend keeps exactly one raw record.
type Backend interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the record atomically.
	Write(ctx context.Context, b []byte) error
	// Remove deletes the record; a missing record is not an error.
	Remove(ctx context.Context) error
	Close() error
}

// PersistError is a failed write or delete.
type PersistError struct {
	Op      string
	Backend string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s timetable (%s): %v", e.Op, e.Backend, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

type Store struct {
	b   Backend
	log *zap.Logger
}

func New(b Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{b: b, log: log.With(zap.String("store", b.Name()))}
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Driver {
	case "", "file":
		b, err = NewFile(cfg.Path)
	case "sqlite":
		b, err = NewSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		b, err = NewPostgres(ctx, cfg.DatabaseURL)
	case "redis":
		b, err = NewRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return New(b, log), nil
}

// Load returns the saved timetable, or nil when there is none or it can't
// be decoded. Failures are logged, never returned.
func (s *Store) Load(ctx context.Context) *timetable.Data {
	raw, err := s.b.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("read timetable", zap.Error(err))
		}
		return nil
	}
	var d timetable.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		s.log.Warn("stored timetable is corrupt", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil
	}
	if d.Days == nil {
		s.log.Warn("stored timetable has no days")
		return nil
	}
	return &d
}

// Save replaces the stored record. Nil days are written as an empty list so
// the record loads back as a timetable.
func (s *Store) Save(ctx context.Context, d timetable.Data) error {
	if d.Days == nil {
		d.Days = []timetable.DaySchedule{}
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return &PersistError{Op: "save", Backend: s.b.Name(), Err: err}
	}
	if err := s.b.Write(ctx, raw); err != nil {
		return &PersistError{Op: "save", Backend: s.b.Name(), Err: err}
	}
	s.log.Debug("timetable saved", zap.Int("days", len(d.Days)))
	return nil
}

func (s *Store) Delete(ctx context.Context) error {
	if err := s.b.Remove(ctx); err != nil {
		return &PersistError{Op: "delete", Backend: s.b.Name(), Err: err}
	}
	s.log.Debug("timetable deleted")
	return nil
}

func (s *Store) Close() error { return s.b.Close() }
