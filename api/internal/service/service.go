package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ai-timetable/api/internal/extract"
	"ai-timetable/api/internal/timetable"
)

const msgTimetableExists = "A timetable already exists. Delete it first to add a new one."

var (
	ErrTimetableExists      = errors.New(msgTimetableExists)
	ErrExtractionInProgress = errors.New("an extraction is already in progress")
)

// Extractor is the image to timetable pipeline.
type Extractor interface {
	Run(ctx context.Context, img []byte) (*timetable.Data, error)
}

// Store is the single-record persistence.
type Store interface {
	Load(ctx context.Context) *timetable.Data
	Save(ctx context.Context, d timetable.Data) error
	Delete(ctx context.Context) error
}

// Service holds the one timetable of the application, the loading flag and
// the last user-visible error. Front ends only talk to this type.
type Service struct {
	ex      Extractor
	st      Store
	log     *zap.Logger
	timeout time.Duration

	// writeMu orders every in-memory change with its Save or Delete.
	// Readers only take mu.
	writeMu sync.Mutex

	mu      sync.Mutex
	data    *timetable.Data
	loading bool
	lastErr string
}

type Option func(*Service)

// WithTimeout bounds each extraction. Zero keeps the caller's context as is.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func New(ex Extractor, st Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{ex: ex, st: st, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init loads the persisted timetable once at startup.
func (s *Service) Init(ctx context.Context) {
	d := s.st.Load(ctx)
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
	if d != nil {
		s.log.Info("timetable loaded", zap.Int("days", len(d.Days)))
	}
}

// CurrentTimetable returns a copy of the in-memory timetable, or nil.
func (s *Service) CurrentTimetable() *timetable.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil
	}
	c := s.data.Clone()
	return &c
}

func (s *Service) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError is empty when the last operation succeeded.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SubmitImage extracts a timetable from img and persists it. It is rejected
// while a timetable exists or another extraction is running.
func (s *Service) SubmitImage(ctx context.Context, img []byte) error {
	s.mu.Lock()
	if s.data != nil {
		s.lastErr = msgTimetableExists
		s.mu.Unlock()
		return ErrTimetableExists
	}
	if s.loading {
		s.mu.Unlock()
		return ErrExtractionInProgress
	}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	d, err := s.ex.Run(ctx, img)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to process timetable: " + extract.Message(err)
		s.mu.Unlock()
		return err
	}
	s.data = d
	s.mu.Unlock()

	return s.persist(ctx, *d)
}

func (s *Service) AddClass(ctx context.Context, dayIndex int, entry timetable.ClassEntry) error {
	return s.mutate(ctx, "add class", func(d timetable.Data) (timetable.Data, error) {
		return timetable.AddClass(d, dayIndex, entry)
	})
}

func (s *Service) UpdateClass(ctx context.Context, dayIndex, classIndex int, entry timetable.ClassEntry) error {
	return s.mutate(ctx, "update class", func(d timetable.Data) (timetable.Data, error) {
		return timetable.UpdateClass(d, dayIndex, classIndex, entry)
	})
}

func (s *Service) DeleteClass(ctx context.Context, dayIndex, classIndex int) error {
	return s.mutate(ctx, "delete class", func(d timetable.Data) (timetable.Data, error) {
		return timetable.DeleteClass(d, dayIndex, classIndex)
	})
}

// mutate applies op to the current timetable and saves the result once.
// Without a timetable, or with an index out of range, nothing happens.
func (s *Service) mutate(ctx context.Context, name string, op func(timetable.Data) (timetable.Data, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.data == nil {
		s.mu.Unlock()
		return nil
	}
	next, err := op(*s.data)
	if err != nil {
		s.mu.Unlock()
		s.log.Debug("edit ignored", zap.String("op", name), zap.Error(err))
		return nil
	}
	s.data = &next
	s.mu.Unlock()

	return s.persist(ctx, next)
}

// persist saves d. On failure memory keeps d and the error is recorded.
// The caller holds writeMu.
func (s *Service) persist(ctx context.Context, d timetable.Data) error {
	err := s.st.Save(ctx, d)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Error("save timetable", zap.Error(err))
		s.lastErr = "Failed to save timetable: " + err.Error()
		return err
	}
	s.lastErr = ""
	return nil
}

// DeleteTimetable removes the persisted record and then clears memory.
func (s *Service) DeleteTimetable(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.st.Delete(ctx); err != nil {
		s.log.Error("delete timetable", zap.Error(err))
		s.mu.Lock()
		s.lastErr = "Failed to delete timetable: " + err.Error()
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.data = nil
	s.lastErr = ""
	s.mu.Unlock()
	s.log.Info("timetable deleted")
	return nil
}

// DayIndex resolves a day code to its position in the current timetable.
func (s *Service) DayIndex(code string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return 0, false
	}
	for i, d := range s.data.Days {
		if strings.EqualFold(strings.TrimSpace(d.Day), strings.TrimSpace(code)) {
			return i, true
		}
	}
	return 0, false
}
