// Package domain orchestrates action ingestion around a shared tracker.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/actiontracker/internal/observability"
	"example.com/actiontracker/internal/tracker"
)

// ErrRejected matches every error returned for a record that failed parsing or validation.
var ErrRejected = errors.New("action rejected")

// RejectedError carries the tracker's *tracker.AddActionError. Its message is
// the tracker message unchanged.
type RejectedError struct {
	Err error
}

func (e *RejectedError) Error() string {
	return e.Err.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRejected) succeed.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// JournalEntry is an accepted record as written to the audit journal.
type JournalEntry struct {
	ID         string
	Action     string
	Time       float64
	Source     string
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// Journal captures persistence of accepted records. Entries are never read back into the tracker.
type Journal interface {
	Append(ctx context.Context, entry JournalEntry) error
}

// IngestInput is a raw record and the channel it arrived on.
type IngestInput struct {
	Raw    string
	Source string
}

// Ingested describes an accepted record.
type Ingested struct {
	ID         string
	Record     tracker.ActionRecord
	ReceivedAt time.Time
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithJournal appends every accepted record to journal.
func WithJournal(journal Journal) Option {
	return func(s *Service) {
		s.journal = journal
	}
}

// WithLogger overrides the logger used to report journal errors.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used to stamp accepted records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service serializes access to one tracker and is safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	tracker *tracker.ActionTracker
	journal Journal
	logger  *log.Logger
	now     func() time.Time
}

// NewService constructs a Service around an empty tracker.
func NewService(opts ...Option) *Service {
	s := &Service{
		tracker: tracker.New(),
		logger:  log.New(log.Writer(), "[domain] ", log.LstdFlags|log.Lshortfile),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest folds a raw record into the tracker. Rejections return a *RejectedError.
// A journal failure is logged and counted but does not undo the fold.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (*Ingested, error) {
	source := input.Source
	if source == "" {
		source = "unknown"
	}

	s.mu.Lock()
	rec, err := s.tracker.Ingest(input.Raw)
	activities := s.tracker.Len()
	s.mu.Unlock()

	if err != nil {
		observability.RecordRejected(source, rejectReason(err))
		return nil, &RejectedError{Err: err}
	}

	ingested := &Ingested{
		ID:         uuid.NewString(),
		Record:     rec,
		ReceivedAt: s.now().UTC(),
	}
	observability.RecordAccepted(source, activities, ingested.ReceivedAt)

	if s.journal != nil {
		entry := JournalEntry{
			ID:         ingested.ID,
			Action:     rec.Action,
			Time:       rec.Time,
			Source:     source,
			Payload:    json.RawMessage(input.Raw),
			ReceivedAt: ingested.ReceivedAt,
		}
		if err := s.journal.Append(ctx, entry); err != nil {
			s.logger.Printf("journal append failed (id=%s, action=%s): %v", entry.ID, entry.Action, err)
			observability.RecordJournalError()
		}
	}

	return ingested, nil
}

// Stats returns the tracker's JSON stats report.
func (s *Service) Stats(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.GetStats()
}

// Snapshot returns the per-activity averages in first-seen order.
func (s *Service) Snapshot(ctx context.Context) []tracker.Stat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Stats()
}

// ActivityCount returns the number of distinct activities tracked.
func (s *Service) ActivityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Len()
}

func rejectReason(err error) string {
	var verr *tracker.ValidationError
	if errors.As(err, &verr) {
		return verr.Field
	}
	return "parse"
}
