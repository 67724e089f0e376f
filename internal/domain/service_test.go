package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/actiontracker/internal/tracker"
)

func TestIngestAcceptsRecordAndJournalsIt(t *testing.T) {
	journal := &stubJournal{}
	now := time.Date(2026, time.March, 3, 9, 30, 0, 0, time.FixedZone("X", 3600))
	svc := NewService(WithJournal(journal), WithClock(func() time.Time { return now }), WithLogger(log.New(testWriter{t}, "", 0)))

	ingested, err := svc.Ingest(context.Background(), IngestInput{Raw: `{"action":"jump","time":100}`, Source: "http"})
	require.NoError(t, err)
	require.NotEmpty(t, ingested.ID)
	require.Equal(t, tracker.ActionRecord{Action: "jump", Time: 100}, ingested.Record)
	require.Equal(t, now.UTC(), ingested.ReceivedAt)

	require.Len(t, journal.entries, 1)
	entry := journal.entries[0]
	require.Equal(t, ingested.ID, entry.ID)
	require.Equal(t, "jump", entry.Action)
	require.Equal(t, 100.0, entry.Time)
	require.Equal(t, "http", entry.Source)
	require.JSONEq(t, `{"action":"jump","time":100}`, string(entry.Payload))

	require.Equal(t, `[{"action":"jump","avg":100}]`, svc.Stats(context.Background()))
}

func TestIngestRejectionKeepsTrackerMessage(t *testing.T) {
	journal := &stubJournal{}
	svc := NewService(WithJournal(journal))

	_, err := svc.Ingest(context.Background(), IngestInput{Raw: `{}`, Source: "http"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRejected))
	require.ErrorIs(t, err, tracker.ErrMissingAction)
	require.EqualError(t, err, "addAction - invalid action - missing action")
	require.Empty(t, journal.entries)
	require.Equal(t, "[]", svc.Stats(context.Background()))
}

func TestIngestSurvivesJournalFailure(t *testing.T) {
	journal := &stubJournal{err: errors.New("db down")}
	svc := NewService(WithJournal(journal), WithLogger(log.New(testWriter{t}, "", 0)))

	_, err := svc.Ingest(context.Background(), IngestInput{Raw: `{"action":"swim","time":50}`})
	require.NoError(t, err)
	require.Equal(t, 1, svc.ActivityCount())
}

func TestIngestIsSafeForConcurrentUse(t *testing.T) {
	svc := NewService()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				raw := fmt.Sprintf(`{"action":"a%d","time":%d}`, worker%2, 10)
				_, err := svc.Ingest(context.Background(), IngestInput{Raw: raw, Source: "test"})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	snapshot := svc.Snapshot(context.Background())
	require.Len(t, snapshot, 2)
	for _, stat := range snapshot {
		require.Equal(t, 10.0, stat.Avg.Value())
	}
}

type stubJournal struct {
	mu      sync.Mutex
	entries []JournalEntry
	err     error
}

func (j *stubJournal) Append(_ context.Context, entry JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entry)
	return nil
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}
