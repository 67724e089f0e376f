// Package tracker aggregates timed activity records into per-activity averages.
package tracker

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Stat is one line of the stats report.
type Stat struct {
	Action string  `json:"action"`
	Avg    Average `json:"avg"`
}

// Average is a reported mean. Non-finite values encode as null, like JSON.stringify.
type Average float64

func (a Average) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Value returns the average as a float64.
func (a Average) Value() float64 {
	return float64(a)
}

// ActionTracker keeps running count and time totals per activity name.
// It is not safe for concurrent use; callers sharing a tracker must serialize access.
type ActionTracker struct {
	actions *statsStore
}

// New returns an empty ActionTracker.
func New() *ActionTracker {
	return &ActionTracker{actions: newStatsStore()}
}

// AddAction parses, validates and folds a serialized record into the tracker.
// Errors are *AddActionError values; the tracker is unchanged when one is returned.
func (t *ActionTracker) AddAction(raw string) error {
	_, err := t.Ingest(raw)
	return err
}

// Ingest behaves like AddAction and also returns the accepted record.
func (t *ActionTracker) Ingest(raw string) (ActionRecord, error) {
	obj, err := ParseAction(raw)
	if err != nil {
		return ActionRecord{}, &AddActionError{Err: err}
	}
	if err := ValidateAction(obj); err != nil {
		return ActionRecord{}, &AddActionError{Err: err}
	}

	rec := recordFrom(obj)
	var existing *ActivityStats
	if current, ok := t.actions.get(rec.Action); ok {
		existing = &current
	}
	t.actions.put(rec.Action, TransformAction(rec, existing))
	return rec, nil
}

// Stats returns the per-activity averages in first-seen order.
func (t *ActionTracker) Stats() []Stat {
	stats := make([]Stat, 0, t.actions.len())
	t.actions.each(func(name string, s ActivityStats) {
		stats = append(stats, Stat{Action: name, Avg: Average(Avg(s.TimeSum, s.Entries))})
	})
	return stats
}

// GetStats returns Stats serialized as a JSON array. An empty tracker yields "[]".
func (t *ActionTracker) GetStats() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Strings and finite-or-null numbers always encode.
	_ = enc.Encode(t.Stats())
	return strings.TrimSuffix(buf.String(), "\n")
}

// Lookup returns the accumulated stats for name.
func (t *ActionTracker) Lookup(name string) (ActivityStats, bool) {
	return t.actions.get(name)
}

// Len returns the number of distinct activities tracked.
func (t *ActionTracker) Len() int {
	return t.actions.len()
}
