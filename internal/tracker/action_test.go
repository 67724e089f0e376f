package tracker

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvg(t *testing.T) {
	require.Equal(t, 60.0, Avg(300, 5))
	require.Equal(t, 200.0, Avg(400, 2))
	require.Equal(t, 2.5, Avg(5, 2))
}

func TestParseActionReturnsObject(t *testing.T) {
	obj, err := ParseAction(`{"a":"foo","b":"bar"}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": "foo", "b": "bar"}, obj)
}

func TestParseActionRejectsMalformedText(t *testing.T) {
	_, err := ParseAction(`{"a":`)
	require.EqualError(t, err, "invalid action - must be JSON string")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.NotNil(t, perr.Unwrap())
}

func TestValidateActionAcceptsWellFormedRecords(t *testing.T) {
	for _, obj := range []any{
		map[string]any{"action": "jump", "time": 100.0},
		map[string]any{"action": "jump", "time": 0.0},
		map[string]any{"action": "jump", "time": 0.25},
	} {
		require.NoError(t, ValidateAction(obj))
	}
}

func TestValidateActionFailsFast(t *testing.T) {
	// Both fields are wrong; the action check runs first.
	err := ValidateAction(map[string]any{"action": 7.0, "time": -1.0})
	require.ErrorIs(t, err, ErrActionNotString)
}

func TestValidateActionDoesNotMutateInput(t *testing.T) {
	obj := map[string]any{"action": "jump", "time": 100.0}
	require.NoError(t, ValidateAction(obj))
	require.Equal(t, map[string]any{"action": "jump", "time": 100.0}, obj)
}

func TestValidateActionHandlesNil(t *testing.T) {
	require.ErrorIs(t, ValidateAction(nil), ErrMissingAction)
}

func TestTransformActionFirstOccurrence(t *testing.T) {
	got := TransformAction(ActionRecord{Action: "jump", Time: 100}, nil)
	require.Equal(t, ActivityStats{Entries: 1, TimeSum: 100}, got)
}

func TestTransformActionFoldsIntoExisting(t *testing.T) {
	existing := ActivityStats{Entries: 1, TimeSum: 100}
	got := TransformAction(ActionRecord{Action: "jump", Time: 100}, &existing)

	require.Equal(t, ActivityStats{Entries: 2, TimeSum: 200}, got)
	require.Equal(t, ActivityStats{Entries: 1, TimeSum: 100}, existing)
}

func TestTrackerSumsMatchSubmittedRecords(t *testing.T) {
	times := []float64{3, 0, 17.5, 42, 1, 99.25}
	tr := New()
	var sum float64
	for _, v := range times {
		_, err := tr.Ingest(`{"action":"lift","time":` + strconv.FormatFloat(v, 'f', -1, 64) + `}`)
		require.NoError(t, err)
		sum += v
	}

	stats, ok := tr.Lookup("lift")
	require.True(t, ok)
	require.Equal(t, len(times), stats.Entries)
	require.Equal(t, sum, stats.TimeSum)
	require.Equal(t, sum/float64(len(times)), tr.Stats()[0].Avg.Value())
}
