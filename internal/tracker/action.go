package tracker

import "encoding/json"

// ActionRecord is a single validated occurrence of an activity.
type ActionRecord struct {
	Action string  `json:"action"`
	Time   float64 `json:"time"`
}

// ActivityStats accumulates every record seen for one activity name.
type ActivityStats struct {
	Entries int     `json:"entries"`
	TimeSum float64 `json:"timeSum"`
}

// Avg returns sum divided by n.
func Avg(sum float64, n int) float64 {
	return sum / float64(n)
}

// ParseAction decodes raw JSON text into its generic representation.
func ParseAction(raw string) (any, error) {
	var obj any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, &ParseError{Err: err}
	}
	return obj, nil
}

// ValidateAction checks that obj is shaped like {"action": string, "time": number >= 0}.
// The first failing check is returned. A zero time is accepted.
func ValidateAction(obj any) error {
	fields, _ := obj.(map[string]any)

	action := fields["action"]
	if !truthy(action) {
		return ErrMissingAction
	}
	if _, ok := action.(string); !ok {
		return ErrActionNotString
	}

	t, ok := fields["time"]
	if !ok || t == nil {
		return ErrMissingTime
	}
	if n, ok := t.(float64); !ok || n < 0 {
		return ErrInvalidTime
	}
	return nil
}

// TransformAction folds rec into existing and returns the result. existing is
// nil on the first occurrence of an activity and is never modified.
func TransformAction(rec ActionRecord, existing *ActivityStats) ActivityStats {
	if existing == nil {
		return ActivityStats{Entries: 1, TimeSum: rec.Time}
	}
	return ActivityStats{
		Entries: existing.Entries + 1,
		TimeSum: existing.TimeSum + rec.Time,
	}
}

// recordFrom must only be called on objects accepted by ValidateAction.
func recordFrom(obj any) ActionRecord {
	fields := obj.(map[string]any)
	return ActionRecord{
		Action: fields["action"].(string),
		Time:   fields["time"].(float64),
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
