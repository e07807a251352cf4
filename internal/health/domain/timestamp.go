package health

import (
	"encoding/json"
	"time"
)

// Timestamp resolution mirrors value resolution: an ordered candidate
// list, tried in priority order, with unparseable candidates skipped.
// The chain always terminates in a value: caller default first, then
// the supplied "now".

var timestampRules = []string{
	"time",
	"timestamp",
	"startTime",
	"endTime",
	"recordedAt",
	"sampleTime",
	"sampleTimestamp",
	"timeRange.start",
}

// Some kinds record an interval and are anchored to its end.
var preferredTimestampField = map[Kind]string{
	KindSteps:    "endTime",
	KindSleep:    "endTime",
	KindExercise: "endTime",
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TimestampRulesFor returns the candidate fields for a kind, with the
// kind's preferred field moved to the front.
func TimestampRulesFor(kind Kind) []string {
	preferred, ok := preferredTimestampField[kind]
	if !ok {
		return timestampRules
	}
	rules := make([]string, 0, len(timestampRules))
	rules = append(rules, preferred)
	for _, rule := range timestampRules {
		if rule != preferred {
			rules = append(rules, rule)
		}
	}
	return rules
}

// ResolveTimestamp extracts the canonical instant of a raw sample.
// Candidates that are absent or unparseable are skipped; if every
// candidate fails the fallback is used, and if the fallback is zero
// the supplied now is used. The result is always a valid UTC instant.
func ResolveTimestamp(sample RawSample, kind Kind, fallback, now time.Time) (time.Time, string) {
	for _, rule := range TimestampRulesFor(kind) {
		raw, ok := lookupPath(sample, rule)
		if !ok || raw == nil {
			continue
		}
		instant, ok := ParseInstant(raw)
		if !ok {
			continue
		}
		return instant.UTC(), rule
	}
	if !fallback.IsZero() {
		return fallback.UTC(), ""
	}
	return now.UTC(), ""
}

// ParseInstant parses a date-like value of any source shape: an
// already-parsed time, an RFC3339-ish string, or an epoch number in
// seconds or milliseconds.
func ParseInstant(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		for _, layout := range instantLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		return epochInstant(int64(v))
	case int64:
		return epochInstant(v)
	case int:
		return epochInstant(int64(v))
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return epochInstant(parsed)
	default:
		return time.Time{}, false
	}
}

// epochInstant accepts milliseconds or seconds.
func epochInstant(value int64) (time.Time, bool) {
	if value <= 0 {
		return time.Time{}, false
	}
	if value > 1_000_000_000_000 {
		return time.UnixMilli(value).UTC(), true
	}
	return time.Unix(value, 0).UTC(), true
}

// ResolvePayloadTimestamp parses the optional payload-level timestamp,
// falling back to now.
func ResolvePayloadTimestamp(payload IngestPayload, now time.Time) time.Time {
	if payload.Timestamp != "" {
		if instant, ok := ParseInstant(payload.Timestamp); ok {
			return instant.UTC()
		}
	}
	return now.UTC()
}
