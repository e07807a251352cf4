package health

import (
	"math"
	"strings"
	"time"

	"vitals-cloud/internal/flatten"
)

// NormalizeRecords turns every raw sample of a payload into canonical
// records. Ids are assigned by the store; timestamps fall back to the
// payload timestamp and finally to now, so a record timestamp is never
// zero.
func NormalizeRecords(payload IngestPayload, now time.Time) []Record {
	fallback := ResolvePayloadTimestamp(payload, now)

	records := make([]Record, 0)
	for _, kind := range payload.Kinds() {
		for _, sample := range payload.SamplesFor(kind) {
			records = append(records, normalizeSample(payload.OwnerID, kind, sample, fallback, now)...)
		}
	}
	return records
}

func normalizeSample(ownerID string, kind Kind, sample RawSample, fallback, now time.Time) []Record {
	ts, tsPath := ResolveTimestamp(sample, kind, fallback, now)

	if kind == KindBloodPressure {
		return normalizeBloodPressure(ownerID, sample, ts, tsPath)
	}

	record := Record{
		OwnerID: ownerID,
		Kind:    kind,
		TS:      ts,
		Unit:    UnitFor(kind),
	}

	base := map[string]any{}
	markResolved(base, tsPath)

	switch kind {
	case KindSleep:
		value, path := resolveSleepMinutes(sample)
		record.Value = value
		markResolved(base, path)
	case KindExercise:
		value, path := ResolveNumber(sample, ValueRulesFor(kind))
		record.Value = value
		markResolved(base, path)
		text, textPath := ResolveString(sample, exerciseTypeRules)
		record.ValueText = text
		markResolved(base, textPath)
	default:
		value, path := ResolveNumber(sample, ValueRulesFor(kind))
		record.Value = value
		markResolved(base, path)
	}

	record.Meta = leftoverMeta(base, sample)
	return []Record{record}
}

// normalizeBloodPressure emits one record per resolved component, both
// anchored to the same instant, split by discriminator.
func normalizeBloodPressure(ownerID string, sample RawSample, ts time.Time, tsPath string) []Record {
	systolic, systolicPath := ResolveNumber(sample, systolicRules)
	diastolic, diastolicPath := ResolveNumber(sample, diastolicRules)

	base := map[string]any{}
	markResolved(base, tsPath)
	markResolved(base, systolicPath)
	markResolved(base, diastolicPath)
	meta := leftoverMeta(base, sample)

	records := make([]Record, 0, 2)
	if systolic != nil {
		records = append(records, Record{
			OwnerID:       ownerID,
			Kind:          KindBloodPressure,
			TS:            ts,
			Value:         systolic,
			Discriminator: DiscriminatorSystolic,
			Unit:          UnitFor(KindBloodPressure),
			Meta:          meta,
		})
	}
	if diastolic != nil {
		records = append(records, Record{
			OwnerID:       ownerID,
			Kind:          KindBloodPressure,
			TS:            ts,
			Value:         diastolic,
			Discriminator: DiscriminatorDiastolic,
			Unit:          UnitFor(KindBloodPressure),
			Meta:          meta,
		})
	}
	return records
}

// resolveSleepMinutes prefers an explicit duration and falls back to
// endTime - startTime when both bounds parse. Non-finite results
// contribute nothing.
func resolveSleepMinutes(sample RawSample) (*float64, string) {
	if value, path := ResolveNumber(sample, ValueRulesFor(KindSleep)); value != nil {
		return value, path
	}

	startRaw, startOK := lookupPath(sample, "startTime")
	endRaw, endOK := lookupPath(sample, "endTime")
	if !startOK || !endOK {
		return nil, ""
	}
	start, ok := ParseInstant(startRaw)
	if !ok {
		return nil, ""
	}
	end, ok := ParseInstant(endRaw)
	if !ok {
		return nil, ""
	}

	minutes := end.Sub(start).Minutes()
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return nil, ""
	}
	return &minutes, ""
}

// markResolved records a matched dot path in flattened form so the
// metadata pass can prune it and its descendants.
func markResolved(base map[string]any, path string) {
	if path == "" {
		return
	}
	base[strings.ReplaceAll(path, pathSeparator, flatten.Separator)] = true
}

func leftoverMeta(base map[string]any, sample RawSample) map[string]any {
	meta := flatten.RemoveDuplicates(base, flatten.Flatten(map[string]any(sample), ""))
	if len(meta) == 0 {
		return nil
	}
	return meta
}
