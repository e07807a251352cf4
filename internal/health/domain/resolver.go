package health

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value extraction is declarative: each kind carries an ordered list
// of candidate dot paths into the raw sample. The first path yielding
// a defined, non-nil, coercible value wins. Adding a kind means adding
// a rule table, not new control flow.

const pathSeparator = "."

var valueRules = map[Kind][]string{
	KindSteps:            {"count", "steps", "value", "quantity"},
	KindHeartRate:        {"heartRate.inBeatsPerMinute", "heartRate.bpm", "beatsPerMinute", "bpm", "value"},
	KindTotalCalories:    {"energy.inKilocalories", "energy.kilocalories", "totalCalories", "kilocalories", "kcal", "value"},
	KindActiveCalories:   {"activeEnergy.inKilocalories", "energy.inKilocalories", "activeCalories", "kilocalories", "kcal", "value"},
	KindDistance:         {"distance.inMeters", "distance.meters", "meters", "value"},
	KindOxygenSaturation: {"percentage.value", "percentage", "spo2", "value"},
	KindGlucose:          {"level.inMilligramsPerDeciliter", "level.value", "glucose", "mgdl", "value"},
	KindBodyTemperature:  {"temperature.inCelsius", "temperature.value", "celsius", "value"},
	KindWeight:           {"weight.inKilograms", "weight.value", "kilograms", "kg", "value"},
	KindHydration:        {"volume.inLiters", "volume.value", "liters", "value"},
	KindSleep:            {"durationMinutes", "duration.inMinutes", "duration", "minutes"},
	KindExercise:         {"duration.inMinutes", "durationMinutes", "duration", "minutes", "value"},
}

// Blood pressure carries two independent components per sample.
var (
	systolicRules  = []string{"systolic.inMillimetersOfMercury", "systolic.value", "systolic", "sys"}
	diastolicRules = []string{"diastolic.inMillimetersOfMercury", "diastolic.value", "diastolic", "dia"}
)

var exerciseTypeRules = []string{"exerciseType", "activityType", "type", "name"}

// ValueRulesFor returns the ordered value rule table for a kind.
func ValueRulesFor(kind Kind) []string {
	return valueRules[kind]
}

// ResolveNumber walks the rule table and returns the first coercible
// numeric value plus the path that produced it. Unresolvable samples
// yield nil; extraction never fails.
func ResolveNumber(sample RawSample, rules []string) (*float64, string) {
	for _, rule := range rules {
		raw, ok := lookupPath(sample, rule)
		if !ok || raw == nil {
			continue
		}
		value, ok := toFloat(raw)
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		return &value, rule
	}
	return nil, ""
}

// ResolveString walks the rule table and returns the first non-empty
// string value plus the path that produced it.
func ResolveString(sample RawSample, rules []string) (*string, string) {
	for _, rule := range rules {
		raw, ok := lookupPath(sample, rule)
		if !ok || raw == nil {
			continue
		}
		value, ok := toString(raw)
		if !ok || value == "" {
			continue
		}
		return &value, rule
	}
	return nil, ""
}

// lookupPath descends a dot path through nested objects.
func lookupPath(sample RawSample, path string) (any, bool) {
	var current any = map[string]any(sample)
	for _, segment := range strings.Split(path, pathSeparator) {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func toString(raw any) (string, bool) {
	value, ok := raw.(string)
	return value, ok
}
