package health

import (
	"math"
	"time"
)

// Summary is the per-payload combined reduction over every kind.
// Totals default to 0; averages and extrema are nil when the source
// array is empty. It is created once per ingestion and immutable
// thereafter.
type Summary struct {
	ID      string    `json:"id,omitempty"`
	OwnerID string    `json:"ownerId"`
	TS      time.Time `json:"timestamp"`

	StepsTotal         int `json:"stepsTotal"`
	TotalCaloriesKcal  int `json:"totalCaloriesKcal"`
	ActiveCaloriesKcal int `json:"activeCaloriesKcal"`
	DistanceMeters     int `json:"distanceMeters"`
	SleepMinutes       int `json:"sleepMinutes"`

	HeartRateAvg *int `json:"heartRateAvg"`
	HeartRateMin *int `json:"heartRateMin"`
	HeartRateMax *int `json:"heartRateMax"`

	OxygenSaturationAvg *float64 `json:"oxygenSaturationAvg"`
}

// BuildSummary reduces the raw per-kind arrays of one payload into a
// single combined summary.
func BuildSummary(payload IngestPayload, now time.Time) Summary {
	summary := Summary{
		OwnerID: payload.OwnerID,
		TS:      ResolvePayloadTimestamp(payload, now),
	}

	summary.StepsTotal = sumResolved(payload.Steps, ValueRulesFor(KindSteps))
	summary.TotalCaloriesKcal = sumResolved(payload.TotalCalories, ValueRulesFor(KindTotalCalories))
	summary.ActiveCaloriesKcal = sumResolved(payload.ActiveCalories, ValueRulesFor(KindActiveCalories))
	summary.DistanceMeters = sumResolved(payload.Distance, ValueRulesFor(KindDistance))
	summary.SleepMinutes = sumSleepMinutes(payload.Sleep)

	summary.HeartRateAvg, summary.HeartRateMin, summary.HeartRateMax = poolHeartRate(payload.HeartRate)
	summary.OxygenSaturationAvg = averageOxygen(payload.OxygenSaturation)

	return summary
}

// sumResolved sums resolved values, integer-rounded; non-finite sums
// contribute 0.
func sumResolved(samples []RawSample, rules []string) int {
	var total float64
	for _, sample := range samples {
		value, _ := ResolveNumber(sample, rules)
		if value == nil {
			continue
		}
		total += *value
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return int(math.Round(total))
}

func sumSleepMinutes(samples []RawSample) int {
	var total float64
	for _, sample := range samples {
		value, _ := resolveSleepMinutes(sample)
		if value == nil {
			continue
		}
		total += *value
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return int(math.Round(total))
}

// poolHeartRate pools every beats-per-minute value, including each
// element of a sample's nested sub-sample list, and reduces the pool
// to avg/min/max. An empty pool yields nils. Unwrapping the nested
// list here is a deliberate exception to the flattener's opaque-array
// rule.
func poolHeartRate(samples []RawSample) (avg, min, max *int) {
	pool := make([]float64, 0, len(samples))
	rules := ValueRulesFor(KindHeartRate)

	for _, sample := range samples {
		if value, _ := ResolveNumber(sample, rules); value != nil {
			pool = append(pool, *value)
		}
		nested, ok := lookupPath(sample, "samples")
		if !ok {
			continue
		}
		list, ok := nested.([]any)
		if !ok {
			continue
		}
		for _, element := range list {
			sub, ok := element.(map[string]any)
			if !ok {
				continue
			}
			if value, _ := ResolveNumber(RawSample(sub), rules); value != nil {
				pool = append(pool, *value)
			}
		}
	}

	if len(pool) == 0 {
		return nil, nil, nil
	}

	var sum float64
	lo, hi := pool[0], pool[0]
	for _, value := range pool {
		sum += value
		if value < lo {
			lo = value
		}
		if value > hi {
			hi = value
		}
	}

	avgValue := int(math.Round(sum / float64(len(pool))))
	minValue := int(math.Round(lo))
	maxValue := int(math.Round(hi))
	return &avgValue, &minValue, &maxValue
}

// averageOxygen averages numeric values only, rounded to 2 fractional
// digits; an empty pool yields nil.
func averageOxygen(samples []RawSample) *float64 {
	rules := ValueRulesFor(KindOxygenSaturation)
	var sum float64
	var count int
	for _, sample := range samples {
		value, _ := ResolveNumber(sample, rules)
		if value == nil {
			continue
		}
		sum += *value
		count++
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(sum/float64(count)*100) / 100
	return &avg
}
