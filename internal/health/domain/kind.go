package health

import "time"

// Kind identifies one metric series ingested by the platform.
type Kind string

const (
	KindSteps            Kind = "steps"
	KindHeartRate        Kind = "heartRate"
	KindTotalCalories    Kind = "totalCalories"
	KindActiveCalories   Kind = "activeCalories"
	KindDistance         Kind = "distance"
	KindOxygenSaturation Kind = "oxygenSaturation"
	KindBloodPressure    Kind = "bloodPressure"
	KindGlucose          Kind = "glucose"
	KindBodyTemperature  Kind = "bodyTemperature"
	KindWeight           Kind = "weight"
	KindHydration        Kind = "hydration"
	KindSleep            Kind = "sleep"
	KindExercise         Kind = "exercise"
)

// AllKinds returns every supported kind in ingestion order.
func AllKinds() []Kind {
	return []Kind{
		KindSteps,
		KindHeartRate,
		KindTotalCalories,
		KindActiveCalories,
		KindDistance,
		KindOxygenSaturation,
		KindBloodPressure,
		KindGlucose,
		KindBodyTemperature,
		KindWeight,
		KindHydration,
		KindSleep,
		KindExercise,
	}
}

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	switch k {
	case KindSteps, KindHeartRate, KindTotalCalories, KindActiveCalories,
		KindDistance, KindOxygenSaturation, KindBloodPressure, KindGlucose,
		KindBodyTemperature, KindWeight, KindHydration, KindSleep, KindExercise:
		return true
	default:
		return false
	}
}

// ParseKind resolves a query-supplied kind name.
func ParseKind(name string) (Kind, error) {
	kind := Kind(name)
	if !kind.IsValid() {
		return "", ErrUnknownKind
	}
	return kind, nil
}

// Clock provides time for domain operations.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now in UTC.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
