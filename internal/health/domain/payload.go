package health

// RawSample is one source-shaped sample. Upstream sources disagree on
// field names and nesting, so samples stay schemaless until the
// resolvers extract canonical values from them.
type RawSample map[string]any

// IngestPayload is one ingestion request: an owner, an optional
// payload-level timestamp, and up to one raw sample array per kind.
type IngestPayload struct {
	OwnerID   string `json:"ownerId"`
	Timestamp string `json:"timestamp,omitempty"`

	Steps            []RawSample `json:"steps,omitempty"`
	HeartRate        []RawSample `json:"heartRate,omitempty"`
	TotalCalories    []RawSample `json:"totalCalories,omitempty"`
	ActiveCalories   []RawSample `json:"activeCalories,omitempty"`
	Distance         []RawSample `json:"distance,omitempty"`
	OxygenSaturation []RawSample `json:"oxygenSaturation,omitempty"`
	BloodPressure    []RawSample `json:"bloodPressure,omitempty"`
	Glucose          []RawSample `json:"glucose,omitempty"`
	BodyTemperature  []RawSample `json:"bodyTemperature,omitempty"`
	Weight           []RawSample `json:"weight,omitempty"`
	Hydration        []RawSample `json:"hydration,omitempty"`
	Sleep            []RawSample `json:"sleep,omitempty"`
	Exercise         []RawSample `json:"exercise,omitempty"`
}

// Validate ensures the payload can be processed at all.
func (p IngestPayload) Validate() error {
	if p.OwnerID == "" {
		return ErrMissingOwnerID
	}
	return nil
}

// SamplesFor returns the raw sample array for a kind.
func (p IngestPayload) SamplesFor(kind Kind) []RawSample {
	switch kind {
	case KindSteps:
		return p.Steps
	case KindHeartRate:
		return p.HeartRate
	case KindTotalCalories:
		return p.TotalCalories
	case KindActiveCalories:
		return p.ActiveCalories
	case KindDistance:
		return p.Distance
	case KindOxygenSaturation:
		return p.OxygenSaturation
	case KindBloodPressure:
		return p.BloodPressure
	case KindGlucose:
		return p.Glucose
	case KindBodyTemperature:
		return p.BodyTemperature
	case KindWeight:
		return p.Weight
	case KindHydration:
		return p.Hydration
	case KindSleep:
		return p.Sleep
	case KindExercise:
		return p.Exercise
	default:
		return nil
	}
}

// Kinds returns the kinds with at least one sample in this payload.
func (p IngestPayload) Kinds() []Kind {
	present := make([]Kind, 0, len(AllKinds()))
	for _, kind := range AllKinds() {
		if len(p.SamplesFor(kind)) > 0 {
			present = append(present, kind)
		}
	}
	return present
}
