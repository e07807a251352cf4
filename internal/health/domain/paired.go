package health

import (
	"sort"
	"time"
)

// PairedPoint is the denormalized read view of a paired series: both
// discriminator components sharing one instant, collapsed into a
// single object with a unit label.
type PairedPoint struct {
	TS        time.Time `json:"timestamp"`
	Systolic  *float64  `json:"systolic"`
	Diastolic *float64  `json:"diastolic"`
	Unit      string    `json:"unit"`
}

// PairByTimestamp collapses same-timestamp systolic/diastolic records
// into paired points, ascending by timestamp. Components without a
// counterpart keep a nil partner.
func PairByTimestamp(records []Record) []PairedPoint {
	byInstant := make(map[time.Time]*PairedPoint)
	order := make([]time.Time, 0)

	for _, record := range records {
		if record.Kind != KindBloodPressure || record.Value == nil {
			continue
		}
		point := byInstant[record.TS]
		if point == nil {
			point = &PairedPoint{TS: record.TS, Unit: UnitFor(KindBloodPressure)}
			byInstant[record.TS] = point
			order = append(order, record.TS)
		}
		value := *record.Value
		switch record.Discriminator {
		case DiscriminatorSystolic:
			if point.Systolic == nil {
				point.Systolic = &value
			}
		case DiscriminatorDiastolic:
			if point.Diastolic == nil {
				point.Diastolic = &value
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	points := make([]PairedPoint, 0, len(order))
	for _, ts := range order {
		points = append(points, *byInstant[ts])
	}
	return points
}
