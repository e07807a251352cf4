package health

import (
	"sort"
	"time"
)

// PeriodClass names a lookback-window + reduction-granularity policy
// for range queries.
type PeriodClass string

const (
	PeriodDaily     PeriodClass = "daily"
	PeriodWeekly    PeriodClass = "weekly"
	PeriodMonthly   PeriodClass = "monthly"
	PeriodQuarterly PeriodClass = "quarterly"
	PeriodYearly    PeriodClass = "yearly"
	PeriodCustom    PeriodClass = "custom"
)

// DefaultPeriod applies when a query names no period.
const DefaultPeriod = PeriodWeekly

var periodLookbackDays = map[PeriodClass]int{
	PeriodDaily:     1,
	PeriodWeekly:    7,
	PeriodMonthly:   30,
	PeriodQuarterly: 90,
	PeriodYearly:    365,
}

// Period is a resolved period class. Days is only consulted for the
// custom class.
type Period struct {
	Class PeriodClass
	Days  int
}

// ParsePeriod resolves a query-supplied period name. An empty name
// selects the weekly default; custom requires a positive day count.
func ParsePeriod(name string, customDays int) (Period, error) {
	if name == "" {
		return Period{Class: DefaultPeriod}, nil
	}
	class := PeriodClass(name)
	switch class {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return Period{Class: class}, nil
	case PeriodCustom:
		if customDays <= 0 {
			return Period{}, ErrInvalidPeriod
		}
		return Period{Class: PeriodCustom, Days: customDays}, nil
	default:
		return Period{}, ErrInvalidPeriod
	}
}

// LookbackDays returns the window length in days.
func (p Period) LookbackDays() int {
	if p.Class == PeriodCustom {
		return p.Days
	}
	if days, ok := periodLookbackDays[p.Class]; ok {
		return days
	}
	return periodLookbackDays[DefaultPeriod]
}

// WindowStart returns the inclusive lower bound of the query window.
func (p Period) WindowStart(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -p.LookbackDays())
}

type reduction int

const (
	reduceNone reduction = iota
	reduceFirstLast
	reduceFirstOnly
)

// reductionFor maps a period to its per-day selection. The custom
// class follows the same day-count thresholds as the named classes.
func (p Period) reductionFor() reduction {
	days := p.LookbackDays()
	switch {
	case days <= 1:
		return reduceNone
	case days <= 7:
		return reduceFirstLast
	default:
		return reduceFirstOnly
	}
}

// Downsample reduces a time-ascending record series to a
// period-appropriate subset. Records before the window start are
// dropped, then records are grouped by UTC calendar day independently
// per discriminator and reduced: daily keeps everything, weekly keeps
// the first and last of each group, coarser periods keep only the
// first. The output is re-sorted ascending because per-discriminator
// selection can interleave out of order. Pure function; applying the
// same period again to its own output is a no-op.
func Downsample(records []Record, period Period, now time.Time) []Record {
	start := period.WindowStart(now)

	windowed := make([]Record, 0, len(records))
	for _, record := range records {
		if record.TS.Before(start) {
			continue
		}
		windowed = append(windowed, record)
	}

	mode := period.reductionFor()
	if mode == reduceNone {
		return windowed
	}

	type groupKey struct {
		day           string
		discriminator string
	}
	type group struct {
		first Record
		last  Record
		size  int
	}

	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0)
	for _, record := range windowed {
		key := groupKey{
			day:           record.TS.UTC().Format("2006-01-02"),
			discriminator: record.Discriminator,
		}
		entry := groups[key]
		if entry == nil {
			groups[key] = &group{first: record, last: record, size: 1}
			order = append(order, key)
			continue
		}
		entry.last = record
		entry.size++
	}

	kept := make([]Record, 0, len(order)*2)
	for _, key := range order {
		entry := groups[key]
		kept = append(kept, entry.first)
		if mode == reduceFirstLast && entry.size > 1 {
			kept = append(kept, entry.last)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].TS.Before(kept[j].TS) })
	return kept
}
