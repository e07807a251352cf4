package health

import (
	"testing"
	"time"
)

func weightRecord(ts time.Time, value float64) Record {
	v := value
	return Record{OwnerID: "owner-1", Kind: KindWeight, TS: ts, Value: &v, Unit: "kg"}
}

func bpRecord(ts time.Time, discriminator string, value float64) Record {
	v := value
	return Record{
		OwnerID:       "owner-1",
		Kind:          KindBloodPressure,
		TS:            ts,
		Value:         &v,
		Discriminator: discriminator,
		Unit:          "mmHg",
	}
}

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("", 0)
	if err != nil || period.Class != PeriodWeekly {
		t.Fatalf("expected weekly default, got %v err=%v", period, err)
	}

	if _, err := ParsePeriod("hourly", 0); err != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}

	if _, err := ParsePeriod("custom", 0); err != ErrInvalidPeriod {
		t.Fatalf("custom without days must fail, got %v", err)
	}

	period, err = ParsePeriod("custom", 14)
	if err != nil || period.LookbackDays() != 14 {
		t.Fatalf("expected 14-day custom window, got %v err=%v", period, err)
	}
}

func TestDownsample_WindowFilter(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	inWindow := weightRecord(now.AddDate(0, 0, -2), 80)
	outOfWindow := weightRecord(now.AddDate(0, 0, -20), 85)

	got := Downsample([]Record{outOfWindow, inWindow}, Period{Class: PeriodWeekly}, now)
	if len(got) != 1 || !got[0].TS.Equal(inWindow.TS) {
		t.Fatalf("expected only in-window record, got %v", got)
	}
}

func TestDownsample_DailyKeepsEverything(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []Record{
		weightRecord(now.Add(-10*time.Hour), 80),
		weightRecord(now.Add(-8*time.Hour), 80.2),
		weightRecord(now.Add(-6*time.Hour), 80.4),
	}

	got := Downsample(records, Period{Class: PeriodDaily}, now)
	if len(got) != 3 {
		t.Fatalf("expected no reduction for daily, got %d records", len(got))
	}
}

func TestDownsample_WeeklyKeepsFirstAndLastPerDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	records := make([]Record, 0, 6)
	for hour := 8; hour < 13; hour++ {
		records = append(records, weightRecord(day.Add(time.Duration(hour)*time.Hour), 80+float64(hour)))
	}
	singleDay := time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)
	records = append(records, weightRecord(singleDay, 79))

	got := Downsample(records, Period{Class: PeriodWeekly}, now)
	if len(got) != 3 {
		t.Fatalf("expected 2 for the busy day + 1 for the single-record day, got %d", len(got))
	}
	if got[0].TS.Hour() != 8 || got[1].TS.Hour() != 12 {
		t.Fatalf("expected first and last of the day, got %v and %v", got[0].TS, got[1].TS)
	}
	if !got[2].TS.Equal(singleDay) {
		t.Fatalf("single-record day must keep its record once, got %v", got[2].TS)
	}
}

func TestDownsample_MonthlyKeepsFirstPerDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	records := []Record{
		weightRecord(day.Add(7*time.Hour), 80),
		weightRecord(day.Add(9*time.Hour), 81),
		weightRecord(day.Add(21*time.Hour), 82),
	}

	got := Downsample(records, Period{Class: PeriodMonthly}, now)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(got))
	}
	if got[0].TS.Hour() != 7 {
		t.Fatalf("expected earliest record kept, got %v", got[0].TS)
	}
}

func TestDownsample_PairedSeriesIndependentPerDiscriminator(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	records := []Record{
		bpRecord(day.Add(8*time.Hour), DiscriminatorSystolic, 120),
		bpRecord(day.Add(8*time.Hour), DiscriminatorDiastolic, 80),
		bpRecord(day.Add(12*time.Hour), DiscriminatorSystolic, 122),
		bpRecord(day.Add(18*time.Hour), DiscriminatorSystolic, 118),
		bpRecord(day.Add(20*time.Hour), DiscriminatorDiastolic, 78),
	}

	got := Downsample(records, Period{Class: PeriodWeekly}, now)
	var systolic, diastolic int
	for _, record := range got {
		switch record.Discriminator {
		case DiscriminatorSystolic:
			systolic++
		case DiscriminatorDiastolic:
			diastolic++
		}
	}
	if systolic != 2 || diastolic != 2 {
		t.Fatalf("expected 2 systolic + 2 diastolic, got %d + %d", systolic, diastolic)
	}
	for i := 1; i < len(got); i++ {
		if got[i].TS.Before(got[i-1].TS) {
			t.Fatalf("output must be ascending, got %v before %v", got[i].TS, got[i-1].TS)
		}
	}
}

func TestDownsample_Idempotent(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	records := []Record{
		weightRecord(day.Add(6*time.Hour), 80),
		weightRecord(day.Add(9*time.Hour), 81),
		weightRecord(day.Add(12*time.Hour), 82),
		bpRecord(day.Add(8*time.Hour), DiscriminatorSystolic, 120),
		bpRecord(day.Add(8*time.Hour), DiscriminatorDiastolic, 80),
	}

	period := Period{Class: PeriodWeekly}
	once := Downsample(records, period, now)
	twice := Downsample(once, period, now)
	if len(once) != len(twice) {
		t.Fatalf("expected idempotent reduction, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].TS.Equal(twice[i].TS) || once[i].Discriminator != twice[i].Discriminator {
			t.Fatalf("record %d changed across reapplication", i)
		}
	}
}

func TestPairByTimestamp(t *testing.T) {
	ts1 := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	ts2 := time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC)

	records := []Record{
		bpRecord(ts1, DiscriminatorSystolic, 120),
		bpRecord(ts1, DiscriminatorDiastolic, 80),
		bpRecord(ts2, DiscriminatorSystolic, 118),
	}

	points := PairByTimestamp(records)
	if len(points) != 2 {
		t.Fatalf("expected 2 paired points, got %d", len(points))
	}
	first := points[0]
	if first.Systolic == nil || *first.Systolic != 120 || first.Diastolic == nil || *first.Diastolic != 80 {
		t.Fatalf("expected collapsed pair, got %+v", first)
	}
	if first.Unit != "mmHg" {
		t.Fatalf("expected mmHg unit, got %q", first.Unit)
	}
	second := points[1]
	if second.Diastolic != nil {
		t.Fatalf("missing counterpart must stay nil, got %+v", second)
	}
}
