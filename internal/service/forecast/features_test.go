package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// constantHistory builds n consecutive days ending 2025-03-31, each with the
// given total.
func constantHistory(n int, total float64) []*domain.DailyAggregate {
	end := day(2025, time.March, 31)
	out := make([]*domain.DailyAggregate, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, &domain.DailyAggregate{
			Date:           end.AddDate(0, 0, -i),
			TotalKWh:       total,
			ApplianceCount: 3,
			RecordCount:    12,
		})
	}
	return out
}

func TestBuildTrainingSetTooShort(t *testing.T) {
	_, err := BuildTrainingSet(constantHistory(1, 10))
	if !errors.Is(err, constants.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestBuildTrainingSetSkipsFirstDay(t *testing.T) {
	samples, err := BuildTrainingSet(constantHistory(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 9 {
		t.Fatalf("got %d samples, want 9", len(samples))
	}
}

func TestFeatureVectorCalendarFields(t *testing.T) {
	h := newHistory(constantHistory(10, 10))

	// 2025-04-01 is a Tuesday.
	v := buildVector(h, day(2025, time.April, 1), 3)
	if v.DayOfWeek != 1 {
		t.Errorf("DayOfWeek = %v, want 1 (Tuesday, Monday=0)", v.DayOfWeek)
	}
	if v.DayOfMonth != 1 || v.Month != 4 {
		t.Errorf("DayOfMonth/Month = %v/%v, want 1/4", v.DayOfMonth, v.Month)
	}
	if v.IsWeekend != 0 {
		t.Errorf("IsWeekend = %v, want 0", v.IsWeekend)
	}

	// 2025-04-05 is a Saturday.
	v = buildVector(h, day(2025, time.April, 5), 3)
	if v.DayOfWeek != 5 || v.IsWeekend != 1 {
		t.Errorf("Saturday: DayOfWeek/IsWeekend = %v/%v, want 5/1", v.DayOfWeek, v.IsWeekend)
	}
}

// Lag features must only see days strictly before the target. A sentinel
// value on the target day itself must not leak into any feature.
func TestBuildVectorNoLookahead(t *testing.T) {
	aggs := constantHistory(10, 10)
	target := day(2025, time.April, 1)
	aggs = append(aggs, &domain.DailyAggregate{Date: target, TotalKWh: 9999, ApplianceCount: 3})

	h := newHistory(aggs)
	v := buildVector(h, target, 3)

	if v.PrevDayKWh != 10 {
		t.Errorf("PrevDayKWh = %v, want 10", v.PrevDayKWh)
	}
	if v.PrevWeekKWh != 10 {
		t.Errorf("PrevWeekKWh = %v, want 10", v.PrevWeekKWh)
	}
	if math.Abs(v.Rolling7DayAvgKWh-10) > 1e-9 {
		t.Errorf("Rolling7DayAvgKWh = %v, want 10", v.Rolling7DayAvgKWh)
	}
	if math.Abs(v.Rolling30DayAvg-10) > 1e-9 {
		t.Errorf("Rolling30DayAvg = %v, want 10", v.Rolling30DayAvg)
	}
}

func TestBuildVectorMissingDaysDefaultZero(t *testing.T) {
	// Single day of history, target two days later: no lag data at all.
	h := newHistory(constantHistory(1, 10))
	v := buildVector(h, day(2025, time.April, 2), 0)

	if v.PrevDayKWh != 0 || v.PrevWeekKWh != 0 {
		t.Errorf("lag features = %v/%v, want 0/0", v.PrevDayKWh, v.PrevWeekKWh)
	}
}

func TestHistorySortsInput(t *testing.T) {
	aggs := constantHistory(5, 10)
	// Shuffle deterministically.
	aggs[0], aggs[4] = aggs[4], aggs[0]
	aggs[1], aggs[3] = aggs[3], aggs[1]

	h := newHistory(aggs)
	for i := 1; i < len(h.days); i++ {
		if !h.days[i-1].Date.Before(h.days[i].Date) {
			t.Fatalf("history not sorted at %d: %v >= %v", i, h.days[i-1].Date, h.days[i].Date)
		}
	}
}

func TestFeatureNamesMatchVectorWidth(t *testing.T) {
	if len(FeatureNames()) != NumFeatures {
		t.Fatalf("FeatureNames has %d entries, want %d", len(FeatureNames()), NumFeatures)
	}
	if got := len(FeatureVector{}.Values()); got != NumFeatures {
		t.Fatalf("Values has %d entries, want %d", got, NumFeatures)
	}
}
