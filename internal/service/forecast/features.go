package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

// MinHistoryDays is the minimum number of aggregated days required before
// any lag feature is meaningful.
const MinHistoryDays = 2

// Feature order is part of the persisted model schema. Changing it (or the
// width) invalidates saved artifacts, which Load detects.
var featureNames = []string{
	"day_of_week",
	"day_of_month",
	"month",
	"is_weekend",
	"prev_day_kwh",
	"prev_week_kwh",
	"rolling_7day_avg_kwh",
	"rolling_30day_avg_kwh",
	"appliance_use_count",
}

const NumFeatures = 9

func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// FeatureVector is the fixed-schema input row for the regression model.
// All lag and rolling fields are computed from days strictly before the
// target date.
type FeatureVector struct {
	DayOfWeek         float64 // Monday=0 .. Sunday=6
	DayOfMonth        float64
	Month             float64
	IsWeekend         float64
	PrevDayKWh        float64
	PrevWeekKWh       float64
	Rolling7DayAvgKWh float64
	Rolling30DayAvg   float64
	ApplianceUseCount float64
}

// Values returns the vector in the persisted feature order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.DayOfWeek,
		v.DayOfMonth,
		v.Month,
		v.IsWeekend,
		v.PrevDayKWh,
		v.PrevWeekKWh,
		v.Rolling7DayAvgKWh,
		v.Rolling30DayAvg,
		v.ApplianceUseCount,
	}
}

// Sample is one training row: features for a day plus the observed total.
type Sample struct {
	Features  FeatureVector
	TargetKWh float64
}

// history is a date-indexed view over a sorted aggregate sequence.
type history struct {
	days  []*domain.DailyAggregate
	byDay map[string]*domain.DailyAggregate
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func newHistory(aggs []*domain.DailyAggregate) *history {
	sorted := make([]*domain.DailyAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	byDay := make(map[string]*domain.DailyAggregate, len(sorted))
	for _, agg := range sorted {
		byDay[dayKey(agg.Date)] = agg
	}

	return &history{days: sorted, byDay: byDay}
}

func (h *history) totalOn(t time.Time) (float64, bool) {
	agg, ok := h.byDay[dayKey(t)]
	if !ok {
		return 0, false
	}
	return agg.TotalKWh, true
}

// trailingMean averages total_kwh over the window of `days` calendar days
// ending the day before target. Days without data are skipped; an empty
// window yields 0.
func (h *history) trailingMean(target time.Time, days int) float64 {
	var sum float64
	var n int
	for i := 1; i <= days; i++ {
		if v, ok := h.totalOn(target.AddDate(0, 0, -i)); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (h *history) append(agg *domain.DailyAggregate) {
	h.days = append(h.days, agg)
	h.byDay[dayKey(agg.Date)] = agg
}

func (h *history) lastDate() time.Time {
	return h.days[len(h.days)-1].Date
}

// buildVector assembles the feature row for target. applianceUses is the
// distinct-appliance count observed (or carried forward) for the target day
// itself; everything else looks strictly backwards.
func buildVector(h *history, target time.Time, applianceUses float64) FeatureVector {
	prevDay, _ := h.totalOn(target.AddDate(0, 0, -1))
	prevWeek, _ := h.totalOn(target.AddDate(0, 0, -7))

	// Monday=0 convention, weekend = Saturday or Sunday.
	dow := (int(target.Weekday()) + 6) % 7
	isWeekend := 0.0
	if dow >= 5 {
		isWeekend = 1.0
	}

	return FeatureVector{
		DayOfWeek:         float64(dow),
		DayOfMonth:        float64(target.Day()),
		Month:             float64(int(target.Month())),
		IsWeekend:         isWeekend,
		PrevDayKWh:        prevDay,
		PrevWeekKWh:       prevWeek,
		Rolling7DayAvgKWh: h.trailingMean(target, 7),
		Rolling30DayAvg:   h.trailingMean(target, 30),
		ApplianceUseCount: applianceUses,
	}
}

// BuildTrainingSet turns an aggregate sequence into supervised samples.
// The first day is skipped: it has no prior day to derive lag features from.
func BuildTrainingSet(aggs []*domain.DailyAggregate) ([]Sample, error) {
	if len(aggs) < MinHistoryDays {
		return nil, fmt.Errorf("history has %d days, need %d: %w",
			len(aggs), MinHistoryDays, constants.ErrInsufficientData)
	}

	h := newHistory(aggs)
	samples := make([]Sample, 0, len(h.days)-1)
	for _, agg := range h.days[1:] {
		samples = append(samples, Sample{
			Features:  buildVector(h, agg.Date, float64(agg.ApplianceCount)),
			TargetKWh: agg.TotalKWh,
		})
	}

	return samples, nil
}
