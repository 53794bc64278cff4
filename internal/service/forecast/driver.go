package forecast

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

const (
	confidenceStart = 0.9
	confidenceDecay = 0.95
	confidenceFloor = 0.3

	monthlyHorizonDays = 30
)

// confidenceFor decays with the step index: a prediction built on top of
// other predictions inherits their uncertainty.
func confidenceFor(step int) float64 {
	c := confidenceStart * math.Pow(confidenceDecay, float64(step-1))
	if c < confidenceFloor {
		return confidenceFloor
	}
	return c
}

// PredictNextDays runs the model iteratively for nDays one-day-ahead steps.
// Each predicted day is appended to the working history as a synthetic
// aggregate so later steps see it through their lag features. The model only
// ever outputs kWh; cost is attached here from the caller's tariff.
func (m *Model) PredictNextDays(aggs []*domain.DailyAggregate, nDays, maxDays int, tariff decimal.Decimal) ([]domain.PredictionRecord, error) {
	if nDays <= 0 || nDays > maxDays {
		return nil, fmt.Errorf("horizon %d outside [1, %d]: %w",
			nDays, maxDays, constants.ErrInvalidHorizon)
	}
	if len(aggs) < MinHistoryDays {
		return nil, fmt.Errorf("history has %d days, need %d: %w",
			len(aggs), MinHistoryDays, constants.ErrInsufficientData)
	}

	h := newHistory(aggs)

	// Appliance variety is unknowable for future days; carry the last
	// observed count forward.
	applianceCount := float64(h.days[len(h.days)-1].ApplianceCount)

	out := make([]domain.PredictionRecord, 0, nDays)
	for step := 1; step <= nDays; step++ {
		target := h.lastDate().AddDate(0, 0, 1)
		kwh := m.Predict(buildVector(h, target, applianceCount))
		if kwh < 0 {
			kwh = 0
		}

		cost, _ := tariff.Mul(decimal.NewFromFloat(kwh)).Round(2).Float64()
		out = append(out, domain.PredictionRecord{
			Date:            target,
			PredictedKWh:    kwh,
			PredictedCost:   cost,
			ConfidenceScore: confidenceFor(step),
			HorizonType:     domain.HorizonDaily,
		})

		h.append(&domain.DailyAggregate{
			Date:           target,
			TotalKWh:       kwh,
			ApplianceCount: int(applianceCount),
		})
	}

	return out, nil
}

// PredictMonthly is a 30-day daily run with the totals summed on top.
func (m *Model) PredictMonthly(aggs []*domain.DailyAggregate, maxDays int, tariff decimal.Decimal) (*domain.MonthlyForecast, error) {
	if maxDays < monthlyHorizonDays {
		maxDays = monthlyHorizonDays
	}
	daily, err := m.PredictNextDays(aggs, monthlyHorizonDays, maxDays, tariff)
	if err != nil {
		return nil, err
	}

	var kwh, cost float64
	for i := range daily {
		daily[i].HorizonType = domain.HorizonMonthly
		kwh += daily[i].PredictedKWh
		cost += daily[i].PredictedCost
	}

	return &domain.MonthlyForecast{
		PredictedMonthlyKWh:  kwh,
		PredictedMonthlyCost: cost,
		DailyPredictions:     daily,
	}, nil
}
