package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

const testMaxHorizon = 90

var testTariff = decimal.NewFromFloat(0.12)

func TestPredictNextDaysConstantSeries(t *testing.T) {
	m := trainOn(t, 10, 60)
	history := constantHistory(60, 10)

	recs, err := m.PredictNextDays(history, 7, testMaxHorizon, testTariff)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 7 {
		t.Fatalf("got %d predictions, want 7", len(recs))
	}

	last := history[len(history)-1].Date
	for i, rec := range recs {
		want := last.AddDate(0, 0, i+1)
		if !rec.Date.Equal(want) {
			t.Errorf("rec %d date = %v, want %v", i, rec.Date, want)
		}
		if math.Abs(rec.PredictedKWh-10) > 1 {
			t.Errorf("rec %d kwh = %v, want ~10", i, rec.PredictedKWh)
		}
		wantCost := rec.PredictedKWh * 0.12
		if math.Abs(rec.PredictedCost-wantCost) > 0.01 {
			t.Errorf("rec %d cost = %v, want %v (kwh*tariff)", i, rec.PredictedCost, wantCost)
		}
	}
}

func TestPredictNextDaysConfidenceDecay(t *testing.T) {
	m := trainOn(t, 10, 60)

	recs, err := m.PredictNextDays(constantHistory(60, 10), 40, testMaxHorizon, testTariff)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(recs[0].ConfidenceScore-0.9) > 1e-9 {
		t.Errorf("first confidence = %v, want 0.9", recs[0].ConfidenceScore)
	}
	for i, rec := range recs {
		if rec.ConfidenceScore < 0.3-1e-9 || rec.ConfidenceScore > 0.9+1e-9 {
			t.Errorf("rec %d confidence = %v outside [0.3, 0.9]", i, rec.ConfidenceScore)
		}
		if i > 0 && rec.ConfidenceScore > recs[i-1].ConfidenceScore+1e-9 {
			t.Errorf("confidence rose at step %d: %v > %v", i, rec.ConfidenceScore, recs[i-1].ConfidenceScore)
		}
	}
	// Far enough out the floor takes over.
	if got := recs[len(recs)-1].ConfidenceScore; got != 0.3 {
		t.Errorf("confidence at step 40 = %v, want floor 0.3", got)
	}
}

func TestPredictNextDaysHorizonBounds(t *testing.T) {
	m := trainOn(t, 10, 60)
	history := constantHistory(60, 10)

	for _, n := range []int{0, -3, testMaxHorizon + 1} {
		_, err := m.PredictNextDays(history, n, testMaxHorizon, testTariff)
		if !errors.Is(err, constants.ErrInvalidHorizon) {
			t.Errorf("n=%d: err = %v, want ErrInvalidHorizon", n, err)
		}
	}
}

func TestPredictNextDaysInsufficientHistory(t *testing.T) {
	m := trainOn(t, 10, 60)
	_, err := m.PredictNextDays(constantHistory(1, 10), 7, testMaxHorizon, testTariff)
	if !errors.Is(err, constants.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestPredictNextDaysClampsNegative(t *testing.T) {
	// A model whose base drags every prediction below zero.
	m := &Model{base: -5, learningRate: 0.1, featureNames: FeatureNames()}

	recs, err := m.PredictNextDays(constantHistory(10, 1), 3, testMaxHorizon, testTariff)
	if err != nil {
		t.Fatal(err)
	}
	for i, rec := range recs {
		if rec.PredictedKWh != 0 {
			t.Errorf("rec %d kwh = %v, want clamped 0", i, rec.PredictedKWh)
		}
		if rec.PredictedCost != 0 {
			t.Errorf("rec %d cost = %v, want 0", i, rec.PredictedCost)
		}
	}
}

func TestPredictMonthly(t *testing.T) {
	m := trainOn(t, 10, 60)

	fc, err := m.PredictMonthly(constantHistory(60, 10), testMaxHorizon, testTariff)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.DailyPredictions) != 30 {
		t.Fatalf("got %d daily predictions, want 30", len(fc.DailyPredictions))
	}

	var kwh, cost float64
	for _, rec := range fc.DailyPredictions {
		kwh += rec.PredictedKWh
		cost += rec.PredictedCost
		if rec.HorizonType != "monthly" {
			t.Errorf("horizon = %q, want monthly", rec.HorizonType)
		}
	}
	if math.Abs(fc.PredictedMonthlyKWh-kwh) > 1e-9 {
		t.Errorf("monthly kwh = %v, want sum of days %v", fc.PredictedMonthlyKWh, kwh)
	}
	if math.Abs(fc.PredictedMonthlyCost-cost) > 1e-9 {
		t.Errorf("monthly cost = %v, want sum of days %v", fc.PredictedMonthlyCost, cost)
	}
	// Constant 10 kWh/day: the month lands near 300 kWh / 36 currency units.
	if math.Abs(fc.PredictedMonthlyKWh-300) > 30 {
		t.Errorf("monthly kwh = %v, want ~300", fc.PredictedMonthlyKWh)
	}
	if math.Abs(fc.PredictedMonthlyCost-36) > 4 {
		t.Errorf("monthly cost = %v, want ~36", fc.PredictedMonthlyCost)
	}
}

// Each step's prediction must feed the next step's lag features.
func TestPredictNextDaysIterates(t *testing.T) {
	m := trainOn(t, 10, 60)
	history := constantHistory(60, 10)

	recs, err := m.PredictNextDays(history, 10, testMaxHorizon, testTariff)
	if err != nil {
		t.Fatal(err)
	}

	// The input slice itself must not be mutated.
	if len(history) != 60 {
		t.Fatalf("input history grew to %d entries", len(history))
	}
	for i := 1; i < len(recs); i++ {
		if d := recs[i].Date.Sub(recs[i-1].Date); d != 24*time.Hour {
			t.Fatalf("gap between steps %d and %d is %v, want 24h", i-1, i, d)
		}
	}
}
