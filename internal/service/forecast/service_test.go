package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

type fakeStore struct {
	store.Store

	daily     []*domain.DailyAggregate
	persisted []domain.PredictionRecord
}

func (f *fakeStore) DailyAggregates(_ context.Context, _ int64, _ time.Time) ([]*domain.DailyAggregate, error) {
	return f.daily, nil
}

func (f *fakeStore) InsertPredictions(_ context.Context, _ int64, recs []domain.PredictionRecord) error {
	f.persisted = append(f.persisted, recs...)
	return nil
}

func initForecastConfig(t *testing.T) {
	t.Helper()
	viper.Set(constants.ViperLookbackDays, 120)
	viper.Set(constants.ViperMaxHorizonDays, 90)
}

func forecastUser() *domain.User {
	return &domain.User{ID: 1, TariffRate: decimal.NewFromFloat(0.12)}
}

func TestDailyForecastNoModel(t *testing.T) {
	initForecastConfig(t)
	svc := NewService(&fakeStore{daily: constantHistory(30, 10)}, nil)

	_, err := svc.DailyForecast(context.Background(), forecastUser(), 7)
	if !errors.Is(err, constants.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
}

func TestDailyForecastInsufficientHistory(t *testing.T) {
	initForecastConfig(t)
	svc := NewService(&fakeStore{daily: constantHistory(5, 10)}, trainOn(t, 10, 60))

	_, err := svc.DailyForecast(context.Background(), forecastUser(), 7)
	if !errors.Is(err, constants.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData with under 7 days", err)
	}
}

func TestDailyForecastPersistsAudit(t *testing.T) {
	initForecastConfig(t)
	fs := &fakeStore{daily: constantHistory(60, 10)}
	svc := NewService(fs, trainOn(t, 10, 60))

	recs, err := svc.DailyForecast(context.Background(), forecastUser(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Fatalf("got %d predictions, want 5", len(recs))
	}
	if len(fs.persisted) != 5 {
		t.Errorf("persisted %d predictions, want 5", len(fs.persisted))
	}
}

func TestMonthlyForecastService(t *testing.T) {
	initForecastConfig(t)
	fs := &fakeStore{daily: constantHistory(60, 10)}
	svc := NewService(fs, trainOn(t, 10, 60))

	fc, err := svc.MonthlyForecast(context.Background(), forecastUser())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.DailyPredictions) != 30 {
		t.Fatalf("got %d daily predictions, want 30", len(fc.DailyPredictions))
	}
	if len(fs.persisted) != 30 {
		t.Errorf("persisted %d predictions, want 30", len(fs.persisted))
	}
}

func TestModelInfo(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	if _, _, ok := svc.ModelInfo(); ok {
		t.Error("ModelInfo reports a loaded model when none is set")
	}

	m := trainOn(t, 10, 30)
	svc = NewService(&fakeStore{}, m)
	trainedAt, _, ok := svc.ModelInfo()
	if !ok || !trainedAt.Equal(m.TrainedAt) {
		t.Errorf("ModelInfo = (%v, %v), want trained model metadata", trainedAt, ok)
	}
}
