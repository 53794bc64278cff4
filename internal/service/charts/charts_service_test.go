package charts

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type fakeStore struct {
	store.Store

	daily      []*domain.DailyAggregate
	appliances []*domain.ApplianceAggregate
	monthly    []*domain.MonthlyAggregate
	hourly     []*domain.HourlyAverage

	dailyCalls int
}

func (f *fakeStore) DailyAggregates(_ context.Context, _ int64, _ time.Time) ([]*domain.DailyAggregate, error) {
	f.dailyCalls++
	return f.daily, nil
}

func (f *fakeStore) ApplianceAggregates(_ context.Context, _ int64) ([]*domain.ApplianceAggregate, error) {
	return f.appliances, nil
}

func (f *fakeStore) MonthlyAggregates(_ context.Context, _ int64, _ int) ([]*domain.MonthlyAggregate, error) {
	return f.monthly, nil
}

func (f *fakeStore) HourlyAverages(_ context.Context, _ int64) ([]*domain.HourlyAverage, error) {
	return f.hourly, nil
}

func seededStore() *fakeStore {
	fs := &fakeStore{}
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		fs.daily = append(fs.daily, &domain.DailyAggregate{
			Date:      start.AddDate(0, 0, i),
			TotalKWh:  8 + float64(i%5),
			TotalCost: decimal.NewFromFloat(60 + float64(i%5)*7),
		})
	}
	fs.appliances = []*domain.ApplianceAggregate{
		{ApplianceName: "Air Conditioner", TotalKWh: 120},
		{ApplianceName: "Refrigerator", TotalKWh: 45},
		{ApplianceName: "Washing Machine", TotalKWh: 18},
	}
	fs.monthly = []*domain.MonthlyAggregate{
		{Year: 2025, Month: 2, TotalKWh: 260},
		{Year: 2025, Month: 3, TotalKWh: 295},
	}
	for h := 0; h < 24; h++ {
		fs.hourly = append(fs.hourly, &domain.HourlyAverage{Hour: h, AvgKWh: 0.3 + 0.1*float64(h%6)})
	}
	return fs
}

func TestChartsProducePNG(t *testing.T) {
	svc := NewService(seededStore())
	ctx := context.Background()

	renders := map[string]func() ([]byte, error){
		"daily":      func() ([]byte, error) { return svc.Daily(ctx, 1, 30) },
		"cost":       func() ([]byte, error) { return svc.Cost(ctx, 1, 30) },
		"appliances": func() ([]byte, error) { return svc.ApplianceBar(ctx, 1) },
		"pie":        func() ([]byte, error) { return svc.AppliancePie(ctx, 1) },
		"monthly":    func() ([]byte, error) { return svc.Monthly(ctx, 1, 12) },
		"weekly":     func() ([]byte, error) { return svc.WeeklyComparison(ctx, 1, 30) },
		"hourly":     func() ([]byte, error) { return svc.HourlyPattern(ctx, 1) },
	}

	for name, render := range renders {
		t.Run(name, func(t *testing.T) {
			png, err := render()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(png, pngMagic) {
				t.Fatalf("output does not start with the PNG signature: % x", png[:8])
			}
		})
	}
}

func TestChartsCacheHit(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Daily(ctx, 1, 30)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Daily(ctx, 1, 30)
	if err != nil {
		t.Fatal(err)
	}

	if fs.dailyCalls != 1 {
		t.Errorf("store queried %d times, want 1 (second render should be cached)", fs.dailyCalls)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached render differs from original")
	}
}

func TestChartsEmptyData(t *testing.T) {
	svc := NewService(&fakeStore{})
	_, err := svc.Daily(context.Background(), 1, 30)
	if !errors.Is(err, constants.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestDashboardBundle(t *testing.T) {
	svc := NewService(seededStore())
	bundle, err := svc.Dashboard(context.Background(), 1, 30)
	if err != nil {
		t.Fatal(err)
	}
	for name, png := range map[string][]byte{
		"daily": bundle.Daily, "cost": bundle.Cost,
		"appliances": bundle.Appliances, "weekly": bundle.Weekly,
	} {
		if !bytes.HasPrefix(png, pngMagic) {
			t.Errorf("%s chart is not a PNG", name)
		}
	}
}
