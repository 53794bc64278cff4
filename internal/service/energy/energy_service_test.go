package energy

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

// fakeStore serves canned aggregates; only the methods the energy service
// touches are populated.
type fakeStore struct {
	store.Store

	daily      []*domain.DailyAggregate
	appliances []*domain.ApplianceAggregate
	inserted   []*domain.EnergyRecord
}

func (f *fakeStore) DailyAggregates(_ context.Context, _ int64, _ time.Time) ([]*domain.DailyAggregate, error) {
	return f.daily, nil
}

func (f *fakeStore) ApplianceAggregates(_ context.Context, _ int64) ([]*domain.ApplianceAggregate, error) {
	return f.appliances, nil
}

func (f *fakeStore) InsertEnergyRecord(_ context.Context, rec *domain.EnergyRecord) (*domain.EnergyRecord, error) {
	f.inserted = append(f.inserted, rec)
	return rec, nil
}

func TestAddRecordPricesFromTariff(t *testing.T) {
	fs := &fakeStore{}
	svc := NewService(fs)
	user := &domain.User{ID: 1, TariffRate: decimal.NewFromFloat(7.5)}

	rec, err := svc.AddRecord(context.Background(), user, &domain.AddRecordRequest{
		ApplianceName: "Refrigerator",
		PowerUsageKWh: 2.4,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := decimal.NewFromFloat(18.0)
	if !rec.Cost.Equal(want) {
		t.Errorf("cost = %v, want %v", rec.Cost, want)
	}
	if len(fs.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(fs.inserted))
	}
	if rec.RecordedAt.IsZero() {
		t.Error("RecordedAt not defaulted")
	}
}

func TestAddRecordParsesTimestamp(t *testing.T) {
	svc := NewService(&fakeStore{})
	user := &domain.User{ID: 1, TariffRate: decimal.NewFromInt(7)}

	rec, err := svc.AddRecord(context.Background(), user, &domain.AddRecordRequest{
		Timestamp:     "2025-03-15 18:30:00",
		ApplianceName: "Television",
		PowerUsageKWh: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)
	if !rec.RecordedAt.Equal(want) {
		t.Errorf("RecordedAt = %v, want %v", rec.RecordedAt, want)
	}

	_, err = svc.AddRecord(context.Background(), user, &domain.AddRecordRequest{
		Timestamp:     "15/03/2025",
		ApplianceName: "Television",
		PowerUsageKWh: 0.5,
	})
	if err == nil {
		t.Error("no error for unparseable timestamp")
	}
}

func TestSummary(t *testing.T) {
	fs := &fakeStore{
		daily: days(10, 12, 8, 10),
		appliances: []*domain.ApplianceAggregate{
			{ApplianceName: "Air Conditioner"},
			{ApplianceName: "Refrigerator"},
		},
	}
	svc := NewService(fs)

	sum, err := svc.Summary(context.Background(), 1, 30)
	if err != nil {
		t.Fatal(err)
	}

	if sum.TotalKWh != 40 {
		t.Errorf("TotalKWh = %v, want 40", sum.TotalKWh)
	}
	if sum.AvgDailyKWh != 10 {
		t.Errorf("AvgDailyKWh = %v, want 10", sum.AvgDailyKWh)
	}
	if sum.DaysAnalyzed != 4 || sum.ApplianceCount != 2 {
		t.Errorf("DaysAnalyzed/ApplianceCount = %d/%d, want 4/2", sum.DaysAnalyzed, sum.ApplianceCount)
	}
	// Peak day is the 12 kWh entry, three days before the series end.
	if sum.PeakDay != "2025-03-29" {
		t.Errorf("PeakDay = %q, want 2025-03-29", sum.PeakDay)
	}
	if sum.CarbonKg != 32.8 {
		t.Errorf("CarbonKg = %v, want 32.8", sum.CarbonKg)
	}
	// avg 10 of a 30 kWh baseline leaves a score of 67 after rounding.
	if sum.EfficiencyScore != 67 {
		t.Errorf("EfficiencyScore = %v, want 67", sum.EfficiencyScore)
	}
}

func TestSummaryEmpty(t *testing.T) {
	svc := NewService(&fakeStore{})
	sum, err := svc.Summary(context.Background(), 1, 30)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalKWh != 0 || sum.DaysAnalyzed != 0 || sum.PeakDay != "" {
		t.Errorf("empty summary = %+v, want zero values", sum)
	}
}
