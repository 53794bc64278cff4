package energy

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

// carbonPerKWh is the grid carbon intensity used for footprint estimates,
// in kg CO2 per kWh.
const carbonPerKWh = 0.82

// efficiencyBaselineKWh is the daily consumption that maps to a score of 0.
const efficiencyBaselineKWh = 30.0

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// AddRecord prices and stores one usage entry. The cost is fixed at insert
// time from the owner's current tariff.
func (s *Service) AddRecord(ctx context.Context, user *domain.User, req *domain.AddRecordRequest) (*domain.EnergyRecord, error) {
	recordedAt := time.Now().UTC()
	if req.Timestamp != "" {
		parsed, err := parseTimestamp(req.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("timestamp %q: %w", req.Timestamp, constants.ErrInvalidRequest)
		}
		recordedAt = parsed
	}

	rec := &domain.EnergyRecord{
		UserID:        user.ID,
		RecordedAt:    recordedAt,
		ApplianceName: req.ApplianceName,
		PowerUsageKWh: req.PowerUsageKWh,
		DurationHours: req.DurationHours,
		Cost:          user.TariffRate.Mul(decimal.NewFromFloat(req.PowerUsageKWh)).Round(2),
	}

	return s.store.InsertEnergyRecord(ctx, rec)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

func (s *Service) ListRecords(ctx context.Context, opts store.ListEnergyRecordsOpts) ([]*domain.EnergyRecord, error) {
	return s.store.ListEnergyRecords(ctx, opts)
}

func (s *Service) DailyConsumption(ctx context.Context, userID int64, days int) ([]*domain.DailyAggregate, error) {
	return s.store.DailyAggregates(ctx, userID, time.Now().AddDate(0, 0, -days))
}

func (s *Service) ApplianceConsumption(ctx context.Context, userID int64) ([]*domain.ApplianceAggregate, error) {
	return s.store.ApplianceAggregates(ctx, userID)
}

func (s *Service) MonthlyConsumption(ctx context.Context, userID int64, months int) ([]*domain.MonthlyAggregate, error) {
	return s.store.MonthlyAggregates(ctx, userID, months)
}

func (s *Service) HourlyPattern(ctx context.Context, userID int64) ([]*domain.HourlyAverage, error) {
	return s.store.HourlyAverages(ctx, userID)
}

// Summary computes the dashboard headline stats over the last `days` days.
func (s *Service) Summary(ctx context.Context, userID int64, days int) (*domain.DashboardSummary, error) {
	daily, err := s.DailyConsumption(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	appliances, err := s.ApplianceConsumption(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		TotalCost:      decimal.Zero,
		ApplianceCount: len(appliances),
	}
	if len(daily) == 0 {
		return summary, nil
	}

	var peak *domain.DailyAggregate
	for _, d := range daily {
		summary.TotalKWh += d.TotalKWh
		summary.TotalCost = summary.TotalCost.Add(d.TotalCost)
		if peak == nil || d.TotalKWh > peak.TotalKWh {
			peak = d
		}
	}

	summary.DaysAnalyzed = len(daily)
	summary.AvgDailyKWh = round2(summary.TotalKWh / float64(len(daily)))
	summary.TotalKWh = round2(summary.TotalKWh)
	summary.PeakDay = peak.Date.Format("2006-01-02")
	summary.CarbonKg = round2(summary.TotalKWh * carbonPerKWh)

	score := 100 - summary.AvgDailyKWh/efficiencyBaselineKWh*100
	if score < 0 {
		score = 0
	}
	summary.EfficiencyScore = float64(int(score + 0.5))

	return summary, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
