package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ebalakin/enertrack/internal/domain"
)

var energyColumns = []string{
	"id", "user_id", "recorded_at", "appliance_name",
	"power_usage_kwh", "duration_hours", "cost", "created_at",
}

type ListEnergyRecordsOpts struct {
	UserID int64
	Since  *time.Time
	Until  *time.Time
	Limit  uint64
}

func (s *store) InsertEnergyRecord(ctx context.Context, rec *domain.EnergyRecord) (*domain.EnergyRecord, error) {
	query := builder().Insert(tableEnergyRecords).
		Columns("user_id", "recorded_at", "appliance_name", "power_usage_kwh", "duration_hours", "cost").
		Values(rec.UserID, rec.RecordedAt, rec.ApplianceName, rec.PowerUsageKWh, rec.DurationHours, rec.Cost).
		Suffix("RETURNING " + joinColumns(energyColumns))

	var created domain.EnergyRecord
	if err := s.pool.Getx(ctx, &created, query); err != nil {
		return nil, fmt.Errorf("insert energy record: %w", wrapErr(err))
	}

	return &created, nil
}

func (s *store) ListEnergyRecords(ctx context.Context, opts ListEnergyRecordsOpts) ([]*domain.EnergyRecord, error) {
	query := builder().Select(energyColumns...).
		From(tableEnergyRecords).
		Where(sq.Eq{"user_id": opts.UserID}).
		OrderBy("recorded_at DESC")

	if opts.Since != nil {
		query = query.Where(sq.GtOrEq{"recorded_at": *opts.Since})
	}
	if opts.Until != nil {
		query = query.Where(sq.LtOrEq{"recorded_at": *opts.Until})
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var selected []*domain.EnergyRecord
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

// DailyAggregates rolls records up by calendar day, oldest first. The
// ordering matters: the forecast feature builder assumes a time-ordered
// sequence.
func (s *store) DailyAggregates(ctx context.Context, userID int64, since time.Time) ([]*domain.DailyAggregate, error) {
	query := builder().Select(
		"recorded_at::date AS date",
		"SUM(power_usage_kwh) AS total_kwh",
		"SUM(cost) AS total_cost",
		"COUNT(DISTINCT appliance_name) AS appliance_count",
		"COUNT(*) AS record_count",
	).
		From(tableEnergyRecords).
		Where(sq.Eq{"user_id": userID}).
		GroupBy("recorded_at::date").
		OrderBy("date ASC")

	if !since.IsZero() {
		query = query.Where(sq.GtOrEq{"recorded_at": since})
	}

	var selected []*domain.DailyAggregate
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ApplianceAggregates(ctx context.Context, userID int64) ([]*domain.ApplianceAggregate, error) {
	query := builder().Select(
		"appliance_name",
		"SUM(power_usage_kwh) AS total_kwh",
		"SUM(cost) AS total_cost",
		"COUNT(*) AS use_count",
	).
		From(tableEnergyRecords).
		Where(sq.Eq{"user_id": userID}).
		GroupBy("appliance_name").
		OrderBy("total_kwh DESC")

	var selected []*domain.ApplianceAggregate
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) MonthlyAggregates(ctx context.Context, userID int64, months int) ([]*domain.MonthlyAggregate, error) {
	query := builder().Select(
		"EXTRACT(YEAR FROM recorded_at)::int AS year",
		"EXTRACT(MONTH FROM recorded_at)::int AS month",
		"SUM(power_usage_kwh) AS total_kwh",
		"SUM(cost) AS total_cost",
		"SUM(power_usage_kwh) / COUNT(DISTINCT recorded_at::date) AS avg_daily_kwh",
	).
		From(tableEnergyRecords).
		Where(sq.Eq{"user_id": userID}).
		GroupBy("year", "month").
		OrderBy("year DESC", "month DESC").
		Limit(uint64(months))

	var selected []*domain.MonthlyAggregate
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) HourlyAverages(ctx context.Context, userID int64) ([]*domain.HourlyAverage, error) {
	// Mean across days of the per-day hourly totals.
	sub := builder().Select(
		"recorded_at::date AS day",
		"EXTRACT(HOUR FROM recorded_at)::int AS hour",
		"SUM(power_usage_kwh) AS day_kwh",
	).
		From(tableEnergyRecords).
		Where(sq.Eq{"user_id": userID}).
		GroupBy("day", "hour")

	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build subquery: %w", err)
	}

	outer := sq.Expr(
		"SELECT hour, AVG(day_kwh) AS avg_kwh FROM ("+subSQL+") AS h GROUP BY hour ORDER BY hour ASC",
		subArgs...,
	)

	var selected []*domain.HourlyAverage
	if err := s.pool.Selectx(ctx, &selected, outer); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
