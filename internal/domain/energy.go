package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnergyRecord is a single appliance usage entry. Cost is derived from the
// owner's tariff rate at insert time and never recomputed afterwards.
type EnergyRecord struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	RecordedAt    time.Time       `db:"recorded_at" json:"timestamp"`
	ApplianceName string          `db:"appliance_name" json:"appliance_name"`
	PowerUsageKWh float64         `db:"power_usage_kwh" json:"power_usage_kwh"`
	DurationHours float64         `db:"duration_hours" json:"duration_hours"`
	Cost          decimal.Decimal `db:"cost" json:"cost"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// DailyAggregate is the per-calendar-day rollup of a user's records.
// Derived on demand, never stored.
type DailyAggregate struct {
	Date           time.Time       `db:"date" json:"date"`
	TotalKWh       float64         `db:"total_kwh" json:"total_kwh"`
	TotalCost      decimal.Decimal `db:"total_cost" json:"total_cost"`
	ApplianceCount int             `db:"appliance_count" json:"appliance_count"`
	RecordCount    int             `db:"record_count" json:"record_count"`
}

// ApplianceAggregate is the all-time rollup for one appliance.
type ApplianceAggregate struct {
	ApplianceName string          `db:"appliance_name" json:"appliance_name"`
	TotalKWh      float64         `db:"total_kwh" json:"total_kwh"`
	TotalCost     decimal.Decimal `db:"total_cost" json:"total_cost"`
	UseCount      int             `db:"use_count" json:"use_count"`
}

// MonthlyAggregate is the per-calendar-month rollup.
type MonthlyAggregate struct {
	Year      int             `db:"year" json:"year"`
	Month     int             `db:"month" json:"month"`
	TotalKWh  float64         `db:"total_kwh" json:"total_kwh"`
	TotalCost decimal.Decimal `db:"total_cost" json:"total_cost"`
	AvgDaily  float64         `db:"avg_daily_kwh" json:"avg_daily_kwh"`
}

// HourlyAverage is the mean consumption observed for one hour of day.
type HourlyAverage struct {
	Hour   int     `db:"hour" json:"hour"`
	AvgKWh float64 `db:"avg_kwh" json:"avg_kwh"`
}
