package domain

import "github.com/shopspring/decimal"

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type RegisterRequest struct {
	Username      string          `json:"username" validate:"required,min=3,max=64"`
	Email         string          `json:"email" validate:"required,email"`
	Password      string          `json:"password" validate:"required,min=8"`
	FullName      string          `json:"full_name" validate:"max=128"`
	HouseholdSize int             `json:"household_size" validate:"omitempty,gte=1,lte=20"`
	TariffRate    decimal.Decimal `json:"tariff_rate"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthStatusResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

type AddRecordRequest struct {
	Timestamp     string  `json:"timestamp" validate:"omitempty"`
	ApplianceName string  `json:"appliance_name" validate:"required,max=128"`
	PowerUsageKWh float64 `json:"power_usage_kwh" validate:"required,gte=0"`
	DurationHours float64 `json:"duration_hours" validate:"omitempty,gte=0"`
}

type ImportUsageRequest struct {
	URL           string `json:"url" validate:"required,url"`
	ApplianceName string `json:"appliance_name" validate:"omitempty,max=128"`
}

type ImportUsageResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type DashboardSummary struct {
	TotalKWh        float64         `json:"total_kwh"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	AvgDailyKWh     float64         `json:"avg_daily"`
	PeakDay         string          `json:"peak_day"`
	CarbonKg        float64         `json:"carbon_kg"`
	EfficiencyScore float64         `json:"efficiency_score"`
	DaysAnalyzed    int             `json:"days_analyzed"`
	ApplianceCount  int             `json:"appliances_count"`
}
