package domain

import "time"

type HorizonType string

const (
	HorizonDaily   HorizonType = "daily"
	HorizonWeekly  HorizonType = "weekly"
	HorizonMonthly HorizonType = "monthly"
)

// PredictionRecord is one forecast day. Read-only once produced; a set is
// generated per request and persisted for audit.
type PredictionRecord struct {
	Date            time.Time   `db:"prediction_date" json:"date"`
	PredictedKWh    float64     `db:"predicted_kwh" json:"predicted_kwh"`
	PredictedCost   float64     `db:"predicted_cost" json:"predicted_cost"`
	ConfidenceScore float64     `db:"confidence_score" json:"confidence_score"`
	HorizonType     HorizonType `db:"horizon_type" json:"horizon_type"`
}

// MonthlyForecast is a pure post-processing sum over a 30-day daily run.
type MonthlyForecast struct {
	PredictedMonthlyKWh  float64            `json:"predicted_monthly_kwh"`
	PredictedMonthlyCost float64            `json:"predicted_monthly_cost"`
	DailyPredictions     []PredictionRecord `json:"daily_predictions"`
}

// Insight is a generated energy-saving observation for the dashboard.
type Insight struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}
