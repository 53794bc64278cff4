package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64           `db:"id" json:"user_id"`
	Username      string          `db:"username" json:"username"`
	Email         string          `db:"email" json:"email"`
	PasswordHash  string          `db:"password_hash" json:"-"`
	FullName      string          `db:"full_name" json:"full_name"`
	HouseholdSize int             `db:"household_size" json:"household_size"`
	TariffRate    decimal.Decimal `db:"tariff_rate" json:"tariff_rate"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
