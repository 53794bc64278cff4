package store

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

const (
	tableUsers         = "users"
	tableEnergyRecords = "energy_records"
	tablePredictions   = "predictions"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns the squirrel SQL builder configured for Postgres.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
