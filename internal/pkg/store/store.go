package store

import (
	"context"
	"time"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Energy records and aggregates.
	InsertEnergyRecord(ctx context.Context, rec *domain.EnergyRecord) (*domain.EnergyRecord, error)
	ListEnergyRecords(ctx context.Context, opts ListEnergyRecordsOpts) ([]*domain.EnergyRecord, error)
	DailyAggregates(ctx context.Context, userID int64, since time.Time) ([]*domain.DailyAggregate, error)
	ApplianceAggregates(ctx context.Context, userID int64) ([]*domain.ApplianceAggregate, error)
	MonthlyAggregates(ctx context.Context, userID int64, months int) ([]*domain.MonthlyAggregate, error)
	HourlyAverages(ctx context.Context, userID int64) ([]*domain.HourlyAverage, error)

	// Prediction audit trail.
	InsertPredictions(ctx context.Context, userID int64, recs []domain.PredictionRecord) error
	ListPredictions(ctx context.Context, userID int64, horizon domain.HorizonType, limit uint64) ([]*domain.PredictionRecord, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
