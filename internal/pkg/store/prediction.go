package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ebalakin/enertrack/internal/domain"
)

var predictionColumns = []string{
	"prediction_date", "predicted_kwh", "predicted_cost", "confidence_score", "horizon_type",
}

func (s *store) InsertPredictions(ctx context.Context, userID int64, recs []domain.PredictionRecord) error {
	if len(recs) == 0 {
		return nil
	}

	query := builder().Insert(tablePredictions).
		Columns("user_id", "prediction_date", "predicted_kwh", "predicted_cost", "confidence_score", "horizon_type")

	for _, rec := range recs {
		query = query.Values(userID, rec.Date, rec.PredictedKWh, rec.PredictedCost, rec.ConfidenceScore, rec.HorizonType)
	}

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return fmt.Errorf("insert predictions: %w", wrapErr(err))
	}

	return nil
}

func (s *store) ListPredictions(ctx context.Context, userID int64, horizon domain.HorizonType, limit uint64) ([]*domain.PredictionRecord, error) {
	query := builder().Select(predictionColumns...).
		From(tablePredictions).
		Where(sq.And{
			sq.Eq{"user_id": userID},
			sq.Eq{"horizon_type": horizon},
		}).
		OrderBy("prediction_date DESC").
		Limit(limit)

	var selected []*domain.PredictionRecord
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
